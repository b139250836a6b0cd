package fieldtrack

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	// register decoders for the image directory source
	_ "image/jpeg"
	_ "image/png"
)

// VideoMeta describes a frame source
type VideoMeta struct {
	// Source identifies where the frames come from, such as a file path
	Source string
	// TotalFrames is the number of frames available, 0 when unknown
	TotalFrames int
	// FrameRate is the source frame rate in frames per second
	FrameRate float64
	// Width and Height are the frame dimensions in pixels
	Width  int
	Height int
}

// FrameSource supplies video frames to the pipeline in order.  Next returns
// io.EOF after the final frame.
type FrameSource interface {
	Next() (image.Image, error)
	Meta() VideoMeta
	Close() error
}

// ImageDirSource is a FrameSource reading a directory of numbered jpeg or
// png frame images in lexical filename order
type ImageDirSource struct {
	meta  VideoMeta
	files []string
	pos   int
}

// NewImageDirSource opens a directory of frame images as a frame source.
// The given frame rate is reported in the source metadata for timestamping.
func NewImageDirSource(dir string, frameRate float64) (*ImageDirSource, error) {

	entries, err := os.ReadDir(dir)

	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrVideoOpen, dir, err)
	}

	var files []string

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".jpg", ".jpeg", ".png":
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w: %s has no frame images", ErrVideoOpen, dir)
	}

	sort.Strings(files)

	// read the first frame's dimensions for the metadata
	f, err := os.Open(files[0])

	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrVideoOpen, files[0], err)
	}

	cfg, _, err := image.DecodeConfig(f)
	f.Close()

	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrVideoOpen, files[0], err)
	}

	return &ImageDirSource{
		meta: VideoMeta{
			Source:      dir,
			TotalFrames: len(files),
			FrameRate:   frameRate,
			Width:       cfg.Width,
			Height:      cfg.Height,
		},
		files: files,
	}, nil
}

// Next decodes and returns the next frame image, or io.EOF when the
// directory is exhausted
func (s *ImageDirSource) Next() (image.Image, error) {

	if s.pos >= len(s.files) {
		return nil, io.EOF
	}

	file := s.files[s.pos]
	s.pos++

	f, err := os.Open(file)

	if err != nil {
		return nil, fmt.Errorf("opening frame %s: %w", file, err)
	}

	defer f.Close()

	img, _, err := image.Decode(f)

	if err != nil {
		return nil, fmt.Errorf("decoding frame %s: %w", file, err)
	}

	return img, nil
}

// Meta returns the source metadata
func (s *ImageDirSource) Meta() VideoMeta {
	return s.meta
}

// Close releases the source.  ImageDirSource holds no resources between
// frames so this is a no-op.
func (s *ImageDirSource) Close() error {
	return nil
}
