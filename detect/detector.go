package detect

import (
	"context"
	"fmt"
	"image"

	"github.com/pkg/errors"
)

// ErrInvalidFrame indicates the input was not a well-formed 2-D image
// buffer.  Callers decide whether to skip the frame or abort the job.
var ErrInvalidFrame = errors.New("invalid frame buffer")

// ModelLoadError indicates the underlying model could not be loaded at
// detector construction.  It is fatal, no retries are attempted.
type ModelLoadError struct {
	// Path is the model file that failed to load
	Path string
	// Err is the underlying cause
	Err error
}

// Error implements the error interface
func (e *ModelLoadError) Error() string {
	return fmt.Sprintf("failed to load model %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying cause
func (e *ModelLoadError) Unwrap() error {
	return e.Err
}

// Options control a single Detect call
type Options struct {
	// ConfThreshold is the minimum confidence for a detection to be
	// returned
	ConfThreshold float32
	// Classes restricts results to the given class indexes.  An empty
	// slice returns all classes.
	Classes []int
}

// Detector is the contract for a pretrained object detection model.  A
// frame-level detection failure is reported to the caller, the detector
// performs no retries.  Implementations may hold exclusive device
// resources and must be safe to call from one goroutine at a time.
type Detector interface {
	// Detect returns the detections for the given frame restricted to the
	// requested classes and confidence threshold
	Detect(ctx context.Context, frame image.Image, opts Options) ([]Detection, error)
	// Close releases model resources
	Close() error
}

// validFrame reports whether the image is a usable 2-D frame buffer
func validFrame(frame image.Image) bool {

	if frame == nil {
		return false
	}

	b := frame.Bounds()

	return b.Dx() > 0 && b.Dy() > 0
}
