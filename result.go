package fieldtrack

import (
	"encoding/json"
	"os"

	"github.com/fieldvision/go-fieldtrack/detect"
)

// TrackFrame is one frame of a track's history
type TrackFrame struct {
	FrameNumber int          `json:"frameNumber"`
	Timestamp   float64      `json:"timestamp"`
	Box         detect.Box   `json:"bbox"`
	Center      detect.Point `json:"center"`
	Confidence  float32      `json:"confidence"`
}

// TrackData is the full frame history of one tracked player
type TrackData struct {
	TrackID string       `json:"trackId"`
	Frames  []TrackFrame `json:"frames"`
}

// BallEntry is one observation in the ball timeline
type BallEntry struct {
	FrameNumber int          `json:"frameNumber"`
	Timestamp   float64      `json:"timestamp"`
	Position    detect.Point `json:"position"`
	Confidence  float32      `json:"confidence"`
	Visible     bool         `json:"visible"`
}

// Metadata summarises a processing run
type Metadata struct {
	Source             string  `json:"source"`
	TotalFrames        int     `json:"totalFrames"`
	ProcessedFrames    int     `json:"processedFrames"`
	FPS                float64 `json:"fps"`
	Width              int     `json:"width"`
	Height             int     `json:"height"`
	ConfThreshold      float32 `json:"confThreshold"`
	TrackCount         int     `json:"tracksCount"`
	BallDetectionCount int     `json:"ballDetectionsCount"`
}

// Result is the aggregate output of a processing run
type Result struct {
	Tracks   []TrackData `json:"tracks"`
	Ball     []BallEntry `json:"ball"`
	Metadata Metadata    `json:"metadata"`
}

// ResultSink consumes a completed result
type ResultSink interface {
	Write(result *Result) error
}

// JSONFileSink writes results to a JSON file
type JSONFileSink struct {
	// Path is the output file path
	Path string
	// Indent enables pretty printed output
	Indent bool
}

// Write marshals the result and writes it to the configured path
func (s *JSONFileSink) Write(result *Result) error {

	var (
		data []byte
		err  error
	)

	if s.Indent {
		data, err = json.MarshalIndent(result, "", "  ")
	} else {
		data, err = json.Marshal(result)
	}

	if err != nil {
		return err
	}

	return os.WriteFile(s.Path, data, 0644)
}
