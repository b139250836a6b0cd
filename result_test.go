package fieldtrack

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldvision/go-fieldtrack/detect"
)

func sampleResult() *Result {
	return &Result{
		Tracks: []TrackData{
			{
				TrackID: "track_1",
				Frames: []TrackFrame{
					{
						FrameNumber: 0,
						Timestamp:   0,
						Box:         detect.Box{X: 0.1, Y: 0.2, W: 0.05, H: 0.1},
						Center:      detect.Point{X: 0.125, Y: 0.25},
						Confidence:  0.9,
					},
				},
			},
		},
		Ball: []BallEntry{
			{
				FrameNumber: 0,
				Timestamp:   0,
				Position:    detect.Point{X: 0.5, Y: 0.5},
				Confidence:  0.4,
				Visible:     true,
			},
		},
		Metadata: Metadata{
			Source:             "match.mp4",
			TotalFrames:        1,
			ProcessedFrames:    1,
			FPS:                30,
			Width:              1920,
			Height:             1080,
			ConfThreshold:      0.3,
			TrackCount:         1,
			BallDetectionCount: 1,
		},
	}
}

func TestResultJSONSchema(t *testing.T) {

	data, err := json.Marshal(sampleResult())
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	require.Contains(t, decoded, "tracks")
	require.Contains(t, decoded, "ball")
	require.Contains(t, decoded, "metadata")

	track := decoded["tracks"].([]any)[0].(map[string]any)
	assert.Equal(t, "track_1", track["trackId"])

	frame := track["frames"].([]any)[0].(map[string]any)
	assert.Contains(t, frame, "frameNumber")
	assert.Contains(t, frame, "timestamp")
	assert.Contains(t, frame, "bbox")
	assert.Contains(t, frame, "center")

	bbox := frame["bbox"].(map[string]any)
	assert.Contains(t, bbox, "x")
	assert.Contains(t, bbox, "w")

	ball := decoded["ball"].([]any)[0].(map[string]any)
	assert.Contains(t, ball, "position")
	assert.Equal(t, true, ball["visible"])

	metadata := decoded["metadata"].(map[string]any)
	assert.Contains(t, metadata, "processedFrames")
	assert.Contains(t, metadata, "ballDetectionsCount")
}

func TestJSONFileSink(t *testing.T) {

	path := filepath.Join(t.TempDir(), "result.json")

	sink := &JSONFileSink{Path: path, Indent: true}
	require.NoError(t, sink.Write(sampleResult()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded Result
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "track_1", decoded.Tracks[0].TrackID)
	assert.Equal(t, 1, decoded.Metadata.ProcessedFrames)
	assert.Len(t, decoded.Ball, 1)
}
