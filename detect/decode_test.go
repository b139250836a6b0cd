package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildOutput builds a synthetic output tensor striped across the box
// count as (cx, cy, w, h, class scores...)
func buildOutput(boxCount int, rows [][]float32) []float32 {

	data := make([]float32, len(rows[0])*boxCount)

	for i, row := range rows {
		for c, v := range row {
			data[c*boxCount+i] = v
		}
	}

	return data
}

func TestDecodeBoxesSquareSource(t *testing.T) {

	labels := []string{"person", "ball"}

	// source matches the tensor size so no letterbox transform applies
	r := NewResizer(640, 640, 640, 640)

	data := buildOutput(2, [][]float32{
		// confident person at (100,100) center
		{100, 100, 40, 80, 0.9, 0.1},
		// below the confidence threshold
		{320, 320, 20, 20, 0.1, 0.05},
	})

	dets := decodeBoxes(data, labels, r, Options{ConfThreshold: 0.5})

	require.Len(t, dets, 1)

	assert.Equal(t, 0, dets[0].ClassID)
	assert.Equal(t, "person", dets[0].ClassName)
	assert.InDelta(t, 0.9, dets[0].Confidence, 1e-6)
	assert.InDelta(t, 80.0/640.0, dets[0].Box.X, 1e-5)
	assert.InDelta(t, 60.0/640.0, dets[0].Box.Y, 1e-5)
	assert.InDelta(t, 40.0/640.0, dets[0].Box.W, 1e-5)
	assert.InDelta(t, 80.0/640.0, dets[0].Box.H, 1e-5)
}

func TestDecodeBoxesLetterboxed(t *testing.T) {

	labels := []string{"person", "ball"}

	// 1280x720 source letterboxes to scale 0.5 with 140px vertical padding
	r := NewResizer(1280, 720, 640, 640)

	require.InDelta(t, 0.5, r.ScaleFactor(), 1e-6)
	require.Equal(t, 140, r.YPad())

	data := buildOutput(1, [][]float32{
		{320, 320, 100, 50, 0.2, 0.8},
	})

	dets := decodeBoxes(data, labels, r, Options{ConfThreshold: 0.5})

	require.Len(t, dets, 1)

	assert.Equal(t, 1, dets[0].ClassID)
	assert.Equal(t, "ball", dets[0].ClassName)
	assert.InDelta(t, 540.0/1280.0, dets[0].Box.X, 1e-5)
	assert.InDelta(t, 310.0/720.0, dets[0].Box.Y, 1e-5)
	assert.InDelta(t, 200.0/1280.0, dets[0].Box.W, 1e-5)
	assert.InDelta(t, 100.0/720.0, dets[0].Box.H, 1e-5)
}

func TestDecodeBoxesClassFilter(t *testing.T) {

	labels := []string{"person", "ball"}
	r := NewResizer(640, 640, 640, 640)

	data := buildOutput(2, [][]float32{
		{100, 100, 40, 80, 0.9, 0.1},
		{300, 300, 30, 30, 0.1, 0.85},
	})

	dets := decodeBoxes(data, labels, r, Options{
		ConfThreshold: 0.5,
		Classes:       []int{1},
	})

	require.Len(t, dets, 1)
	assert.Equal(t, 1, dets[0].ClassID)
}
