package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNonMaxSuppression(t *testing.T) {

	dets := []Detection{
		{
			Box:        Box{X: 0.10, Y: 0.10, W: 0.20, H: 0.20},
			Confidence: 0.9,
			ClassID:    0,
			ClassName:  "person",
		},
		{
			// heavy overlap with the first, lower score, suppressed
			Box:        Box{X: 0.11, Y: 0.11, W: 0.20, H: 0.20},
			Confidence: 0.6,
			ClassID:    0,
			ClassName:  "person",
		},
		{
			// same overlap but a different class survives
			Box:        Box{X: 0.11, Y: 0.11, W: 0.20, H: 0.20},
			Confidence: 0.5,
			ClassID:    32,
			ClassName:  "sports ball",
		},
		{
			// same class but disjoint survives
			Box:        Box{X: 0.70, Y: 0.70, W: 0.20, H: 0.20},
			Confidence: 0.8,
			ClassID:    0,
			ClassName:  "person",
		},
	}

	result := nonMaxSuppression(dets, 0.45)

	require.Len(t, result, 3)

	// results come back in descending score order
	assert.Equal(t, float32(0.9), result[0].Confidence)
	assert.Equal(t, float32(0.8), result[1].Confidence)
	assert.Equal(t, float32(0.5), result[2].Confidence)
	assert.Equal(t, 32, result[2].ClassID)
}

func TestNonMaxSuppressionEmpty(t *testing.T) {
	assert.Empty(t, nonMaxSuppression(nil, 0.45))
}

func TestBoxIoU(t *testing.T) {

	a := Box{X: 0, Y: 0, W: 0.2, H: 0.2}

	assert.InDelta(t, 1.0, boxIoU(a, a), 1e-6)

	b := Box{X: 0.5, Y: 0.5, W: 0.2, H: 0.2}
	assert.Equal(t, float32(0), boxIoU(a, b))

	c := Box{X: 0.1, Y: 0, W: 0.2, H: 0.2}
	assert.InDelta(t, 1.0/3.0, boxIoU(a, c), 1e-6)
}
