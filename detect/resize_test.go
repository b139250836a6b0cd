package detect

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResizerPreCalc(t *testing.T) {

	tests := []struct {
		name          string
		srcW, srcH    int
		wantScale     float32
		wantXPad      int
		wantYPad      int
	}{
		{
			name:      "landscape 1920x1080",
			srcW:      1920,
			srcH:      1080,
			wantScale: 640.0 / 1920.0,
			wantXPad:  0,
			wantYPad:  140,
		},
		{
			name:      "portrait 1080x1920",
			srcW:      1080,
			srcH:      1920,
			wantScale: 640.0 / 1920.0,
			wantXPad:  140,
			wantYPad:  0,
		},
		{
			name:      "square 640x640",
			srcW:      640,
			srcH:      640,
			wantScale: 1.0,
			wantXPad:  0,
			wantYPad:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResizer(tt.srcW, tt.srcH, 640, 640)

			assert.InDelta(t, tt.wantScale, r.ScaleFactor(), 1e-6)
			assert.Equal(t, tt.wantXPad, r.XPad())
			assert.Equal(t, tt.wantYPad, r.YPad())
			assert.Equal(t, tt.srcW, r.SrcWidth())
			assert.Equal(t, tt.srcH, r.SrcHeight())
		})
	}
}

func TestLetterBoxResize(t *testing.T) {

	// uniform red source so scaled pixels are unambiguous
	src := image.NewRGBA(image.Rect(0, 0, 1920, 1080))
	red := color.RGBA{R: 255, A: 255}

	for y := 0; y < 1080; y++ {
		for x := 0; x < 1920; x++ {
			src.SetRGBA(x, y, red)
		}
	}

	r := NewResizer(1920, 1080, 640, 640)

	pad := color.RGBA{R: 114, G: 114, B: 114, A: 255}
	dest := r.LetterBoxResize(src, pad)

	require.Equal(t, 640, dest.Bounds().Dx())
	require.Equal(t, 640, dest.Bounds().Dy())

	// padding band above and below the scaled content
	assert.Equal(t, pad, dest.RGBAAt(320, 10))
	assert.Equal(t, pad, dest.RGBAAt(320, 630))

	// scaled content fills the middle band
	assert.Equal(t, red, dest.RGBAAt(320, 320))
	assert.Equal(t, red, dest.RGBAAt(10, 200))
	assert.Equal(t, red, dest.RGBAAt(630, 480))
}
