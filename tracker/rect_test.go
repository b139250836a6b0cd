package tracker

import (
	"testing"
)

// TestRectIoU checks the overlap ratio in table form
func TestRectIoU(t *testing.T) {

	tests := []struct {
		name string
		a    Rect
		b    Rect
		want float32
	}{
		{
			name: "identical",
			a:    NewRect(10, 10, 100, 200),
			b:    NewRect(10, 10, 100, 200),
			want: 1.0,
		},
		{
			name: "disjoint",
			a:    NewRect(0, 0, 50, 50),
			b:    NewRect(100, 100, 50, 50),
			want: 0.0,
		},
		{
			name: "touching edges",
			a:    NewRect(0, 0, 50, 50),
			b:    NewRect(50, 0, 50, 50),
			want: 0.0,
		},
		{
			name: "half overlap",
			a:    NewRect(0, 0, 100, 100),
			b:    NewRect(50, 0, 100, 100),
			want: 50.0 * 100 / (2*100*100 - 50*100),
		},
		{
			name: "contained",
			a:    NewRect(0, 0, 100, 100),
			b:    NewRect(25, 25, 50, 50),
			want: 50.0 * 50 / (100 * 100),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.a.IoU(tt.b)

			if !almostEqual(got, tt.want, 1e-5) {
				t.Errorf("IoU = %v, want %v", got, tt.want)
			}

			// IoU is symmetric
			if rev := tt.b.IoU(tt.a); !almostEqual(rev, got, 1e-6) {
				t.Errorf("IoU not symmetric: %v vs %v", got, rev)
			}
		})
	}
}

// TestRectXyahRoundTrip checks conversion to center/aspect/height form and
// back
func TestRectXyahRoundTrip(t *testing.T) {

	r := NewRect(100, 50, 60, 120)

	xyah := r.GetXyah()

	if !almostEqual(xyah[0], 130, 1e-5) || !almostEqual(xyah[1], 110, 1e-5) {
		t.Errorf("unexpected center: %v", xyah)
	}

	if !almostEqual(xyah[2], 0.5, 1e-5) || !almostEqual(xyah[3], 120, 1e-5) {
		t.Errorf("unexpected aspect/height: %v", xyah)
	}

	back := GenerateRectByXyah(xyah)

	if !almostEqual(back.X(), 100, 1e-4) ||
		!almostEqual(back.Y(), 50, 1e-4) ||
		!almostEqual(back.Width(), 60, 1e-4) ||
		!almostEqual(back.Height(), 120, 1e-4) {
		t.Errorf("round trip mismatch: %v", back)
	}
}
