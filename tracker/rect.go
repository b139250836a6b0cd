package tracker

import (
	"github.com/chewxy/math32"
)

// Tlwh (top-left x, top-left y, width, height) represents a 1x4 matrix
type Tlwh []float32

// Xyah (center x, center y, aspect ratio, height) represents a 1x4 matrix
type Xyah []float32

// Rect represents a bounding box in Tlwh (top-left, width, height) format
type Rect struct {
	Tlwh Tlwh
}

// NewRect creates a new Rect with given coordinates
func NewRect(x, y, width, height float32) Rect {
	return Rect{
		Tlwh: Tlwh{x, y, width, height},
	}
}

// X returns the x coordinate of the rectangle
func (r *Rect) X() float32 {
	return r.Tlwh[0]
}

// Y returns the y coordinate of the rectangle
func (r *Rect) Y() float32 {
	return r.Tlwh[1]
}

// Width returns the width of the rectangle
func (r *Rect) Width() float32 {
	return r.Tlwh[2]
}

// Height returns the height of the rectangle
func (r *Rect) Height() float32 {
	return r.Tlwh[3]
}

// SetX sets the x coordinate of the rectangle
func (r *Rect) SetX(x float32) {
	r.Tlwh[0] = x
}

// SetY sets the y coordinate of the rectangle
func (r *Rect) SetY(y float32) {
	r.Tlwh[1] = y
}

// SetWidth sets the width of the rectangle
func (r *Rect) SetWidth(width float32) {
	r.Tlwh[2] = width
}

// SetHeight sets the height of the rectangle
func (r *Rect) SetHeight(height float32) {
	r.Tlwh[3] = height
}

// CenterX returns the x coordinate of the rectangle's center point
func (r *Rect) CenterX() float32 {
	return r.Tlwh[0] + r.Tlwh[2]/2
}

// CenterY returns the y coordinate of the rectangle's center point
func (r *Rect) CenterY() float32 {
	return r.Tlwh[1] + r.Tlwh[3]/2
}

// GetXyah converts the rectangle to Xyah (center x, center y, aspect ratio,
// height) format used as the Kalman filter measurement
func (r *Rect) GetXyah() Xyah {
	return Xyah{
		r.Tlwh[0] + r.Tlwh[2]/2,
		r.Tlwh[1] + r.Tlwh[3]/2,
		r.Tlwh[2] / r.Tlwh[3],
		r.Tlwh[3],
	}
}

// IoU calculates the Intersection over Union with another rectangle.
// Both rectangles must be in the same coordinate space.
func (r *Rect) IoU(other Rect) float32 {

	iw := math32.Min(r.Tlwh[0]+r.Tlwh[2], other.Tlwh[0]+other.Tlwh[2]) -
		math32.Max(r.Tlwh[0], other.Tlwh[0])

	if iw <= 0 {
		return 0
	}

	ih := math32.Min(r.Tlwh[1]+r.Tlwh[3], other.Tlwh[1]+other.Tlwh[3]) -
		math32.Max(r.Tlwh[1], other.Tlwh[1])

	if ih <= 0 {
		return 0
	}

	inter := iw * ih
	union := r.Tlwh[2]*r.Tlwh[3] + other.Tlwh[2]*other.Tlwh[3] - inter

	if union <= 0 {
		return 0
	}

	return inter / union
}

// GenerateRectByXyah creates a Rect from Xyah (center x, center y,
// aspect ratio, height) format
func GenerateRectByXyah(xyah Xyah) Rect {
	width := xyah[2] * xyah[3]
	return NewRect(xyah[0]-width/2, xyah[1]-xyah[3]/2, width, xyah[3])
}
