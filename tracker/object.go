package tracker

// Object represents a single-frame detection fed to the association engine.
// Objects are transient, they are consumed by Engine.Update and not
// retained across frames.
type Object struct {
	// Rect is the bounding box of the detected object
	Rect Rect
	// Class is the class label index of the object detected
	Class int
	// Score is the confidence of the detection in the range 0-1
	Score float32
}

// NewObject is a constructor function for the Object struct
func NewObject(rect Rect, class int, score float32) Object {
	return Object{
		Rect:  rect,
		Class: class,
		Score: score,
	}
}
