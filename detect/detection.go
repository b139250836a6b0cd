// Package detect provides the detection adapter around a pretrained object
// detection model.  Detections are returned with bounding boxes normalized
// to the 0-1 range of the source frame so downstream tracking is
// independent of the frame resolution.
package detect

// Box is a bounding box normalized to the 0-1 range of the source frame
type Box struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	W float32 `json:"w"`
	H float32 `json:"h"`
}

// Center returns the center point of the box
func (b Box) Center() Point {
	return Point{
		X: b.X + b.W/2,
		Y: b.Y + b.H/2,
	}
}

// Point is a normalized 0-1 coordinate pair
type Point struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
}

// Detection is a single object detected in one frame.  Detections carry no
// identity across frames, identity is assigned by the tracker.
type Detection struct {
	// Box is the normalized bounding box of the object
	Box Box
	// Confidence is the detection score in the range 0-1
	Confidence float32
	// ClassID is the model's class index for the object
	ClassID int
	// ClassName is the label for ClassID, eg: "person"
	ClassName string
}

// FilterByClass returns the detections matching the given class name
func FilterByClass(dets []Detection, className string) []Detection {

	var out []Detection

	for _, d := range dets {
		if d.ClassName == className {
			out = append(out, d)
		}
	}

	return out
}

// FilterByConfidence returns the detections at or above the given minimum
// confidence
func FilterByConfidence(dets []Detection, minConfidence float32) []Detection {

	var out []Detection

	for _, d := range dets {
		if d.Confidence >= minConfidence {
			out = append(out, d)
		}
	}

	return out
}

// HighestConfidenceBall returns the most confident sports ball detection,
// or nil when the frame contains none
func HighestConfidenceBall(dets []Detection) *Detection {

	var best *Detection

	for i := range dets {
		if dets[i].ClassName != LabelSportsBall {
			continue
		}

		if best == nil || dets[i].Confidence > best.Confidence {
			best = &dets[i]
		}
	}

	return best
}
