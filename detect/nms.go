package detect

import (
	"sort"

	"github.com/chewxy/math32"
)

// nonMaxSuppression removes overlapping detections of the same class,
// keeping the highest scoring box of each overlapping cluster.  The input
// slice is reordered in place.
func nonMaxSuppression(detections []Detection, iouThreshold float32) []Detection {

	if len(detections) == 0 {
		return detections
	}

	// sort by confidence score descending
	sort.Slice(detections, func(i, j int) bool {
		return detections[i].Confidence > detections[j].Confidence
	})

	var result []Detection
	used := make([]bool, len(detections))

	for i := 0; i < len(detections); i++ {
		if used[i] {
			continue
		}

		result = append(result, detections[i])
		used[i] = true

		// suppress remaining detections of the same class that overlap
		for j := i + 1; j < len(detections); j++ {
			if used[j] {
				continue
			}

			if detections[j].ClassID != detections[i].ClassID {
				continue
			}

			if boxIoU(detections[i].Box, detections[j].Box) > iouThreshold {
				used[j] = true
			}
		}
	}

	return result
}

// boxIoU computes intersection over union for two boxes in top-left
// width/height form
func boxIoU(a, b Box) float32 {

	ix := math32.Min(a.X+a.W, b.X+b.W) - math32.Max(a.X, b.X)
	iy := math32.Min(a.Y+a.H, b.Y+b.H) - math32.Max(a.Y, b.Y)

	if ix <= 0 || iy <= 0 {
		return 0
	}

	inter := ix * iy
	union := a.W*a.H + b.W*b.H - inter

	if union <= 0 {
		return 0
	}

	return inter / union
}
