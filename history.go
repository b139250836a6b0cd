package fieldtrack

import (
	"fmt"

	"github.com/fieldvision/go-fieldtrack/tracker"
)

// trackHistory accumulates per-track frame histories over a processing run.
// Track order follows first appearance so output ordering is repeatable.
type trackHistory struct {
	// order of track ids by first appearance
	order []int
	// history of frames per track id
	frames map[int][]TrackFrame
}

func newTrackHistory() *trackHistory {
	return &trackHistory{
		frames: make(map[int][]TrackFrame),
	}
}

// add appends a tracked detection to its track's history
func (h *trackHistory) add(td tracker.TrackedDetection) {

	if _, exists := h.frames[td.TrackID]; !exists {
		h.order = append(h.order, td.TrackID)
	}

	h.frames[td.TrackID] = append(h.frames[td.TrackID], TrackFrame{
		FrameNumber: td.FrameNumber,
		Timestamp:   td.Timestamp,
		Box:         td.Box,
		Center:      td.Center,
		Confidence:  td.Confidence,
	})
}

// tracks builds the per-track result data in first appearance order
func (h *trackHistory) tracks() []TrackData {

	tracks := make([]TrackData, 0, len(h.order))

	for _, id := range h.order {
		tracks = append(tracks, TrackData{
			TrackID: fmt.Sprintf("track_%d", id),
			Frames:  h.frames[id],
		})
	}

	return tracks
}
