package tracker

import (
	"fmt"
	"sort"
)

// lowRecoveryCostLimit is the fixed IoU distance gate for the second-pass
// association of low-confidence detections
const lowRecoveryCostLimit = 0.5

// Params holds the tuning for one association engine.  All values are
// explicit, the engine applies no hidden defaults.
type Params struct {
	// ActivationThreshold is the minimum detection confidence required to
	// spawn or confirm a track.  Detections below it are only eligible for
	// the second-pass recovery match.
	ActivationThreshold float32
	// MatchThreshold is the maximum IoU distance (1 - IoU) between a
	// predicted track position and a detection for the pair to be
	// matchable
	MatchThreshold float32
	// MissBuffer is the maximum number of consecutive unmatched frames a
	// track survives before removal
	MissBuffer int
}

// Engine associates per-frame detections with persistent tracks using
// two-phase confidence-gated IoU matching.  It exclusively owns the set of
// live tracks and must not be shared between concurrent jobs.
type Engine struct {
	params Params
	// frameID is the current frame counter
	frameID int
	// trackIDCount issues unique track IDs, never reused
	trackIDCount int
	// tracks is the pool of live tracks in ascending track ID order
	tracks []*Track
}

// NewEngine initializes and returns a new association Engine
func NewEngine(params Params) *Engine {
	return &Engine{
		params: params,
	}
}

// Reset clears all track state and the ID counter so the engine can be
// reused for a new sequence
func (e *Engine) Reset() {
	e.frameID = 0
	e.trackIDCount = 0
	e.tracks = nil
}

// Tracks returns the live track pool in ascending track ID order.  The
// engine retains ownership of the returned tracks.
func (e *Engine) Tracks() []*Track {
	return e.tracks
}

// Update advances the engine one frame with the given detections and
// returns the confirmed tracks associated on this frame in ascending
// track ID order.  A frame with zero detections only ages existing tracks.
func (e *Engine) Update(objects []Object) ([]*Track, error) {

	e.frameID++

	// split detections at the activation threshold
	var detHigh, detLow []*Track

	for _, obj := range objects {

		cand := newCandidate(
			NewRect(obj.Rect.X(), obj.Rect.Y(), obj.Rect.Width(), obj.Rect.Height()),
			obj.Score, obj.Class)

		if obj.Score >= e.params.ActivationThreshold {
			detHigh = append(detHigh, cand)
		} else {
			detLow = append(detLow, cand)
		}
	}

	// predict every live track's expected position this frame
	for _, t := range e.tracks {
		t.predict()
	}

	matched := make([]bool, len(e.tracks))

	// first association: high confidence detections against the full pool
	matches, unmatchedTracks, unmatchedDets, err := e.associate(
		e.tracks, detHigh, e.params.MatchThreshold)

	if err != nil {
		return nil, fmt.Errorf("first association failed: %w", err)
	}

	for _, m := range matches {
		if err := e.tracks[m[0]].update(detHigh[m[1]], e.frameID); err != nil {
			return nil, fmt.Errorf("first association failed: %w", err)
		}
		matched[m[0]] = true
	}

	// second association: recover low confidence detections against
	// confirmed tracks the first pass left unmatched.  Tracks already lost
	// for a frame or more are not eligible.
	var recovery []*Track
	var recoveryIdx []int

	for _, ti := range unmatchedTracks {
		if e.tracks[ti].state == Confirmed {
			recovery = append(recovery, e.tracks[ti])
			recoveryIdx = append(recoveryIdx, ti)
		}
	}

	matches, _, _, err = e.associate(recovery, detLow, lowRecoveryCostLimit)

	if err != nil {
		return nil, fmt.Errorf("second association failed: %w", err)
	}

	for _, m := range matches {
		if err := recovery[m[0]].update(detLow[m[1]], e.frameID); err != nil {
			return nil, fmt.Errorf("second association failed: %w", err)
		}
		matched[recoveryIdx[m[0]]] = true
	}

	// age every track unmatched by both passes
	for i, t := range e.tracks {
		if !matched[i] {
			t.miss(e.params.MissBuffer)
		}
	}

	// spawn tentative tracks from unmatched high confidence detections
	for _, di := range unmatchedDets {
		e.trackIDCount++
		cand := detHigh[di]
		cand.activate(e.frameID, e.trackIDCount)
		e.tracks = append(e.tracks, cand)
	}

	// evict removed tracks, preserving ascending track ID order
	live := e.tracks[:0]

	for _, t := range e.tracks {
		if t.state != Removed {
			live = append(live, t)
		}
	}

	e.tracks = live

	// emit the confirmed tracks updated this frame
	var out []*Track

	for _, t := range e.tracks {
		if t.state == Confirmed && t.frameID == e.frameID {
			out = append(out, t)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].trackID < out[j].trackID
	})

	return out, nil
}

// associate solves the assignment between tracks and detections using the
// IoU distance matrix with the given cost limit.  Matches are returned as
// (track index, detection index) pairs along with the unmatched indexes of
// either side.
func (e *Engine) associate(tracks, dets []*Track, costLimit float32) (
	matches [][2]int, unmatchedTracks, unmatchedDets []int, err error) {

	if len(tracks) == 0 || len(dets) == 0 {
		for i := range tracks {
			unmatchedTracks = append(unmatchedTracks, i)
		}
		for j := range dets {
			unmatchedDets = append(unmatchedDets, j)
		}
		return
	}

	rowsol, colsol, err := solveAssignment(iouDistance(tracks, dets), costLimit)

	if err != nil {
		return nil, nil, nil, err
	}

	for i, sol := range rowsol {
		if sol >= 0 {
			matches = append(matches, [2]int{i, sol})
		} else {
			unmatchedTracks = append(unmatchedTracks, i)
		}
	}

	for j, sol := range colsol {
		if sol < 0 {
			unmatchedDets = append(unmatchedDets, j)
		}
	}

	return
}

// iouDistance builds the cost matrix between predicted track positions and
// detections as 1-IoU
func iouDistance(tracks, dets []*Track) [][]float32 {

	cost := make([][]float32, len(tracks))

	for i, t := range tracks {
		cost[i] = make([]float32, len(dets))

		for j, d := range dets {
			cost[i][j] = 1 - t.rect.IoU(d.rect)
		}
	}

	return cost
}
