package tracker

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// State represents the lifecycle state of a track
type State int

const (
	// Tentative is a newly created track that has not yet been confirmed
	Tentative State = iota
	// Confirmed is a track matched at least once with confidence above the
	// activation threshold
	Confirmed
	// Lost is a track unmatched for one or more frames, still eligible for
	// re-matching
	Lost
	// Removed is the terminal state, the miss buffer was exceeded
	Removed
)

// String returns a readable name for the track state
func (s State) String() string {
	switch s {
	case Tentative:
		return "tentative"
	case Confirmed:
		return "confirmed"
	case Lost:
		return "lost"
	case Removed:
		return "removed"
	}
	return "unknown"
}

// Track represents a persistent identity assigned to a physical object
// across frames.  Tracks are owned exclusively by the Engine that created
// them.
type Track struct {
	// Kalman filter holding the constant-velocity motion state
	kalmanFilter *KalmanFilter
	// mean state vector (position plus velocity estimate)
	mean StateMean
	// covariance matrix
	covariance StateCov
	// rect is the current bounding box of the tracked object
	rect Rect
	// state is the current lifecycle state
	state State
	// score is the confidence of the last associated detection
	score float32
	// trackID is the unique ID for the track, never reused
	trackID int
	// class is the object class label index
	class int
	// misses counts consecutive unmatched frames
	misses int
	// frameID is the frame the track was last updated on
	frameID int
	// startFrameID is the frame the track started on
	startFrameID int
	// hits counts the number of successful associations
	hits int
}

// newCandidate wraps a detection as an unassigned track candidate.  It only
// becomes part of the engine's pool if it spawns via activate.
func newCandidate(rect Rect, score float32, class int) *Track {
	return &Track{
		kalmanFilter: NewKalmanFilter(1.0/20, 1.0/160),
		mean:         make(StateMean, 8),
		covariance:   StateCov{mat.NewDense(8, 8, nil)},
		rect:         rect,
		state:        Tentative,
		score:        score,
		class:        class,
	}
}

// Rect returns the current bounding box of the tracked object
func (t *Track) Rect() *Rect {
	return &t.rect
}

// State returns the current lifecycle state of the track
func (t *Track) State() State {
	return t.state
}

// Score returns the confidence of the last associated detection
func (t *Track) Score() float32 {
	return t.score
}

// TrackID returns the unique ID for the track
func (t *Track) TrackID() int {
	return t.trackID
}

// Class returns the object class label index
func (t *Track) Class() int {
	return t.class
}

// Misses returns the current consecutive-miss count
func (t *Track) Misses() int {
	return t.misses
}

// FrameID returns the frame the track was last updated on
func (t *Track) FrameID() int {
	return t.frameID
}

// StartFrameID returns the frame the track started on
func (t *Track) StartFrameID() int {
	return t.startFrameID
}

// Hits returns the number of successful associations for the track
func (t *Track) Hits() int {
	return t.hits
}

// activate initializes the track with the given frame ID and track ID.
// Tracks spawned on the engine's first frame are confirmed immediately,
// later spawns need one further match.
func (t *Track) activate(frameID, trackID int) {

	t.kalmanFilter.Initiate(t.mean, &t.covariance, MeasureBox(t.rect.GetXyah()))

	t.syncRect()

	t.state = Tentative

	if frameID == 1 {
		t.state = Confirmed
	}

	t.trackID = trackID
	t.frameID = frameID
	t.startFrameID = frameID
	t.misses = 0
	t.hits = 1
}

// predict advances the track's expected position one frame using its
// motion state
func (t *Track) predict() {
	if t.state != Confirmed {
		// damp the height velocity of unconfirmed and lost tracks
		t.mean[7] = 0
	}

	t.kalmanFilter.Predict(t.mean, &t.covariance)
}

// update associates the track with a new detection, correcting the motion
// state and resetting the miss counter.  Tentative and Lost tracks
// transition to Confirmed.
func (t *Track) update(det *Track, frameID int) error {

	err := t.kalmanFilter.Update(t.mean, &t.covariance,
		MeasureBox(det.rect.GetXyah()))

	if err != nil {
		return fmt.Errorf("error updating track %d: %w", t.trackID, err)
	}

	t.syncRect()

	t.state = Confirmed
	t.score = det.score
	t.frameID = frameID
	t.misses = 0
	t.hits++

	return nil
}

// miss records an unmatched frame.  Confirmed tracks transition to Lost,
// and any track whose miss count exceeds the buffer is Removed.
func (t *Track) miss(missBuffer int) {
	t.misses++

	if t.state == Confirmed {
		t.state = Lost
	}

	if t.misses > missBuffer {
		t.state = Removed
	}
}

// syncRect updates the bounding box from the state mean
func (t *Track) syncRect() {
	t.rect.SetWidth(t.mean[2] * t.mean[3])
	t.rect.SetHeight(t.mean[3])
	t.rect.SetX(t.mean[0] - t.rect.Width()/2)
	t.rect.SetY(t.mean[1] - t.rect.Height()/2)
}
