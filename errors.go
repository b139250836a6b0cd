package fieldtrack

import (
	"errors"
	"fmt"
)

var (
	// ErrVideoOpen is returned when a frame source cannot be opened
	ErrVideoOpen = errors.New("failed to open video source")

	// ErrJobCancelled is returned when processing is cancelled before the
	// final frame.  The partial result accumulated up to the point of
	// cancellation is returned alongside it.
	ErrJobCancelled = errors.New("job cancelled")
)

// FrameError reports a failure while processing a specific frame
type FrameError struct {
	// Frame is the zero-based frame number the failure occurred on
	Frame int
	// Err is the underlying cause
	Err error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("frame %d: %v", e.Frame, e.Err)
}

func (e *FrameError) Unwrap() error {
	return e.Err
}
