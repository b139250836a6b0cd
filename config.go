package fieldtrack

import (
	"fmt"
	"time"

	"github.com/fieldvision/go-fieldtrack/tracker"
)

// Config holds the pipeline processing settings
type Config struct {
	// ConfThreshold is the minimum detection confidence passed to the
	// detector
	ConfThreshold float32
	// FrameRate is the source video frame rate used for timestamps.  When
	// zero the frame source's reported rate is used.
	FrameRate float64
	// Stride is the number of frames to skip between processed frames, a
	// value of 0 processes every frame
	Stride int
	// MaxFrames caps the number of frames processed, 0 means no limit
	MaxFrames int
	// MaxDuration caps processing at this much video time, 0 means no limit
	MaxDuration time.Duration
	// PlayerParams tunes the player tracking engine
	PlayerParams tracker.Params
	// BallParams tunes the ball tracking engine
	BallParams tracker.Params
	// SkipBadFrames continues past frames the detector rejects instead of
	// aborting the job
	SkipBadFrames bool
}

// DefaultConfig returns pipeline settings suitable for full-speed sports
// footage
func DefaultConfig() Config {
	return Config{
		ConfThreshold: 0.3,
		FrameRate:     30,
		PlayerParams:  tracker.DefaultPlayerParams(),
		BallParams:    tracker.DefaultBallParams(),
	}
}

// Validate checks the configuration for values the pipeline cannot run with
func (c Config) Validate() error {

	if c.ConfThreshold <= 0 || c.ConfThreshold > 1 {
		return fmt.Errorf("conf threshold %v out of range (0, 1]",
			c.ConfThreshold)
	}

	if c.FrameRate < 0 {
		return fmt.Errorf("frame rate %v is negative", c.FrameRate)
	}

	if c.Stride < 0 {
		return fmt.Errorf("stride %d is negative", c.Stride)
	}

	if c.MaxFrames < 0 {
		return fmt.Errorf("max frames %d is negative", c.MaxFrames)
	}

	if c.MaxDuration < 0 {
		return fmt.Errorf("max duration %v is negative", c.MaxDuration)
	}

	if err := validateParams("player", c.PlayerParams); err != nil {
		return err
	}

	if err := validateParams("ball", c.BallParams); err != nil {
		return err
	}

	return nil
}

func validateParams(name string, p tracker.Params) error {

	if p.ActivationThreshold <= 0 || p.ActivationThreshold > 1 {
		return fmt.Errorf("%s activation threshold %v out of range (0, 1]",
			name, p.ActivationThreshold)
	}

	if p.MatchThreshold <= 0 || p.MatchThreshold > 1 {
		return fmt.Errorf("%s match threshold %v out of range (0, 1]",
			name, p.MatchThreshold)
	}

	if p.MissBuffer < 1 {
		return fmt.Errorf("%s miss buffer %d must be at least 1",
			name, p.MissBuffer)
	}

	return nil
}
