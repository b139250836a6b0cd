package fieldtrack

import (
	"context"
	"errors"
	"io"

	"github.com/fieldvision/go-fieldtrack/detect"
	"github.com/fieldvision/go-fieldtrack/tracker"
)

// ProgressFunc receives progress updates during processing.  It is called at
// least once per processed frame with the number of frames processed so far
// and the total the run is bounded to.
type ProgressFunc func(processed, total int)

// Pipeline runs the frame loop for one source at a time, feeding frames to
// the detector and detections to a per-class tracker set
type Pipeline struct {
	cfg      Config
	detector detect.Detector
}

// NewPipeline creates a pipeline around the given detector.  The detector is
// not closed by the pipeline.
func NewPipeline(detector detect.Detector, cfg Config) (*Pipeline, error) {

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Pipeline{
		cfg:      cfg,
		detector: detector,
	}, nil
}

// Process reads frames from the source until it is exhausted or a configured
// ceiling is reached, and returns the accumulated tracking result.  Progress
// may be nil.  Cancellation of ctx stops processing between frames and
// returns the partial result with ErrJobCancelled.
func (p *Pipeline) Process(ctx context.Context, src FrameSource,
	progress ProgressFunc) (*Result, error) {

	meta := src.Meta()

	fps := p.cfg.FrameRate

	if fps == 0 {
		fps = meta.FrameRate
	}

	total := frameCeiling(meta.TotalFrames, fps, p.cfg)

	set := tracker.NewClassTrackerSet(fps, []tracker.ClassConfig{
		{ClassName: detect.LabelPerson, Params: p.cfg.PlayerParams},
		{ClassName: detect.LabelSportsBall, Params: p.cfg.BallParams},
	})

	opts := detect.Options{
		ConfThreshold: p.cfg.ConfThreshold,
		Classes:       []int{detect.ClassPerson, detect.ClassSportsBall},
	}

	history := newTrackHistory()

	var ball []BallEntry

	frameNumber := 0
	processed := 0

	for total == 0 || processed < total {

		select {
		case <-ctx.Done():
			return p.buildResult(meta, fps, total, processed, history, ball),
				ErrJobCancelled
		default:
		}

		frame, err := src.Next()

		if err == io.EOF {
			break
		}

		if err != nil {
			return p.buildResult(meta, fps, total, processed, history, ball),
				&FrameError{Frame: frameNumber, Err: err}
		}

		// frame stride skipping
		if p.cfg.Stride > 0 && frameNumber%(p.cfg.Stride+1) != 0 {
			frameNumber++
			continue
		}

		detections, err := p.detector.Detect(ctx, frame, opts)

		if err != nil {
			if errors.Is(err, context.Canceled) ||
				errors.Is(err, context.DeadlineExceeded) {
				return p.buildResult(meta, fps, total, processed, history,
					ball), ErrJobCancelled
			}

			if p.cfg.SkipBadFrames && errors.Is(err, detect.ErrInvalidFrame) {
				frameNumber++
				processed++

				if progress != nil {
					progress(processed, total)
				}

				continue
			}

			return p.buildResult(meta, fps, total, processed, history, ball),
				&FrameError{Frame: frameNumber, Err: err}
		}

		tracked, err := set.Update(detections, frameNumber)

		if err != nil {
			return p.buildResult(meta, fps, total, processed, history, ball),
				&FrameError{Frame: frameNumber, Err: err}
		}

		for _, td := range tracked[detect.LabelPerson] {
			history.add(td)
		}

		for _, td := range tracked[detect.LabelSportsBall] {
			ball = append(ball, BallEntry{
				FrameNumber: td.FrameNumber,
				Timestamp:   td.Timestamp,
				Position:    td.Center,
				Confidence:  td.Confidence,
				Visible:     true,
			})
		}

		frameNumber++
		processed++

		if progress != nil {
			progress(processed, total)
		}
	}

	return p.buildResult(meta, fps, total, processed, history, ball), nil
}

// frameCeiling bounds the number of frames a run may process.  A result of
// 0 means unbounded.
func frameCeiling(totalFrames int, fps float64, cfg Config) int {

	total := totalFrames

	if cfg.MaxFrames > 0 && (total == 0 || cfg.MaxFrames < total) {
		total = cfg.MaxFrames
	}

	if cfg.MaxDuration > 0 && fps > 0 {
		durFrames := int(cfg.MaxDuration.Seconds() * fps)

		// a cap shorter than one frame period still bounds the run to a
		// single frame rather than lifting the ceiling
		if durFrames < 1 {
			durFrames = 1
		}

		if total == 0 || durFrames < total {
			total = durFrames
		}
	}

	return total
}

func (p *Pipeline) buildResult(meta VideoMeta, fps float64, total,
	processed int, history *trackHistory, ball []BallEntry) *Result {

	tracks := history.tracks()

	if ball == nil {
		ball = []BallEntry{}
	}

	return &Result{
		Tracks: tracks,
		Ball:   ball,
		Metadata: Metadata{
			Source:             meta.Source,
			TotalFrames:        total,
			ProcessedFrames:    processed,
			FPS:                fps,
			Width:              meta.Width,
			Height:             meta.Height,
			ConfThreshold:      p.cfg.ConfThreshold,
			TrackCount:         len(tracks),
			BallDetectionCount: len(ball),
		},
	}
}
