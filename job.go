package fieldtrack

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/fieldvision/go-fieldtrack/detect"
)

// Runner processes jobs concurrently against a shared detector pool.  Each
// submitted job gets its own tracker state, only detector instances are
// shared.
type Runner struct {
	pool *detect.Pool
	cfg  Config
}

// NewRunner creates a runner using detectors from the given pool
func NewRunner(pool *detect.Pool, cfg Config) (*Runner, error) {

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Runner{
		pool: pool,
		cfg:  cfg,
	}, nil
}

// Job is a processing task handed back to the caller on submission.  The
// caller waits on Done and then reads Result, or calls Cancel to stop the
// job early and collect the partial result.
type Job struct {
	id        string
	processed atomic.Int64
	total     atomic.Int64
	done      chan struct{}
	cancel    context.CancelFunc

	// result and err are written once before done is closed
	result *Result
	err    error
}

// ID returns the unique job identifier
func (j *Job) ID() string {
	return j.id
}

// Progress returns the number of frames processed so far and the total the
// job is bounded to
func (j *Job) Progress() (processed, total int) {
	return int(j.processed.Load()), int(j.total.Load())
}

// Done returns a channel closed when the job finishes for any reason
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// Result blocks until the job finishes and returns its result.  A cancelled
// job returns the partial result with ErrJobCancelled.
func (j *Job) Result() (*Result, error) {
	<-j.done
	return j.result, j.err
}

// Cancel requests the job stop at the next frame boundary.  It does not wait
// for the job to finish.
func (j *Job) Cancel() {
	j.cancel()
}

// Submit starts processing the given source in the background and returns
// the job handle.  The source is closed when the job finishes.
func (r *Runner) Submit(ctx context.Context, src FrameSource) (*Job, error) {

	jobCtx, cancel := context.WithCancel(ctx)

	job := &Job{
		id:     uuid.NewString(),
		done:   make(chan struct{}),
		cancel: cancel,
	}

	go func() {
		defer close(job.done)
		defer cancel()
		defer src.Close()

		detector := r.pool.Get()

		if detector == nil {
			job.err = errors.New("detector pool is closed")
			return
		}

		defer r.pool.Return(detector)

		pipeline, err := NewPipeline(detector, r.cfg)

		if err != nil {
			job.err = err
			return
		}

		job.result, job.err = pipeline.Process(jobCtx, src,
			func(processed, total int) {
				job.processed.Store(int64(processed))
				job.total.Store(int64(total))
			})
	}()

	return job, nil
}
