package detect

import (
	"sync"
)

// Pool is a simple detector pool to share multiple instances of the same
// model across concurrent jobs
type Pool struct {
	// pool of detectors
	detectors chan Detector
	// size of pool
	size int
	// guards closed
	mu     sync.Mutex
	closed bool
	close  sync.Once
}

// NewPool creates a new detector pool.  The factory function is called once
// per pool slot to construct each detector instance.
func NewPool(size int, factory func() (Detector, error)) (*Pool, error) {
	p := &Pool{
		detectors: make(chan Detector, size),
		size:      size,
	}

	for i := 0; i < size; i++ {
		d, err := factory()

		if err != nil {
			// close any instances that may have been created before receiving
			// the error
			p.Close()
			return nil, err
		}

		// attach to pool
		p.Return(d)
	}

	return p, nil
}

// Size returns the number of detectors the pool was created with
func (p *Pool) Size() int {
	return p.size
}

// Get a detector from the pool, blocking until one is available.  Returns
// nil once the pool has been closed.
func (p *Pool) Get() Detector {
	d, ok := <-p.detectors

	if !ok {
		return nil
	}

	return d
}

// Return a detector to the pool.  A detector handed back after Close is
// closed instead of being pooled.
func (p *Pool) Return(d Detector) {
	if d == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		_ = d.Close()
		return
	}

	select {
	case p.detectors <- d:
	default:
		// pool is full
	}
}

// Close the pool and all detectors in it.  Detectors checked out at the
// time of the call are closed when they are returned.
func (p *Pool) Close() {
	p.close.Do(func() {
		p.mu.Lock()
		p.closed = true
		p.mu.Unlock()

		// close channel
		close(p.detectors)

		// close all detectors
		for next := range p.detectors {
			_ = next.Close()
		}
	})
}
