package ingest

import (
	"context"
	"sync"
	"sync/atomic"
)

// Job is a unit of work submitted to the WorkerPool.
type Job func(ctx context.Context) error

// WorkerPool scores sentences on a fixed number of goroutines. Jobs share the
// read-only lexicon, so workers need no coordination beyond the queue.
type WorkerPool struct {
	size  int
	queue chan Job
	wg    sync.WaitGroup

	// mu guards closed and the close of queue against in-flight submits.
	mu     sync.RWMutex
	closed bool

	// stop is closed before queue so submitters blocked on a full queue return.
	stop     chan struct{}
	stopOnce sync.Once

	processed atomic.Int64
	errMu     sync.Mutex
	err       error
}

// NewWorkerPool returns a pool with size workers and a queue holding up to queue jobs.
func NewWorkerPool(size, queue int) *WorkerPool {
	if size <= 0 {
		size = 1
	}
	if queue <= 0 {
		queue = size * 2
	}
	return &WorkerPool{
		size:  size,
		queue: make(chan Job, queue),
		stop:  make(chan struct{}),
	}
}

// Start launches the workers. They exit when ctx is done or the queue is drained after Close.
func (p *WorkerPool) Start(ctx context.Context) {
	p.wg.Add(p.size)
	for i := 0; i < p.size; i++ {
		go p.work(ctx)
	}
}

func (p *WorkerPool) work(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-p.queue:
			if !ok {
				return
			}
			if err := job(ctx); err != nil {
				p.errMu.Lock()
				if p.err == nil {
					p.err = err
				}
				p.errMu.Unlock()
			}
			p.processed.Add(1)
		}
	}
}

// Submit enqueues job, blocking while the queue is full.
// It returns ErrPoolClosed once Close has been called.
func (p *WorkerPool) Submit(job Job) error {
	return p.SubmitCtx(context.Background(), job)
}

// SubmitCtx is Submit that also gives up with ctx.Err() when ctx is done.
func (p *WorkerPool) SubmitCtx(ctx context.Context, job Job) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}
	select {
	case <-p.stop:
		return ErrPoolClosed
	case <-ctx.Done():
		return ctx.Err()
	case p.queue <- job:
		return nil
	}
}

// Close stops accepting jobs, lets the workers finish the queue and waits for them.
// It is safe to call more than once.
func (p *WorkerPool) Close() {
	p.stopOnce.Do(func() { close(p.stop) })

	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()

	p.wg.Wait()
}

// Processed reports how many jobs have run.
func (p *WorkerPool) Processed() int64 { return p.processed.Load() }

// Err returns the first error a job returned. Read it after Close.
func (p *WorkerPool) Err() error {
	p.errMu.Lock()
	defer p.errMu.Unlock()
	return p.err
}

// ErrPoolClosed is returned if a Submit is attempted after Close.
var ErrPoolClosed = &PoolError{"worker pool closed"}

// PoolError provides a simple typed error for pool operations.
type PoolError struct{ msg string }

func (e *PoolError) Error() string { return e.msg }
