package worker

import (
	"context"
	"fmt"
	"sync"
)

// Job represents a unit of work to be executed
type Job interface {
	Execute(ctx context.Context) Result
}

// Result represents the result of a job execution
type Result interface {
	GetError() error
}

type queuedJob struct {
	index int
	job   Job
}

// Pool runs jobs on a fixed number of workers. Results are returned in
// submission order regardless of completion order.
type Pool struct {
	workers    int
	jobQueue   chan queuedJob
	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup

	queueMu sync.RWMutex
	closed  bool

	mu        sync.Mutex
	submitted int
	results   map[int]Result
}

// NewPool creates a new worker pool with the specified number of workers.
// Jobs see a context derived from parent; cancelling parent stops the pool.
func NewPool(parent context.Context, workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if parent == nil {
		parent = context.Background()
	}

	ctx, cancel := context.WithCancel(parent)

	return &Pool{
		workers:    workers,
		jobQueue:   make(chan queuedJob, workers*2),
		ctx:        ctx,
		cancelFunc: cancel,
		results:    make(map[int]Result),
	}
}

// Start starts the worker goroutines
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case qj, ok := <-p.jobQueue:
			if !ok {
				return
			}
			if p.ctx.Err() != nil {
				return
			}
			result := p.run(qj.job)

			p.mu.Lock()
			p.results[qj.index] = result
			p.mu.Unlock()
		}
	}
}

// PanicResult is recorded in place of a job that panicked
type PanicResult struct {
	Value any
}

// GetError reports the panic as an error
func (r *PanicResult) GetError() error {
	return fmt.Errorf("job panicked: %v", r.Value)
}

func (p *Pool) run(job Job) (result Result) {
	defer func() {
		if v := recover(); v != nil {
			result = &PanicResult{Value: v}
		}
	}()
	return job.Execute(p.ctx)
}

// Submit queues a job. It returns false when the pool has been cancelled
// and the job will never run.
func (p *Pool) Submit(job Job) bool {
	p.queueMu.RLock()
	defer p.queueMu.RUnlock()
	if p.closed || p.ctx.Err() != nil {
		return false
	}

	p.mu.Lock()
	index := p.submitted
	p.submitted++
	p.mu.Unlock()

	select {
	case <-p.ctx.Done():
		return false
	case p.jobQueue <- queuedJob{index: index, job: job}:
		return true
	}
}

// Wait waits for all submitted jobs and returns one slot per submission.
// A slot is nil when its job never ran because the pool was cancelled.
func (p *Pool) Wait() []Result {
	p.closeQueue()
	p.wg.Wait()
	p.cancelFunc()

	p.mu.Lock()
	defer p.mu.Unlock()

	ordered := make([]Result, p.submitted)
	for i := range ordered {
		ordered[i] = p.results[i]
	}
	return ordered
}

// Shutdown cancels outstanding jobs and waits for running ones to return
func (p *Pool) Shutdown() {
	p.cancelFunc()
	p.closeQueue()
	p.wg.Wait()
}

func (p *Pool) closeQueue() {
	p.queueMu.Lock()
	defer p.queueMu.Unlock()
	if !p.closed {
		p.closed = true
		close(p.jobQueue)
	}
}
