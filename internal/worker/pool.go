package worker

import (
	"context"
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
	seq int
	job Job
}

type queuedResult struct {
	seq    int
	result Result
}

// Pool runs jobs on a fixed number of workers and hands results back in
// submission order
type Pool struct {
	workers    int
	jobQueue   chan queuedJob
	results    chan queuedResult
	wg         sync.WaitGroup
	ctx        context.Context
	cancelFunc context.CancelFunc
	closeOnce  sync.Once
	submitted  int
	collected  []queuedResult
	done       chan struct{}
}

// NewPool creates a pool bound to ctx. Cancelling ctx stops workers after
// their current job.
func NewPool(ctx context.Context, workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(ctx)

	return &Pool{
		workers:    workers,
		jobQueue:   make(chan queuedJob, workers*2),
		results:    make(chan queuedResult, workers*2),
		ctx:        ctx,
		cancelFunc: cancel,
		done:       make(chan struct{}),
	}
}

// Start starts the workers and the result collector
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	go p.collect()
}

// collect drains results so workers never block on a full results channel
func (p *Pool) collect() {
	defer close(p.done)
	for qr := range p.results {
		p.collected = append(p.collected, qr)
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
			p.results <- queuedResult{seq: qj.seq, result: qj.job.Execute(p.ctx)}
		}
	}
}

// Submit queues a job. Submit must not be called concurrently with itself or
// after Wait. A job submitted after cancellation is dropped and leaves a nil
// slot in the results.
func (p *Pool) Submit(job Job) {
	seq := p.submitted
	p.submitted++

	if p.ctx.Err() != nil {
		return
	}
	select {
	case <-p.ctx.Done():
	case p.jobQueue <- queuedJob{seq: seq, job: job}:
	}
}

// Wait closes the queue, waits for the workers and returns one slot per
// submitted job, indexed by submission order. Start must have been called.
func (p *Pool) Wait() []Result {
	close(p.jobQueue)
	p.wg.Wait()
	p.closeResults()
	<-p.done
	p.cancelFunc()

	results := make([]Result, p.submitted)
	for _, qr := range p.collected {
		results[qr.seq] = qr.result
	}
	return results
}

// Shutdown stops a started pool without waiting for queued jobs.
// Running jobs see a cancelled context.
func (p *Pool) Shutdown() {
	p.cancelFunc()
	p.wg.Wait()
	p.closeResults()
	<-p.done
}

func (p *Pool) closeResults() {
	p.closeOnce.Do(func() {
		close(p.results)
	})
}
