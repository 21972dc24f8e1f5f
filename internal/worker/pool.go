package worker

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"
)

const (
	defaultWorkerCount = 2
	defaultQueueSize   = 256
	defaultAttempts    = 3
	defaultJobTimeout  = 20 * time.Second
	defaultBackoff     = 2 * time.Second
)

// Job is one unit of background work. Run is retried on error.
type Job struct {
	Name string
	Run  func(ctx context.Context) error
}

// Options tune a Pool; zero values fall back to defaults.
type Options struct {
	Workers     int
	QueueSize   int
	MaxAttempts int
	Timeout     time.Duration
	Backoff     time.Duration
}

// Pool runs submitted jobs on a fixed set of goroutines. Submit never blocks:
// a full queue drops the job.
type Pool struct {
	queue chan Job
	opts  Options
	wg    sync.WaitGroup

	mu      sync.RWMutex
	closed  bool
	started bool
	baseCtx context.Context

	// sleep is swapped in tests
	sleep func(ctx context.Context, d time.Duration) bool
}

// New creates a pool. Call Start before submitting.
func New(opts Options) *Pool {
	if opts.Workers <= 0 {
		opts.Workers = defaultWorkerCount
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = defaultQueueSize
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = defaultAttempts
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultJobTimeout
	}
	if opts.Backoff < 0 {
		opts.Backoff = defaultBackoff
	}
	return &Pool{
		queue: make(chan Job, opts.QueueSize),
		opts:  opts,
		sleep: sleepCtx,
	}
}

// Start launches the workers. ctx bounds every job; cancelling it aborts
// pending retries but queued jobs still get one attempt each.
func (p *Pool) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return
	}
	p.started = true
	p.baseCtx = ctx
	log.Printf("[worker] starting %d workers (queue=%d)", p.opts.Workers, p.opts.QueueSize)
	for i := 0; i < p.opts.Workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()
	for job := range p.queue {
		p.process(id, job)
	}
}

func (p *Pool) process(id int, job Job) {
	for attempt := 1; attempt <= p.opts.MaxAttempts; attempt++ {
		err := p.runOnce(job)
		if err == nil {
			return
		}
		if attempt == p.opts.MaxAttempts {
			log.Printf("[worker %d] job %q failed after %d attempts: %v", id, job.Name, attempt, err)
			return
		}
		wait := p.opts.Backoff << (attempt - 1)
		log.Printf("[worker %d] job %q attempt %d failed: %v (retry in %s)", id, job.Name, attempt, err, wait)
		if !p.sleep(p.baseCtx, wait) {
			log.Printf("[worker %d] job %q abandoned: %v", id, job.Name, p.baseCtx.Err())
			return
		}
	}
}

func (p *Pool) runOnce(job Job) (err error) {
	ctx, cancel := context.WithTimeout(p.baseCtx, p.opts.Timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return job.Run(ctx)
}

// Submit enqueues job and reports whether it was accepted.
func (p *Pool) Submit(job Job) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed || !p.started {
		log.Printf("[worker] pool not running, dropping job %q", job.Name)
		return false
	}
	select {
	case p.queue <- job:
		return true
	default:
		log.Printf("[worker] queue is full (%d/%d), dropping job %q", len(p.queue), cap(p.queue), job.Name)
		return false
	}
}

// Pending number of queued jobs not yet picked up.
func (p *Pool) Pending() int {
	return len(p.queue)
}

// Shutdown stops accepting jobs and waits for queued ones to finish.
func (p *Pool) Shutdown() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	started := p.started
	close(p.queue)
	p.mu.Unlock()

	if !started {
		return
	}
	log.Printf("[worker] shutting down, %d jobs in queue", len(p.queue))
	p.wg.Wait()
	log.Println("[worker] pool shut down")
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
