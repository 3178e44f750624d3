package worker

import (
	"context"
	"sync"
	"time"

	"github.com/creatorblue32/bonsai-medical/internal/logger"
)

// Job is a unit of background work, typically a state flush to storage.
type Job interface {
	Run(context.Context) error
	Name() string
}

// Pool runs submitted jobs on a fixed set of workers. Submission never
// blocks the review path unless the queue is full.
type Pool struct {
	jobs    chan Job
	wg      sync.WaitGroup
	workers int
	cancel  context.CancelFunc
	log     *logger.Logger
}

func NewPool(workers, queueSize int) *Pool {
	if workers <= 0 {
		workers = 2
	}
	if queueSize <= 0 {
		queueSize = 64
	}
	log := logger.Default().WithPrefix("worker-pool")
	log.Debug("creating worker pool with %d workers and queue size %d", workers, queueSize)
	return &Pool{
		jobs:    make(chan Job, queueSize),
		workers: workers,
		log:     log,
	}
}

func (p *Pool) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.log.Info("starting worker pool with %d workers", p.workers)

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.run(ctx, i+1)
	}
}

// run drains the queue until it is closed. The context does not interrupt
// the drain; it is passed to jobs so in-flight work can observe shutdown.
func (p *Pool) run(ctx context.Context, id int) {
	defer p.wg.Done()
	workerLog := p.log.WithField("worker_id", id)
	workerLog.Debug("worker started")

	for job := range p.jobs {
		jobLog := workerLog.WithField("job", job.Name())
		start := time.Now()
		if err := job.Run(logger.NewContext(ctx, jobLog)); err != nil {
			jobLog.Error("job failed after %v: %v", time.Since(start), err)
		} else {
			jobLog.Debug("job completed in %v", time.Since(start))
		}
	}
	workerLog.Debug("worker shutting down (queue drained)")
}

// Stop closes the queue and waits for the workers to finish every queued
// job. The pool context is cancelled only after the drain.
func (p *Pool) Stop() {
	p.log.Info("stopping worker pool")
	close(p.jobs)
	p.wg.Wait()
	if p.cancel != nil {
		p.cancel()
	}
	p.log.Info("worker pool stopped")
}

func (p *Pool) Submit(job Job) {
	p.log.Debug("submitting job: %s", job.Name())
	p.jobs <- job
}

// QueueSize returns the current number of pending jobs.
func (p *Pool) QueueSize() int {
	return len(p.jobs)
}
