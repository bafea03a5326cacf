package server

import (
	"sync"

	"go.uber.org/zap"
)

// Pool is a fixed-size worker pool. Submitted jobs are isolated from each
// other: a panic inside one job is recovered and logged, and the worker
// that ran it keeps pulling jobs from the shared queue.
type Pool struct {
	jobs     chan func()
	wg       sync.WaitGroup
	log      *zap.SugaredLogger
	shutdown sync.Once
}

// NewPool starts n worker goroutines pulling from a shared, unbuffered job
// queue.
func NewPool(n int, log *zap.SugaredLogger) *Pool {
	p := &Pool{
		jobs: make(chan func()),
		log:  log,
	}

	p.wg.Add(n)
	for i := 0; i < n; i++ {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for job := range p.jobs {
		p.run(job)
	}
}

func (p *Pool) run(job func()) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Errorw("worker job panicked", "panic", r)
		}
	}()
	job()
}

// Submit enqueues job for execution by a worker. It blocks until a worker
// is free to accept it.
func (p *Pool) Submit(job func()) {
	p.jobs <- job
}

// Shutdown closes the job queue and waits for every worker to drain its
// remaining jobs and exit. Submit must not be called after Shutdown
// returns. Safe to call more than once.
func (p *Pool) Shutdown() {
	p.shutdown.Do(func() {
		close(p.jobs)
		p.wg.Wait()
	})
}
