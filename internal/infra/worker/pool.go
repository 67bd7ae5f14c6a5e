// File: internal/infra/worker/pool.go
package worker

import (
	"context"
	"errors"
	"runtime"
	"sync"

	"github.com/rs/zerolog"
)

// ErrQueueFull is returned by Submit when the queue is saturated. Callers
// drop and retry on the next tick rather than blocking the producer.
var ErrQueueFull = errors.New("worker queue full")

type Task func(ctx context.Context) error

// Pool runs submitted tasks on a fixed set of goroutines with a bounded
// queue. It carries the run-job workers; sizing comes from worker.workers
// in the config.
type Pool struct {
	wg    sync.WaitGroup
	tasks chan Task
	quit  chan struct{}
	size  int
	log   *zerolog.Logger
}

func NewPool(workers int, logger *zerolog.Logger) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	poolLog := logger.With().Str("component", "WorkerPool").Logger()
	return &Pool{
		tasks: make(chan Task, workers*4),
		quit:  make(chan struct{}),
		size:  workers,
		log:   &poolLog,
	}
}

func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.size; i++ {
		p.wg.Add(1)
		go func(id int) {
			defer p.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case <-p.quit:
					return
				case task := <-p.tasks:
					if task == nil {
						continue
					}
					if err := task(ctx); err != nil {
						p.log.Error().Err(err).Int("worker", id).Msg("task error")
					}
				}
			}
		}(i)
	}
	p.log.Info().Int("workers", p.size).Msg("worker pool started")
}

// Stop signals the workers and waits for in-flight tasks to finish. Tasks
// still sitting in the queue are abandoned.
func (p *Pool) Stop() {
	close(p.quit)
	p.wg.Wait()
	p.log.Info().Msg("worker pool stopped")
}

func (p *Pool) Submit(task Task) error {
	if task == nil {
		return errors.New("nil task")
	}
	select {
	case p.tasks <- task:
		return nil
	default:
		return ErrQueueFull
	}
}
