package net

import (
	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"
)

const taskChanSize = 100

// WorkerFunction is one unit of work a pool worker performs on a task.
type WorkerFunction = func(t *tomb.Tomb, task any) error

// WorkerPool bounds the number of goroutines concurrently reading from
// client connections, feeding completed reads onto the session handler.
type WorkerPool struct {
	n     int      // number of workers
	tasks chan any // task queue
}

func NewWorkerPool(size int) WorkerPool {
	return WorkerPool{
		tasks: make(chan any, taskChanSize),
		n:     size,
	}
}

// AddTask enqueues a unit of work for the pool to pick up.
func (pool *WorkerPool) AddTask(task any) {
	pool.tasks <- task
}

// Setup keeps the pool staffed at its configured size until the tomb dies.
func (pool *WorkerPool) Setup(t *tomb.Tomb, work WorkerFunction) {
	log.Info().Int("activeWorkers", pool.n).Msg("adding workers")
	activeWorkers := 0
	for {
		select {
		case <-t.Dying():
			return
		default:
			if activeWorkers < pool.n {
				t.Go(func() error {
					err := pool.worker(t, work)
					activeWorkers--
					return err
				})
				activeWorkers++
			}
		}
	}
}

// worker waits for one task and actions it, then returns (or returns at once
// if the tomb dies first); Setup starts a replacement worker.
func (pool *WorkerPool) worker(t *tomb.Tomb, work WorkerFunction) error {
	log.Info().Msg("worker starting")
	select {
	case <-t.Dying():
		return nil
	case task := <-pool.tasks:
		if err := work(t, task); err != nil {
			log.Error().Err(err).Msg("worker exiting")
			return err
		}
	}
	return nil
}
