package workers

import (
	"context"
	"sync"
)

// Workers runs a set of background workers as one unit.
type Workers struct {
	workers []Worker
}

// NewWorkers builds a group from the given workers.
func NewWorkers(workers ...Worker) *Workers {
	return &Workers{workers: workers}
}

// Run launches every worker in its own goroutine and blocks until all of
// them have returned. Workers are expected to stop when ctx is cancelled.
func (w *Workers) Run(ctx context.Context) {
	var wg sync.WaitGroup

	for _, worker := range w.workers {
		worker := worker
		wg.Add(1)
		go func() {
			defer wg.Done()
			worker.Run(ctx)
		}()
	}

	wg.Wait()
}
