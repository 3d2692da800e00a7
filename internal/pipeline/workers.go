package pipeline

import (
	"context"
	"sync"
)

// task is one independent unit of rollup work.
type task struct {
	name string
	run  func() error
}

// runTasks executes tasks across a bounded worker pool. Results never
// depend on scheduling; the pool only bounds concurrency. The first
// error cancels the remaining queue.
func runTasks(ctx context.Context, workers int, tasks []task) error {
	if workers <= 0 {
		workers = 1
	}
	if workers > len(tasks) {
		workers = len(tasks)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	queue := make(chan task)
	errs := make(chan error, len(tasks))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range queue {
				select {
				case <-ctx.Done():
					return
				default:
				}
				if err := t.run(); err != nil {
					errs <- err
					cancel()
					return
				}
			}
		}()
	}

	for _, t := range tasks {
		select {
		case queue <- t:
		case <-ctx.Done():
		}
	}
	close(queue)
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			return err
		}
	}
	return ctx.Err()
}
