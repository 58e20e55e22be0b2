package checker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// Checker is implemented by every lookup; Name labels its logs and metrics.
type Checker interface {
	Name() string
}

// Task is one independent lookup of a request. Run stores its own result.
type Task struct {
	Name string
	Run  func(ctx context.Context)
}

// ObserveFunc is called with each task's wall-clock duration.
type ObserveFunc func(name string, duration time.Duration)

// PanicError is returned for a task that panicked. The task's result is left
// as it was before Run.
type PanicError struct {
	Task  string
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("%s lookup panicked: %v", e.Task, e.Value)
}

// Runner executes the lookups of a single request.
type Runner struct {
	Concurrent bool        // Fan tasks out instead of running them in order
	Observe    ObserveFunc // Optional duration callback
}

// Run executes every task and returns once all of them have finished. A
// panicking task does not stop the others; its panic is returned as a
// *PanicError, joined with any others.
func (r *Runner) Run(ctx context.Context, tasks ...Task) error {
	errs := make([]error, len(tasks))

	if !r.Concurrent {
		for i, task := range tasks {
			errs[i] = r.runOne(ctx, task)
		}
		return errors.Join(errs...)
	}

	var wg sync.WaitGroup
	for i, task := range tasks {
		wg.Add(1)
		go func(i int, t Task) {
			defer wg.Done()
			errs[i] = r.runOne(ctx, t)
		}(i, task)
	}
	wg.Wait()
	return errors.Join(errs...)
}

func (r *Runner) runOne(ctx context.Context, task Task) (err error) {
	if task.Run == nil {
		return nil
	}
	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			err = &PanicError{Task: task.Name, Value: rec}
		}
		if r.Observe != nil {
			r.Observe(task.Name, time.Since(start))
		}
	}()
	task.Run(ctx)
	return nil
}
