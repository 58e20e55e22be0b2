package checker

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestRunner_SequentialOrder(t *testing.T) {
	var order []string
	runner := &Runner{}
	runner.Run(context.Background(),
		Task{Name: "probe", Run: func(context.Context) { order = append(order, "probe") }},
		Task{Name: "registration", Run: func(context.Context) { order = append(order, "registration") }},
		Task{Name: "screenshot", Run: func(context.Context) { order = append(order, "screenshot") }},
	)

	want := []string{"probe", "registration", "screenshot"}
	if len(order) != len(want) {
		t.Fatalf("expected %d tasks to run, got %v", len(want), order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("task %d = %s, want %s", i, order[i], want[i])
		}
	}
}

func TestRunner_ConcurrentWaitsForAll(t *testing.T) {
	var done, overlapped int32
	var mu sync.Mutex
	observed := map[string]time.Duration{}

	runner := &Runner{
		Concurrent: true,
		Observe: func(name string, d time.Duration) {
			mu.Lock()
			observed[name] = d
			mu.Unlock()
		},
	}

	var started sync.WaitGroup
	started.Add(3)
	allStarted := make(chan struct{})
	go func() {
		started.Wait()
		close(allStarted)
	}()

	task := func(name string) Task {
		return Task{Name: name, Run: func(context.Context) {
			started.Done()
			select {
			case <-allStarted:
				atomic.AddInt32(&overlapped, 1)
			case <-time.After(2 * time.Second):
			}
			atomic.AddInt32(&done, 1)
		}}
	}

	runner.Run(context.Background(), task("a"), task("b"), task("c"))

	if atomic.LoadInt32(&done) != 3 {
		t.Fatalf("expected all tasks to finish before Run returns, got %d", done)
	}
	if atomic.LoadInt32(&overlapped) != 3 {
		t.Errorf("expected tasks to run concurrently, %d overlapped", overlapped)
	}
	if len(observed) != 3 {
		t.Errorf("expected 3 observations, got %v", observed)
	}
}

func TestRunner_SkipsNilTask(t *testing.T) {
	calls := 0
	runner := &Runner{Observe: func(string, time.Duration) { calls++ }}
	runner.Run(context.Background(), Task{Name: "empty"})
	if calls != 0 {
		t.Errorf("nil task should not be observed")
	}
}

func TestRunner_RecoversPanickingTask(t *testing.T) {
	for _, concurrent := range []bool{false, true} {
		t.Run(map[bool]string{false: "sequential", true: "concurrent"}[concurrent], func(t *testing.T) {
			var finished int32
			var mu sync.Mutex
			observed := map[string]bool{}
			runner := &Runner{
				Concurrent: concurrent,
				Observe: func(name string, _ time.Duration) {
					mu.Lock()
					observed[name] = true
					mu.Unlock()
				},
			}

			err := runner.Run(context.Background(),
				Task{Name: "probe", Run: func(context.Context) { atomic.AddInt32(&finished, 1) }},
				Task{Name: "registration", Run: func(context.Context) { panic("whois parser blew up") }},
				Task{Name: "screenshot", Run: func(context.Context) { atomic.AddInt32(&finished, 1) }},
			)

			var panicErr *PanicError
			if !errors.As(err, &panicErr) {
				t.Fatalf("expected *PanicError, got %v", err)
			}
			if panicErr.Task != "registration" || !strings.Contains(err.Error(), "whois parser blew up") {
				t.Errorf("unexpected panic error %v", err)
			}
			if atomic.LoadInt32(&finished) != 2 {
				t.Errorf("other tasks should still run, %d finished", finished)
			}
			if !observed["registration"] {
				t.Errorf("panicking task should still be observed: %v", observed)
			}
		})
	}
}

func TestRunner_NoErrorWhenTasksSucceed(t *testing.T) {
	err := (&Runner{Concurrent: true}).Run(context.Background(),
		Task{Name: "probe", Run: func(context.Context) {}},
		Task{Name: "empty"},
	)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}
