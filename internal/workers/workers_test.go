// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Anton Belyaev

package workers

import (
	"context"
	"testing"
	"time"
)

// mockWorker is a test implementation of the Worker interface
// that tracks how many times Run was called.
type mockWorker struct {
	runCount int
}

func (m *mockWorker) Run(_ context.Context) {
	m.runCount++
}

func TestWorkers_Run_AllWorkersAreCalled(t *testing.T) {
	w1 := &mockWorker{}
	w2 := &mockWorker{}
	w3 := &mockWorker{}

	ws := NewWorkers(w1, w2, w3)
	ws.Run(context.Background())

	for i, w := range []*mockWorker{w1, w2, w3} {
		if w.runCount != 1 {
			t.Errorf("worker[%d]: expected runCount=1, got %d", i, w.runCount)
		}
	}
}

func TestWorkers_Run_Empty(t *testing.T) {
	ws := NewWorkers()

	// Should not panic on empty workers list
	ws.Run(context.Background())
}

func TestWorkers_Run_Nil(t *testing.T) {
	ws := &Workers{}

	// Should not panic when workers field is nil
	ws.Run(context.Background())
}

func TestWorkers_Run_WaitsForWorkers(t *testing.T) {
	done := make(chan struct{})

	ws := NewWorkers(Fn(func(ctx context.Context) {
		<-ctx.Done()
		close(done)
	}))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	ws.Run(ctx)

	// Run must not return before the worker has observed the cancellation.
	select {
	case <-done:
	default:
		t.Error("Run returned before the worker finished")
	}
}

func TestWorkers_Run_MultipleRuns(t *testing.T) {
	w := &mockWorker{}
	ws := NewWorkers(w)

	ws.Run(context.Background())
	ws.Run(context.Background())
	ws.Run(context.Background())

	if w.runCount != 3 {
		t.Errorf("expected runCount=3 after 3 calls, got %d", w.runCount)
	}
}

func TestFn_AdaptsFunction(t *testing.T) {
	called := false

	var w Worker = Fn(func(_ context.Context) {
		called = true
	})
	w.Run(context.Background())

	if !called {
		t.Error("expected the adapted function to be called")
	}
}
