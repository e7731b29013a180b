/*
 * Copyright (c) 2024, 2026 Oracle and/or its affiliates.
 * Licensed under the Universal Permissive License v 1.0 as shown at
 * https://oss.oracle.com/licenses/upl.
 */

package proxy

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestExecutorRunsSubmittedTasks(t *testing.T) {
	e := NewExecutor(2)
	defer e.Close()

	var (
		count int32
		wg    sync.WaitGroup
	)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		if err := e.Submit(func() {
			atomic.AddInt32(&count, 1)
			wg.Done()
		}); err != nil {
			t.Fatalf("submit failed: %v", err)
		}
	}
	wg.Wait()

	if atomic.LoadInt32(&count) != 100 {
		t.Fatalf("expected 100 tasks, ran %d", count)
	}
}

func TestExecutorClosedRejectsWork(t *testing.T) {
	e := NewExecutor(1)
	e.Close()

	if err := e.Submit(func() {}); !errors.Is(err, ErrExecutorClosed) {
		t.Fatalf("expected ErrExecutorClosed, got %v", err)
	}
}

func TestRunOnReturnsResult(t *testing.T) {
	e := NewExecutor(1)
	defer e.Close()

	value, err := runOn(context.Background(), e, func() (string, error) {
		return "done", nil
	})
	if err != nil || value != "done" {
		t.Fatalf("expected done, got %q %v", value, err)
	}
}

func TestRunOnHonoursDeadline(t *testing.T) {
	e := NewExecutor(1)
	defer e.Close()

	blocked := make(chan struct{})
	defer close(blocked)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	// the result of a stage that outlives the deadline is discarded
	_, err := runOn(ctx, e, func() (int, error) {
		<-blocked
		return 42, nil
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}
