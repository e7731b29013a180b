/*
 * Copyright (c) 2024, 2026 Oracle and/or its affiliates.
 * Licensed under the Universal Permissive License v 1.0 as shown at
 * https://oss.oracle.com/licenses/upl.
 */

package proxy

import (
	"context"
	"errors"
	"runtime"
	"sync"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrExecutorClosed indicates work was submitted after Close.
var ErrExecutorClosed = errors.New("the executor has been closed")

// Executor is the dedicated worker pool for request continuations. Handlers
// frequently hop between stages that touch cache handles and convert payload
// bytes; running those stages on transport or backend goroutines risks
// deadlock when a continuation waits on a completion that itself needs the
// same goroutine.
type Executor struct {
	tasks  chan func()
	wg     sync.WaitGroup
	mu     sync.Mutex
	closed bool
}

// NewExecutor creates a pool with the given number of workers; zero or a
// negative count sizes the pool to the CPU count.
func NewExecutor(workers int) *Executor {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	e := &Executor{tasks: make(chan func(), workers*16)}
	e.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer e.wg.Done()
			for task := range e.tasks {
				task()
			}
		}()
	}
	return e
}

// Submit enqueues a task for execution on the pool.
func (e *Executor) Submit(task func()) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrExecutorClosed
	}
	e.tasks <- task
	return nil
}

// Close drains and stops the pool. Outstanding tasks complete.
func (e *Executor) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	close(e.tasks)
	e.mu.Unlock()
	e.wg.Wait()
}

// runOn executes fn on the executor pool and waits for its completion or the
// expiry of ctx, whichever comes first. When the deadline wins the handler
// stops waiting and the cache side effect may still occur; the in-flight
// result is discarded.
func runOn[T any](ctx context.Context, e *Executor, fn func() (T, error)) (T, error) {
	type outcome struct {
		value T
		err   error
	}
	var zero T

	done := make(chan outcome, 1)
	err := e.Submit(func() {
		value, err1 := fn()
		done <- outcome{value: value, err: err1}
	})
	if err != nil {
		return zero, status.Error(codes.Unavailable, err.Error())
	}

	select {
	case out := <-done:
		return out.value, out.err
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// runVoidOn is runOn for stages with no result.
func runVoidOn(ctx context.Context, e *Executor, fn func() error) error {
	_, err := runOn(ctx, e, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}
