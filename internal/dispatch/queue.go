// Package dispatch provides the serial executor that owns every mutation of
// the core's observable views.
//
// Remote calls and other slow work run on background goroutines through
// [Queue.Go] or [Call]; their completions are marshaled back onto the queue's
// goroutine, so completion handlers never interleave.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Queue runs posted functions one at a time on the goroutine executing Run.
type Queue struct {
	mu      sync.Mutex
	items   []func()
	wake    chan struct{}
	pending sync.WaitGroup
	logger  *slog.Logger
}

// New returns an idle queue. Nothing runs until Run is called.
func New(logger *slog.Logger) *Queue {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Queue{wake: make(chan struct{}, 1), logger: logger}
}

// Start runs the queue on a new goroutine until ctx is done.
func (q *Queue) Start(ctx context.Context) {
	go func() { _ = q.Run(ctx) }()
}

// Run executes posted functions until ctx is done. Functions still queued
// when ctx ends are dropped.
func (q *Queue) Run(ctx context.Context) error {
	for {
		if fn := q.pop(); fn != nil {
			q.exec(fn)
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-q.wake:
		}
	}
}

// Post schedules fn. It never blocks.
func (q *Queue) Post(fn func()) {
	if fn == nil {
		return
	}
	q.pending.Add(1)
	q.mu.Lock()
	q.items = append(q.items, fn)
	q.mu.Unlock()
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// Do posts fn and waits until it has run. It must not be called from the
// queue goroutine.
func (q *Queue) Do(fn func()) {
	done := make(chan struct{})
	q.Post(func() {
		defer close(done)
		fn()
	})
	<-done
}

// Go runs work on a new goroutine and posts the function it returns. A nil
// completion is skipped. A panic in work is logged and drops the completion;
// use Call when the completion must always run.
func (q *Queue) Go(work func() func()) {
	q.pending.Add(1)
	go func() {
		defer q.pending.Done()
		var done func()
		func() {
			defer func() {
				if r := recover(); r != nil {
					q.logger.Error("background work panicked", "panic", fmt.Sprint(r))
				}
			}()
			done = work()
		}()
		q.Post(done)
	}()
}

// Wait blocks until no posted function or background work is outstanding,
// including work scheduled by completions.
func (q *Queue) Wait() {
	q.pending.Wait()
}

func (q *Queue) pop() func() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil
	}
	fn := q.items[0]
	q.items[0] = nil
	q.items = q.items[1:]
	return fn
}

func (q *Queue) exec(fn func()) {
	defer q.pending.Done()
	defer func() {
		if r := recover(); r != nil {
			q.logger.Error("dispatched function panicked", "panic", fmt.Sprint(r))
		}
	}()
	fn()
}

// Call runs work on a background goroutine and delivers its result to done
// on the queue. done always runs: a panic in work arrives as an error.
func Call[T any](q *Queue, work func() (T, error), done func(T, error)) {
	q.Go(func() func() {
		v, err := protect(work)
		return func() { done(v, err) }
	})
}

func protect[T any](work func() (T, error)) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return work()
}
