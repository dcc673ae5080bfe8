package store

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/five82/lanyard/internal/observable"
)

// Sequence is a live collection persisted on every change.
type Sequence[T any] struct {
	*observable.List[T]

	store *Store
	key   Key
	mode  Mode
	ready chan struct{}

	mu         sync.Mutex
	err        error
	cancel     func()
	closed     bool
	pushMu     sync.Mutex
	lastPushed uint64
}

// Read returns the sequence for key and starts loading it.
func Read[T any](s *Store, key Key, mode Mode) *Sequence[T] {
	seq := &Sequence[T]{
		List:  observable.NewList[T](),
		store: s,
		key:   key,
		mode:  mode,
		ready: make(chan struct{}),
	}
	name := key.String()
	s.runner.Go(func() func() {
		items, err := load[T](s, name, mode)
		return func() { seq.populate(items, err) }
	})
	return seq
}

// Key returns the collection key.
func (q *Sequence[T]) Key() Key { return q.key }

// Mode returns the collection mode.
func (q *Sequence[T]) Mode() Mode { return q.mode }

// Ready is closed once loading finished and write-through is active.
func (q *Sequence[T]) Ready() <-chan struct{} { return q.ready }

// Err returns the load error, if any.
func (q *Sequence[T]) Err() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.err
}

// Close stops persisting changes. The elements stay readable.
func (q *Sequence[T]) Close() {
	q.mu.Lock()
	q.closed = true
	cancel := q.cancel
	q.cancel = nil
	q.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (q *Sequence[T]) populate(items []T, err error) {
	defer close(q.ready)

	q.mu.Lock()
	q.err = err
	closed := q.closed
	q.mu.Unlock()

	if err != nil {
		q.store.logger.Warn("load collection failed", "key", q.key.String(), "mode", q.mode.String(), "error", err)
	}
	early := q.Items()
	if len(items) > 0 {
		q.SetAll(append(items, early...))
	}
	if closed {
		return
	}

	cancel := q.Subscribe(func(observable.Change[T]) { q.persist() })
	q.mu.Lock()
	q.cancel = cancel
	q.mu.Unlock()

	if len(early) > 0 {
		q.persist()
	}
}

// persist writes the current snapshot locally and, in CloudFirst mode,
// pushes it in the background.
func (q *Sequence[T]) persist() {
	s := q.store
	name := q.key.String()
	items := q.Items()
	if items == nil {
		items = []T{}
	}
	version := q.Version()

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := s.saveLocal(ctx, name, items); err != nil {
		s.logger.Error("persist collection failed", "key", name, "error", err)
	}

	if q.mode != CloudFirst || s.cloud == nil {
		return
	}
	s.runner.Go(func() func() {
		err := q.push(name, items, version)
		if err == nil {
			return nil
		}
		return func() {
			s.logger.Warn("cloud push failed", "key", name, "error", err)
		}
	})
}

// push sends a snapshot unless a newer one already went out.
func (q *Sequence[T]) push(name string, items []T, version uint64) error {
	q.pushMu.Lock()
	defer q.pushMu.Unlock()
	if version <= q.lastPushed {
		return nil
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), q.store.timeout)
	defer cancel()
	if err := q.store.cloud.Push(ctx, name, payload); err != nil {
		return err
	}
	q.lastPushed = version
	return nil
}
