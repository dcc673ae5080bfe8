// Package observable provides a list that reports every mutation to its
// subscribers as a change event.
package observable

import "sync"

// Change describes one mutation. Updated carries elements replaced in place;
// their position did not change.
type Change[T any] struct {
	Added   []T
	Removed []T
	Updated []T
}

// Empty reports whether the change carries no elements.
func (c Change[T]) Empty() bool {
	return len(c.Added) == 0 && len(c.Removed) == 0 && len(c.Updated) == 0
}

type subscriber[T any] struct {
	id int
	fn func(Change[T])
}

// List is a mutex-guarded ordered sequence. Subscribers run synchronously on
// the mutating goroutine after the lock is released, in subscription order.
type List[T any] struct {
	mu      sync.RWMutex
	items   []T
	subs    []subscriber[T]
	nextID  int
	version uint64
}

// NewList returns a list holding items.
func NewList[T any](items ...T) *List[T] {
	l := &List[T]{}
	l.items = append(l.items, items...)
	return l
}

// Len returns the number of elements.
func (l *List[T]) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

// Version increases on every mutation.
func (l *List[T]) Version() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.version
}

// Items returns a copy of the elements.
func (l *List[T]) Items() []T {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if len(l.items) == 0 {
		return nil
	}
	out := make([]T, len(l.items))
	copy(out, l.items)
	return out
}

// At returns the element at i.
func (l *List[T]) At(i int) (T, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if i < 0 || i >= len(l.items) {
		var zero T
		return zero, false
	}
	return l.items[i], true
}

// Find returns the first element matching and its index.
func (l *List[T]) Find(match func(T) bool) (T, int, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for i, item := range l.items {
		if match(item) {
			return item, i, true
		}
	}
	var zero T
	return zero, -1, false
}

// Contains reports whether any element matches.
func (l *List[T]) Contains(match func(T) bool) bool {
	_, _, ok := l.Find(match)
	return ok
}

// Add appends items.
func (l *List[T]) Add(items ...T) {
	if len(items) == 0 {
		return
	}
	l.mu.Lock()
	l.items = append(l.items, items...)
	added := append([]T(nil), items...)
	l.publishLocked(Change[T]{Added: added})
}

// Remove deletes every element matching and returns how many were removed.
func (l *List[T]) Remove(match func(T) bool) int {
	l.mu.Lock()
	var removed []T
	kept := l.items[:0]
	for _, item := range l.items {
		if match(item) {
			removed = append(removed, item)
			continue
		}
		kept = append(kept, item)
	}
	if len(removed) == 0 {
		l.mu.Unlock()
		return 0
	}
	clearTail(l.items, len(kept))
	l.items = kept
	l.publishLocked(Change[T]{Removed: removed})
	return len(removed)
}

// SetAll replaces the contents with items.
func (l *List[T]) SetAll(items []T) {
	l.mu.Lock()
	old := l.items
	l.items = append([]T(nil), items...)
	change := Change[T]{Removed: old, Added: append([]T(nil), items...)}
	if change.Empty() {
		l.mu.Unlock()
		return
	}
	l.publishLocked(change)
}

// Clear removes every element.
func (l *List[T]) Clear() {
	l.SetAll(nil)
}

// Update mutates the element at i in place.
func (l *List[T]) Update(i int, fn func(*T)) bool {
	l.mu.Lock()
	if i < 0 || i >= len(l.items) {
		l.mu.Unlock()
		return false
	}
	fn(&l.items[i])
	l.publishLocked(Change[T]{Updated: []T{l.items[i]}})
	return true
}

// Subscribe registers fn for future changes. The returned func cancels the
// subscription and may be called more than once.
func (l *List[T]) Subscribe(fn func(Change[T])) (cancel func()) {
	l.mu.Lock()
	l.nextID++
	id := l.nextID
	l.subs = append(l.subs, subscriber[T]{id: id, fn: fn})
	l.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			for i, s := range l.subs {
				if s.id == id {
					l.subs = append(l.subs[:i:i], l.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// Subscribers returns the number of active subscriptions.
func (l *List[T]) Subscribers() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.subs)
}

// publishLocked bumps the version, releases the lock and notifies.
func (l *List[T]) publishLocked(change Change[T]) {
	l.version++
	subs := append([]subscriber[T](nil), l.subs...)
	l.mu.Unlock()
	for _, s := range subs {
		s.fn(change)
	}
}

func clearTail[T any](items []T, from int) {
	var zero T
	for i := from; i < len(items); i++ {
		items[i] = zero
	}
}
