// Package latch implements a count-down completion barrier.
package latch

import (
	"sync"
	"sync/atomic"
)

// Latch fires its callback exactly once when the count reaches zero.
type Latch struct {
	count atomic.Int64
	once  sync.Once
	fire  func()
}

// New returns a latch expecting n completions. A latch created with n <= 0
// fires immediately.
func New(n int, fire func()) *Latch {
	l := &Latch{fire: fire}
	l.count.Store(int64(n))
	if n <= 0 {
		l.release()
	}
	return l
}

// CountDown records one completion. Extra calls after firing are ignored.
func (l *Latch) CountDown() {
	if l == nil {
		return
	}
	if l.count.Add(-1) == 0 {
		l.release()
	}
}

// Remaining returns the number of completions still expected.
func (l *Latch) Remaining() int {
	if n := l.count.Load(); n > 0 {
		return int(n)
	}
	return 0
}

// Fired reports whether the callback has run.
func (l *Latch) Fired() bool {
	return l.Remaining() == 0
}

func (l *Latch) release() {
	l.once.Do(func() {
		if l.fire != nil {
			l.fire()
		}
	})
}
