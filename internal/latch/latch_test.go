package latch

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestLatch_FiresOnceAtZero(t *testing.T) {
	var fired atomic.Int32
	l := New(2, func() { fired.Add(1) })

	l.CountDown()
	if fired.Load() != 0 || l.Fired() {
		t.Fatalf("fired after first count down")
	}
	if l.Remaining() != 1 {
		t.Fatalf("Remaining = %d, want 1", l.Remaining())
	}
	l.CountDown()
	l.CountDown()
	if got := fired.Load(); got != 1 {
		t.Fatalf("fired = %d, want 1", got)
	}
}

func TestLatch_OrderIndependent(t *testing.T) {
	var fired atomic.Int32
	l := New(2, func() { fired.Add(1) })

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.CountDown()
		}()
	}
	wg.Wait()
	if got := fired.Load(); got != 1 {
		t.Fatalf("fired = %d, want 1", got)
	}
}

func TestLatch_ZeroFiresImmediately(t *testing.T) {
	fired := false
	New(0, func() { fired = true })
	if !fired {
		t.Fatalf("latch of zero did not fire")
	}
	var nilLatch *Latch
	nilLatch.CountDown()
}
