package flight

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestGuard_SingleWinnerUnderContention(t *testing.T) {
	var g Guard
	var winners atomic.Int32

	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if g.Begin(Sessions) {
				winners.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()

	if got := winners.Load(); got != 1 {
		t.Fatalf("winners = %d, want 1", got)
	}
	if !g.InFlight(Sessions) {
		t.Fatalf("InFlight(Sessions) = false, want true")
	}
	g.End(Sessions)
	if g.InFlight(Sessions) {
		t.Fatalf("InFlight(Sessions) after End = true, want false")
	}
	if !g.Begin(Sessions) {
		t.Fatalf("Begin after End = false, want true")
	}
}

func TestGuard_KindsAreIndependent(t *testing.T) {
	var g Guard
	if !g.Begin(Sessions) || !g.Begin(Speakers) {
		t.Fatalf("Begin on distinct kinds should both win")
	}
	g.End(Speakers)
	if !g.InFlight(Sessions) {
		t.Fatalf("ending Speakers released Sessions")
	}
	g.End(Speakers)
	if g.InFlight(Speakers) {
		t.Fatalf("double End left Speakers in flight")
	}
}

func TestGuard_UnknownKind(t *testing.T) {
	var g Guard
	if g.Begin(Kind(-1)) || g.Begin(numKinds) {
		t.Fatalf("Begin on unknown kind = true, want false")
	}
	if Kind(99).String() != "unknown" {
		t.Fatalf("String of unknown kind = %q", Kind(99).String())
	}
	if len(Kinds()) != int(numKinds) {
		t.Fatalf("Kinds() len = %d, want %d", len(Kinds()), numKinds)
	}
}

func TestKeyed_BeginEnd(t *testing.T) {
	var k Keyed
	if !k.Begin("a") {
		t.Fatalf("first Begin(a) = false")
	}
	if k.Begin("a") {
		t.Fatalf("second Begin(a) = true, want false")
	}
	if !k.Begin("b") {
		t.Fatalf("Begin(b) = false")
	}
	if k.Len() != 2 {
		t.Fatalf("Len = %d, want 2", k.Len())
	}
	k.End("a")
	if k.InFlight("a") || !k.InFlight("b") {
		t.Fatalf("End(a) released wrong keys")
	}
}
