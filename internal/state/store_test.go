package state

import (
	"errors"
	"testing"
	"time"
)

func TestStore_RecordAndSnapshotClone(t *testing.T) {
	var s Store

	before := time.Now()
	s.Record("sessions", nil)

	snap := s.Snapshot()
	o, ok := snap.Resources["sessions"]
	if !ok {
		t.Fatalf("snapshot missing sessions outcome")
	}
	if o.LastSuccess.Before(before) || o.LastError != nil {
		t.Fatalf("sessions outcome = %#v, want recent success", o)
	}

	// Returned snapshot should be independent of the stored one.
	snap.Resources["sessions"] = Outcome{ConsecutiveFailures: 99}
	snap2 := s.Snapshot()
	if snap2.Resources["sessions"].ConsecutiveFailures != 0 {
		t.Fatalf("Snapshot should clone resources; got %d failures", snap2.Resources["sessions"].ConsecutiveFailures)
	}
}

func TestStore_RecordErrorKeepsPreviousSuccess(t *testing.T) {
	var s Store

	s.Record("speakers", nil)
	prev := s.Snapshot().Resources["speakers"]

	origErr := errors.New("boom")
	s.Record("speakers", origErr)
	s.Record("sessions", origErr)

	snap := s.Snapshot()
	o := snap.Resources["speakers"]
	if !o.LastSuccess.Equal(prev.LastSuccess) {
		t.Fatalf("LastSuccess changed on error: got %v want %v", o.LastSuccess, prev.LastSuccess)
	}
	if !errors.Is(o.LastError, origErr) || !errors.Is(snap.LastError, origErr) {
		t.Fatalf("LastError = %v / %v, want wrapped boom", o.LastError, snap.LastError)
	}
	if !snap.IsOffline() {
		t.Fatalf("IsOffline = false after two consecutive failures")
	}
	if failing := snap.Failing(); len(failing) != 2 || failing[0] != "sessions" {
		t.Fatalf("Failing = %v, want [sessions speakers]", failing)
	}

	s.Record("sessions", nil)
	if s.Snapshot().IsOffline() {
		t.Fatalf("IsOffline = true after a success")
	}

	s.Reset()
	if len(s.Snapshot().Resources) != 0 {
		t.Fatalf("Reset kept outcomes")
	}
}
