package app

import (
	"sync/atomic"
	"testing"
	"time"
)

type fakeTarget struct {
	checks    atomic.Int32
	refreshes atomic.Int32
}

func (f *fakeTarget) CheckReloadRequested() bool {
	f.checks.Add(1)
	return false
}

func (f *fakeTarget) RefreshFavoriteCounts() {
	f.refreshes.Add(1)
}

func TestStartPoller_RunsBothJobs(t *testing.T) {
	target := &fakeTarget{}
	c, err := StartPoller(target, "@every 1s", "@every 1s", nil)
	if err != nil {
		t.Fatalf("StartPoller returned error: %v", err)
	}
	defer c.Stop()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if target.checks.Load() > 0 && target.refreshes.Load() > 0 {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatalf("jobs ran checks=%d refreshes=%d, want both > 0", target.checks.Load(), target.refreshes.Load())
}

func TestStartPoller_RejectsBadSchedules(t *testing.T) {
	tests := []struct {
		name   string
		reload string
		counts string
	}{
		{name: "reload", reload: "every minute", counts: "@every 5m"},
		{name: "counts", reload: "@every 1m", counts: "* * *"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := StartPoller(&fakeTarget{}, tt.reload, tt.counts, nil); err == nil {
				t.Fatalf("StartPoller(%q, %q) succeeded, want error", tt.reload, tt.counts)
			}
		})
	}
}
