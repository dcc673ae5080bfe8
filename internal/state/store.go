package state

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// Outcome is the result history of one resource.
type Outcome struct {
	LastUpdated         time.Time
	LastSuccess         time.Time
	LastError           error
	ConsecutiveFailures int
}

// Snapshot represents the latest fetch outcomes available to the UI.
type Snapshot struct {
	Resources           map[string]Outcome
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive failed fetches across resources
}

// IsOffline returns true when the backend has been unreachable for multiple
// fetches in a row.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Failing returns the resources whose last fetch failed, sorted.
func (s Snapshot) Failing() []string {
	var names []string
	for name, o := range s.Resources {
		if o.LastError != nil {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Record stores the outcome of a fetch of resource. When err is non-nil the
// previous success time is kept and the error is recorded for visibility.
func (s *Store) Record(resource string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if s.snapshot.Resources == nil {
		s.snapshot.Resources = make(map[string]Outcome)
	}
	o := s.snapshot.Resources[resource]
	o.LastUpdated = now
	s.snapshot.LastUpdated = now

	if err != nil {
		o.LastError = err
		o.ConsecutiveFailures++
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
	} else {
		o.LastError = nil
		o.LastSuccess = now
		o.ConsecutiveFailures = 0
		s.snapshot.LastError = nil
		s.snapshot.ConsecutiveFailures = 0
	}
	s.snapshot.Resources[resource] = o
}

// Reset forgets every outcome.
func (s *Store) Reset() {
	s.mu.Lock()
	s.snapshot = Snapshot{}
	s.mu.Unlock()
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Resources = make(map[string]Outcome, len(s.snapshot.Resources))
	for name, o := range s.snapshot.Resources {
		if o.LastError != nil {
			o.LastError = fmt.Errorf("%w", o.LastError)
		}
		snap.Resources[name] = o
	}
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}
