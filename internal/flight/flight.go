// Package flight guards remote fetches so at most one fetch per resource is
// in flight.
//
// A caller that loses the race returns whatever state is already cached. It
// is not queued and is not notified when the winning fetch completes.
package flight

import (
	"sync"
	"sync/atomic"
)

// Kind names a fetchable resource.
type Kind int

const (
	Sessions Kind = iota
	Speakers
	Tracks
	SessionTypes
	ExhibitionMaps
	FavoriteCounts
	FavoredSessions
	Conferences
	numKinds
)

var kindNames = [numKinds]string{
	Sessions:        "sessions",
	Speakers:        "speakers",
	Tracks:          "tracks",
	SessionTypes:    "session_types",
	ExhibitionMaps:  "exhibition_maps",
	FavoriteCounts:  "favorite_counts",
	FavoredSessions: "favored_sessions",
	Conferences:     "conferences",
}

func (k Kind) String() string {
	if k < 0 || k >= numKinds {
		return "unknown"
	}
	return kindNames[k]
}

// Kinds returns every resource kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, numKinds)
	for k := Kind(0); k < numKinds; k++ {
		out = append(out, k)
	}
	return out
}

// Guard is an enum-keyed table of in-flight flags. The zero value is ready
// to use.
type Guard struct {
	flags [numKinds]atomic.Bool
}

// Begin moves kind from idle to in flight and reports whether the caller
// won. Losers must not start the fetch.
func (g *Guard) Begin(kind Kind) bool {
	if kind < 0 || kind >= numKinds {
		return false
	}
	return g.flags[kind].CompareAndSwap(false, true)
}

// End returns kind to idle. It is safe to call when kind is already idle.
func (g *Guard) End(kind Kind) {
	if kind < 0 || kind >= numKinds {
		return
	}
	g.flags[kind].Store(false)
}

// InFlight reports whether a fetch of kind is running.
func (g *Guard) InFlight(kind Kind) bool {
	if kind < 0 || kind >= numKinds {
		return false
	}
	return g.flags[kind].Load()
}

// Keyed applies the same contract to string keys, such as per-speaker detail
// fetches. The zero value is ready to use.
type Keyed struct {
	mu       sync.Mutex
	inFlight map[string]struct{}
}

// Begin marks key in flight and reports whether the caller won.
func (k *Keyed) Begin(key string) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.inFlight == nil {
		k.inFlight = make(map[string]struct{})
	}
	if _, busy := k.inFlight[key]; busy {
		return false
	}
	k.inFlight[key] = struct{}{}
	return true
}

// End releases key.
func (k *Keyed) End(key string) {
	k.mu.Lock()
	delete(k.inFlight, key)
	k.mu.Unlock()
}

// InFlight reports whether key is being fetched.
func (k *Keyed) InFlight(key string) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	_, busy := k.inFlight[key]
	return busy
}

// Len returns the number of keys in flight.
func (k *Keyed) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.inFlight)
}
