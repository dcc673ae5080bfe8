package store

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/five82/lanyard/internal/dispatch"
)

type record struct {
	ID      string
	Count   int
	Updated time.Time
}

type fakeCloud struct {
	mu      sync.Mutex
	data    map[string][]byte
	pullErr error
	pushes  []string
}

func (c *fakeCloud) Pull(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pullErr != nil {
		return nil, false, c.pullErr
	}
	payload, ok := c.data[key]
	return payload, ok, nil
}

func (c *fakeCloud) Push(_ context.Context, key string, payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.data == nil {
		c.data = make(map[string][]byte)
	}
	c.data[key] = payload
	c.pushes = append(c.pushes, key)
	return nil
}

func (c *fakeCloud) pushCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pushes)
}

func newQueue(t *testing.T) *dispatch.Queue {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	q := dispatch.New(nil)
	q.Start(ctx)
	return q
}

func openStore(t *testing.T, path string, q *dispatch.Queue, cloud Cloud) *Store {
	t.Helper()
	s, err := Open(Options{Path: path, Runner: q, Cloud: cloud})
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	return s
}

func waitReady[T any](t *testing.T, seq *Sequence[T]) {
	t.Helper()
	select {
	case <-seq.Ready():
	case <-time.After(5 * time.Second):
		t.Fatalf("sequence %s never became ready", seq.Key())
	}
}

func TestKey_String(t *testing.T) {
	k := Key{Scope: "acct", Conference: "42", Collection: "notes"}
	if k.String() != "acct_42_notes" {
		t.Fatalf("Key = %q, want acct_42_notes", k.String())
	}
	if (Key{Collection: "badges"}).String() != "badges" {
		t.Fatalf("Key with empty parts = %q", Key{Collection: "badges"}.String())
	}
}

func TestOpen_Validates(t *testing.T) {
	if _, err := Open(Options{Runner: dispatch.New(nil)}); err == nil {
		t.Fatalf("Open without path error = nil")
	}
	if _, err := Open(Options{Path: filepath.Join(t.TempDir(), "x.db")}); err == nil {
		t.Fatalf("Open without runner error = nil")
	}
}

func TestRead_LocalWriteThroughSurvivesReopen(t *testing.T) {
	q := newQueue(t)
	path := filepath.Join(t.TempDir(), "lanyard.db")
	key := Key{Scope: "acct", Conference: "42", Collection: "notes"}
	stamp := time.Date(2019, 11, 6, 10, 30, 0, 123, time.UTC)

	s := openStore(t, path, q, nil)
	seq := Read[record](s, key, LocalOnly)
	waitReady(t, seq)
	if seq.Len() != 0 || seq.Err() != nil {
		t.Fatalf("fresh sequence len=%d err=%v", seq.Len(), seq.Err())
	}

	q.Do(func() {
		seq.Add(record{ID: "a", Count: 1, Updated: stamp}, record{ID: "b", Count: 2})
		seq.Remove(func(r record) bool { return r.ID == "b" })
	})
	q.Wait()
	if err := s.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	s = openStore(t, path, q, nil)
	t.Cleanup(func() { _ = s.Close() })
	again := Read[record](s, key, LocalOnly)
	waitReady(t, again)

	items := again.Items()
	if len(items) != 1 || items[0].ID != "a" || items[0].Count != 1 {
		t.Fatalf("reloaded items = %#v, want [a]", items)
	}
	if !items[0].Updated.Equal(stamp) {
		t.Fatalf("Updated = %v, want %v", items[0].Updated, stamp)
	}
	keys, err := s.Keys(context.Background())
	if err != nil || len(keys) != 1 || keys[0] != key.String() {
		t.Fatalf("Keys = %v, %v", keys, err)
	}
}

func TestRead_CloudFirstPopulationIsNotPushed(t *testing.T) {
	q := newQueue(t)
	key := Key{Scope: "acct", Conference: "42", Collection: "badges"}
	payload, _ := json.Marshal([]record{{ID: "remote", Count: 7}})
	cloud := &fakeCloud{data: map[string][]byte{key.String(): payload}}

	s := openStore(t, filepath.Join(t.TempDir(), "lanyard.db"), q, cloud)
	t.Cleanup(func() { _ = s.Close() })

	seq := Read[record](s, key, CloudFirst)
	waitReady(t, seq)
	q.Wait()

	if items := seq.Items(); len(items) != 1 || items[0].ID != "remote" {
		t.Fatalf("items = %#v, want cloud copy", items)
	}
	if n := cloud.pushCount(); n != 0 {
		t.Fatalf("pushes after population = %d, want 0", n)
	}

	q.Do(func() { seq.Add(record{ID: "local"}) })
	q.Wait()
	if n := cloud.pushCount(); n != 1 {
		t.Fatalf("pushes after add = %d, want 1", n)
	}

	// The cloud copy was cached locally.
	local := Read[record](s, key, LocalOnly)
	waitReady(t, local)
	if local.Len() != 2 {
		t.Fatalf("local copy len = %d, want 2", local.Len())
	}
}

func TestRead_CloudFailureFallsBackToLocal(t *testing.T) {
	q := newQueue(t)
	key := Key{Scope: "acct", Collection: "notes"}
	cloud := &fakeCloud{}

	s := openStore(t, filepath.Join(t.TempDir(), "lanyard.db"), q, cloud)
	t.Cleanup(func() { _ = s.Close() })
	if err := s.saveLocal(context.Background(), key.String(), []record{{ID: "cached"}}); err != nil {
		t.Fatalf("saveLocal returned error: %v", err)
	}

	cloud.pullErr = errors.New("offline")
	seq := Read[record](s, key, CloudFirst)
	waitReady(t, seq)

	if items := seq.Items(); len(items) != 1 || items[0].ID != "cached" {
		t.Fatalf("items = %#v, want local fallback", items)
	}
	if seq.Err() != nil {
		t.Fatalf("Err = %v, want nil after fallback", seq.Err())
	}
}

func TestSequence_CloseStopsPersisting(t *testing.T) {
	q := newQueue(t)
	key := Key{Collection: "sponsor_badges"}
	s := openStore(t, filepath.Join(t.TempDir(), "lanyard.db"), q, nil)
	t.Cleanup(func() { _ = s.Close() })

	seq := Read[record](s, key, LocalOnly)
	waitReady(t, seq)
	seq.Close()
	q.Do(func() { seq.Add(record{ID: "ignored"}) })
	q.Wait()

	if err := s.Delete(context.Background(), Key{Collection: "missing"}); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	keys, err := s.Keys(context.Background())
	if err != nil || len(keys) != 0 {
		t.Fatalf("Keys after closed add = %v, %v; want none", keys, err)
	}
}
