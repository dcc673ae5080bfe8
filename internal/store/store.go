package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Mode selects where a collection lives.
type Mode int

const (
	// LocalOnly keeps the collection in the local database.
	LocalOnly Mode = iota
	// CloudFirst pulls from the cloud and writes through to it.
	CloudFirst
)

func (m Mode) String() string {
	if m == CloudFirst {
		return "cloud"
	}
	return "local"
}

// Key identifies a collection.
type Key struct {
	Scope      string
	Conference string
	Collection string
}

func (k Key) String() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{k.Scope, k.Conference, k.Collection} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, "_")
}

// Runner runs work off the caller's goroutine and executes the returned
// completion on the dispatch goroutine. *dispatch.Queue satisfies it.
type Runner interface {
	Go(work func() func())
}

// Options configure Open.
type Options struct {
	Path     string
	PoolSize int
	Cloud    Cloud
	Runner   Runner
	Logger   *slog.Logger
	Timeout  time.Duration // per load/push; zero uses the default
}

const defaultTimeout = 15 * time.Second

// Store owns the database and the optional cloud backend.
type Store struct {
	db      *db
	codec   *codec
	cloud   Cloud
	runner  Runner
	logger  *slog.Logger
	timeout time.Duration
}

// Open opens or creates the database at opts.Path.
func Open(opts Options) (*Store, error) {
	if strings.TrimSpace(opts.Path) == "" {
		return nil, errors.New("store path is required")
	}
	if opts.Runner == nil {
		return nil, errors.New("store runner is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	c, err := newCodec()
	if err != nil {
		return nil, err
	}
	d, err := openDB(opts.Path, opts.PoolSize, logger)
	if err != nil {
		c.close()
		return nil, err
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Store{db: d, codec: c, cloud: opts.Cloud, runner: opts.Runner, logger: logger, timeout: timeout}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	err := s.db.close()
	s.codec.close()
	return err
}

// Delete removes the local copy of key.
func (s *Store) Delete(ctx context.Context, key Key) error {
	return s.db.delete(ctx, key.String())
}

// Keys lists the locally stored collection keys.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	return s.db.keys(ctx)
}

func (s *Store) saveLocal(ctx context.Context, key string, items any) error {
	payload, err := s.codec.encode(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.db.put(ctx, key, payload)
}

func loadLocal[T any](ctx context.Context, s *Store, key string) ([]T, error) {
	payload, found, err := s.db.get(ctx, key)
	if err != nil || !found {
		return nil, err
	}
	var items []T
	if err := s.codec.decode(payload, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return items, nil
}

// load resolves the initial contents of a collection for mode.
func load[T any](s *Store, key string, mode Mode) ([]T, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if mode == CloudFirst && s.cloud != nil {
		items, found, err := pull[T](ctx, s.cloud, key)
		switch {
		case err != nil:
			s.logger.Warn("cloud pull failed, using local copy", "key", key, "error", err)
		case found:
			if err := s.saveLocal(ctx, key, items); err != nil {
				s.logger.Warn("cache cloud copy failed", "key", key, "error", err)
			}
			return items, nil
		}
	}
	return loadLocal[T](ctx, s, key)
}
