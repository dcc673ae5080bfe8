package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// ErrNoFixture is returned for functions missing from a fixture file.
var ErrNoFixture = errors.New("no fixture for function")

// Ensure Fixtures implements Gateway at compile time.
var _ Gateway = (*Fixtures)(nil)

// Fixtures answers remote functions from canned results loaded from YAML:
//
//	functions:
//	  allConferences:
//	    - id: "42"
//	      name: Devoxx Belgium
//	  favoredAdd: {}
type Fixtures struct {
	mu      sync.RWMutex
	results map[string]json.RawMessage
}

// LoadFixtures reads a fixture file.
func LoadFixtures(path string) (*Fixtures, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}
	return ParseFixtures(data)
}

// ParseFixtures decodes fixture YAML.
func ParseFixtures(data []byte) (*Fixtures, error) {
	var raw struct {
		Functions map[string]any `yaml:"functions"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	f := &Fixtures{results: make(map[string]json.RawMessage, len(raw.Functions))}
	for name, v := range raw.Functions {
		encoded, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode fixture %s: %w", name, err)
		}
		f.results[name] = encoded
	}
	return f, nil
}

// Set replaces the canned result for name.
func (f *Fixtures) Set(name string, v any) error {
	encoded, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode fixture %s: %w", name, err)
	}
	f.mu.Lock()
	f.results[name] = encoded
	f.mu.Unlock()
	return nil
}

// Call decodes the canned result for fn into dest.
func (f *Fixtures) Call(ctx context.Context, fn Function, dest any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.RLock()
	result, ok := f.results[fn.Name]
	f.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w %s", ErrNoFixture, fn.Name)
	}
	if dest == nil {
		return nil
	}
	if err := json.Unmarshal(result, dest); err != nil {
		return fmt.Errorf("decode %s fixture: %w", fn.Name, err)
	}
	return nil
}
