// Package remotetest provides a scripted in-memory remote.Gateway.
package remotetest

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/five82/lanyard/internal/remote"
)

// Handler produces the result of one call.
type Handler func(fn remote.Function) (any, error)

// Ensure Gateway implements remote.Gateway at compile time.
var _ remote.Gateway = (*Gateway)(nil)

// Gateway records every call and answers through per-function handlers.
// Results travel through JSON so decoding matches the HTTP client.
type Gateway struct {
	mu       sync.Mutex
	handlers map[string]Handler
	calls    []remote.Function
}

// New returns a gateway with no handlers. Calls to unhandled functions fail.
func New() *Gateway {
	return &Gateway{handlers: make(map[string]Handler)}
}

// Handle installs h for name.
func (g *Gateway) Handle(name string, h Handler) {
	g.mu.Lock()
	g.handlers[name] = h
	g.mu.Unlock()
}

// Reply makes name always return v.
func (g *Gateway) Reply(name string, v any) {
	g.Handle(name, func(remote.Function) (any, error) { return v, nil })
}

// Fail makes name always return err.
func (g *Gateway) Fail(name string, err error) {
	g.Handle(name, func(remote.Function) (any, error) { return nil, err })
}

// Call implements remote.Gateway.
func (g *Gateway) Call(ctx context.Context, fn remote.Function, dest any) error {
	g.mu.Lock()
	g.calls = append(g.calls, fn)
	h := g.handlers[fn.Name]
	g.mu.Unlock()

	if h == nil {
		return fmt.Errorf("remotetest: no handler for %s", fn.Name)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	v, err := h(fn)
	if err != nil {
		return err
	}
	if dest == nil || v == nil {
		return nil
	}
	encoded, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("remotetest: encode %s: %w", fn.Name, err)
	}
	return json.Unmarshal(encoded, dest)
}

// Calls returns the recorded calls to name. An empty name returns all calls.
func (g *Gateway) Calls(name string) []remote.Function {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []remote.Function
	for _, c := range g.calls {
		if name == "" || c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// Count returns the number of calls to name.
func (g *Gateway) Count(name string) int {
	return len(g.Calls(name))
}

// Reset forgets recorded calls.
func (g *Gateway) Reset() {
	g.mu.Lock()
	g.calls = nil
	g.mu.Unlock()
}
