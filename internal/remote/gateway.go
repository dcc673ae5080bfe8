package remote

import (
	"context"
	"sort"
)

// Gateway invokes a remote function and decodes its JSON result into dest.
// A nil dest discards the result.
type Gateway interface {
	Call(ctx context.Context, fn Function, dest any) error
}

// Function is a named remote function with its parameters.
type Function struct {
	Name   string
	Params map[string]string
}

// Fn starts a Function named name.
func Fn(name string) Function {
	return Function{Name: name}
}

// Param returns a copy of f with key set to value.
func (f Function) Param(key, value string) Function {
	params := make(map[string]string, len(f.Params)+1)
	for k, v := range f.Params {
		params[k] = v
	}
	params[key] = value
	f.Params = params
	return f
}

// Get returns the value of key.
func (f Function) Get(key string) string {
	return f.Params[key]
}

// Keys returns the parameter names, sorted.
func (f Function) Keys() []string {
	keys := make([]string, 0, len(f.Params))
	for k := range f.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Object calls fn and decodes a single object.
func Object[T any](ctx context.Context, gw Gateway, fn Function) (T, error) {
	var out T
	if err := gw.Call(ctx, fn, &out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// List calls fn and decodes a JSON array.
func List[T any](ctx context.Context, gw Gateway, fn Function) ([]T, error) {
	var out []T
	if err := gw.Call(ctx, fn, &out); err != nil {
		return nil, err
	}
	return out, nil
}
