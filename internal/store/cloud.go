package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/five82/lanyard/internal/remote"
)

// Cloud is the remote side of CloudFirst collections. Payloads are JSON
// arrays.
type Cloud interface {
	Pull(ctx context.Context, key string) (payload []byte, found bool, err error)
	Push(ctx context.Context, key string, payload []byte) error
}

// RemoteCloud stores collections through the backend's dataList and
// dataStore functions.
type RemoteCloud struct {
	Gateway remote.Gateway
}

// Ensure RemoteCloud implements Cloud at compile time.
var _ Cloud = RemoteCloud{}

type dataListResponse struct {
	Found bool            `json:"found"`
	Items json.RawMessage `json:"items"`
}

// Pull fetches the cloud copy of key.
func (c RemoteCloud) Pull(ctx context.Context, key string) ([]byte, bool, error) {
	var resp dataListResponse
	if err := c.Gateway.Call(ctx, remote.Fn("dataList").Param("key", key), &resp); err != nil {
		return nil, false, err
	}
	if !resp.Found || len(resp.Items) == 0 {
		return nil, false, nil
	}
	return resp.Items, true, nil
}

// Push replaces the cloud copy of key.
func (c RemoteCloud) Push(ctx context.Context, key string, payload []byte) error {
	fn := remote.Fn("dataStore").Param("key", key).Param("payload", string(payload))
	return c.Gateway.Call(ctx, fn, nil)
}

func pull[T any](ctx context.Context, cloud Cloud, key string) ([]T, bool, error) {
	payload, found, err := cloud.Pull(ctx, key)
	if err != nil || !found {
		return nil, false, err
	}
	var items []T
	if err := json.Unmarshal(payload, &items); err != nil {
		return nil, false, fmt.Errorf("decode cloud %s: %w", key, err)
	}
	return items, true, nil
}
