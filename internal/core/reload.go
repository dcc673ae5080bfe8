package core

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ReloadMarker is the file name whose presence in the storage root asks the
// core to refetch sessions and speakers.
const ReloadMarker = "reload"

// RequestReload drops the reload marker into root.
func RequestReload(root string, payload []byte) error {
	if root == "" {
		return errors.New("storage root is empty")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return fmt.Errorf("create storage root: %w", err)
	}
	path := filepath.Join(root, ReloadMarker)
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("write reload marker: %w", err)
	}
	return nil
}

// CheckReloadRequested consumes the reload marker and, when one was present,
// refetches sessions and speakers. It reports whether a reload was triggered.
func (c *Core) CheckReloadRequested() bool {
	if c.root == "" {
		return false
	}
	path := filepath.Join(c.root, ReloadMarker)
	if err := os.Remove(path); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			c.logger.Warn("consume reload marker failed", "path", path, "error", err)
		}
		return false
	}
	c.logger.Info("reload requested", "path", path)
	c.queue.Post(func() {
		c.retrieveSessions()
		c.retrieveSpeakers()
	})
	return true
}
