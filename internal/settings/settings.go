// Package settings persists lanyard's small key/value state: the saved
// conference, the linked account, rating markers and UI preferences.
// Values are stored in ~/.config/lanyard/settings.toml.
package settings

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	toml "github.com/pelletier/go-toml/v2"
)

// Keys used across lanyard.
const (
	SavedConferenceID       = "SAVED_CONFERENCE_ID"
	SavedAccountID          = "SAVED_ACCOUNT_ID"
	BadgeType               = "BADGE_TYPE"
	BadgeSponsor            = "BADGE_SPONSOR"
	Rating                  = "RATING"
	LocalNotificationRating = "LOCAL_NOTIFICATION_RATING"
	DeviceID                = "DEVICE_ID"
	Theme                   = "THEME"
)

const defaultSettingsPath = "~/.config/lanyard/settings.toml"

// DefaultPath returns the default settings file path.
func DefaultPath() string {
	return defaultSettingsPath
}

type file struct {
	Values map[string]string `toml:"values"`
}

// Settings is a goroutine-safe key/value store written through to disk on
// every change. An empty path keeps values in memory only.
type Settings struct {
	mu     sync.RWMutex
	path   string
	values map[string]string
}

// Memory returns settings that are never persisted.
func Memory() *Settings {
	return &Settings{values: make(map[string]string)}
}

// Load reads settings from path, starting empty when the file is missing or
// unreadable.
func Load(path string) *Settings {
	s := Memory()
	resolved, err := resolvePath(path)
	if err != nil {
		return s
	}
	s.path = resolved

	f, err := os.Open(resolved)
	if err != nil {
		return s // Graceful degradation, including os.ErrNotExist
	}
	defer func() { _ = f.Close() }()

	bytes, err := io.ReadAll(f)
	if err != nil {
		return s
	}
	var decoded file
	if err := toml.Unmarshal(bytes, &decoded); err != nil {
		return s
	}
	for k, v := range decoded.Values {
		s.values[k] = v
	}
	return s
}

// Path returns the backing file, or "" for in-memory settings.
func (s *Settings) Path() string {
	return s.path
}

// Retrieve returns the value stored under key.
func (s *Settings) Retrieve(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// Store sets key to value and persists.
func (s *Settings) Store(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.values[key]; ok && cur == value {
		return nil
	}
	s.values[key] = value
	return s.saveLocked()
}

// Remove deletes key and persists.
func (s *Settings) Remove(keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	changed := false
	for _, key := range keys {
		if _, ok := s.values[key]; ok {
			delete(s.values, key)
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return s.saveLocked()
}

// ContainsCSV reports whether the comma-separated list under key holds value.
func (s *Settings) ContainsCSV(key, value string) bool {
	raw, _ := s.Retrieve(key)
	for _, item := range splitCSV(raw) {
		if item == value {
			return true
		}
	}
	return false
}

// AddCSV appends value to the comma-separated list under key unless present.
func (s *Settings) AddCSV(key, value string) error {
	value = strings.TrimSpace(value)
	if value == "" || s.ContainsCSV(key, value) {
		return nil
	}
	raw, _ := s.Retrieve(key)
	items := append(splitCSV(raw), value)
	return s.Store(key, strings.Join(items, ","))
}

func (s *Settings) saveLocked() error {
	if s.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}
	bytes, err := toml.Marshal(file{Values: s.values})
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	if err := os.WriteFile(s.path, bytes, 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

func splitCSV(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultSettingsPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", errors.New("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
