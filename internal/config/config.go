package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds lanyard's runtime settings.
type Config struct {
	APIURL           string
	DataDir          string
	SettingsPath     string
	LogLevel         slog.Level
	RemoteNotes      bool
	Fixtures         string
	RequestTimeout   time.Duration
	ReloadCheck      string
	FavoritesRefresh string
	RatingTestOffset time.Duration
	Theme            string
	Identity         Identity
}

// Identity is the account lanyard signs in with. An empty Email means no
// sign-in.
type Identity struct {
	Name        string
	Email       string
	NetworkID   string
	LoginMethod string
}

// Configured reports whether an identity was given.
func (i Identity) Configured() bool {
	return i.Email != ""
}

const (
	defaultConfigPath       = "~/.config/lanyard/config.toml"
	defaultDataDir          = "~/.local/share/lanyard"
	defaultSettingsPath     = "~/.config/lanyard/settings.toml"
	defaultAPIURL           = "https://api.lanyard.events"
	defaultRequestTimeout   = 20 * time.Second
	defaultReloadCheck      = "@every 1m"
	defaultFavoritesRefresh = "@every 5m"
	defaultTheme            = "dark"
	defaultLoginMethod      = "CUSTOM"
)

type rawConfig struct {
	APIURL           string `toml:"api_url"`
	DataDir          string `toml:"data_dir"`
	SettingsPath     string `toml:"settings_path"`
	LogLevel         string `toml:"log_level"`
	RemoteNotes      bool   `toml:"remote_notes"`
	Fixtures         string `toml:"fixtures"`
	RequestTimeout   string `toml:"request_timeout"`
	ReloadCheck      string `toml:"reload_check"`
	FavoritesRefresh string `toml:"favorites_refresh"`
	RatingTestOffset string `toml:"rating_test_offset"`
	Theme            string `toml:"theme"`

	Identity rawIdentity `toml:"identity"`
}

type rawIdentity struct {
	Name        string `toml:"name"`
	Email       string `toml:"email"`
	NetworkID   string `toml:"network_id"`
	LoginMethod string `toml:"login_method"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		APIURL:           defaultAPIURL,
		DataDir:          mustExpand(defaultDataDir),
		SettingsPath:     mustExpand(defaultSettingsPath),
		LogLevel:         slog.LevelInfo,
		RequestTimeout:   defaultRequestTimeout,
		ReloadCheck:      defaultReloadCheck,
		FavoritesRefresh: defaultFavoritesRefresh,
		Theme:            defaultTheme,
	}
}

// Load reads the config at path, falling back to defaults when it is missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.apply(raw); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) apply(raw rawConfig) error {
	if v := strings.TrimSpace(raw.APIURL); v != "" {
		c.APIURL = strings.TrimRight(v, "/")
	}
	if v := strings.TrimSpace(raw.DataDir); v != "" {
		c.DataDir = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.SettingsPath); v != "" {
		c.SettingsPath = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		if err := c.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("parse log_level: %w", err)
		}
	}
	c.RemoteNotes = raw.RemoteNotes
	if v := strings.TrimSpace(raw.Fixtures); v != "" {
		c.Fixtures = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.RequestTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse request_timeout: %w", err)
		}
		if d <= 0 {
			return fmt.Errorf("request_timeout must be positive, got %s", v)
		}
		c.RequestTimeout = d
	}
	if v := strings.TrimSpace(raw.ReloadCheck); v != "" {
		c.ReloadCheck = v
	}
	if v := strings.TrimSpace(raw.FavoritesRefresh); v != "" {
		c.FavoritesRefresh = v
	}
	if v := strings.TrimSpace(raw.RatingTestOffset); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse rating_test_offset: %w", err)
		}
		c.RatingTestOffset = d
	}
	if v := strings.TrimSpace(raw.Theme); v != "" {
		c.Theme = strings.ToLower(v)
	}
	c.Identity = NewIdentity(raw.Identity.Email)
	if c.Identity.Configured() {
		c.Identity.Name = strings.TrimSpace(raw.Identity.Name)
		if v := strings.TrimSpace(raw.Identity.NetworkID); v != "" {
			c.Identity.NetworkID = v
		}
		if v := strings.TrimSpace(raw.Identity.LoginMethod); v != "" {
			c.Identity.LoginMethod = strings.ToUpper(v)
		}
	}
	return nil
}

// NewIdentity returns a self-issued identity for email, keyed by the email
// itself. A blank email yields the zero Identity.
func NewIdentity(email string) Identity {
	email = strings.TrimSpace(email)
	if email == "" {
		return Identity{}
	}
	return Identity{Email: email, NetworkID: email, LoginMethod: defaultLoginMethod}
}

// LogPath returns the path of lanyard's log file.
func (c Config) LogPath() string {
	if strings.TrimSpace(c.DataDir) == "" {
		return mustExpand(defaultDataDir + "/lanyard.log")
	}
	return filepath.Join(c.DataDir, "lanyard.log")
}

// StorePath returns the path of the local collection database.
func (c Config) StorePath() string {
	if strings.TrimSpace(c.DataDir) == "" {
		return mustExpand(defaultDataDir + "/lanyard.db")
	}
	return filepath.Join(c.DataDir, "lanyard.db")
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
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
