package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != defaultAPIURL {
		t.Fatalf("APIURL = %q, want %q", cfg.APIURL, defaultAPIURL)
	}
	wantDataDir, err := expandPath(defaultDataDir)
	if err != nil {
		t.Fatalf("expandPath(defaultDataDir) returned error: %v", err)
	}
	if cfg.DataDir != wantDataDir {
		t.Fatalf("DataDir = %q, want %q", cfg.DataDir, wantDataDir)
	}
	if cfg.LogPath() != filepath.Join(wantDataDir, "lanyard.log") {
		t.Fatalf("LogPath = %q, want %q", cfg.LogPath(), filepath.Join(wantDataDir, "lanyard.log"))
	}
	if cfg.RequestTimeout != defaultRequestTimeout {
		t.Fatalf("RequestTimeout = %v, want %v", cfg.RequestTimeout, defaultRequestTimeout)
	}
	if cfg.ReloadCheck != defaultReloadCheck || cfg.FavoritesRefresh != defaultFavoritesRefresh {
		t.Fatalf("schedules = %q, %q, want defaults", cfg.ReloadCheck, cfg.FavoritesRefresh)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Fatalf("LogLevel = %v, want info", cfg.LogLevel)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := writeConfig(t, `
api_url = "  https://cfp.example.com/  "
data_dir = "  ~/.lanyard  "
log_level = "debug"
remote_notes = true
fixtures = "~/fixtures.yaml"
request_timeout = "5s"
reload_check = "@every 30s"
favorites_refresh = "*/10 * * * *"
rating_test_offset = "2h"
theme = " Light "
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != "https://cfp.example.com" {
		t.Fatalf("APIURL = %q, want %q", cfg.APIURL, "https://cfp.example.com")
	}
	if !strings.HasPrefix(cfg.DataDir, home) {
		t.Fatalf("DataDir = %q, want it under HOME %q", cfg.DataDir, home)
	}
	if cfg.StorePath() != filepath.Join(cfg.DataDir, "lanyard.db") {
		t.Fatalf("StorePath = %q, want %q", cfg.StorePath(), filepath.Join(cfg.DataDir, "lanyard.db"))
	}
	if cfg.Fixtures != filepath.Join(home, "fixtures.yaml") {
		t.Fatalf("Fixtures = %q, want %q", cfg.Fixtures, filepath.Join(home, "fixtures.yaml"))
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Fatalf("LogLevel = %v, want debug", cfg.LogLevel)
	}
	if !cfg.RemoteNotes {
		t.Fatal("RemoteNotes = false, want true")
	}
	if cfg.RequestTimeout != 5*time.Second {
		t.Fatalf("RequestTimeout = %v, want 5s", cfg.RequestTimeout)
	}
	if cfg.ReloadCheck != "@every 30s" || cfg.FavoritesRefresh != "*/10 * * * *" {
		t.Fatalf("schedules = %q, %q", cfg.ReloadCheck, cfg.FavoritesRefresh)
	}
	if cfg.RatingTestOffset != 2*time.Hour {
		t.Fatalf("RatingTestOffset = %v, want 2h", cfg.RatingTestOffset)
	}
	if cfg.Theme != "light" {
		t.Fatalf("Theme = %q, want light", cfg.Theme)
	}
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := writeConfig(t, `
api_url = "   "
data_dir = ""
request_timeout = ""
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != defaultAPIURL {
		t.Fatalf("APIURL = %q, want %q", cfg.APIURL, defaultAPIURL)
	}
	wantDataDir, err := expandPath(defaultDataDir)
	if err != nil {
		t.Fatalf("expandPath(defaultDataDir) returned error: %v", err)
	}
	if cfg.DataDir != wantDataDir {
		t.Fatalf("DataDir = %q, want %q", cfg.DataDir, wantDataDir)
	}
	if cfg.RequestTimeout != defaultRequestTimeout {
		t.Fatalf("RequestTimeout = %v, want %v", cfg.RequestTimeout, defaultRequestTimeout)
	}
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	tests := []struct {
		name string
		body string
	}{
		{name: "syntax", body: `api_url = `},
		{name: "timeout", body: `request_timeout = "soon"`},
		{name: "negative timeout", body: `request_timeout = "-1s"`},
		{name: "offset", body: `rating_test_offset = "later"`},
		{name: "log level", body: `log_level = "chatty"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.body)); err == nil {
				t.Fatalf("Load(%s) succeeded, want error", tt.name)
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/data")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	if got != filepath.Join(home, "data") {
		t.Fatalf("expandPath(~/data) = %q, want %q", got, filepath.Join(home, "data"))
	}
	if _, err := expandPath("   "); err == nil {
		t.Fatal("expandPath(blank) succeeded, want error")
	}
}

func TestLoad_Identity(t *testing.T) {
	tests := []struct {
		name string
		body string
		want Identity
	}{
		{
			name: "absent",
			body: "theme = \"slate\"\n",
			want: Identity{},
		},
		{
			name: "email only is self-issued",
			body: "[identity]\nemail = \" grace@example.com \"\n",
			want: Identity{Email: "grace@example.com", NetworkID: "grace@example.com", LoginMethod: "CUSTOM"},
		},
		{
			name: "third-party login",
			body: "[identity]\nname = \"Grace\"\nemail = \"grace@example.com\"\nnetwork_id = \"1234\"\nlogin_method = \"github\"\n",
			want: Identity{Name: "Grace", Email: "grace@example.com", NetworkID: "1234", LoginMethod: "GITHUB"},
		},
		{
			name: "no email ignores the rest",
			body: "[identity]\nnetwork_id = \"1234\"\n",
			want: Identity{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("HOME", t.TempDir())
			cfg, err := Load(writeConfig(t, tt.body))
			if err != nil {
				t.Fatalf("Load returned error: %v", err)
			}
			if cfg.Identity != tt.want {
				t.Fatalf("Identity = %+v, want %+v", cfg.Identity, tt.want)
			}
			if cfg.Identity.Configured() != (tt.want.Email != "") {
				t.Fatalf("Configured() = %v", cfg.Identity.Configured())
			}
		})
	}
}
