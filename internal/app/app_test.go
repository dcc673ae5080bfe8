package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/five82/lanyard/internal/core"
	"github.com/five82/lanyard/internal/settings"
)

const fixtureYAML = `
functions:
  allConferences:
    - id: "42"
      name: Devoxx Test
      fromDate: "2026-04-15"
      endDate: "2026-04-17"
  conference:
    id: "42"
    name: Devoxx Test
    cfpURL: https://cfp.example.com
    cfpVersion: dvbe26
    timezone: Europe/Brussels
    fromDate: "2026-04-15"
    endDate: "2026-04-17"
    features:
      hasFavorites: true
    tracks:
      - id: t1
        name: Java
    sessionTypes:
      - id: s1
        name: Conference
      - id: s2
        name: Lunch
        isPause: true
    floorPlans:
      - name: Ground
        imageURL: https://img.example.com/ground.png
  sessionsV2:
    - slotId: a
      fromTimeMillis: 1776238200000
      toTimeMillis: 1776241200000
      talk:
        id: T1
        title: Virtual threads
    - slotId: b
      fromTimeMillis: 1776243600000
      toTimeMillis: 1776246600000
  speakers:
    - uuid: sp1
      firstName: Ada
      lastName: Lovelace
  favored:
    favored:
      - id: T1
      - id: gone
  allFavorites:
    favorites:
      - id: T1
        favs: 12
`

func writeFixtureConfig(t *testing.T) (string, string) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	fixtures := filepath.Join(dir, "fixtures.yaml")
	if err := os.WriteFile(fixtures, []byte(fixtureYAML), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	dataDir := filepath.Join(dir, "data")
	cfg := "data_dir = \"" + dataDir + "\"\n" +
		"settings_path = \"" + filepath.Join(dir, "settings.toml") + "\"\n" +
		"fixtures = \"" + fixtures + "\"\n" +
		"log_level = \"error\"\n"
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(cfg), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path, dir
}

func TestRun_HeadlessLoadsConferenceFromFixtures(t *testing.T) {
	configPath, dir := writeFixtureConfig(t)

	var out bytes.Buffer
	err := Run(context.Background(), Options{ConfigPath: configPath, Conference: "42", Headless: true, Out: &out})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	got := out.String()
	for _, want := range []string{
		"conference: Devoxx Test (42)",
		"sessions: 2",
		"speakers: 1",
		"tracks: 1",
		"session types: 1",
		"floor maps: 1",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("summary = %q, want it to contain %q", got, want)
		}
	}

	st := settings.Load(filepath.Join(dir, "settings.toml"))
	if id, _ := st.Retrieve(settings.SavedConferenceID); id != "42" {
		t.Fatalf("saved conference = %q, want 42", id)
	}
	if id, ok := st.Retrieve(settings.DeviceID); !ok || id == "" {
		t.Fatal("device id was not generated")
	}
	if _, err := os.Stat(filepath.Join(dir, "data", "lanyard.db")); err != nil {
		t.Fatalf("store file missing: %v", err)
	}
}

func TestRun_HeadlessRestoresSavedConference(t *testing.T) {
	configPath, _ := writeFixtureConfig(t)

	var first bytes.Buffer
	if err := Run(context.Background(), Options{ConfigPath: configPath, Conference: "42", Headless: true, Out: &first}); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	var second bytes.Buffer
	if err := Run(context.Background(), Options{ConfigPath: configPath, Headless: true, Out: &second}); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if !strings.Contains(second.String(), "conference: Devoxx Test (42)") {
		t.Fatalf("summary = %q, want the restored conference", second.String())
	}
}

func TestRun_HeadlessWithoutConferenceListsCatalogue(t *testing.T) {
	configPath, _ := writeFixtureConfig(t)

	var out bytes.Buffer
	if err := Run(context.Background(), Options{ConfigPath: configPath, Headless: true, Out: &out}); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if !strings.Contains(out.String(), "conferences: 1") || !strings.Contains(out.String(), "42  Devoxx Test") {
		t.Fatalf("summary = %q, want the conference catalogue", out.String())
	}
}

func TestRun_RequestReloadWritesMarker(t *testing.T) {
	configPath, dir := writeFixtureConfig(t)

	var out bytes.Buffer
	if err := Run(context.Background(), Options{ConfigPath: configPath, RequestReload: true, Out: &out}); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "data", core.ReloadMarker)); err != nil {
		t.Fatalf("reload marker missing: %v", err)
	}
}

func TestRun_HeadlessLoginLoadsFavorites(t *testing.T) {
	configPath, dir := writeFixtureConfig(t)

	var out bytes.Buffer
	err := Run(context.Background(), Options{
		ConfigPath: configPath,
		Conference: "42",
		Headless:   true,
		Login:      "grace@example.com",
		Out:        &out,
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	got := out.String()
	for _, want := range []string{"account: grace@example.com", "favorites: 1"} {
		if !strings.Contains(got, want) {
			t.Fatalf("summary = %q, want it to contain %q", got, want)
		}
	}

	st := settings.Load(filepath.Join(dir, "settings.toml"))
	if id, _ := st.Retrieve(settings.SavedAccountID); id != "grace@example.com" {
		t.Fatalf("saved account = %q, want grace@example.com", id)
	}
}

func TestRun_HeadlessSignsInWithConfiguredIdentity(t *testing.T) {
	configPath, _ := writeFixtureConfig(t)
	f, err := os.OpenFile(configPath, os.O_APPEND|os.O_WRONLY, 0)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	if _, err := f.WriteString("\n[identity]\nemail = \"ada@example.com\"\n"); err != nil {
		t.Fatalf("WriteString: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	var out bytes.Buffer
	if err := Run(context.Background(), Options{ConfigPath: configPath, Conference: "42", Headless: true, Out: &out}); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if !strings.Contains(out.String(), "account: ada@example.com") {
		t.Fatalf("summary = %q, want the configured account", out.String())
	}
}

func TestRun_HeadlessWithoutIdentityStaysSignedOut(t *testing.T) {
	configPath, _ := writeFixtureConfig(t)

	var out bytes.Buffer
	if err := Run(context.Background(), Options{ConfigPath: configPath, Conference: "42", Headless: true, Out: &out}); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if strings.Contains(out.String(), "account:") {
		t.Fatalf("summary = %q, want no account line", out.String())
	}
}
