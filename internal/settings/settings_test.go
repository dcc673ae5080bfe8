package settings

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileStartsEmpty(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	s := Load("")
	if _, ok := s.Retrieve(SavedConferenceID); ok {
		t.Fatalf("Retrieve on empty settings ok = true")
	}
	want := filepath.Join(home, ".config", "lanyard", "settings.toml")
	if s.Path() != want {
		t.Fatalf("Path = %q, want %q", s.Path(), want)
	}
}

func TestStore_PersistsAcrossLoads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.toml")

	s := Load(path)
	if err := s.Store(SavedConferenceID, "42"); err != nil {
		t.Fatalf("Store returned error: %v", err)
	}
	if err := s.Store(SavedAccountID, "acct-1"); err != nil {
		t.Fatalf("Store returned error: %v", err)
	}
	if err := s.Remove(SavedAccountID, BadgeType); err != nil {
		t.Fatalf("Remove returned error: %v", err)
	}

	reloaded := Load(path)
	if v, ok := reloaded.Retrieve(SavedConferenceID); !ok || v != "42" {
		t.Fatalf("SavedConferenceID = %q,%v, want 42,true", v, ok)
	}
	if _, ok := reloaded.Retrieve(SavedAccountID); ok {
		t.Fatalf("removed key survived reload")
	}
}

func TestLoad_CorruptFileDegrades(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	if err := os.WriteFile(path, []byte("values = [not toml"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	s := Load(path)
	if err := s.Store(Theme, "Slate"); err != nil {
		t.Fatalf("Store after corrupt load returned error: %v", err)
	}
	if v, _ := Load(path).Retrieve(Theme); v != "Slate" {
		t.Fatalf("Theme = %q, want Slate", v)
	}
}

func TestCSVMarkers(t *testing.T) {
	s := Memory()

	if s.ContainsCSV(Rating, "42") {
		t.Fatalf("ContainsCSV on empty = true")
	}
	for _, id := range []string{"42", "7", "42", " "} {
		if err := s.AddCSV(Rating, id); err != nil {
			t.Fatalf("AddCSV(%q) returned error: %v", id, err)
		}
	}
	raw, _ := s.Retrieve(Rating)
	if raw != "42,7" {
		t.Fatalf("raw = %q, want 42,7", raw)
	}
	if !s.ContainsCSV(Rating, "7") || s.ContainsCSV(Rating, "4") {
		t.Fatalf("ContainsCSV matched partial or missed exact ids")
	}
}
