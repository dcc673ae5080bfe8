package logtail

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestRead(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "test.log")

	var content strings.Builder
	var expectedAll []string
	for i := 1; i <= 10; i++ {
		line := fmt.Sprintf("Line %d", i)
		content.WriteString(line + "\n")
		expectedAll = append(expectedAll, line)
	}

	if err := os.WriteFile(logPath, []byte(content.String()), 0644); err != nil {
		t.Fatalf("failed to create test log file: %v", err)
	}

	tests := []struct {
		name     string
		maxLines int
		expected []string
	}{
		{name: "read all (0)", maxLines: 0, expected: expectedAll},
		{name: "read all (negative)", maxLines: -1, expected: expectedAll},
		{name: "read partial (5)", maxLines: 5, expected: expectedAll[5:]},
		{name: "read exactly all (10)", maxLines: 10, expected: expectedAll},
		{name: "read more than exists (20)", maxLines: 20, expected: expectedAll},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(logPath, tt.maxLines)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Read() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRead_MissingFile(t *testing.T) {
	got, err := Read(filepath.Join(t.TempDir(), "absent.log"), 10)
	if err != nil || got != nil {
		t.Fatalf("Read(missing) = %v, %v, want nil, nil", got, err)
	}
}

func TestParse_SlogJSON(t *testing.T) {
	var buf strings.Builder
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	logger.With("component", "favorites").Warn("favorite sync failed", "function", "favoredAdd", "talk_id", "T1")

	e, ok := Parse(strings.TrimSpace(buf.String()))
	if !ok {
		t.Fatalf("Parse(%q) ok = false", buf.String())
	}
	if e.Level != slog.LevelWarn {
		t.Fatalf("Level = %v, want WARN", e.Level)
	}
	if e.Component != "favorites" || e.Message != "favorite sync failed" {
		t.Fatalf("entry = %+v", e)
	}
	if e.Attrs["function"] != "favoredAdd" || e.Attrs["talk_id"] != "T1" {
		t.Fatalf("Attrs = %v", e.Attrs)
	}
	if e.Time.IsZero() {
		t.Fatal("Time is zero")
	}
}

func TestParse_PlainText(t *testing.T) {
	e, ok := Parse("  panic: boom ")
	if ok {
		t.Fatal("Parse(plain) ok = true, want false")
	}
	if e.Message != "panic: boom" || e.Level != slog.LevelInfo {
		t.Fatalf("entry = %+v", e)
	}
}

func TestFormat(t *testing.T) {
	e := Entry{
		Time:      time.Date(2026, 4, 15, 9, 30, 5, 0, time.Local),
		Level:     slog.LevelError,
		Message:   "retrieve sessions failed",
		Component: "core",
		Attrs:     map[string]string{"function": "sessionsV2", "error": "timeout"},
	}
	want := "09:30:05 ERROR [core] retrieve sessions failed error=timeout function=sessionsV2"
	if got := Format(e); got != want {
		t.Fatalf("Format() = %q, want %q", got, want)
	}
}

func TestFilterAndTail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lanyard.log")
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	logger := slog.New(slog.NewJSONHandler(file, &slog.HandlerOptions{Level: slog.LevelDebug}))
	logger.Debug("queue idle")
	logger.Info("conference selected", "conference_id", "42")
	logger.Warn("retrieve speakers failed")
	_ = file.Close()

	entries, err := Tail(path, 0)
	if err != nil {
		t.Fatalf("Tail returned error: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(entries))
	}
	warn := Filter(entries, slog.LevelWarn)
	if len(warn) != 1 || warn[0].Message != "retrieve speakers failed" {
		t.Fatalf("Filter(warn) = %+v", warn)
	}
	if len(entries) != 3 {
		t.Fatal("Filter modified its input")
	}
}
