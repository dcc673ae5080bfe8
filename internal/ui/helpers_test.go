package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/five82/lanyard/internal/model"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		limit int
		want  string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello", 4, "hel…"},
		{"hello", 1, "…"},
		{"hello", 0, ""},
		{"héllo wörld", 6, "héllo…"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.limit); got != tt.want {
			t.Fatalf("truncate(%q, %d) = %q, want %q", tt.in, tt.limit, got, tt.want)
		}
	}
}

func TestPad(t *testing.T) {
	if got := pad("ab", 4); got != "ab  " {
		t.Fatalf("pad = %q, want %q", got, "ab  ")
	}
	if got := pad("abcdef", 4); got != "abc…" {
		t.Fatalf("pad = %q, want %q", got, "abc…")
	}
}

func TestWrap(t *testing.T) {
	got := wrap("the quick brown fox jumps", 10)
	want := []string{"the quick", "brown fox", "jumps"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("wrap = %q, want %q", got, want)
	}
	if got := wrap("", 10); len(got) != 0 {
		t.Fatalf("wrap(empty) = %q, want none", got)
	}
	if got := wrap("text", 0); got != nil {
		t.Fatalf("wrap(width 0) = %q, want nil", got)
	}
}

func TestSessionState(t *testing.T) {
	start := time.Date(2026, 4, 15, 9, 0, 0, 0, time.UTC)
	talk := model.Session{Talk: &model.Talk{ID: "t"}, StartDate: start, EndDate: start.Add(time.Hour)}
	tests := []struct {
		name string
		s    model.Session
		now  time.Time
		want string
	}{
		{"break", model.Session{StartDate: start, EndDate: start.Add(time.Hour)}, start, stateBreak},
		{"upcoming", talk, start.Add(-time.Minute), stateUpcoming},
		{"live", talk, start.Add(30 * time.Minute), stateLive},
		{"done", talk, start.Add(time.Hour), stateDone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sessionState(tt.s, tt.now); got != tt.want {
				t.Fatalf("sessionState = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHumanizeDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "now"},
		{5 * time.Second, "5s"},
		{3 * time.Minute, "3m"},
		{2 * time.Hour, "2h"},
	}
	for _, tt := range tests {
		if got := humanizeDuration(tt.d); got != tt.want {
			t.Fatalf("humanizeDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestListWindow(t *testing.T) {
	tests := []struct {
		sel, total, height int
		start, end         int
	}{
		{0, 5, 10, 0, 5},
		{0, 20, 10, 0, 10},
		{10, 20, 10, 5, 15},
		{19, 20, 10, 10, 20},
	}
	for _, tt := range tests {
		start, end := listWindow(tt.sel, tt.total, tt.height)
		if start != tt.start || end != tt.end {
			t.Fatalf("listWindow(%d, %d, %d) = %d,%d, want %d,%d", tt.sel, tt.total, tt.height, start, end, tt.start, tt.end)
		}
	}
}
