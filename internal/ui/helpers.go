package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/five82/lanyard/internal/model"
)

const (
	stateLive     = "live"
	stateUpcoming = "upcoming"
	stateDone     = "done"
	stateBreak    = "break"
)

// sessionState classifies s relative to now.
func sessionState(s model.Session, now time.Time) string {
	switch {
	case s.Talk == nil:
		return stateBreak
	case now.Before(s.StartDate):
		return stateUpcoming
	case now.Before(s.EndDate):
		return stateLive
	default:
		return stateDone
	}
}

func humanizeDuration(d time.Duration) string {
	switch {
	case d < time.Second:
		return "now"
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	default:
		return fmt.Sprintf("%dh", int(d.Hours()))
	}
}

// truncate shortens value to limit runes, ending with an ellipsis.
func truncate(value string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	if limit == 1 {
		return "…"
	}
	return string(runes[:limit-1]) + "…"
}

// pad truncates or right-pads value to exactly width runes.
func pad(value string, width int) string {
	value = truncate(value, width)
	if n := len([]rune(value)); n < width {
		return value + strings.Repeat(" ", width-n)
	}
	return value
}

func speakerNames(t *model.Talk) string {
	if t == nil {
		return ""
	}
	names := make([]string, 0, len(t.Speakers))
	for _, sp := range t.Speakers {
		if sp.Name != "" {
			names = append(names, sp.Name)
		}
	}
	return strings.Join(names, ", ")
}

// wrap breaks text into lines of at most width runes on word boundaries.
func wrap(text string, width int) []string {
	if width <= 0 {
		return nil
	}
	var lines []string
	var line []rune
	for _, word := range strings.Fields(text) {
		w := []rune(word)
		if len(line) > 0 && len(line)+1+len(w) > width {
			lines = append(lines, string(line))
			line = line[:0]
		}
		if len(line) > 0 {
			line = append(line, ' ')
		}
		line = append(line, w...)
	}
	if len(line) > 0 {
		lines = append(lines, string(line))
	}
	return lines
}
