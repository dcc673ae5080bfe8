package ui

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/lanyard/internal/logtail"
)

type logBatchMsg []logtail.Entry

type logErrorMsg struct{ err error }

func (e logErrorMsg) Error() string { return e.err.Error() }

var logLevels = []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError}

func (m Model) refreshLogs() tea.Cmd {
	path := m.logPath
	if path == "" {
		return nil
	}
	return func() tea.Msg {
		entries, err := logtail.Tail(path, LogTailLines)
		if err != nil {
			return logErrorMsg{err: err}
		}
		return logBatchMsg(entries)
	}
}

func (m *Model) updateLogViewport() {
	if !m.ready {
		return
	}
	entries := logtail.Filter(m.logEntries, m.logLevel)
	styles := m.theme.Styles()
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		line := truncate(logtail.Format(e), max(m.width, 20))
		switch {
		case e.Level >= slog.LevelError:
			line = styles.DangerText.Render(line)
		case e.Level >= slog.LevelWarn:
			line = styles.WarningText.Render(line)
		case e.Level < slog.LevelInfo:
			line = styles.FaintText.Render(line)
		}
		lines = append(lines, line)
	}
	m.logViewport.SetContent(strings.Join(lines, "\n"))
	if m.logFollow {
		m.logViewport.GotoBottom()
	}
}

func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ToggleFollow):
		m.logFollow = !m.logFollow
		if m.logFollow {
			m.logViewport.GotoBottom()
		}
		return m, nil
	case key.Matches(msg, m.keys.CycleLevel):
		m.logLevel = nextLevel(m.logLevel)
		m.updateLogViewport()
		return m, nil
	case key.Matches(msg, m.keys.Top):
		m.logFollow = false
		m.logViewport.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.logViewport.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.logViewport, cmd = m.logViewport.Update(msg)
	if !m.logViewport.AtBottom() {
		m.logFollow = false
	}
	return m, cmd
}

func nextLevel(current slog.Level) slog.Level {
	for i, l := range logLevels {
		if l == current {
			return logLevels[(i+1)%len(logLevels)]
		}
	}
	return slog.LevelInfo
}

func (m Model) renderLogs() string {
	styles := m.theme.Styles()
	if m.logPath == "" {
		return styles.MutedText.Render("Logging to stderr; no log file to show")
	}
	follow := "paused"
	if m.logFollow {
		follow = "following"
	}
	status := styles.Footer.Width(m.width).Render(fmt.Sprintf("%s  level >= %s  %d entries",
		follow, m.logLevel, len(m.logEntries)))
	if len(m.logEntries) == 0 {
		return styles.MutedText.Render("No log entries yet") + "\n" + status
	}
	return m.logViewport.View() + "\n" + status
}
