package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the status bar: conference, counts and fetch health.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	bg := lipgloss.Color(m.theme.Surface)
	on := func(s lipgloss.Style) lipgloss.Style { return s.Background(bg) }
	sep := on(styles.Text).Render("  ")

	parts := []string{on(styles.Logo).Render("lanyard")}
	if !m.data.hasConference {
		parts = append(parts, on(styles.WarningText).Render("No conference selected"))
	} else {
		parts = append(parts,
			on(styles.AccentText).Render(m.data.conference.Name),
			on(styles.MutedText).Render(fmt.Sprintf("%d sessions", len(m.data.sessions))),
			on(styles.MutedText).Render(fmt.Sprintf("%d speakers", len(m.data.speakers))),
		)
	}

	if m.data.authenticated {
		parts = append(parts, on(styles.SuccessText).Render(fmt.Sprintf("★ %d", len(m.data.favored))))
	} else {
		parts = append(parts, on(styles.FaintText).Render("signed out"))
	}

	switch {
	case m.data.status.IsOffline():
		parts = append(parts, on(styles.DangerText).Render("OFFLINE"))
	case len(m.data.status.Failing()) > 0:
		parts = append(parts, on(styles.WarningText).Render("failing: "+strings.Join(m.data.status.Failing(), ",")))
	}
	if m.data.rating {
		parts = append(parts, on(styles.InfoText).Render("rate this conference"))
	}
	if !m.lastUpdated.IsZero() {
		parts = append(parts, on(styles.FaintText).Render("updated "+humanizeDuration(m.now().Sub(m.lastUpdated))))
	}
	if m.flash != "" {
		parts = append(parts, on(styles.WarningText).Render(m.flash))
	}

	return styles.Header.Width(m.width).Render(strings.Join(parts, sep))
}

// renderTabs renders the view switcher line.
func (m Model) renderTabs() string {
	styles := m.theme.Styles()
	tabs := make([]string, 0, len(viewOrder))
	for i, v := range viewOrder {
		label := fmt.Sprintf(" %d %s ", i+1, v)
		if v == m.currentView {
			tabs = append(tabs, styles.Selected.Render(label))
		} else {
			tabs = append(tabs, styles.MutedText.Render(label))
		}
	}
	hint := styles.FaintText.Render("  ? help")
	return lipgloss.NewStyle().Width(m.width).Render(strings.Join(tabs, "") + hint)
}
