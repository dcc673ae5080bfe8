package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var helpTitles = []string{"Views", "Navigation", "Actions", "Logs and display"}

// renderHelp renders the keyboard reference overlay.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()
	var b strings.Builder
	b.WriteString(styles.Logo.Render("lanyard keys"))
	b.WriteString("\n\n")
	for i, group := range m.keys.helpGroups() {
		if i < len(helpTitles) {
			b.WriteString(styles.AccentText.Render(helpTitles[i]))
			b.WriteString("\n")
		}
		for _, binding := range group {
			h := binding.Help()
			if h.Key == "" {
				continue
			}
			b.WriteString("  ")
			b.WriteString(styles.Text.Render(pad(h.Key, 12)))
			b.WriteString(styles.MutedText.Render(h.Desc))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	b.WriteString(styles.FaintText.Render("press any key to close"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, b.String())
}
