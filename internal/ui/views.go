package ui

import (
	"fmt"
	"strings"

	"github.com/five82/lanyard/internal/model"
)

func (m Model) rowCount() int {
	switch m.currentView {
	case ViewSpeakers:
		return len(m.data.speakers)
	case ViewFavorites:
		return len(m.data.favored)
	case ViewSessions:
		return len(m.data.sessions)
	}
	return 0
}

func (m *Model) clampSelection() {
	for _, v := range []View{ViewSessions, ViewSpeakers, ViewFavorites} {
		var n int
		switch v {
		case ViewSessions:
			n = len(m.data.sessions)
		case ViewSpeakers:
			n = len(m.data.speakers)
		case ViewFavorites:
			n = len(m.data.favored)
		}
		if m.selected[v] >= n {
			m.selected[v] = max(n-1, 0)
		}
	}
}

func (m Model) selectedSession() (model.Session, bool) {
	list := m.data.sessions
	if m.currentView == ViewFavorites {
		list = m.data.favored
	} else if m.currentView != ViewSessions {
		return model.Session{}, false
	}
	i := m.selected[m.currentView]
	if i < 0 || i >= len(list) {
		return model.Session{}, false
	}
	return list[i], true
}

func (m Model) selectedSpeaker() (model.Speaker, bool) {
	i := m.selected[ViewSpeakers]
	if m.currentView != ViewSpeakers || i < 0 || i >= len(m.data.speakers) {
		return model.Speaker{}, false
	}
	return m.data.speakers[i], true
}

func (m Model) isFavored(talkID string) bool {
	for _, s := range m.data.favored {
		if s.TalkID() == talkID {
			return true
		}
	}
	return false
}

func (m Model) favoritesPlaceholder() string {
	if !m.data.authenticated {
		return "Sign in with --login or [identity] in config.toml to sync favorites"
	}
	return "No favorites yet: press f on a session"
}

// listWindow returns the visible [start, end) range keeping sel in view.
func listWindow(sel, total, height int) (int, int) {
	if height <= 0 || total <= height {
		return 0, total
	}
	start := sel - height/2
	start = max(start, 0)
	start = min(start, total-height)
	return start, start + height
}

func (m Model) listHeight() int {
	return max(m.bodyHeight()-detailHeight-1, 1)
}

func (m Model) renderSessionList(sessions []model.Session, empty string) string {
	styles := m.theme.Styles()
	if len(sessions) == 0 {
		return styles.MutedText.Render(empty)
	}

	now := m.now()
	sel := m.selected[m.currentView]
	start, end := listWindow(sel, len(sessions), m.listHeight())
	compact := m.width < LayoutCompactWidth

	var b strings.Builder
	for i := start; i < end; i++ {
		s := sessions[i]
		star := " "
		if m.isFavored(s.TalkID()) {
			star = "★"
		}
		when := s.StartDate.Format("Mon 15:04")
		title := s.Title()
		var row string
		if compact {
			row = fmt.Sprintf("%s %s %s", star, when, pad(title, max(m.width-14, 10)))
		} else {
			count := ""
			if n, ok := m.data.counts[s.TalkID()]; ok {
				count = fmt.Sprintf("♥%d", n)
			}
			row = fmt.Sprintf("%s %s  %s  %s  %s", star, when, pad(s.RoomName, 14), pad(title, max(m.width-40, 10)), pad(count, 6))
		}
		if i == sel {
			b.WriteString(styles.Selected.Render(row))
		} else {
			b.WriteString(styles.StateStyle(sessionState(s, now)).Render(row))
		}
		b.WriteString("\n")
	}

	if s, ok := m.selectedSession(); ok {
		b.WriteString(m.renderSessionDetail(s))
	}
	return b.String()
}

func (m Model) renderSessionDetail(s model.Session) string {
	styles := m.theme.Styles()
	width := max(m.width-2, 10)
	var lines []string
	lines = append(lines, styles.AccentText.Render(truncate(s.Title(), width)))
	lines = append(lines, styles.MutedText.Render(fmt.Sprintf("%s to %s  %s",
		s.StartDate.Format("Mon Jan 2 15:04"), s.EndDate.Format("15:04"), s.RoomName)))
	if s.Talk != nil {
		meta := strings.TrimSpace(strings.Join([]string{s.Talk.Track, s.Talk.TalkType, speakerNames(s.Talk)}, "  "))
		if meta != "" {
			lines = append(lines, styles.Text.Render(truncate(meta, width)))
		}
		if n, ok := m.data.counts[s.Talk.ID]; ok {
			lines = append(lines, styles.InfoText.Render(fmt.Sprintf("%d attendees favored this talk", n)))
		}
		lines = append(lines, wrap(s.Talk.Summary, width)...)
	}
	if len(lines) > detailHeight {
		lines = lines[:detailHeight]
	}
	return styles.Detail.Width(m.width).Render(strings.Join(lines, "\n"))
}

func (m Model) renderSpeakers() string {
	styles := m.theme.Styles()
	speakers := m.data.speakers
	if len(speakers) == 0 {
		return styles.MutedText.Render("No speakers loaded")
	}

	sel := m.selected[ViewSpeakers]
	start, end := listWindow(sel, len(speakers), m.listHeight())
	var b strings.Builder
	for i := start; i < end; i++ {
		sp := speakers[i]
		row := fmt.Sprintf("  %s  %s", pad(sp.FullName(), 30), pad(sp.Company, max(m.width-36, 10)))
		if i == sel {
			b.WriteString(styles.Selected.Render(row))
		} else {
			b.WriteString(styles.Text.Render(row))
		}
		b.WriteString("\n")
	}

	if sp, ok := m.selectedSpeaker(); ok {
		b.WriteString(m.renderSpeakerDetail(sp))
	}
	return b.String()
}

func (m Model) renderSpeakerDetail(sp model.Speaker) string {
	styles := m.theme.Styles()
	width := max(m.width-2, 10)
	lines := []string{styles.AccentText.Render(sp.FullName())}
	if !sp.DetailsRetrieved {
		lines = append(lines, styles.FaintText.Render("loading details..."))
		return styles.Detail.Width(m.width).Render(strings.Join(lines, "\n"))
	}
	var meta []string
	for _, v := range []string{sp.Company, sp.Twitter, sp.Blog} {
		if v != "" {
			meta = append(meta, v)
		}
	}
	if len(meta) > 0 {
		lines = append(lines, styles.MutedText.Render(truncate(strings.Join(meta, "  "), width)))
	}
	for _, t := range sp.AcceptedTalks {
		lines = append(lines, styles.InfoText.Render(truncate("• "+t.Title, width)))
	}
	lines = append(lines, wrap(sp.Bio, width)...)
	if len(lines) > detailHeight {
		lines = lines[:detailHeight]
	}
	return styles.Detail.Width(m.width).Render(strings.Join(lines, "\n"))
}
