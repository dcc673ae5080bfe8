package ui

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/lanyard/internal/core"
	"github.com/five82/lanyard/internal/logtail"
	"github.com/five82/lanyard/internal/model"
	"github.com/five82/lanyard/internal/settings"
	"github.com/five82/lanyard/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewSessions View = iota
	ViewSpeakers
	ViewFavorites
	ViewLogs
)

var viewOrder = []View{ViewSessions, ViewSpeakers, ViewFavorites, ViewLogs}

func (v View) String() string {
	switch v {
	case ViewSpeakers:
		return "Speakers"
	case ViewFavorites:
		return "Favorites"
	case ViewLogs:
		return "Logs"
	default:
		return "Sessions"
	}
}

// themeStore persists the chosen theme. *settings.Settings satisfies it.
type themeStore interface {
	Store(key, value string) error
}

// Options configures the UI.
type Options struct {
	Context   context.Context
	Core      *core.Core
	Settings  themeStore
	LogPath   string
	PollTick  time.Duration
	ThemeName string
}

// snapshot is the copy of core state one frame renders from.
type snapshot struct {
	conference    model.Conference
	hasConference bool
	sessions      []model.Session
	speakers      []model.Speaker
	favored       []model.Session
	counts        map[string]int
	status        state.Snapshot
	authenticated bool
	rating        bool
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx      context.Context
	core     *core.Core
	settings themeStore
	logPath  string
	pollTick time.Duration
	keys     keyMap
	now      func() time.Time

	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool
	flash       string

	data        snapshot
	lastUpdated time.Time
	selected    map[View]int

	logViewport viewport.Model
	logFollow   bool
	logLevel    slog.Level
	logEntries  []logtail.Entry
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	pollTick := opts.PollTick
	if pollTick <= 0 {
		pollTick = DefaultUIInterval
	}
	return Model{
		ctx:         ctx,
		core:        opts.Core,
		settings:    opts.Settings,
		logPath:     opts.LogPath,
		pollTick:    pollTick,
		keys:        DefaultKeyMap(),
		now:         time.Now,
		theme:       GetTheme(opts.ThemeName),
		currentView: ViewSessions,
		selected:    make(map[View]int),
		logFollow:   true,
		logLevel:    slog.LevelInfo,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.pollTick)}
	if m.core != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.core))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.logViewport = viewport.New(msg.Width, m.bodyHeight())
		}
		m.ready = true
		m.logViewport.Width = msg.Width
		m.logViewport.Height = m.bodyHeight()
		m.updateLogViewport()
		return m, nil

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		m.data = snapshot(msg)
		m.lastUpdated = m.now()
		m.clampSelection()
		return m, nil

	case logBatchMsg:
		m.logEntries = msg
		m.updateLogViewport()
		return m, nil

	case logErrorMsg:
		m.flash = "log: " + msg.Error()
		return m, nil
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n")
	b.WriteString(m.renderContent())
	return b.String()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	m.flash = ""

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		if m.settings != nil {
			if err := m.settings.Store(settings.Theme, m.theme.Name); err != nil {
				m.flash = "theme not saved: " + err.Error()
			}
		}
		return m, nil
	case key.Matches(msg, m.keys.Tab):
		return m.switchView(m.cycleView(1))
	case key.Matches(msg, m.keys.ShiftTab):
		return m.switchView(m.cycleView(-1))
	case key.Matches(msg, m.keys.ViewSessions):
		return m.switchView(ViewSessions)
	case key.Matches(msg, m.keys.ViewSpeakers):
		return m.switchView(ViewSpeakers)
	case key.Matches(msg, m.keys.ViewFavorites):
		return m.switchView(ViewFavorites)
	case key.Matches(msg, m.keys.ViewLogs):
		return m.switchView(ViewLogs)
	case key.Matches(msg, m.keys.Reload):
		if m.core != nil {
			m.core.RetrieveSessions()
			m.core.RetrieveSpeakers()
			m.flash = "reloading"
		}
		return m, nil
	case key.Matches(msg, m.keys.RefreshCounts):
		if m.core != nil {
			m.core.RefreshFavoriteCounts()
		}
		return m, nil
	}

	if m.currentView == ViewLogs {
		return m.handleLogsKey(msg)
	}
	return m.handleListKey(msg)
}

func (m Model) cycleView(step int) View {
	for i, v := range viewOrder {
		if v == m.currentView {
			return viewOrder[(i+step+len(viewOrder))%len(viewOrder)]
		}
	}
	return ViewSessions
}

func (m Model) switchView(v View) (tea.Model, tea.Cmd) {
	m.currentView = v
	if v == ViewLogs {
		return m, m.refreshLogs()
	}
	return m, nil
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	count := m.rowCount()
	sel := m.selected[m.currentView]
	switch {
	case key.Matches(msg, m.keys.Up):
		if sel > 0 {
			sel--
		}
	case key.Matches(msg, m.keys.Down):
		if sel < count-1 {
			sel++
		}
	case key.Matches(msg, m.keys.Top):
		sel = 0
	case key.Matches(msg, m.keys.Bottom):
		sel = max(count-1, 0)
	case key.Matches(msg, m.keys.ToggleFavorite):
		m.toggleFavorite()
		return m, fetchSnapshotCmd(m.core)
	}
	m.selected[m.currentView] = sel
	if m.currentView == ViewSpeakers {
		if sp, ok := m.selectedSpeaker(); ok && m.core != nil {
			m.core.RetrieveSpeaker(sp.UUID)
		}
	}
	return m, nil
}

// toggleFavorite adds or removes the selected session from the favored
// sequence. The favorites engine replays the change to the backend.
func (m *Model) toggleFavorite() {
	if m.core == nil {
		return
	}
	s, ok := m.selectedSession()
	if !ok || s.TalkID() == "" {
		return
	}
	favored, err := m.core.RetrieveFavoredSessions()
	if err != nil {
		m.flash = err.Error()
		return
	}
	talkID := s.TalkID()
	if favored.Remove(func(f model.Session) bool { return f.TalkID() == talkID }) > 0 {
		m.flash = "removed from favorites"
		return
	}
	favored.Add(s)
	m.flash = "added to favorites"
}

func (m Model) handleTick() (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	if m.core != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.core))
	}
	if m.currentView == ViewLogs && m.logFollow {
		cmds = append(cmds, m.refreshLogs())
	}
	cmds = append(cmds, tickCmd(m.pollTick))
	return m, tea.Batch(cmds...)
}

func (m Model) bodyHeight() int {
	return max(m.height-2, 1)
}

func (m Model) renderContent() string {
	switch m.currentView {
	case ViewSpeakers:
		return m.renderSpeakers()
	case ViewFavorites:
		return m.renderSessionList(m.data.favored, m.favoritesPlaceholder())
	case ViewLogs:
		return m.renderLogs()
	default:
		return m.renderSessionList(m.data.sessions, "No sessions loaded")
	}
}

// Messages

type tickMsg time.Time

type snapshotMsg snapshot

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(c *core.Core) tea.Cmd {
	if c == nil {
		return nil
	}
	return func() tea.Msg {
		return snapshotMsg(takeSnapshot(c))
	}
}

func takeSnapshot(c *core.Core) snapshot {
	s := snapshot{
		sessions:      c.Sessions().Items(),
		speakers:      c.Speakers().Items(),
		favored:       c.FavoredSessions().Items(),
		status:        c.Status().Snapshot(),
		authenticated: c.AccountID() != "",
		rating:        c.ShowRatingDialog(),
		counts:        make(map[string]int),
	}
	s.conference, s.hasConference = c.Conference()
	for _, f := range c.Favorites().Items() {
		s.counts[f.ID] = f.Favs
	}
	sortSessions(s.sessions)
	sortSessions(s.favored)
	sort.SliceStable(s.speakers, func(i, j int) bool {
		return strings.ToLower(s.speakers[i].FullName()) < strings.ToLower(s.speakers[j].FullName())
	})
	return s
}

func sortSessions(sessions []model.Session) {
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].StartDate.Before(sessions[j].StartDate)
	})
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(opts.Context))
	_, err := p.Run()
	if err != nil && opts.Context.Err() != nil {
		return nil
	}
	return err
}
