package ui

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/thermo/internal/history"
	"github.com/five82/thermo/internal/prefs"
	"github.com/five82/thermo/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewDashboard View = iota
	ViewLogs
)

// reconnectNotice is how long the "connection restored" notice stays up.
const reconnectNotice = 3 * time.Second

// Controller receives user commands for the sync engine.
type Controller interface {
	DismissBanner()
	SelectRange(ctx context.Context, key string) error
}

// Options configures the UI.
type Options struct {
	Context      context.Context
	Store        *state.Store
	Controller   Controller
	RefreshEvery time.Duration
	ThemeName    string
	PrefsPath    string
	LogPath      string
	Range        string

	// Now overrides the wall clock, for tests.
	Now func() time.Time
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx        context.Context
	store      *state.Store
	controller Controller
	prefsPath  string
	logPath    string
	refresh    time.Duration
	now        func() time.Time

	// UI state
	theme       Theme
	keys        keyMap
	help        help.Model
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool

	// Data state
	snapshot state.Snapshot
	rangeKey string
	notice   string

	// Log state
	logViewport viewport.Model
	logState    logState
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	refresh := opts.RefreshEvery
	if refresh <= 0 {
		refresh = time.Second
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	rangeKey := opts.Range
	if _, ok := history.LookupRange(rangeKey); !ok {
		rangeKey = history.DefaultRangeKey
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return Model{
		ctx:         ctx,
		store:       opts.Store,
		controller:  opts.Controller,
		prefsPath:   prefsPath,
		logPath:     opts.LogPath,
		refresh:     refresh,
		now:         now,
		theme:       GetTheme(opts.ThemeName),
		keys:        DefaultKeyMap(),
		help:        help.New(),
		currentView: ViewDashboard,
		rangeKey:    rangeKey,
		logState:    logState{follow: true, minLevel: slog.LevelInfo},
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.refresh)}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
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
		m.help.Width = msg.Width
		m.resizeLogViewport()
		m.ready = true
		return m, nil

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		return m, nil

	case logLinesMsg:
		m.handleLogLines(msg)
		return m, nil

	case noticeMsg:
		m.notice = string(msg)
		return m, nil
	}

	if m.currentView == ViewLogs {
		var cmd tea.Cmd
		m.logViewport, cmd = m.logViewport.Update(msg)
		return m, cmd
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
	if banner := m.renderBanner(); banner != "" {
		b.WriteString(banner)
		b.WriteString("\n")
	}
	switch m.currentView {
	case ViewLogs:
		b.WriteString(m.renderLogs())
	default:
		b.WriteString(m.renderDashboard())
	}
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		return m, saveThemeCmd(m.prefsPath, m.theme.Name)

	case key.Matches(msg, m.keys.Dismiss):
		if m.controller != nil && m.snapshot.Connection.BannerVisible {
			return m, dismissCmd(m.controller)
		}
		return m, nil

	case key.Matches(msg, m.keys.ViewLogs):
		if m.currentView == ViewLogs {
			m.currentView = ViewDashboard
			return m, nil
		}
		m.currentView = ViewLogs
		return m, readLogsCmd(m.logPath)

	case key.Matches(msg, m.keys.Escape):
		m.currentView = ViewDashboard
		return m, nil
	}

	for _, rb := range m.keys.rangeBindings() {
		if key.Matches(msg, rb.binding) {
			return m.selectRange(rb.key)
		}
	}

	if m.currentView == ViewLogs {
		return m.handleLogsKey(msg)
	}
	return m, nil
}

func (m Model) selectRange(key string) (tea.Model, tea.Cmd) {
	if key == m.rangeKey {
		return m, nil
	}
	m.rangeKey = key
	m.notice = ""
	if m.controller == nil {
		return m, nil
	}
	return m, selectRangeCmd(m.ctx, m.controller, key)
}

// handleTick processes the refresh tick.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	if m.currentView == ViewLogs && m.logState.follow {
		cmds = append(cmds, readLogsCmd(m.logPath))
	}
	cmds = append(cmds, tickCmd(m.refresh))

	return m, tea.Batch(cmds...)
}

// reconnectVisible reports whether the reconnect notice is still showing.
func (m Model) reconnectVisible() bool {
	at := m.snapshot.ReconnectedAt
	return !at.IsZero() && m.now().Sub(at) < reconnectNotice
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type noticeMsg string

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

func dismissCmd(c Controller) tea.Cmd {
	return func() tea.Msg {
		c.DismissBanner()
		return nil
	}
}

func selectRangeCmd(ctx context.Context, c Controller, key string) tea.Cmd {
	return func() tea.Msg {
		if err := c.SelectRange(ctx, key); err != nil {
			return noticeMsg(err.Error())
		}
		return nil
	}
}

func saveThemeCmd(path, name string) tea.Cmd {
	return func() tea.Msg {
		if err := prefs.Update(path, func(p *prefs.Prefs) { p.Theme = name }); err != nil {
			return noticeMsg("save theme: " + err.Error())
		}
		return nil
	}
}

// Run starts the Bubble Tea program and blocks until the user quits or the
// context is cancelled.
func Run(opts Options) error {
	m := New(opts)
	programOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if opts.Context != nil {
		programOpts = append(programOpts, tea.WithContext(opts.Context))
	}
	p := tea.NewProgram(m, programOpts...)
	_, err := p.Run()
	if err != nil && opts.Context != nil && opts.Context.Err() != nil {
		// Cancellation is a normal shutdown.
		return nil
	}
	return err
}
