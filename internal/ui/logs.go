package ui

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/thermo/internal/logtail"
)

// logTailLines caps how much of the log file is loaded into the viewer.
const logTailLines = 500

// logChrome is the number of rows taken by header, banner, title and footer.
const logChrome = 5

// logState holds all log-related state.
type logState struct {
	follow   bool
	minLevel slog.Level
	lines    []string
	err      error
}

type logLinesMsg struct {
	lines []string
	err   error
}

func readLogsCmd(path string) tea.Cmd {
	return func() tea.Msg {
		if path == "" {
			return logLinesMsg{}
		}
		lines, err := logtail.Read(path, logTailLines)
		return logLinesMsg{lines: lines, err: err}
	}
}

func (m *Model) handleLogLines(msg logLinesMsg) {
	m.logState.err = msg.err
	if msg.err == nil {
		m.logState.lines = msg.lines
	}
	m.refreshLogContent()
}

func (m *Model) resizeLogViewport() {
	height := max(1, m.height-logChrome)
	if !m.ready {
		m.logViewport = viewport.New(m.width, height)
	} else {
		m.logViewport.Width = m.width
		m.logViewport.Height = height
	}
	m.refreshLogContent()
}

// refreshLogContent re-renders the filtered lines into the viewport.
func (m *Model) refreshLogContent() {
	styles := m.theme.Styles()
	filtered := logtail.Filter(m.logState.lines, m.logState.minLevel)

	rendered := make([]string, 0, len(filtered))
	for _, line := range filtered {
		rendered = append(rendered, colorizeLogLine(styles, line))
	}
	m.logViewport.SetContent(strings.Join(rendered, "\n"))
	if m.logState.follow {
		m.logViewport.GotoBottom()
	}
}

func colorizeLogLine(styles Styles, line string) string {
	level, ok := logtail.Level(line)
	if !ok {
		return styles.FaintText.Render(line)
	}
	switch {
	case level >= slog.LevelError:
		return styles.DangerText.Render(line)
	case level >= slog.LevelWarn:
		return styles.WarningText.Render(line)
	case level >= slog.LevelInfo:
		return styles.Text.Render(line)
	default:
		return styles.MutedText.Render(line)
	}
}

func (m Model) renderLogs() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.SurfaceAlt)

	follow := "paused"
	if m.logState.follow {
		follow = "following"
	}
	title := bg.Render("Logs", styles.AccentText.Bold(true)) + bg.Spaces(2) +
		bg.Render(fmt.Sprintf("level ≥ %s", m.logState.minLevel), styles.MutedText) + bg.Spaces(2) +
		bg.Render(follow, styles.InfoText)

	var body string
	switch {
	case m.logPath == "":
		body = styles.MutedText.Render("Logging to stderr; no log file to show.")
	case m.logState.err != nil:
		body = styles.DangerText.Render("read log: " + m.logState.err.Error())
	case len(m.logState.lines) == 0:
		body = styles.MutedText.Render("No log lines yet.")
	default:
		body = m.logViewport.View()
	}
	return bg.FillLine(title, m.width) + "\n" + body
}

func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ToggleFollow):
		m.logState.follow = !m.logState.follow
		if m.logState.follow {
			m.logViewport.GotoBottom()
			return m, readLogsCmd(m.logPath)
		}
		return m, nil

	case key.Matches(msg, m.keys.CycleLevel):
		m.logState.minLevel = nextLogLevel(m.logState.minLevel)
		m.refreshLogContent()
		return m, nil

	case key.Matches(msg, m.keys.Top):
		m.logState.follow = false
		m.logViewport.GotoTop()
		return m, nil

	case key.Matches(msg, m.keys.Bottom):
		m.logState.follow = true
		m.logViewport.GotoBottom()
		return m, nil

	case key.Matches(msg, m.keys.Up, m.keys.PageUp):
		m.logState.follow = false
	}

	var cmd tea.Cmd
	m.logViewport, cmd = m.logViewport.Update(msg)
	return m, cmd
}

var logLevels = []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError}

func nextLogLevel(current slog.Level) slog.Level {
	for i, l := range logLevels {
		if l == current {
			return logLevels[(i+1)%len(logLevels)]
		}
	}
	return slog.LevelInfo
}
