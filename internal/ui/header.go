package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/thermo/internal/connection"
)

// renderHeader renders the status bar: logo, connection badge, elapsed time
// and the updating indicator.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	sep := bg.Spaces(2)

	if !m.snapshot.HasConnection {
		return styles.Header.Width(m.width).Render(
			bg.Render("thermo", styles.Logo) + sep +
				bg.Render("Connecting...", styles.WarningText.Bold(true)),
		)
	}

	view := m.snapshot.Connection
	parts := []string{
		bg.Render("thermo", styles.Logo),
		styles.StatusStyle(string(view.State)).Render(view.Icon + " " + view.Text),
		bg.Render("Updated:", styles.MutedText) + bg.Space() + bg.Render(m.snapshot.Elapsed, styles.Text),
	}

	if m.snapshot.Updating {
		parts = append(parts, bg.Render("⟳ updating", styles.InfoText))
	}
	if n := m.snapshot.ConsecutiveFailures; n > 0 {
		parts = append(parts, bg.Render(fmt.Sprintf("%d failed", n), styles.DangerText))
	}
	if m.width >= 80 && m.snapshot.HasValues && !m.snapshot.Valid {
		parts = append(parts, bg.Render("invalid readings", styles.WarningText))
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
}

// renderBanner renders the offline/stale banner or the reconnect notice. It
// returns "" when neither applies.
func (m Model) renderBanner() string {
	view := m.snapshot.Connection

	if m.reconnectVisible() && view.State == connection.Online {
		return lipgloss.NewStyle().
			Background(lipgloss.Color(m.theme.Success)).
			Foreground(lipgloss.Color(m.theme.Background)).
			Bold(true).
			Padding(0, 1).
			Width(m.width).
			Render("✔ Connection restored")
	}

	if !view.BannerVisible {
		return ""
	}

	color := m.theme.Danger
	if view.Authoritative == connection.Stale {
		color = m.theme.Warning
	}
	text := fmt.Sprintf("%s %s · %s · x to dismiss", view.Icon, view.Text, m.snapshot.BannerText)
	return lipgloss.NewStyle().
		Background(lipgloss.Color(color)).
		Foreground(lipgloss.Color(m.theme.Background)).
		Padding(0, 1).
		Width(m.width).
		Render(text)
}

// renderFooter renders the key hints and any pending notice.
func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	line := m.help.View(m.keys)
	if m.notice != "" {
		line = styles.WarningText.Render(m.notice) + "  " + line
	}
	return styles.Footer.Width(m.width).Render(line)
}
