package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/thermo/internal/history"
	"github.com/five82/thermo/internal/present"
	"github.com/five82/thermo/internal/validate"
)

const (
	cardWidth     = 22
	minChartWidth = 10
)

// renderDashboard renders the readings, the derived metrics and the charts.
func (m Model) renderDashboard() string {
	if !m.snapshot.HasValues {
		styles := m.theme.Styles()
		msg := "Waiting for the first reading..."
		if m.snapshot.HasConnection && !m.snapshot.Connection.Pending {
			msg = "No readings yet. " + m.snapshot.BannerText
		}
		return lipgloss.NewStyle().Padding(1, 2).Render(styles.MutedText.Render(msg))
	}

	sections := []string{
		m.renderCards(),
		m.renderAnalysis(),
		m.renderCharts(),
	}
	return lipgloss.NewStyle().Padding(0, 1).Render(strings.Join(sections, "\n"))
}

func (m Model) renderCards() string {
	fields := m.snapshot.Fields
	cards := []string{
		m.card("Ambient", fields[validate.FieldAmbient], "°C", ""),
		m.card("Target", fields[validate.FieldTarget], "°C", ""),
		m.card("Battery", fields[validate.FieldBattery], "V", fields[validate.FieldIndicator]),
		m.card("Device", fields[validate.FieldDevice], "", nil),
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	if m.snapshot.BatteryHint != "" {
		row += "\n" + m.theme.Styles().MutedText.Render("  "+m.snapshot.BatteryHint)
	}
	return row
}

// card renders one reading. badge, when set, is shown as a colored chip
// under the value.
func (m Model) card(title string, value any, unit string, badge any) string {
	styles := m.theme.Styles()
	border := m.theme.Border
	if m.snapshot.Connection.DataStale {
		border = m.theme.BorderMuted
	}

	text, ok := formatReading(value, unit)
	valueStyle := styles.Text.Bold(true)
	switch {
	case !ok:
		valueStyle = styles.DangerText
	case title == "Device":
		valueStyle = styles.StatusStyle(text)
	case m.snapshot.Connection.DataStale:
		valueStyle = styles.MutedText.Bold(true)
	}

	body := styles.MutedText.Render(title) + "\n" + valueStyle.Render(text)
	if s, isString := badge.(string); isString && s != "" {
		body += "\n" + styles.StatusStyle(s).Render(s)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(border)).
		Padding(0, 1).
		Width(cardWidth).
		Render(body)
}

// formatReading renders a field value. ok is false for sentinels and missing
// values.
func formatReading(value any, unit string) (text string, ok bool) {
	if value == nil {
		return "—", false
	}
	if s, isString := value.(string); isString {
		if s == validate.OutOfRange || s == validate.Invalid {
			return s, false
		}
		return s, true
	}
	n, isNumber := validate.Number(value)
	if !isNumber {
		return fmt.Sprint(value), false
	}
	if unit == "" {
		return fmt.Sprintf("%.1f", n), true
	}
	return fmt.Sprintf("%.1f %s", n, unit), true
}

func (m Model) renderAnalysis() string {
	styles := m.theme.Styles()
	var lines []string

	if m.snapshot.HasTrend {
		t := m.snapshot.Trend
		line := styles.AccentText.Render(t.Arrow()) + " " +
			styles.Text.Render(string(t.Direction)) + " " +
			styles.MutedText.Render("("+string(t.Approach)+")")
		if m.snapshot.TrendCaption != "" {
			line += "  " + styles.InfoText.Render(m.snapshot.TrendCaption)
		}
		lines = append(lines, styles.MutedText.Render("Trend      ")+line)
	}

	if m.snapshot.HasDifference {
		d := m.snapshot.Difference
		width := max(minChartWidth, min(40, m.width-40))
		bar := progress.New(
			progress.WithSolidFill(styles.StatusColor(string(d.Class))),
			progress.WithoutPercentage(),
			progress.WithWidth(width),
		)
		line := bar.ViewAs(d.Proximity/100) + " " +
			styles.StatusStyle(string(d.Class)).Render(fmt.Sprintf("%.0f%%", d.Proximity)) + " " +
			styles.Text.Render(d.Text)
		lines = append(lines, styles.MutedText.Render("Proximity  ")+line)
	}

	return strings.Join(lines, "\n")
}

func (m Model) renderCharts() string {
	styles := m.theme.Styles()
	width := max(minChartWidth, m.width-16)

	var b strings.Builder
	b.WriteString(m.renderRangeTabs())
	b.WriteString("\n")

	temp, ok := m.snapshot.Charts[present.SeriesTemperature]
	switch {
	case m.snapshot.Updating && (!ok || temp.Range != m.rangeKey):
		b.WriteString(styles.MutedText.Render("loading..."))
	case !ok || len(temp.Values) == 0:
		b.WriteString(styles.MutedText.Render("no data for this range"))
	default:
		lo, hi := bounds(temp.Values)
		b.WriteString(styles.MutedText.Render(fmt.Sprintf("%5.1f ", hi)))
		b.WriteString(styles.AccentText.Render(sparkline(temp.Values, width)))
		b.WriteString("\n")
		b.WriteString(styles.MutedText.Render(fmt.Sprintf("%5.1f ", lo)))
		b.WriteString(styles.FaintText.Render(axis(temp.Labels, width)))
	}

	if dev, ok := m.snapshot.Charts[present.SeriesDeviceState]; ok && len(dev.Values) > 0 {
		b.WriteString("\n\n")
		b.WriteString(styles.MutedText.Render("Device state (5 min)  0 off · 1 cooling · 2 heating"))
		b.WriteString("\n      ")
		b.WriteString(styles.InfoText.Render(sparklineRange(dev.Values, 0, 2, width)))
	}
	return b.String()
}

// renderRangeTabs shows the selectable chart ranges with the active one
// highlighted.
func (m Model) renderRangeTabs() string {
	styles := m.theme.Styles()
	parts := []string{styles.MutedText.Render("Temperature")}
	for i, r := range history.Ranges {
		label := fmt.Sprintf("%d %s", i+1, r.Label)
		if r.Key == m.rangeKey {
			parts = append(parts, styles.Selected.Padding(0, 1).Render(label))
			continue
		}
		parts = append(parts, styles.FaintText.Padding(0, 1).Render(label))
	}
	return strings.Join(parts, " ")
}

// axis returns the first and last label spread across width.
func axis(labels []string, width int) string {
	if len(labels) == 0 {
		return ""
	}
	first, last := labels[0], labels[len(labels)-1]
	if len(labels) == 1 {
		return first
	}
	gap := width - len(first) - len(last)
	if gap < 1 {
		return first + " " + last
	}
	return first + strings.Repeat(" ", gap) + last
}
