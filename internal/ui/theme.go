package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines colors and styles for the dashboard.
type Theme struct {
	Name string

	// Base colors
	Background string // Outermost background
	Surface    string // Header and footer bars
	SurfaceAlt string // Log title bar

	// Selection colors
	SelectionBg   string
	SelectionText string

	// Border colors
	Border      string // Reading cards
	BorderMuted string // Reading cards while the data is stale

	// Text colors
	Text    string
	Muted   string
	Faint   string
	Accent  string
	Success string
	Warning string
	Danger  string
	Info    string

	// Badge colors keyed by connection state, difference class,
	// battery indicator and device state.
	StatusColors map[string]string
}

// palette is the small set of named colors a theme is derived from.
type palette struct {
	bg0, bg1, bg2   string
	sel, border     string
	fg, muted, dim  string
	red, green      string
	yellow, blue    string
	cyan, magenta   string
	orange, neutral string
}

// newTheme maps a palette onto dashboard roles. Every theme shares the same
// status mapping, so only the palette differs between them.
func newTheme(name string, p palette) Theme {
	return Theme{
		Name:          name,
		Background:    p.bg0,
		Surface:       p.bg1,
		SurfaceAlt:    p.bg2,
		SelectionBg:   p.sel,
		SelectionText: p.fg,
		Border:        p.border,
		BorderMuted:   p.bg2,
		Text:          p.fg,
		Muted:         p.muted,
		Faint:         p.dim,
		Accent:        p.blue,
		Success:       p.green,
		Warning:       p.yellow,
		Danger:        p.red,
		Info:          p.cyan,
		StatusColors: map[string]string{
			// connection
			"online":   p.green,
			"offline":  p.red,
			"stale":    p.yellow,
			"retrying": p.cyan,
			// difference class
			"cold": p.blue,
			"ok":   p.green,
			"hot":  p.orange,
			// battery indicator
			"NORMAL":  p.green,
			"BAJO":    p.yellow,
			"CRITICO": p.red,
			// device state
			"APAGADO":    p.neutral,
			"ENCENDIDO":  p.magenta,
			"ENFRIANDO":  p.cyan,
			"CALENTANDO": p.orange,
		},
	}
}

// Styles returns Lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	fg := func(color string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
	}
	bar := func(color string) lipgloss.Style {
		return lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(color)).
			Padding(0, 1)
	}

	return Styles{
		Text:        fg(t.Text),
		MutedText:   fg(t.Muted),
		FaintText:   fg(t.Faint),
		AccentText:  fg(t.Accent),
		WarningText: fg(t.Warning),
		DangerText:  fg(t.Danger).Bold(true),
		InfoText:    fg(t.Info),

		Header: bar(t.Text),
		Footer: bar(t.Muted),
		Logo:   fg(t.Warning).Bold(true),
		Selected: lipgloss.NewStyle().
			Background(lipgloss.Color(t.SelectionBg)).
			Foreground(lipgloss.Color(t.SelectionText)),

		statusColors: t.StatusColors,
		background:   t.Background,
		muted:        t.Muted,
	}
}

// Styles contains pre-built Lipgloss styles for the theme.
type Styles struct {
	// Text
	Text        lipgloss.Style
	MutedText   lipgloss.Style
	FaintText   lipgloss.Style
	AccentText  lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style
	InfoText    lipgloss.Style

	// Components
	Header   lipgloss.Style
	Footer   lipgloss.Style
	Logo     lipgloss.Style
	Selected lipgloss.Style

	// For dynamic status colors
	statusColors map[string]string
	background   string
	muted        string
}

// StatusStyle returns a badge style for the given status.
func (s Styles) StatusStyle(status string) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(s.background)).
		Background(lipgloss.Color(s.StatusColor(status))).
		Padding(0, 1)
}

// StatusColor returns the color for status, falling back to the muted color.
func (s Styles) StatusColor(status string) string {
	if color := s.statusColors[status]; color != "" {
		return color
	}
	return s.muted
}

// WithBackground returns a copy of Styles whose text styles paint bgColor
// behind them, for segments rendered on the header bar.
func (s Styles) WithBackground(bgColor string) Styles {
	bg := lipgloss.Color(bgColor)
	out := s
	for _, st := range []*lipgloss.Style{
		&out.Text, &out.MutedText, &out.FaintText, &out.AccentText,
		&out.WarningText, &out.DangerText, &out.InfoText,
		&out.Header, &out.Footer, &out.Logo,
	} {
		*st = st.Background(bg)
	}
	return out
}

var themeOrder = []string{"Nightfox", "Kanagawa", "Slate"}

var themes = map[string]Theme{
	// https://github.com/EdenEast/nightfox.nvim
	"Nightfox": newTheme("Nightfox", palette{
		bg0: "#131a24", bg1: "#192330", bg2: "#212e3f",
		sel: "#2b3b51", border: "#39506d",
		fg: "#cdcecf", muted: "#738091", dim: "#71839b",
		red: "#c94f6d", green: "#81b29a", yellow: "#dbc074", blue: "#719cd6",
		cyan: "#63cdcf", magenta: "#9d79d6", orange: "#f4a261", neutral: "#738091",
	}),
	// https://github.com/rebelot/kanagawa.nvim
	"Kanagawa": newTheme("Kanagawa", palette{
		bg0: "#16161D", bg1: "#1F1F28", bg2: "#2A2A37",
		sel: "#2D4F67", border: "#54546D",
		fg: "#DCD7BA", muted: "#C8C093", dim: "#727169",
		red: "#E46876", green: "#98BB6C", yellow: "#E6C384", blue: "#7E9CD8",
		cyan: "#7FB4CA", magenta: "#957FB8", orange: "#FFA066", neutral: "#727169",
	}),
	// Tailwind slate and sky scales
	"Slate": newTheme("Slate", palette{
		bg0: "#020617", bg1: "#0f172a", bg2: "#1e293b",
		sel: "#0284c7", border: "#334155",
		fg: "#f1f5f9", muted: "#94a3b8", dim: "#64748b",
		red: "#dc2626", green: "#22c55e", yellow: "#f59e0b", blue: "#38bdf8",
		cyan: "#06b6d4", magenta: "#a855f7", orange: "#f97316", neutral: "#64748b",
	}),
}

// GetTheme returns a theme by name, defaulting to Nightfox.
func GetTheme(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return themes["Nightfox"]
}

// NextTheme returns the next theme name in the cycle.
func NextTheme(current string) string {
	for i, name := range themeOrder {
		if name == current {
			return themeOrder[(i+1)%len(themeOrder)]
		}
	}
	return themeOrder[0]
}

// ThemeNames returns available theme names.
func ThemeNames() []string {
	return themeOrder
}
