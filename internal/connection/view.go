package connection

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// Appearance is the static presentation of a state.
type Appearance struct {
	Icon      string
	Text      string
	DataStale bool
	Banner    bool
}

var appearances = map[State]Appearance{
	Online:   {Icon: "✔", Text: "Online"},
	Offline:  {Icon: "✖", Text: "No connection", DataStale: true, Banner: true},
	Stale:    {Icon: "⚠", Text: "Data out of date", DataStale: true, Banner: true},
	Retrying: {Icon: "↻", Text: "Retrying..."},
}

// AppearanceOf returns the presentation for s.
func AppearanceOf(s State) Appearance {
	if a, ok := appearances[s]; ok {
		return a
	}
	return appearances[Offline]
}

// View is everything the dashboard needs to draw the connection indicator.
type View struct {
	State         State // displayed, may be Retrying
	Authoritative State
	Icon          string
	Text          string
	DataStale     bool
	BannerVisible bool
	BannerText    string
	Elapsed       string
	RetryAttempt  int
	RetryTotal    int
	Pending       bool
	LastUpdate    time.Time
}

// View renders the machine at now.
func (m *Machine) View(now time.Time) View {
	auth := AppearanceOf(m.current)
	v := View{
		State:         m.current,
		Authoritative: m.current,
		Icon:          auth.Icon,
		Text:          auth.Text,
		DataStale:     auth.DataStale,
		BannerVisible: auth.Banner && !m.dismissed,
		Elapsed:       ElapsedLabel(m.lastUpdate, now),
		Pending:       m.pending,
		LastUpdate:    m.lastUpdate,
	}
	if m.lastUpdate.IsZero() {
		v.BannerText = "No data received yet"
	} else {
		v.BannerText = "Last data: " + humanize.RelTime(m.lastUpdate, now, "ago", "from now")
	}

	if m.retryTotal > 0 {
		r := AppearanceOf(Retrying)
		v.State = Retrying
		v.Icon = r.Icon
		v.Text = fmt.Sprintf("Retrying... (%d/%d)", m.retryIndex, m.retryTotal)
		v.RetryAttempt = m.retryIndex
		v.RetryTotal = m.retryTotal
	}
	return v
}

// ElapsedLabel formats the time since last as "never", "Ns ago", "Nm ago" or
// "Nh ago".
func ElapsedLabel(last, now time.Time) string {
	if last.IsZero() {
		return "never"
	}
	secs := int(now.Sub(last) / time.Second)
	if secs < 0 {
		secs = 0
	}
	switch {
	case secs < 60:
		return fmt.Sprintf("%ds ago", secs)
	case secs < 3600:
		return fmt.Sprintf("%dm ago", secs/60)
	default:
		return fmt.Sprintf("%dh ago", secs/3600)
	}
}
