package present

import (
	"strings"
	"time"

	"github.com/five82/thermo/internal/analysis"
	"github.com/five82/thermo/internal/connection"
)

// Event is one of the types in this file.
type Event interface {
	Kind() string
	sealed()
}

// ValuesUpdated carries the validated readings. Rejected fields hold the
// "N/A" or "Error" sentinel.
type ValuesUpdated struct {
	Fields      map[string]any
	Valid       bool
	BatteryHint string
	At          time.Time
}

// Cause says why the connection view was republished.
type Cause string

const (
	CauseLive    Cause = "live"
	CauseCached  Cause = "cached"
	CauseFailed  Cause = "failed"
	CauseStale   Cause = "stale"
	CauseRetry   Cause = "retry"
	CauseDismiss Cause = "dismiss"
)

// ConnectionChanged carries a fresh connection view.
type ConnectionChanged struct {
	View  connection.View
	From  connection.State
	To    connection.State
	Cause Cause
}

// ElapsedTick refreshes the "updated N ago" label between fetches.
type ElapsedTick struct {
	Elapsed    string
	BannerText string
	At         time.Time
}

// Reconnected fires once per offline/stale to online edge.
type Reconnected struct {
	At time.Time
}

// Retrying reports that attempt Attempt of Total failed and another follows.
type Retrying struct {
	Attempt int
	Total   int
	Backoff time.Duration
}

// UpdatingChanged brackets each fetch cycle.
type UpdatingChanged struct {
	Active bool
}

// TrendUpdated carries the recomputed trend.
type TrendUpdated struct {
	Trend       analysis.Trend
	Caption     string
	DeviceState string
}

// DifferenceUpdated carries the recomputed target gap.
type DifferenceUpdated struct {
	Difference analysis.Difference
}

// Chart series names.
const (
	SeriesTemperature = "temperature"
	SeriesDeviceState = "device_state"
)

// ChartUpdated replaces one chart series. The renderer builds the chart.
type ChartUpdated struct {
	Series string
	Range  string
	Labels []string
	Values []float64
}

func (ValuesUpdated) Kind() string     { return "values" }
func (ConnectionChanged) Kind() string { return "connection" }
func (ElapsedTick) Kind() string       { return "elapsed" }
func (Reconnected) Kind() string       { return "reconnected" }
func (Retrying) Kind() string          { return "retrying" }
func (UpdatingChanged) Kind() string   { return "updating" }
func (TrendUpdated) Kind() string      { return "trend" }
func (DifferenceUpdated) Kind() string { return "difference" }
func (ChartUpdated) Kind() string      { return "chart" }

func (ValuesUpdated) sealed()     {}
func (ConnectionChanged) sealed() {}
func (ElapsedTick) sealed()       {}
func (Reconnected) sealed()       {}
func (Retrying) sealed()          {}
func (UpdatingChanged) sealed()   {}
func (TrendUpdated) sealed()      {}
func (DifferenceUpdated) sealed() {}
func (ChartUpdated) sealed()      {}

// BatteryHint returns the tooltip for a battery indicator level.
func BatteryHint(indicator string) string {
	switch strings.ToUpper(indicator) {
	case "NORMAL":
		return "Battery charge sufficient"
	case "BAJO":
		return "Battery low - recharge soon"
	case "CRITICO":
		return "Battery critical - shutdown risk"
	default:
		return ""
	}
}
