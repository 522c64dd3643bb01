package analysis

import (
	"fmt"
	"math"
	"strings"
)

// Direction is the recent movement of the ambient temperature.
type Direction string

const (
	Rising  Direction = "rising"
	Falling Direction = "falling"
	Stable  Direction = "stable"
)

// Approach says whether the reading is moving toward the target.
type Approach string

const (
	Approaching Approach = "approaching"
	Receding    Approach = "receding"
	Unknown     Approach = "unknown"
)

// TrendConfig holds the tunable trend thresholds.
type TrendConfig struct {
	MinSamples         int     `toml:"min_samples"`
	DirectionThreshold float64 `toml:"direction_threshold"`
	ApproachTolerance  float64 `toml:"approach_tolerance"`
}

// DefaultTrendConfig returns 3 samples, a 0.2 direction threshold and a 0.1
// approach tolerance.
func DefaultTrendConfig() TrendConfig {
	return TrendConfig{MinSamples: 3, DirectionThreshold: 0.2, ApproachTolerance: 0.1}
}

// Trend is the derived movement signal.
type Trend struct {
	Direction Direction
	Approach  Approach
}

// Arrow returns a glyph for the direction.
func (t Trend) Arrow() string {
	switch t.Direction {
	case Rising:
		return "↑"
	case Falling:
		return "↓"
	default:
		return "→"
	}
}

// ComputeTrend looks at the most recent MinSamples readings in history.
// history is oldest first and is expected to already include current.
func ComputeTrend(history []float64, current, target float64, cfg TrendConfig) Trend {
	n := cfg.MinSamples
	if n < 2 {
		n = 2
	}
	if len(history) < n {
		return Trend{Direction: Stable, Approach: Unknown}
	}

	recent := history[len(history)-n:]
	var sum float64
	for i := 1; i < len(recent); i++ {
		sum += recent[i] - recent[i-1]
	}
	avg := sum / float64(len(recent)-1)

	t := Trend{Direction: Stable, Approach: Unknown}
	switch {
	case avg > cfg.DirectionThreshold:
		t.Direction = Rising
	case avg < -cfg.DirectionThreshold:
		t.Direction = Falling
	}

	now := math.Abs(current - target)
	before := math.Abs(recent[0] - target)
	switch {
	case now < before-cfg.ApproachTolerance:
		t.Approach = Approaching
	case now > before+cfg.ApproachTolerance:
		t.Approach = Receding
	}
	return t
}

// DescribeTrend returns a caption for the trend. Active heating or cooling
// takes precedence over the measured direction. It returns "" when there is
// nothing worth saying.
func DescribeTrend(t Trend, current, target float64, deviceState string) string {
	switch strings.ToUpper(deviceState) {
	case "ENFRIANDO":
		return fmt.Sprintf("Cooling toward %.1f °C", target)
	case "CALENTANDO":
		return fmt.Sprintf("Heating toward %.1f °C", target)
	}
	switch t.Direction {
	case Rising:
		return fmt.Sprintf("Rising toward %.1f °C", target)
	case Falling:
		return fmt.Sprintf("Falling toward %.1f °C", target)
	}
	if math.Abs(current-target) < 1 {
		return "Holding at target"
	}
	return ""
}
