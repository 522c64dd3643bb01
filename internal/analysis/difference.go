package analysis

import (
	"fmt"
	"math"
)

// Class buckets the gap between ambient and target temperature.
type Class string

const (
	Cold Class = "cold"
	OK   Class = "ok"
	Hot  Class = "hot"
)

// DifferenceConfig holds the deadband and the gap at which proximity
// bottoms out.
type DifferenceConfig struct {
	Deadband float64 `toml:"deadband"`
	MaxDelta float64 `toml:"max_delta"`
}

// DefaultDifferenceConfig returns a 0.5 deadband and a 5 degree saturation gap.
func DefaultDifferenceConfig() DifferenceConfig {
	return DifferenceConfig{Deadband: 0.5, MaxDelta: 5}
}

// Difference compares the current reading with the target.
type Difference struct {
	Signed    float64
	Abs       float64
	Class     Class
	Proximity float64 // 0..100
	Text      string
}

// ComputeDifference classifies current against target.
func ComputeDifference(current, target float64, cfg DifferenceConfig) Difference {
	signed := current - target
	abs := math.Abs(signed)

	d := Difference{Signed: signed, Abs: abs}
	switch {
	case abs <= cfg.Deadband:
		d.Class = OK
		d.Text = "On target"
	case signed < 0:
		d.Class = Cold
		d.Text = fmt.Sprintf("+%.1f °C to reach target", abs)
	default:
		d.Class = Hot
		d.Text = fmt.Sprintf("-%.1f °C to reach target", abs)
	}

	if cfg.MaxDelta > 0 {
		d.Proximity = math.Max(0, math.Min(100, (1-abs/cfg.MaxDelta)*100))
	} else if abs == 0 {
		d.Proximity = 100
	}
	return d
}
