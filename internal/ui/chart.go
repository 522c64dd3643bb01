package ui

import (
	"math"
	"strings"
)

var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

// sparkline draws values as a one-line block chart at most width cells wide.
// Longer series are averaged into width buckets. A flat series sits in the
// middle row.
func sparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}
	lo, hi := bounds(values)
	return sparklineRange(values, lo, hi, width)
}

// sparklineRange is sparkline with fixed bounds, for series whose scale is
// known up front such as device state levels.
func sparklineRange(values []float64, lo, hi float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}
	points := downsample(values, width)
	var b strings.Builder
	for _, v := range points {
		b.WriteRune(sparkBlocks[level(v, lo, hi)])
	}
	return b.String()
}

func level(v, lo, hi float64) int {
	top := len(sparkBlocks) - 1
	if hi-lo <= 0 {
		return top / 2
	}
	idx := int(math.Round((v - lo) / (hi - lo) * float64(top)))
	return max(0, min(top, idx))
}

func bounds(values []float64) (lo, hi float64) {
	lo, hi = values[0], values[0]
	for _, v := range values[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	return lo, hi
}

// downsample averages values into at most n buckets, preserving order.
func downsample(values []float64, n int) []float64 {
	if len(values) <= n {
		return values
	}
	out := make([]float64, n)
	for i := range out {
		start := i * len(values) / n
		end := (i + 1) * len(values) / n
		var sum float64
		for _, v := range values[start:end] {
			sum += v
		}
		out[i] = sum / float64(end-start)
	}
	return out
}
