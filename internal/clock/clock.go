package clock

import "time"

type (
	// Clock abstracts a subset of functionality from package time.
	Clock interface {
		Now() time.Time
		After(d time.Duration) <-chan time.Time
		NewTicker(d time.Duration) Ticker
	}

	// Ticker abstracts the functionality of time.Ticker.
	Ticker interface {
		C() <-chan time.Time
		Stop()
	}

	realClock struct{}

	realTicker struct {
		*time.Ticker
	}
)

// Real is the Clock backed by package time.
var Real Clock = realClock{}

// Now indirects time.Now.
func (realClock) Now() time.Time {
	return time.Now()
}

// After indirects time.After.
func (realClock) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}

// NewTicker indirects time.NewTicker.
func (realClock) NewTicker(d time.Duration) Ticker {
	return realTicker{Ticker: time.NewTicker(d)}
}

// C indirects time.Ticker.C.
func (t realTicker) C() <-chan time.Time {
	return t.Ticker.C
}
