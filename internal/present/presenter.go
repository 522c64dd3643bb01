package present

import (
	"github.com/five82/thermo/internal/logging"
)

// Presenter receives events from the sync loop. Present must not block.
type Presenter interface {
	Present(Event)
}

// PresenterFunc adapts a function to Presenter.
type PresenterFunc func(Event)

// Present calls f(e).
func (f PresenterFunc) Present(e Event) { f(e) }

// Multi fans events out to every presenter in order.
type Multi []Presenter

// Present forwards e to each non-nil presenter.
func (m Multi) Present(e Event) {
	for _, p := range m {
		if p != nil {
			p.Present(e)
		}
	}
}

// Discard drops every event.
var Discard Presenter = PresenterFunc(func(Event) {})

type logPresenter struct {
	logger logging.Logger
}

// NewLogger returns a Presenter that writes events to logger. It is what
// headless mode renders to.
func NewLogger(logger logging.Logger) Presenter {
	return logPresenter{logger: logger}
}

func (p logPresenter) Present(e Event) {
	switch ev := e.(type) {
	case ValuesUpdated:
		p.logger.Info("values", "valid", ev.Valid, "fields", ev.Fields)
	case ConnectionChanged:
		p.logger.Info("connection",
			"state", ev.View.State,
			"text", ev.View.Text,
			"cause", ev.Cause,
			"banner", ev.View.BannerVisible,
		)
	case Reconnected:
		p.logger.Info("reconnected")
	case Retrying:
		p.logger.Warn("retrying", "attempt", ev.Attempt, "total", ev.Total, "backoff", ev.Backoff)
	case TrendUpdated:
		p.logger.Info("trend", "direction", ev.Trend.Direction, "approach", ev.Trend.Approach, "caption", ev.Caption)
	case DifferenceUpdated:
		p.logger.Info("difference",
			"class", ev.Difference.Class,
			"proximity", ev.Difference.Proximity,
			"text", ev.Difference.Text,
		)
	case ChartUpdated:
		p.logger.Debug("chart", "series", ev.Series, "range", ev.Range, "points", len(ev.Values))
	case ElapsedTick:
		p.logger.Debug("elapsed", "label", ev.Elapsed)
	case UpdatingChanged:
		p.logger.Debug("updating", "active", ev.Active)
	}
}
