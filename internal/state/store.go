package state

import (
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/five82/thermo/internal/analysis"
	"github.com/five82/thermo/internal/connection"
	"github.com/five82/thermo/internal/present"
)

// Series is one chart's data.
type Series struct {
	Range  string
	Labels []string
	Values []float64
}

// Snapshot represents the latest data available to the UI.
type Snapshot struct {
	Fields      map[string]any
	HasValues   bool
	Valid       bool
	BatteryHint string
	ValuesAt    time.Time

	Connection    connection.View
	HasConnection bool
	Elapsed       string
	BannerText    string

	Updating      bool
	Retry         present.Retrying
	ReconnectedAt time.Time

	Trend         analysis.Trend
	TrendCaption  string
	DeviceState   string
	HasTrend      bool
	Difference    analysis.Difference
	HasDifference bool

	Charts map[string]Series

	LastUpdated         time.Time
	ConsecutiveFailures int // failed fetch cycles in a row
}

// IsOffline returns true when fetches have failed for multiple cycles.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent updates to the snapshot. It implements
// present.Presenter so the sync loop can write into it while the UI reads.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
	now      func() time.Time
}

var _ present.Presenter = (*Store)(nil)

// NewStore returns a Store stamping updates with now. A nil now uses
// time.Now. The zero Store is also ready to use.
func NewStore(now func() time.Time) *Store {
	return &Store{now: now}
}

// Present applies e to the snapshot.
func (s *Store) Present(e present.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := &s.snapshot
	switch ev := e.(type) {
	case present.ValuesUpdated:
		snap.Fields = maps.Clone(ev.Fields)
		snap.HasValues = true
		snap.Valid = ev.Valid
		snap.BatteryHint = ev.BatteryHint
		snap.ValuesAt = ev.At
	case present.ConnectionChanged:
		snap.Connection = ev.View
		snap.HasConnection = true
		snap.Elapsed = ev.View.Elapsed
		snap.BannerText = ev.View.BannerText
		switch ev.Cause {
		case present.CauseFailed:
			snap.ConsecutiveFailures++
			snap.Retry = present.Retrying{}
		case present.CauseLive, present.CauseCached:
			snap.ConsecutiveFailures = 0
			snap.Retry = present.Retrying{}
		}
	case present.ElapsedTick:
		snap.Elapsed = ev.Elapsed
		snap.BannerText = ev.BannerText
		snap.Connection.Elapsed = ev.Elapsed
		snap.Connection.BannerText = ev.BannerText
	case present.Reconnected:
		snap.ReconnectedAt = ev.At
	case present.Retrying:
		snap.Retry = ev
	case present.UpdatingChanged:
		snap.Updating = ev.Active
	case present.TrendUpdated:
		snap.Trend = ev.Trend
		snap.TrendCaption = ev.Caption
		snap.DeviceState = ev.DeviceState
		snap.HasTrend = true
	case present.DifferenceUpdated:
		snap.Difference = ev.Difference
		snap.HasDifference = true
	case present.ChartUpdated:
		if snap.Charts == nil {
			snap.Charts = make(map[string]Series)
		}
		snap.Charts[ev.Series] = Series{
			Range:  ev.Range,
			Labels: slices.Clone(ev.Labels),
			Values: slices.Clone(ev.Values),
		}
	default:
		return
	}
	snap.LastUpdated = s.clock()
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Fields = maps.Clone(s.snapshot.Fields)
	if s.snapshot.Charts != nil {
		snap.Charts = make(map[string]Series, len(s.snapshot.Charts))
		for name, series := range s.snapshot.Charts {
			snap.Charts[name] = Series{
				Range:  series.Range,
				Labels: slices.Clone(series.Labels),
				Values: slices.Clone(series.Values),
			}
		}
	}
	return snap
}

func (s *Store) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}
