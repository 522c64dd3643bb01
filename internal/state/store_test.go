package state

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/thermo/internal/analysis"
	"github.com/five82/thermo/internal/connection"
	"github.com/five82/thermo/internal/present"
)

var t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func TestStore_ValuesAndSnapshotClone(t *testing.T) {
	s := NewStore(func() time.Time { return t0 })

	fields := map[string]any{"temperature_ambient": 22.5}
	s.Present(present.ValuesUpdated{Fields: fields, Valid: true, BatteryHint: "ok"})
	fields["temperature_ambient"] = 99.0

	snap := s.Snapshot()
	require.True(t, snap.HasValues)
	assert.Equal(t, 22.5, snap.Fields["temperature_ambient"])
	assert.True(t, snap.LastUpdated.Equal(t0), "LastUpdated = %v, want %v", snap.LastUpdated, t0)

	// Returned snapshot should be independent of the stored one.
	snap.Fields["temperature_ambient"] = 1.0
	assert.Equal(t, 22.5, s.Snapshot().Fields["temperature_ambient"])
}

func TestStore_ChartsAreCloned(t *testing.T) {
	var s Store

	values := []float64{20, 21}
	s.Present(present.ChartUpdated{Series: present.SeriesTemperature, Range: "5m", Labels: []string{"a", "b"}, Values: values})
	values[0] = 0

	snap := s.Snapshot()
	got := snap.Charts[present.SeriesTemperature]
	assert.Equal(t, "5m", got.Range)
	assert.Equal(t, []float64{20, 21}, got.Values)

	snap.Charts[present.SeriesTemperature].Values[0] = -1
	assert.Equal(t, 20.0, s.Snapshot().Charts[present.SeriesTemperature].Values[0], "Snapshot should clone chart values")
}

func TestStore_ConsecutiveFailures(t *testing.T) {
	var s Store
	failed := present.ConnectionChanged{Cause: present.CauseFailed, View: connection.View{State: connection.Offline}}

	snap := s.Snapshot()
	assert.Zero(t, snap.ConsecutiveFailures)
	assert.False(t, snap.IsOffline())

	s.Present(failed)
	snap = s.Snapshot()
	assert.Equal(t, 1, snap.ConsecutiveFailures)
	assert.False(t, snap.IsOffline())

	s.Present(failed)
	snap = s.Snapshot()
	assert.Equal(t, 2, snap.ConsecutiveFailures)
	assert.True(t, snap.IsOffline())

	// A stale re-evaluation is not a failed fetch.
	s.Present(present.ConnectionChanged{Cause: present.CauseStale})
	assert.Equal(t, 2, s.Snapshot().ConsecutiveFailures)

	s.Present(present.ConnectionChanged{Cause: present.CauseLive, View: connection.View{State: connection.Online}})
	snap = s.Snapshot()
	assert.Zero(t, snap.ConsecutiveFailures)
	assert.False(t, snap.IsOffline())
}

func TestStore_RetryClearedByOutcome(t *testing.T) {
	var s Store

	s.Present(present.Retrying{Attempt: 2, Total: 3})
	assert.Equal(t, 2, s.Snapshot().Retry.Attempt)

	s.Present(present.ConnectionChanged{Cause: present.CauseFailed})
	assert.Zero(t, s.Snapshot().Retry.Attempt, "retry should be cleared")
}

func TestStore_ElapsedTickUpdatesView(t *testing.T) {
	var s Store

	s.Present(present.ConnectionChanged{View: connection.View{State: connection.Online, Elapsed: "0s ago"}})
	s.Present(present.ElapsedTick{Elapsed: "5s ago", BannerText: "Last data: 5 seconds ago"})

	snap := s.Snapshot()
	assert.Equal(t, "5s ago", snap.Elapsed)
	assert.Equal(t, "5s ago", snap.Connection.Elapsed)
	assert.Equal(t, connection.Online, snap.Connection.State)
}

func TestStore_TrendDifferenceAndFlags(t *testing.T) {
	var s Store

	s.Present(present.UpdatingChanged{Active: true})
	s.Present(present.TrendUpdated{Trend: analysis.Trend{Direction: analysis.Rising}, Caption: "Rising toward 24.0 °C"})
	s.Present(present.DifferenceUpdated{Difference: analysis.Difference{Class: analysis.Cold}})
	s.Present(present.Reconnected{At: t0})

	snap := s.Snapshot()
	assert.True(t, snap.Updating)
	assert.True(t, snap.HasTrend)
	assert.True(t, snap.HasDifference)
	assert.Equal(t, analysis.Rising, snap.Trend.Direction)
	assert.Equal(t, analysis.Cold, snap.Difference.Class)
	assert.True(t, snap.ReconnectedAt.Equal(t0), "ReconnectedAt = %v, want %v", snap.ReconnectedAt, t0)
}
