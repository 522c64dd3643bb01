package mqtt_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/five82/thermo/internal/analysis"
	"github.com/five82/thermo/internal/clock"
	"github.com/five82/thermo/internal/connection"
	"github.com/five82/thermo/internal/logging"
	"github.com/five82/thermo/internal/mqtt"
	"github.com/five82/thermo/internal/present"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func decode(t *testing.T, raw []byte) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestFormatConnectionPayload(t *testing.T) {
	ev := present.ConnectionChanged{
		View: connection.View{
			State:      connection.Offline,
			Text:       "No connection",
			DataStale:  true,
			Elapsed:    "12s ago",
			LastUpdate: t0.Add(-12 * time.Second),
		},
		From:  connection.Online,
		To:    connection.Offline,
		Cause: present.CauseFailed,
	}

	raw, err := mqtt.FormatPayload(ev, t0)
	require.NoError(t, err)

	got := decode(t, raw)
	assert.Equal(t, "connection", got["event"])
	assert.Equal(t, "2026-03-01T12:00:00Z", got["timestamp"])
	data := got["data"].(map[string]any)
	assert.Equal(t, "offline", data["state"])
	assert.Equal(t, "online", data["previous"])
	assert.Equal(t, "failed", data["cause"])
	assert.Equal(t, true, data["stale"])
	assert.Equal(t, "2026-03-01T11:59:48Z", data["last_update"])
}

func TestFormatAnalysisPayloads(t *testing.T) {
	raw, err := mqtt.FormatPayload(present.DifferenceUpdated{
		Difference: analysis.ComputeDifference(18, 22, analysis.DefaultDifferenceConfig()),
	}, t0)
	require.NoError(t, err)
	data := decode(t, raw)["data"].(map[string]any)
	assert.Equal(t, "cold", data["class"])
	assert.InDelta(t, 20.0, data["proximity"], 1e-9)

	raw, err = mqtt.FormatPayload(present.Retrying{Attempt: 1, Total: 3, Backoff: 500 * time.Millisecond}, t0)
	require.NoError(t, err)
	data = decode(t, raw)["data"].(map[string]any)
	assert.EqualValues(t, 500, data["backoff_ms"])
	assert.EqualValues(t, 1, data["attempt"])
}

func TestPublishedAndRetained(t *testing.T) {
	assert.False(t, mqtt.Published(present.ElapsedTick{}))
	assert.False(t, mqtt.Published(present.UpdatingChanged{Active: true}))
	assert.True(t, mqtt.Published(present.Reconnected{}))

	assert.True(t, mqtt.Retained(present.ConnectionChanged{}))
	assert.True(t, mqtt.Retained(present.ValuesUpdated{}))
	assert.False(t, mqtt.Retained(present.ChartUpdated{}))
}

func TestSinkPublishesUnderPrefix(t *testing.T) {
	client := mqtt.NewFakeClient()
	sink := mqtt.NewSink(client, "home/thermo/", 8, clock.NewFake(t0), logging.Logger{})

	sink.Present(present.Reconnected{At: t0})
	sink.Present(present.ElapsedTick{Elapsed: "1s ago"})
	sink.Present(present.ConnectionChanged{View: connection.View{State: connection.Online}})
	require.NoError(t, sink.Close())

	msgs := client.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "home/thermo/reconnected", msgs[0].Topic)
	assert.False(t, msgs[0].Retained)
	assert.Equal(t, byte(0), msgs[0].QoS)
	assert.Equal(t, "home/thermo/connection", msgs[1].Topic)
	assert.True(t, msgs[1].Retained)
	assert.Equal(t, byte(1), msgs[1].QoS)
	assert.True(t, client.Closed())
}

func TestSinkSurvivesPublishErrors(t *testing.T) {
	client := mqtt.NewFakeClient()
	client.PublishError = errors.New("broker gone")
	sink := mqtt.NewSink(client, "", 0, nil, logging.Logger{})

	sink.Present(present.Reconnected{At: t0})
	require.NoError(t, sink.Close())

	assert.Empty(t, client.Messages())
	assert.Equal(t, "thermo/events/retrying", sink.Topic(present.Retrying{}))
}

type blockingClient struct {
	started chan struct{}
	release chan struct{}
}

func (b *blockingClient) Publish(string, byte, bool, []byte) error {
	select {
	case b.started <- struct{}{}:
	default:
	}
	<-b.release
	return nil
}

func (b *blockingClient) Close() error { return nil }

func TestSinkDropsWhenQueueFull(t *testing.T) {
	client := &blockingClient{started: make(chan struct{}, 1), release: make(chan struct{})}
	sink := mqtt.NewSink(client, "", 1, nil, logging.Logger{})

	sink.Present(present.Reconnected{At: t0})
	<-client.started

	sink.Present(present.Reconnected{At: t0}) // queued
	sink.Present(present.Reconnected{At: t0}) // dropped
	assert.Equal(t, int64(1), sink.Dropped())

	close(client.release)
	require.NoError(t, sink.Close())

	sink.Present(present.Reconnected{At: t0})
	assert.Equal(t, int64(1), sink.Dropped())
}
