package mqtt

import (
	"encoding/json"
	"time"

	"github.com/five82/thermo/internal/present"
)

// DefaultTopic is the topic prefix used when none is configured. Each event
// is published under <prefix>/<kind>.
const DefaultTopic = "thermo/events"

// Client publishes raw messages to a broker.
type Client interface {
	// Publish sends payload to topic. Errors are reported, never fatal.
	Publish(topic string, qos byte, retained bool, payload []byte) error

	// Close disconnects from the broker.
	Close() error
}

// Payload is the JSON envelope published for every event.
type Payload struct {
	Event     string `json:"event"`
	Timestamp string `json:"timestamp"`
	Data      any    `json:"data"`
}

type connectionData struct {
	State      string `json:"state"`
	Previous   string `json:"previous"`
	Text       string `json:"text"`
	Cause      string `json:"cause"`
	Stale      bool   `json:"stale"`
	Elapsed    string `json:"elapsed"`
	LastUpdate string `json:"last_update,omitempty"`
}

type valuesData struct {
	Valid       bool           `json:"valid"`
	BatteryHint string         `json:"battery_hint,omitempty"`
	Fields      map[string]any `json:"fields"`
}

type retryData struct {
	Attempt   int   `json:"attempt"`
	Total     int   `json:"total"`
	BackoffMS int64 `json:"backoff_ms"`
}

type trendData struct {
	Direction   string `json:"direction"`
	Approach    string `json:"approach"`
	Caption     string `json:"caption,omitempty"`
	DeviceState string `json:"device_state,omitempty"`
}

type differenceData struct {
	Signed    float64 `json:"signed"`
	Class     string  `json:"class"`
	Proximity float64 `json:"proximity"`
	Text      string  `json:"text"`
}

type chartData struct {
	Series string    `json:"series"`
	Range  string    `json:"range"`
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// Published reports whether e is forwarded to the broker. Per-second elapsed
// ticks and the updating flag are local display concerns.
func Published(e present.Event) bool {
	switch e.(type) {
	case present.ElapsedTick, present.UpdatingChanged:
		return false
	}
	return e != nil
}

// Retained reports whether the broker should keep the last message for e.
// Late subscribers then see the current connection state and readings.
func Retained(e present.Event) bool {
	switch e.(type) {
	case present.ConnectionChanged, present.ValuesUpdated:
		return true
	}
	return false
}

// FormatPayload builds the JSON payload for e, stamped with at.
func FormatPayload(e present.Event, at time.Time) ([]byte, error) {
	p := Payload{
		Event:     e.Kind(),
		Timestamp: at.UTC().Format(time.RFC3339),
	}

	switch ev := e.(type) {
	case present.ConnectionChanged:
		d := connectionData{
			State:    string(ev.View.State),
			Previous: string(ev.From),
			Text:     ev.View.Text,
			Cause:    string(ev.Cause),
			Stale:    ev.View.DataStale,
			Elapsed:  ev.View.Elapsed,
		}
		if !ev.View.LastUpdate.IsZero() {
			d.LastUpdate = ev.View.LastUpdate.UTC().Format(time.RFC3339)
		}
		p.Data = d
	case present.ValuesUpdated:
		p.Data = valuesData{Valid: ev.Valid, BatteryHint: ev.BatteryHint, Fields: ev.Fields}
	case present.Retrying:
		p.Data = retryData{Attempt: ev.Attempt, Total: ev.Total, BackoffMS: ev.Backoff.Milliseconds()}
	case present.Reconnected:
		p.Data = map[string]string{"at": ev.At.UTC().Format(time.RFC3339)}
	case present.TrendUpdated:
		p.Data = trendData{
			Direction:   string(ev.Trend.Direction),
			Approach:    string(ev.Trend.Approach),
			Caption:     ev.Caption,
			DeviceState: ev.DeviceState,
		}
	case present.DifferenceUpdated:
		p.Data = differenceData{
			Signed:    ev.Difference.Signed,
			Class:     string(ev.Difference.Class),
			Proximity: ev.Difference.Proximity,
			Text:      ev.Difference.Text,
		}
	case present.ChartUpdated:
		p.Data = chartData{Series: ev.Series, Range: ev.Range, Labels: ev.Labels, Values: ev.Values}
	case present.ElapsedTick:
		p.Data = map[string]string{"elapsed": ev.Elapsed}
	case present.UpdatingChanged:
		p.Data = map[string]bool{"active": ev.Active}
	}

	return json.Marshal(p)
}
