package thermostat

import (
	"sort"
	"time"

	"github.com/relvacode/iso8601"
)

// StateResponse mirrors GET /api/estado.
type StateResponse struct {
	Success   bool           `json:"success"`
	FromCache bool           `json:"from_cache"`
	Timestamp string         `json:"timestamp"`
	Error     string         `json:"error,omitempty"`
	Data      map[string]any `json:"data"`
}

// ParsedTimestamp returns the backend timestamp, or zero when absent or
// unparseable.
func (r StateResponse) ParsedTimestamp() time.Time {
	return parseTime(r.Timestamp)
}

// HistoryResponse mirrors GET /api/historial.
type HistoryResponse struct {
	Success bool           `json:"success"`
	Error   string         `json:"error,omitempty"`
	Records []HistoryEntry `json:"historial"`
	Total   int            `json:"total"`
}

// HistoryEntry is one record from the history endpoint.
type HistoryEntry struct {
	Timestamp   string  `json:"timestamp"`
	Temperature float64 `json:"temperatura"`
}

// HistoryPoint is a parsed history record.
type HistoryPoint struct {
	At          time.Time
	Temperature float64
}

// Points parses the records and returns them oldest first. Records with an
// unparseable timestamp are dropped.
func (r HistoryResponse) Points() []HistoryPoint {
	points := make([]HistoryPoint, 0, len(r.Records))
	for _, rec := range r.Records {
		at := parseTime(rec.Timestamp)
		if at.IsZero() {
			continue
		}
		points = append(points, HistoryPoint{At: at, Temperature: rec.Temperature})
	}
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].At.Before(points[j].At)
	})
	return points
}

// The backend emits naive ISO timestamps (no offset), which time.RFC3339
// rejects.
func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	t, err := iso8601.ParseString(value)
	if err != nil {
		return time.Time{}
	}
	return t
}
