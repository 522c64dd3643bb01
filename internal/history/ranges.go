package history

import "time"

// Range is a selectable chart span. Local ranges are drawn from the store;
// remote ones are fetched from the backend history endpoint.
type Range struct {
	Key    string
	Label  string
	Span   time.Duration
	Remote bool
	Limit  int // records to request when Remote
}

// DefaultRangeKey selects the local window.
const DefaultRangeKey = "5m"

// Ranges lists the selectable spans in display order.
var Ranges = []Range{
	{Key: "5m", Label: "5 min", Span: 5 * time.Minute},
	{Key: "1h", Label: "1 hour", Span: time.Hour, Remote: true, Limit: 60},
	{Key: "6h", Label: "6 hours", Span: 6 * time.Hour, Remote: true, Limit: 360},
	{Key: "24h", Label: "24 hours", Span: 24 * time.Hour, Remote: true, Limit: 1440},
}

// LookupRange returns the range with key.
func LookupRange(key string) (Range, bool) {
	for _, r := range Ranges {
		if r.Key == key {
			return r, true
		}
	}
	return Range{}, false
}
