// Package history keeps time-windowed sample series for the dashboard charts
// and the trend calculation.
//
// # Overview
//
// Each metric is stored independently as a JSON array under its own key:
//
//	[{"value": 21.5, "timestamp": "2026-03-01T12:00:00Z", "label": "12:00:00"}, ...]
//
// Append loads the series, prunes samples older than the window, appends the
// new sample, prunes again and saves. Reads prune too, so every returned
// sample is inside the window.
//
// # Storage Backends
//
//   - MemoryStorage: a mutex-guarded map, used by default and in tests
//   - SQLiteStorage: a modernc.org/sqlite database with a kv table and
//     schema_migrations bookkeeping, used when history_db is configured
//
// # Failure Handling
//
// The store is fail-open. A backend read error or an undecodable series is
// wrapped in *StorageReadError, logged, and treated as an empty window. A
// write error is logged and the in-memory window is still returned.
//
// # Chart Ranges
//
// Ranges lists the selectable chart ranges. The 5 minute range is served from
// the local window; longer ranges are fetched from the backend history
// endpoint with the record limit stored on the Range.
package history
