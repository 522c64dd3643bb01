// Package state holds the dashboard's view of the thermostat.
//
// # Overview
//
// The sync loop and the UI run on different goroutines. The Store sits
// between them: the loop publishes events into it through the
// present.Presenter interface, and the UI reads a Snapshot on every
// refresh tick.
//
//	Producer (sync loop):          Consumer (UI):
//	┌───────────────────┐         ┌──────────────────┐
//	│ Orchestrator      │         │                  │
//	│      ↓            │         │                  │
//	│ store.Present(e)  │────────→│ store.Snapshot() │
//	│      ↓            │ (mutex) │      ↓           │
//	│  next event...    │         │  render view     │
//	└───────────────────┘         └──────────────────┘
//
// # Update Semantics
//
// Each event overwrites only the part of the snapshot it describes.
// Connection events reset or bump ConsecutiveFailures depending on their
// cause, so the UI keeps showing the last good readings while reporting how
// long the backend has been failing.
//
// # Copy Semantics
//
// Field maps and chart slices are cloned on the way in and on the way out,
// so neither side can mutate what the other holds.
//
// # Testing Considerations
//
// The zero Store is ready to use. NewStore takes a now function so tests
// can pin LastUpdated.
package state
