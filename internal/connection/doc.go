// Package connection tracks how fresh and reachable the thermostat data is.
//
// # States
//
// The Machine holds one authoritative state:
//
//   - online: the last cycle returned live data
//   - offline: the last cycle failed or was served from the backend cache
//   - stale: online, but nothing new arrived within StaleAfter
//
// Retrying is display-only. BeginRetry overlays it on View while a retry
// sequence runs; Current never reports it.
//
// # Transitions
//
// Observe folds a cycle outcome into the state and reports Reconnected once
// per offline/stale to online edge. The first success after startup is not a
// reconnect. Evaluate checks staleness and is a no-op while a fetch is in
// flight or before any outcome arrived.
//
// # Banner
//
// Offline and stale views carry a banner with humanized age text. Dismiss
// hides it without touching the state, and the next online transition clears
// the dismissal.
package connection
