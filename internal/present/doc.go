// Package present defines the events the sync engine publishes and the
// Presenter interface that renders them.
//
// # Events
//
// The Event set is sealed. Each event describes one part of the display:
// readings, the connection view, the elapsed label, retry progress, the
// updating indicator, trend, difference and chart series. A presenter applies
// what it understands and ignores the rest.
//
// # Timing
//
// The engine never waits on a presenter, and a presenter owns all visual
// timing, such as how long a reconnect notice stays up.
//
// # Implementations
//
//   - state.Store: the snapshot the dashboard renders
//   - NewLogger: one log line per event, for headless mode
//   - mqtt.Sink: republishes events to a broker
//   - Multi: fans an event out to several presenters in order
package present
