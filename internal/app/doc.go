// Package app is the composition root of thermo and hosts the sync
// orchestrator.
//
// # Overview
//
// Run wires configuration, logging, history storage, the thermostat client,
// the presentation sinks and the dashboard together. The Orchestrator is the
// engine underneath: it decides when to fetch, folds each result into the
// connection state and the local history, and publishes presentation events.
//
// # Startup
//
//  1. Load ~/.config/thermo/config.toml (defaults when missing)
//  2. Apply flag overrides (poll period, API URL)
//  3. Open the log file, or stderr in headless mode
//  4. Load prefs for the theme and chart range
//  5. Open the history backend (SQLite when history_db is set, memory otherwise)
//  6. Build the presenter fan-out: state.Store, log presenter (headless), MQTT sink
//  7. Start the orchestrator, then the dashboard (blocks)
//
// # Sync Loop
//
//	┌────────────────────────────── Orchestrator.Run ──────────────────────────────┐
//	│ fetch tick ──> worker: retry.Do(FetchState) ──> cycleMsg ──┐                 │
//	│                      └─ retry notices ───────> cycleMsg ──┤                 │
//	│ display tick ──> Evaluate staleness, ElapsedTick           │                 │
//	│ command ──> dismiss banner / select chart range            ▼                 │
//	│                                   validate → history → connection → analysis │
//	│                                                      └──> Presenter          │
//	└──────────────────────────────────────────────────────────────────────────────┘
//
// Only the loop goroutine touches the session. Network calls and backoff
// sleeps happen in workers, and their results come back over one channel so
// retry notices and the final result keep their order. A fetch tick that
// arrives while a cycle is running is skipped.
//
// The first cycle starts as soon as Run is called. Stop, or cancelling the
// context, ends the loop; any result still in flight is discarded and the
// presenter is not called again.
//
// # Error Handling
//
// Fatal errors (returned from Run):
//   - Invalid configuration file
//   - Log file or history database that cannot be opened
//   - MQTT broker unreachable when [mqtt] broker is set
//
// Everything after startup is recoverable. Fetch failures become an offline
// connection state plus a WARN line, and the next tick tries again.
//
// # Usage Example
//
//	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
//	defer cancel()
//
//	if err := app.Run(ctx, app.Options{Headless: true}); err != nil {
//		log.Fatalf("thermo failed: %v", err)
//	}
package app
