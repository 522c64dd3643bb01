// Package ui provides the terminal dashboard for thermo.
//
// The UI is a Bubble Tea program that renders state.Store snapshots. It never
// talks to the thermostat API itself: the sync orchestrator publishes events
// into the store, and the UI polls the store on a fixed refresh tick.
//
// # Views
//
//   - Dashboard: reading cards, trend and proximity lines, the temperature
//     sparkline for the selected range and the device state sparkline
//   - Logs: a tail of the log file with a level filter and follow mode
//
// A help overlay lists every binding and closes on any key.
//
// # Commands
//
// User actions that affect syncing go through the Controller interface:
// dismissing the offline banner and selecting a chart range. Both run as
// tea.Cmds so a slow range fetch never blocks rendering. Errors come back as
// a footer notice.
//
// # Key Bindings
//
//   - 1..4: select the 5 min, 1 hour, 6 hour or 24 hour chart
//   - x: dismiss the offline/stale banner
//   - l: toggle the log view
//   - space, f: toggle follow, cycle the level filter (log view)
//   - T: cycle theme, saved to the preferences file
//   - h or ?: help
//   - q or ctrl+c: quit
package ui
