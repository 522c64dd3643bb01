// Package config loads the thermo TOML configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/thermo/config.toml (default)
//  3. If the config file doesn't exist, fall back to Default()
//  4. Keys that are missing or empty keep their default
//
// # TOML Format
//
//	api_url = "127.0.0.1:5000"
//	fetch_period = "10s"
//	display_period = "1s"
//	stale_after = "PT30S"
//	retry_timeouts = ["2s", "4s", "8s"]
//	backoff_base = "500ms"
//	history_window = "5m"
//	history_db = "~/.local/share/thermo/history.db"
//	log_path = "~/.local/share/thermo/thermo.log"
//	log_level = "info"
//	initial_state = "offline"
//
//	[trend]
//	min_samples = 3
//	direction_threshold = 0.2
//	approach_tolerance = 0.1
//
//	[difference]
//	deadband = 0.5
//	max_delta = 5.0
//
//	[rules.temperature_target]
//	kind = "numeric"
//	min = 15.0
//	max = 30.0
//
//	[mqtt]
//	broker = "tcp://localhost:1883"
//	topic = "thermo/events"
//	client_id = "thermo"
//
// Durations accept Go syntax or ISO-8601. Rules are merged over the built-in
// set field by field. Leaving history_db empty keeps history in memory, and
// leaving mqtt.broker empty disables the republisher.
//
// # Error Handling
//
// Load returns errors for:
//   - Path expansion failures (e.g., cannot determine home directory)
//   - File read errors (except os.ErrNotExist, which triggers defaults)
//   - TOML parsing errors ("parse config: ...")
//   - Values that parse but make no sense ("invalid config: ...")
package config
