// Package config loads lanyard's TOML configuration.
//
// # Configuration Discovery
//
// Load follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/lanyard/config.toml
//  3. If the file doesn't exist, use [Default]
//  4. If the file exists but fields are missing or blank, keep their defaults
//
// # TOML Format
//
//	api_url = "https://api.lanyard.events"
//	data_dir = "~/.local/share/lanyard"
//	settings_path = "~/.config/lanyard/settings.toml"
//	log_level = "info"
//	remote_notes = false
//	fixtures = ""
//	request_timeout = "20s"
//	reload_check = "@every 1m"
//	favorites_refresh = "@every 5m"
//	rating_test_offset = "0s"
//	theme = "dark"
//
//	[identity]
//	name = "Grace Hopper"
//	email = "grace@example.com"
//	network_id = "grace@example.com"
//	login_method = "CUSTOM"
//
// Every field is optional. reload_check and favorites_refresh are cron
// schedules as accepted by robfig/cron, including the @every shorthand.
// Setting fixtures answers every remote call from a YAML file instead of
// api_url, which is how lanyard runs offline.
//
// The identity section signs lanyard in at startup. Only email is required;
// network_id defaults to the email and login_method to CUSTOM, a self-issued
// identity that links without a third-party provider.
//
// # Derived Paths
//
//   - Log file: <data_dir>/lanyard.log
//   - Collection database: <data_dir>/lanyard.db
//   - Reload marker: <data_dir>/reload
//
// # Path Expansion
//
// Tilde paths expand to the home directory and relative paths become
// absolute. Expansion applies to the config location, data_dir,
// settings_path and fixtures.
//
// # Error Handling
//
// Load returns errors for path expansion failures, read errors other than a
// missing file, TOML syntax errors and unparseable durations or log levels.
// A missing file is not an error.
package config
