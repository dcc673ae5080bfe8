// Package app is lanyard's composition root.
//
// # Overview
//
// Run loads the configuration, builds every collaborator, opens the requested
// or saved conference and hands control to the terminal UI. Nothing else in
// lanyard constructs long-lived dependencies.
//
// # Startup
//
//  1. Load config from ~/.config/lanyard/config.toml (or --config)
//  2. With --request-reload, drop the reload marker into data_dir and exit
//  3. Open the JSON log at <data_dir>/lanyard.log (stderr when headless)
//  4. Load settings and make sure a device id exists
//  5. Pick the remote gateway: the HTTP client for api_url, or the YAML
//     fixture gateway when fixtures is set
//  6. Start the dispatch queue and the favorites outbox
//  7. Open the SQLite collection store, with the remote cloud backend when
//     remote_notes is enabled
//  8. Build the core, sign in with --login or the [identity] config section,
//     load the conference catalogue and open a conference
//  9. Schedule the reload check and the favorite count refresh with cron
//  10. Run the UI until the user quits or the context ends
//
// # Headless Mode
//
// With Options.Headless the run waits for the initial fetches to settle,
// prints a short summary and returns. A signed-in run adds the linked account
// and its favorite count. It is meant for scripts and smoke
// checks against a backend or a fixture file.
//
// # Components
//
//   - app.go: Run, collaborator wiring and the headless summary
//   - poller.go: cron scheduler for the reload check and count refresh
//
// # Shutdown
//
// Cancelling the context stops the queues. Before that, Run stops the
// scheduler, waits for queued work and outbound favorite calls, and closes
// the store.
package app
