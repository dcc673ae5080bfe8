// Package ui provides the terminal browser for lanyard.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program. It never owns conference data: on every
// tick it copies the core's observable views into a snapshot and renders from
// that copy, so rendering never races the dispatch queue. The only writes it
// performs are favorite toggles, reload requests and the saved theme.
//
// # Package Structure
//
//   - app.go: Model, Update loop, key handling and snapshot polling
//   - header.go: status bar and view tabs
//   - views.go: session, favorite and speaker lists with detail panes
//   - logs.go: log file tail with level filter and follow mode
//   - help.go: keyboard reference overlay
//   - theme.go: color palettes and prebuilt Lip Gloss styles
//   - keys.go, layout.go, helpers.go: bindings, sizing and text helpers
//
// # Views
//
//   - Sessions: the schedule sorted by start time, with favorite counts
//   - Speakers: speakers by name; selecting one fetches its details
//   - Favorites: the favored sequence of the linked account
//   - Logs: the JSON log written by the app, decoded by package logtail
//
// # Favorites
//
// Pressing f on a session adds it to or removes it from the favored
// sequence. The favorites engine turns the change into a backend call on its
// own outbox, so the UI returns immediately and the next snapshot shows the
// result.
//
// # Themes
//
// Three palettes ship: nightfox, kanagawa and slate. T cycles them and the
// choice is persisted through the settings store.
package ui
