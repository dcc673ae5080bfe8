// Package state records the outcome of every backend fetch so the UI can show
// stale data together with the reason it is stale.
//
// # Overview
//
// The core keeps its views at their previous contents when a fetch fails and
// never retries on its own. This package is where those failures become
// visible: each completed fetch calls [Store.Record] with the resource name
// and the error, and the UI reads a [Snapshot] on its own schedule.
//
// # Architecture
//
//	Producer (core completions):     Consumer (UI):
//	┌──────────────────────┐        ┌──────────────────┐
//	│ fetch sessions       │        │                  │
//	│      ↓               │        │                  │
//	│ store.Record(..,err) │──────→ │ store.Snapshot() │
//	│                      │ (mutex)│      ↓           │
//	│                      │        │ render header    │
//	└──────────────────────┘        └──────────────────┘
//
// # Record Semantics
//
//	// Success: clear the error, stamp LastSuccess
//	store.Record("sessions", nil)
//
//	// Failure: keep LastSuccess, record the error, count the failure
//	store.Record("sessions", err)
//
// ConsecutiveFailures on the snapshot counts failures across all resources
// since the last success of any resource. [Snapshot.IsOffline] treats two in
// a row as offline.
//
// # Defensive Copying
//
// Snapshot clones the resource map and wraps stored errors, so the UI can
// hold on to a snapshot while the core keeps recording.
//
// # Testing Considerations
//
// The zero Store is ready to use:
//
//	store := &state.Store{}
package state
