// Package core is lanyard's conference data core: it selects a conference,
// keeps the live views of its sessions, speakers, tracks, session types and
// floor maps, and gates the user's personal data behind account linkage.
//
// # Overview
//
// Every view is an observable list owned by the core. Callers subscribe or
// read snapshots; they never mutate views, with one exception: the favored
// sessions list returned by [Core.RetrieveFavoredSessions], whose mutations
// are replayed to the backend by the favorites engine.
//
// # Threading
//
// All view mutations and all fetch completions run on the dispatch queue
// passed in [Options]. Remote calls and floor-map filtering run on background
// goroutines. Public methods are safe to call from any goroutine; the ones
// that start work post it to the queue and return without waiting.
//
//	caller ──SelectConference──→ queue ──Call──→ goroutine (remote)
//	                               ↑                  │
//	                               └──── completion ──┘
//
// # Fetch Guards
//
// Each resource kind has a single-flight guard. A request that finds its kind
// already in flight returns without doing anything; the caller keeps reading
// the current view. Guards are released at the top of every completion, so a
// failure or a panic in the completion cannot leave a kind stuck in flight.
//
// # Failure Handling
//
// A failed fetch is logged, recorded in the fetch status store and leaves the
// view as it was. Nothing retries automatically: a reload marker, a scheduled
// refresh or reselecting the conference starts a new attempt.
//
// Personal data requested without a linked account fails with
// [ErrNotAuthenticated]. Lookups that miss return ok == false.
//
// # Preload Barrier
//
// Notification preloading ends when both the session fetch and the favored
// session fetch of a cycle have completed. A latch armed with two counts is
// created when the session fetch starts; each fetch counts down on
// completion, success or failure. When the favored fetch does not run in a
// cycle its count is released right away, so the signal never waits on work
// that was never started.
//
// # Reload Marker
//
// A push collaborator drops a file named [ReloadMarker] into the storage root.
// [Core.CheckReloadRequested] consumes it and refetches sessions and speakers.
package core
