// Package store is lanyard's write-through cache for personal collections
// such as notes and scanned badges.
//
// # Overview
//
// [Read] returns a live [Sequence] for a key. The sequence is an observable
// list: the caller mutates it directly and every change is persisted. There
// is no save call.
//
// # Modes
//
//   - LocalOnly: the collection lives in the local SQLite database.
//   - CloudFirst: the collection is pulled from the cloud backend first and
//     falls back to the local copy when the pull fails. Every change is
//     written locally and pushed to the cloud.
//
// # Persistence
//
// Each key maps to one row. The payload is the whole list encoded as CBOR
// (deterministic encoding) and compressed with zstd. Connections come from a
// zombiezen sqlitex pool opened in WAL mode.
//
// # Loading
//
// Loading runs on a background goroutine through the Runner and is published
// on the runner's dispatch goroutine. The write-through listener is attached
// only after the loaded records are in place, so the initial population is
// never written back. Elements added before loading finishes are kept after
// the loaded ones and persisted once the listener is attached.
//
// # Error Handling
//
// Load failures leave the sequence empty and are reported through
// [Sequence.Err]. Write failures are logged; the in-memory list stays as the
// user left it.
package store
