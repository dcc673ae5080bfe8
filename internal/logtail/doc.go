// Package logtail reads the tail of lanyard's JSON log for the logs view.
//
// # Reading
//
// Read returns the last N lines of a file using a ring buffer of N entries,
// so memory stays bounded by N rather than by file size. A missing file is
// not an error: the app may not have logged anything yet.
//
// # Decoding
//
// The app writes one slog JSON record per line. Parse decodes the standard
// time, level and msg keys, lifts the component attribute that every
// package logger carries, and keeps the remaining attributes as strings.
// Lines that are not JSON, such as a panic trace, come back as info entries
// holding the raw text.
//
// Format renders an entry on one line with attributes sorted by key:
//
//	09:30:05 ERROR [core] retrieve sessions failed error=timeout function=sessionsV2
package logtail
