// Package model defines the conference records exchanged with the backend and
// held in the core's views.
//
// Records are plain values. Views store them by value and replace elements in
// place, so a record's position and identifier are what observers bind to.
//
// Session instants are resolved once, right after a fetch, in the owning
// conference's timezone; see [Session.ResolveTimes].
package model
