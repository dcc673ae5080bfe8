package core

import "errors"

var (
	// ErrNotAuthenticated reports a personal-data request without a linked
	// account.
	ErrNotAuthenticated = errors.New("an authenticated account is required")
	// ErrNoConference reports a request that needs a selected conference.
	ErrNoConference = errors.New("no conference selected")
	// ErrEmailRequired rejects identities without an email address.
	ErrEmailRequired = errors.New("identity has no email address")
	// ErrNoStore reports a personal collection request on a core built
	// without a local store.
	ErrNoStore = errors.New("no local store configured")
	// ErrNoLocation reports a conference without a venue id.
	ErrNoLocation = errors.New("conference has no location")
)
