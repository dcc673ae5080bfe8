package model

import (
	"time"

	"github.com/google/uuid"
)

// Favorite carries the global favorite count of one session.
type Favorite struct {
	ID   string `json:"id"`
	Favs int    `json:"favs"`
}

// Favorites is the allFavorites payload.
type Favorites struct {
	Favorites []Favorite `json:"favorites"`
}

// FavoredRef identifies a favored session.
type FavoredRef struct {
	ID string `json:"id"`
}

// Favored is the favored payload: the sessions a user marked.
type Favored struct {
	Favored []FavoredRef `json:"favored"`
}

// IDs returns the favored session ids in payload order.
func (f Favored) IDs() []string {
	ids := make([]string, 0, len(f.Favored))
	for _, ref := range f.Favored {
		ids = append(ids, ref.ID)
	}
	return ids
}

// Note is a personal note attached to a session.
type Note struct {
	ID          string    `json:"id" cbor:"1,keyasint"`
	SessionUUID string    `json:"sessionUuid" cbor:"2,keyasint"`
	Title       string    `json:"title" cbor:"3,keyasint"`
	Content     string    `json:"content" cbor:"4,keyasint"`
	Updated     time.Time `json:"updated" cbor:"5,keyasint"`
}

// NewNote returns a note with a fresh id.
func NewNote(sessionUUID, title, content string, now time.Time) Note {
	return Note{
		ID:          uuid.NewString(),
		SessionUUID: sessionUUID,
		Title:       title,
		Content:     content,
		Updated:     now,
	}
}

// Badge is a scanned attendee badge.
type Badge struct {
	ID        string    `json:"id" cbor:"1,keyasint"`
	BadgeID   string    `json:"badgeId" cbor:"2,keyasint"`
	FirstName string    `json:"firstName" cbor:"3,keyasint"`
	LastName  string    `json:"lastName" cbor:"4,keyasint"`
	Company   string    `json:"company,omitempty" cbor:"5,keyasint,omitempty"`
	Email     string    `json:"email,omitempty" cbor:"6,keyasint,omitempty"`
	Details   string    `json:"details,omitempty" cbor:"7,keyasint,omitempty"`
	Scanned   time.Time `json:"scanned" cbor:"8,keyasint"`
}

// NewBadge returns a badge record with a fresh id.
func NewBadge(badgeID, firstName, lastName string, now time.Time) Badge {
	return Badge{ID: uuid.NewString(), BadgeID: badgeID, FirstName: firstName, LastName: lastName, Scanned: now}
}

// SponsorBadge is a badge scanned on behalf of a sponsor booth.
type SponsorBadge struct {
	Badge
	SponsorSlug string `json:"slug" cbor:"20,keyasint"`
}

// Sponsor is an exhibiting company.
type Sponsor struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
	Tier string `json:"level,omitempty"`
}

// Location is a conference venue.
type Location struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Address1  string  `json:"address1,omitempty"`
	Address2  string  `json:"address2,omitempty"`
	City      string  `json:"city,omitempty"`
	Country   string  `json:"country,omitempty"`
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`
}

// Vote is a talk rating submitted by an attendee.
type Vote struct {
	TalkID   string `json:"talkId"`
	Value    int    `json:"value"`
	Delivery string `json:"delivery,omitempty"`
	Content  string `json:"content,omitempty"`
	Other    string `json:"other,omitempty"`
}

// RatingQuestion holds the canned answers offered for a rating value.
type RatingQuestion struct {
	Rating  int      `json:"rating"`
	Answers []string `json:"data"`
}

// Feedback is a free-form message sent to the organizers.
type Feedback struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}
