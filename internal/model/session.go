package model

import "time"

// Talk is the content presented in a session slot.
type Talk struct {
	ID       string       `json:"id"`
	Title    string       `json:"title"`
	Track    string       `json:"track,omitempty"`
	TalkType string       `json:"talkType,omitempty"`
	Summary  string       `json:"summary,omitempty"`
	Speakers []SpeakerRef `json:"speakers,omitempty"`
}

// SpeakerRef links a talk to a speaker.
type SpeakerRef struct {
	UUID string `json:"uuid"`
	Name string `json:"name"`
}

// Session is a scheduled slot. StartDate and EndDate are derived from the raw
// epoch fields and are not part of the wire format.
type Session struct {
	ID             string    `json:"slotId"`
	Day            string    `json:"day,omitempty"`
	RoomName       string    `json:"roomName,omitempty"`
	FromTimeMillis int64     `json:"fromTimeMillis"`
	ToTimeMillis   int64     `json:"toTimeMillis"`
	Talk           *Talk     `json:"talk,omitempty"`
	StartDate      time.Time `json:"-"`
	EndDate        time.Time `json:"-"`
}

// Title returns the talk title, or the slot id for breaks.
func (s Session) Title() string {
	if s.Talk != nil && s.Talk.Title != "" {
		return s.Talk.Title
	}
	return s.ID
}

// TalkID returns the id used to match favorites and notes.
func (s Session) TalkID() string {
	if s.Talk != nil {
		return s.Talk.ID
	}
	return ""
}

// Resolved reports whether the derived instants have been set.
func (s Session) Resolved() bool {
	return !s.StartDate.IsZero()
}

// ResolveTimes derives StartDate and EndDate from the epoch fields in loc.
// It is a no-op once the session is resolved.
func (s *Session) ResolveTimes(loc *time.Location) {
	if s.Resolved() {
		return
	}
	if loc == nil {
		loc = time.UTC
	}
	s.StartDate = time.UnixMilli(s.FromTimeMillis).In(loc)
	s.EndDate = time.UnixMilli(s.ToTimeMillis).In(loc)
}

// ResolveSessionTimes resolves every session in place.
func ResolveSessionTimes(sessions []Session, loc *time.Location) {
	for i := range sessions {
		sessions[i].ResolveTimes(loc)
	}
}

// LastSession returns the session with the latest start, which is the last
// session of the last day.
func LastSession(sessions []Session) (Session, bool) {
	var last Session
	found := false
	for _, s := range sessions {
		if !found || s.StartDate.After(last.StartDate) {
			last = s
			found = true
		}
	}
	return last, found
}
