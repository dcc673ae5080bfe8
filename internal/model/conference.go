package model

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"
)

const dateLayout = "2006-01-02"

// Features lists the optional backend capabilities a conference declares.
type Features struct {
	Favorites      bool `json:"hasFavorites"`
	FavoriteCounts bool `json:"hasFavoriteCount"`
	Badges         bool `json:"hasBadge"`
}

// Conference is an event served by a CFP backend.
type Conference struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	EventType    string        `json:"eventType,omitempty"`
	CfpURL       string        `json:"cfpURL"`
	CfpVersion   string        `json:"cfpVersion"`
	Timezone     string        `json:"timezone"`
	FromDate     string        `json:"fromDate"`
	EndDate      string        `json:"endDate"`
	LocationID   int64         `json:"locationId,omitempty"`
	Features     Features      `json:"features"`
	Tracks       []Track       `json:"tracks,omitempty"`
	SessionTypes []SessionType `json:"sessionTypes,omitempty"`
	FloorPlans   []Floor       `json:"floorPlans,omitempty"`
}

// Track groups talks by topic.
type Track struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"imageURL,omitempty"`
}

// SessionType is a slot category such as a keynote, a talk or a break.
type SessionType struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Pause       bool   `json:"isPause,omitempty"`
}

// Floor is an exhibition floor plan image.
type Floor struct {
	Name     string `json:"name"`
	ImageURL string `json:"imageURL"`
}

// CfpEndpoint returns the CFP URL normalized to its /api endpoint.
func (c Conference) CfpEndpoint() string {
	u := strings.TrimSpace(c.CfpURL)
	if u == "" {
		return ""
	}
	u = strings.TrimSuffix(u, "/")
	if strings.HasSuffix(u, "/api") {
		return u
	}
	return u + "/api"
}

// Location loads the conference timezone. An empty timezone yields UTC.
func (c Conference) Location() (*time.Location, error) {
	name := strings.TrimSpace(c.Timezone)
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC, fmt.Errorf("load timezone %q: %w", name, err)
	}
	return loc, nil
}

// Window returns the first instant of FromDate and the first instant after
// EndDate, both in the conference timezone.
func (c Conference) Window() (time.Time, time.Time, error) {
	loc, err := c.Location()
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start, err := time.ParseInLocation(dateLayout, strings.TrimSpace(c.FromDate), loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse fromDate: %w", err)
	}
	end, err := time.ParseInLocation(dateLayout, strings.TrimSpace(c.EndDate), loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse endDate: %w", err)
	}
	return start, end.AddDate(0, 0, 1), nil
}

// OnGoing reports whether now falls inside the conference schedule window.
// Conferences with an unparseable window are never ongoing.
func (c Conference) OnGoing(now time.Time) bool {
	start, end, err := c.Window()
	if err != nil {
		return false
	}
	return !now.Before(start) && now.Before(end)
}
