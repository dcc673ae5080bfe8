package core

import (
	"time"

	"github.com/five82/lanyard/internal/model"
	"github.com/five82/lanyard/internal/settings"
)

// ratingLead is how long before the last session starts the dialog unlocks.
const ratingLead = time.Hour

// ShowRatingDialog reports whether the conference rating dialog should be
// offered. It reads loaded data only.
func (c *Core) ShowRatingDialog() bool {
	conf, ok := c.Conference()
	if !ok {
		return false
	}
	last, ok := model.LastSession(c.sessions.Items())
	if !ok {
		return false
	}
	if c.settings.ContainsCSV(settings.Rating, conf.ID) {
		return false
	}
	now := c.now()
	if !conf.OnGoing(now) {
		return false
	}
	threshold := last.StartDate.Add(-ratingLead - c.ratingOffset)
	return now.After(threshold)
}

// MarkRated records that the active conference has been rated.
func (c *Core) MarkRated() error {
	conf, ok := c.Conference()
	if !ok {
		return ErrNoConference
	}
	return c.settings.AddCSV(settings.Rating, conf.ID)
}

// addLocalNotification schedules the rating reminder once per conference.
func (c *Core) addLocalNotification(conf model.Conference) {
	if c.settings.ContainsCSV(settings.LocalNotificationRating, conf.ID) {
		return
	}
	c.notifier.AddRatingNotification(conf)
	if err := c.settings.AddCSV(settings.LocalNotificationRating, conf.ID); err != nil {
		c.logger.Warn("persist rating notification marker failed", "conference_id", conf.ID, "error", err)
	}
}
