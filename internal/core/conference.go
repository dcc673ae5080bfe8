package core

import (
	"strconv"
	"strings"

	"github.com/five82/lanyard/internal/dispatch"
	"github.com/five82/lanyard/internal/flight"
	"github.com/five82/lanyard/internal/latch"
	"github.com/five82/lanyard/internal/model"
	"github.com/five82/lanyard/internal/remote"
	"github.com/five82/lanyard/internal/settings"
)

// RetrieveConferences refreshes the conference catalogue view.
func (c *Core) RetrieveConferences() {
	c.queue.Post(func() {
		if !c.guard.Begin(flight.Conferences) {
			return
		}
		dispatch.Call(c.queue, func() ([]model.Conference, error) {
			ctx, cancel := c.callContext()
			defer cancel()
			return remote.List[model.Conference](ctx, c.gateway, remote.Fn("allConferences"))
		}, func(confs []model.Conference, err error) {
			c.guard.End(flight.Conferences)
			c.status.Record(flight.Conferences.String(), err)
			if err != nil {
				c.logger.Warn("retrieve conferences failed", "function", "allConferences", "error", err)
				return
			}
			c.conferences.SetAll(confs)
		})
	})
}

// RetrieveConference fetches one conference and selects it.
func (c *Core) RetrieveConference(id string) {
	dispatch.Call(c.queue, func() (model.Conference, error) {
		ctx, cancel := c.callContext()
		defer cancel()
		return remote.Object[model.Conference](ctx, c.gateway, remote.Fn("conference").Param("id", id))
	}, func(conf model.Conference, err error) {
		if err != nil {
			c.logger.Warn("retrieve conference failed", "function", "conference", "conference_id", id, "error", err)
			return
		}
		if conf.ID == "" {
			conf.ID = id
		}
		c.selectConference(conf)
	})
}

// RestoreSavedConference reselects the conference saved in settings and
// reports whether a restore started. Saved ids must be numeric; anything else
// is discarded together with the saved account linkage.
func (c *Core) RestoreSavedConference() bool {
	id, ok := c.settings.Retrieve(settings.SavedConferenceID)
	id = strings.TrimSpace(id)
	if !ok || id == "" {
		return false
	}
	if _, err := strconv.ParseInt(id, 10, 64); err != nil {
		c.logger.Warn("discarding invalid saved conference id", "conference_id", id)
		if err := c.settings.Remove(settings.SavedConferenceID, settings.SavedAccountID, settings.BadgeType, settings.BadgeSponsor); err != nil {
			c.logger.Warn("clear saved conference failed", "error", err)
		}
		return false
	}
	c.RetrieveConference(id)
	return true
}

// SelectConference makes conf the active conference and refetches every
// conference view.
func (c *Core) SelectConference(conf model.Conference) {
	c.queue.Post(func() { c.selectConference(conf) })
}

func (c *Core) selectConference(conf model.Conference) {
	c.mu.Lock()
	switching := c.conference != nil
	c.conference = &conf
	identity := c.identity
	c.mu.Unlock()

	c.logger.Info("conference selected", "conference_id", conf.ID, "conference", conf.Name)
	if err := c.settings.Store(settings.SavedConferenceID, conf.ID); err != nil {
		c.logger.Warn("persist conference failed", "error", err)
	}
	if switching {
		c.clearAccount()
	}
	c.status.Reset()

	c.sessions.Clear()
	c.speakers.Clear()
	c.floors.Clear()
	c.sponsors.Clear()
	c.favorites.ClearCounts()

	c.retrieveTracks(conf)
	c.retrieveSessionTypes(conf)
	c.retrieveExhibitionMaps(conf)
	c.retrieveSessions()
	c.retrieveSpeakers()
	c.refreshFavoriteCounts()

	if identity != nil {
		c.link(*identity)
	}
}

// FindSession returns the session whose talk has id. Sessions without a talk
// match on their slot id.
func (c *Core) FindSession(id string) (model.Session, bool) {
	s, _, ok := c.sessions.Find(func(s model.Session) bool {
		if s.Talk != nil {
			return s.Talk.ID == id
		}
		return s.ID == id
	})
	return s, ok
}

// RetrieveSessions refetches the session view.
func (c *Core) RetrieveSessions() {
	c.queue.Post(c.retrieveSessions)
}

func (c *Core) retrieveSessions() {
	conf, ok := c.Conference()
	if !ok || !c.guard.Begin(flight.Sessions) {
		return
	}
	if !c.IsAuthenticated() {
		c.notifier.PreloadRatingNotifications()
	}
	cycle := latch.New(2, c.notifier.PreloadingDone)

	loc, err := conf.Location()
	if err != nil {
		c.logger.Warn("conference timezone unavailable, using UTC", "conference_id", conf.ID, "error", err)
	}
	fn := remote.Fn("sessionsV2").
		Param("cfpEndpoint", conf.CfpEndpoint()).
		Param("conferenceId", conf.CfpVersion)

	dispatch.Call(c.queue, func() ([]model.Session, error) {
		ctx, cancel := c.callContext()
		defer cancel()
		sessions, err := remote.List[model.Session](ctx, c.gateway, fn)
		if err != nil {
			return nil, err
		}
		model.ResolveSessionTimes(sessions, loc)
		return sessions, nil
	}, func(sessions []model.Session, err error) {
		c.guard.End(flight.Sessions)
		if !c.isCurrent(conf) {
			cycle.CountDown()
			cycle.CountDown()
			c.retrieveSessions()
			return
		}
		c.status.Record(flight.Sessions.String(), err)
		if err != nil {
			c.logger.Warn("retrieve sessions failed", "function", "sessionsV2", "conference_id", conf.ID, "error", err)
			cycle.CountDown()
			cycle.CountDown()
			return
		}
		c.logger.Info("sessions retrieved", "conference_id", conf.ID, "count", len(sessions))
		c.sessions.SetAll(sessions)
		cycle.CountDown()
		c.retrieveAuthenticatedUserSessionInformation(conf, cycle)
		c.addLocalNotification(conf)
	})
}

// RetrieveSpeakers refetches the speaker view.
func (c *Core) RetrieveSpeakers() {
	c.queue.Post(c.retrieveSpeakers)
}

func (c *Core) retrieveSpeakers() {
	conf, ok := c.Conference()
	if !ok || !c.guard.Begin(flight.Speakers) {
		return
	}
	fn := remote.Fn("speakers").
		Param("cfpEndpoint", conf.CfpEndpoint()).
		Param("conferenceId", conf.CfpVersion)

	dispatch.Call(c.queue, func() ([]model.Speaker, error) {
		ctx, cancel := c.callContext()
		defer cancel()
		return remote.List[model.Speaker](ctx, c.gateway, fn)
	}, func(speakers []model.Speaker, err error) {
		c.guard.End(flight.Speakers)
		if !c.isCurrent(conf) {
			c.retrieveSpeakers()
			return
		}
		c.status.Record(flight.Speakers.String(), err)
		if err != nil {
			c.logger.Warn("retrieve speakers failed", "function", "speakers", "conference_id", conf.ID, "error", err)
			return
		}
		c.speakers.SetAll(speakers)
	})
}

// RetrieveSpeaker returns the speaker with uuid. When its details have not
// been fetched yet a detail fetch starts and merges into the view entry in
// place once it completes.
func (c *Core) RetrieveSpeaker(uuid string) (model.Speaker, bool) {
	sp, _, ok := c.speakers.Find(func(s model.Speaker) bool { return s.UUID == uuid })
	if !ok || sp.DetailsRetrieved {
		return sp, ok
	}
	conf, confOK := c.Conference()
	if !confOK || !c.speakerGuard.Begin(uuid) {
		return sp, true
	}
	fn := remote.Fn("speaker").
		Param("cfpEndpoint", conf.CfpEndpoint()).
		Param("conferenceId", conf.CfpVersion).
		Param("uuid", uuid)

	dispatch.Call(c.queue, func() (model.Speaker, error) {
		ctx, cancel := c.callContext()
		defer cancel()
		return remote.Object[model.Speaker](ctx, c.gateway, fn)
	}, func(details model.Speaker, err error) {
		c.speakerGuard.End(uuid)
		if err != nil {
			c.logger.Warn("retrieve speaker failed", "function", "speaker", "uuid", uuid, "error", err)
			return
		}
		if !c.isCurrent(conf) {
			return
		}
		_, idx, found := c.speakers.Find(func(s model.Speaker) bool { return s.UUID == uuid })
		if !found {
			return
		}
		c.speakers.Update(idx, func(s *model.Speaker) { s.MergeDetails(details) })
	})
	return sp, true
}

func (c *Core) retrieveTracks(conf model.Conference) {
	if !c.guard.Begin(flight.Tracks) {
		return
	}
	defer c.guard.End(flight.Tracks)

	seen := make(map[string]bool, len(conf.Tracks))
	tracks := make([]model.Track, 0, len(conf.Tracks))
	for _, t := range conf.Tracks {
		if seen[t.Name] {
			continue
		}
		seen[t.Name] = true
		tracks = append(tracks, t)
	}
	c.tracks.SetAll(tracks)
}

func (c *Core) retrieveSessionTypes(conf model.Conference) {
	if !c.guard.Begin(flight.SessionTypes) {
		return
	}
	defer c.guard.End(flight.SessionTypes)

	seen := make(map[string]bool, len(conf.SessionTypes))
	types := make([]model.SessionType, 0, len(conf.SessionTypes))
	for _, st := range conf.SessionTypes {
		if seen[st.Name] {
			continue
		}
		seen[st.Name] = true
		if st.Pause {
			continue
		}
		types = append(types, st)
	}
	c.sessionTypes.SetAll(types)
}

func (c *Core) retrieveExhibitionMaps(conf model.Conference) {
	if !c.guard.Begin(flight.ExhibitionMaps) {
		return
	}
	plans := append([]model.Floor(nil), conf.FloorPlans...)
	dispatch.Call(c.queue, func() ([]model.Floor, error) {
		secure := make([]model.Floor, 0, len(plans))
		for _, f := range plans {
			if strings.HasPrefix(f.ImageURL, "https") {
				secure = append(secure, f)
			}
		}
		return secure, nil
	}, func(floors []model.Floor, _ error) {
		c.guard.End(flight.ExhibitionMaps)
		if !c.isCurrent(conf) {
			if cur, ok := c.Conference(); ok {
				c.retrieveExhibitionMaps(cur)
			}
			return
		}
		c.floors.SetAll(floors)
	})
}

// RefreshFavoriteCounts merges fresh favorite counts into the Favorites view.
// Conferences without the favorite count feature make no call.
func (c *Core) RefreshFavoriteCounts() {
	c.queue.Post(c.refreshFavoriteCounts)
}

func (c *Core) refreshFavoriteCounts() {
	conf, ok := c.Conference()
	if !ok || !conf.Features.FavoriteCounts || !c.guard.Begin(flight.FavoriteCounts) {
		return
	}
	endpoint := conf.CfpEndpoint()
	dispatch.Call(c.queue, func() ([]model.Favorite, error) {
		ctx, cancel := c.callContext()
		defer cancel()
		return c.favorites.FetchCounts(ctx, endpoint)
	}, func(list []model.Favorite, err error) {
		c.guard.End(flight.FavoriteCounts)
		if !c.isCurrent(conf) {
			c.refreshFavoriteCounts()
			return
		}
		c.status.Record(flight.FavoriteCounts.String(), err)
		if err != nil {
			c.logger.Warn("retrieve favorite counts failed", "function", "allFavorites", "error", err)
			return
		}
		c.favorites.MergeCounts(list)
	})
}

// RetrievePastConferences fetches conferences of eventType that ended before
// now. The result is delivered to done on the dispatch goroutine.
func (c *Core) RetrievePastConferences(eventType string, done func([]model.Conference, error)) {
	fn := remote.Fn("conferences").
		Param("time", strconv.FormatInt(c.now().UnixMilli(), 10)).
		Param("type", eventType)
	dispatch.Call(c.queue, func() ([]model.Conference, error) {
		ctx, cancel := c.callContext()
		defer cancel()
		return remote.List[model.Conference](ctx, c.gateway, fn)
	}, func(confs []model.Conference, err error) {
		if err != nil {
			c.logger.Warn("retrieve past conferences failed", "function", "conferences", "type", eventType, "error", err)
		}
		if done != nil {
			done(confs, err)
		}
	})
}
