package core

import (
	"strings"

	"github.com/five82/lanyard/internal/account"
	"github.com/five82/lanyard/internal/dispatch"
	"github.com/five82/lanyard/internal/flight"
	"github.com/five82/lanyard/internal/latch"
	"github.com/five82/lanyard/internal/model"
	"github.com/five82/lanyard/internal/observable"
	"github.com/five82/lanyard/internal/settings"
	"github.com/five82/lanyard/internal/store"
)

const (
	badgeTypeAttendee = "attendee"
	badgeTypeSponsor  = "sponsor"
)

// Authenticate signs id in. Identities without an email address are logged
// out and rejected. onLinked, when set, runs on the dispatch goroutine once
// the identity is linked to an account of the selected conference.
func (c *Core) Authenticate(id account.Identity, onLinked func(accountID string)) error {
	if strings.TrimSpace(id.Email) == "" {
		c.Logout()
		return ErrEmailRequired
	}
	c.mu.Lock()
	c.identity = &id
	c.onLinked = onLinked
	c.mu.Unlock()
	c.logger.Info("identity signed in", "identity", id.String(), "method", string(id.LoginMethod))

	c.queue.Post(func() { c.link(id) })
	return nil
}

// Logout forgets the identity at once. Personal collections are dropped on
// the dispatch goroutine; use Wait to observe the cleared views.
func (c *Core) Logout() {
	c.mu.Lock()
	had := c.identity != nil
	c.identity = nil
	c.onLinked = nil
	c.mu.Unlock()
	c.queue.Post(c.clearAccount)
	if had {
		c.logger.Info("identity signed out")
	}
}

// IsAuthenticated reports whether an identity is signed in.
func (c *Core) IsAuthenticated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.identity != nil
}

// AccountID returns the linked account id, or "" before linkage completes.
func (c *Core) AccountID() string {
	if !c.IsAuthenticated() {
		return ""
	}
	return c.linker.AccountID()
}

// LinkState returns the account linkage state.
func (c *Core) LinkState() account.State { return c.linker.State() }

func (c *Core) link(id account.Identity) {
	conf, ok := c.Conference()
	if !ok {
		return
	}
	if err := c.linker.Link(id, conf.CfpEndpoint(), func(accountID string) {
		c.linked(conf, accountID)
	}); err != nil {
		c.logger.Warn("account link failed", "identity", id.String(), "conference_id", conf.ID, "error", err)
	}
}

// linked loads personal data for a fresh linkage. While sessions are still
// loading the session completion chains the load instead, so favorites never
// resolve against an empty session list.
func (c *Core) linked(conf model.Conference, accountID string) {
	if !c.isCurrent(conf) {
		return
	}
	c.logger.Info("account linked", "conference_id", conf.ID)
	if c.sessions.Len() > 0 && !c.guard.InFlight(flight.Sessions) {
		c.retrieveAuthenticatedUserSessionInformation(conf, nil)
	}
	c.mu.RLock()
	cb := c.onLinked
	c.mu.RUnlock()
	if cb != nil {
		cb(accountID)
	}
}

// retrieveAuthenticatedUserSessionInformation materializes the personal
// collections of a linked account: notes, badges and sponsors when the
// conference has badges, then favorites. cycle, when set, is the preload
// latch of the session fetch that triggered it.
func (c *Core) retrieveAuthenticatedUserSessionInformation(conf model.Conference, cycle *latch.Latch) {
	accountID := c.AccountID()
	if accountID == "" {
		cycle.CountDown()
		return
	}
	if c.store != nil {
		c.openNotes(conf, accountID)
		if conf.Features.Badges {
			c.openBadges(conf, accountID)
		}
	}
	if conf.Features.Badges {
		c.retrieveSponsors(conf)
	}
	c.retrieveFavored(conf, cycle)
}

// retrieveFavored loads the favored sequence. A session cycle that finds a
// retrieval already in flight joins it, so its latch counts down only when
// that retrieval completes.
func (c *Core) retrieveFavored(conf model.Conference, cycle *latch.Latch) {
	c.mu.RLock()
	loaded := c.favoredLoaded
	c.mu.RUnlock()
	accountID := c.AccountID()
	if accountID == "" || !conf.Features.Favorites || loaded {
		cycle.CountDown()
		return
	}
	if !c.guard.Begin(flight.FavoredSessions) {
		if cycle != nil {
			c.mu.Lock()
			c.favoredWaiters = append(c.favoredWaiters, cycle)
			c.mu.Unlock()
		}
		return
	}
	if cycle == nil {
		cycle = latch.New(1, c.notifier.PreloadingDone)
	}
	c.notifier.PreloadFavoriteSessions()

	endpoint := conf.CfpEndpoint()
	dispatch.Call(c.queue, func() ([]string, error) {
		ctx, cancel := c.callContext()
		defer cancel()
		return c.favorites.Fetch(ctx, endpoint, accountID)
	}, func(ids []string, err error) {
		c.guard.End(flight.FavoredSessions)
		defer c.releaseFavored(cycle)
		if !c.isCurrent(conf) || c.AccountID() != accountID {
			return
		}
		c.status.Record(flight.FavoredSessions.String(), err)
		if err != nil {
			c.logger.Warn("retrieve favored sessions failed", "function", "favored", "error", err)
			return
		}
		n := c.favorites.Populate(ids, c.FindSession)
		c.favorites.Attach(endpoint, accountID)
		c.mu.Lock()
		c.favoredLoaded = true
		c.mu.Unlock()
		c.logger.Info("favored sessions loaded", "conference_id", conf.ID, "count", n, "unresolved", len(ids)-n)
	})
}

// releaseFavored counts down the latch of a finished favored retrieval and
// of every session cycle that joined it.
func (c *Core) releaseFavored(cycle *latch.Latch) {
	c.mu.Lock()
	waiters := c.favoredWaiters
	c.favoredWaiters = nil
	c.mu.Unlock()
	cycle.CountDown()
	for _, l := range waiters {
		l.CountDown()
	}
}

// loadFavored starts a favored retrieval unless sessions are loading, in
// which case the session completion starts it once ids can be resolved.
func (c *Core) loadFavored(conf model.Conference) {
	if c.guard.InFlight(flight.Sessions) {
		c.logger.Debug("favored sessions deferred until sessions load", "conference_id", conf.ID)
		return
	}
	c.retrieveFavored(conf, nil)
}

// RetrieveFavoredSessions returns the favored sequence and loads it on first
// use. Adding or removing sessions favors or unfavors them on the backend.
func (c *Core) RetrieveFavoredSessions() (*observable.List[model.Session], error) {
	conf, _, err := c.personalScope()
	if err != nil {
		return nil, err
	}
	c.queue.Post(func() { c.loadFavored(conf) })
	return c.favorites.Favored(), nil
}

// ReloadFavoredSessions drops the favored sequence and loads it again.
func (c *Core) ReloadFavoredSessions() (*observable.List[model.Session], error) {
	conf, _, err := c.personalScope()
	if err != nil {
		return nil, err
	}
	c.queue.Post(func() {
		c.favorites.Reset()
		c.mu.Lock()
		c.favoredLoaded = false
		c.mu.Unlock()
		c.loadFavored(conf)
	})
	return c.favorites.Favored(), nil
}

// RetrieveNotes returns the note collection of the linked account.
func (c *Core) RetrieveNotes() (*store.Sequence[model.Note], error) {
	conf, accountID, err := c.personalScope()
	if err != nil {
		return nil, err
	}
	if c.store == nil {
		return nil, ErrNoStore
	}
	return c.openNotes(conf, accountID), nil
}

func (c *Core) openNotes(conf model.Conference, accountID string) *store.Sequence[model.Note] {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.notes == nil {
		c.notes = store.Read[model.Note](c.store, store.Key{Scope: accountID, Conference: conf.ID, Collection: "notes"}, c.mode)
	}
	return c.notes
}

// RetrieveBadges returns the attendee badge collection of the linked account.
func (c *Core) RetrieveBadges() (*store.Sequence[model.Badge], error) {
	conf, accountID, err := c.personalScope()
	if err != nil {
		return nil, err
	}
	if c.store == nil {
		return nil, ErrNoStore
	}
	if err := c.settings.Store(settings.BadgeType, badgeTypeAttendee); err != nil {
		c.logger.Warn("persist badge type failed", "error", err)
	}
	return c.openBadges(conf, accountID), nil
}

func (c *Core) openBadges(conf model.Conference, accountID string) *store.Sequence[model.Badge] {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.badges == nil {
		c.badges = store.Read[model.Badge](c.store, store.Key{Scope: accountID, Conference: conf.ID, Collection: "badges"}, c.mode)
	}
	return c.badges
}

// RetrieveSponsorBadges returns the badges scanned for the sponsor with slug.
// Switching sponsors closes the previous collection.
func (c *Core) RetrieveSponsorBadges(slug string) (*store.Sequence[model.SponsorBadge], error) {
	conf, accountID, err := c.personalScope()
	if err != nil {
		return nil, err
	}
	if c.store == nil {
		return nil, ErrNoStore
	}
	if err := c.settings.Store(settings.BadgeType, badgeTypeSponsor); err != nil {
		c.logger.Warn("persist badge type failed", "error", err)
	}
	if err := c.settings.Store(settings.BadgeSponsor, slug); err != nil {
		c.logger.Warn("persist badge sponsor failed", "error", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sponsorBadges != nil && c.badgeSponsor == slug {
		return c.sponsorBadges, nil
	}
	if c.sponsorBadges != nil {
		c.sponsorBadges.Close()
	}
	key := store.Key{Scope: accountID, Conference: conf.ID, Collection: slug + "_sponsor_badges"}
	c.sponsorBadges = store.Read[model.SponsorBadge](c.store, key, c.mode)
	c.badgeSponsor = slug
	return c.sponsorBadges, nil
}

// LogoutSponsor leaves sponsor badge mode.
func (c *Core) LogoutSponsor() {
	c.mu.Lock()
	seq := c.sponsorBadges
	c.sponsorBadges = nil
	c.badgeSponsor = ""
	c.mu.Unlock()
	if seq != nil {
		seq.Close()
	}
	if err := c.settings.Remove(settings.BadgeType, settings.BadgeSponsor); err != nil {
		c.logger.Warn("clear badge settings failed", "error", err)
	}
}

// personalScope returns the conference and account a personal collection is
// scoped to.
func (c *Core) personalScope() (model.Conference, string, error) {
	conf, ok := c.Conference()
	if !ok {
		return model.Conference{}, "", ErrNoConference
	}
	accountID := c.AccountID()
	if accountID == "" {
		return model.Conference{}, "", ErrNotAuthenticated
	}
	return conf, accountID, nil
}

// clearAccount drops the linkage and every personal collection. The next
// request for one starts a fresh load.
func (c *Core) clearAccount() {
	c.linker.Reset()
	c.favorites.Reset()

	c.mu.Lock()
	notes, badges, sponsorBadges := c.notes, c.badges, c.sponsorBadges
	c.notes, c.badges, c.sponsorBadges = nil, nil, nil
	c.badgeSponsor = ""
	c.favoredLoaded = false
	c.mu.Unlock()

	if notes != nil {
		notes.Close()
	}
	if badges != nil {
		badges.Close()
	}
	if sponsorBadges != nil {
		sponsorBadges.Close()
	}
	if err := c.settings.Remove(settings.SavedAccountID, settings.BadgeType, settings.BadgeSponsor); err != nil {
		c.logger.Warn("clear account settings failed", "error", err)
	}
}
