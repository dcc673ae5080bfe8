package core

import (
	"strconv"
	"strings"
	"time"

	"github.com/five82/lanyard/internal/dispatch"
	"github.com/five82/lanyard/internal/model"
	"github.com/five82/lanyard/internal/observable"
	"github.com/five82/lanyard/internal/remote"
)

// Sponsors returns the sponsor view.
func (c *Core) Sponsors() *observable.List[model.Sponsor] { return c.sponsors }

// RetrieveSponsors refreshes the sponsor view of the selected conference.
func (c *Core) RetrieveSponsors() error {
	conf, ok := c.Conference()
	if !ok {
		return ErrNoConference
	}
	c.retrieveSponsors(conf)
	return nil
}

func (c *Core) retrieveSponsors(conf model.Conference) {
	dispatch.Call(c.queue, func() ([]model.Sponsor, error) {
		ctx, cancel := c.callContext()
		defer cancel()
		return remote.List[model.Sponsor](ctx, c.gateway, remote.Fn("sponsors").Param("conferenceId", conf.ID))
	}, func(sponsors []model.Sponsor, err error) {
		c.status.Record("sponsors", err)
		if err != nil {
			c.logger.Warn("retrieve sponsors failed", "function", "sponsors", "conference_id", conf.ID, "error", err)
			return
		}
		if c.isCurrent(conf) {
			c.sponsors.SetAll(sponsors)
		}
	})
}

// SaveSponsorBadge sends a badge scanned at a sponsor booth to the backend,
// stamped with the current instant. done receives the outcome on the
// dispatch goroutine.
func (c *Core) SaveSponsorBadge(b model.SponsorBadge, done func(error)) error {
	if _, ok := c.Conference(); !ok {
		return ErrNoConference
	}
	fn := remote.Fn("saveSponsorBadge").
		Param("0", b.SponsorSlug).
		Param("1", b.BadgeID).
		Param("2", b.FirstName).
		Param("3", b.LastName).
		Param("4", b.Company).
		Param("5", b.Email).
		Param("6", b.Details).
		Param("7", c.now().UTC().Format(time.RFC3339))
	c.send(fn, done)
	return nil
}

// ValidateSponsor asks the backend to accept the sponsor login of this
// device. done receives the backend's answer.
func (c *Core) ValidateSponsor(done func(string, error)) {
	dispatch.Call(c.queue, func() (string, error) {
		ctx, cancel := c.callContext()
		defer cancel()
		return remote.Object[string](ctx, c.gateway, remote.Fn("validateSponsor"))
	}, func(answer string, err error) {
		if err != nil {
			c.logger.Warn("validate sponsor failed", "function", "validateSponsor", "error", err)
		}
		if done != nil {
			done(answer, err)
		}
	})
}

// RetrieveLocation fetches the venue of the selected conference.
func (c *Core) RetrieveLocation(done func(model.Location, error)) error {
	conf, ok := c.Conference()
	if !ok {
		return ErrNoConference
	}
	if conf.LocationID == 0 {
		return ErrNoLocation
	}
	fn := remote.Fn("location").Param("locationId", strconv.FormatInt(conf.LocationID, 10))
	dispatch.Call(c.queue, func() (model.Location, error) {
		ctx, cancel := c.callContext()
		defer cancel()
		return remote.Object[model.Location](ctx, c.gateway, fn)
	}, func(loc model.Location, err error) {
		if err != nil {
			c.logger.Warn("retrieve location failed", "function", "location", "location_id", conf.LocationID, "error", err)
		}
		if done != nil {
			done(loc, err)
		}
	})
	return nil
}

// VoteTalk submits a talk rating. It needs a signed-in identity with an
// email address.
func (c *Core) VoteTalk(v model.Vote, done func(error)) error {
	conf, ok := c.Conference()
	if !ok {
		return ErrNoConference
	}
	c.mu.RLock()
	id := c.identity
	c.mu.RUnlock()
	if id == nil {
		return ErrNotAuthenticated
	}
	if strings.TrimSpace(id.Email) == "" {
		return ErrEmailRequired
	}
	fn := remote.Fn("voteTalk").
		Param("0", conf.CfpEndpoint()).
		Param("1", strconv.Itoa(v.Value)).
		Param("2", id.Email).
		Param("3", v.TalkID).
		Param("4", v.Delivery).
		Param("5", v.Content).
		Param("6", v.Other)
	c.send(fn, done)
	return nil
}

// RetrieveVoteTexts fetches the canned answers offered for rating.
func (c *Core) RetrieveVoteTexts(rating int, done func([]string, error)) {
	dispatch.Call(c.queue, func() ([]model.RatingQuestion, error) {
		ctx, cancel := c.callContext()
		defer cancel()
		return remote.List[model.RatingQuestion](ctx, c.gateway, remote.Fn("voteTexts"))
	}, func(questions []model.RatingQuestion, err error) {
		if err != nil {
			c.logger.Warn("retrieve vote texts failed", "function", "voteTexts", "error", err)
			if done != nil {
				done(nil, err)
			}
			return
		}
		var answers []string
		for _, q := range questions {
			if q.Rating == rating {
				answers = append(answers, q.Answers...)
			}
		}
		if done != nil {
			done(answers, nil)
		}
	})
}

// SendFeedback sends a message to the organizers.
func (c *Core) SendFeedback(f model.Feedback, done func(error)) error {
	if strings.TrimSpace(f.Email) == "" {
		return ErrEmailRequired
	}
	fn := remote.Fn("sendFeedback").
		Param("name", f.Name).
		Param("email", f.Email).
		Param("message", f.Message)
	c.send(fn, done)
	return nil
}

// send runs a call whose result carries no data.
func (c *Core) send(fn remote.Function, done func(error)) {
	dispatch.Call(c.queue, func() (struct{}, error) {
		ctx, cancel := c.callContext()
		defer cancel()
		return struct{}{}, c.gateway.Call(ctx, fn, nil)
	}, func(_ struct{}, err error) {
		if err != nil {
			c.logger.Warn("remote call failed", "function", fn.Name, "error", err)
		}
		if done != nil {
			done(err)
		}
	})
}
