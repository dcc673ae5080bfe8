package core

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/five82/lanyard/internal/account"
	"github.com/five82/lanyard/internal/dispatch"
	"github.com/five82/lanyard/internal/favorites"
	"github.com/five82/lanyard/internal/flight"
	"github.com/five82/lanyard/internal/latch"
	"github.com/five82/lanyard/internal/model"
	"github.com/five82/lanyard/internal/observable"
	"github.com/five82/lanyard/internal/remote"
	"github.com/five82/lanyard/internal/state"
	"github.com/five82/lanyard/internal/store"
)

// Notifier receives notification preload signals.
type Notifier interface {
	PreloadRatingNotifications()
	PreloadFavoriteSessions()
	PreloadingDone()
	AddRatingNotification(conf model.Conference)
}

// Settings is the key/value collaborator. *settings.Settings satisfies it.
type Settings interface {
	Retrieve(key string) (string, bool)
	Store(key, value string) error
	Remove(keys ...string) error
	ContainsCSV(key, value string) bool
	AddCSV(key, value string) error
}

// Options configure New.
type Options struct {
	Gateway  remote.Gateway
	Store    *store.Store
	Settings Settings
	Notifier Notifier
	Queue    *dispatch.Queue // owns view mutations and completions
	Outbox   *dispatch.Queue // runs favorite sync calls in order
	Status   *state.Store

	// StorageRoot is the directory watched for the reload marker.
	StorageRoot string
	// CloudNotes stores personal collections in CloudFirst mode.
	CloudNotes bool
	// RatingOffset shifts the rating dialog threshold earlier, for testing
	// the dialog outside conference hours.
	RatingOffset time.Duration
	// Timeout bounds each remote call; zero uses the default.
	Timeout time.Duration
	Now     func() time.Time
	Logger  *slog.Logger
}

const defaultTimeout = 20 * time.Second

// Core is the conference data core.
type Core struct {
	gateway      remote.Gateway
	store        *store.Store
	settings     Settings
	notifier     Notifier
	queue        *dispatch.Queue
	status       *state.Store
	logger       *slog.Logger
	root         string
	mode         store.Mode
	ratingOffset time.Duration
	timeout      time.Duration
	now          func() time.Time

	guard        flight.Guard
	speakerGuard flight.Keyed
	linker       *account.Linker
	favorites    *favorites.Engine

	conferences  *observable.List[model.Conference]
	sessions     *observable.List[model.Session]
	speakers     *observable.List[model.Speaker]
	tracks       *observable.List[model.Track]
	sessionTypes *observable.List[model.SessionType]
	floors       *observable.List[model.Floor]
	sponsors     *observable.List[model.Sponsor]

	mu            sync.RWMutex
	conference    *model.Conference
	identity      *account.Identity
	onLinked      func(accountID string)
	favoredLoaded bool
	notes         *store.Sequence[model.Note]
	badges        *store.Sequence[model.Badge]
	sponsorBadges *store.Sequence[model.SponsorBadge]
	badgeSponsor  string

	// session-cycle latches joined to the running favored retrieval
	favoredWaiters []*latch.Latch
}

// New wires a core. Gateway, Settings, Queue and Outbox are required.
func New(opts Options) (*Core, error) {
	if opts.Gateway == nil || opts.Settings == nil || opts.Queue == nil || opts.Outbox == nil {
		return nil, errors.New("core: gateway, settings, queue and outbox are required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = nopNotifier{}
	}
	status := opts.Status
	if status == nil {
		status = &state.Store{}
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	mode := store.LocalOnly
	if opts.CloudNotes {
		mode = store.CloudFirst
	}

	return &Core{
		gateway:      opts.Gateway,
		store:        opts.Store,
		settings:     opts.Settings,
		notifier:     notifier,
		queue:        opts.Queue,
		status:       status,
		logger:       logger,
		root:         opts.StorageRoot,
		mode:         mode,
		ratingOffset: opts.RatingOffset,
		timeout:      timeout,
		now:          now,
		linker:       account.New(opts.Gateway, opts.Settings, opts.Queue, logger.With("component", "account")),
		favorites:    favorites.New(opts.Gateway, opts.Outbox, logger.With("component", "favorites")),
		conferences:  observable.NewList[model.Conference](),
		sessions:     observable.NewList[model.Session](),
		speakers:     observable.NewList[model.Speaker](),
		tracks:       observable.NewList[model.Track](),
		sessionTypes: observable.NewList[model.SessionType](),
		floors:       observable.NewList[model.Floor](),
		sponsors:     observable.NewList[model.Sponsor](),
	}, nil
}

// Conference returns the selected conference.
func (c *Core) Conference() (model.Conference, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.conference == nil {
		return model.Conference{}, false
	}
	return *c.conference, true
}

// Conferences returns the conference catalogue view.
func (c *Core) Conferences() *observable.List[model.Conference] { return c.conferences }

// Sessions returns the live session view.
func (c *Core) Sessions() *observable.List[model.Session] { return c.sessions }

// Speakers returns the live speaker view.
func (c *Core) Speakers() *observable.List[model.Speaker] { return c.speakers }

// Tracks returns the live track view.
func (c *Core) Tracks() *observable.List[model.Track] { return c.tracks }

// SessionTypes returns the live session type view.
func (c *Core) SessionTypes() *observable.List[model.SessionType] { return c.sessionTypes }

// ExhibitionMaps returns the live floor map view.
func (c *Core) ExhibitionMaps() *observable.List[model.Floor] { return c.floors }

// Favorites returns the favorite counts view.
func (c *Core) Favorites() *observable.List[model.Favorite] { return c.favorites.Counts() }

// FavoredSessions returns the favored sequence without loading it.
func (c *Core) FavoredSessions() *observable.List[model.Session] { return c.favorites.Favored() }

// FavoriteCount returns the global favorite count of a talk.
func (c *Core) FavoriteCount(talkID string) (int, bool) { return c.favorites.Count(talkID) }

// Status returns the fetch status store.
func (c *Core) Status() *state.Store { return c.status }

// InFlight reports whether a fetch of kind is running.
func (c *Core) InFlight(kind flight.Kind) bool { return c.guard.InFlight(kind) }

// Wait blocks until queued work, background fetches and favorite sync calls
// have all finished.
func (c *Core) Wait() {
	c.queue.Wait()
	c.favorites.Wait()
}

func (c *Core) callContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), c.timeout)
}

// isCurrent reports whether conf is still the selected conference.
func (c *Core) isCurrent(conf model.Conference) bool {
	cur, ok := c.Conference()
	return ok && cur.ID == conf.ID && cur.CfpVersion == conf.CfpVersion
}

type nopNotifier struct{}

func (nopNotifier) PreloadRatingNotifications() {}
func (nopNotifier) PreloadFavoriteSessions() {}
func (nopNotifier) PreloadingDone() {}
func (nopNotifier) AddRatingNotification(model.Conference) {}
