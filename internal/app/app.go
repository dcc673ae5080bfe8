package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/five82/lanyard/internal/account"
	"github.com/five82/lanyard/internal/config"
	"github.com/five82/lanyard/internal/core"
	"github.com/five82/lanyard/internal/dispatch"
	"github.com/five82/lanyard/internal/notify"
	"github.com/five82/lanyard/internal/remote"
	"github.com/five82/lanyard/internal/settings"
	"github.com/five82/lanyard/internal/state"
	"github.com/five82/lanyard/internal/store"
	"github.com/five82/lanyard/internal/ui"
)

// Options configure the lanyard application.
type Options struct {
	ConfigPath string
	// Conference opens this conference id; empty restores the saved one.
	Conference string
	// Headless loads once, prints a summary to Out and exits.
	Headless bool
	// RequestReload drops the reload marker for a running instance and exits.
	RequestReload bool
	// Login signs in with a self-issued identity for this email, overriding
	// the configured identity.
	Login string
	Out   io.Writer
}

// Run boots lanyard until the context is cancelled or the UI exits.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	if opts.RequestReload {
		stamp := time.Now().UTC().Format(time.RFC3339)
		if err := core.RequestReload(cfg.DataDir, []byte(stamp)); err != nil {
			return err
		}
		fmt.Fprintf(out, "reload requested in %s\n", cfg.DataDir)
		return nil
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	logger, closeLog, err := newLogger(cfg, opts.Headless)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	rt, err := start(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer rt.close()

	identity := cfg.Identity
	if opts.Login != "" {
		identity = config.NewIdentity(opts.Login)
	}
	rt.signIn(identity)
	rt.open(opts.Conference)

	if opts.Headless {
		rt.core.Wait()
		return writeSummary(out, rt.core)
	}

	poller, err := StartPoller(rt.core, cfg.ReloadCheck, cfg.FavoritesRefresh, logger.With("component", "poller"))
	if err != nil {
		return err
	}
	defer func() { <-poller.Stop().Done() }()

	themeName := cfg.Theme
	if saved, ok := rt.settings.Retrieve(settings.Theme); ok {
		themeName = saved
	}
	return ui.Run(ui.Options{
		Context:   ctx,
		Core:      rt.core,
		Settings:  rt.settings,
		LogPath:   cfg.LogPath(),
		ThemeName: themeName,
	})
}

// runtime holds the long-lived collaborators of one run.
type runtime struct {
	core     *core.Core
	store    *store.Store
	settings *settings.Settings
	logger   *slog.Logger
}

func start(ctx context.Context, cfg config.Config, logger *slog.Logger) (*runtime, error) {
	st := settings.Load(cfg.SettingsPath)
	ensureDeviceID(st, logger)

	gateway, err := newGateway(cfg)
	if err != nil {
		return nil, err
	}

	queue := dispatch.New(logger.With("component", "dispatch"))
	queue.Start(ctx)
	outbox := dispatch.New(logger.With("component", "outbox"))
	outbox.Start(ctx)

	storeOpts := store.Options{
		Path:    cfg.StorePath(),
		Runner:  queue,
		Logger:  logger.With("component", "store"),
		Timeout: cfg.RequestTimeout,
	}
	if cfg.RemoteNotes {
		storeOpts.Cloud = store.RemoteCloud{Gateway: gateway}
	}
	db, err := store.Open(storeOpts)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	c, err := core.New(core.Options{
		Gateway:      gateway,
		Store:        db,
		Settings:     st,
		Notifier:     notify.NewLogger(logger.With("component", "notify")),
		Queue:        queue,
		Outbox:       outbox,
		Status:       &state.Store{},
		StorageRoot:  cfg.DataDir,
		CloudNotes:   cfg.RemoteNotes,
		RatingOffset: cfg.RatingTestOffset,
		Timeout:      cfg.RequestTimeout,
		Logger:       logger.With("component", "core"),
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init core: %w", err)
	}
	return &runtime{core: c, store: db, settings: st, logger: logger}, nil
}

// open loads the catalogue and the requested or saved conference.
func (r *runtime) open(conferenceID string) {
	r.core.RetrieveConferences()
	if id := strings.TrimSpace(conferenceID); id != "" {
		r.core.RetrieveConference(id)
		return
	}
	if !r.core.RestoreSavedConference() {
		r.logger.Info("no saved conference")
	}
}

// signIn authenticates id when one is configured. Linkage completes once a
// conference is selected.
func (r *runtime) signIn(id config.Identity) {
	if !id.Configured() {
		return
	}
	err := r.core.Authenticate(account.Identity{
		NetworkID:   id.NetworkID,
		Name:        id.Name,
		Email:       id.Email,
		LoginMethod: account.LoginMethod(id.LoginMethod),
	}, func(accountID string) {
		r.logger.Info("account ready", "account_id", accountID)
	})
	if err != nil {
		r.logger.Warn("sign in failed", "email", id.Email, "error", err)
	}
}

func (r *runtime) close() {
	r.core.Wait()
	if err := r.store.Close(); err != nil {
		r.logger.Warn("close store failed", "error", err)
	}
}

func newGateway(cfg config.Config) (remote.Gateway, error) {
	if cfg.Fixtures != "" {
		f, err := remote.LoadFixtures(cfg.Fixtures)
		if err != nil {
			return nil, err
		}
		return f, nil
	}
	client, err := remote.NewClient(cfg.APIURL, cfg.RequestTimeout)
	if err != nil {
		return nil, fmt.Errorf("init remote client: %w", err)
	}
	return client, nil
}

// newLogger writes JSON records to the log file while the UI owns the
// terminal, and to stderr in headless mode.
func newLogger(cfg config.Config, headless bool) (*slog.Logger, func(), error) {
	handlerOpts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if headless {
		return slog.New(slog.NewJSONHandler(os.Stderr, handlerOpts)), func() {}, nil
	}
	file, err := os.OpenFile(cfg.LogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return slog.New(slog.NewJSONHandler(file, handlerOpts)), func() { _ = file.Close() }, nil
}

func ensureDeviceID(st *settings.Settings, logger *slog.Logger) {
	if id, ok := st.Retrieve(settings.DeviceID); ok && id != "" {
		return
	}
	if err := st.Store(settings.DeviceID, uuid.NewString()); err != nil {
		logger.Warn("persist device id failed", "error", err)
	}
}

func writeSummary(w io.Writer, c *core.Core) error {
	var b strings.Builder
	conf, ok := c.Conference()
	if !ok {
		fmt.Fprintf(&b, "conferences: %d\n", c.Conferences().Len())
		for _, cf := range c.Conferences().Items() {
			fmt.Fprintf(&b, "  %s  %s (%s to %s)\n", cf.ID, cf.Name, cf.FromDate, cf.EndDate)
		}
	} else {
		fmt.Fprintf(&b, "conference: %s (%s)\n", conf.Name, conf.ID)
		fmt.Fprintf(&b, "sessions: %d\n", c.Sessions().Len())
		fmt.Fprintf(&b, "speakers: %d\n", c.Speakers().Len())
		fmt.Fprintf(&b, "tracks: %d\n", c.Tracks().Len())
		fmt.Fprintf(&b, "session types: %d\n", c.SessionTypes().Len())
		fmt.Fprintf(&b, "floor maps: %d\n", c.ExhibitionMaps().Len())
		if id := c.AccountID(); id != "" {
			fmt.Fprintf(&b, "account: %s\n", id)
			fmt.Fprintf(&b, "favorites: %d\n", c.FavoredSessions().Len())
		}
	}
	if failing := c.Status().Snapshot().Failing(); len(failing) > 0 {
		fmt.Fprintf(&b, "failing: %s\n", strings.Join(failing, ", "))
	}
	_, err := io.WriteString(w, b.String())
	return err
}
