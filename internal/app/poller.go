package app

import (
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// pollTarget is the part of the core the scheduler drives.
type pollTarget interface {
	CheckReloadRequested() bool
	RefreshFavoriteCounts()
}

// StartPoller schedules the reload marker check and the favorite count
// refresh. Jobs that are still running when their next tick fires are
// skipped. The caller stops the returned scheduler.
func StartPoller(target pollTarget, reloadSpec, countsSpec string, logger *slog.Logger) (*cron.Cron, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	cl := cronLogger{logger: logger}
	c := cron.New(
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)

	if _, err := c.AddFunc(reloadSpec, func() {
		if target.CheckReloadRequested() {
			logger.Info("scheduled reload started")
		}
	}); err != nil {
		return nil, fmt.Errorf("schedule reload check %q: %w", reloadSpec, err)
	}
	if _, err := c.AddFunc(countsSpec, target.RefreshFavoriteCounts); err != nil {
		return nil, fmt.Errorf("schedule favorite refresh %q: %w", countsSpec, err)
	}

	c.Start()
	return c, nil
}

// cronLogger routes scheduler diagnostics to slog.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append(keysAndValues, "error", err)...)
}
