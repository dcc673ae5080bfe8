// Package notify receives the core's notification signals. Delivery to the
// platform is outside lanyard; this implementation logs the signals and
// remembers the rating reminders it was asked to schedule.
package notify

import (
	"log/slog"
	"sync"

	"github.com/five82/lanyard/internal/model"
)

// Logger is a notification collaborator backed by slog.
type Logger struct {
	logger *slog.Logger

	mu         sync.Mutex
	preloading bool
	ratings    []string
}

// NewLogger returns a Logger writing to logger.
func NewLogger(logger *slog.Logger) *Logger {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Logger{logger: logger}
}

// PreloadRatingNotifications is called before an unauthenticated session fetch.
func (l *Logger) PreloadRatingNotifications() {
	l.setPreloading(true)
	l.logger.Debug("preloading rating notifications")
}

// PreloadFavoriteSessions is called when favored-session retrieval starts.
func (l *Logger) PreloadFavoriteSessions() {
	l.setPreloading(true)
	l.logger.Debug("preloading favorite session notifications")
}

// PreloadingDone is called once sessions and favorites have both completed.
func (l *Logger) PreloadingDone() {
	l.setPreloading(false)
	l.logger.Info("notification preloading done")
}

// AddRatingNotification schedules the end-of-conference rating reminder.
func (l *Logger) AddRatingNotification(conf model.Conference) {
	l.mu.Lock()
	l.ratings = append(l.ratings, conf.ID)
	l.mu.Unlock()
	l.logger.Info("rating notification scheduled", "conference_id", conf.ID, "conference", conf.Name)
}

// Preloading reports whether a preload cycle is running.
func (l *Logger) Preloading() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.preloading
}

// RatingNotifications returns the conference ids with a scheduled reminder.
func (l *Logger) RatingNotifications() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.ratings...)
}

func (l *Logger) setPreloading(v bool) {
	l.mu.Lock()
	l.preloading = v
	l.mu.Unlock()
}
