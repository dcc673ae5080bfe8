// Package account links an authenticated identity to the conference-scoped
// account id used for personal data.
//
// Self-issued identities use their own network id. Third-party identities
// are verified once through the backend's verifyAccount function. Either
// way the resulting id is saved in settings so later sessions skip the
// network entirely.
package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/five82/lanyard/internal/dispatch"
	"github.com/five82/lanyard/internal/remote"
	"github.com/five82/lanyard/internal/settings"
)

// LoginMethod is the provider that authenticated an identity.
type LoginMethod string

const (
	Custom    LoginMethod = "CUSTOM"
	Google    LoginMethod = "GOOGLE"
	GitHub    LoginMethod = "GITHUB"
	Twitter   LoginMethod = "TWITTER"
	Facebook  LoginMethod = "FACEBOOK"
	Microsoft LoginMethod = "MICROSOFT"
)

// SelfIssued reports whether the backend issued the identity itself.
func (m LoginMethod) SelfIssued() bool {
	return m == Custom
}

// Identity is an authenticated user.
type Identity struct {
	Key         string      `json:"key"`
	NetworkID   string      `json:"networkId"`
	Name        string      `json:"name,omitempty"`
	Email       string      `json:"email"`
	LoginMethod LoginMethod `json:"loginMethod"`
}

func (i Identity) String() string {
	return fmt.Sprintf("%s/%s", i.LoginMethod, i.NetworkID)
}

// State is the linkage state of the current identity.
type State int

const (
	NoLocalLinkage State = iota
	HasLocalLinkage
	Verifying
	Linked
	Failed
)

func (s State) String() string {
	switch s {
	case HasLocalLinkage:
		return "has_local_linkage"
	case Verifying:
		return "verifying"
	case Linked:
		return "linked"
	case Failed:
		return "failed"
	default:
		return "no_local_linkage"
	}
}

// ErrLinkFailed is returned by Link after a verification failure until Reset.
var ErrLinkFailed = errors.New("account verification failed")

// Settings is the subset of settings the linker persists through.
type Settings interface {
	Retrieve(key string) (string, bool)
	Store(key, value string) error
}

const verifyTimeout = 15 * time.Second

// Linker runs the linkage state machine. Verification completions are
// delivered on queue.
type Linker struct {
	gateway  remote.Gateway
	settings Settings
	queue    *dispatch.Queue
	logger   *slog.Logger

	mu        sync.Mutex
	state     State
	accountID string
	attempt   int
}

// New returns a linker in NoLocalLinkage.
func New(gateway remote.Gateway, st Settings, queue *dispatch.Queue, logger *slog.Logger) *Linker {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Linker{gateway: gateway, settings: st, queue: queue, logger: logger}
}

// State returns the current state.
func (l *Linker) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// AccountID returns the linked account id, or "".
func (l *Linker) AccountID() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != Linked {
		return ""
	}
	return l.accountID
}

// Link resolves id to an account id against the CFP endpoint. onLinked runs
// exactly once when the attempt reaches Linked: synchronously for cached and
// self-issued linkages, on the queue after a successful verification.
func (l *Linker) Link(id Identity, endpoint string, onLinked func(accountID string)) error {
	l.mu.Lock()
	switch l.state {
	case Failed:
		l.mu.Unlock()
		return ErrLinkFailed
	case Verifying:
		l.mu.Unlock()
		l.logger.Debug("account verification already running", "identity", id.String())
		return nil
	}

	if cached, ok := l.settings.Retrieve(settings.SavedAccountID); ok && strings.TrimSpace(cached) != "" {
		l.state = HasLocalLinkage
		l.mu.Unlock()
		l.logger.Info("account linkage restored from settings", "identity", id.String())
		l.linked(cached, l.currentAttempt(), onLinked)
		return nil
	}

	if id.LoginMethod.SelfIssued() {
		l.mu.Unlock()
		if strings.TrimSpace(id.NetworkID) == "" {
			return errors.New("self-issued identity has no network id")
		}
		l.persist(id.NetworkID)
		l.linked(id.NetworkID, l.currentAttempt(), onLinked)
		return nil
	}

	l.state = Verifying
	l.attempt++
	attempt := l.attempt
	l.mu.Unlock()

	fn := remote.Fn("verifyAccount").
		Param("0", endpoint).
		Param("1", id.NetworkID).
		Param("2", string(id.LoginMethod)).
		Param("3", id.Email)
	dispatch.Call(l.queue, func() (string, error) {
		ctx, cancel := context.WithTimeout(context.Background(), verifyTimeout)
		defer cancel()
		return remote.Object[string](ctx, l.gateway, fn)
	}, func(accountID string, err error) {
		if !l.current(attempt) {
			return
		}
		if err == nil && strings.TrimSpace(accountID) == "" {
			err = errors.New("empty account id")
		}
		if err != nil {
			l.mu.Lock()
			l.state = Failed
			l.mu.Unlock()
			l.logger.Warn("account verification failed", "identity", id.String(), "error", err)
			return
		}
		l.logger.Info("account verified", "identity", id.String())
		l.persist(accountID)
		l.linked(accountID, attempt, onLinked)
	})
	return nil
}

// Reset forgets the linkage and abandons any running verification.
func (l *Linker) Reset() {
	l.mu.Lock()
	l.state = NoLocalLinkage
	l.accountID = ""
	l.attempt++
	l.mu.Unlock()
}

func (l *Linker) linked(accountID string, attempt int, onLinked func(string)) {
	l.mu.Lock()
	if l.attempt != attempt {
		l.mu.Unlock()
		return
	}
	l.state = Linked
	l.accountID = accountID
	l.mu.Unlock()
	if onLinked != nil {
		onLinked(accountID)
	}
}

func (l *Linker) persist(accountID string) {
	if err := l.settings.Store(settings.SavedAccountID, accountID); err != nil {
		l.logger.Warn("persist account id failed", "error", err)
	}
}

func (l *Linker) currentAttempt() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.attempt
}

func (l *Linker) current(attempt int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.attempt == attempt
}
