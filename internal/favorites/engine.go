// Package favorites keeps the user's favored sessions in sync with the
// backend and holds the conference-wide favorite counts.
//
// The favored sequence is the one view callers may mutate. After the
// authoritative list has been loaded and the listener attached, every element
// added to the sequence becomes one favoredAdd call and every element removed
// becomes one favoredRemove call. Calls go through an ordered outbound queue
// and are fire-and-forget: failures are logged and the local sequence is kept
// as the user left it.
package favorites

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/five82/lanyard/internal/dispatch"
	"github.com/five82/lanyard/internal/model"
	"github.com/five82/lanyard/internal/observable"
	"github.com/five82/lanyard/internal/remote"
)

const callTimeout = 15 * time.Second

// Engine owns the favored sequence and the favorite counts.
type Engine struct {
	gateway remote.Gateway
	outbox  *dispatch.Queue
	logger  *slog.Logger

	favored *observable.List[model.Session]
	counts  *observable.List[model.Favorite]

	mu       sync.Mutex
	cancel   func()
	endpoint string
	account  string
}

// New returns an engine whose outbound calls run on outbox. The caller runs
// outbox.
func New(gateway remote.Gateway, outbox *dispatch.Queue, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{
		gateway: gateway,
		outbox:  outbox,
		logger:  logger,
		favored: observable.NewList[model.Session](),
		counts:  observable.NewList[model.Favorite](),
	}
}

// Favored returns the user's favored sessions.
func (e *Engine) Favored() *observable.List[model.Session] { return e.favored }

// Counts returns the favorite counts.
func (e *Engine) Counts() *observable.List[model.Favorite] { return e.counts }

// Fetch retrieves the favored session ids for account. It blocks.
func (e *Engine) Fetch(ctx context.Context, endpoint, account string) ([]string, error) {
	fn := remote.Fn("favored").Param("0", endpoint).Param("1", account)
	favored, err := remote.Object[model.Favored](ctx, e.gateway, fn)
	if err != nil {
		return nil, err
	}
	return favored.IDs(), nil
}

// Populate resolves ids and loads the matches into the favored sequence.
// Unresolved ids are skipped. It must run before Attach so the bulk load is
// not replayed to the backend. It returns the number of sessions added.
func (e *Engine) Populate(ids []string, resolve func(id string) (model.Session, bool)) int {
	sessions := make([]model.Session, 0, len(ids))
	for _, id := range ids {
		if s, ok := resolve(id); ok {
			sessions = append(sessions, s)
		}
	}
	e.favored.SetAll(sessions)
	return len(sessions)
}

// Attach starts replaying favored mutations for account. A previous
// attachment is replaced.
func (e *Engine) Attach(endpoint, account string) {
	e.Detach()
	cancel := e.favored.Subscribe(e.onChange)
	e.mu.Lock()
	e.cancel = cancel
	e.endpoint = endpoint
	e.account = account
	e.mu.Unlock()
}

// Attached reports whether mutations are being replayed.
func (e *Engine) Attached() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cancel != nil
}

// Detach stops replaying mutations.
func (e *Engine) Detach() {
	e.mu.Lock()
	cancel := e.cancel
	e.cancel = nil
	e.endpoint, e.account = "", ""
	e.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Reset detaches and empties the favored sequence without backend calls.
func (e *Engine) Reset() {
	e.Detach()
	e.favored.Clear()
}

// Wait blocks until queued outbound calls have been sent.
func (e *Engine) Wait() {
	e.outbox.Wait()
}

func (e *Engine) onChange(change observable.Change[model.Session]) {
	e.mu.Lock()
	endpoint, account := e.endpoint, e.account
	e.mu.Unlock()
	if account == "" {
		return
	}
	for _, s := range change.Removed {
		e.send("favoredRemove", endpoint, account, s.TalkID())
	}
	for _, s := range change.Added {
		e.send("favoredAdd", endpoint, account, s.TalkID())
	}
}

func (e *Engine) send(name, endpoint, account, talkID string) {
	if talkID == "" {
		return
	}
	fn := remote.Fn(name).Param("0", endpoint).Param("1", account).Param("2", talkID)
	e.outbox.Post(func() {
		ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
		defer cancel()
		if err := e.gateway.Call(ctx, fn, nil); err != nil {
			e.logger.Warn("favorite sync failed", "function", name, "talk_id", talkID, "error", err)
			return
		}
		e.logger.Debug("favorite synced", "function", name, "talk_id", talkID)
	})
}

// FetchCounts retrieves the favorite counts of every session. It blocks.
func (e *Engine) FetchCounts(ctx context.Context, endpoint string) ([]model.Favorite, error) {
	favorites, err := remote.Object[model.Favorites](ctx, e.gateway, remote.Fn("allFavorites").Param("0", endpoint))
	if err != nil {
		return nil, err
	}
	return favorites.Favorites, nil
}

// MergeCounts updates known counts in place and appends unseen ids.
func (e *Engine) MergeCounts(list []model.Favorite) {
	index := make(map[string]int, e.counts.Len())
	for i, f := range e.counts.Items() {
		index[f.ID] = i
	}
	var unseen []model.Favorite
	for _, f := range list {
		i, ok := index[f.ID]
		if !ok {
			index[f.ID] = -1
			unseen = append(unseen, f)
			continue
		}
		if i < 0 {
			continue
		}
		if cur, _ := e.counts.At(i); cur.Favs != f.Favs {
			favs := f.Favs
			e.counts.Update(i, func(existing *model.Favorite) { existing.Favs = favs })
		}
	}
	e.counts.Add(unseen...)
}

// Count returns the favorite count of a session.
func (e *Engine) Count(talkID string) (int, bool) {
	f, _, ok := e.counts.Find(func(f model.Favorite) bool { return f.ID == talkID })
	return f.Favs, ok
}

// ClearCounts drops every favorite count.
func (e *Engine) ClearCounts() {
	e.counts.Clear()
}
