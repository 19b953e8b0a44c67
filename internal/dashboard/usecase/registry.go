package usecase

import (
	"sync"
	"time"

	"callboard/pkg/logger"
)

type registryEntry struct {
	view     *View
	lastSeen time.Time
}

// Registry keeps one View per signed-in session. Views live in memory only
// and are dropped on logout or after idleTTL without a visit.
type Registry struct {
	fetcher CallFetcher
	idleTTL time.Duration
	now     func() time.Time

	mu    sync.Mutex
	views map[string]*registryEntry
}

func NewRegistry(fetcher CallFetcher, idleTTL time.Duration) *Registry {
	return &Registry{
		fetcher: fetcher,
		idleTTL: idleTTL,
		now:     time.Now,
		views:   make(map[string]*registryEntry),
	}
}

// Get returns the view for sessionID, creating it when absent. The bearer
// is refreshed on every call so renewed session tokens are picked up.
// Other sessions' idle views are pruned on the way.
func (r *Registry) Get(sessionID, bearer string) *View {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if e, ok := r.views[sessionID]; ok {
		e.lastSeen = now
		e.view.SetBearer(bearer)
		r.pruneLocked(now)
		return e.view
	}

	r.pruneLocked(now)
	log := logger.WithComponent("dashboard").With().Str("session", sessionID).Logger()
	v := NewView(r.fetcher, bearer, log)
	r.views[sessionID] = &registryEntry{view: v, lastSeen: now}
	return v
}

// Discard drops the view for sessionID and cancels its pending fetch.
func (r *Registry) Discard(sessionID string) {
	r.mu.Lock()
	e, ok := r.views[sessionID]
	delete(r.views, sessionID)
	r.mu.Unlock()

	if ok {
		e.view.Close()
	}
}

// Len reports the number of live views.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.views)
}

func (r *Registry) pruneLocked(now time.Time) {
	if r.idleTTL <= 0 {
		return
	}
	for id, e := range r.views {
		if now.Sub(e.lastSeen) > r.idleTTL {
			e.view.Close()
			delete(r.views, id)
		}
	}
}
