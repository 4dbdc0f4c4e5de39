package workspace

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/local/doccompare/internal/media"
	"github.com/local/doccompare/internal/metrics"
)

// Registry holds live workspaces by id.
type Registry struct {
	deps Deps

	mu    sync.RWMutex
	items map[string]*Workspace
}

// NewRegistry creates an empty registry.
func NewRegistry(deps Deps) *Registry {
	return &Registry{deps: deps, items: make(map[string]*Workspace)}
}

// Create opens a new workspace in mode.
func (r *Registry) Create(mode media.Mode) *Workspace {
	w := New(uuid.New().String(), mode, r.deps)
	r.mu.Lock()
	r.items[w.ID()] = w
	n := len(r.items)
	r.mu.Unlock()

	metrics.SetWorkspaces(n)
	log.Info().Str("workspace", w.ID()).Str("mode", string(mode)).Msg("workspace created")
	return w
}

// Get looks up a workspace.
func (r *Registry) Get(id string) (*Workspace, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.items[id]
	return w, ok
}

// Delete removes a workspace and cancels its loads.
func (r *Registry) Delete(id string) bool {
	r.mu.Lock()
	w, ok := r.items[id]
	delete(r.items, id)
	n := len(r.items)
	r.mu.Unlock()
	if !ok {
		return false
	}
	w.close()
	metrics.SetWorkspaces(n)
	return true
}

// Len returns the number of live workspaces.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

// Sweep removes workspaces idle for at least maxIdle and returns how many
// were evicted.
func (r *Registry) Sweep(maxIdle time.Duration) int {
	now := time.Now()
	var stale []*Workspace
	r.mu.Lock()
	for id, w := range r.items {
		if now.Sub(w.LastUsed()) >= maxIdle {
			stale = append(stale, w)
			delete(r.items, id)
		}
	}
	n := len(r.items)
	r.mu.Unlock()

	for _, w := range stale {
		w.close()
	}
	if len(stale) > 0 {
		metrics.SetWorkspaces(n)
		log.Info().Int("evicted", len(stale)).Int("remaining", n).Msg("idle workspaces swept")
	}
	return len(stale)
}

// RunSweeper calls Sweep every interval until ctx is done.
func (r *Registry) RunSweeper(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep(maxIdle)
		}
	}
}
