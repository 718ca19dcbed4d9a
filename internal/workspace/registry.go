package workspace

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Registry maps visitor ids to workspaces and evicts idle ones.
type Registry struct {
	factory Factory
	ttl     time.Duration
	log     *zap.SugaredLogger

	mu     sync.Mutex
	spaces map[string]*Workspace
}

func NewRegistry(f Factory, ttl time.Duration) *Registry {
	return &Registry{
		factory: f,
		ttl:     ttl,
		log:     f.Log.Named("workspaces"),
		spaces:  make(map[string]*Workspace),
	}
}

// Get returns the workspace of visitor id, creating it on first use.
func (r *Registry) Get(id string) (*Workspace, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ws, ok := r.spaces[id]; ok {
		ws.Touch()
		return ws, nil
	}
	ws, err := r.factory.New(id)
	if err != nil {
		return nil, err
	}
	r.spaces[id] = ws
	r.log.Debugw("workspace created", "visitor", id, "live", len(r.spaces))
	return ws, nil
}

// Len reports the number of live workspaces.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.spaces)
}

// Sweep drops workspaces idle for longer than the TTL and returns how many
// were removed.
func (r *Registry) Sweep(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, ws := range r.spaces {
		if now.Sub(ws.LastSeen()) > r.ttl {
			ws.Close()
			delete(r.spaces, id)
			n++
		}
	}
	if n > 0 {
		r.log.Infow("idle workspaces evicted", "count", n, "live", len(r.spaces))
	}
	return n
}

// Run sweeps every interval until ctx is done, then closes every workspace.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			r.closeAll()
			return
		case now := <-t.C:
			r.Sweep(now)
		}
	}
}

func (r *Registry) closeAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, ws := range r.spaces {
		ws.Close()
		delete(r.spaces, id)
	}
}
