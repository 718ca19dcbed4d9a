// Package workspace wires the client components of one browser visitor
// and keeps a registry of live workspaces.
package workspace

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/utility-ordering-client/internal/catalog"
	"github.com/iliyamo/utility-ordering-client/internal/config"
	"github.com/iliyamo/utility-ordering-client/internal/gateway"
	"github.com/iliyamo/utility-ordering-client/internal/notify"
	"github.com/iliyamo/utility-ordering-client/internal/order"
	"github.com/iliyamo/utility-ordering-client/internal/queue"
	"github.com/iliyamo/utility-ordering-client/internal/quote"
	"github.com/iliyamo/utility-ordering-client/internal/session"
	"github.com/iliyamo/utility-ordering-client/internal/state"
	"github.com/iliyamo/utility-ordering-client/internal/view"
)

// Factory holds everything workspaces share.
type Factory struct {
	Gateway      gateway.Config
	Notify       config.NotifyConfig
	Publisher    queue.Publisher
	SingleFlight bool
	Location     *time.Location
	Log          *zap.SugaredLogger
}

// Workspace is the client state of one visitor: its own remote session
// (cookie jar), app state, notices and workflows.
type Workspace struct {
	ID string

	State   *state.AppState
	Notices *notify.Center
	Session *session.Manager
	Catalog *catalog.Catalog
	Quote   *quote.Engine
	Orders  *order.Workflow

	loc       *time.Location
	probeOnce sync.Once
	lastSeen  atomic.Int64
}

// New builds a workspace for visitor id.
func (f Factory) New(id string) (*Workspace, error) {
	log := f.Log.With("visitor", id)
	gw, err := gateway.New(f.Gateway, log)
	if err != nil {
		return nil, fmt.Errorf("workspace %s: %w", id, err)
	}
	st := state.New()
	center := notify.NewCenter(f.Notify, log)

	opts := []order.Option{order.WithSingleFlight(f.SingleFlight)}
	if f.Publisher != nil {
		opts = append(opts, order.WithPublisher(f.Publisher))
	}
	orders := order.New(gw, st, center, log, opts...)
	cat := catalog.New(gw, st, center, log)

	loc := f.Location
	if loc == nil {
		loc = time.Local
	}
	ws := &Workspace{
		ID:      id,
		State:   st,
		Notices: center,
		Session: session.NewManager(gw, st, center, orders, cat, log),
		Catalog: cat,
		Quote:   quote.New(gw, log),
		Orders:  orders,
		loc:     loc,
	}
	ws.Touch()
	return ws, nil
}

// Resolve runs the startup probe the first time it is called. Later calls
// return immediately.
func (w *Workspace) Resolve(ctx context.Context) {
	w.probeOnce.Do(func() { w.Session.Resolve(ctx) })
}

// View renders the current page model.
func (w *Workspace) View() view.Dashboard {
	return view.Build(w.State.Snapshot(), w.loc)
}

// Touch marks the workspace as used now.
func (w *Workspace) Touch() {
	w.lastSeen.Store(time.Now().UnixNano())
}

// LastSeen reports when the workspace was last used.
func (w *Workspace) LastSeen() time.Time {
	return time.Unix(0, w.lastSeen.Load())
}

// Close stops pending notice timers.
func (w *Workspace) Close() {
	w.Notices.Close()
}
