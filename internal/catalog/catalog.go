// Package catalog caches the list of billable services and derives the
// catalog cards and the two service selectors from it.
package catalog

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/iliyamo/utility-ordering-client/internal/gateway"
	"github.com/iliyamo/utility-ordering-client/internal/metrics"
	"github.com/iliyamo/utility-ordering-client/internal/model"
	"github.com/iliyamo/utility-ordering-client/internal/notify"
	"github.com/iliyamo/utility-ordering-client/internal/state"
	"github.com/iliyamo/utility-ordering-client/internal/view"
)

// MsgLoadFailed is shown when the catalog cannot be refreshed.
const MsgLoadFailed = "Failed to load services"

// Catalog owns the services field group of the app state.
type Catalog struct {
	log    *zap.SugaredLogger
	api    gateway.Requester
	state  *state.AppState
	notify notify.Notifier
}

func New(api gateway.Requester, st *state.AppState, n notify.Notifier, log *zap.SugaredLogger) *Catalog {
	return &Catalog{log: log.Named("catalog"), api: api, state: st, notify: n}
}

// Load fetches /services/ and swaps the cached list. On failure the
// previous list is kept untouched.
func (c *Catalog) Load(ctx context.Context) {
	var services []model.Service
	err := c.api.Do(ctx, "/services/", gateway.Options{Method: http.MethodGet}, &services)
	metrics.WorkflowResults.WithLabelValues("catalog_load", metrics.Outcome(err)).Inc()
	if err != nil {
		c.log.Warnw("load services", "error", err)
		c.notify.Notify(MsgLoadFailed, notify.Error)
		return
	}
	c.state.ReplaceServices(services)
	c.log.Debugw("services loaded", "count", len(services))
}

// Lookup finds a service in the current snapshot.
func (c *Catalog) Lookup(id int64) (model.Service, bool) {
	for _, s := range c.state.Services() {
		if s.ID == id {
			return s, true
		}
	}
	return model.Service{}, false
}

// Cards projects the snapshot into catalog tiles.
func (c *Catalog) Cards() []view.ServiceCard {
	return view.ServiceCards(c.state.Services())
}

// CalculatorOptions and CheckoutOptions are built independently from the
// same snapshot.
func (c *Catalog) CalculatorOptions() []view.Option {
	return view.ServiceOptions(c.state.Services())
}

func (c *Catalog) CheckoutOptions() []view.Option {
	return view.ServiceOptions(c.state.Services())
}
