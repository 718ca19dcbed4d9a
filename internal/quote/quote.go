// Package quote requests cost calculations. Results and failures are only
// ever shown in the calculator panel; no notice is emitted.
package quote

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/iliyamo/utility-ordering-client/internal/gateway"
	"github.com/iliyamo/utility-ordering-client/internal/metrics"
	"github.com/iliyamo/utility-ordering-client/internal/model"
	"github.com/iliyamo/utility-ordering-client/internal/view"
)

// Engine holds the calculator panel of one workspace.
type Engine struct {
	log *zap.SugaredLogger
	api gateway.Requester

	mu    sync.Mutex
	panel *view.Panel
}

func New(api gateway.Requester, log *zap.SugaredLogger) *Engine {
	return &Engine{log: log.Named("quote"), api: api}
}

// Calculate asks the API for the cost of quantity units of serviceID and
// replaces the panel with the outcome.
func (e *Engine) Calculate(ctx context.Context, serviceID, quantity string) (view.Panel, error) {
	q := url.Values{}
	q.Set("service_id", strings.TrimSpace(serviceID))
	q.Set("quantity", strings.TrimSpace(quantity))

	var res model.Quote
	err := e.api.Do(ctx, "/services/calculate_cost/", gateway.Options{Method: http.MethodGet, Query: q}, &res)
	metrics.WorkflowResults.WithLabelValues("quote", metrics.Outcome(err)).Inc()

	var panel view.Panel
	if err != nil {
		e.log.Debugw("quote rejected", "service_id", serviceID, "quantity", quantity, "error", err)
		panel = view.ErrorPanel(gateway.Message(err))
	} else {
		panel = view.QuotePanel(res)
	}

	e.mu.Lock()
	e.panel = &panel
	e.mu.Unlock()
	return panel, err
}

// Panel returns the last calculation result, if any.
func (e *Engine) Panel() (view.Panel, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.panel == nil {
		return view.Panel{}, false
	}
	return *e.panel, true
}
