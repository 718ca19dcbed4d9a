// Package order implements checkout, the order history and tracking. A
// checkout failure is shown twice: in the checkout panel and as a notice.
package order

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/utility-ordering-client/internal/gateway"
	"github.com/iliyamo/utility-ordering-client/internal/metrics"
	"github.com/iliyamo/utility-ordering-client/internal/model"
	"github.com/iliyamo/utility-ordering-client/internal/notify"
	"github.com/iliyamo/utility-ordering-client/internal/queue"
	"github.com/iliyamo/utility-ordering-client/internal/state"
	"github.com/iliyamo/utility-ordering-client/internal/view"
)

const (
	MsgOrderCreated    = "Order created successfully!"
	MsgLoadFailed      = "Failed to load orders"
	MsgCheckoutPending = "A checkout is already in progress"
)

const publishTimeout = 5 * time.Second

// Result is what a checkout leaves on the page.
type Result struct {
	Panel     view.Panel `json:"panel"`
	ResetForm bool       `json:"reset_form"`
}

// Workflow owns the orders field group of the app state and the checkout
// panel.
type Workflow struct {
	log       *zap.SugaredLogger
	api       gateway.Requester
	state     *state.AppState
	notify    notify.Notifier
	publisher queue.Publisher

	singleFlight bool
	inFlight     atomic.Bool

	mu    sync.Mutex
	panel *view.Panel
}

// Option configures a Workflow.
type Option func(*Workflow)

// WithPublisher emits order.placed after every accepted checkout.
func WithPublisher(p queue.Publisher) Option {
	return func(w *Workflow) { w.publisher = p }
}

// WithSingleFlight rejects a checkout while another one is still running.
func WithSingleFlight(on bool) Option {
	return func(w *Workflow) { w.singleFlight = on }
}

func New(api gateway.Requester, st *state.AppState, n notify.Notifier, log *zap.SugaredLogger, opts ...Option) *Workflow {
	w := &Workflow{log: log.Named("order"), api: api, state: st, notify: n, singleFlight: true}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Checkout submits req, renders the confirmation and reloads the history,
// strictly in that order.
func (w *Workflow) Checkout(ctx context.Context, req model.CheckoutRequest) (Result, error) {
	if w.singleFlight {
		if !w.inFlight.CompareAndSwap(false, true) {
			metrics.WorkflowResults.WithLabelValues("checkout", "precondition").Inc()
			return Result{}, gateway.Precondition(MsgCheckoutPending)
		}
		defer w.inFlight.Store(false)
	}

	var resp model.CheckoutResponse
	err := w.api.Do(ctx, "/orders/checkout/", gateway.Options{Method: http.MethodPost, Body: req}, &resp)
	metrics.WorkflowResults.WithLabelValues("checkout", metrics.Outcome(err)).Inc()
	if err != nil {
		msg := gateway.Message(err)
		w.log.Infow("checkout rejected", "service_id", req.ServiceID, "error", err)
		panel := view.ErrorPanel(msg)
		w.setPanel(panel)
		w.notify.Notify(msg, notify.Error)
		return Result{Panel: panel}, err
	}

	w.notify.Notify(MsgOrderCreated, notify.Success)
	panel := view.OrderPanel(resp.Order)
	w.setPanel(panel)
	w.log.Infow("order placed", "order_id", resp.Order.ID, "total", resp.Order.TotalCost.String())

	w.Load(ctx)
	w.publish(ctx, resp.Order)
	return Result{Panel: panel, ResetForm: true}, nil
}

// Load replaces the order history. On failure the previous list is kept.
func (w *Workflow) Load(ctx context.Context) {
	var orders []model.Order
	err := w.api.Do(ctx, "/orders/", gateway.Options{Method: http.MethodGet}, &orders)
	metrics.WorkflowResults.WithLabelValues("orders_load", metrics.Outcome(err)).Inc()
	if err != nil {
		w.log.Warnw("load orders", "error", err)
		w.notify.Notify(MsgLoadFailed, notify.Error)
		return
	}
	w.state.ReplaceOrders(orders)
}

// Track fetches the delivery progress of one order.
func (w *Workflow) Track(ctx context.Context, orderID int64) (view.Panel, error) {
	var tr model.OrderTracking
	err := w.api.Do(ctx, fmt.Sprintf("/orders/%d/track/", orderID), gateway.Options{Method: http.MethodGet}, &tr)
	metrics.WorkflowResults.WithLabelValues("track", metrics.Outcome(err)).Inc()
	if err != nil {
		msg := gateway.Message(err)
		w.notify.Notify(msg, notify.Error)
		return view.ErrorPanel(msg), err
	}
	return view.TrackingPanel(tr), nil
}

// Panel returns the last checkout result, if any.
func (w *Workflow) Panel() (view.Panel, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.panel == nil {
		return view.Panel{}, false
	}
	return *w.panel, true
}

func (w *Workflow) setPanel(p view.Panel) {
	w.mu.Lock()
	w.panel = &p
	w.mu.Unlock()
}

func (w *Workflow) publish(ctx context.Context, o model.Order) {
	if w.publisher == nil {
		return
	}
	user, _ := w.state.User()
	currency := o.Currency
	if currency == "" {
		currency = view.DefaultCurrency
	}
	placed := o.CreatedAt
	if placed.IsZero() {
		placed = time.Now()
	}
	ev := queue.OrderPlacedEvent{
		OrderID:     o.ID,
		UserID:      user.ID,
		Username:    user.Username,
		ServiceID:   o.Service.ID,
		ServiceType: o.Service.ServiceType,
		ServiceName: o.Service.NameEN,
		Quantity:    o.Quantity.String(),
		Unit:        o.Service.UnitName,
		TotalCost:   o.TotalCost.StringFixed(2),
		Currency:    currency,
		Payment:     o.PaymentMethod,
		Status:      o.Status,
		PlacedAt:    placed.UTC().Format(time.RFC3339),
	}
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := w.publisher.PublishOrderPlaced(pctx, ev); err != nil {
		w.log.Warnw("order event not published", "order_id", o.ID, "error", err)
	}
}
