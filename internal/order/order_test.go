package order

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iliyamo/utility-ordering-client/internal/gateway"
	"github.com/iliyamo/utility-ordering-client/internal/gateway/gatewaymock"
	"github.com/iliyamo/utility-ordering-client/internal/model"
	"github.com/iliyamo/utility-ordering-client/internal/notify"
	"github.com/iliyamo/utility-ordering-client/internal/queue"
	"github.com/iliyamo/utility-ordering-client/internal/state"
	"github.com/iliyamo/utility-ordering-client/internal/view"
)

const checkoutBody = `{"message":"Order created successfully","order":{
	"id":7,"service":{"id":3,"service_type":"water","name_en":"Water","name_ar":"ماء","price_per_unit":"500.00","unit_name":"m3"},
	"quantity":"10.00","location":"Baghdad","payment_method":"cash",
	"service_cost":"5000.00","delivery_cost":"250.00","total_cost":"5250.00",
	"status":"pending","created_at":"2025-03-01T13:15:00Z"}}`

const ordersBody = `[{"id":7,"service":{"id":3,"name_en":"Water","unit_name":"m3"},"quantity":"10.00","total_cost":"5250.00","status":"pending","created_at":"2025-03-01T13:15:00Z"}]`

type fakePublisher struct {
	mu     sync.Mutex
	events []queue.OrderPlacedEvent
	err    error
}

func (p *fakePublisher) PublishOrderPlaced(_ context.Context, ev queue.OrderPlacedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func newWorkflow(opts ...Option) (*Workflow, *gatewaymock.Requester, *state.AppState, *notify.Recorder) {
	api := &gatewaymock.Requester{}
	st := state.New()
	st.SetUser(model.User{ID: 1, Username: "alice"})
	rec := &notify.Recorder{}
	return New(api, st, rec, zap.NewNop().Sugar(), opts...), api, st, rec
}

func sampleRequest(t *testing.T) model.CheckoutRequest {
	req, err := CheckoutForm{
		ServiceID: "3", Quantity: "10", Location: "Baghdad", PaymentMethod: "cash",
		DeliveryCost: "250", EstimatedDeliveryTime: "60",
	}.Request()
	require.NoError(t, err)
	return req
}

func TestCheckoutSuccess(t *testing.T) {
	pub := &fakePublisher{}
	w, api, st, rec := newWorkflow(WithPublisher(pub))
	var calls []string
	api.On("Do", mock.Anything, "/orders/checkout/", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			calls = append(calls, "checkout")
			gatewaymock.Respond(checkoutBody)(args)
		}).Return(nil).Once()
	api.On("Do", mock.Anything, "/orders/", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			calls = append(calls, "orders")
			gatewaymock.Respond(ordersBody)(args)
		}).Return(nil).Once()

	res, err := w.Checkout(context.Background(), sampleRequest(t))

	require.NoError(t, err)
	assert.True(t, res.ResetForm)
	assert.Equal(t, "Order Created! 🎉", res.Panel.Title)
	assert.Equal(t, model.OrderPending, res.Panel.Status)
	assert.Contains(t, res.Panel.Text(), "Quantity: 10 m3")
	assert.Contains(t, res.Panel.Text(), "Total: IQD 5,250.00")
	assert.Equal(t, []string{"checkout", "orders"}, calls)
	assert.Equal(t, []notify.Recorded{{Message: MsgOrderCreated, Severity: notify.Success}}, rec.All())
	require.Len(t, st.Orders(), 1)

	panel, ok := w.Panel()
	require.True(t, ok)
	assert.Equal(t, res.Panel, panel)

	require.Len(t, pub.events, 1)
	ev := pub.events[0]
	assert.Equal(t, int64(7), ev.OrderID)
	assert.Equal(t, "alice", ev.Username)
	assert.Equal(t, "5250.00", ev.TotalCost)
	assert.Equal(t, "IQD", ev.Currency)
	assert.Equal(t, "2025-03-01T13:15:00Z", ev.PlacedAt)
	api.AssertExpectations(t)
}

func TestCheckoutNonFieldErrorSurfacesTwice(t *testing.T) {
	w, api, st, rec := newWorkflow()
	st.ReplaceOrders([]model.Order{{ID: 1}})
	api.On("Do", mock.Anything, "/orders/checkout/", mock.Anything, mock.Anything).
		Return(&gateway.Error{Kind: gateway.KindGeneral, Status: 400, Message: "Insufficient balance"})

	res, err := w.Checkout(context.Background(), sampleRequest(t))

	require.Error(t, err)
	assert.Equal(t, view.ErrorPanel("Insufficient balance"), res.Panel)
	assert.False(t, res.ResetForm)
	assert.Equal(t, []notify.Recorded{{Message: "Insufficient balance", Severity: notify.Error}}, rec.All())
	assert.Len(t, st.Orders(), 1)
	api.AssertNotCalled(t, "Do", mock.Anything, "/orders/", mock.Anything, mock.Anything)
}

func TestCheckoutPublishFailureIsNotSurfaced(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	w, api, _, rec := newWorkflow(WithPublisher(pub))
	api.On("Do", mock.Anything, "/orders/checkout/", mock.Anything, mock.Anything).
		Run(gatewaymock.Respond(checkoutBody)).Return(nil)
	api.On("Do", mock.Anything, "/orders/", mock.Anything, mock.Anything).
		Run(gatewaymock.Respond(ordersBody)).Return(nil)

	_, err := w.Checkout(context.Background(), sampleRequest(t))

	require.NoError(t, err)
	assert.Len(t, rec.All(), 1)
	assert.Len(t, pub.events, 1)
}

func TestCheckoutRejectsConcurrentSubmit(t *testing.T) {
	w, api, _, _ := newWorkflow(WithSingleFlight(true))
	started := make(chan struct{})
	release := make(chan struct{})
	api.On("Do", mock.Anything, "/orders/checkout/", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			close(started)
			<-release
			gatewaymock.Respond(checkoutBody)(args)
		}).Return(nil).Once()
	api.On("Do", mock.Anything, "/orders/", mock.Anything, mock.Anything).
		Run(gatewaymock.Respond(ordersBody)).Return(nil)

	req := sampleRequest(t)
	done := make(chan error, 1)
	go func() {
		_, err := w.Checkout(context.Background(), req)
		done <- err
	}()
	<-started

	_, err := w.Checkout(context.Background(), req)
	require.Error(t, err)
	assert.True(t, gateway.IsKind(err, gateway.KindPrecondition))
	assert.Equal(t, MsgCheckoutPending, err.Error())

	close(release)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("first checkout did not finish")
	}
}

func TestLoadFailureKeepsList(t *testing.T) {
	w, api, st, rec := newWorkflow()
	before := []model.Order{{ID: 1}, {ID: 2}}
	st.ReplaceOrders(before)
	api.On("Do", mock.Anything, "/orders/", mock.Anything, mock.Anything).
		Return(&gateway.Error{Kind: gateway.KindTransport, Message: gateway.FallbackMessage})

	w.Load(context.Background())

	assert.Equal(t, before, st.Orders())
	assert.Equal(t, []notify.Recorded{{Message: MsgLoadFailed, Severity: notify.Error}}, rec.All())
}

func TestTrack(t *testing.T) {
	w, api, _, rec := newWorkflow()
	api.On("Do", mock.Anything, "/orders/7/track/", mock.Anything, mock.Anything).
		Run(gatewaymock.Respond(`{"id":1,"order":{"id":7,"service":{"name_en":"Water"},"status":"in_progress"},"remaining_delivery_time":45,"last_updated":"2025-03-01T13:20:00Z"}`)).
		Return(nil)
	api.On("Do", mock.Anything, "/orders/8/track/", mock.Anything, mock.Anything).
		Return(&gateway.Error{Kind: gateway.KindGeneric, Status: 404, Message: "Not found."})

	panel, err := w.Track(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "Order #7", panel.Title)
	assert.Contains(t, panel.Text(), "Remaining delivery time: 45 min")
	assert.Equal(t, model.OrderInProgress, panel.Status)

	panel, err = w.Track(context.Background(), 8)
	require.Error(t, err)
	assert.Equal(t, view.PanelError, panel.Kind)
	assert.Equal(t, "Not found.", rec.All()[0].Message)
}

func TestCheckoutFormCoercion(t *testing.T) {
	req := sampleRequest(t)
	assert.Equal(t, int64(3), req.ServiceID)
	assert.Equal(t, "10", req.Quantity.String())
	assert.Equal(t, "250", req.DeliveryCost.String())
	require.NotNil(t, req.EstimatedDeliveryTime)
	assert.Equal(t, 60, *req.EstimatedDeliveryTime)
	assert.Empty(t, req.Notes)

	req, err := CheckoutForm{ServiceID: "1", Quantity: "2.5"}.Request()
	require.NoError(t, err)
	assert.Empty(t, req.DeliveryCost)
	assert.Nil(t, req.EstimatedDeliveryTime)

	for name, form := range map[string]CheckoutForm{
		"no service":   {Quantity: "1"},
		"bad quantity": {ServiceID: "1", Quantity: "lots"},
		"bad cost":     {ServiceID: "1", Quantity: "1", DeliveryCost: "free"},
		"bad eta":      {ServiceID: "1", Quantity: "1", EstimatedDeliveryTime: "soon"},
	} {
		_, err := form.Request()
		assert.True(t, gateway.IsKind(err, gateway.KindPrecondition), name)
	}
}
