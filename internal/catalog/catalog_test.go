package catalog

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iliyamo/utility-ordering-client/internal/gateway"
	"github.com/iliyamo/utility-ordering-client/internal/gateway/gatewaymock"
	"github.com/iliyamo/utility-ordering-client/internal/model"
	"github.com/iliyamo/utility-ordering-client/internal/notify"
	"github.com/iliyamo/utility-ordering-client/internal/state"
	"github.com/iliyamo/utility-ordering-client/internal/view"
)

const servicesBody = `[
 {"id":1,"service_type":"electricity","name_en":"Electricity","name_ar":"كهرباء","price_per_unit":"150.00","unit_name":"kWh"},
 {"id":3,"service_type":"water","name_en":"Water","name_ar":"ماء","price_per_unit":"500.00","unit_name":"m3"}
]`

func newCatalog() (*Catalog, *gatewaymock.Requester, *state.AppState, *notify.Recorder) {
	api := &gatewaymock.Requester{}
	st := state.New()
	rec := &notify.Recorder{}
	return New(api, st, rec, zap.NewNop().Sugar()), api, st, rec
}

func TestLoadReplacesServices(t *testing.T) {
	c, api, st, rec := newCatalog()
	st.ReplaceServices([]model.Service{{ID: 99}})
	api.On("Do", mock.Anything, "/services/", mock.Anything, mock.Anything).
		Run(gatewaymock.Respond(servicesBody)).Return(nil)

	c.Load(context.Background())

	services := st.Services()
	require.Len(t, services, 2)
	assert.True(t, decimal.RequireFromString("500").Equal(services[1].PricePerUnit))
	assert.Empty(t, rec.All())

	s, ok := c.Lookup(3)
	require.True(t, ok)
	assert.Equal(t, "Water", s.NameEN)
	_, ok = c.Lookup(99)
	assert.False(t, ok)
}

func TestLoadFailureKeepsPreviousList(t *testing.T) {
	c, api, st, rec := newCatalog()
	before := []model.Service{{ID: 1, NameEN: "Electricity"}, {ID: 2, NameEN: "Gas"}}
	st.ReplaceServices(before)
	api.On("Do", mock.Anything, "/services/", mock.Anything, mock.Anything).
		Return(&gateway.Error{Kind: gateway.KindTransport, Message: gateway.FallbackMessage})

	c.Load(context.Background())

	assert.Equal(t, before, st.Services())
	assert.Equal(t, []notify.Recorded{{Message: MsgLoadFailed, Severity: notify.Error}}, rec.All())
}

func TestProjections(t *testing.T) {
	c, api, _, _ := newCatalog()
	api.On("Do", mock.Anything, "/services/", mock.Anything, mock.Anything).
		Run(gatewaymock.Respond(servicesBody)).Return(nil)
	c.Load(context.Background())

	cards := c.Cards()
	require.Len(t, cards, 2)
	assert.Equal(t, "⚡", cards[0].Icon)
	assert.Equal(t, "per kWh", cards[0].Unit)
	assert.Equal(t, "IQD 150.00", cards[0].Price)

	calc := c.CalculatorOptions()
	checkout := c.CheckoutOptions()
	assert.Equal(t, calc, checkout)
	require.Len(t, calc, 3)
	assert.Equal(t, view.PlaceholderLabel, calc[0].Label)
	assert.Equal(t, "Water - IQD 500.00/m3", calc[2].Label)

	calc[1].Label = "changed"
	assert.NotEqual(t, calc[1].Label, c.CheckoutOptions()[1].Label)
}
