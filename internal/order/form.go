package order

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/utility-ordering-client/internal/gateway"
	"github.com/iliyamo/utility-ordering-client/internal/model"
)

// CheckoutForm is the raw checkout input as submitted by the page. Every
// field arrives as text and is coerced by Request.
type CheckoutForm struct {
	ServiceID             string `json:"service_id" form:"service_id"`
	Quantity              string `json:"quantity" form:"quantity"`
	Location              string `json:"location" form:"location"`
	PaymentMethod         string `json:"payment_method" form:"payment_method"`
	DeliveryCost          string `json:"delivery_cost" form:"delivery_cost"`
	EstimatedDeliveryTime string `json:"estimated_delivery_time" form:"estimated_delivery_time"`
	Notes                 string `json:"notes" form:"notes"`
}

// Request coerces the numeric fields. Values that do not parse are
// rejected locally, before any call is made. Empty optional numbers are
// left out so the API applies its defaults.
func (f CheckoutForm) Request() (model.CheckoutRequest, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(f.ServiceID), 10, 64)
	if err != nil {
		return model.CheckoutRequest{}, gateway.Precondition("Please choose a service")
	}
	qty, err := decimal.NewFromString(strings.TrimSpace(f.Quantity))
	if err != nil {
		return model.CheckoutRequest{}, gateway.Precondition("Quantity must be a number")
	}
	req := model.CheckoutRequest{
		ServiceID:     id,
		Quantity:      json.Number(qty.String()),
		Location:      f.Location,
		PaymentMethod: f.PaymentMethod,
		Notes:         f.Notes,
	}
	if s := strings.TrimSpace(f.DeliveryCost); s != "" {
		cost, err := decimal.NewFromString(s)
		if err != nil {
			return model.CheckoutRequest{}, gateway.Precondition("Delivery cost must be a number")
		}
		req.DeliveryCost = json.Number(cost.String())
	}
	if s := strings.TrimSpace(f.EstimatedDeliveryTime); s != "" {
		eta, err := strconv.Atoi(s)
		if err != nil {
			return model.CheckoutRequest{}, gateway.Precondition("Estimated delivery time must be a whole number of minutes")
		}
		req.EstimatedDeliveryTime = &eta
	}
	return req, nil
}
