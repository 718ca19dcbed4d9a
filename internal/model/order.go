package model

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Order statuses reported by the API.
const (
	OrderPending    = "pending"
	OrderConfirmed  = "confirmed"
	OrderInProgress = "in_progress"
	OrderDelivered  = "delivered"
	OrderCancelled  = "cancelled"
)

// Payment methods accepted at checkout.
const (
	PaymentCash = "cash"
	PaymentCard = "card"
)

// Order is a delivery order as listed by /orders/ and returned from
// checkout. Service is a snapshot embedded by the server, not a reference
// into the local catalog.
type Order struct {
	ID                    int64           `json:"id"`
	Service               Service         `json:"service"`
	Quantity              decimal.Decimal `json:"quantity"`
	Location              string          `json:"location"`
	PaymentMethod         string          `json:"payment_method"`
	ServiceCost           decimal.Decimal `json:"service_cost"`
	DeliveryCost          decimal.Decimal `json:"delivery_cost"`
	TotalCost             decimal.Decimal `json:"total_cost"`
	Status                string          `json:"status"`
	Notes                 string          `json:"notes,omitempty"`
	EstimatedDeliveryTime int             `json:"estimated_delivery_time,omitempty"`
	Currency              string          `json:"currency,omitempty"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
}

// CheckoutRequest is posted to /orders/checkout/. Quantity and
// DeliveryCost are sent as bare JSON numbers; Notes is dropped when empty.
// An empty DeliveryCost or nil EstimatedDeliveryTime lets the API apply its
// defaults.
type CheckoutRequest struct {
	ServiceID             int64       `json:"service_id"`
	Quantity              json.Number `json:"quantity"`
	Location              string      `json:"location"`
	PaymentMethod         string      `json:"payment_method"`
	DeliveryCost          json.Number `json:"delivery_cost,omitempty"`
	EstimatedDeliveryTime *int        `json:"estimated_delivery_time,omitempty"`
	Notes                 string      `json:"notes,omitempty"`
}

// CheckoutResponse is the body of a successful checkout.
type CheckoutResponse struct {
	Message string `json:"message"`
	Order   Order  `json:"order"`
}

// OrderTracking reports the remaining delivery time of one order.
type OrderTracking struct {
	ID                    int64     `json:"id"`
	Order                 Order     `json:"order"`
	RemainingDeliveryTime int       `json:"remaining_delivery_time"`
	LastUpdated           time.Time `json:"last_updated"`
}
