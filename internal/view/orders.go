package view

import (
	"time"

	"github.com/iliyamo/utility-ordering-client/internal/model"
)

// EmptyOrdersMessage replaces the order list when there is nothing to show.
const EmptyOrdersMessage = "No orders yet. Place your first order above!"

// OrderRow is one entry of the order history.
type OrderRow struct {
	ID           int64  `json:"id"`
	Header       string `json:"header"`
	Status       string `json:"status"`
	Service      string `json:"service"`
	Quantity     string `json:"quantity"`
	Location     string `json:"location"`
	Payment      string `json:"payment"`
	ServiceCost  string `json:"service_cost"`
	DeliveryCost string `json:"delivery_cost"`
	Total        string `json:"total"`
	Notes        string `json:"notes,omitempty"`
	Ordered      string `json:"ordered"`
}

// OrderList is either exactly one empty-state message or a list of rows.
type OrderList struct {
	Empty string     `json:"empty,omitempty"`
	Rows  []OrderRow `json:"rows,omitempty"`
}

// Orders renders the order history; timestamps are shown in loc.
func Orders(orders []model.Order, loc *time.Location) OrderList {
	if len(orders) == 0 {
		return OrderList{Empty: EmptyOrdersMessage}
	}
	rows := make([]OrderRow, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, OrderRow{
			ID:           o.ID,
			Header:       "Order #" + formatID(o.ID),
			Status:       o.Status,
			Service:      o.Service.NameEN + " (" + o.Service.NameAR + ")",
			Quantity:     FormatQuantity(o.Quantity, o.Service.UnitName),
			Location:     o.Location,
			Payment:      o.PaymentMethod,
			ServiceCost:  FormatCurrency(o.ServiceCost, o.Currency),
			DeliveryCost: FormatCurrency(o.DeliveryCost, o.Currency),
			Total:        FormatCurrency(o.TotalCost, o.Currency),
			Notes:        o.Notes,
			Ordered:      "Ordered: " + FormatTimestamp(o.CreatedAt, loc),
		})
	}
	return OrderList{Rows: rows}
}
