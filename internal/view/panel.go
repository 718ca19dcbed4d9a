package view

import (
	"strconv"
	"strings"

	"github.com/iliyamo/utility-ordering-client/internal/model"
)

// PanelKind tells the page how to style a result panel.
type PanelKind string

const (
	PanelSuccess PanelKind = "success"
	PanelError   PanelKind = "error"
)

// Line is one labelled row of a panel.
type Line struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Total bool   `json:"total,omitempty"`
}

// Panel is the content of a result area. An error panel carries only
// Message; a success panel carries Title and Lines.
type Panel struct {
	Kind    PanelKind `json:"kind"`
	Title   string    `json:"title,omitempty"`
	Lines   []Line    `json:"lines,omitempty"`
	Status  string    `json:"status,omitempty"`
	Message string    `json:"message,omitempty"`
}

// Text flattens the panel into plain text, one line per row.
func (p Panel) Text() string {
	if p.Kind == PanelError {
		return p.Message
	}
	var b strings.Builder
	b.WriteString(p.Title)
	for _, l := range p.Lines {
		b.WriteString("\n" + l.Label + ": " + l.Value)
	}
	if p.Status != "" {
		b.WriteString("\nStatus: " + p.Status)
	}
	return b.String()
}

// ErrorPanel shows a single normalized message.
func ErrorPanel(msg string) Panel {
	return Panel{Kind: PanelError, Message: msg}
}

// QuotePanel renders a cost calculation.
func QuotePanel(q model.Quote) Panel {
	currency := q.Currency
	if currency == "" {
		currency = q.Service.Currency
	}
	return Panel{
		Kind:  PanelSuccess,
		Title: "Cost Calculation",
		Lines: []Line{
			{Label: "Service", Value: q.Service.NameEN + " (" + q.Service.NameAR + ")"},
			{Label: "Quantity", Value: FormatQuantity(q.Quantity, q.Service.UnitName)},
			{Label: "Price per unit", Value: FormatCurrency(q.Service.PricePerUnit, q.Service.Currency)},
			{Label: "Total Cost", Value: FormatCurrency(q.Cost, currency), Total: true},
		},
	}
}

// OrderPanel renders the confirmation of a freshly created order.
func OrderPanel(o model.Order) Panel {
	return Panel{
		Kind:  PanelSuccess,
		Title: "Order Created! 🎉",
		Lines: []Line{
			{Label: "Order ID", Value: formatID(o.ID)},
			{Label: "Service", Value: o.Service.NameEN},
			{Label: "Quantity", Value: FormatQuantity(o.Quantity, o.Service.UnitName)},
			{Label: "Service Cost", Value: FormatCurrency(o.ServiceCost, o.Currency)},
			{Label: "Delivery Cost", Value: FormatCurrency(o.DeliveryCost, o.Currency)},
			{Label: "Total", Value: FormatCurrency(o.TotalCost, o.Currency), Total: true},
		},
		Status: o.Status,
	}
}

// TrackingPanel renders the delivery progress of one order.
func TrackingPanel(t model.OrderTracking) Panel {
	return Panel{
		Kind:  PanelSuccess,
		Title: "Order #" + formatID(t.Order.ID),
		Lines: []Line{
			{Label: "Service", Value: t.Order.Service.NameEN},
			{Label: "Remaining delivery time", Value: strconv.Itoa(t.RemainingDeliveryTime) + " min"},
		},
		Status: t.Order.Status,
	}
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
