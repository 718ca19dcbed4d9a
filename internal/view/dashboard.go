package view

import (
	"time"

	"github.com/iliyamo/utility-ordering-client/internal/state"
)

// Section names the top-level view that is visible.
type Section string

const (
	SectionAuth      Section = "auth"
	SectionDashboard Section = "dashboard"
)

// Dashboard is the whole page model. Only one section is ever visible;
// dashboard-only fields are empty while the auth section is shown.
type Dashboard struct {
	Section           Section       `json:"section"`
	Welcome           string        `json:"welcome,omitempty"`
	LogoutVisible     bool          `json:"logout_visible"`
	Services          []ServiceCard `json:"services,omitempty"`
	CalculatorOptions []Option      `json:"calculator_options,omitempty"`
	CheckoutOptions   []Option      `json:"checkout_options,omitempty"`
	Orders            *OrderList    `json:"orders,omitempty"`
}

// Build renders the page for snap.
func Build(snap state.Snapshot, loc *time.Location) Dashboard {
	if snap.User == nil {
		return Dashboard{Section: SectionAuth}
	}
	orders := Orders(snap.Orders, loc)
	return Dashboard{
		Section:           SectionDashboard,
		Welcome:           "Welcome, " + snap.User.Username + "!",
		LogoutVisible:     true,
		Services:          ServiceCards(snap.Services),
		CalculatorOptions: ServiceOptions(snap.Services),
		CheckoutOptions:   ServiceOptions(snap.Services),
		Orders:            &orders,
	}
}
