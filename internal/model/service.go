package model

import "github.com/shopspring/decimal"

// Service types known to the catalog.
const (
	ServiceElectricity = "electricity"
	ServiceWater       = "water"
	ServiceGas         = "gas"
)

// Service is one orderable catalog entry. PricePerUnit arrives from the
// API as a decimal string ("500.00"); plain JSON numbers decode as well.
type Service struct {
	ID           int64           `json:"id"`
	ServiceType  string          `json:"service_type"`
	NameEN       string          `json:"name_en"`
	NameAR       string          `json:"name_ar"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
	UnitName     string          `json:"unit_name"`
	UnitNameAR   string          `json:"unit_name_ar,omitempty"`
	Currency     string          `json:"currency,omitempty"`
}

// Quote is the response of /services/calculate_cost/.
type Quote struct {
	Service  Service         `json:"service"`
	Quantity decimal.Decimal `json:"quantity"`
	Cost     decimal.Decimal `json:"cost"`
	Currency string          `json:"currency,omitempty"`
}
