// Package view turns workflow results into render-ready view models. It
// holds no state and performs no I/O; the BFF serializes its output.
package view

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DefaultCurrency is used when a record does not name its currency.
const DefaultCurrency = "IQD"

var printer = message.NewPrinter(language.English)

// FormatCurrency renders every monetary field the same way: currency code,
// grouped thousands, exactly two decimals ("IQD 5,000.00").
func FormatCurrency(amount decimal.Decimal, currency string) string {
	if currency == "" {
		currency = DefaultCurrency
	}
	f := amount.Round(2).InexactFloat64()
	return currency + " " + printer.Sprint(number.Decimal(f, number.Scale(2)))
}

// FormatQuantity renders a quantity with its unit ("10 m3").
func FormatQuantity(q decimal.Decimal, unit string) string {
	return strings.TrimSpace(q.String() + " " + unit)
}

// FormatTimestamp renders an instant as a human, locale-style date and
// time in loc ("3/1/2025, 1:15:00 PM").
func FormatTimestamp(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format("1/2/2006, 3:04:05 PM")
}

var serviceIcons = map[string]string{
	"electricity": "⚡",
	"water":       "💧",
	"gas":         "🔥",
}

// ServiceIcon maps a service type to its icon; unknown types get a box.
func ServiceIcon(serviceType string) string {
	if icon, ok := serviceIcons[serviceType]; ok {
		return icon
	}
	return "📦"
}
