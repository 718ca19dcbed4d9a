package view

import "github.com/iliyamo/utility-ordering-client/internal/model"

// PlaceholderLabel heads every service selector.
const PlaceholderLabel = "-- Choose Service --"

// ServiceCard is the catalog tile of one service.
type ServiceCard struct {
	ID     int64  `json:"id"`
	Icon   string `json:"icon"`
	NameEN string `json:"name_en"`
	NameAR string `json:"name_ar"`
	Price  string `json:"price"`
	Unit   string `json:"unit"`
}

// Option is one entry of a selector.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

func ServiceCards(services []model.Service) []ServiceCard {
	cards := make([]ServiceCard, 0, len(services))
	for _, s := range services {
		cards = append(cards, ServiceCard{
			ID:     s.ID,
			Icon:   ServiceIcon(s.ServiceType),
			NameEN: s.NameEN,
			NameAR: s.NameAR,
			Price:  FormatCurrency(s.PricePerUnit, s.Currency),
			Unit:   "per " + s.UnitName,
		})
	}
	return cards
}

// ServiceOptions builds a fresh selector list, placeholder first. Each call
// returns a new slice so the calculator and checkout selectors never share
// backing storage.
func ServiceOptions(services []model.Service) []Option {
	opts := make([]Option, 0, len(services)+1)
	opts = append(opts, Option{Value: "", Label: PlaceholderLabel})
	for _, s := range services {
		opts = append(opts, Option{
			Value: formatID(s.ID),
			Label: s.NameEN + " - " + FormatCurrency(s.PricePerUnit, s.Currency) + "/" + s.UnitName,
		})
	}
	return opts
}
