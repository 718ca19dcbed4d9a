// Package queue carries order events over RabbitMQ: a best-effort publisher
// used after checkout and a consumer that appends them to a log file.
package queue

// OrderPlacedQueue is the durable queue order events are routed to.
const OrderPlacedQueue = "order.placed"

// OrderPlacedEvent is published after the API has accepted a checkout.
// Amounts are kept as the decimal strings the API returned.
type OrderPlacedEvent struct {
	OrderID     int64  `json:"order_id"`
	UserID      int64  `json:"user_id"`
	Username    string `json:"username"`
	ServiceID   int64  `json:"service_id"`
	ServiceType string `json:"service_type"`
	ServiceName string `json:"service_name"`
	Quantity    string `json:"quantity"`
	Unit        string `json:"unit"`
	TotalCost   string `json:"total_cost"`
	Currency    string `json:"currency"`
	Payment     string `json:"payment_method"`
	Status      string `json:"status"`
	PlacedAt    string `json:"placed_at"`
}
