package order

import "time"

const (
	EventOrderPlaced = "OrderPlaced"
)

// Item is one ordered product, priced at its effective (discounted) unit
// price at checkout time.
type Item struct {
	ProductID int     `json:"product_id"`
	Title     string  `json:"title"`
	Units     int     `json:"units"`
	UnitPrice float64 `json:"unit_price"`
}

type OrderPlaced struct {
	OrderID   string    `json:"order_id"`
	SessionID string    `json:"session_id"`
	Items     []Item    `json:"items"`
	Total     float64   `json:"total"`
	PlacedAt  time.Time `json:"placed_at"`
}
