package readmodel

import (
	"time"

	"github.com/example/storefront/internal/catalog"
)

// CartLineView is one cart line prepared for display. DisplayPrice is the
// effective (discounted) unit price; DisplayListPrice carries the original
// price only when a discount applies, so the UI can strike it through.
type CartLineView struct {
	ProductID        int     `json:"product_id"`
	Title            string  `json:"title"`
	Units            int     `json:"units"`
	UnitPrice        float64 `json:"unit_price"`
	ListPrice        float64 `json:"list_price"`
	Discount         int     `json:"discount,omitempty"`
	DisplayPrice     string  `json:"display_price"`
	DisplayListPrice string  `json:"display_list_price,omitempty"`
	ImageURL         string  `json:"img_url,omitempty"`
}

// CartView is the read model for a session's cart.
type CartView struct {
	ID           string         `json:"id"`
	SessionID    string         `json:"session_id"`
	Lines        []CartLineView `json:"lines"`
	Count        int            `json:"count"`
	Open         bool           `json:"open"`
	Total        float64        `json:"total"`
	DisplayTotal string         `json:"display_total"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// SelectionView is the read model for the product a session is looking at
// and the category it is browsing.
type SelectionView struct {
	ID               string           `json:"id"`
	SessionID        string           `json:"session_id"`
	Product          *catalog.Product `json:"product,omitempty"`
	DisplayPrice     string           `json:"display_price,omitempty"`
	DisplayListPrice string           `json:"display_list_price,omitempty"`
	Category         string           `json:"category"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// OrderItemView is one line of a placed order.
type OrderItemView struct {
	ProductID        int     `json:"product_id"`
	Title            string  `json:"title"`
	Units            int     `json:"units"`
	UnitPrice        float64 `json:"unit_price"`
	DisplayUnitPrice string  `json:"display_unit_price"`
}

// OrderView is the read model for orders.
type OrderView struct {
	ID           string          `json:"id"`
	SessionID    string          `json:"session_id"`
	Items        []OrderItemView `json:"items"`
	Total        float64         `json:"total"`
	DisplayTotal string          `json:"display_total"`
	PlacedAt     time.Time       `json:"placed_at"`
}
