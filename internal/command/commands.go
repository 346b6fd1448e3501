package command

import (
	"github.com/example/storefront/internal/catalog"
	"github.com/example/storefront/internal/domain/cart"
)

// Cart Commands
type AddToCart struct {
	SessionID string          `json:"session_id"`
	Product   catalog.Product `json:"product"`
	Units     int             `json:"units"`
}

type AdjustUnits struct {
	SessionID string         `json:"session_id"`
	ProductID int            `json:"product_id"`
	Direction cart.Direction `json:"direction"`
}

type RemoveFromCart struct {
	SessionID string `json:"session_id"`
	ProductID int    `json:"product_id"`
}

type ClearCart struct {
	SessionID string `json:"session_id"`
}

type ToggleCartPanel struct {
	SessionID string `json:"session_id"`
	Open      bool   `json:"open"`
}

// Selection Commands
type ShowProduct struct {
	SessionID string          `json:"session_id"`
	Product   catalog.Product `json:"product"`
}

type ClearProduct struct {
	SessionID string `json:"session_id"`
}

type SelectCategory struct {
	SessionID string `json:"session_id"`
	Category  string `json:"category"`
}

// Listing Commands
type ChangePage struct {
	SessionID string `json:"session_id"`
	Page      int    `json:"page"`
}

// Order Commands
type Checkout struct {
	SessionID string `json:"session_id"`
}

// Share Commands
type ShareProduct struct {
	SessionID string `json:"session_id"`
	ProductID int    `json:"product_id"`
}
