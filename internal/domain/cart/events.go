package cart

import (
	"time"

	"github.com/example/storefront/internal/catalog"
)

const (
	EventCartInitialized = "CartInitialized"
	EventItemAdded       = "ItemAddedToCart"
	EventUnitsAdjusted   = "UnitsAdjusted"
	EventItemRemoved     = "ItemRemovedFromCart"
	EventCartCleared     = "CartCleared"
	EventPanelToggled    = "CartPanelToggled"
)

// CartInitialized replaces the whole cart state wholesale, used when a
// session's cart is hydrated from persisted storage.
type CartInitialized struct {
	CartID        string    `json:"cart_id"`
	SessionID     string    `json:"session_id"`
	Lines         []Line    `json:"lines"`
	Open          bool      `json:"open"`
	InitializedAt time.Time `json:"initialized_at"`
}

type ItemAddedToCart struct {
	CartID    string          `json:"cart_id"`
	SessionID string          `json:"session_id"`
	Product   catalog.Product `json:"product"`
	Units     int             `json:"units"`
	AddedAt   time.Time       `json:"added_at"`
}

// UnitsAdjusted bumps one line's unit count by a single step, mirroring the
// +1/-1 controls next to each cart line.
type UnitsAdjusted struct {
	CartID     string    `json:"cart_id"`
	SessionID  string    `json:"session_id"`
	ProductID  int       `json:"product_id"`
	Direction  Direction `json:"direction"`
	AdjustedAt time.Time `json:"adjusted_at"`
}

type ItemRemovedFromCart struct {
	CartID    string    `json:"cart_id"`
	SessionID string    `json:"session_id"`
	ProductID int       `json:"product_id"`
	RemovedAt time.Time `json:"removed_at"`
}

type CartCleared struct {
	CartID    string    `json:"cart_id"`
	SessionID string    `json:"session_id"`
	ClearedAt time.Time `json:"cleared_at"`
}

type CartPanelToggled struct {
	CartID    string    `json:"cart_id"`
	SessionID string    `json:"session_id"`
	Open      bool      `json:"open"`
	ToggledAt time.Time `json:"toggled_at"`
}
