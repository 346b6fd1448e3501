package selection

import (
	"time"

	"github.com/example/storefront/internal/catalog"
)

const (
	EventProductDisplayed = "ProductDisplayed"
	EventProductCleared   = "ProductCleared"
	EventCategorySelected = "CategorySelected"
)

type ProductDisplayed struct {
	SelectionID string          `json:"selection_id"`
	SessionID   string          `json:"session_id"`
	Product     catalog.Product `json:"product"`
	DisplayedAt time.Time       `json:"displayed_at"`
}

type ProductCleared struct {
	SelectionID string    `json:"selection_id"`
	SessionID   string    `json:"session_id"`
	ClearedAt   time.Time `json:"cleared_at"`
}

type CategorySelected struct {
	SelectionID string    `json:"selection_id"`
	SessionID   string    `json:"session_id"`
	Category    string    `json:"category"`
	SelectedAt  time.Time `json:"selected_at"`
}
