package query

import (
	"sort"

	"github.com/example/storefront/internal/catalog"
	"github.com/example/storefront/internal/domain/cart"
	"github.com/example/storefront/internal/domain/selection"
	"github.com/example/storefront/internal/infrastructure/store"
	"github.com/example/storefront/internal/readmodel"
)

// Handler serves the read side. It only ever touches read models the
// projector maintains, never the event store.
type Handler struct {
	readStore store.ReadStoreInterface
}

func NewHandler(readStore store.ReadStoreInterface) *Handler {
	return &Handler{readStore: readStore}
}

// GetCart returns the cart view for a session. A session that never touched
// its cart gets an empty view, not a miss.
func (h *Handler) GetCart(sessionID string) *readmodel.CartView {
	cartID := cart.CartID(sessionID)
	data, ok := h.readStore.Get("carts", cartID)
	if !ok {
		return &readmodel.CartView{
			ID:           cartID,
			SessionID:    sessionID,
			Lines:        []readmodel.CartLineView{},
			DisplayTotal: catalog.FormatPrice(0),
		}
	}
	return data.(*readmodel.CartView)
}

// GetSelection returns the selection view for a session. Like the cart, a
// fresh session gets an empty view with no product and the all-products
// category.
func (h *Handler) GetSelection(sessionID string) *readmodel.SelectionView {
	selectionID := selection.SelectionID(sessionID)
	data, ok := h.readStore.Get("selections", selectionID)
	if !ok {
		return &readmodel.SelectionView{
			ID:        selectionID,
			SessionID: sessionID,
		}
	}
	return data.(*readmodel.SelectionView)
}

// GetOrder returns a single order view by order id.
func (h *Handler) GetOrder(id string) (*readmodel.OrderView, bool) {
	data, ok := h.readStore.Get("orders", id)
	if !ok {
		return nil, false
	}
	return data.(*readmodel.OrderView), true
}

// ListOrdersBySession returns a session's orders, newest first.
func (h *Handler) ListOrdersBySession(sessionID string) []*readmodel.OrderView {
	items := h.readStore.GetAll("orders")
	orders := make([]*readmodel.OrderView, 0)
	for _, item := range items {
		o := item.(*readmodel.OrderView)
		if o.SessionID == sessionID {
			orders = append(orders, o)
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].PlacedAt.After(orders[j].PlacedAt)
	})
	return orders
}
