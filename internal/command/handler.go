package command

import (
	"context"
	"encoding/json"
	"log"

	"github.com/example/storefront/internal/domain/cart"
	"github.com/example/storefront/internal/domain/order"
	"github.com/example/storefront/internal/domain/selection"
	"github.com/example/storefront/internal/infrastructure/store"
	"github.com/example/storefront/internal/listing"
	"github.com/example/storefront/internal/share"
)

// Handler executes commands against the write side. Cart state is mirrored
// to persistent storage after every mutation so a returning session finds
// its cart the way it left it.
type Handler struct {
	cartSvc      *cart.Service
	selectionSvc *selection.Service
	orderSvc     *order.Service
	cartStates   store.CartStateStore
	listings     *listing.Manager
	shareSvc     *share.Service
}

func NewHandler(
	cartSvc *cart.Service,
	selectionSvc *selection.Service,
	orderSvc *order.Service,
	cartStates store.CartStateStore,
	listings *listing.Manager,
	shareSvc *share.Service,
) *Handler {
	return &Handler{
		cartSvc:      cartSvc,
		selectionSvc: selectionSvc,
		orderSvc:     orderSvc,
		cartStates:   cartStates,
		listings:     listings,
		shareSvc:     shareSvc,
	}
}

// persistedCart is the cart snapshot kept in the cart state store.
type persistedCart struct {
	Lines []cart.Line `json:"lines"`
	Open  bool        `json:"open"`
}

// AddToCart adds units of a product to the session's cart.
func (h *Handler) AddToCart(ctx context.Context, cmd AddToCart) (*cart.Cart, error) {
	if err := h.hydrateCart(ctx, cmd.SessionID); err != nil {
		return nil, err
	}
	c, err := h.cartSvc.AddItem(ctx, cmd.SessionID, cmd.Product, cmd.Units)
	if err != nil {
		return nil, err
	}
	h.persistCart(ctx, cmd.SessionID, c)
	return c, nil
}

// AdjustUnits bumps one cart line up or down by a single unit. Stepping
// down from one unit removes the line.
func (h *Handler) AdjustUnits(ctx context.Context, cmd AdjustUnits) (*cart.Cart, error) {
	if err := h.hydrateCart(ctx, cmd.SessionID); err != nil {
		return nil, err
	}
	c, err := h.cartSvc.AdjustUnits(ctx, cmd.SessionID, cmd.ProductID, cmd.Direction)
	if err != nil {
		return nil, err
	}
	h.persistCart(ctx, cmd.SessionID, c)
	return c, nil
}

// RemoveFromCart drops a product's line entirely.
func (h *Handler) RemoveFromCart(ctx context.Context, cmd RemoveFromCart) (*cart.Cart, error) {
	if err := h.hydrateCart(ctx, cmd.SessionID); err != nil {
		return nil, err
	}
	c, err := h.cartSvc.RemoveItem(ctx, cmd.SessionID, cmd.ProductID)
	if err != nil {
		return nil, err
	}
	h.persistCart(ctx, cmd.SessionID, c)
	return c, nil
}

// ClearCart empties the session's cart.
func (h *Handler) ClearCart(ctx context.Context, cmd ClearCart) (*cart.Cart, error) {
	c, err := h.cartSvc.Clear(ctx, cmd.SessionID)
	if err != nil {
		return nil, err
	}
	h.persistCart(ctx, cmd.SessionID, c)
	return c, nil
}

// ToggleCartPanel opens or closes the cart side panel.
func (h *Handler) ToggleCartPanel(ctx context.Context, cmd ToggleCartPanel) (*cart.Cart, error) {
	if err := h.hydrateCart(ctx, cmd.SessionID); err != nil {
		return nil, err
	}
	c, err := h.cartSvc.SetPanelOpen(ctx, cmd.SessionID, cmd.Open)
	if err != nil {
		return nil, err
	}
	h.persistCart(ctx, cmd.SessionID, c)
	return c, nil
}

// ShowProduct records which product the session is looking at.
func (h *Handler) ShowProduct(ctx context.Context, cmd ShowProduct) (*selection.Selection, error) {
	return h.selectionSvc.SetProduct(ctx, cmd.SessionID, cmd.Product)
}

// ClearProduct clears the displayed product, keeping the category.
func (h *Handler) ClearProduct(ctx context.Context, cmd ClearProduct) (*selection.Selection, error) {
	return h.selectionSvc.ClearProduct(ctx, cmd.SessionID)
}

// SelectCategory switches the browsed category and refreshes the listing
// from page one. Re-clicking "all products" while already unfiltered does
// nothing. A failed refresh keeps the previous listing on screen, so it is
// logged rather than surfaced.
func (h *Handler) SelectCategory(ctx context.Context, cmd SelectCategory) (*selection.Selection, error) {
	sel, changed, err := h.selectionSvc.SelectCategory(ctx, cmd.SessionID, cmd.Category)
	if err != nil {
		return nil, err
	}
	if !changed {
		return sel, nil
	}
	if err := h.listings.Get(cmd.SessionID).SelectCategory(ctx, cmd.Category); err != nil {
		log.Printf("[Command] Listing refresh failed for category %q: %v", cmd.Category, err)
	}
	return sel, nil
}

// ChangePage moves the listing to another page of the current category.
func (h *Handler) ChangePage(ctx context.Context, cmd ChangePage) error {
	return h.listings.Get(cmd.SessionID).ChangePage(ctx, cmd.Page)
}

// ListingView returns the session's current listing state.
func (h *Handler) ListingView(sessionID string) listing.View {
	return h.listings.Get(sessionID).View()
}

// Checkout places an order for everything in the cart, then empties it.
func (h *Handler) Checkout(ctx context.Context, cmd Checkout) (*order.Order, error) {
	if err := h.hydrateCart(ctx, cmd.SessionID); err != nil {
		return nil, err
	}
	c, found, err := h.cartSvc.Load(ctx, cmd.SessionID)
	if err != nil {
		return nil, err
	}
	if !found || len(c.Lines) == 0 {
		return nil, order.ErrEmptyOrder
	}

	o, err := h.orderSvc.Place(ctx, cmd.SessionID, c.Lines)
	if err != nil {
		return nil, err
	}

	cleared, err := h.cartSvc.Clear(ctx, cmd.SessionID)
	if err != nil {
		return nil, err
	}
	h.persistCart(ctx, cmd.SessionID, cleared)
	return o, nil
}

// ShareProduct copies the product's share link and returns it.
func (h *Handler) ShareProduct(ctx context.Context, cmd ShareProduct) (string, error) {
	return h.shareSvc.Share(ctx, cmd.ProductID)
}

// ShareNotice returns the active "link copied" notice, if any.
func (h *Handler) ShareNotice() *share.Notice {
	return h.shareSvc.Notice()
}

// DismissShareNotice hides the notice before its timeout.
func (h *Handler) DismissShareNotice() {
	h.shareSvc.Dismiss()
}

// hydrateCart seeds the event stream from persisted cart state the first
// time a returning session touches its cart. Sessions with events already
// recorded are left alone.
func (h *Handler) hydrateCart(ctx context.Context, sessionID string) error {
	_, found, err := h.cartSvc.Load(ctx, sessionID)
	if err != nil {
		return err
	}
	if found {
		return nil
	}

	data, ok, err := h.cartStates.Load(ctx, sessionID)
	if err != nil {
		log.Printf("[Command] Failed to load persisted cart for session %s: %v", sessionID, err)
		return nil
	}
	if !ok {
		return nil
	}

	var state persistedCart
	if err := json.Unmarshal(data, &state); err != nil {
		log.Printf("[Command] Discarding corrupt persisted cart for session %s: %v", sessionID, err)
		return nil
	}
	if len(state.Lines) == 0 && !state.Open {
		return nil
	}

	_, err = h.cartSvc.Initialize(ctx, sessionID, state.Lines, state.Open)
	return err
}

// persistCart mirrors the cart to the state store. Persistence is best
// effort; the event stream stays the source of truth.
func (h *Handler) persistCart(ctx context.Context, sessionID string, c *cart.Cart) {
	state := persistedCart{Lines: c.Lines, Open: c.Open}
	if err := h.cartStates.Save(ctx, sessionID, state); err != nil {
		log.Printf("[Command] Failed to persist cart for session %s: %v", sessionID, err)
	}
}
