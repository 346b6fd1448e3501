package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/example/storefront/internal/catalog"
	"github.com/example/storefront/internal/command"
	"github.com/example/storefront/internal/domain/cart"
	"github.com/example/storefront/internal/domain/order"
	"github.com/example/storefront/internal/query"
)

type Handlers struct {
	cmdHandler   *command.Handler
	queryHandler *query.Handler
}

func NewHandlers(cmdHandler *command.Handler, queryHandler *query.Handler) *Handlers {
	return &Handlers{
		cmdHandler:   cmdHandler,
		queryHandler: queryHandler,
	}
}

// Cart Handlers

func (h *Handlers) GetCart(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(w, r)
	respondJSON(w, http.StatusOK, h.queryHandler.GetCart(sessionID))
}

func (h *Handlers) AddToCart(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(w, r)

	var req struct {
		Product catalog.Product `json:"product"`
		Units   int             `json:"units"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	cmd := command.AddToCart{SessionID: sessionID, Product: req.Product, Units: req.Units}
	c, err := h.cmdHandler.AddToCart(r.Context(), cmd)
	if err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	respondJSON(w, http.StatusOK, c)
}

func (h *Handlers) AdjustUnits(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(w, r)

	productID, ok := parseProductID(w, r.URL.Path, "/cart/items/", "/adjust")
	if !ok {
		return
	}

	var req struct {
		Direction cart.Direction `json:"direction"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	cmd := command.AdjustUnits{SessionID: sessionID, ProductID: productID, Direction: req.Direction}
	c, err := h.cmdHandler.AdjustUnits(r.Context(), cmd)
	if err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	respondJSON(w, http.StatusOK, c)
}

func (h *Handlers) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(w, r)

	productID, ok := parseProductID(w, r.URL.Path, "/cart/items/", "")
	if !ok {
		return
	}

	cmd := command.RemoveFromCart{SessionID: sessionID, ProductID: productID}
	c, err := h.cmdHandler.RemoveFromCart(r.Context(), cmd)
	if err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	respondJSON(w, http.StatusOK, c)
}

func (h *Handlers) ClearCart(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(w, r)

	c, err := h.cmdHandler.ClearCart(r.Context(), command.ClearCart{SessionID: sessionID})
	if err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	respondJSON(w, http.StatusOK, c)
}

func (h *Handlers) ToggleCartPanel(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(w, r)

	var req struct {
		Open bool `json:"open"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	cmd := command.ToggleCartPanel{SessionID: sessionID, Open: req.Open}
	c, err := h.cmdHandler.ToggleCartPanel(r.Context(), cmd)
	if err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	respondJSON(w, http.StatusOK, c)
}

// Selection Handlers

func (h *Handlers) GetSelection(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(w, r)
	respondJSON(w, http.StatusOK, h.queryHandler.GetSelection(sessionID))
}

func (h *Handlers) ShowProduct(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(w, r)

	var req struct {
		Product catalog.Product `json:"product"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	sel, err := h.cmdHandler.ShowProduct(r.Context(), command.ShowProduct{SessionID: sessionID, Product: req.Product})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, sel)
}

func (h *Handlers) ClearProduct(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(w, r)

	sel, err := h.cmdHandler.ClearProduct(r.Context(), command.ClearProduct{SessionID: sessionID})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, sel)
}

func (h *Handlers) SelectCategory(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(w, r)

	var req struct {
		Category string `json:"category"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	sel, err := h.cmdHandler.SelectCategory(r.Context(), command.SelectCategory{SessionID: sessionID, Category: req.Category})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, sel)
}

// Listing Handlers

func (h *Handlers) GetListing(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(w, r)
	respondJSON(w, http.StatusOK, h.cmdHandler.ListingView(sessionID))
}

func (h *Handlers) ChangePage(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(w, r)

	var req struct {
		Page int `json:"page"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Page < 1 {
		http.Error(w, "page must be positive", http.StatusBadRequest)
		return
	}

	if err := h.cmdHandler.ChangePage(r.Context(), command.ChangePage{SessionID: sessionID, Page: req.Page}); err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	respondJSON(w, http.StatusOK, h.cmdHandler.ListingView(sessionID))
}

// Order Handlers

func (h *Handlers) Checkout(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(w, r)

	o, err := h.cmdHandler.Checkout(r.Context(), command.Checkout{SessionID: sessionID})
	if err != nil {
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	respondJSON(w, http.StatusCreated, o)
}

func (h *Handlers) GetOrders(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(w, r)
	respondJSON(w, http.StatusOK, h.queryHandler.ListOrdersBySession(sessionID))
}

func (h *Handlers) GetOrder(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/orders/")

	o, ok := h.queryHandler.GetOrder(id)
	if !ok {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}

	// Anonymous sessions can only see their own orders.
	if o.SessionID != getSessionID(w, r) {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}

	respondJSON(w, http.StatusOK, o)
}

// Share Handlers

func (h *Handlers) ShareProduct(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionID(w, r)

	productID, ok := parseProductID(w, r.URL.Path, "/share/", "")
	if !ok {
		return
	}

	url, err := h.cmdHandler.ShareProduct(r.Context(), command.ShareProduct{SessionID: sessionID, ProductID: productID})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"url": url})
}

func (h *Handlers) GetShareNotice(w http.ResponseWriter, r *http.Request) {
	notice := h.cmdHandler.ShareNotice()
	if notice == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	respondJSON(w, http.StatusOK, notice)
}

func (h *Handlers) DismissShareNotice(w http.ResponseWriter, r *http.Request) {
	h.cmdHandler.DismissShareNotice()
	w.WriteHeader(http.StatusOK)
}

// Helper functions

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func extractPathParam(path, prefix string) string {
	return strings.TrimPrefix(path, prefix)
}

func parseProductID(w http.ResponseWriter, path, prefix, suffix string) (int, bool) {
	raw := strings.TrimSuffix(extractPathParam(path, prefix), suffix)
	id, err := strconv.Atoi(raw)
	if err != nil {
		http.Error(w, "Invalid product id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// statusForError maps domain validation failures to 400 and everything
// else to 500.
func statusForError(err error) int {
	switch {
	case errors.Is(err, cart.ErrInvalidUnits),
		errors.Is(err, cart.ErrExceedsStock),
		errors.Is(err, cart.ErrLineNotFound),
		errors.Is(err, cart.ErrInvalidDirection),
		errors.Is(err, order.ErrEmptyOrder):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
