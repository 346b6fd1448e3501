package cart

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/example/storefront/internal/catalog"
	"github.com/example/storefront/internal/domain/aggregate"
	"github.com/example/storefront/internal/infrastructure/store"
)

const AggregateType = "Cart"

var (
	ErrInvalidUnits     = errors.New("units must be positive")
	ErrExceedsStock     = errors.New("units exceed available stock")
	ErrLineNotFound     = errors.New("product is not in the cart")
	ErrInvalidDirection = errors.New("direction must be +1 or -1")
)

// Direction is a single-step unit adjustment.
type Direction string

const (
	DirectionAdd      Direction = "+1"
	DirectionSubtract Direction = "-1"
)

// Line pairs a product with how many units of it are in the cart.
type Line struct {
	Product catalog.Product `json:"product"`
	Units   int             `json:"units"`
}

// Cart is one session's shopping cart. Lines keep insertion order and hold
// at most one entry per product ID. Count is always the sum of line units.
type Cart struct {
	ID        string `json:"id"`
	SessionID string `json:"session_id"`
	Lines     []Line `json:"lines"`
	Count     int    `json:"count"`
	Open      bool   `json:"open"`
	Version   int    `json:"version"`
}

// Aggregate interface implementation
func (c *Cart) GetID() string    { return c.ID }
func (c *Cart) GetVersion() int  { return c.Version }
func (c *Cart) SetVersion(v int) { c.Version = v }

// CartID returns the cart aggregate ID for a session.
func CartID(sessionID string) string {
	return "cart-" + sessionID
}

// ApplyEvent applies a single event to the cart state. Events that reference
// an unknown line apply as no-ops; the reducer never fails on bad references.
func (c *Cart) ApplyEvent(event store.Event) error {
	switch event.EventType {
	case EventCartInitialized:
		var data CartInitialized
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		c.ID = data.CartID
		c.SessionID = data.SessionID
		c.Lines = append([]Line(nil), data.Lines...)
		c.Open = data.Open

	case EventItemAdded:
		var data ItemAddedToCart
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		c.ID = data.CartID
		c.SessionID = data.SessionID
		// Re-adding a product merges into the existing line instead of
		// duplicating it.
		if i := c.lineIndex(data.Product.ID); i >= 0 {
			c.Lines[i].Units += data.Units
			c.Lines[i].Product = data.Product
		} else {
			c.Lines = append(c.Lines, Line{Product: data.Product, Units: data.Units})
		}

	case EventUnitsAdjusted:
		var data UnitsAdjusted
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		if i := c.lineIndex(data.ProductID); i >= 0 {
			switch data.Direction {
			case DirectionAdd:
				c.Lines[i].Units++
			case DirectionSubtract:
				c.Lines[i].Units--
				// A line decremented to zero disappears from the cart.
				if c.Lines[i].Units <= 0 {
					c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
				}
			}
		}

	case EventItemRemoved:
		var data ItemRemovedFromCart
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		if i := c.lineIndex(data.ProductID); i >= 0 {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
		}

	case EventCartCleared:
		var data CartCleared
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		c.Lines = nil

	case EventPanelToggled:
		var data CartPanelToggled
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		c.Open = data.Open
	}

	c.recountUnits()
	c.Version = event.Version
	return nil
}

func (c *Cart) lineIndex(productID int) int {
	for i, line := range c.Lines {
		if line.Product.ID == productID {
			return i
		}
	}
	return -1
}

// recountUnits keeps Count equal to the sum of all line units after every
// applied event.
func (c *Cart) recountUnits() {
	total := 0
	for _, line := range c.Lines {
		total += line.Units
	}
	c.Count = total
}

// Service handles cart domain operations
type Service struct {
	eventStore store.EventStoreInterface
}

func NewService(es store.EventStoreInterface) *Service {
	return &Service{eventStore: es}
}

// Load rebuilds a session's cart from snapshot and events. The boolean
// reports whether any recorded state exists for the session.
func (s *Service) Load(ctx context.Context, sessionID string) (*Cart, bool, error) {
	cartID := CartID(sessionID)
	return aggregate.Load(ctx, s.eventStore, cartID, func() *Cart {
		return &Cart{ID: cartID, SessionID: sessionID}
	})
}

// AddItem puts units of a product into the cart. Units must be positive and
// within the product's stock at the time of the call; otherwise nothing is
// recorded and a sentinel error reports why.
func (s *Service) AddItem(ctx context.Context, sessionID string, product catalog.Product, units int) (*Cart, error) {
	if units <= 0 {
		return nil, ErrInvalidUnits
	}
	if units > product.Stock {
		return nil, ErrExceedsStock
	}

	cartID := CartID(sessionID)
	event := ItemAddedToCart{
		CartID:    cartID,
		SessionID: sessionID,
		Product:   product,
		Units:     units,
		AddedAt:   time.Now(),
	}
	return s.apply(ctx, sessionID, EventItemAdded, event)
}

// AdjustUnits moves one line's unit count a single step up or down. Reaching
// zero removes the line entirely.
func (s *Service) AdjustUnits(ctx context.Context, sessionID string, productID int, direction Direction) (*Cart, error) {
	if direction != DirectionAdd && direction != DirectionSubtract {
		return nil, ErrInvalidDirection
	}

	current, _, err := s.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if current.lineIndex(productID) < 0 {
		return nil, ErrLineNotFound
	}

	event := UnitsAdjusted{
		CartID:     current.ID,
		SessionID:  sessionID,
		ProductID:  productID,
		Direction:  direction,
		AdjustedAt: time.Now(),
	}
	return s.apply(ctx, sessionID, EventUnitsAdjusted, event)
}

// RemoveItem drops a line regardless of its unit count. Removing a product
// that is not in the cart is a no-op, so the operation is idempotent.
func (s *Service) RemoveItem(ctx context.Context, sessionID string, productID int) (*Cart, error) {
	event := ItemRemovedFromCart{
		CartID:    CartID(sessionID),
		SessionID: sessionID,
		ProductID: productID,
		RemovedAt: time.Now(),
	}
	return s.apply(ctx, sessionID, EventItemRemoved, event)
}

// Clear empties the cart. Called after a completed checkout.
func (s *Service) Clear(ctx context.Context, sessionID string) (*Cart, error) {
	event := CartCleared{
		CartID:    CartID(sessionID),
		SessionID: sessionID,
		ClearedAt: time.Now(),
	}
	return s.apply(ctx, sessionID, EventCartCleared, event)
}

// SetPanelOpen shows or hides the cart panel.
func (s *Service) SetPanelOpen(ctx context.Context, sessionID string, open bool) (*Cart, error) {
	event := CartPanelToggled{
		CartID:    CartID(sessionID),
		SessionID: sessionID,
		Open:      open,
		ToggledAt: time.Now(),
	}
	return s.apply(ctx, sessionID, EventPanelToggled, event)
}

// Initialize replaces the cart state wholesale, used to hydrate a session
// from persisted storage.
func (s *Service) Initialize(ctx context.Context, sessionID string, lines []Line, open bool) (*Cart, error) {
	event := CartInitialized{
		CartID:        CartID(sessionID),
		SessionID:     sessionID,
		Lines:         lines,
		Open:          open,
		InitializedAt: time.Now(),
	}
	return s.apply(ctx, sessionID, EventCartInitialized, event)
}

// apply loads the current cart, appends the event and folds it into the
// loaded state, snapshotting when the threshold is reached.
func (s *Service) apply(ctx context.Context, sessionID, eventType string, data any) (*Cart, error) {
	current, _, err := s.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	stored, err := s.eventStore.Append(ctx, current.ID, AggregateType, eventType, data)
	if err != nil {
		return nil, err
	}

	if err := current.ApplyEvent(*stored); err != nil {
		return nil, err
	}

	if err := aggregate.MaybeCreateSnapshot(ctx, s.eventStore, current, AggregateType); err != nil {
		log.Printf("[Cart] Failed to create snapshot for cart %s: %v", current.ID, err)
	}

	return current, nil
}
