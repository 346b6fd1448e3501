package order

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/example/storefront/internal/catalog"
	"github.com/example/storefront/internal/domain/cart"
	"github.com/example/storefront/internal/infrastructure/store"
	"github.com/google/uuid"
)

const AggregateType = "Order"

var ErrEmptyOrder = errors.New("order must have at least one item")

// Order is a completed checkout. Payment and fulfillment live elsewhere;
// the storefront only records what was bought and clears the cart.
type Order struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Items     []Item    `json:"items"`
	Total     float64   `json:"total"`
	PlacedAt  time.Time `json:"placed_at"`
	Version   int       `json:"version"`
}

// ApplyEvent applies a single event to the order state.
func (o *Order) ApplyEvent(event store.Event) error {
	switch event.EventType {
	case EventOrderPlaced:
		var data OrderPlaced
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		o.ID = data.OrderID
		o.SessionID = data.SessionID
		o.Items = data.Items
		o.Total = data.Total
		o.PlacedAt = data.PlacedAt
	}
	o.Version = event.Version
	return nil
}

// Service handles order domain operations
type Service struct {
	eventStore store.EventStoreInterface
}

func NewService(es store.EventStoreInterface) *Service {
	return &Service{eventStore: es}
}

// Place records a checkout from the given cart lines. Each item is charged
// its effective price and the total follows from that.
func (s *Service) Place(ctx context.Context, sessionID string, lines []cart.Line) (*Order, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyOrder
	}

	items := make([]Item, 0, len(lines))
	total := 0.0
	for _, line := range lines {
		unitPrice := catalog.EffectivePrice(line.Product)
		items = append(items, Item{
			ProductID: line.Product.ID,
			Title:     line.Product.Title,
			Units:     line.Units,
			UnitPrice: unitPrice,
		})
		total += unitPrice * float64(line.Units)
	}

	orderID := uuid.New().String()
	now := time.Now()

	event := OrderPlaced{
		OrderID:   orderID,
		SessionID: sessionID,
		Items:     items,
		Total:     total,
		PlacedAt:  now,
	}

	if _, err := s.eventStore.Append(ctx, orderID, AggregateType, EventOrderPlaced, event); err != nil {
		return nil, err
	}

	return &Order{
		ID:        orderID,
		SessionID: sessionID,
		Items:     items,
		Total:     total,
		PlacedAt:  now,
	}, nil
}
