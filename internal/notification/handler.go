package notification

import (
	"context"
	"encoding/json"
	"log"

	"github.com/example/storefront/internal/catalog"
	"github.com/example/storefront/internal/domain/order"
	"github.com/example/storefront/internal/infrastructure/store"
)

// Handler turns OrderPlaced events into order confirmations. Sessions are
// anonymous, so confirmations go to the service log instead of a mailbox.
type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

// HandleEvent processes an event from Kafka.
func (h *Handler) HandleEvent(ctx context.Context, key, value []byte) error {
	var event store.Event
	if err := json.Unmarshal(value, &event); err != nil {
		log.Printf("[Notifier] Failed to unmarshal event: %v", err)
		return err
	}

	if event.EventType == order.EventOrderPlaced {
		return h.handleOrderPlaced(event)
	}

	return nil
}

func (h *Handler) handleOrderPlaced(event store.Event) error {
	var e order.OrderPlaced
	if err := json.Unmarshal(event.Data, &e); err != nil {
		log.Printf("[Notifier] Failed to unmarshal OrderPlaced event: %v", err)
		return err
	}

	log.Printf("[Notifier] Order %s confirmed for session %s (%s)",
		e.OrderID, e.SessionID, catalog.FormatPrice(e.Total))
	for _, item := range e.Items {
		log.Printf("[Notifier]   %dx %s @ %s", item.Units, item.Title, catalog.FormatPrice(item.UnitPrice))
	}

	return nil
}
