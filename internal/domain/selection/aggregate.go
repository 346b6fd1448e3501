package selection

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/example/storefront/internal/catalog"
	"github.com/example/storefront/internal/domain/aggregate"
	"github.com/example/storefront/internal/infrastructure/store"
)

const AggregateType = "Selection"

// Selection tracks what one session is looking at: the product opened in the
// detail view (nil when browsing the grid) and the active category filter
// ("" means all categories).
type Selection struct {
	ID        string           `json:"id"`
	SessionID string           `json:"session_id"`
	Product   *catalog.Product `json:"product"`
	Category  string           `json:"category"`
	Version   int              `json:"version"`
}

// Aggregate interface implementation
func (s *Selection) GetID() string    { return s.ID }
func (s *Selection) GetVersion() int  { return s.Version }
func (s *Selection) SetVersion(v int) { s.Version = v }

// SelectionID returns the selection aggregate ID for a session.
func SelectionID(sessionID string) string {
	return "selection-" + sessionID
}

// ApplyEvent applies a single event to the selection state.
func (s *Selection) ApplyEvent(event store.Event) error {
	switch event.EventType {
	case EventProductDisplayed:
		var data ProductDisplayed
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		s.ID = data.SelectionID
		s.SessionID = data.SessionID
		product := data.Product
		s.Product = &product

	case EventProductCleared:
		var data ProductCleared
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		s.Product = nil

	case EventCategorySelected:
		var data CategorySelected
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		s.ID = data.SelectionID
		s.SessionID = data.SessionID
		s.Category = data.Category
	}

	s.Version = event.Version
	return nil
}

// Service handles selection domain operations
type Service struct {
	eventStore store.EventStoreInterface
}

func NewService(es store.EventStoreInterface) *Service {
	return &Service{eventStore: es}
}

// Load rebuilds a session's selection state.
func (s *Service) Load(ctx context.Context, sessionID string) (*Selection, error) {
	selectionID := SelectionID(sessionID)
	sel, _, err := aggregate.Load(ctx, s.eventStore, selectionID, func() *Selection {
		return &Selection{ID: selectionID, SessionID: sessionID}
	})
	return sel, err
}

// SetProduct replaces the currently displayed product unconditionally.
func (s *Service) SetProduct(ctx context.Context, sessionID string, product catalog.Product) (*Selection, error) {
	event := ProductDisplayed{
		SelectionID: SelectionID(sessionID),
		SessionID:   sessionID,
		Product:     product,
		DisplayedAt: time.Now(),
	}
	return s.apply(ctx, sessionID, EventProductDisplayed, event)
}

// ClearProduct closes the detail view ("back" in the UI).
func (s *Service) ClearProduct(ctx context.Context, sessionID string) (*Selection, error) {
	event := ProductCleared{
		SelectionID: SelectionID(sessionID),
		SessionID:   sessionID,
		ClearedAt:   time.Now(),
	}
	return s.apply(ctx, sessionID, EventProductCleared, event)
}

// SelectCategory replaces the active category filter. Re-selecting "all
// products" while already unfiltered appends nothing and reports changed ==
// false, so callers skip the redundant refetch.
func (s *Service) SelectCategory(ctx context.Context, sessionID, category string) (sel *Selection, changed bool, err error) {
	current, err := s.Load(ctx, sessionID)
	if err != nil {
		return nil, false, err
	}

	if current.Category == "" && category == "" {
		return current, false, nil
	}

	event := CategorySelected{
		SelectionID: current.ID,
		SessionID:   sessionID,
		Category:    category,
		SelectedAt:  time.Now(),
	}
	sel, err = s.apply(ctx, sessionID, EventCategorySelected, event)
	return sel, err == nil, err
}

func (s *Service) apply(ctx context.Context, sessionID, eventType string, data any) (*Selection, error) {
	current, err := s.Load(ctx, sessionID)
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
		log.Printf("[Selection] Failed to create snapshot for %s: %v", current.ID, err)
	}

	return current, nil
}
