package projection

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/example/storefront/internal/catalog"
	"github.com/example/storefront/internal/domain/cart"
	"github.com/example/storefront/internal/domain/order"
	"github.com/example/storefront/internal/domain/selection"
	"github.com/example/storefront/internal/infrastructure/store"
	"github.com/example/storefront/internal/readmodel"
)

// Projector consumes domain events and maintains the read models the query
// side serves.
type Projector struct {
	readStore store.ReadStoreInterface
}

func NewProjector(readStore store.ReadStoreInterface) *Projector {
	return &Projector{readStore: readStore}
}

// HandleEvent processes a single event from Kafka.
func (p *Projector) HandleEvent(ctx context.Context, key, value []byte) error {
	var event store.Event
	if err := json.Unmarshal(value, &event); err != nil {
		return err
	}

	log.Printf("[Projector] Received event: %s (aggregate: %s)", event.EventType, event.AggregateType)

	switch event.AggregateType {
	case cart.AggregateType:
		return p.handleCartEvent(event)
	case selection.AggregateType:
		return p.handleSelectionEvent(event)
	case order.AggregateType:
		return p.handleOrderEvent(event)
	}

	return nil
}

func (p *Projector) handleCartEvent(event store.Event) error {
	switch event.EventType {
	case cart.EventCartInitialized:
		var e cart.CartInitialized
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		view := &readmodel.CartView{
			ID:        e.CartID,
			SessionID: e.SessionID,
			Lines:     make([]readmodel.CartLineView, 0, len(e.Lines)),
			Open:      e.Open,
		}
		for _, line := range e.Lines {
			view.Lines = append(view.Lines, lineView(line.Product, line.Units))
		}
		recalculateCart(view, e.InitializedAt)
		p.readStore.Set("carts", e.CartID, view)

	case cart.EventItemAdded:
		var e cart.ItemAddedToCart
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.upsertCart(e.CartID, e.SessionID, func(view *readmodel.CartView) {
			for i := range view.Lines {
				if view.Lines[i].ProductID == e.Product.ID {
					merged := lineView(e.Product, view.Lines[i].Units+e.Units)
					view.Lines[i] = merged
					recalculateCart(view, e.AddedAt)
					return
				}
			}
			view.Lines = append(view.Lines, lineView(e.Product, e.Units))
			recalculateCart(view, e.AddedAt)
		})

	case cart.EventUnitsAdjusted:
		var e cart.UnitsAdjusted
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.upsertCart(e.CartID, e.SessionID, func(view *readmodel.CartView) {
			for i := range view.Lines {
				if view.Lines[i].ProductID != e.ProductID {
					continue
				}
				if e.Direction == cart.DirectionAdd {
					view.Lines[i].Units++
				} else {
					view.Lines[i].Units--
					if view.Lines[i].Units <= 0 {
						view.Lines = append(view.Lines[:i], view.Lines[i+1:]...)
					}
				}
				break
			}
			recalculateCart(view, e.AdjustedAt)
		})

	case cart.EventItemRemoved:
		var e cart.ItemRemovedFromCart
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.upsertCart(e.CartID, e.SessionID, func(view *readmodel.CartView) {
			for i := range view.Lines {
				if view.Lines[i].ProductID == e.ProductID {
					view.Lines = append(view.Lines[:i], view.Lines[i+1:]...)
					break
				}
			}
			recalculateCart(view, e.RemovedAt)
		})

	case cart.EventCartCleared:
		var e cart.CartCleared
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.upsertCart(e.CartID, e.SessionID, func(view *readmodel.CartView) {
			view.Lines = view.Lines[:0]
			recalculateCart(view, e.ClearedAt)
		})

	case cart.EventPanelToggled:
		var e cart.CartPanelToggled
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.upsertCart(e.CartID, e.SessionID, func(view *readmodel.CartView) {
			view.Open = e.Open
			view.UpdatedAt = e.ToggledAt
		})
	}

	return nil
}

func (p *Projector) handleSelectionEvent(event store.Event) error {
	switch event.EventType {
	case selection.EventProductDisplayed:
		var e selection.ProductDisplayed
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.upsertSelection(e.SelectionID, e.SessionID, func(view *readmodel.SelectionView) {
			product := e.Product
			view.Product = &product
			view.DisplayPrice = catalog.FormatPrice(catalog.EffectivePrice(product))
			if product.Discount > 0 {
				view.DisplayListPrice = catalog.FormatPrice(product.Price)
			} else {
				view.DisplayListPrice = ""
			}
			view.UpdatedAt = e.DisplayedAt
		})

	case selection.EventProductCleared:
		var e selection.ProductCleared
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.upsertSelection(e.SelectionID, e.SessionID, func(view *readmodel.SelectionView) {
			view.Product = nil
			view.DisplayPrice = ""
			view.DisplayListPrice = ""
			view.UpdatedAt = e.ClearedAt
		})

	case selection.EventCategorySelected:
		var e selection.CategorySelected
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.upsertSelection(e.SelectionID, e.SessionID, func(view *readmodel.SelectionView) {
			view.Category = e.Category
			view.UpdatedAt = e.SelectedAt
		})
	}

	return nil
}

func (p *Projector) handleOrderEvent(event store.Event) error {
	switch event.EventType {
	case order.EventOrderPlaced:
		var e order.OrderPlaced
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		items := make([]readmodel.OrderItemView, 0, len(e.Items))
		for _, item := range e.Items {
			items = append(items, readmodel.OrderItemView{
				ProductID:        item.ProductID,
				Title:            item.Title,
				Units:            item.Units,
				UnitPrice:        item.UnitPrice,
				DisplayUnitPrice: catalog.FormatPrice(item.UnitPrice),
			})
		}
		p.readStore.Set("orders", e.OrderID, &readmodel.OrderView{
			ID:           e.OrderID,
			SessionID:    e.SessionID,
			Items:        items,
			Total:        e.Total,
			DisplayTotal: catalog.FormatPrice(e.Total),
			PlacedAt:     e.PlacedAt,
		})
	}

	return nil
}

// upsertCart updates an existing cart view or seeds an empty one first. The
// panel toggle can arrive before any item event, so a missing view is normal.
func (p *Projector) upsertCart(cartID, sessionID string, mutate func(*readmodel.CartView)) {
	updated := p.readStore.Update("carts", cartID, func(current any) any {
		view := current.(*readmodel.CartView)
		mutate(view)
		return view
	})
	if !updated {
		view := &readmodel.CartView{
			ID:        cartID,
			SessionID: sessionID,
			Lines:     []readmodel.CartLineView{},
		}
		mutate(view)
		p.readStore.Set("carts", cartID, view)
	}
}

func (p *Projector) upsertSelection(selectionID, sessionID string, mutate func(*readmodel.SelectionView)) {
	updated := p.readStore.Update("selections", selectionID, func(current any) any {
		view := current.(*readmodel.SelectionView)
		mutate(view)
		return view
	})
	if !updated {
		view := &readmodel.SelectionView{
			ID:        selectionID,
			SessionID: sessionID,
		}
		mutate(view)
		p.readStore.Set("selections", selectionID, view)
	}
}

func lineView(product catalog.Product, units int) readmodel.CartLineView {
	line := readmodel.CartLineView{
		ProductID: product.ID,
		Title:     product.Title,
		Units:     units,
		UnitPrice: catalog.EffectivePrice(product),
		ListPrice: product.Price,
		Discount:  product.Discount,
	}
	line.DisplayPrice = catalog.FormatPrice(line.UnitPrice)
	if product.Discount > 0 {
		line.DisplayListPrice = catalog.FormatPrice(product.Price)
	}
	if len(product.Images) > 0 {
		line.ImageURL = product.Images[0].URL
	}
	return line
}

func recalculateCart(view *readmodel.CartView, at time.Time) {
	count := 0
	total := 0.0
	for _, line := range view.Lines {
		count += line.Units
		total += line.UnitPrice * float64(line.Units)
	}
	view.Count = count
	view.Total = total
	view.DisplayTotal = catalog.FormatPrice(total)
	view.UpdatedAt = at
}
