package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testPayload struct {
	ProductID int `json:"product_id"`
	Units     int `json:"units"`
}

// ============================================
// EventStore Tests
// ============================================

func TestEventStore_AppendAssignsSequentialVersions(t *testing.T) {
	es := NewEventStore(nil)
	ctx := context.Background()

	e1, err := es.Append(ctx, "cart-s1", "Cart", "ItemAddedToCart", testPayload{ProductID: 1, Units: 2})
	require.NoError(t, err)
	e2, err := es.Append(ctx, "cart-s1", "Cart", "ItemAddedToCart", testPayload{ProductID: 2, Units: 1})
	require.NoError(t, err)

	assert.Equal(t, 1, e1.Version)
	assert.Equal(t, 2, e2.Version)
	assert.NotEqual(t, e1.ID, e2.ID)
}

func TestEventStore_VersionsAreScopedPerAggregate(t *testing.T) {
	es := NewEventStore(nil)
	ctx := context.Background()

	e1, err := es.Append(ctx, "cart-s1", "Cart", "ItemAddedToCart", testPayload{ProductID: 1, Units: 1})
	require.NoError(t, err)
	e2, err := es.Append(ctx, "cart-s2", "Cart", "ItemAddedToCart", testPayload{ProductID: 1, Units: 1})
	require.NoError(t, err)

	assert.Equal(t, 1, e1.Version)
	assert.Equal(t, 1, e2.Version)
}

func TestEventStore_GetEvents(t *testing.T) {
	es := NewEventStore(nil)
	ctx := context.Background()

	es.Append(ctx, "cart-s1", "Cart", "ItemAddedToCart", testPayload{ProductID: 1, Units: 1})
	es.Append(ctx, "cart-s1", "Cart", "ItemRemovedFromCart", testPayload{ProductID: 1})

	events := es.GetEvents("cart-s1")
	require.Len(t, events, 2)
	assert.Equal(t, "ItemAddedToCart", events[0].EventType)
	assert.Equal(t, "ItemRemovedFromCart", events[1].EventType)

	assert.Empty(t, es.GetEvents("cart-unknown"))
}

func TestEventStore_GetEventsFromVersion(t *testing.T) {
	es := NewEventStore(nil)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		es.Append(ctx, "cart-s1", "Cart", "ItemAddedToCart", testPayload{ProductID: i, Units: 1})
	}

	events := es.GetEventsFromVersion(ctx, "cart-s1", 3)
	require.Len(t, events, 2)
	assert.Equal(t, 4, events[0].Version)
	assert.Equal(t, 5, events[1].Version)
}

func TestEventStore_GetAllEvents(t *testing.T) {
	es := NewEventStore(nil)
	ctx := context.Background()

	es.Append(ctx, "cart-s1", "Cart", "ItemAddedToCart", testPayload{ProductID: 1, Units: 1})
	es.Append(ctx, "selection-s1", "Selection", "CategorySelected", map[string]string{"category": "bags"})

	assert.Len(t, es.GetAllEvents(), 2)
}

func TestEventStore_DataRoundTrips(t *testing.T) {
	es := NewEventStore(nil)
	ctx := context.Background()

	_, err := es.Append(ctx, "cart-s1", "Cart", "ItemAddedToCart", testPayload{ProductID: 7, Units: 3})
	require.NoError(t, err)

	events := es.GetEvents("cart-s1")
	require.Len(t, events, 1)

	var data testPayload
	require.NoError(t, json.Unmarshal(events[0].Data, &data))
	assert.Equal(t, 7, data.ProductID)
	assert.Equal(t, 3, data.Units)
}

// ============================================
// Snapshot Tests
// ============================================

func TestEventStore_SnapshotRoundTrip(t *testing.T) {
	es := NewEventStore(nil)
	ctx := context.Background()

	none, err := es.GetSnapshot(ctx, "cart-s1")
	require.NoError(t, err)
	assert.Nil(t, none)

	state, err := json.Marshal(map[string]any{"count": 3})
	require.NoError(t, err)

	snap := &Snapshot{
		AggregateID:   "cart-s1",
		AggregateType: "Cart",
		Version:       10,
		State:         state,
		CreatedAt:     time.Now(),
	}
	require.NoError(t, es.SaveSnapshot(ctx, snap))

	got, err := es.GetSnapshot(ctx, "cart-s1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 10, got.Version)
	assert.JSONEq(t, `{"count": 3}`, string(got.State))
}

func TestEventStore_GetSnapshotReturnsLatest(t *testing.T) {
	es := NewEventStore(nil)
	ctx := context.Background()

	for _, version := range []int{10, 20} {
		state, _ := json.Marshal(map[string]int{"version": version})
		require.NoError(t, es.SaveSnapshot(ctx, &Snapshot{
			AggregateID:   "cart-s1",
			AggregateType: "Cart",
			Version:       version,
			State:         state,
			CreatedAt:     time.Now(),
		}))
	}

	got, err := es.GetSnapshot(ctx, "cart-s1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 20, got.Version)
}
