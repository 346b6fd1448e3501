package cart

import (
	"context"
	"testing"

	"github.com/example/storefront/internal/catalog"
	"github.com/example/storefront/internal/infrastructure/store/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCartService() (*Service, *mocks.MockEventStore) {
	eventStore := mocks.NewMockEventStore()
	service := NewService(eventStore)
	return service, eventStore
}

func testProduct(id int, stock int) catalog.Product {
	return catalog.Product{
		ID:    id,
		Title: "leather wallet",
		Price: 1000,
		Stock: stock,
		Brand: "stallion",
		Type:  "wallets",
	}
}

// assertCountInvariant checks that Count equals the sum of line units.
func assertCountInvariant(t *testing.T, c *Cart) {
	t.Helper()
	total := 0
	for _, line := range c.Lines {
		total += line.Units
	}
	assert.Equal(t, total, c.Count)
}

// ============================================
// CartID Tests
// ============================================

func TestCartID(t *testing.T) {
	tests := []struct {
		name       string
		sessionID  string
		expectedID string
	}{
		{"normal session", "session-123", "cart-session-123"},
		{"UUID session", "550e8400-e29b-41d4-a716-446655440000", "cart-550e8400-e29b-41d4-a716-446655440000"},
		{"empty session", "", "cart-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedID, CartID(tt.sessionID))
		})
	}
}

// ============================================
// AddItem Tests
// ============================================

func TestService_AddItem_Success(t *testing.T) {
	service, eventStore := newTestCartService()
	ctx := context.Background()

	cart, err := service.AddItem(ctx, "s1", testProduct(1, 5), 2)

	require.NoError(t, err)
	require.Len(t, eventStore.AppendCalls, 1)
	assert.Equal(t, EventItemAdded, eventStore.AppendCalls[0].EventType)
	assert.Equal(t, AggregateType, eventStore.AppendCalls[0].AggregateType)
	assert.Equal(t, "cart-s1", eventStore.AppendCalls[0].AggregateID)

	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 2, cart.Lines[0].Units)
	assert.Equal(t, 2, cart.Count)
	assertCountInvariant(t, cart)
}

func TestService_AddItem_SameProductMergesIntoOneLine(t *testing.T) {
	service, _ := newTestCartService()
	ctx := context.Background()

	_, err := service.AddItem(ctx, "s1", testProduct(1, 10), 2)
	require.NoError(t, err)
	cart, err := service.AddItem(ctx, "s1", testProduct(1, 10), 3)
	require.NoError(t, err)

	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 5, cart.Lines[0].Units)
	assert.Equal(t, 5, cart.Count)
}

func TestService_AddItem_DifferentProductsKeepInsertionOrder(t *testing.T) {
	service, _ := newTestCartService()
	ctx := context.Background()

	service.AddItem(ctx, "s1", testProduct(2, 5), 1)
	service.AddItem(ctx, "s1", testProduct(7, 5), 1)
	cart, err := service.AddItem(ctx, "s1", testProduct(3, 5), 1)
	require.NoError(t, err)

	require.Len(t, cart.Lines, 3)
	assert.Equal(t, 2, cart.Lines[0].Product.ID)
	assert.Equal(t, 7, cart.Lines[1].Product.ID)
	assert.Equal(t, 3, cart.Lines[2].Product.ID)
}

func TestService_AddItem_ZeroUnits(t *testing.T) {
	service, eventStore := newTestCartService()

	_, err := service.AddItem(context.Background(), "s1", testProduct(1, 5), 0)

	assert.ErrorIs(t, err, ErrInvalidUnits)
	assert.Empty(t, eventStore.AppendCalls)
}

func TestService_AddItem_NegativeUnits(t *testing.T) {
	service, eventStore := newTestCartService()

	_, err := service.AddItem(context.Background(), "s1", testProduct(1, 5), -2)

	assert.ErrorIs(t, err, ErrInvalidUnits)
	assert.Empty(t, eventStore.AppendCalls)
}

func TestService_AddItem_UnitsExceedStock(t *testing.T) {
	service, eventStore := newTestCartService()

	_, err := service.AddItem(context.Background(), "s1", testProduct(1, 3), 4)

	assert.ErrorIs(t, err, ErrExceedsStock)
	assert.Empty(t, eventStore.AppendCalls)
}

func TestService_AddItem_OutOfStockProduct(t *testing.T) {
	service, eventStore := newTestCartService()

	_, err := service.AddItem(context.Background(), "s1", testProduct(1, 0), 1)

	assert.ErrorIs(t, err, ErrExceedsStock)
	assert.Empty(t, eventStore.AppendCalls)
}

func TestService_AddItem_UnitsEqualStock(t *testing.T) {
	service, _ := newTestCartService()

	cart, err := service.AddItem(context.Background(), "s1", testProduct(1, 3), 3)

	require.NoError(t, err)
	assert.Equal(t, 3, cart.Count)
}

// ============================================
// AdjustUnits Tests
// ============================================

func TestService_AdjustUnits_Increment(t *testing.T) {
	service, _ := newTestCartService()
	ctx := context.Background()

	service.AddItem(ctx, "s1", testProduct(1, 5), 2)
	cart, err := service.AdjustUnits(ctx, "s1", 1, DirectionAdd)

	require.NoError(t, err)
	assert.Equal(t, 3, cart.Lines[0].Units)
	assert.Equal(t, 3, cart.Count)
	assertCountInvariant(t, cart)
}

func TestService_AdjustUnits_Decrement(t *testing.T) {
	service, _ := newTestCartService()
	ctx := context.Background()

	service.AddItem(ctx, "s1", testProduct(1, 5), 2)
	cart, err := service.AdjustUnits(ctx, "s1", 1, DirectionSubtract)

	require.NoError(t, err)
	assert.Equal(t, 1, cart.Lines[0].Units)
	assert.Equal(t, 1, cart.Count)
}

func TestService_AdjustUnits_DecrementAtOneRemovesLine(t *testing.T) {
	service, _ := newTestCartService()
	ctx := context.Background()

	service.AddItem(ctx, "s1", testProduct(1, 5), 1)
	cart, err := service.AdjustUnits(ctx, "s1", 1, DirectionSubtract)

	require.NoError(t, err)
	assert.Empty(t, cart.Lines)
	assert.Equal(t, 0, cart.Count)
}

func TestService_AdjustUnits_UnknownProduct(t *testing.T) {
	service, eventStore := newTestCartService()
	ctx := context.Background()

	service.AddItem(ctx, "s1", testProduct(1, 5), 1)
	_, err := service.AdjustUnits(ctx, "s1", 99, DirectionAdd)

	assert.ErrorIs(t, err, ErrLineNotFound)
	assert.Len(t, eventStore.AppendCalls, 1) // only the add was recorded
}

func TestService_AdjustUnits_InvalidDirection(t *testing.T) {
	service, eventStore := newTestCartService()

	_, err := service.AdjustUnits(context.Background(), "s1", 1, Direction("+2"))

	assert.ErrorIs(t, err, ErrInvalidDirection)
	assert.Empty(t, eventStore.AppendCalls)
}

// ============================================
// RemoveItem Tests
// ============================================

func TestService_RemoveItem_DropsLineRegardlessOfUnits(t *testing.T) {
	service, _ := newTestCartService()
	ctx := context.Background()

	service.AddItem(ctx, "s1", testProduct(1, 10), 7)
	cart, err := service.RemoveItem(ctx, "s1", 1)

	require.NoError(t, err)
	assert.Empty(t, cart.Lines)
	assert.Equal(t, 0, cart.Count)
}

func TestService_RemoveItem_Idempotent(t *testing.T) {
	service, _ := newTestCartService()
	ctx := context.Background()

	service.AddItem(ctx, "s1", testProduct(1, 5), 2)

	first, err := service.RemoveItem(ctx, "s1", 1)
	require.NoError(t, err)
	second, err := service.RemoveItem(ctx, "s1", 1)
	require.NoError(t, err)

	assert.Equal(t, first.Lines, second.Lines)
	assert.Equal(t, first.Count, second.Count)
}

func TestService_RemoveItem_AbsentProductIsNoOp(t *testing.T) {
	service, _ := newTestCartService()
	ctx := context.Background()

	service.AddItem(ctx, "s1", testProduct(1, 5), 2)
	cart, err := service.RemoveItem(ctx, "s1", 42)

	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 2, cart.Count)
}

func TestService_RemoveItem_OnlyTargetLineRemoved(t *testing.T) {
	service, _ := newTestCartService()
	ctx := context.Background()

	service.AddItem(ctx, "s1", testProduct(1, 5), 2)
	service.AddItem(ctx, "s1", testProduct(2, 5), 3)
	cart, err := service.RemoveItem(ctx, "s1", 1)

	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 2, cart.Lines[0].Product.ID)
	assert.Equal(t, 3, cart.Count)
}

// ============================================
// Clear / Panel / Initialize Tests
// ============================================

func TestService_Clear(t *testing.T) {
	service, _ := newTestCartService()
	ctx := context.Background()

	service.AddItem(ctx, "s1", testProduct(1, 5), 2)
	service.AddItem(ctx, "s1", testProduct(2, 5), 1)
	cart, err := service.Clear(ctx, "s1")

	require.NoError(t, err)
	assert.Empty(t, cart.Lines)
	assert.Equal(t, 0, cart.Count)
}

func TestService_SetPanelOpen(t *testing.T) {
	service, _ := newTestCartService()
	ctx := context.Background()

	cart, err := service.SetPanelOpen(ctx, "s1", true)
	require.NoError(t, err)
	assert.True(t, cart.Open)

	cart, err = service.SetPanelOpen(ctx, "s1", false)
	require.NoError(t, err)
	assert.False(t, cart.Open)
}

func TestService_Initialize_ReplacesStateWholesale(t *testing.T) {
	service, _ := newTestCartService()
	ctx := context.Background()

	service.AddItem(ctx, "s1", testProduct(1, 5), 2)

	hydrated := []Line{
		{Product: testProduct(8, 5), Units: 1},
		{Product: testProduct(9, 5), Units: 4},
	}
	cart, err := service.Initialize(ctx, "s1", hydrated, true)

	require.NoError(t, err)
	require.Len(t, cart.Lines, 2)
	assert.Equal(t, 8, cart.Lines[0].Product.ID)
	assert.Equal(t, 5, cart.Count)
	assert.True(t, cart.Open)
	assertCountInvariant(t, cart)
}

// ============================================
// Load / Replay Tests
// ============================================

func TestService_Load_EmptySession(t *testing.T) {
	service, _ := newTestCartService()

	cart, found, err := service.Load(context.Background(), "fresh")

	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, cart.Lines)
	assert.Equal(t, 0, cart.Count)
	assert.Equal(t, "cart-fresh", cart.ID)
}

func TestService_Load_RebuildsFromEvents(t *testing.T) {
	service, _ := newTestCartService()
	ctx := context.Background()

	service.AddItem(ctx, "s1", testProduct(1, 5), 2)
	service.AddItem(ctx, "s1", testProduct(2, 5), 1)
	service.AdjustUnits(ctx, "s1", 1, DirectionAdd)
	service.RemoveItem(ctx, "s1", 2)

	cart, found, err := service.Load(ctx, "s1")

	require.NoError(t, err)
	assert.True(t, found)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 1, cart.Lines[0].Product.ID)
	assert.Equal(t, 3, cart.Lines[0].Units)
	assert.Equal(t, 3, cart.Count)
}

func TestService_SnapshotCreatedAtThreshold(t *testing.T) {
	service, eventStore := newTestCartService()
	ctx := context.Background()

	// SnapshotThreshold is 10; drive exactly that many events.
	service.AddItem(ctx, "s1", testProduct(1, 100), 1)
	for i := 0; i < 9; i++ {
		_, err := service.AdjustUnits(ctx, "s1", 1, DirectionAdd)
		require.NoError(t, err)
	}

	require.NotEmpty(t, eventStore.SavedSnapshots)
	assert.Equal(t, 10, eventStore.SavedSnapshots[0].Version)
	assert.Equal(t, "cart-s1", eventStore.SavedSnapshots[0].AggregateID)
}

// ============================================
// Lifecycle scenario
// ============================================

func TestCartLifecycleScenario(t *testing.T) {
	service, _ := newTestCartService()
	ctx := context.Background()

	product := catalog.Product{ID: 1, Price: 1000, Stock: 5}

	cart, err := service.AddItem(ctx, "s1", product, 2)
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 2, cart.Lines[0].Units)
	assert.Equal(t, 2, cart.Count)

	cart, err = service.AdjustUnits(ctx, "s1", 1, DirectionAdd)
	require.NoError(t, err)
	assert.Equal(t, 3, cart.Lines[0].Units)
	assert.Equal(t, 3, cart.Count)

	cart, err = service.RemoveItem(ctx, "s1", 1)
	require.NoError(t, err)
	assert.Empty(t, cart.Lines)
	assert.Equal(t, 0, cart.Count)
}
