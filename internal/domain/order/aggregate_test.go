package order

import (
	"context"
	"testing"

	"github.com/example/storefront/internal/catalog"
	"github.com/example/storefront/internal/domain/cart"
	"github.com/example/storefront/internal/infrastructure/store/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrderService() (*Service, *mocks.MockEventStore) {
	eventStore := mocks.NewMockEventStore()
	return NewService(eventStore), eventStore
}

func TestService_Place_Success(t *testing.T) {
	service, eventStore := newTestOrderService()

	lines := []cart.Line{
		{Product: catalog.Product{ID: 1, Title: "wallet", Price: 1000, Stock: 5}, Units: 2},
		{Product: catalog.Product{ID: 2, Title: "belt", Price: 400, Stock: 3}, Units: 1},
	}
	order, err := service.Place(context.Background(), "s1", lines)

	require.NoError(t, err)
	assert.NotEmpty(t, order.ID)
	require.Len(t, order.Items, 2)
	assert.InDelta(t, 2400, order.Total, 0.001)

	require.Len(t, eventStore.AppendCalls, 1)
	assert.Equal(t, EventOrderPlaced, eventStore.AppendCalls[0].EventType)
	assert.Equal(t, AggregateType, eventStore.AppendCalls[0].AggregateType)
}

func TestService_Place_ChargesEffectivePrices(t *testing.T) {
	service, _ := newTestOrderService()

	lines := []cart.Line{
		{Product: catalog.Product{ID: 1, Title: "wallet", Price: 1000, Discount: 50, Stock: 5}, Units: 2},
	}
	order, err := service.Place(context.Background(), "s1", lines)

	require.NoError(t, err)
	assert.InDelta(t, 500, order.Items[0].UnitPrice, 0.001)
	assert.InDelta(t, 1000, order.Total, 0.001)
}

func TestService_Place_EmptyCart(t *testing.T) {
	service, eventStore := newTestOrderService()

	_, err := service.Place(context.Background(), "s1", nil)

	assert.ErrorIs(t, err, ErrEmptyOrder)
	assert.Empty(t, eventStore.AppendCalls)
}
