package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/example/storefront/internal/catalog"
	"github.com/example/storefront/internal/command"
	"github.com/example/storefront/internal/domain/cart"
	"github.com/example/storefront/internal/domain/order"
	"github.com/example/storefront/internal/domain/selection"
	"github.com/example/storefront/internal/infrastructure/store"
	"github.com/example/storefront/internal/infrastructure/store/mocks"
	"github.com/example/storefront/internal/listing"
	"github.com/example/storefront/internal/query"
	"github.com/example/storefront/internal/share"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiFetcher struct{}

func (apiFetcher) FetchPage(ctx context.Context, category string, page int) (*catalog.Page, error) {
	return &catalog.Page{Products: []catalog.Product{{ID: 1}}, LastPage: 4, TotalResults: 40, From: 1, To: 10}, nil
}

type apiClipboard struct{}

func (apiClipboard) WriteText(ctx context.Context, text string) error { return nil }

func newTestServer() http.Handler {
	eventStore := mocks.NewMockEventStore()
	readStore := mocks.NewMockReadStore()

	cmdHandler := command.NewHandler(
		cart.NewService(eventStore),
		selection.NewService(eventStore),
		order.NewService(eventStore),
		store.NewMemoryCartStore(),
		listing.NewManager(apiFetcher{}, nil, 0),
		share.NewService("https://shop.example.com", apiClipboard{}, share.DefaultNoticeTTL),
	)
	return NewRouter(NewHandlers(cmdHandler, query.NewHandler(readStore)))
}

func doRequest(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(SessionHeader, "sess-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAPI_AddToCart(t *testing.T) {
	router := newTestServer()

	rec := doRequest(t, router, http.MethodPost, "/cart/items",
		`{"product": {"id": 7, "title": "Mochila", "price": 1000, "stock": 5}, "units": 2}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var c cart.Cart
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &c))
	assert.Equal(t, 2, c.Count)
}

func TestAPI_AddToCart_ExceedsStock(t *testing.T) {
	router := newTestServer()

	rec := doRequest(t, router, http.MethodPost, "/cart/items",
		`{"product": {"id": 7, "price": 1000, "stock": 1}, "units": 3}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPI_AdjustAndRemove(t *testing.T) {
	router := newTestServer()

	doRequest(t, router, http.MethodPost, "/cart/items",
		`{"product": {"id": 7, "price": 1000, "stock": 5}, "units": 1}`)

	rec := doRequest(t, router, http.MethodPost, "/cart/items/7/adjust", `{"direction": "+1"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var c cart.Cart
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &c))
	assert.Equal(t, 2, c.Count)

	rec = doRequest(t, router, http.MethodDelete, "/cart/items/7", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &c))
	assert.Equal(t, 0, c.Count)
}

func TestAPI_GetCart_EmptySession(t *testing.T) {
	router := newTestServer()

	rec := doRequest(t, router, http.MethodGet, "/cart", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"count":0`)
}

func TestAPI_MintsSessionID(t *testing.T) {
	router := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(SessionHeader))
}

func TestAPI_Checkout(t *testing.T) {
	router := newTestServer()

	doRequest(t, router, http.MethodPost, "/cart/items",
		`{"product": {"id": 7, "price": 1000, "stock": 5, "discount": 50}, "units": 2}`)

	rec := doRequest(t, router, http.MethodPost, "/orders", "")
	require.Equal(t, http.StatusCreated, rec.Code)

	var o order.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &o))
	assert.Equal(t, 1000.0, o.Total)
}

func TestAPI_Checkout_EmptyCart(t *testing.T) {
	router := newTestServer()

	rec := doRequest(t, router, http.MethodPost, "/orders", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPI_ListingPageChange(t *testing.T) {
	router := newTestServer()

	rec := doRequest(t, router, http.MethodPost, "/listing/page", `{"page": 2}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var view listing.View
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, listing.StateLoaded, view.State)
	assert.Equal(t, 2, view.Page)
	assert.Equal(t, 4, view.TotalPages)
}

func TestAPI_ListingPageChange_InvalidPage(t *testing.T) {
	router := newTestServer()

	rec := doRequest(t, router, http.MethodPost, "/listing/page", `{"page": 0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPI_ShareFlow(t *testing.T) {
	router := newTestServer()

	rec := doRequest(t, router, http.MethodPost, "/share/7", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "https://shop.example.com/producto/7")

	rec = doRequest(t, router, http.MethodGet, "/share/notice", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Enlace copiado")

	rec = doRequest(t, router, http.MethodDelete, "/share/notice", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/share/notice", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestAPI_MethodNotAllowed(t *testing.T) {
	router := newTestServer()

	rec := doRequest(t, router, http.MethodPut, "/cart", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
