package httptransport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"bookstore-fulfillment/internal/delivery"
	"bookstore-fulfillment/internal/fulfillment"
	"bookstore-fulfillment/internal/inventory"
	"bookstore-fulfillment/internal/model"
	"bookstore-fulfillment/internal/sales"
	"bookstore-fulfillment/internal/storage"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type seqGenerator struct{ n int }

func (g *seqGenerator) NewID() string             { g.n++; return fmt.Sprintf("id-%d", g.n) }
func (g *seqGenerator) NewPaymentID() string      { g.n++; return fmt.Sprintf("PAY-%d", g.n) }
func (g *seqGenerator) NewTrackingNumber() string { g.n++; return fmt.Sprintf("TRACK-%d", g.n) }

type declineGateway struct{}

func (declineGateway) Charge(context.Context, *model.Order, string) (string, error) {
	return "", errors.New("card declined")
}

func newTestMux(t *testing.T, gateway sales.Gateway, books []model.Book) (*http.ServeMux, *Handler) {
	t.Helper()
	dir := t.TempDir()
	clock := fixedClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	ids := &seqGenerator{}

	booksCol := storage.NewFileCollection(filepath.Join(dir, "books.json"))
	if books != nil {
		require.NoError(t, booksCol.Save(context.Background(), books))
	}

	catalog := inventory.New(booksCol, ids, clock, nil)
	orders := sales.New(storage.NewFileCollection(filepath.Join(dir, "orders.json")), gateway, ids, clock, nil)
	deliveries := delivery.New(storage.NewFileCollection(filepath.Join(dir, "deliveries.json")), ids, clock, nil)
	flow := fulfillment.New(catalog, orders, deliveries, nil, nil)

	h := New(catalog, orders, deliveries, flow, 2*time.Second, nil)
	mux := http.NewServeMux()
	h.Register(mux)
	mux.HandleFunc("GET /health", h.Health)
	return mux, h
}

func doJSON(t *testing.T, mux *http.ServeMux, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func seedBooks() []model.Book {
	return []model.Book{
		{ID: "b-1", Title: "The Go Programming Language", Author: "Donovan", Price: 39.99, StockQuantity: 10},
		{ID: "b-2", Title: "Concurrency in Go", Author: "Cox-Buday", Price: 34.99, StockQuantity: 5},
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()

	mux, _ := newTestMux(t, nil, nil)
	rec := doJSON(t, mux, http.MethodGet, "/health", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	require.Equal(t, "healthy", body["status"])
}

func TestGetBook(t *testing.T) {
	t.Parallel()

	mux, _ := newTestMux(t, nil, seedBooks())

	rec := doJSON(t, mux, http.MethodGet, "/api/inventory/books/b-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "The Go Programming Language", decodeBody(t, rec)["title"])

	rec = doJSON(t, mux, http.MethodGet, "/api/inventory/books/ghost", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "not_found", decodeBody(t, rec)["error"])
}

func TestBookStock(t *testing.T) {
	t.Parallel()

	mux, _ := newTestMux(t, nil, seedBooks())

	rec := doJSON(t, mux, http.MethodGet, "/api/inventory/books/b-2/stock?quantity=5", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	require.Equal(t, true, body["available"])

	rec = doJSON(t, mux, http.MethodGet, "/api/inventory/books/b-2/stock?quantity=6", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, false, decodeBody(t, rec)["available"])

	rec = doJSON(t, mux, http.MethodGet, "/api/inventory/books/b-2/stock?quantity=zero", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCompleteOrderEndpoint(t *testing.T) {
	t.Parallel()

	mux, _ := newTestMux(t, nil, seedBooks())

	rec := doJSON(t, mux, http.MethodPost, "/api/integration/orders/complete", map[string]any{
		"customer_name":    "Ada Lovelace",
		"customer_email":   "ada@example.com",
		"items":            []map[string]any{{"book_id": "b-1", "quantity": 3}},
		"shipping_address": "1 Main St",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decodeBody(t, rec)
	require.Equal(t, "order completed successfully", body["message"])
	require.NotEmpty(t, body["payment_id"])

	order := body["order"].(map[string]any)
	require.Equal(t, "paid", order["payment_status"])

	dlv := body["delivery"].(map[string]any)
	require.Equal(t, "preparing", dlv["status"])

	// Stock is visible through the inventory route.
	rec = doJSON(t, mux, http.MethodGet, "/api/inventory/books/b-1", nil)
	require.Equal(t, float64(7), decodeBody(t, rec)["stock_quantity"])
}

func TestCompleteOrderEndpointValidation(t *testing.T) {
	t.Parallel()

	mux, _ := newTestMux(t, nil, seedBooks())

	tests := []struct {
		name       string
		body       map[string]any
		wantStatus int
		wantKind   string
	}{
		{
			name: "missing_customer",
			body: map[string]any{
				"customer_email":   "ada@example.com",
				"items":            []map[string]any{{"book_id": "b-1", "quantity": 1}},
				"shipping_address": "1 Main St",
			},
			wantStatus: http.StatusBadRequest,
			wantKind:   "invalid_input",
		},
		{
			name: "missing_items",
			body: map[string]any{
				"customer_name":    "Ada",
				"customer_email":   "ada@example.com",
				"shipping_address": "1 Main St",
			},
			wantStatus: http.StatusBadRequest,
			wantKind:   "invalid_input",
		},
		{
			name: "unknown_book",
			body: map[string]any{
				"customer_name":    "Ada",
				"customer_email":   "ada@example.com",
				"items":            []map[string]any{{"book_id": "ghost", "quantity": 1}},
				"shipping_address": "1 Main St",
			},
			wantStatus: http.StatusNotFound,
			wantKind:   "not_found",
		},
		{
			name: "insufficient_stock",
			body: map[string]any{
				"customer_name":    "Ada",
				"customer_email":   "ada@example.com",
				"items":            []map[string]any{{"book_id": "b-2", "quantity": 10}},
				"shipping_address": "1 Main St",
			},
			wantStatus: http.StatusBadRequest,
			wantKind:   "insufficient_stock",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, mux, http.MethodPost, "/api/integration/orders/complete", tt.body)
			require.Equal(t, tt.wantStatus, rec.Code)
			require.Equal(t, tt.wantKind, decodeBody(t, rec)["error"])
		})
	}
}

func TestCompleteOrderEndpointPaymentFailure(t *testing.T) {
	t.Parallel()

	mux, _ := newTestMux(t, declineGateway{}, seedBooks())

	rec := doJSON(t, mux, http.MethodPost, "/api/integration/orders/complete", map[string]any{
		"customer_name":    "Ada",
		"customer_email":   "ada@example.com",
		"items":            []map[string]any{{"book_id": "b-1", "quantity": 2}},
		"shipping_address": "1 Main St",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "payment_failed", decodeBody(t, rec)["error"])

	// Stock restored.
	rec = doJSON(t, mux, http.MethodGet, "/api/inventory/books/b-1", nil)
	require.Equal(t, float64(10), decodeBody(t, rec)["stock_quantity"])
}

func TestOrderLifecycleOverHTTP(t *testing.T) {
	t.Parallel()

	mux, _ := newTestMux(t, nil, seedBooks())

	// Create a plain sales order.
	rec := doJSON(t, mux, http.MethodPost, "/api/sales/orders", map[string]any{
		"customer_name":  "Ada",
		"customer_email": "ada@example.com",
		"items": []map[string]any{
			{"book_id": "b-1", "title": "The Go Programming Language", "quantity": 2, "unit_price": 19.99},
			{"book_id": "b-2", "title": "Concurrency in Go", "quantity": 1, "unit_price": 24.99},
		},
		"shipping_address": "1 Main St",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeBody(t, rec)
	orderID := created["id"].(string)
	require.InDelta(t, 64.97, created["total_amount"].(float64), 0.001)

	// Pay it.
	rec = doJSON(t, mux, http.MethodPost, "/api/sales/orders/"+orderID+"/payment", map[string]any{
		"payment_method": "credit_card",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	// Paying twice is rejected as already processed.
	rec = doJSON(t, mux, http.MethodPost, "/api/sales/orders/"+orderID+"/payment", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "already_processed", decodeBody(t, rec)["error"])

	// Create its delivery, then fetch and advance it.
	rec = doJSON(t, mux, http.MethodPost, "/api/delivery/orders/"+orderID, map[string]any{
		"carrier": "Express Couriers",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "Express Couriers", decodeBody(t, rec)["carrier"])

	// A second delivery for the same order is rejected.
	rec = doJSON(t, mux, http.MethodPost, "/api/delivery/orders/"+orderID, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, mux, http.MethodPut, "/api/delivery/orders/"+orderID+"/status", map[string]any{
		"status": "shipped",
		"notes":  "left the warehouse",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "shipped", decodeBody(t, rec)["status"])

	// The integrated status view stitches all three stores together.
	rec = doJSON(t, mux, http.MethodGet, "/api/integration/orders/"+orderID+"/status", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	report := decodeBody(t, rec)
	require.NotNil(t, report["delivery"])
	require.Equal(t, "shipped", report["delivery"].(map[string]any)["status"])

	// Shipped orders cannot be cancelled... but this one is only
	// marked shipped on the delivery, not the order, so cancel works.
	rec = doJSON(t, mux, http.MethodPost, "/api/sales/orders/"+orderID+"/cancel", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestCancelShippedOrderRejected(t *testing.T) {
	t.Parallel()

	mux, h := newTestMux(t, nil, seedBooks())
	ctx := context.Background()

	order, err := h.orders.Create(ctx, "Ada", "ada@example.com", []sales.ItemInput{
		{BookID: "b-1", Title: "x", Quantity: 1, UnitPrice: 5},
	}, "")
	require.NoError(t, err)
	_, err = h.orders.UpdateStatus(ctx, order.ID, model.OrderStatusShipped)
	require.NoError(t, err)

	rec := doJSON(t, mux, http.MethodPost, "/api/sales/orders/"+order.ID+"/cancel", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "already_processed", decodeBody(t, rec)["error"])
}

func TestOrderStatusNotFoundOverHTTP(t *testing.T) {
	t.Parallel()

	mux, _ := newTestMux(t, nil, nil)
	rec := doJSON(t, mux, http.MethodGet, "/api/integration/orders/ghost/status", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCompleteOrderRejectsMalformedJSON(t *testing.T) {
	t.Parallel()

	mux, _ := newTestMux(t, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/integration/orders/complete",
		bytes.NewBufferString(`{"customer_name":`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "invalid_input", decodeBody(t, rec)["error"])
}
