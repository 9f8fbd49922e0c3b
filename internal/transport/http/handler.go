// Package httptransport implements the HTTP boundary for the
// bookstore: route registration, payload decoding, and the mapping
// from domain errors to HTTP statuses. The core receives typed
// arguments and returns domain objects; everything here is glue.
package httptransport

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"bookstore-fulfillment/internal/delivery"
	"bookstore-fulfillment/internal/fulfillment"
	"bookstore-fulfillment/internal/inventory"
	"bookstore-fulfillment/internal/sales"
)

// Handler serves the bookstore API.
type Handler struct {
	catalog        *inventory.Service
	orders         *sales.Service
	deliveries     *delivery.Service
	flow           *fulfillment.Orchestrator
	requestTimeout time.Duration
	log            *zap.Logger
}

// New returns a Handler over the stores and orchestrator.
//
// It panics if any dependency is nil. If requestTimeout is
// non-positive, a default timeout is applied.
func New(catalog *inventory.Service, orders *sales.Service, deliveries *delivery.Service, flow *fulfillment.Orchestrator, requestTimeout time.Duration, log *zap.Logger) *Handler {
	if catalog == nil || orders == nil || deliveries == nil || flow == nil {
		panic("httptransport.New: nil dependency")
	}
	if requestTimeout <= 0 {
		requestTimeout = 10 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		catalog:        catalog,
		orders:         orders,
		deliveries:     deliveries,
		flow:           flow,
		requestTimeout: requestTimeout,
		log:            log,
	}
}

// Register installs the API routes on mux. The /health route is
// expected to be mounted outside the authenticated chain.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/inventory/books", h.handleListBooks)
	mux.HandleFunc("GET /api/inventory/books/{id}", h.handleGetBook)
	mux.HandleFunc("GET /api/inventory/books/{id}/stock", h.handleBookStock)

	mux.HandleFunc("GET /api/sales/orders", h.handleListOrders)
	mux.HandleFunc("POST /api/sales/orders", h.handleCreateOrder)
	mux.HandleFunc("GET /api/sales/orders/{id}", h.handleGetOrder)
	mux.HandleFunc("POST /api/sales/orders/{id}/payment", h.handlePayment)
	mux.HandleFunc("POST /api/sales/orders/{id}/cancel", h.handleCancelOrder)

	mux.HandleFunc("POST /api/delivery/orders/{order_id}", h.handleCreateDelivery)
	mux.HandleFunc("GET /api/delivery/orders/{order_id}", h.handleGetDelivery)
	mux.HandleFunc("PUT /api/delivery/orders/{order_id}/status", h.handleDeliveryStatus)

	mux.HandleFunc("POST /api/integration/orders/complete", h.handleCompleteOrder)
	mux.HandleFunc("GET /api/integration/orders/{id}/status", h.handleOrderStatus)
}

// Health reports liveness and the current in-flight operation count.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"in_flight": h.flow.Tracker().InFlight(),
	})
}

// decodeJSON decodes a single JSON document from the request body,
// rejecting unknown fields and trailing content.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errTrailingBody
	}
	return nil
}

// writeJSON writes v as a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
