package httptransport

import (
	"net/http"

	"bookstore-fulfillment/internal/model"
	"bookstore-fulfillment/internal/sales"
)

type createOrderRequest struct {
	CustomerName    string            `json:"customer_name"`
	CustomerEmail   string            `json:"customer_email"`
	Items           []createOrderItem `json:"items"`
	ShippingAddress string            `json:"shipping_address"`
}

type createOrderItem struct {
	BookID    string  `json:"book_id"`
	Title     string  `json:"title"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

func (h *Handler) handleListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"orders": orders,
		"count":  len(orders),
	})
}

func (h *Handler) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid JSON")
		return
	}
	if req.CustomerName == "" || req.CustomerEmail == "" {
		writeBadRequest(w, "customer_name and customer_email are required")
		return
	}

	items := make([]sales.ItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, sales.ItemInput{
			BookID:    it.BookID,
			Title:     it.Title,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}

	order, err := h.orders.Create(r.Context(), req.CustomerName, req.CustomerEmail, items, req.ShippingAddress)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

func (h *Handler) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

type paymentRequest struct {
	PaymentMethod string `json:"payment_method"`
}

func (h *Handler) handlePayment(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeBadRequest(w, "invalid JSON")
			return
		}
	}

	result, err := h.orders.ProcessPayment(r.Context(), r.PathValue("id"), req.PaymentMethod)
	if err != nil {
		writeError(w, err)
		return
	}
	if !result.OK {
		message := "could not process payment for the order"
		kind := "payment_failed"
		if result.Order != nil && result.Order.PaymentStatus == model.PaymentStatusPaid {
			message = "payment has already been processed for this order"
			kind = "already_processed"
		}
		writeJSON(w, http.StatusBadRequest, errorBody{Error: kind, Message: message})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":    "payment processed successfully",
		"payment_id": result.PaymentID,
		"order":      result.Order,
	})
}

func (h *Handler) handleCancelOrder(w http.ResponseWriter, r *http.Request) {
	ok, err := h.orders.Cancel(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody{
			Error:   "already_processed",
			Message: "shipped or delivered orders cannot be cancelled",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "order cancelled",
	})
}
