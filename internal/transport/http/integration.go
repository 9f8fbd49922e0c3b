package httptransport

import (
	"context"
	"net/http"

	"bookstore-fulfillment/internal/fulfillment"
)

type completeOrderRequest struct {
	CustomerName    string                    `json:"customer_name"`
	CustomerEmail   string                    `json:"customer_email"`
	Items           []fulfillment.ItemRequest `json:"items"`
	ShippingAddress string                    `json:"shipping_address"`
	PaymentMethod   string                    `json:"payment_method"`
	Carrier         string                    `json:"carrier"`
}

func (h *Handler) handleCompleteOrder(w http.ResponseWriter, r *http.Request) {
	var req completeOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid JSON")
		return
	}
	if req.CustomerName == "" || req.CustomerEmail == "" {
		writeBadRequest(w, "customer_name and customer_email are required")
		return
	}
	if req.ShippingAddress == "" {
		writeBadRequest(w, "shipping_address is required")
		return
	}
	if len(req.Items) == 0 {
		writeBadRequest(w, "items is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	result, err := h.flow.CompleteOrder(ctx, fulfillment.CompleteOrderRequest{
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		Items:           req.Items,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		Carrier:         req.Carrier,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message":    "order completed successfully",
		"order":      result.Order,
		"delivery":   result.Delivery,
		"payment_id": result.PaymentID,
	})
}

func (h *Handler) handleOrderStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	report, err := h.flow.OrderStatus(ctx, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
