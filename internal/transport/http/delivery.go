package httptransport

import (
	"errors"
	"net/http"

	"bookstore-fulfillment/internal/apperr"
)

type createDeliveryRequest struct {
	ShippingAddress string `json:"shipping_address"`
	Carrier         string `json:"carrier"`
}

func (h *Handler) handleCreateDelivery(w http.ResponseWriter, r *http.Request) {
	orderID := r.PathValue("order_id")

	var req createDeliveryRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeBadRequest(w, "invalid JSON")
			return
		}
	}

	order, err := h.orders.GetByID(r.Context(), orderID)
	if err != nil {
		writeError(w, err)
		return
	}

	// One delivery per order.
	if _, err := h.deliveries.GetByOrderID(r.Context(), orderID); err == nil {
		writeJSON(w, http.StatusBadRequest, errorBody{
			Error:   "already_processed",
			Message: "a delivery already exists for this order",
		})
		return
	} else if !errors.Is(err, apperr.ErrDeliveryNotFound) {
		writeError(w, err)
		return
	}

	address := req.ShippingAddress
	if address == "" {
		address = order.ShippingAddress
	}
	if address == "" {
		writeBadRequest(w, "shipping_address is required")
		return
	}

	dlv, err := h.deliveries.CreateForOrder(r.Context(), orderID, address, req.Carrier)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, dlv)
}

func (h *Handler) handleGetDelivery(w http.ResponseWriter, r *http.Request) {
	dlv, err := h.deliveries.GetByOrderID(r.Context(), r.PathValue("order_id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dlv)
}

type deliveryStatusRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

func (h *Handler) handleDeliveryStatus(w http.ResponseWriter, r *http.Request) {
	var req deliveryStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid JSON")
		return
	}
	if req.Status == "" {
		writeBadRequest(w, "status is required")
		return
	}

	dlv, err := h.deliveries.UpdateStatusByOrderID(r.Context(), r.PathValue("order_id"), req.Status, req.Notes)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dlv)
}
