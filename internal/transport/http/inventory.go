package httptransport

import (
	"net/http"
	"strconv"
)

func (h *Handler) handleListBooks(w http.ResponseWriter, r *http.Request) {
	books, err := h.catalog.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"books": books,
		"count": len(books),
	})
}

func (h *Handler) handleGetBook(w http.ResponseWriter, r *http.Request) {
	book, err := h.catalog.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, book)
}

func (h *Handler) handleBookStock(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	qty := 1
	if q := r.URL.Query().Get("quantity"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n <= 0 {
			writeBadRequest(w, "quantity must be a positive integer")
			return
		}
		qty = n
	}

	book, err := h.catalog.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"book_id":            book.ID,
		"title":              book.Title,
		"stock_quantity":     book.StockQuantity,
		"requested_quantity": qty,
		"available":          book.Available(qty),
	})
}
