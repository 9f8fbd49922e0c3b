package httptransport

import (
	"errors"
	"net/http"

	"bookstore-fulfillment/internal/apperr"
)

var errTrailingBody = errors.New("request body must contain a single JSON document")

// kindToStatus maps error classification kinds to HTTP status codes.
var kindToStatus = map[string]int{
	"not_found":          http.StatusNotFound,
	"invalid_input":      http.StatusBadRequest,
	"insufficient_stock": http.StatusBadRequest,
	"already_processed":  http.StatusBadRequest,
	"payment_failed":     http.StatusBadRequest,
	"processing_failed":  http.StatusBadRequest,
	"unauthorized":       http.StatusUnauthorized,
}

// errorBody is the wire shape of every error response.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func httpStatus(err error) int {
	if s, ok := kindToStatus[apperr.Kind(err)]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// writeError maps err to a status via its kind and writes the
// standard error payload.
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, httpStatus(err), errorBody{
		Error:   apperr.Kind(err),
		Message: err.Error(),
	})
}

// writeBadRequest writes an invalid_input error with the given message.
func writeBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, errorBody{
		Error:   "invalid_input",
		Message: message,
	})
}
