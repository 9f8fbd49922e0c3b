package middleware

import (
	"context"
	"encoding/json"
	"net/http"
)

// APIKeyHeader is the header carrying the caller's key.
const APIKeyHeader = "X-API-Key"

type roleContextKey struct{}

// Role returns the role bound to the request's API key, or "" when
// the request did not pass authentication.
func Role(ctx context.Context) string {
	role, _ := ctx.Value(roleContextKey{}).(string)
	return role
}

// APIKeyAuth rejects requests whose X-API-Key header is missing or
// not in keys (key -> role). The matched role is stored on the
// request context.
func APIKeyAuth(keys map[string]string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(APIKeyHeader)
			if key == "" {
				writeAuthError(w, "API key is missing",
					"Please provide an API key in the X-API-Key header")
				return
			}
			role, ok := keys[key]
			if !ok {
				writeAuthError(w, "Invalid API key",
					"The provided API key is not valid")
				return
			}
			ctx := context.WithValue(r.Context(), roleContextKey{}, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeAuthError(w http.ResponseWriter, errMsg, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   errMsg,
		"message": detail,
	})
}
