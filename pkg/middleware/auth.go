package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/fkhayef/legacyledger/pkg/response"
)

// APIKey requires every request to carry "Authorization: Bearer <key>".
// An empty key disables the check so local setups work without credentials.
func APIKey(key string) func(http.Handler) http.Handler {
	key = strings.TrimSpace(key)

	return func(next http.Handler) http.Handler {
		if key == "" {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				response.Unauthorized(w, "Authorization header required")
				return
			}

			// Extract token from "Bearer <token>"
			parts := strings.Fields(authHeader)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				response.Unauthorized(w, "Invalid authorization header format")
				return
			}

			if subtle.ConstantTimeCompare([]byte(parts[1]), []byte(key)) != 1 {
				response.Unauthorized(w, "Invalid API key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
