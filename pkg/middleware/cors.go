package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS allows read-only browser calls from the listed origins. "*" allows any
// origin. An empty list leaves CORS off: go-chi/cors would otherwise allow
// every origin.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	if len(allowedOrigins) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	return cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         300,
	})
}
