package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// NewCORSHandler wraps next with CORS headers for allowedOrigins. Each origin
// must include the scheme and no trailing slash.
func NewCORSHandler(allowedOrigins []string, next http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization", traceHeader},
		ExposedHeaders:   []string{traceHeader, "Retry-After"},
		AllowCredentials: true,
	})
	return c.Handler(next)
}
