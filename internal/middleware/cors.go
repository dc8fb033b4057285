// Package middleware provides reusable HTTP middleware for the Diplomatic Drive logbook.
package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// NewCORSHandler returns a middleware that applies CORS headers based on allowedOrigins.
// Each entry in allowedOrigins must be a full origin (scheme + host, no trailing slash).
// The trip store is append-only, so only GET and POST are allowed. Download
// headers are exposed so browser clients can name the saved report.
func NewCORSHandler(allowedOrigins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		ExposedHeaders: []string{"Content-Disposition", "X-Report-Rows", "X-Report-Warnings"},
	})
	return func(next http.Handler) http.Handler {
		return c.Handler(next)
	}
}
