package middleware

import (
	"net/http"

	"github.com/go-chi/cors"

	"github.com/ghartak/ghartak-backend/pkg/config"
)

// CORS returns middleware applying the configured allowed-origin policy.
// The storefront is served from a separate origin, so this defaults open.
func CORS(cfg config.CORSConfig) func(http.Handler) http.Handler {
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposedHeaders: []string{"Content-Length"},
		MaxAge:         600,
	}).Handler
}
