package middleware

import (
	"github.com/go-chi/cors"

	"github.com/catalogus/catalogus-backend/internal/config"
)

// CORS returns middleware that answers preflight requests and sets
// Access-Control headers for allowed origins.
func CORS(cfg config.CORSConfig) Middleware {
	return cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Origins(),
		AllowedMethods:   cfg.Methods(),
		AllowedHeaders:   cfg.Headers(),
		ExposedHeaders:   []string{"X-Request-Id", "Retry-After"},
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	})
}
