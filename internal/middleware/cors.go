package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
)

// DefaultCORSOrigin is the local dashboard dev server.
const DefaultCORSOrigin = "http://localhost:3000"

// NewCORS returns a CORS middleware for the analytics API.
// corsOrigins is a comma-separated list of allowed origins. Empty means
// DefaultCORSOrigin; "*" allows all origins.
func NewCORS(corsOrigins string) fiber.Handler {
	origins := []string{DefaultCORSOrigin}
	if corsOrigins == "*" {
		origins = []string{"*"}
	} else if corsOrigins != "" {
		origins = strings.Split(corsOrigins, ",")
		for i, o := range origins {
			origins[i] = strings.TrimSpace(o)
		}
	}

	return cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: []string{
			fiber.MethodGet,
			fiber.MethodHead,
			fiber.MethodOptions,
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Accept",
		},
		ExposeHeaders: []string{
			"X-RateLimit-Limit",
			"X-RateLimit-Remaining",
			"X-RateLimit-Reset",
			"Retry-After",
		},
		MaxAge: 86400,
	})
}
