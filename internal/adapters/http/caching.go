package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CachingMiddleware sets Cache-Control on GET responses that did not set
// one themselves.
func CachingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		if c.Method() != fiber.MethodGet {
			return err
		}
		if len(c.Response().Header.Peek(fiber.HeaderCacheControl)) > 0 {
			return err
		}

		path := c.Path()
		var cc string

		switch {
		case path == "/v1/health" || path == "/v1/ready":
			cc = "public, max-age=10"

		case path == "/metrics":
			cc = "no-cache"

		case path == "/v1/state":
			cc = "no-cache" // revalidate with the version ETag

		case strings.HasPrefix(path, "/v1/auth/") || strings.HasPrefix(path, "/v1/locations"):
			cc = "private, no-store"

		case strings.HasPrefix(path, "/v1/"):
			cc = "no-cache"
		}

		if cc != "" {
			c.Set(fiber.HeaderCacheControl, cc)
		}
		return err
	}
}
