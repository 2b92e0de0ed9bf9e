package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"

	"github.com/fireflight/fireflight/internal/pkg/metrics"
)

// upstreamTimeout bounds handlers that call the remote collaborators.
const upstreamTimeout = 20 * time.Second

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	app.Use(requestid.New())
	app.Use(RequestIDLogMiddleware())
	app.Use(AccessLogMiddleware())

	// Rate limiting: 120 requests per minute per IP
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return newError(c, fiber.StatusTooManyRequests, "rate_limited", "too many requests, please try again later", "")
		},
	}))

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	app.Use(ETagMiddleware())
	app.Use(CachingMiddleware())

	// Health & readiness
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	v1 := app.Group("/v1")

	// State
	v1.Get("/state", GetStateHandler(deps))
	v1.Post("/fires/refresh", timeout.NewWithContext(RefreshFiresHandler(deps), upstreamTimeout))
	v1.Post("/search", timeout.NewWithContext(SearchHandler(deps), upstreamTimeout))
	v1.Delete("/search/marker", DeleteSearchMarkerHandler(deps))
	v1.Put("/selection", SelectMarkerHandler(deps))
	v1.Delete("/selection", ClearSelectionHandler(deps))
	v1.Post("/selection/save", timeout.NewWithContext(SaveSelectionHandler(deps), upstreamTimeout))
	v1.Get("/locations", timeout.NewWithContext(ListLocationsHandler(deps), upstreamTimeout))
	v1.Post("/locations/sync", timeout.NewWithContext(SyncLocationsHandler(deps), upstreamTimeout))
	v1.Put("/viewport/public", SetPublicViewportHandler(deps))
	v1.Post("/registration-prompt", RegistrationPromptHandler(deps))

	// Auth
	auth := v1.Group("/auth")
	auth.Post("/login", timeout.NewWithContext(LoginHandler(deps), upstreamTimeout))
	auth.Post("/register", timeout.NewWithContext(RegisterHandler(deps), upstreamTimeout))
	auth.Post("/logout", LogoutHandler(deps))
	auth.Get("/session", timeout.NewWithContext(SessionHandler(deps), upstreamTimeout))

	// GraphQL
	app.Post("/graphql", GraphQLHandler(deps))

	// WebSocket
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(WebSocketHandler(deps.NATS)))
}
