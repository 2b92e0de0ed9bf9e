package http

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
)

// AccessLogMiddleware writes one structured line per request. The level
// follows the status: 5xx and handler errors log at error, 4xx at warn.
func AccessLogMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		attrs := []slog.Attr{
			slog.Int("status", status),
			slog.Duration("latency", time.Since(start)),
			slog.Int("bytes_out", len(c.Response().Body())),
			slog.String("ip", c.IP()),
		}

		level := slog.LevelInfo
		switch {
		case err != nil:
			attrs = append(attrs, slog.String("error", err.Error()))
			level = slog.LevelError
		case status >= fiber.StatusInternalServerError:
			level = slog.LevelError
		case status >= fiber.StatusBadRequest:
			level = slog.LevelWarn
		}

		logger := LoggerFromCtx(c.UserContext())
		if _, scoped := c.UserContext().Value(loggerKey).(*slog.Logger); !scoped {
			attrs = append(attrs, slog.String("method", c.Method()), slog.String("path", c.Path()))
		}
		logger.LogAttrs(c.UserContext(), level, "http request", attrs...)
		return err
	}
}
