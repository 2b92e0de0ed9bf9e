package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/fireflight/fireflight/internal/adapters/backend"
	"github.com/fireflight/fireflight/internal/adapters/firedata"
	"github.com/fireflight/fireflight/internal/adapters/http"
	"github.com/fireflight/fireflight/internal/adapters/mapbox"
	natsadapter "github.com/fireflight/fireflight/internal/adapters/nats"
	"github.com/fireflight/fireflight/internal/adapters/tokenstore"
	"github.com/fireflight/fireflight/internal/adapters/valkey"
	"github.com/fireflight/fireflight/internal/core/domain"
	"github.com/fireflight/fireflight/internal/core/ports"
	"github.com/fireflight/fireflight/internal/core/store"
	"github.com/fireflight/fireflight/internal/core/usecases"
	"github.com/fireflight/fireflight/internal/pkg/config"
	"github.com/fireflight/fireflight/internal/pkg/logging"
	"github.com/fireflight/fireflight/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("fireflight-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Cache
	var cacheSvc ports.CacheService
	cache, err := valkey.New(cfg.Valkey.Addr)
	if err != nil {
		slog.Warn("valkey unavailable", "error", err)
	} else {
		defer cache.Close()
		cacheSvc = cache
	}

	tokens, err := openTokenStore(cfg, cache)
	if err != nil {
		log.Fatalf("token store: %v", err)
	}

	session, err := backend.NewSessionClient(ctx, cfg.API.Base(), tokens,
		backend.WithTimeout(time.Duration(cfg.API.Timeout)*time.Second))
	if err != nil {
		log.Fatalf("session client: %v", err)
	}

	// NATS
	var events ports.EventPublisher
	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable", "error", err)
	} else {
		defer pub.Close()
		events = pub
	}

	// Raw NATS connection for WebSocket relay
	natsConn, err := natsadapter.RawConn(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats ws conn unavailable", "error", err)
	} else {
		defer natsConn.Close()
	}

	// State + use cases
	st := store.New(store.InitialState(cfg.Map.NarrowPrivateMap))
	usecases.BroadcastStateChanges(st, events)

	fireSvc := usecases.NewFireService(st,
		firedata.NewClient(
			firedata.WithBaseURL(cfg.Fires.BaseURL),
			firedata.WithTimeout(time.Duration(cfg.Fires.Timeout)*time.Second),
		),
		mapbox.NewGeocoder(cfg.Mapbox.Token,
			mapbox.WithBaseURL(cfg.Mapbox.BaseURL),
			mapbox.WithTimeout(time.Duration(cfg.Mapbox.Timeout)*time.Second),
		),
		session,
		cacheSvc,
		events,
		usecases.FireServiceConfig{
			Unit:              cfg.Map.DistanceUnit(),
			CacheTTL:          cfg.Fires.CacheTTL,
			RegistrationDelay: cfg.Map.RegistrationDelayDuration(),
		},
	)
	defer fireSvc.Close()
	authSvc := usecases.NewAuthService(session)

	if _, err := fireSvc.LoadAllFires(ctx); err != nil {
		slog.Warn("initial fire load failed", "error", err)
	}

	// Alerts found by the poller refresh the public map.
	if events != nil {
		sub, err := natsadapter.NewSubscriber(cfg.NATS.URL)
		if err != nil {
			slog.Warn("nats subscriber unavailable", "error", err)
		} else {
			defer sub.Close()
			err := sub.SubscribeNearbyAlerts(ctx, "fireflight-api", func(ctx context.Context, alert *domain.NearbyAlert) error {
				slog.Info("nearby alert received", "address", alert.Location.Address, "incidents", len(alert.Incidents))
				_, err := fireSvc.LoadAllFires(ctx)
				return err
			})
			if err != nil {
				slog.Warn("subscribe nearby alerts failed", "error", err)
			}
		}
	}

	deps := &http.Dependencies{
		Fires: fireSvc,
		Auth:  authSvc,
		NATS:  natsConn,
		Cache: cache,
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    256 * 1024,
		AppName:      "Fireflight API",
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000, http://localhost:5173",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, If-None-Match",
		ExposeHeaders:    "ETag",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr, "backend", cfg.API.Base())
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}

// openTokenStore selects the session token store named by session.store.
func openTokenStore(cfg *config.Config, cache *valkey.Cache) (ports.TokenStore, error) {
	switch cfg.Session.Store {
	case "valkey":
		if cache == nil {
			return nil, fmt.Errorf("session.store is valkey but valkey is unavailable")
		}
		return valkey.NewTokenStore(cache), nil
	default:
		return tokenstore.NewFileStore(cfg.Session.FilePath), nil
	}
}
