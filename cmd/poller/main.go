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

	"github.com/fireflight/fireflight/internal/adapters/backend"
	"github.com/fireflight/fireflight/internal/adapters/firedata"
	"github.com/fireflight/fireflight/internal/adapters/mapbox"
	natsadapter "github.com/fireflight/fireflight/internal/adapters/nats"
	"github.com/fireflight/fireflight/internal/adapters/tokenstore"
	"github.com/fireflight/fireflight/internal/adapters/valkey"
	"github.com/fireflight/fireflight/internal/core/ports"
	"github.com/fireflight/fireflight/internal/core/store"
	"github.com/fireflight/fireflight/internal/core/usecases"
	"github.com/fireflight/fireflight/internal/pkg/config"
	"github.com/fireflight/fireflight/internal/pkg/logging"
	"github.com/fireflight/fireflight/internal/pkg/metrics"
	"github.com/fireflight/fireflight/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("fireflight-poller")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

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

	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats: %v", err)
	}
	defer pub.Close()

	st := store.New(store.InitialState(cfg.Map.NarrowPrivateMap))
	usecases.BroadcastStateChanges(st, nil)

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
		pub,
		usecases.FireServiceConfig{
			Unit:     cfg.Map.DistanceUnit(),
			CacheTTL: cfg.Fires.CacheTTL,
		},
	)
	defer fireSvc.Close()

	interval := time.Duration(cfg.Poller.Interval) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("fireflight poller starting", "interval", interval, "signed_in", session.IsAuthenticated())

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Run once immediately
	poll(ctx, fireSvc)

	for {
		select {
		case <-ticker.C:
			poll(ctx, fireSvc)
		case <-ctx.Done():
			return
		case sig := <-quit:
			slog.Info("shutting down poller", "signal", sig.String())
			cancel()
			return
		}
	}
}

// poll runs one refresh cycle.
func poll(ctx context.Context, svc *usecases.FireService) {
	start := time.Now()
	defer func() { metrics.PollDuration.Observe(time.Since(start).Seconds()) }()

	alerts, err := svc.Refresh(ctx)
	if err != nil {
		metrics.PollErrors.Inc()
		slog.Error("refresh cycle failed", "error", err)
		return
	}

	incidents := 0
	for _, a := range alerts {
		incidents += len(a.Incidents)
	}
	slog.Info("refresh cycle complete",
		"fires", len(svc.State().AllFires),
		"alerts", len(alerts),
		"nearby_incidents", incidents,
		"took", time.Since(start),
	)
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
