package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fireflight",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "fireflight",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "path"})

	httpResponseSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "fireflight",
		Subsystem: "http",
		Name:      "response_size_bytes",
		Help:      "HTTP response size in bytes",
		Buckets:   prometheus.ExponentialBuckets(100, 10, 6),
	}, []string{"method", "path"})

	// Outbound calls to the fire-data API, the geocoder and the backend
	UpstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fireflight",
		Subsystem: "upstream",
		Name:      "requests_total",
		Help:      "Total outbound requests by target and outcome",
	}, []string{"target", "outcome"})

	UpstreamDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "fireflight",
		Subsystem: "upstream",
		Name:      "request_duration_seconds",
		Help:      "Outbound request latency in seconds",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"target"})

	// State and domain metrics
	StateDispatches = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fireflight",
		Subsystem: "state",
		Name:      "dispatches_total",
		Help:      "Total recognized state actions dispatched",
	}, []string{"action"})

	IncidentsLoaded = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "fireflight",
		Subsystem: "fires",
		Name:      "incidents_loaded",
		Help:      "Number of incidents in the last successful fetch",
	})

	NearbyAlerts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "fireflight",
		Subsystem: "fires",
		Name:      "nearby_alerts_total",
		Help:      "Total nearby-fire alerts published",
	})

	PollDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "fireflight",
		Subsystem: "poller",
		Name:      "cycle_duration_seconds",
		Help:      "Duration of a refresh cycle",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30},
	})

	PollErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "fireflight",
		Subsystem: "poller",
		Name:      "cycle_errors_total",
		Help:      "Total refresh cycle errors",
	})

	AuthEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fireflight",
		Subsystem: "auth",
		Name:      "events_total",
		Help:      "Total login, register and logout attempts by outcome",
	}, []string{"op", "outcome"})

	ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "fireflight",
		Subsystem: "ws",
		Name:      "active_connections",
		Help:      "Current number of active WebSocket connections",
	})

	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fireflight",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Total cache hits",
	}, []string{"operation"})

	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fireflight",
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Total cache misses",
	}, []string{"operation"})
)

// ObserveUpstream records one outbound request.
func ObserveUpstream(target string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	UpstreamRequests.WithLabelValues(target, outcome).Inc()
	UpstreamDuration.WithLabelValues(target).Observe(time.Since(start).Seconds())
}

// Middleware records request metrics.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())
		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		method := c.Method()

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(duration)
		httpResponseSize.WithLabelValues(method, path).Observe(float64(len(c.Response().Body())))

		return err
	}
}

// Handler returns a Fiber handler serving Prometheus /metrics endpoint.
func Handler() fiber.Handler {
	handler := promhttp.Handler()
	return func(c *fiber.Ctx) error {
		fasthttpadaptor.NewFastHTTPHandler(handler)(c.Context())
		return nil
	}
}
