// Package mapbox resolves addresses through the Mapbox forward geocoding API.
package mapbox

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/fireflight/fireflight/internal/core/domain"
	"github.com/fireflight/fireflight/internal/pkg/metrics"
	"github.com/fireflight/fireflight/internal/pkg/telemetry"
)

const (
	defaultBaseURL = "https://api.mapbox.com"
	defaultTimeout = 10 * time.Second
	target         = "mapbox"
)

// Geocoder implements ports.Geocoder.
type Geocoder struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// Option configures a Geocoder.
type Option func(*Geocoder)

// WithBaseURL overrides the API location.
func WithBaseURL(u string) Option {
	return func(g *Geocoder) {
		g.baseURL = strings.TrimRight(u, "/")
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(g *Geocoder) {
		g.httpClient.Timeout = timeout
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(g *Geocoder) {
		g.httpClient = hc
	}
}

func NewGeocoder(token string, opts ...Option) *Geocoder {
	g := &Geocoder{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    defaultBaseURL,
		token:      token,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

type feature struct {
	Center []float64 `json:"center"`
}

type placesResponse struct {
	Features []feature `json:"features"`
}

// Geocode returns the center of the best match for address.
func (g *Geocoder) Geocode(ctx context.Context, address string) (coord domain.Coordinate, err error) {
	const op = "geocode"

	ctx, span := telemetry.StartClientSpan(ctx, "mapbox.Geocode", target)
	start := time.Now()
	defer func() {
		metrics.ObserveUpstream(target, start, err)
		telemetry.EndSpan(span, err)
	}()

	endpoint := fmt.Sprintf("%s/geocoding/v5/mapbox.places/%s.json?access_token=%s",
		g.baseURL, url.PathEscape(address), url.QueryEscape(g.token))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return coord, fmt.Errorf("%s: %w", op, err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return coord, &domain.Error{Kind: domain.KindNetwork, Op: op, Err: err}
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int(telemetry.AttrStatusCode, resp.StatusCode))
	if resp.StatusCode != http.StatusOK {
		return coord, &domain.Error{
			Kind:       domain.KindUnexpectedStatus,
			Op:         op,
			StatusCode: resp.StatusCode,
			Message:    "geocoding failed",
		}
	}

	var body placesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return coord, &domain.Error{Kind: domain.KindMalformedResponse, Op: op, Message: "decode response", Err: err}
	}
	if len(body.Features) == 0 {
		return coord, &domain.Error{Kind: domain.KindMalformedResponse, Op: op, Message: "no match for address"}
	}
	center := body.Features[0].Center
	if len(center) < 2 {
		return coord, &domain.Error{Kind: domain.KindMalformedResponse, Op: op, Message: "feature has no center"}
	}

	return domain.Coordinate{Latitude: center[1], Longitude: center[0]}, nil
}
