// Package firedata fetches active fire incidents from the fire-data API.
package firedata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/fireflight/fireflight/internal/core/domain"
	"github.com/fireflight/fireflight/internal/pkg/metrics"
	"github.com/fireflight/fireflight/internal/pkg/telemetry"
)

const (
	defaultBaseURL = "https://fire-data-api.herokuapp.com"
	defaultTimeout = 30 * time.Second
	target         = "firedata"
)

// Client implements ports.FireSource.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API location.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    defaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// allFiresResponse is the wire shape; each tuple is [longitude, latitude].
type allFiresResponse struct {
	Fires [][]float64 `json:"Fires"`
}

// AllFires returns every active incident, indexed by its position in the
// response and with coordinates in latitude/longitude order.
func (c *Client) AllFires(ctx context.Context) (incidents []domain.Incident, err error) {
	const op = "fetch all fires"

	ctx, span := telemetry.StartClientSpan(ctx, "firedata.AllFires", target)
	start := time.Now()
	defer func() {
		metrics.ObserveUpstream(target, start, err)
		telemetry.EndSpan(span, err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/all_fires", nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.Error{Kind: domain.KindNetwork, Op: op, Err: err}
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int(telemetry.AttrStatusCode, resp.StatusCode))
	if resp.StatusCode != http.StatusOK {
		return nil, &domain.Error{
			Kind:       domain.KindUnexpectedStatus,
			Op:         op,
			StatusCode: resp.StatusCode,
			Message:    "fire data unavailable",
		}
	}

	var body allFiresResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, &domain.Error{Kind: domain.KindMalformedResponse, Op: op, Message: "decode response", Err: err}
	}
	if body.Fires == nil {
		return nil, &domain.Error{Kind: domain.KindMalformedResponse, Op: op, Message: "missing Fires"}
	}

	incidents, err = normalize(body.Fires)
	if err != nil {
		return nil, &domain.Error{Kind: domain.KindMalformedResponse, Op: op, Message: err.Error()}
	}
	span.SetAttributes(attribute.Int(telemetry.AttrIncidents, len(incidents)))
	return incidents, nil
}

func normalize(tuples [][]float64) ([]domain.Incident, error) {
	incidents := make([]domain.Incident, 0, len(tuples))
	for i, t := range tuples {
		if len(t) < 2 {
			return nil, fmt.Errorf("fire %d: expected [longitude, latitude], got %d values", i, len(t))
		}
		incidents = append(incidents, domain.Incident{
			Index:    i,
			Location: domain.Coordinate{Latitude: t[1], Longitude: t[0]},
		})
	}
	return incidents, nil
}
