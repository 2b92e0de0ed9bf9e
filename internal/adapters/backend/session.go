// Package backend is the client for the authenticated fireflight backend API.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/fireflight/fireflight/internal/core/domain"
	"github.com/fireflight/fireflight/internal/core/ports"
	"github.com/fireflight/fireflight/internal/pkg/metrics"
	"github.com/fireflight/fireflight/internal/pkg/telemetry"
)

const (
	defaultTimeout   = 15 * time.Second
	tokenLoadTimeout = 2 * time.Second
	target         = "backend"

	// LoginFailedMessage is the caller-facing message of every rejected login.
	LoginFailedMessage = "Login Failed"
)

// SessionClient implements ports.SessionClient. The persisted token is
// re-read from the token store on every request and sent verbatim in the
// Authorization header, so a sign-in or sign-out by another process sharing
// the store applies here too.
type SessionClient struct {
	httpClient *http.Client
	baseURL    string
	tokens     ports.TokenStore

	mu    sync.RWMutex
	token string
}

// Option configures a SessionClient.
type Option func(*SessionClient)

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *SessionClient) {
		c.httpClient.Timeout = timeout
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *SessionClient) {
		c.httpClient = hc
	}
}

// NewSessionClient builds a client for baseURL and restores any token
// persisted in tokens.
func NewSessionClient(ctx context.Context, baseURL string, tokens ports.TokenStore, opts ...Option) (*SessionClient, error) {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	c := &SessionClient{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    baseURL,
		tokens:     tokens,
	}
	for _, opt := range opts {
		opt(c)
	}

	token, err := tokens.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}
	c.token = token
	return c, nil
}

// Token returns the current session token, empty when signed out.
func (c *SessionClient) Token() string {
	ctx, cancel := context.WithTimeout(context.Background(), tokenLoadTimeout)
	defer cancel()
	return c.current(ctx)
}

// IsAuthenticated reports whether a session token is persisted.
func (c *SessionClient) IsAuthenticated() bool {
	return c.Token() != ""
}

// current loads the persisted token and adopts it. The held token is kept
// when the store cannot be read.
func (c *SessionClient) current(ctx context.Context) string {
	token, err := c.tokens.Load(ctx)
	if err != nil {
		slog.Warn("token store read failed, using held token", "error", err)
		c.mu.RLock()
		defer c.mu.RUnlock()
		return c.token
	}
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
	return token
}

type tokenResponse struct {
	Token string `json:"token"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Login exchanges credentials for a session token. Any status other than
// 200 yields an auth_failure carrying LoginFailedMessage; the held token is
// left untouched.
func (c *SessionClient) Login(ctx context.Context, creds domain.Credentials) (*domain.User, error) {
	const op = "login"

	status, body, err := c.do(ctx, "backend.Login", http.MethodPost, "auth/login", creds)
	if err != nil {
		return nil, &domain.Error{Kind: domain.KindNetwork, Op: op, Err: err}
	}
	if status != http.StatusOK {
		return nil, &domain.Error{
			Kind:       domain.KindAuth,
			Op:         op,
			StatusCode: status,
			Message:    LoginFailedMessage,
			Detail:     serverMessage(body),
		}
	}
	return c.establish(ctx, op, body, creds.Username)
}

// Register creates an account and signs in. Any status other than 201 yields
// an error carrying the status code and the server's message.
func (c *SessionClient) Register(ctx context.Context, creds domain.Credentials) (*domain.User, error) {
	const op = "register"

	status, body, err := c.do(ctx, "backend.Register", http.MethodPost, "auth/register", creds)
	if err != nil {
		return nil, &domain.Error{Kind: domain.KindNetwork, Op: op, Err: err}
	}
	if status != http.StatusCreated {
		msg := serverMessage(body)
		if msg == "" {
			msg = http.StatusText(status)
		}
		kind := domain.KindUnexpectedStatus
		if status >= 400 && status < 500 {
			kind = domain.KindAuth
		}
		return nil, &domain.Error{
			Kind:       kind,
			Op:         op,
			StatusCode: status,
			Message:    msg,
			Detail:     string(body),
		}
	}
	return c.establish(ctx, op, body, creds.Username)
}

// establish persists the token from an auth response, adopts it and loads
// the profile.
func (c *SessionClient) establish(ctx context.Context, op string, body []byte, username string) (*domain.User, error) {
	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil || tr.Token == "" {
		return nil, &domain.Error{Kind: domain.KindMalformedResponse, Op: op, Message: "response carries no token", Err: err}
	}

	if err := c.tokens.Save(ctx, tr.Token); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	c.mu.Lock()
	c.token = tr.Token
	c.mu.Unlock()

	user, err := c.Self(ctx)
	if err != nil {
		slog.Warn("profile fetch after sign-in failed", "op", op, "error", err)
		return &domain.User{Username: username}, nil
	}
	return user, nil
}

// Logout drops the token locally and from the token store. No request is sent.
func (c *SessionClient) Logout(ctx context.Context) error {
	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()

	if err := c.tokens.Remove(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// Self returns the profile of the current session.
func (c *SessionClient) Self(ctx context.Context) (*domain.User, error) {
	const op = "fetch session"

	status, body, err := c.do(ctx, "backend.Self", http.MethodGet, "users/session", nil)
	if err != nil {
		return nil, &domain.Error{Kind: domain.KindNetwork, Op: op, Err: err}
	}
	if status != http.StatusOK {
		return nil, &domain.Error{Kind: statusKind(status), Op: op, StatusCode: status, Message: "session unavailable", Detail: string(body)}
	}

	var user domain.User
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, &domain.Error{Kind: domain.KindMalformedResponse, Op: op, Message: "decode profile", Err: err}
	}
	return &user, nil
}

// FetchLocations returns the saved locations of the current user. A non-200
// error carries the raw payload in Detail.
func (c *SessionClient) FetchLocations(ctx context.Context) ([]domain.SavedLocation, error) {
	const op = "fetch locations"

	status, body, err := c.do(ctx, "backend.FetchLocations", http.MethodGet, "locations", nil)
	if err != nil {
		return nil, &domain.Error{Kind: domain.KindNetwork, Op: op, Err: err}
	}
	if status != http.StatusOK {
		return nil, &domain.Error{Kind: statusKind(status), Op: op, StatusCode: status, Message: "locations unavailable", Detail: string(body)}
	}

	var locs []domain.SavedLocation
	if err := json.Unmarshal(body, &locs); err != nil {
		return nil, &domain.Error{Kind: domain.KindMalformedResponse, Op: op, Message: "decode locations", Err: err}
	}
	if locs == nil {
		locs = []domain.SavedLocation{}
	}
	return locs, nil
}

type saveLocationRequest struct {
	Address string  `json:"address"`
	Radius  float64 `json:"radius"`
}

// SaveLocation registers a watch location for the current user.
func (c *SessionClient) SaveLocation(ctx context.Context, address string, radius float64) (*domain.SavedLocation, error) {
	const op = "save location"

	status, body, err := c.do(ctx, "backend.SaveLocation", http.MethodPost, "locations", saveLocationRequest{Address: address, Radius: radius})
	if err != nil {
		return nil, &domain.Error{Kind: domain.KindNetwork, Op: op, Err: err}
	}
	if status != http.StatusOK && status != http.StatusCreated {
		return nil, &domain.Error{Kind: statusKind(status), Op: op, StatusCode: status, Message: "location not saved", Detail: string(body)}
	}

	// An empty confirmation falls back to what was sent.
	loc := domain.SavedLocation{Address: address, Radius: radius}
	if len(bytes.TrimSpace(body)) == 0 {
		return &loc, nil
	}
	if err := json.Unmarshal(body, &loc); err != nil {
		return nil, &domain.Error{Kind: domain.KindMalformedResponse, Op: op, Message: "decode saved location", Detail: string(body), Err: err}
	}
	return &loc, nil
}

func (c *SessionClient) do(ctx context.Context, spanName, method, path string, payload any) (status int, body []byte, err error) {
	ctx, span := telemetry.StartClientSpan(ctx, spanName, target)
	start := time.Now()
	defer func() {
		metrics.ObserveUpstream(target, start, err)
		telemetry.EndSpan(span, err)
	}()

	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, err
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.current(ctx); token != "" {
		req.Header.Set("Authorization", token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int(telemetry.AttrStatusCode, resp.StatusCode))
	body, err = io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, body, nil
}

func serverMessage(body []byte) string {
	var m messageResponse
	if err := json.Unmarshal(body, &m); err != nil {
		return strings.TrimSpace(string(body))
	}
	return m.Message
}

func statusKind(status int) domain.ErrorKind {
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		return domain.KindAuth
	}
	return domain.KindUnexpectedStatus
}
