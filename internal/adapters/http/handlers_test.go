package http_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	handler "github.com/fireflight/fireflight/internal/adapters/http"
	"github.com/fireflight/fireflight/internal/core/domain"
	"github.com/fireflight/fireflight/internal/core/store"
	"github.com/fireflight/fireflight/internal/core/usecases"
)

// ---- Mock collaborators ----

type mockFires struct {
	allFiresFn func(ctx context.Context) ([]domain.Incident, error)
}

func (m *mockFires) AllFires(ctx context.Context) ([]domain.Incident, error) {
	if m.allFiresFn != nil {
		return m.allFiresFn(ctx)
	}
	return []domain.Incident{}, nil
}

type mockGeocoder struct {
	geocodeFn func(ctx context.Context, address string) (domain.Coordinate, error)
}

func (m *mockGeocoder) Geocode(ctx context.Context, address string) (domain.Coordinate, error) {
	if m.geocodeFn != nil {
		return m.geocodeFn(ctx, address)
	}
	return domain.Coordinate{}, nil
}

type mockSession struct {
	authenticated bool
	loginFn       func(ctx context.Context, creds domain.Credentials) (*domain.User, error)
	registerFn    func(ctx context.Context, creds domain.Credentials) (*domain.User, error)
	selfFn        func(ctx context.Context) (*domain.User, error)
	fetchFn       func(ctx context.Context) ([]domain.SavedLocation, error)
	saveFn        func(ctx context.Context, address string, radius float64) (*domain.SavedLocation, error)
}

func (m *mockSession) Login(ctx context.Context, creds domain.Credentials) (*domain.User, error) {
	if m.loginFn != nil {
		return m.loginFn(ctx, creds)
	}
	m.authenticated = true
	return &domain.User{Username: creds.Username}, nil
}

func (m *mockSession) Register(ctx context.Context, creds domain.Credentials) (*domain.User, error) {
	if m.registerFn != nil {
		return m.registerFn(ctx, creds)
	}
	m.authenticated = true
	return &domain.User{Username: creds.Username}, nil
}

func (m *mockSession) Logout(ctx context.Context) error {
	m.authenticated = false
	return nil
}

func (m *mockSession) Self(ctx context.Context) (*domain.User, error) {
	if m.selfFn != nil {
		return m.selfFn(ctx)
	}
	return &domain.User{ID: 1, Username: "ranger"}, nil
}

func (m *mockSession) FetchLocations(ctx context.Context) ([]domain.SavedLocation, error) {
	if m.fetchFn != nil {
		return m.fetchFn(ctx)
	}
	return nil, nil
}

func (m *mockSession) SaveLocation(ctx context.Context, address string, radius float64) (*domain.SavedLocation, error) {
	if m.saveFn != nil {
		return m.saveFn(ctx, address, radius)
	}
	return &domain.SavedLocation{ID: 1, Address: address, Radius: radius}, nil
}

func (m *mockSession) IsAuthenticated() bool { return m.authenticated }

// ---- Test helpers ----

var (
	fireSF = domain.Incident{Index: 0, Location: domain.Coordinate{Latitude: 37.78, Longitude: -122.42}}
	fireLA = domain.Incident{Index: 1, Location: domain.Coordinate{Latitude: 34.05, Longitude: -118.24}}
	sf     = domain.Coordinate{Latitude: 37.7749, Longitude: -122.4194}
)

type fixture struct {
	fires    *mockFires
	geocoder *mockGeocoder
	session  *mockSession
}

type envelope struct {
	OK   bool            `json:"ok"`
	Data json.RawMessage `json:"data"`
}

type apiError struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail"`
}

func setupApp(deps *handler.Dependencies) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	handler.SetupRoutes(app, deps)
	return app
}

func makeDeps(t *testing.T, opts ...func(*fixture)) *handler.Dependencies {
	t.Helper()
	f := &fixture{
		fires: &mockFires{allFiresFn: func(ctx context.Context) ([]domain.Incident, error) {
			return []domain.Incident{fireSF, fireLA}, nil
		}},
		geocoder: &mockGeocoder{geocodeFn: func(ctx context.Context, address string) (domain.Coordinate, error) {
			return sf, nil
		}},
		session: &mockSession{},
	}
	for _, o := range opts {
		o(f)
	}

	fires := usecases.NewFireService(store.New(nil), f.fires, f.geocoder, f.session, nil, nil,
		usecases.FireServiceConfig{Unit: domain.Miles, RegistrationDelay: time.Hour})
	t.Cleanup(fires.Close)

	return &handler.Dependencies{
		Fires: fires,
		Auth:  usecases.NewAuthService(f.session),
	}
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func decode(t *testing.T, resp *http.Response, data any) envelope {
	t.Helper()
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if data != nil {
		if err := json.Unmarshal(env.Data, data); err != nil {
			t.Fatalf("decode data: %v", err)
		}
	}
	return env
}

func getState(t *testing.T, app *fiber.App) store.State {
	t.Helper()
	resp := doJSON(t, app, "GET", "/v1/state", "")
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var st store.State
	decode(t, resp, &st)
	return st
}

// ---- State handler tests ----

func TestGetState_Initial(t *testing.T) {
	app := setupApp(makeDeps(t))

	resp := doJSON(t, app, "GET", "/v1/state", "")
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if etag := resp.Header.Get("ETag"); etag != `W/"v0"` {
		t.Errorf("expected version etag, got %q", etag)
	}
	if cc := resp.Header.Get("Cache-Control"); cc != "no-cache" {
		t.Errorf("expected no-cache, got %q", cc)
	}

	var st store.State
	env := decode(t, resp, &st)
	if !env.OK {
		t.Error("expected ok result")
	}
	if st.PublicRadius != store.DefaultPublicRadius {
		t.Errorf("expected default radius, got %v", st.PublicRadius)
	}
	if st.PrivateMapViewport.Height != "500" {
		t.Errorf("expected private map height 500, got %s", st.PrivateMapViewport.Height)
	}
}

func TestGetState_NotModified(t *testing.T) {
	app := setupApp(makeDeps(t))

	req := httptest.NewRequest("GET", "/v1/state", nil)
	req.Header.Set("If-None-Match", `W/"v0"`)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 304 {
		t.Fatalf("expected 304, got %d", resp.StatusCode)
	}
}

func TestRefreshFires_Success(t *testing.T) {
	app := setupApp(makeDeps(t))

	resp := doJSON(t, app, "POST", "/v1/fires/refresh", "")
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var data struct {
		Count int `json:"count"`
	}
	decode(t, resp, &data)
	if data.Count != 2 {
		t.Errorf("expected 2 incidents, got %d", data.Count)
	}

	st := getState(t, app)
	if len(st.AllFires) != 2 || len(st.AllFireMarkers) != 2 {
		t.Errorf("expected 2 fires and markers, got %d/%d", len(st.AllFires), len(st.AllFireMarkers))
	}
}

func TestRefreshFires_UpstreamFailure(t *testing.T) {
	app := setupApp(makeDeps(t, func(f *fixture) {
		f.fires.allFiresFn = func(ctx context.Context) ([]domain.Incident, error) {
			return nil, &domain.Error{Kind: domain.KindNetwork, Op: "all fires", Message: "connection refused"}
		}
	}))

	resp := doJSON(t, app, "POST", "/v1/fires/refresh", "")
	if resp.StatusCode != 502 {
		t.Fatalf("expected 502, got %d", resp.StatusCode)
	}
	var apiErr apiError
	env := decode(t, resp, &apiErr)
	if env.OK {
		t.Error("expected failed result")
	}
	if apiErr.Code != string(domain.KindNetwork) {
		t.Errorf("expected network_failure, got %s", apiErr.Code)
	}

	st := getState(t, app)
	if st.LastError == nil || st.LastError.Kind != domain.KindNetwork {
		t.Errorf("expected last error in state, got %+v", st.LastError)
	}
}

// ---- Search handler tests ----

func TestSearch_Success(t *testing.T) {
	app := setupApp(makeDeps(t))
	doJSON(t, app, "POST", "/v1/fires/refresh", "")

	resp := doJSON(t, app, "POST", "/v1/search", `{"address":"San Francisco","radius":10}`)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var st store.State
	decode(t, resp, &st)
	if len(st.LocalFires) != 1 || st.LocalFires[0].Index != fireSF.Index {
		t.Errorf("expected only the SF fire nearby, got %+v", st.LocalFires)
	}
	if st.PublicCoordinatesMarker == nil || st.PublicCoordinatesMarker.Select == nil {
		t.Fatal("expected search marker")
	}
	if got := *st.PublicCoordinatesMarker.Select.Address; got != "San Francisco" {
		t.Errorf("expected address on marker, got %q", got)
	}
}

func TestSearch_BadBody(t *testing.T) {
	app := setupApp(makeDeps(t))

	resp := doJSON(t, app, "POST", "/v1/search", `{"address":`)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	var apiErr apiError
	decode(t, resp, &apiErr)
	if apiErr.Code != "bad_request" {
		t.Errorf("expected bad_request, got %s", apiErr.Code)
	}
}

func TestSearch_NegativeRadius(t *testing.T) {
	app := setupApp(makeDeps(t))

	resp := doJSON(t, app, "POST", "/v1/search", `{"address":"Reno","radius":-1}`)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestDeleteSearchMarker(t *testing.T) {
	app := setupApp(makeDeps(t))
	doJSON(t, app, "POST", "/v1/search", `{"address":"San Francisco"}`)

	resp := doJSON(t, app, "DELETE", "/v1/search/marker", "")
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var st store.State
	decode(t, resp, &st)
	if st.PublicCoordinatesMarker != nil || st.SelectedMarker != nil {
		t.Error("expected search marker and selection cleared")
	}
}

// ---- Selection handler tests ----

func TestSelection_SetAndClear(t *testing.T) {
	app := setupApp(makeDeps(t))

	resp := doJSON(t, app, "PUT", "/v1/selection", `{"latitude":37.78,"longitude":-122.42,"kind":"fireLocation"}`)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var st store.State
	decode(t, resp, &st)
	if st.SelectedMarker == nil || st.SelectedMarker.Kind != domain.MarkerFireLocation {
		t.Fatalf("expected fire selection, got %+v", st.SelectedMarker)
	}

	resp = doJSON(t, app, "DELETE", "/v1/selection", "")
	decode(t, resp, &st)
	if st.SelectedMarker != nil {
		t.Error("expected selection cleared")
	}
}

func TestSelection_UnknownKind(t *testing.T) {
	app := setupApp(makeDeps(t))

	resp := doJSON(t, app, "PUT", "/v1/selection", `{"latitude":1,"longitude":2,"kind":"volcano"}`)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	var apiErr apiError
	decode(t, resp, &apiErr)
	if apiErr.Code != string(domain.KindInvalidInput) {
		t.Errorf("expected invalid_input, got %s", apiErr.Code)
	}
}

func TestSaveSelection_NotAuthenticated(t *testing.T) {
	app := setupApp(makeDeps(t))
	doJSON(t, app, "PUT", "/v1/selection", `{"latitude":37.78,"longitude":-122.42,"kind":"fireLocation"}`)

	resp := doJSON(t, app, "POST", "/v1/selection/save", "")
	if resp.StatusCode != 401 {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	var apiErr apiError
	decode(t, resp, &apiErr)
	if apiErr.Message != "Please log in to save a location." {
		t.Errorf("unexpected message %q", apiErr.Message)
	}
}

func TestSaveSelection_Success(t *testing.T) {
	app := setupApp(makeDeps(t, func(f *fixture) {
		f.session.authenticated = true
	}))
	doJSON(t, app, "PUT", "/v1/selection",
		`{"latitude":37.7749,"longitude":-122.4194,"address":"San Francisco","radius":25,"kind":"tempLocation"}`)

	resp := doJSON(t, app, "POST", "/v1/selection/save", "")
	if resp.StatusCode != 201 {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var saved domain.SavedLocation
	decode(t, resp, &saved)
	if saved.Address != "San Francisco" || saved.Radius != 25 {
		t.Errorf("unexpected saved location %+v", saved)
	}

	st := getState(t, app)
	if len(st.UserLocationMarkers) != 1 {
		t.Errorf("expected 1 saved marker, got %d", len(st.UserLocationMarkers))
	}
}

// ---- Location handler tests ----

func TestListLocations_Empty(t *testing.T) {
	app := setupApp(makeDeps(t, func(f *fixture) {
		f.session.authenticated = true
	}))

	resp := doJSON(t, app, "GET", "/v1/locations", "")
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if cc := resp.Header.Get("Cache-Control"); cc != "private, no-store" {
		t.Errorf("expected private no-store, got %q", cc)
	}
	env := decode(t, resp, nil)
	if string(env.Data) != "[]" {
		t.Errorf("expected empty list, got %s", env.Data)
	}
}

func TestSyncLocations_Alerts(t *testing.T) {
	app := setupApp(makeDeps(t, func(f *fixture) {
		f.session.authenticated = true
		f.session.fetchFn = func(ctx context.Context) ([]domain.SavedLocation, error) {
			return []domain.SavedLocation{
				{ID: 1, Address: "San Francisco", Latitude: sf.Latitude, Longitude: sf.Longitude, Radius: 5},
			}, nil
		}
	}))
	doJSON(t, app, "POST", "/v1/fires/refresh", "")

	resp := doJSON(t, app, "POST", "/v1/locations/sync", "")
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var data struct {
		Alerts []domain.NearbyAlert `json:"alerts"`
		Unit   string               `json:"unit"`
	}
	decode(t, resp, &data)
	if len(data.Alerts) != 1 || len(data.Alerts[0].Incidents) != 1 {
		t.Fatalf("expected 1 alert with 1 incident, got %+v", data.Alerts)
	}
	if data.Unit != "mi" {
		t.Errorf("expected mi, got %s", data.Unit)
	}

	st := getState(t, app)
	if len(st.UserLocalFires) != 1 || len(st.UserLocationMarkers) != 1 {
		t.Errorf("expected private map rebuilt, got %d fires / %d markers",
			len(st.UserLocalFires), len(st.UserLocationMarkers))
	}
}

func TestSetPublicViewport(t *testing.T) {
	app := setupApp(makeDeps(t))

	resp := doJSON(t, app, "PUT", "/v1/viewport/public",
		`{"width":"100%","height":"80vh","latitude":40,"longitude":-100,"zoom":5}`)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var st store.State
	decode(t, resp, &st)
	if st.PublicMapViewport.Zoom != 5 || st.PublicMapViewport.Height != "80vh" {
		t.Errorf("unexpected viewport %+v", st.PublicMapViewport)
	}
}

func TestRegistrationPrompt(t *testing.T) {
	app := setupApp(makeDeps(t))

	resp := doJSON(t, app, "POST", "/v1/registration-prompt", "")
	if resp.StatusCode != 202 {
		t.Fatalf("expected 202, got %d", resp.StatusCode)
	}

	// A second request while the first is pending is refused.
	resp = doJSON(t, app, "POST", "/v1/registration-prompt", "")
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var data struct {
		Scheduled bool `json:"scheduled"`
	}
	decode(t, resp, &data)
	if data.Scheduled {
		t.Error("expected no second prompt")
	}
}

// ---- Auth handler tests ----

func TestLogin_Success(t *testing.T) {
	deps := makeDeps(t)
	app := setupApp(deps)

	resp := doJSON(t, app, "POST", "/v1/auth/login", `{"username":"ranger","password":"s3cret"}`)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var user domain.User
	decode(t, resp, &user)
	if user.Username != "ranger" {
		t.Errorf("expected ranger, got %s", user.Username)
	}
	if !deps.Auth.IsAuthenticated() {
		t.Error("expected session after login")
	}
}

func TestLogin_Rejected(t *testing.T) {
	app := setupApp(makeDeps(t, func(f *fixture) {
		f.session.loginFn = func(ctx context.Context, creds domain.Credentials) (*domain.User, error) {
			return nil, &domain.Error{Kind: domain.KindAuth, Op: "login", StatusCode: 401,
				Message: "Login Failed", Detail: "invalid credentials"}
		}
	}))

	resp := doJSON(t, app, "POST", "/v1/auth/login", `{"username":"ranger","password":"wrong"}`)
	if resp.StatusCode != 401 {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	var apiErr apiError
	decode(t, resp, &apiErr)
	if apiErr.Message != "Login Failed" || apiErr.Detail != "invalid credentials" {
		t.Errorf("unexpected error %+v", apiErr)
	}
}

func TestLogin_MissingCredentials(t *testing.T) {
	app := setupApp(makeDeps(t))

	resp := doJSON(t, app, "POST", "/v1/auth/login", `{"username":"ranger"}`)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestRegister_Created(t *testing.T) {
	app := setupApp(makeDeps(t))

	resp := doJSON(t, app, "POST", "/v1/auth/register", `{"username":"newbie","password":"pw"}`)
	if resp.StatusCode != 201 {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
}

func TestSession_NotAuthenticated(t *testing.T) {
	app := setupApp(makeDeps(t))

	resp := doJSON(t, app, "GET", "/v1/auth/session", "")
	if resp.StatusCode != 401 {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	var apiErr apiError
	decode(t, resp, &apiErr)
	if apiErr.Code != string(domain.KindNotAuthenticated) {
		t.Errorf("expected not_authenticated, got %s", apiErr.Code)
	}
}

func TestLogout_ClearsSession(t *testing.T) {
	deps := makeDeps(t, func(f *fixture) {
		f.session.authenticated = true
	})
	app := setupApp(deps)

	resp := doJSON(t, app, "POST", "/v1/auth/logout", "")
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if deps.Auth.IsAuthenticated() {
		t.Error("expected session dropped")
	}
}

// ---- GraphQL ----

func TestGraphQL_StateQuery(t *testing.T) {
	app := setupApp(makeDeps(t))
	doJSON(t, app, "POST", "/v1/fires/refresh", "")

	resp := doJSON(t, app, "POST", "/graphql",
		`{"query":"{ state { version publicRadius allFires { index location { latitude } } } unit authenticated }"}`)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result struct {
		Data struct {
			State struct {
				Version      int     `json:"version"`
				PublicRadius float64 `json:"publicRadius"`
				AllFires     []struct {
					Index int `json:"index"`
				} `json:"allFires"`
			} `json:"state"`
			Unit          string `json:"unit"`
			Authenticated bool   `json:"authenticated"`
		} `json:"data"`
	}
	env := decode(t, resp, &result)
	if !env.OK {
		t.Fatalf("expected ok result, got %s", env.Data)
	}
	if result.Data.State.Version != 1 {
		t.Errorf("expected version 1, got %d", result.Data.State.Version)
	}
	if len(result.Data.State.AllFires) != 2 {
		t.Errorf("expected 2 fires, got %d", len(result.Data.State.AllFires))
	}
	if result.Data.Unit != "mi" || result.Data.Authenticated {
		t.Errorf("unexpected unit/auth %s/%v", result.Data.Unit, result.Data.Authenticated)
	}
}

// ---- Health handler tests ----

func TestHealth_Returns200(t *testing.T) {
	app := setupApp(makeDeps(t))

	resp := doJSON(t, app, "GET", "/v1/health", "")
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result map[string]interface{}
	decode(t, resp, &result)
	if result["status"] != "healthy" {
		t.Errorf("expected healthy status, got %v", result["status"])
	}
}

func TestReady_NothingConfigured(t *testing.T) {
	app := setupApp(makeDeps(t))

	resp := doJSON(t, app, "GET", "/v1/ready", "")
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var result struct {
		Checks map[string]string `json:"checks"`
	}
	decode(t, resp, &result)
	if result.Checks["nats"] != "not configured" || result.Checks["cache"] != "not configured" {
		t.Errorf("unexpected checks %v", result.Checks)
	}
}

// ---- Middleware ----

func TestAPIVersionHeader(t *testing.T) {
	app := setupApp(makeDeps(t))

	resp := doJSON(t, app, "GET", "/v1/health", "")
	if v := resp.Header.Get("X-API-Version"); v != "1.0.0" {
		t.Errorf("expected X-API-Version 1.0.0, got %q", v)
	}
}

func TestWebSocket_RequiresUpgrade(t *testing.T) {
	app := setupApp(makeDeps(t))

	resp := doJSON(t, app, "GET", "/ws", "")
	if resp.StatusCode != fiber.StatusUpgradeRequired {
		t.Fatalf("expected 426, got %d", resp.StatusCode)
	}
}

func TestRequestIDLogMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("requestid", "req-42")
		return c.Next()
	})
	app.Use(handler.RequestIDLogMiddleware())
	app.Get("/test", func(c *fiber.Ctx) error {
		scoped := handler.LoggerFromCtx(c.UserContext()) != slog.Default()
		return c.JSON(fiber.Map{"scoped": scoped})
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/test", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `"scoped":true`) {
		t.Errorf("expected request-scoped logger, got %s", body)
	}
}

// TestAccessLogMiddleware verifies structured access logging passes the
// response through.
func TestAccessLogMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(handler.AccessLogMiddleware())
	app.Get("/test", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true})
	})

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("X-Request-ID", "test-req-123")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "ok") {
		t.Errorf("expected response body to contain 'ok', got %s", string(body))
	}
}
