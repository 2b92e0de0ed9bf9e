package usecases_test

import (
	"context"
	"errors"
	"sync"

	"github.com/fireflight/fireflight/internal/core/domain"
)

// --- Mock FireSource ---

type mockFireSource struct {
	calls      int
	allFiresFn func(ctx context.Context) ([]domain.Incident, error)
}

func (m *mockFireSource) AllFires(ctx context.Context) ([]domain.Incident, error) {
	m.calls++
	if m.allFiresFn != nil {
		return m.allFiresFn(ctx)
	}
	return nil, nil
}

// --- Mock Geocoder ---

type mockGeocoder struct {
	calls     int
	geocodeFn func(ctx context.Context, address string) (domain.Coordinate, error)
}

func (m *mockGeocoder) Geocode(ctx context.Context, address string) (domain.Coordinate, error) {
	m.calls++
	if m.geocodeFn != nil {
		return m.geocodeFn(ctx, address)
	}
	return domain.Coordinate{}, nil
}

// --- Mock SessionClient ---

type mockSession struct {
	mu            sync.Mutex
	authenticated bool

	loginFn          func(ctx context.Context, creds domain.Credentials) (*domain.User, error)
	registerFn       func(ctx context.Context, creds domain.Credentials) (*domain.User, error)
	logoutFn         func(ctx context.Context) error
	selfFn           func(ctx context.Context) (*domain.User, error)
	fetchLocationsFn func(ctx context.Context) ([]domain.SavedLocation, error)
	saveLocationFn   func(ctx context.Context, address string, radius float64) (*domain.SavedLocation, error)
}

func (m *mockSession) Login(ctx context.Context, creds domain.Credentials) (*domain.User, error) {
	if m.loginFn != nil {
		return m.loginFn(ctx, creds)
	}
	return &domain.User{Username: creds.Username}, nil
}

func (m *mockSession) Register(ctx context.Context, creds domain.Credentials) (*domain.User, error) {
	if m.registerFn != nil {
		return m.registerFn(ctx, creds)
	}
	return &domain.User{Username: creds.Username}, nil
}

func (m *mockSession) Logout(ctx context.Context) error {
	if m.logoutFn != nil {
		return m.logoutFn(ctx)
	}
	return nil
}

func (m *mockSession) Self(ctx context.Context) (*domain.User, error) {
	if m.selfFn != nil {
		return m.selfFn(ctx)
	}
	return &domain.User{}, nil
}

func (m *mockSession) FetchLocations(ctx context.Context) ([]domain.SavedLocation, error) {
	if m.fetchLocationsFn != nil {
		return m.fetchLocationsFn(ctx)
	}
	return nil, nil
}

func (m *mockSession) SaveLocation(ctx context.Context, address string, radius float64) (*domain.SavedLocation, error) {
	if m.saveLocationFn != nil {
		return m.saveLocationFn(ctx, address, radius)
	}
	return &domain.SavedLocation{Address: address, Radius: radius}, nil
}

func (m *mockSession) IsAuthenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.authenticated
}

func (m *mockSession) setAuthenticated(v bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.authenticated = v
}

// --- Mock CacheService ---

var errCacheMiss = errors.New("cache miss")

type mockCache struct {
	data map[string][]byte
	ttls map[string]int
}

func newMockCache() *mockCache {
	return &mockCache{data: make(map[string][]byte), ttls: make(map[string]int)}
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	if b, ok := m.data[key]; ok {
		return b, nil
	}
	return nil, errCacheMiss
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	m.data[key] = value
	m.ttls[key] = ttlSeconds
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

// --- Mock EventPublisher ---

type mockEvents struct {
	mu      sync.Mutex
	changes []domain.StateChange
	alerts  []domain.NearbyAlert
}

func (m *mockEvents) PublishStateChange(ctx context.Context, change *domain.StateChange) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.changes = append(m.changes, *change)
	return nil
}

func (m *mockEvents) PublishNearbyAlert(ctx context.Context, alert *domain.NearbyAlert) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.alerts = append(m.alerts, *alert)
	return nil
}
