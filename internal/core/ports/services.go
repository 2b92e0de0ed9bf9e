package ports

import (
	"context"

	"github.com/fireflight/fireflight/internal/core/domain"
)

// FireSource fetches the current list of active fire incidents.
type FireSource interface {
	AllFires(ctx context.Context) ([]domain.Incident, error)
}

// Geocoder resolves a free-form address to a coordinate.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (domain.Coordinate, error)
}

// SessionClient talks to the authenticated backend API.
type SessionClient interface {
	Login(ctx context.Context, creds domain.Credentials) (*domain.User, error)
	Register(ctx context.Context, creds domain.Credentials) (*domain.User, error)
	Logout(ctx context.Context) error
	Self(ctx context.Context) (*domain.User, error)
	FetchLocations(ctx context.Context) ([]domain.SavedLocation, error)
	SaveLocation(ctx context.Context, address string, radius float64) (*domain.SavedLocation, error)
	IsAuthenticated() bool
}

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishStateChange(ctx context.Context, change *domain.StateChange) error
	PublishNearbyAlert(ctx context.Context, alert *domain.NearbyAlert) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}
