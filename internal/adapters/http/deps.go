package http

import (
	"github.com/nats-io/nats.go"

	"github.com/fireflight/fireflight/internal/adapters/valkey"
	"github.com/fireflight/fireflight/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
// NATS and Cache are optional.
type Dependencies struct {
	Fires *usecases.FireService
	Auth  *usecases.AuthService
	NATS  *nats.Conn
	Cache *valkey.Cache
}
