package ports

import (
	"context"
)

// TokenKey is the fixed key the session token is persisted under.
const TokenKey = "token"

// TokenStore persists the session token across restarts.
// Load returns an empty string and no error when nothing is stored.
type TokenStore interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Remove(ctx context.Context) error
}
