package valkey

import (
	"context"
	"fmt"

	"github.com/fireflight/fireflight/internal/core/ports"
)

// TokenStore implements ports.TokenStore on a Cache. The token lives at
// KeyPrefix + ports.TokenKey and never expires.
type TokenStore struct {
	cache *Cache
}

func NewTokenStore(cache *Cache) *TokenStore {
	return &TokenStore{cache: cache}
}

// Load returns "" when no token is stored.
func (s *TokenStore) Load(ctx context.Context) (string, error) {
	b, err := s.cache.Get(ctx, ports.TokenKey)
	if err != nil {
		if IsMiss(err) {
			return "", nil
		}
		return "", fmt.Errorf("load token: %w", err)
	}
	return string(b), nil
}

func (s *TokenStore) Save(ctx context.Context, token string) error {
	if err := s.cache.Set(ctx, ports.TokenKey, []byte(token), 0); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

func (s *TokenStore) Remove(ctx context.Context) error {
	if err := s.cache.Delete(ctx, ports.TokenKey); err != nil {
		return fmt.Errorf("remove token: %w", err)
	}
	return nil
}
