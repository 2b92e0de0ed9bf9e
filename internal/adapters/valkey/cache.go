package valkey

import (
	"context"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"
)

// KeyPrefix namespaces every key a Cache reads or writes.
const KeyPrefix = "fireflight:"

// Cache implements ports.CacheService on Valkey (Redis-compatible).
type Cache struct {
	client valkey.Client
	prefix string
}

// New connects to the Valkey server at addr.
func New(addr string) (*Cache, error) {
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress:  []string{addr},
		DisableCache: true,
	})
	if err != nil {
		return nil, fmt.Errorf("valkey connect: %w", err)
	}
	return &Cache{client: client, prefix: KeyPrefix}, nil
}

// IsMiss reports whether err means the key does not exist.
func IsMiss(err error) bool {
	return valkey.IsValkeyNil(err)
}

func (c *Cache) key(k string) string {
	return c.prefix + k
}

// Get returns the value at key. A missing key is an error matched by IsMiss.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	return c.client.Do(ctx, c.client.B().Get().Key(c.key(key)).Build()).AsBytes()
}

// Set stores value at key for ttlSeconds; zero or less stores without expiry.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	set := c.client.B().Set().Key(c.key(key)).Value(string(value))
	if ttlSeconds > 0 {
		return c.client.Do(ctx, set.Ex(time.Duration(ttlSeconds)*time.Second).Build()).Error()
	}
	return c.client.Do(ctx, set.Build()).Error()
}

// Delete removes key. Deleting a missing key is not an error.
func (c *Cache) Delete(ctx context.Context, key string) error {
	return c.client.Do(ctx, c.client.B().Del().Key(c.key(key)).Build()).Error()
}

// Ping checks connectivity.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Do(ctx, c.client.B().Ping().Build()).Error()
}

// Close releases the client.
func (c *Cache) Close() {
	c.client.Close()
}
