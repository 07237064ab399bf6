// api/cache/store.go

package cache

import (
	"context"
	"time"
)

// Store is the key-value contract the cache layer runs on. Implementations
// hold string payloads; serialization happens above this boundary. Get
// returns errors.ErrKeyNotFound for an absent or expired key so callers can
// tell a miss from a backend failure.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context, pattern string) ([]string, error)
}
