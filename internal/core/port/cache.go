package port

import (
	"context"
	"time"
)

// Cache is a byte-payload cache with TTL semantics, used cache-aside for the
// dashboard aggregation. A missing key is reported via repository.ErrNotFound.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
