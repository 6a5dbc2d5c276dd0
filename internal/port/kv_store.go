package port

import (
	"context"
	"time"

	"holdops/internal/domain"
)

// KVStore defines the contract for the shared key-value store. Values are
// JSON documents. Expired entries behave as absent.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, prefix string) ([]domain.KVEntry, error)
	PurgeExpired(ctx context.Context) (int64, error)
}
