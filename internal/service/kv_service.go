package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"holdops/internal/domain"
	"holdops/internal/port"
)

// MaxKeyLength is the longest accepted KV key.
const MaxKeyLength = 256

// KVService exposes the key-value store to the dashboard.
type KVService interface {
	Get(ctx context.Context, key string) (json.RawMessage, error)
	Set(ctx context.Context, key string, value json.RawMessage, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, prefix string) ([]domain.KVEntry, error)
}

type kvService struct {
	store port.KVStore
}

// NewKVService creates a new KVService implementation.
func NewKVService(store port.KVStore) KVService {
	return &kvService{store: store}
}

func validateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("%w: key is empty", domain.ErrInvalidKey)
	}
	if len(key) > MaxKeyLength {
		return fmt.Errorf("%w: key exceeds %d characters", domain.ErrInvalidKey, MaxKeyLength)
	}
	return nil
}

func (s *kvService) Get(ctx context.Context, key string) (json.RawMessage, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	v, err := s.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(v), nil
}

func (s *kvService) Set(ctx context.Context, key string, value json.RawMessage, ttl time.Duration) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if len(value) == 0 || !json.Valid(value) {
		return domain.ErrInvalidValue
	}
	if ttl < 0 {
		return fmt.Errorf("%w: ttl must not be negative", domain.ErrInvalidValue)
	}
	return s.store.Set(ctx, key, value, ttl)
}

func (s *kvService) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	return s.store.Delete(ctx, key)
}

func (s *kvService) List(ctx context.Context, prefix string) ([]domain.KVEntry, error) {
	if len(prefix) > MaxKeyLength {
		return nil, fmt.Errorf("%w: prefix exceeds %d characters", domain.ErrInvalidKey, MaxKeyLength)
	}
	entries, err := s.store.List(ctx, prefix)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []domain.KVEntry{}
	}
	return entries, nil
}
