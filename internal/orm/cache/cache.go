// Package cache provides an optional second-level cache for the entity
// manager: raw row snapshots keyed by (entity, identifier), shared across
// units of work. The identity map remains the first-level cache; this layer
// only short-circuits the storage fetch on an identity-map miss.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store caches raw row snapshots between units of work. A snapshot is the
// column-name-keyed map scanned from storage, before hydration.
type Store interface {
	// Get returns the cached snapshot for (entity, id), with false on miss.
	Get(ctx context.Context, entity string, id any) (map[string]any, bool, error)
	// Put caches a snapshot for (entity, id).
	Put(ctx context.Context, entity string, id any, row map[string]any) error
	// Invalidate drops the snapshot for (entity, id).
	Invalidate(ctx context.Context, entity string, id any) error
}

// RedisStore is a Store backed by Redis, holding JSON-encoded snapshots.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedisStore creates a Redis-backed store. A zero ttl means entries do
// not expire.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl, prefix: "framelab:entity"}
}

func (s *RedisStore) key(entity string, id any) string {
	return fmt.Sprintf("%s:%s:%v", s.prefix, entity, id)
}

// Get implements Store.
func (s *RedisStore) Get(ctx context.Context, entity string, id any) (map[string]any, bool, error) {
	data, err := s.client.Get(ctx, s.key(entity, id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get %s#%v: %w", entity, id, err)
	}

	var row map[string]any
	if err := json.Unmarshal(data, &row); err != nil {
		return nil, false, fmt.Errorf("cache decode %s#%v: %w", entity, id, err)
	}
	return row, true, nil
}

// Put implements Store.
func (s *RedisStore) Put(ctx context.Context, entity string, id any, row map[string]any) error {
	data, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("cache encode %s#%v: %w", entity, id, err)
	}
	if err := s.client.Set(ctx, s.key(entity, id), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("cache put %s#%v: %w", entity, id, err)
	}
	return nil
}

// Invalidate implements Store.
func (s *RedisStore) Invalidate(ctx context.Context, entity string, id any) error {
	if err := s.client.Del(ctx, s.key(entity, id)).Err(); err != nil {
		return fmt.Errorf("cache invalidate %s#%v: %w", entity, id, err)
	}
	return nil
}
