package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// CartStateStore is the opaque key-value storage used to hydrate a session's
// cart at startup and persist it on every mutation.
type CartStateStore interface {
	Load(ctx context.Context, sessionID string) (json.RawMessage, bool, error)
	Save(ctx context.Context, sessionID string, state any) error
	Delete(ctx context.Context, sessionID string) error
}

// RedisCartStore persists cart state in Redis, one key per session.
type RedisCartStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisCartStore(client *redis.Client, prefix string, ttl time.Duration) *RedisCartStore {
	return &RedisCartStore{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

// Load retrieves the persisted cart state for a session. The second return
// value reports whether any state was found.
func (s *RedisCartStore) Load(ctx context.Context, sessionID string) (json.RawMessage, bool, error) {
	data, err := s.client.Get(ctx, s.prefix+sessionID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("cart store get error: %w", err)
	}
	return data, true, nil
}

// Save stores the cart state for a session, refreshing its TTL.
func (s *RedisCartStore) Save(ctx context.Context, sessionID string, state any) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("cart store marshal error: %w", err)
	}

	if err := s.client.Set(ctx, s.prefix+sessionID, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("cart store set error: %w", err)
	}
	return nil
}

// Delete removes the persisted cart state for a session.
func (s *RedisCartStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.prefix+sessionID).Err(); err != nil {
		return fmt.Errorf("cart store delete error: %w", err)
	}
	return nil
}

// MemoryCartStore is an in-process CartStateStore for tests and local runs
// without Redis.
type MemoryCartStore struct {
	mu   sync.RWMutex
	data map[string]json.RawMessage
}

func NewMemoryCartStore() *MemoryCartStore {
	return &MemoryCartStore{data: make(map[string]json.RawMessage)}
}

func (s *MemoryCartStore) Load(ctx context.Context, sessionID string) (json.RawMessage, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.data[sessionID]
	return data, ok, nil
}

func (s *MemoryCartStore) Save(ctx context.Context, sessionID string, state any) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[sessionID] = data
	return nil
}

func (s *MemoryCartStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sessionID)
	return nil
}
