package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationStore remembers revoked token ids until their ttl runs out.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type memoryRevocationStore struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

// NewMemoryRevocationStore keeps revocations in process memory. Revocations
// are lost on restart and are not shared between instances.
func NewMemoryRevocationStore() RevocationStore {
	return newMemoryRevocationStore(time.Now)
}

func newMemoryRevocationStore(now func() time.Time) *memoryRevocationStore {
	return &memoryRevocationStore{entries: map[string]time.Time{}, now: now}
}

func (m *memoryRevocationStore) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for id, until := range m.entries {
		if !now.Before(until) {
			delete(m.entries, id)
		}
	}
	m.entries[tokenID] = now.Add(ttl)
	return nil
}

func (m *memoryRevocationStore) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	until, ok := m.entries[tokenID]
	if !ok {
		return false, nil
	}
	if !m.now().Before(until) {
		delete(m.entries, tokenID)
		return false, nil
	}
	return true, nil
}

type redisRevocationStore struct {
	client *redis.Client
	prefix string
}

func NewRedisRevocationStore(client *redis.Client, prefix string) RevocationStore {
	return &redisRevocationStore{client: client, prefix: prefix}
}

// NewRedisRevocationStoreFromURL connects to url (redis://host:port/db) and
// verifies the connection.
func NewRedisRevocationStoreFromURL(ctx context.Context, url, prefix string) (RevocationStore, *redis.Client, error) {
	if url == "" {
		return nil, nil, errors.New("redis URL is required")
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, nil, fmt.Errorf("parse redis url: %w", err)
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewRedisRevocationStore(client, prefix), client, nil
}

func (r *redisRevocationStore) key(tokenID string) string {
	return r.prefix + "revoked:" + tokenID
}

func (r *redisRevocationStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, r.key(tokenID), "1", ttl).Err()
}

func (r *redisRevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.client.Exists(ctx, r.key(tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
