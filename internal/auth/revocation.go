package auth

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedPrefix = "auth:revoked:"

// Revocations records token ids that must no longer be accepted.
type Revocations interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// RedisRevocations keeps revoked token ids in Redis until the token would
// have expired anyway.
type RedisRevocations struct {
	cache *redis.Client
}

// NewRedisRevocations builds a Redis-backed revocation list.
func NewRedisRevocations(cache *redis.Client) *RedisRevocations {
	return &RedisRevocations{cache: cache}
}

// Revoke marks tokenID as revoked until the given expiry.
func (r *RedisRevocations) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	return r.cache.Set(ctx, revokedPrefix+tokenID, 1, ttl).Err()
}

// IsRevoked reports whether tokenID has been revoked.
func (r *RedisRevocations) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.cache.Exists(ctx, revokedPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

type memoryRevocations struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

// NewMemoryRevocations builds a process-local revocation list for development.
func NewMemoryRevocations() Revocations {
	return &memoryRevocations{revoked: make(map[string]time.Time), now: time.Now}
}

func (m *memoryRevocations) Revoke(_ context.Context, tokenID string, until time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	for id, exp := range m.revoked {
		if !exp.After(now) {
			delete(m.revoked, id)
		}
	}
	if until.After(now) {
		m.revoked[tokenID] = until
	}
	return nil
}

func (m *memoryRevocations) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	exp, ok := m.revoked[tokenID]
	return ok && exp.After(m.now()), nil
}
