package social

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// StateTTL bounds how long an authorization round trip may take.
const StateTTL = 10 * time.Minute

const statePrefix = "oauth:state:"

// StateStore remembers issued OAuth2 state values until they are consumed once.
type StateStore interface {
	Save(ctx context.Context, state string) error
	Consume(ctx context.Context, state string) (bool, error)
}

// NewState returns a random URL-safe state value.
func NewState() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// RedisStateStore keeps states in Redis so any instance can finish a login.
type RedisStateStore struct {
	cache *redis.Client
}

// NewRedisStateStore builds a Redis-backed state store.
func NewRedisStateStore(cache *redis.Client) *RedisStateStore {
	return &RedisStateStore{cache: cache}
}

// Save records a freshly issued state for StateTTL.
func (s *RedisStateStore) Save(ctx context.Context, state string) error {
	ok, err := s.cache.SetNX(ctx, statePrefix+state, 1, StateTTL).Result()
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("oauth state collision")
	}
	return nil
}

// Consume deletes state and reports whether it was still pending.
func (s *RedisStateStore) Consume(ctx context.Context, state string) (bool, error) {
	err := s.cache.GetDel(ctx, statePrefix+state).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

type memoryStateStore struct {
	mu     sync.Mutex
	states map[string]time.Time
	now    func() time.Time
}

// NewMemoryStateStore builds a process-local state store for development.
func NewMemoryStateStore() StateStore {
	return &memoryStateStore{states: make(map[string]time.Time), now: time.Now}
}

func (s *memoryStateStore) Save(_ context.Context, state string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for k, exp := range s.states {
		if !exp.After(now) {
			delete(s.states, k)
		}
	}
	s.states[state] = now.Add(StateTTL)
	return nil
}

func (s *memoryStateStore) Consume(_ context.Context, state string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.states[state]
	delete(s.states, state)
	return ok && exp.After(s.now()), nil
}
