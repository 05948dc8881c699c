package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/orris-inc/deskhub/internal/shared/biztime"
)

// ErrStateNotFound is returned for an unknown, expired or already consumed OAuth state.
var ErrStateNotFound = errors.New("state not found or expired")

// StateInfo stores state-related information for OAuth flow
type StateInfo struct {
	CodeVerifier string    `json:"code_verifier"`
	CreatedAt    time.Time `json:"created_at"`
}

// StateStore remembers the PKCE verifier between the OAuth redirect and its callback.
// VerifyAndGet consumes the state so a callback can only be replayed once.
type StateStore interface {
	Set(ctx context.Context, state string, codeVerifier string) error
	VerifyAndGet(ctx context.Context, state string) (*StateInfo, error)
}

// RedisStateStore provides Redis-based state storage for OAuth flows
type RedisStateStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisStateStore(client *redis.Client, prefix string, ttl time.Duration) *RedisStateStore {
	return &RedisStateStore{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (s *RedisStateStore) Set(ctx context.Context, state string, codeVerifier string) error {
	data, err := encodeState(state, codeVerifier)
	if err != nil {
		return err
	}

	if err := s.client.Set(ctx, s.prefix+state, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store state in redis: %w", err)
	}
	return nil
}

// VerifyAndGet uses GETDEL so the state is consumed atomically.
func (s *RedisStateStore) VerifyAndGet(ctx context.Context, state string) (*StateInfo, error) {
	if state == "" {
		return nil, ErrStateNotFound
	}

	data, err := s.client.GetDel(ctx, s.prefix+state).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrStateNotFound
		}
		return nil, fmt.Errorf("failed to retrieve state from redis: %w", err)
	}
	return decodeState(data)
}

// MemoryStateStore is the single-instance fallback used when Redis is disabled.
type MemoryStateStore struct {
	store  *MemoryStore
	prefix string
	ttl    time.Duration
}

func NewMemoryStateStore(store *MemoryStore, prefix string, ttl time.Duration) *MemoryStateStore {
	return &MemoryStateStore{store: store, prefix: prefix, ttl: ttl}
}

func (s *MemoryStateStore) Set(_ context.Context, state string, codeVerifier string) error {
	data, err := encodeState(state, codeVerifier)
	if err != nil {
		return err
	}
	s.store.Set(s.prefix+state, string(data), s.ttl)
	return nil
}

func (s *MemoryStateStore) VerifyAndGet(_ context.Context, state string) (*StateInfo, error) {
	if state == "" {
		return nil, ErrStateNotFound
	}
	data, ok := s.store.GetDel(s.prefix + state)
	if !ok {
		return nil, ErrStateNotFound
	}
	return decodeState(data)
}

func encodeState(state, codeVerifier string) ([]byte, error) {
	if state == "" {
		return nil, errors.New("state cannot be empty")
	}
	if codeVerifier == "" {
		return nil, errors.New("code_verifier cannot be empty")
	}

	data, err := json.Marshal(StateInfo{
		CodeVerifier: codeVerifier,
		CreatedAt:    biztime.NowUTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal state info: %w", err)
	}
	return data, nil
}

func decodeState(data string) (*StateInfo, error) {
	var info StateInfo
	if err := json.Unmarshal([]byte(data), &info); err != nil {
		return nil, fmt.Errorf("failed to unmarshal state info: %w", err)
	}
	return &info, nil
}
