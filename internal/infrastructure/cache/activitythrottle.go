package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const activityKeyPrefix = "session:touch:"

// ActivityThrottle limits how often a session's last-used timestamp is written.
// ShouldTouch returns true at most once per interval for a given session.
type ActivityThrottle interface {
	ShouldTouch(ctx context.Context, sessionID uint) (bool, error)
}

// RedisActivityThrottle shares the throttle window across server instances.
type RedisActivityThrottle struct {
	client   *redis.Client
	interval time.Duration
}

func NewRedisActivityThrottle(client *redis.Client, interval time.Duration) *RedisActivityThrottle {
	return &RedisActivityThrottle{client: client, interval: interval}
}

func (t *RedisActivityThrottle) ShouldTouch(ctx context.Context, sessionID uint) (bool, error) {
	if t.interval <= 0 {
		return true, nil
	}
	ok, err := t.client.SetNX(ctx, activityKey(sessionID), 1, t.interval).Result()
	if err != nil {
		return false, fmt.Errorf("failed to set activity marker: %w", err)
	}
	return ok, nil
}

type MemoryActivityThrottle struct {
	store    *MemoryStore
	interval time.Duration
}

func NewMemoryActivityThrottle(store *MemoryStore, interval time.Duration) *MemoryActivityThrottle {
	return &MemoryActivityThrottle{store: store, interval: interval}
}

func (t *MemoryActivityThrottle) ShouldTouch(_ context.Context, sessionID uint) (bool, error) {
	if t.interval <= 0 {
		return true, nil
	}
	return t.store.SetNX(activityKey(sessionID), "1", t.interval), nil
}

func activityKey(sessionID uint) string {
	return fmt.Sprintf("%s%d", activityKeyPrefix, sessionID)
}
