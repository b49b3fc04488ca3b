package redisstore

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ChargerLock serializes start/stop operations on a single charger across
// process instances.
type ChargerLock struct {
	client *redis.Client
	ttl    time.Duration
}

// NewChargerLock returns a lock store with the given hold TTL.
func NewChargerLock(client *redis.Client, ttl time.Duration) *ChargerLock {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return &ChargerLock{client: client, ttl: ttl}
}

func (l *ChargerLock) key(chargerID int64) string {
	return fmt.Sprintf("lock:charger:%d", chargerID)
}

// Acquire attempts to take the per-charger lock.
// Returns true if acquired, false if already held.
func (l *ChargerLock) Acquire(ctx context.Context, chargerID int64) (bool, error) {
	ok, err := l.client.SetNX(ctx, l.key(chargerID), "1", l.ttl).Result()
	if err != nil {
		return false, err
	}
	return ok, nil
}

// Release frees the per-charger lock.
func (l *ChargerLock) Release(ctx context.Context, chargerID int64) error {
	return l.client.Del(ctx, l.key(chargerID)).Err()
}
