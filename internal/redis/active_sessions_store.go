package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ActiveSession is the cached shape of a running charging session.
type ActiveSession struct {
	SessionID int64  `json:"session_id"`
	Token     string `json:"token"`
	ChargerID int64  `json:"charger_id"`
	UserID    int64  `json:"user_id"`
}

// SessionCache keeps active sessions in redis keyed by session token for
// quick lookups without hitting postgres.
type SessionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionCache returns redis-backed cache.
func NewSessionCache(client *redis.Client, ttl time.Duration) *SessionCache {
	return &SessionCache{client: client, ttl: ttl}
}

func (c *SessionCache) key(token string) string {
	return fmt.Sprintf("sessions:active:%s", token)
}

// Save caches session.
func (c *SessionCache) Save(ctx context.Context, session ActiveSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(session.Token), data, c.ttl).Err()
}

// Get returns cached session by token.
func (c *SessionCache) Get(ctx context.Context, token string) (*ActiveSession, error) {
	result, err := c.client.Get(ctx, c.key(token)).Result()
	if err != nil {
		return nil, err
	}
	var session ActiveSession
	if err := json.Unmarshal([]byte(result), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// Delete removes cached session.
func (c *SessionCache) Delete(ctx context.Context, token string) error {
	return c.client.Del(ctx, c.key(token)).Err()
}
