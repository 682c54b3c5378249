package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"RiskMonitor/internal/ports"
)

const alertKeyPrefix = "riskmonitor:alert:"

type keyStore interface {
	SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisDeduper remembers alerted keys in Redis for ttl.
type RedisDeduper struct {
	client keyStore
	ttl    time.Duration
}

var _ ports.AlertDeduper = (*RedisDeduper)(nil)

// NewRedisDeduper wraps an existing client.
func NewRedisDeduper(client *redis.Client, ttl time.Duration) *RedisDeduper {
	return &RedisDeduper{client: client, ttl: ttl}
}

// ConnectRedis parses url (a redis:// URL or a bare host:port) and pings the server.
func ConnectRedis(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		opt = &redis.Options{Addr: url}
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// FirstAlert reports true the first time key is seen within the TTL window.
func (d *RedisDeduper) FirstAlert(ctx context.Context, key string) (bool, error) {
	if d == nil || d.client == nil {
		return true, nil
	}

	first, err := d.client.SetNX(ctx, alertKeyPrefix+key, time.Now().Unix(), d.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("setnx alert key: %w", err)
	}
	return first, nil
}

// Release deletes the key set by FirstAlert.
func (d *RedisDeduper) Release(ctx context.Context, key string) error {
	if d == nil || d.client == nil {
		return nil
	}
	if err := d.client.Del(ctx, alertKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("del alert key: %w", err)
	}
	return nil
}
