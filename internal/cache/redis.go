// Package cache provides port.LookupCache implementations.
package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"businessathi/internal/port"
)

var (
	_ port.LookupCache = (*Redis)(nil)
	_ port.LookupCache = Noop{}
)

// RedisOptions configures the Redis connection.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// Redis is a LookupCache backed by Redis. A Redis with a nil client misses on
// every Get and drops every Set.
type Redis struct {
	client *redis.Client
}

// NewRedis connects and pings the server. On ping failure it returns a
// degraded cache alongside the error so callers may log and continue.
func NewRedis(ctx context.Context, opts RedisOptions) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return &Redis{}, err
	}
	return &Redis{client: client}, nil
}

// Available reports whether the cache holds a live connection.
func (r *Redis) Available() bool {
	return r.client != nil
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	if r.client == nil {
		return nil, false
	}
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if r.client == nil {
		return
	}
	r.client.Set(ctx, key, value, ttl)
}

// Close releases the connection.
func (r *Redis) Close() error {
	if r.client == nil {
		return nil
	}
	return r.client.Close()
}

// Noop never stores anything.
type Noop struct{}

func (Noop) Get(context.Context, string) ([]byte, bool) { return nil, false }
func (Noop) Set(context.Context, string, []byte, time.Duration) {}
