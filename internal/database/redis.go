package database

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Hooks for tests.
var (
	newRedisClient   = redis.NewClient
	redisPing        = func(ctx context.Context, client *redis.Client) error { return client.Ping(ctx).Err() }
	closeRedisClient = func(client *redis.Client) error { return client.Close() }
)

// RedisDB holds the client used for token revocation and rate limiting.
type RedisDB struct {
	Client *redis.Client
}

// RedisOptions locates the server. PoolSize falls back to 10.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	PoolSize int
}

func (o RedisOptions) clientOptions() *redis.Options {
	pool := o.PoolSize
	if pool <= 0 {
		pool = 10
	}
	return &redis.Options{
		Addr:         o.Addr,
		Password:     o.Password,
		DB:           o.DB,
		ClientName:   ApplicationName,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		PoolSize:     pool,
		MinIdleConns: min(2, pool),
	}
}

// NewRedisDB connects and pings. The client is closed again if the ping
// fails.
func NewRedisDB(opts RedisOptions) (*RedisDB, error) {
	client := newRedisClient(opts.clientOptions())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisPing(ctx, client); err != nil {
		_ = closeRedisClient(client)
		return nil, fmt.Errorf("pinging redis at %s: %w", opts.Addr, err)
	}
	return &RedisDB{Client: client}, nil
}

func (r *RedisDB) Close() error {
	if r.Client == nil {
		return nil
	}
	return closeRedisClient(r.Client)
}

func (r *RedisDB) Health(ctx context.Context) error {
	return redisPing(ctx, r.Client)
}
