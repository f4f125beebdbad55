package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisClient is the subset of *redis.Client the store uses. Tests supply
// a fake built on the redis.New*Result constructors.
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

// RedisStore keeps sessions in Redis under a key prefix.
type RedisStore struct {
	client redisClient
	prefix string
}

// RedisOptions configures a RedisStore.
type RedisOptions struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// NewRedisStore creates a store backed by a new go-redis client. No
// connection is made until the first command.
func NewRedisStore(opts RedisOptions) *RedisStore {
	return newRedisStore(redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}), opts.KeyPrefix)
}

func newRedisStore(client redisClient, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

// Name identifies the store in logs.
func (r *RedisStore) Name() string { return "redis" }

func (r *RedisStore) key(id string) string {
	return r.prefix + id
}

// Load returns the session stored under id.
func (r *RedisStore) Load(ctx context.Context, id string) (*Session, error) {
	data, err := r.client.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis store: get %s: %w", id, err)
	}
	return decode(data)
}

// Save stores s for ttl. A zero ttl stores without expiry.
func (r *RedisStore) Save(ctx context.Context, s *Session, ttl time.Duration) error {
	data, err := encode(s)
	if err != nil {
		return fmt.Errorf("redis store: encode session: %w", err)
	}
	if err := r.client.Set(ctx, r.key(s.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis store: set %s: %w", s.ID, err)
	}
	return nil
}

// Delete removes the session stored under id.
func (r *RedisStore) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, r.key(id)).Err(); err != nil {
		return fmt.Errorf("redis store: del %s: %w", id, err)
	}
	return nil
}

// Ping checks the connection and expects PONG.
func (r *RedisStore) Ping(ctx context.Context) error {
	val, err := r.client.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	if val != "PONG" {
		return fmt.Errorf("unexpected PING response: %q", val)
	}
	return nil
}

// Close releases the underlying client.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
