package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRedis struct {
	data   map[string]string
	ttls   map[string]time.Duration
	err    error
	pong   string
	closed bool
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{
		data: make(map[string]string),
		ttls: make(map[string]time.Duration),
		pong: "PONG",
	}
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	if f.err != nil {
		return redis.NewStringResult("", f.err)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	if f.err != nil {
		return redis.NewStatusResult("", f.err)
	}
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	case string:
		f.data[key] = v
	}
	f.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) *redis.IntCmd {
	if f.err != nil {
		return redis.NewIntResult(0, f.err)
	}
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func (f *fakeRedis) Ping(_ context.Context) *redis.StatusCmd {
	return redis.NewStatusResult(f.pong, f.err)
}

func (f *fakeRedis) Close() error {
	f.closed = true
	return nil
}

func TestRedisStore(t *testing.T) {
	ctx := context.Background()
	fake := newFakeRedis()
	store := newRedisStore(fake, "session:")
	assert.Equal(t, "redis", store.Name())

	_, err := store.Load(ctx, "sess_1")
	assert.ErrorIs(t, err, ErrNotFound)

	s := newSession("sess_1")
	s.Set("user", "ada")
	require.NoError(t, store.Save(ctx, s, time.Hour))
	assert.Contains(t, fake.data, "session:sess_1")
	assert.Equal(t, time.Hour, fake.ttls["session:sess_1"])

	loaded, err := store.Load(ctx, "sess_1")
	require.NoError(t, err)
	assert.Equal(t, "ada", loaded.GetString("user"))

	require.NoError(t, store.Delete(ctx, "sess_1"))
	assert.NotContains(t, fake.data, "session:sess_1")

	require.NoError(t, store.Close())
	assert.True(t, fake.closed)
}

func TestRedisStoreErrors(t *testing.T) {
	ctx := context.Background()
	fake := newFakeRedis()
	fake.err = errors.New("connection refused")
	store := newRedisStore(fake, "")

	_, err := store.Load(ctx, "x")
	assert.ErrorContains(t, err, "connection refused")
	assert.NotErrorIs(t, err, ErrNotFound)

	assert.Error(t, store.Save(ctx, newSession("x"), 0))
	assert.Error(t, store.Delete(ctx, "x"))
	assert.Error(t, store.Ping(ctx))
}

func TestRedisStorePing(t *testing.T) {
	fake := newFakeRedis()
	store := newRedisStore(fake, "")
	assert.NoError(t, store.Ping(context.Background()))

	fake.pong = "NOPE"
	assert.ErrorContains(t, store.Ping(context.Background()), "unexpected PING response")
}
