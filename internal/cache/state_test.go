package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// memCache 以 map 模擬 Redis 的 SET / GETDEL
type memCache map[string]any

func (m memCache) Set(_ context.Context, key string, value any, _ time.Duration) *redis.StatusCmd {
	m[key] = value
	return redis.NewStatusResult("OK", nil)
}

func (m memCache) GetDel(_ context.Context, key string) *redis.StringCmd {
	v, ok := m[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	delete(m, key)
	return redis.NewStringResult(v.(string), nil)
}

func (m memCache) Close() error { return nil }

func TestStateStoreSingleUse(t *testing.T) {
	ctx := context.Background()
	s := NewStateStore(memCache{})

	require.NoError(t, s.Save(ctx, "abc", 10*time.Minute))

	ok, err := s.Consume(ctx, "abc")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = s.Consume(ctx, "abc")
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = s.Consume(ctx, "never-issued")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestStateStoreErrors(t *testing.T) {
	ctx := context.Background()
	var gotKey string
	var gotTTL time.Duration
	c := &FakeCache{
		SetFn: func(_ context.Context, key string, _ any, ttl time.Duration) *redis.StatusCmd {
			gotKey, gotTTL = key, ttl
			return redis.NewStatusResult("", errors.New("readonly"))
		},
		GetDelFn: func(context.Context, string) *redis.StringCmd {
			return redis.NewStringResult("", errors.New("conn"))
		},
	}
	s := NewStateStore(c)

	require.Error(t, s.Save(ctx, "abc", time.Minute))
	require.Equal(t, "oauth_state:abc", gotKey)
	require.Equal(t, time.Minute, gotTTL)

	_, err := s.Consume(ctx, "abc")
	require.Error(t, err)
}
