package store

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	r := NewRedis(client, "")
	t.Cleanup(func() { r.Close() })
	return r, mr
}

func TestRedisContract(t *testing.T) {
	r, _ := newTestRedis(t)
	kvContract(t, r)
}

func TestRedisKeysArePrefixed(t *testing.T) {
	r, mr := newTestRedis(t)
	ctx := context.Background()

	require.NoError(t, r.Save(ctx, KeyProgress, map[string]float64{"math": 0.8}))

	assert.True(t, mr.Exists("odyssey:progress"))
	raw, err := mr.Get("odyssey:progress")
	require.NoError(t, err)
	assert.JSONEq(t, `{"math":0.8}`, raw)

	// Foreign keys in the same database are not listed.
	require.NoError(t, mr.Set("other:thing", "x"))
	keys, err := r.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{KeyProgress}, keys)
}

func TestOpenRedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := OpenRedis(context.Background(), addr, "", 0, "")
	assert.ErrorIs(t, err, ErrUnavailable)
}
