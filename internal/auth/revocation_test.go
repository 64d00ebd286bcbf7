package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRevocationList(t *testing.T) (*RedisRevocationList, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisRevocationList(client), mr
}

func TestRevokeExpiresWithToken(t *testing.T) {
	list, mr := newRevocationList(t)
	ctx := context.Background()

	require.NoError(t, list.Revoke(ctx, "jti-1", time.Now().Add(time.Hour)))
	revoked, err := list.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	ttl := mr.TTL(revokedKeyPrefix + "jti-1")
	assert.Greater(t, ttl, 59*time.Minute)
	assert.LessOrEqual(t, ttl, time.Hour)

	mr.FastForward(time.Hour + time.Second)
	revoked, err = list.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRevokeSkipsExpiredToken(t *testing.T) {
	list, mr := newRevocationList(t)
	ctx := context.Background()

	require.NoError(t, list.Revoke(ctx, "jti-old", time.Now().Add(-time.Minute)))
	assert.False(t, mr.Exists(revokedKeyPrefix+"jti-old"))

	revoked, err := list.IsRevoked(ctx, "jti-old")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestIsRevokedReportsRedisErrors(t *testing.T) {
	list, mr := newRevocationList(t)
	mr.Close()

	_, err := list.IsRevoked(context.Background(), "jti-1")
	assert.Error(t, err)
}
