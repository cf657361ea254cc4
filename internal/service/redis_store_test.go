package service

import (
	"codementor_backend/internal/util"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { rdb.Close() })
	return mr, rdb
}

func newTestRedisLocker(rdb *redis.Client, ttl time.Duration) *RedisLocker {
	l := NewRedisLocker(rdb, ttl)
	l.pollInterval = 10 * time.Millisecond
	return l
}

func lockKey(userID uint) string {
	return fmt.Sprintf("%s%d", util.RedisLockPrefix, userID)
}

func TestRedisLocker_ExclusiveUntilUnlock(t *testing.T) {
	mr, rdb := newTestRedis(t)
	l := newTestRedisLocker(rdb, time.Minute)
	ctx := context.Background()

	unlock, err := l.Lock(ctx, 1)
	require.NoError(t, err)
	assert.True(t, mr.Exists(lockKey(1)))
	assert.Equal(t, time.Minute, mr.TTL(lockKey(1)))

	waitCtx, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
	defer cancel()
	_, err = l.Lock(waitCtx, 1)
	assert.ErrorIs(t, err, util.ErrGenerationLockTaken)

	// 其他用户不受影响
	unlockOther, err := l.Lock(ctx, 2)
	require.NoError(t, err)
	unlockOther()

	unlock()
	assert.False(t, mr.Exists(lockKey(1)))
	unlock()

	unlock, err = l.Lock(ctx, 1)
	require.NoError(t, err)
	unlock()
}

func TestRedisLocker_WaiterAcquiresAfterRelease(t *testing.T) {
	_, rdb := newTestRedis(t)
	l := newTestRedisLocker(rdb, time.Minute)
	ctx := context.Background()

	unlock, err := l.Lock(ctx, 7)
	require.NoError(t, err)

	acquired := make(chan error, 1)
	go func() {
		waitCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		u, err := l.Lock(waitCtx, 7)
		if err == nil {
			u()
		}
		acquired <- err
	}()

	time.Sleep(50 * time.Millisecond)
	unlock()

	select {
	case err := <-acquired:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("waiter never acquired the lock")
	}
}

func TestRedisLocker_ExpiredOwnerKeepsHandsOffNewHolder(t *testing.T) {
	mr, rdb := newTestRedis(t)
	l := newTestRedisLocker(rdb, time.Second)
	ctx := context.Background()

	unlockStale, err := l.Lock(ctx, 3)
	require.NoError(t, err)
	staleToken, err := mr.Get(lockKey(3))
	require.NoError(t, err)

	mr.FastForward(2 * time.Second)
	require.False(t, mr.Exists(lockKey(3)))

	unlockFresh, err := l.Lock(ctx, 3)
	require.NoError(t, err)
	freshToken, err := mr.Get(lockKey(3))
	require.NoError(t, err)
	assert.NotEqual(t, staleToken, freshToken)

	unlockStale()
	got, err := mr.Get(lockKey(3))
	require.NoError(t, err)
	assert.Equal(t, freshToken, got)

	unlockFresh()
	assert.False(t, mr.Exists(lockKey(3)))
}

func TestRedisLocker_ServerUnavailable(t *testing.T) {
	mr, rdb := newTestRedis(t)
	l := newTestRedisLocker(rdb, time.Minute)
	mr.Close()

	_, err := l.Lock(context.Background(), 1)
	require.Error(t, err)
	assert.NotErrorIs(t, err, util.ErrGenerationLockTaken)
}

func TestRedisTokenStore_RevokeUntilExpiry(t *testing.T) {
	mr, rdb := newTestRedis(t)
	store := NewRedisTokenStore(rdb)
	ctx := context.Background()

	revoked, err := store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.Revoke(ctx, "jti-1", 30*time.Minute))
	revoked, err = store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)
	assert.Equal(t, 30*time.Minute, mr.TTL(util.RedisRevokedPrefix+"jti-1"))

	revoked, err = store.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)

	mr.FastForward(31 * time.Minute)
	revoked, err = store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRedisTokenStore_ExpiredTokenIsNotStored(t *testing.T) {
	mr, rdb := newTestRedis(t)
	store := NewRedisTokenStore(rdb)

	require.NoError(t, store.Revoke(context.Background(), "jti-old", 0))
	assert.False(t, mr.Exists(util.RedisRevokedPrefix+"jti-old"))
}

func TestAuth_LogoutRevokesThroughRedis(t *testing.T) {
	svc, _ := newAuthService(t)
	_, rdb := newTestRedis(t)
	svc.Tokens = NewRedisTokenStore(rdb)
	ctx := context.Background()

	_, token, err := svc.Register(ctx, "hopper", "s3cret!")
	require.NoError(t, err)
	claims, err := svc.Authenticate(ctx, token)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, claims))
	_, err = svc.Authenticate(ctx, token)
	assert.ErrorIs(t, err, util.ErrTokenRevoked)
}

func TestAuth_RevocationCheckFailureKeepsSession(t *testing.T) {
	svc, _ := newAuthService(t)
	mr, rdb := newTestRedis(t)
	svc.Tokens = NewRedisTokenStore(rdb)
	ctx := context.Background()

	_, token, err := svc.Register(ctx, "lovelace", "s3cret!")
	require.NoError(t, err)

	mr.Close()
	claims, err := svc.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.NotEmpty(t, claims.ID)
}
