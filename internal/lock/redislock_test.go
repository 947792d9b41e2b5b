package lock

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLocker(t *testing.T) (Locker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return Locker{R: client, RetryBackoff: 5 * time.Millisecond}, mr
}

func TestWithLockRunsCallback(t *testing.T) {
	locker, mr := newLocker(t)
	ran := false
	err := locker.WithLock(context.Background(), "settle:ord-1", time.Minute, func(context.Context) error {
		ran = true
		assert.True(t, mr.Exists("settle:ord-1"), "lock key held during callback")
		return nil
	})
	require.NoError(t, err)
	assert.True(t, ran)
	assert.False(t, mr.Exists("settle:ord-1"), "lock released after callback")
}

func TestWithLockBlocksUntilReleased(t *testing.T) {
	locker, mr := newLocker(t)
	mr.Set("settle:ord-1", "other-holder")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	err := locker.WithLock(ctx, "settle:ord-1", time.Minute, func(context.Context) error { return nil })
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	mr.Del("settle:ord-1")
	err = locker.WithLock(context.Background(), "settle:ord-1", time.Minute, func(context.Context) error { return nil })
	assert.NoError(t, err)
}

func TestWithLockRequiresCallback(t *testing.T) {
	locker, _ := newLocker(t)
	assert.Error(t, locker.WithLock(context.Background(), "k", time.Minute, nil))
}
