package distributed

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestRedisLockTryLockAndUnlock(t *testing.T) {
	mr, client := newTestClient(t)

	first := NewRedisLock(client, "lock:test", time.Second)
	ok, err := first.TryLock()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, mr.Exists("lock:test"))

	second := NewRedisLock(client, "lock:test", time.Second)
	ok, err = second.TryLock()
	require.NoError(t, err)
	assert.False(t, ok)

	// 非持有者释放不影响锁
	require.NoError(t, second.Unlock())
	assert.True(t, mr.Exists("lock:test"))

	require.NoError(t, first.Unlock())
	assert.False(t, mr.Exists("lock:test"))
}

func TestRedisLockWithoutClient(t *testing.T) {
	l := NewRedisLock(nil, "lock:test", time.Second)
	_, err := l.TryLock()
	assert.ErrorIs(t, err, ErrLockUnavailable)
	assert.NoError(t, l.Unlock())
}

func TestRedisLockWaitTimesOut(t *testing.T) {
	_, client := newTestClient(t)

	holder := NewRedisLock(client, "lock:busy", 5*time.Second)
	ok, err := holder.TryLock()
	require.NoError(t, err)
	require.True(t, ok)
	defer holder.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Millisecond)
	defer cancel()
	waiter := NewRedisLock(client, "lock:busy", 5*time.Second)
	err = waiter.Lock(ctx, 20*time.Millisecond)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.ErrorIs(t, waiter.ctx.Err(), context.Canceled)
}

func TestRedisLockReleasedOnRedisError(t *testing.T) {
	// 没有服务监听的地址
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond, MaxRetries: -1})
	t.Cleanup(func() { client.Close() })

	l := NewRedisLock(client, "lock:down", time.Second)
	err := l.Lock(context.Background(), 10*time.Millisecond)
	require.Error(t, err)
	assert.ErrorIs(t, l.ctx.Err(), context.Canceled)
}

func TestStructureLockLocalOnly(t *testing.T) {
	l := NewStructureLock(nil, "lock:dept", time.Second)

	release, err := l.Acquire(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = l.Acquire(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	release()
	release2, err := l.Acquire(context.Background())
	require.NoError(t, err)
	release2()
}

func TestStructureLockWithRedis(t *testing.T) {
	mr, client := newTestClient(t)
	l := NewStructureLock(client, "lock:dept", time.Second)

	release, err := l.Acquire(context.Background())
	require.NoError(t, err)
	assert.True(t, mr.Exists("lock:dept"))

	release()
	assert.False(t, mr.Exists("lock:dept"))
}

func TestStructureLockSerializes(t *testing.T) {
	_, client := newTestClient(t)
	l := NewStructureLock(client, "lock:dept", time.Second)

	counter := 0
	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			release, err := l.Acquire(context.Background())
			if err == nil {
				v := counter
				time.Sleep(time.Millisecond)
				counter = v + 1
				release()
			}
			done <- struct{}{}
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}
	assert.Equal(t, 8, counter)
}
