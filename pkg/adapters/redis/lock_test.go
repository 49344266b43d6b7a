package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/morselink/pkg/adapters/memory"
	"github.com/aretw0/morselink/pkg/adapters/redis"
	"github.com/aretw0/morselink/pkg/domain"
	"github.com/aretw0/morselink/pkg/link"
	"github.com/aretw0/morselink/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLocker(t *testing.T, opts ...redis.Option) (*redis.Locker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return redis.NewLocker(client, "test:", opts...), mr
}

func TestLocker_LockUnlock(t *testing.T) {
	l, mr := newLocker(t)
	ctx := context.Background()

	unlock, err := l.Lock(ctx, "B8:27:EB:00:00:01", time.Minute)
	require.NoError(t, err)
	assert.True(t, mr.Exists("test:lock:B8:27:EB:00:00:01"))

	_, err = l.Lock(ctx, "B8:27:EB:00:00:01", time.Minute)
	assert.ErrorIs(t, err, redis.ErrLockHeld)

	require.NoError(t, unlock(ctx))
	assert.False(t, mr.Exists("test:lock:B8:27:EB:00:00:01"))

	unlock, err = l.Lock(ctx, "B8:27:EB:00:00:01", time.Minute)
	require.NoError(t, err)
	assert.NoError(t, unlock(ctx))
}

func TestLocker_Expired(t *testing.T) {
	l, mr := newLocker(t)
	ctx := context.Background()

	unlock, err := l.Lock(ctx, "pi", time.Second)
	require.NoError(t, err)
	mr.FastForward(2 * time.Second)

	// Someone else took over after expiry; our release must not delete their lock.
	other, err := l.Lock(ctx, "pi", time.Minute)
	require.NoError(t, err)

	assert.ErrorIs(t, unlock(ctx), redis.ErrLockLost)
	assert.True(t, mr.Exists(l.Key("pi")))
	assert.NoError(t, other(ctx))
}

func TestLocker_Wait(t *testing.T) {
	l, _ := newLocker(t, redis.WithWait(10*time.Millisecond))
	ctx := context.Background()

	unlock, err := l.Lock(ctx, "pi", time.Minute)
	require.NoError(t, err)

	acquired := make(chan error, 1)
	go func() {
		u, err := l.Lock(ctx, "pi", time.Minute)
		if err == nil {
			err = u(ctx)
		}
		acquired <- err
	}()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, unlock(ctx))

	select {
	case err := <-acquired:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("waiter never acquired the lock")
	}

	short, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	held, err := l.Lock(ctx, "pi", time.Minute)
	require.NoError(t, err)
	defer held(ctx)
	_, err = l.Lock(short, "pi", time.Minute)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLocker_GuardsSessions(t *testing.T) {
	l, mr := newLocker(t)
	peer := ports.Peer{Name: "raspberrypi", Address: "pi"}
	ctx := context.Background()

	first := link.New(memory.NewTransport(peer), nil, link.WithLocker(l))
	second := link.New(memory.NewTransport(peer), nil, link.WithLocker(l))

	require.NoError(t, first.EnsureConnected(ctx))
	assert.ErrorIs(t, second.EnsureConnected(ctx), domain.ErrConnectFailed)
	assert.ErrorIs(t, second.LastError(), redis.ErrLockHeld)

	require.NoError(t, first.Close())
	assert.False(t, mr.Exists(l.Key("pi")))
	require.NoError(t, second.EnsureConnected(ctx))
	require.NoError(t, second.Close())
}

// outlive fast-forwards Redis past total in steps of a quarter ttl, letting renewal catch up after each one.
func outlive(t *testing.T, mr *miniredis.Miniredis, key string, ttl, total time.Duration) {
	t.Helper()
	step := ttl / 4
	for elapsed := time.Duration(0); elapsed <= total; elapsed += step {
		mr.FastForward(step)
		require.Eventually(t, func() bool {
			return mr.TTL(key) > ttl-step/2
		}, time.Second, 5*time.Millisecond, "lock was not renewed")
	}
}

func TestLocker_Renews(t *testing.T) {
	l, mr := newLocker(t, redis.WithRenewInterval(5*time.Millisecond))
	ctx := context.Background()

	unlock, err := l.Lock(ctx, "pi", time.Minute)
	require.NoError(t, err)

	outlive(t, mr, l.Key("pi"), time.Minute, 2*time.Minute)
	assert.True(t, mr.Exists(l.Key("pi")))
	_, err = l.Lock(ctx, "pi", time.Minute)
	assert.ErrorIs(t, err, redis.ErrLockHeld)

	require.NoError(t, unlock(ctx))
	assert.False(t, mr.Exists(l.Key("pi")))
	assert.NoError(t, unlock(ctx), "second unlock must not block")
}

func TestLocker_StopsRenewingAfterUnlock(t *testing.T) {
	l, mr := newLocker(t, redis.WithRenewInterval(5*time.Millisecond))
	ctx := context.Background()

	unlock, err := l.Lock(ctx, "pi", time.Minute)
	require.NoError(t, err)
	require.NoError(t, unlock(ctx))

	// A key written by someone else keeps its own TTL.
	require.NoError(t, mr.Set(l.Key("pi"), "other"))
	mr.SetTTL(l.Key("pi"), time.Second)
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, time.Second, mr.TTL(l.Key("pi")))
}

func TestLocker_GuardsLongLivedSessions(t *testing.T) {
	l, mr := newLocker(t, redis.WithRenewInterval(5*time.Millisecond))
	peer := ports.Peer{Name: "raspberrypi", Address: "pi"}
	ctx := context.Background()

	first := link.New(memory.NewTransport(peer), nil, link.WithLocker(l))
	second := link.New(memory.NewTransport(peer), nil, link.WithLocker(l))
	defer second.Close()

	require.NoError(t, first.EnsureConnected(ctx))
	outlive(t, mr, l.Key("pi"), link.DefaultLockTTL, link.DefaultLockTTL+time.Minute)

	assert.Equal(t, domain.LinkConnected, first.State())
	assert.ErrorIs(t, second.EnsureConnected(ctx), domain.ErrConnectFailed)
	assert.ErrorIs(t, second.LastError(), redis.ErrLockHeld)

	require.NoError(t, first.Close())
	require.NoError(t, second.EnsureConnected(ctx))
}
