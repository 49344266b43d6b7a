// Package redis provides a ports.PeerLocker backed by Redis, so two morselink processes
// never drive the same serial peer at once.
package redis

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aretw0/morselink/pkg/ports"
	"github.com/google/uuid"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces lock keys.
const DefaultPrefix = "morselink:"

var (
	// ErrLockHeld is returned when another holder owns the peer and waiting is disabled.
	ErrLockHeld = errors.New("peer is locked by another process")

	// ErrLockLost is returned by unlock when the lock expired or changed hands.
	ErrLockLost = errors.New("peer lock was lost before release")
)

// releaseScript deletes the key only when it still carries our token.
var releaseScript = backend.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end
`)

// renewScript extends the TTL only when the key still carries our token.
var renewScript = backend.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("pexpire", KEYS[1], ARGV[2])
else
	return 0
end
`)

// Locker implements ports.PeerLocker using Redis SET NX PX.
// A held lock is renewed in the background until its UnlockFunc runs.
type Locker struct {
	client backend.UniversalClient
	prefix string
	wait   bool
	poll   time.Duration
	renew  time.Duration
}

// Option configures the Locker.
type Option func(*Locker)

// WithWait makes Lock poll until the peer is free or ctx ends, instead of failing fast.
func WithWait(poll time.Duration) Option {
	return func(l *Locker) {
		l.wait = true
		if poll > 0 {
			l.poll = poll
		}
	}
}

// WithRenewInterval sets how often a held lock has its TTL extended.
// The default is a third of the TTL passed to Lock.
func WithRenewInterval(d time.Duration) Option {
	return func(l *Locker) {
		l.renew = d
	}
}

// NewLocker creates a new Redis locker.
func NewLocker(client backend.UniversalClient, prefix string, opts ...Option) *Locker {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	l := &Locker{
		client: client,
		prefix: prefix,
		poll:   100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Key returns the Redis key guarding a peer.
func (l *Locker) Key(peer string) string {
	return l.prefix + "lock:" + peer
}

// Lock acquires the lock for a peer address.
func (l *Locker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	lockKey := l.Key(key)
	token := uuid.NewString()

	var ticker *time.Ticker
	for {
		ok, err := l.client.SetNX(ctx, lockKey, token, ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("redis error acquiring lock: %w", err)
		}
		if ok {
			return l.hold(lockKey, token, ttl), nil
		}
		if !l.wait {
			return nil, fmt.Errorf("%w: %s", ErrLockHeld, key)
		}

		if ticker == nil {
			ticker = time.NewTicker(l.poll)
			defer ticker.Stop()
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// hold keeps the lock alive and returns the func that stops renewal and releases it.
func (l *Locker) hold(lockKey, token string, ttl time.Duration) ports.UnlockFunc {
	stop := make(chan struct{})
	done := make(chan struct{})
	if ttl > 0 {
		go l.keepAlive(lockKey, token, ttl, stop, done)
	} else {
		close(done)
	}

	var once sync.Once
	return func(ctx context.Context) error {
		once.Do(func() { close(stop) })
		<-done

		n, err := releaseScript.Run(ctx, l.client, []string{lockKey}, token).Int()
		if err != nil {
			return fmt.Errorf("redis error releasing lock: %w", err)
		}
		if n == 0 {
			return ErrLockLost
		}
		return nil
	}
}

func (l *Locker) keepAlive(lockKey, token string, ttl time.Duration, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	interval := l.renew
	if interval <= 0 {
		interval = ttl / 3
	}
	if interval <= 0 {
		interval = ttl
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}
		ctx, cancel := context.WithTimeout(context.Background(), interval)
		n, err := renewScript.Run(ctx, l.client, []string{lockKey}, token, ttl.Milliseconds()).Int()
		cancel()
		if err == nil && n == 0 {
			// Expired or taken over; unlock reports ErrLockLost.
			return
		}
	}
}
