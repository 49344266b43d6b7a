package ports

import (
	"context"
	"time"
)

// UnlockFunc is a function that releases a peer lock.
type UnlockFunc func(ctx context.Context) error

// PeerLocker coordinates exclusive use of a peer across processes.
// A serial peer accepts one client at a time, so a session holds the lock while connected.
type PeerLocker interface {
	// Lock attempts to acquire the lock for key (the peer address).
	// It blocks until the lock is acquired or the context is canceled.
	// Returns an UnlockFunc that MUST be called to release the lock.
	// The lock stays held, renewed as needed, until then.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
