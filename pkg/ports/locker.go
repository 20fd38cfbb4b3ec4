package ports

import (
	"context"
	"time"
)

// UnlockFunc releases a lock.
type UnlockFunc func(ctx context.Context) error

// RunLocker guards a run ID so that two drivers never journal the same run.
type RunLocker interface {
	// Lock blocks until the lock is acquired or ctx is done.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
