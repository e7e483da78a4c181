package port

import (
	"context"
	"time"
)

type CacheRepository interface {
	// SetIdempotency sets a key for idempotency check, returns false if already exists
	SetIdempotency(ctx context.Context, key string) (bool, error)

	// ReleaseIdempotency frees a key so a failed request can be retried
	ReleaseIdempotency(ctx context.Context, key string) error

	// RecordLoginFailure counts a failed login and returns the running count
	RecordLoginFailure(ctx context.Context, username string) (int64, error)

	ClearLoginFailures(ctx context.Context, username string) error

	LockLogin(ctx context.Context, username string, ttl time.Duration) error

	// LoginLockRemaining returns zero when the username is not locked
	LoginLockRemaining(ctx context.Context, username string) (time.Duration, error)
}
