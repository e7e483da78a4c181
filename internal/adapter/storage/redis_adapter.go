package storage

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	idempotencyKeyTTL     = 24 * time.Hour
	loginFailureKeyPrefix = "login:fail:"
	loginLockKeyPrefix    = "login:lock:"
	loginFailureWindow    = 15 * time.Minute
)

// recordFailureScript increments the failure counter and starts its window
// on the first failure only.
var recordFailureScript = redis.NewScript(`
local count = redis.call('INCR', KEYS[1])
if count == 1 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return count
`)

type RedisAdapter struct {
	client *redis.Client
}

func NewRedisAdapter(client *redis.Client) *RedisAdapter {
	return &RedisAdapter{client: client}
}

func (r *RedisAdapter) SetIdempotency(ctx context.Context, key string) (bool, error) {
	ok, err := r.client.SetNX(ctx, key, 1, idempotencyKeyTTL).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

func (r *RedisAdapter) ReleaseIdempotency(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

func (r *RedisAdapter) RecordLoginFailure(ctx context.Context, username string) (int64, error) {
	return recordFailureScript.Run(ctx, r.client,
		[]string{loginFailureKeyPrefix + username}, loginFailureWindow.Milliseconds()).Int64()
}

func (r *RedisAdapter) ClearLoginFailures(ctx context.Context, username string) error {
	return r.client.Del(ctx, loginFailureKeyPrefix+username).Err()
}

func (r *RedisAdapter) LockLogin(ctx context.Context, username string, ttl time.Duration) error {
	return r.client.Set(ctx, loginLockKeyPrefix+username, 1, ttl).Err()
}

func (r *RedisAdapter) LoginLockRemaining(ctx context.Context, username string) (time.Duration, error) {
	ttl, err := r.client.PTTL(ctx, loginLockKeyPrefix+username).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	// PTTL reports -2 for a missing key and -1 for a key without expiry.
	if ttl < 0 {
		return 0, nil
	}
	return ttl, nil
}
