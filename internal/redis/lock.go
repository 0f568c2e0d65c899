package redisclient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrLockNotAcquired means another worker holds the job's lease.
var ErrLockNotAcquired = errors.New("job lock not acquired")

// Locker runs a named background job on at most one worker at a time.
type Locker interface {
	WithLock(ctx context.Context, name string, fn func(ctx context.Context) error) error
}

// jobLease is one worker's claim on a job, stored as lock:job:<name> with
// the worker's random owner ID as the value.
type jobLease struct {
	key   string
	owner string
}

type redisJobLocker struct {
	client *redis.Client
	lease  time.Duration
}

// NewRedisJobLocker shares job leases between workers through redis. The
// lease expires on its own after lease, so a crashed worker blocks the job
// for one lease at most. fn runs with a context that ends with the lease.
func NewRedisJobLocker(client *redis.Client, lease time.Duration) Locker {
	return &redisJobLocker{client: client, lease: lease}
}

func jobLockKey(name string) string {
	return "lock:job:" + name
}

func (l *redisJobLocker) WithLock(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	held, err := l.acquire(ctx, name)
	if err != nil {
		return err
	}
	// Release even when ctx is already cancelled, or the key sits until expiry.
	defer func() { _ = l.release(context.WithoutCancel(ctx), held) }()

	leaseCtx, cancel := context.WithTimeout(ctx, l.lease)
	defer cancel()
	return fn(leaseCtx)
}

func (l *redisJobLocker) acquire(ctx context.Context, name string) (jobLease, error) {
	held := jobLease{key: jobLockKey(name), owner: uuid.NewString()}
	ok, err := l.client.SetNX(ctx, held.key, held.owner, l.lease).Result()
	switch {
	case err != nil:
		return jobLease{}, fmt.Errorf("acquire %s: %w", held.key, err)
	case !ok:
		return jobLease{}, ErrLockNotAcquired
	}
	return held, nil
}

// releaseIfOwner deletes the lease only while it still carries our owner
// ID. After a lapse another worker may own the key.
var releaseIfOwner = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

func (l *redisJobLocker) release(ctx context.Context, held jobLease) error {
	err := releaseIfOwner.Run(ctx, l.client, []string{held.key}, held.owner).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("release %s: %w", held.key, err)
	}
	return nil
}

// LocalLocker runs every job immediately. It stands in when redis is not
// configured and only one worker runs.
type LocalLocker struct{}

func (LocalLocker) WithLock(ctx context.Context, _ string, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
