package lock

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"timeclock-backend/internal/clock"
)

// releaseScript deletes the key only if it still carries our token, so a
// holder whose lease expired cannot release someone else's lock.
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker shares the critical section between service replicas. The
// lease bounds how long a crashed holder can block an employee.
type RedisLocker struct {
	client  goredis.UniversalClient
	prefix  string
	timeout time.Duration
	lease   time.Duration
	retry   time.Duration
	clock   clock.Clock
	logger  *slog.Logger
}

func NewRedisLocker(client goredis.UniversalClient, timeout, lease time.Duration, clk clock.Clock, logger *slog.Logger) *RedisLocker {
	if clk == nil {
		clk = clock.Real()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisLocker{
		client:  client,
		prefix:  "attendance:lock:",
		timeout: timeout,
		lease:   lease,
		retry:   50 * time.Millisecond,
		clock:   clk,
		logger:  logger,
	}
}

func (r *RedisLocker) Acquire(ctx context.Context, key string) (func(), error) {
	name := r.prefix + key
	token := uuid.NewString()
	deadline := r.clock.Now().Add(r.timeout)

	for {
		ok, err := r.client.SetNX(ctx, name, token, r.lease).Result()
		if err != nil {
			return nil, fmt.Errorf("lock: redis set %s: %w", name, err)
		}
		if ok {
			return r.releaser(key, name, token), nil
		}
		if !r.clock.Now().Before(deadline) {
			return nil, ErrTimeout
		}

		select {
		case <-r.clock.After(r.retry):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// releaser returns the unlock func. A failed release leaves the key
// until its lease expires, blocking that employee meanwhile.
func (r *RedisLocker) releaser(key, name, token string) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := releaseScript.Run(ctx, r.client, []string{name}, token).Err(); err != nil {
			r.logger.Error("lock release failed, key held until lease expires",
				"employee_id", key,
				"lock_key", name,
				"lease", r.lease,
				"error", err,
			)
		}
	}
}
