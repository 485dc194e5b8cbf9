package lock

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// These tests need a live Redis; set TEST_REDIS_ADDR to run them.
func redisClient(t *testing.T) *goredis.Client {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	client := goredis.NewClient(&goredis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("redis not reachable: %v", err)
	}
	return client
}

func TestRedisLockerExclusive(t *testing.T) {
	client := redisClient(t)
	locker := NewRedisLocker(client, 200*time.Millisecond, 5*time.Second, nil, nil)
	locker.prefix = "attendance:test:" + t.Name() + ":"
	ctx := context.Background()

	release, err := locker.Acquire(ctx, "E1")
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}

	if _, err := locker.Acquire(ctx, "E1"); !errors.Is(err, ErrTimeout) {
		t.Fatalf("second Acquire err = %v, want ErrTimeout", err)
	}

	release()
	again, err := locker.Acquire(ctx, "E1")
	if err != nil {
		t.Fatalf("Acquire after release: %v", err)
	}
	again()
}

// The release path must not swallow errors; this runs without a server.
func TestRedisLockerLogsFailedRelease(t *testing.T) {
	client := goredis.NewClient(&goredis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })

	var buf bytes.Buffer
	locker := NewRedisLocker(client, time.Second, 30*time.Second, nil, slog.New(slog.NewJSONHandler(&buf, nil)))
	locker.releaser("E1", locker.prefix+"E1", "token")()

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected one log line, got %q", buf.String())
	}
	if line["level"] != "ERROR" || line["employee_id"] != "E1" || line["lock_key"] != "attendance:lock:E1" {
		t.Fatalf("line = %v", line)
	}
	if line["error"] == nil || line["error"] == "" {
		t.Fatalf("line has no error: %v", line)
	}
}
