// Package lock serializes clock operations per employee.
//
// A Locker hands out one holder per key at a time. Waiting is bounded:
// if the key cannot be taken within the configured timeout, Acquire fails
// with ErrTimeout and the caller must not touch the ledger.
package lock

import (
	"context"
	"errors"
)

var ErrTimeout = errors.New("timed out waiting for lock")

// Locker grants exclusive access to a key. The returned release function
// must be called exactly once.
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}
