package lock

import (
	"context"
	"sync"
	"time"

	"timeclock-backend/internal/clock"
)

// KeyedMutex is an in-process Locker. Each key gets a one-slot channel;
// entries are reference counted and dropped when nobody holds or waits on
// them.
type KeyedMutex struct {
	timeout time.Duration
	clock   clock.Clock

	mu    sync.Mutex
	slots map[string]*slot
}

type slot struct {
	token chan struct{}
	refs  int
}

func NewKeyedMutex(timeout time.Duration, clk clock.Clock) *KeyedMutex {
	if clk == nil {
		clk = clock.Real()
	}
	return &KeyedMutex{timeout: timeout, clock: clk, slots: map[string]*slot{}}
}

func (m *KeyedMutex) Acquire(ctx context.Context, key string) (func(), error) {
	s := m.ref(key)

	select {
	case s.token <- struct{}{}:
		return m.releaser(key, s), nil
	default:
	}

	var expired <-chan time.Time
	if m.timeout > 0 {
		expired = m.clock.After(m.timeout)
	}

	select {
	case s.token <- struct{}{}:
		return m.releaser(key, s), nil
	case <-expired:
		m.unref(key, s)
		return nil, ErrTimeout
	case <-ctx.Done():
		m.unref(key, s)
		return nil, ctx.Err()
	}
}

// Held reports how many keys currently have a holder or waiter.
func (m *KeyedMutex) Held() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.slots)
}

func (m *KeyedMutex) ref(key string) *slot {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.slots[key]
	if !ok {
		s = &slot{token: make(chan struct{}, 1)}
		m.slots[key] = s
	}
	s.refs++
	return s
}

func (m *KeyedMutex) unref(key string, s *slot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.refs--
	if s.refs == 0 {
		delete(m.slots, key)
	}
}

func (m *KeyedMutex) releaser(key string, s *slot) func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			<-s.token
			m.unref(key, s)
		})
	}
}
