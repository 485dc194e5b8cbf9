// Package directory caches the list of valid employee ids.
//
// The cache holds an immutable snapshot behind an atomic pointer. Readers
// never block on each other and always see a complete snapshot; refreshes
// are done by one goroutine at a time. A failed refresh is not cached: the
// previous ids are served and the next read tries again.
package directory

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"timeclock-backend/internal/clock"
)

const DefaultTTL = 5 * time.Minute

type Source interface {
	EmployeeIDs(ctx context.Context) ([]string, error)
}

type snapshot struct {
	ids       []string
	fetchedAt time.Time
}

type Cache struct {
	source Source
	ttl    time.Duration
	clock  clock.Clock
	logger *slog.Logger

	current atomic.Pointer[snapshot]
	refresh sync.Mutex
}

func NewCache(source Source, ttl time.Duration, clk clock.Clock, logger *slog.Logger) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if clk == nil {
		clk = clock.Real()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{source: source, ttl: ttl, clock: clk, logger: logger}
}

// EmployeeIDs returns the cached ids, refreshing them from the source when
// the cache is empty or older than the TTL.
func (c *Cache) EmployeeIDs(ctx context.Context) []string {
	if snap := c.current.Load(); c.fresh(snap) {
		return slices.Clone(snap.ids)
	}

	c.refresh.Lock()
	defer c.refresh.Unlock()

	// Another goroutine may have refreshed while we waited.
	snap := c.current.Load()
	if c.fresh(snap) {
		return slices.Clone(snap.ids)
	}

	raw, err := c.source.EmployeeIDs(ctx)
	if err != nil {
		c.logger.WarnContext(ctx, "employee directory refresh failed", "error", err)
		if snap != nil {
			return slices.Clone(snap.ids)
		}
		return []string{}
	}

	ids := make([]string, 0, len(raw))
	for _, id := range raw {
		id = strings.TrimSpace(id)
		if id != "" {
			ids = append(ids, id)
		}
	}
	c.current.Store(&snapshot{ids: ids, fetchedAt: c.clock.Now()})
	return slices.Clone(ids)
}

// Contains reports whether id is in the directory.
func (c *Cache) Contains(ctx context.Context, id string) bool {
	return slices.Contains(c.EmployeeIDs(ctx), strings.TrimSpace(id))
}

// Invalidate marks the snapshot stale. The old ids stay available as the
// fallback for a failed refresh.
func (c *Cache) Invalidate() {
	if snap := c.current.Load(); snap != nil {
		c.current.Store(&snapshot{ids: snap.ids})
	}
}

func (c *Cache) fresh(snap *snapshot) bool {
	if snap == nil || snap.fetchedAt.IsZero() {
		return false
	}
	return c.clock.Now().Sub(snap.fetchedAt) < c.ttl
}
