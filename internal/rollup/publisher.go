package rollup

import (
	"context"
	"fmt"
	"sync"
	"time"

	"timeclock-backend/internal/clock"
	"timeclock-backend/internal/lock"
	"timeclock-backend/internal/models"
)

// LockKey names the critical section shared by every publisher writing
// the same summary tables.
const LockKey = "views:recompute"

// Snapshotter reads the full ledger in row order.
type Snapshotter interface {
	ReadAll(ctx context.Context) ([]models.SessionRecord, error)
}

// Sink replaces the persisted views with a freshly computed set.
type Sink interface {
	ReplaceViews(ctx context.Context, views Views) error
}

// Publisher recomputes the views from a fresh ledger snapshot and writes
// them to Sink.
//
// Publishes never overlap: they are serialized in-process and, when Locker
// is set, across replicas. The snapshot is read inside the critical
// section, so the last publish to finish always reflects every mutation
// committed before it started.
type Publisher struct {
	Source   Snapshotter
	Sink     Sink
	Clock    clock.Clock
	Location *time.Location
	Locker   lock.Locker

	mu sync.Mutex
}

func NewPublisher(source Snapshotter, sink Sink, clk clock.Clock, loc *time.Location) *Publisher {
	return &Publisher{Source: source, Sink: sink, Clock: clk, Location: loc}
}

// Compute returns the current views without writing them anywhere.
func (p *Publisher) Compute(ctx context.Context) (Views, error) {
	records, err := p.Source.ReadAll(ctx)
	if err != nil {
		return Views{}, fmt.Errorf("rollup: read ledger: %w", err)
	}
	return Recompute(records, p.Clock.Now(), p.Location), nil
}

// Publish computes the views and hands them to the sink. A failed attempt
// is retried once from a fresh snapshot.
func (p *Publisher) Publish(ctx context.Context) (Views, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.Locker != nil {
		release, err := p.Locker.Acquire(ctx, LockKey)
		if err != nil {
			return Views{}, fmt.Errorf("rollup: lock views: %w", err)
		}
		defer release()
	}

	views, err := p.publish(ctx)
	if err != nil && ctx.Err() == nil {
		views, err = p.publish(ctx)
	}
	return views, err
}

func (p *Publisher) publish(ctx context.Context) (Views, error) {
	views, err := p.Compute(ctx)
	if err != nil {
		return Views{}, err
	}
	if p.Sink == nil {
		return views, nil
	}
	if err := p.Sink.ReplaceViews(ctx, views); err != nil {
		return views, fmt.Errorf("rollup: write views: %w", err)
	}
	return views, nil
}
