// Package ledger is the only way the service touches attendance rows.
//
// The ledger is append-only from the point of view of the core: rows are
// appended open and closed exactly once through UpdateClockOut. There is no
// delete. Every call is bounded by the configured store timeout and every
// store failure surfaces as ErrStoreUnavailable so callers never mistake a
// partial write for success.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"timeclock-backend/internal/models"
	"timeclock-backend/internal/rollup"
)

var (
	ErrStoreUnavailable = errors.New("attendance store unavailable")
	ErrRecordClosed     = errors.New("ledger record already closed")
)

// Store is the tabular backing store of the ledger.
type Store interface {
	ReadAll(ctx context.Context) ([]models.SessionRecord, error)
	Append(ctx context.Context, record *models.SessionRecord) error
	UpdateClockOut(ctx context.Context, row uint64, clockOut time.Time, location string, duration float64) error
}

// ViewStore holds the derived summary tables.
type ViewStore interface {
	ReplaceViews(ctx context.Context, views rollup.Views) error
}

type Ledger struct {
	store   Store
	views   ViewStore
	timeout time.Duration
}

// New wraps store. views may be nil when summaries are not persisted.
func New(store Store, views ViewStore, timeout time.Duration) *Ledger {
	return &Ledger{store: store, views: views, timeout: timeout}
}

func (l *Ledger) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if l.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, l.timeout)
}

// ReadAll returns every record in append order.
func (l *Ledger) ReadAll(ctx context.Context) ([]models.SessionRecord, error) {
	ctx, cancel := l.bound(ctx)
	defer cancel()

	records, err := l.store.ReadAll(ctx)
	if err != nil {
		return nil, unavailable("read", err)
	}
	return records, nil
}

// Append durably adds an open record and fills in its row number.
func (l *Ledger) Append(ctx context.Context, record *models.SessionRecord) error {
	ctx, cancel := l.bound(ctx)
	defer cancel()

	if err := l.store.Append(ctx, record); err != nil {
		return unavailable("append", err)
	}
	return nil
}

// UpdateClockOut closes the open record at row. The clock-in fields are
// left untouched. ErrRecordClosed means the row was closed by someone
// else between the caller's read and this write.
func (l *Ledger) UpdateClockOut(ctx context.Context, row uint64, clockOut time.Time, location string, duration float64) error {
	ctx, cancel := l.bound(ctx)
	defer cancel()

	err := l.store.UpdateClockOut(ctx, row, clockOut, location, duration)
	if errors.Is(err, ErrRecordClosed) {
		return err
	}
	if err != nil {
		return unavailable("update clock out", err)
	}
	return nil
}

// ReplaceViews overwrites the summary tables. It is a no-op without a
// view store.
func (l *Ledger) ReplaceViews(ctx context.Context, views rollup.Views) error {
	if l.views == nil {
		return nil
	}
	ctx, cancel := l.bound(ctx)
	defer cancel()

	if err := l.views.ReplaceViews(ctx, views); err != nil {
		return unavailable("replace views", err)
	}
	return nil
}

func unavailable(op string, err error) error {
	if errors.Is(err, ErrStoreUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %s: %v", ErrStoreUnavailable, op, err)
}
