package ledger

import (
	"context"
	"sync"
	"time"

	"timeclock-backend/internal/models"
	"timeclock-backend/internal/rollup"
)

// MemoryStore is an in-process Store and ViewStore. It backs
// DB_DRIVER=memory and the tests.
type MemoryStore struct {
	mu      sync.Mutex
	records []models.SessionRecord
	views   rollup.Views
	writes  int
}

func NewMemoryStore(records ...models.SessionRecord) *MemoryStore {
	store := &MemoryStore{}
	for _, record := range records {
		record := record
		_ = store.Append(context.Background(), &record)
	}
	return store
}

func (s *MemoryStore) ReadAll(ctx context.Context) ([]models.SessionRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.SessionRecord, len(s.records))
	for i, record := range s.records {
		out[i] = clone(record)
	}
	return out, nil
}

func (s *MemoryStore) Append(ctx context.Context, record *models.SessionRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := record.BeforeCreate(nil); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	record.Row = uint64(len(s.records) + 1)
	if record.CreatedAt.IsZero() {
		record.CreatedAt = record.ClockIn
	}
	s.records = append(s.records, clone(*record))
	s.writes++
	return nil
}

func (s *MemoryStore) UpdateClockOut(ctx context.Context, row uint64, clockOut time.Time, location string, duration float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if row == 0 || row > uint64(len(s.records)) {
		return ErrRecordClosed
	}
	record := &s.records[row-1]
	if record.ClockOut != nil {
		return ErrRecordClosed
	}
	record.ClockOut = &clockOut
	record.ClockOutLocation = &location
	record.DurationHours = &duration
	s.writes++
	return nil
}

func (s *MemoryStore) ReplaceViews(ctx context.Context, views rollup.Views) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.views = views
	return nil
}

// Views returns the last set written by ReplaceViews.
func (s *MemoryStore) Views() rollup.Views {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.views
}

// Writes counts successful Append and UpdateClockOut calls.
func (s *MemoryStore) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

func clone(record models.SessionRecord) models.SessionRecord {
	if record.ClockOut != nil {
		clockOut := *record.ClockOut
		record.ClockOut = &clockOut
	}
	if record.ClockOutLocation != nil {
		location := *record.ClockOutLocation
		record.ClockOutLocation = &location
	}
	if record.DurationHours != nil {
		duration := *record.DurationHours
		record.DurationHours = &duration
	}
	return record
}
