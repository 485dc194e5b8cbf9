package status

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"timeclock-backend/internal/clock"
	"timeclock-backend/internal/ledger"
	"timeclock-backend/internal/models"
)

var now = time.Date(2026, time.March, 4, 15, 0, 0, 0, time.UTC)

func closedAt(id string, in time.Time, hours float64) models.SessionRecord {
	out := in.Add(time.Duration(hours * float64(time.Hour)))
	return models.SessionRecord{EmployeeID: id, ClockIn: in, ClockOut: &out, DurationHours: &hours}
}

func newReader(records ...models.SessionRecord) *Reader {
	return NewReader(ledger.NewMemoryStore(records...), clock.Fake(now), time.UTC)
}

func TestEmployeeStatus(t *testing.T) {
	yesterday := now.Add(-24 * time.Hour)
	reader := newReader(
		closedAt("E1", yesterday, 8),
		models.SessionRecord{EmployeeID: "E1", ClockIn: now.Add(-2 * time.Hour)},
		closedAt("E2", yesterday, 7.25),
	)
	ctx := context.Background()

	in, err := reader.EmployeeStatus(ctx, "E1")
	if err != nil {
		t.Fatal(err)
	}
	if in.Status != ClockedIn || in.LastClockOut != nil || !in.LastClockIn.Equal(now.Add(-2*time.Hour)) {
		t.Fatalf("E1 status = %+v", in)
	}
	if !strings.Contains(in.Message, "03/04/2026 - 13:00:00") {
		t.Fatalf("E1 message = %q", in.Message)
	}

	out, err := reader.EmployeeStatus(ctx, "E2")
	if err != nil {
		t.Fatal(err)
	}
	if out.Status != ClockedOut || *out.TotalHours != 7.25 || out.LastClockOut == nil {
		t.Fatalf("E2 status = %+v", out)
	}

	none, err := reader.EmployeeStatus(ctx, "E9")
	if err != nil {
		t.Fatal(err)
	}
	if none.Status != NoRecords || none.LastClockIn != nil {
		t.Fatalf("E9 status = %+v", none)
	}
}

func TestGlobalStats(t *testing.T) {
	reader := newReader(
		closedAt("E1", now.Add(-30*time.Hour), 8),
		closedAt("E1", now.Add(-6*time.Hour), 2),
		models.SessionRecord{EmployeeID: "E2", ClockIn: now.Add(-time.Hour)},
		closedAt("E3", now.Add(-50*time.Hour), 1),
	)

	stats, err := reader.GlobalStats(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	want := Stats{TotalRecords: 4, TodayRecords: 2, ActiveEmployees: 3, LastUpdate: now}
	if stats != want {
		t.Fatalf("GlobalStats() = %+v, want %+v", stats, want)
	}
}

func TestGlobalStatsEmptyLedger(t *testing.T) {
	stats, err := newReader().GlobalStats(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalRecords != 0 || stats.TodayRecords != 0 || stats.ActiveEmployees != 0 {
		t.Fatalf("stats = %+v", stats)
	}
}

type downLedger struct{}

func (downLedger) ReadAll(context.Context) ([]models.SessionRecord, error) {
	return nil, ledger.ErrStoreUnavailable
}

func TestReaderPropagatesStoreErrors(t *testing.T) {
	reader := NewReader(downLedger{}, clock.Fake(now), time.UTC)
	if _, err := reader.EmployeeStatus(context.Background(), "E1"); !errors.Is(err, ledger.ErrStoreUnavailable) {
		t.Fatalf("EmployeeStatus err = %v", err)
	}
	if _, err := reader.GlobalStats(context.Background()); !errors.Is(err, ledger.ErrStoreUnavailable) {
		t.Fatalf("GlobalStats err = %v", err)
	}
}
