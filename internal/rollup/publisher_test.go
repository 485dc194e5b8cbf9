package rollup

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"timeclock-backend/internal/clock"
	"timeclock-backend/internal/lock"
	"timeclock-backend/internal/models"
)

type sliceSource struct {
	mu      sync.Mutex
	records []models.SessionRecord
	reads   int
	events  *[]string
}

func (s *sliceSource) ReadAll(context.Context) ([]models.SessionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	if s.events != nil {
		*s.events = append(*s.events, "read")
	}
	return append([]models.SessionRecord(nil), s.records...), nil
}

func (s *sliceSource) add(r models.SessionRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, r)
}

// recordingSink counts writes and notices when two are in flight at once.
type recordingSink struct {
	inflight atomic.Int32
	overlaps atomic.Int32
	writes   atomic.Int32
	failNext atomic.Int32

	mu   sync.Mutex
	last Views
}

func (s *recordingSink) ReplaceViews(_ context.Context, views Views) error {
	if s.inflight.Add(1) > 1 {
		s.overlaps.Add(1)
	}
	defer s.inflight.Add(-1)
	time.Sleep(time.Millisecond)

	if s.failNext.Load() > 0 {
		s.failNext.Add(-1)
		return errors.New("deadlock detected")
	}
	s.writes.Add(1)
	s.mu.Lock()
	s.last = views
	s.mu.Unlock()
	return nil
}

func TestPublishersSharingALockNeverOverlap(t *testing.T) {
	source := &sliceSource{}
	sink := &recordingSink{}
	locker := lock.NewKeyedMutex(5*time.Second, nil)
	clk := clock.Fake(at(4, 18))

	// Two publishers stand in for two replicas writing the same tables.
	replicas := []*Publisher{
		NewPublisher(source, sink, clk, time.UTC),
		NewPublisher(source, sink, clk, time.UTC),
	}
	for _, p := range replicas {
		p.Locker = locker
	}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			source.add(closed("E1", at(4, 8), 1))
			if _, err := replicas[i%2].Publish(context.Background()); err != nil {
				t.Errorf("Publish: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if n := sink.overlaps.Load(); n != 0 {
		t.Fatalf("%d overlapping view writes", n)
	}
	if n := sink.writes.Load(); n != 20 {
		t.Fatalf("writes = %d, want 20", n)
	}
	// Whichever publish finished last read the full ledger.
	if got := sink.last.Total("E1"); got != 20 {
		t.Fatalf("final total = %v, want 20", got)
	}
	if locker.Held() != 0 {
		t.Fatalf("views lock still held")
	}
}

type orderLocker struct {
	events *[]string
	err    error
}

func (l orderLocker) Acquire(_ context.Context, key string) (func(), error) {
	if l.err != nil {
		return nil, l.err
	}
	*l.events = append(*l.events, "acquire "+key)
	return func() { *l.events = append(*l.events, "release") }, nil
}

type orderSink struct{ events *[]string }

func (s orderSink) ReplaceViews(context.Context, Views) error {
	*s.events = append(*s.events, "write")
	return nil
}

func TestPublishReadsSnapshotInsideLock(t *testing.T) {
	var events []string
	p := NewPublisher(&sliceSource{events: &events}, orderSink{events: &events}, clock.Fake(at(4, 18)), time.UTC)
	p.Locker = orderLocker{events: &events}

	if _, err := p.Publish(context.Background()); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	want := []string{"acquire " + LockKey, "read", "write", "release"}
	if len(events) != len(want) {
		t.Fatalf("events = %v, want %v", events, want)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Fatalf("events = %v, want %v", events, want)
		}
	}
}

func TestPublishRetriesOnceFromFreshSnapshot(t *testing.T) {
	source := &sliceSource{records: []models.SessionRecord{closed("E1", at(4, 8), 2)}}
	sink := &recordingSink{}
	sink.failNext.Store(1)
	p := NewPublisher(source, sink, clock.Fake(at(4, 18)), time.UTC)

	views, err := p.Publish(context.Background())
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if source.reads != 2 || sink.writes.Load() != 1 || views.Total("E1") != 2 {
		t.Fatalf("reads = %d, writes = %d, views = %+v", source.reads, sink.writes.Load(), views.Totals)
	}

	sink.failNext.Store(2)
	if _, err := p.Publish(context.Background()); err == nil {
		t.Fatal("Publish succeeded after two failed writes")
	}
}

func TestPublishLockFailure(t *testing.T) {
	var events []string
	source := &sliceSource{}
	p := NewPublisher(source, orderSink{events: &events}, clock.Fake(at(4, 18)), time.UTC)
	p.Locker = orderLocker{events: &events, err: lock.ErrTimeout}

	if _, err := p.Publish(context.Background()); !errors.Is(err, lock.ErrTimeout) {
		t.Fatalf("err = %v, want lock.ErrTimeout", err)
	}
	if source.reads != 0 || len(events) != 0 {
		t.Fatalf("published without the lock: reads = %d, events = %v", source.reads, events)
	}
}
