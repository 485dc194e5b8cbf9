package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"timeclock-backend/internal/attendance"
	"timeclock-backend/internal/clock"
	"timeclock-backend/internal/directory"
	"timeclock-backend/internal/email"
	"timeclock-backend/internal/ledger"
	"timeclock-backend/internal/lock"
	"timeclock-backend/internal/models"
	"timeclock-backend/internal/rollup"
	"timeclock-backend/internal/settings"
	"timeclock-backend/internal/status"
)

var t0 = time.Date(2026, time.March, 4, 8, 0, 0, 0, time.UTC)

type sentMail struct {
	to      string
	subject string
	body    string
}

type fixture struct {
	router    *gin.Engine
	clock     *clock.FakeClock
	store     *ledger.MemoryStore
	employees *directory.MemorySource
	settings  *settings.MemoryStore
	reports   *ReportHandler
	sent      []sentMail
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f := &fixture{
		clock:     clock.Fake(t0),
		store:     ledger.NewMemoryStore(),
		employees: directory.NewMemorySource(models.Employee{Name: "Ana", EmployeeID: "EMP001"}),
		settings:  settings.NewMemoryStore(),
	}

	book := ledger.New(f.store, f.store, time.Second)
	publisher := rollup.NewPublisher(book, book, f.clock, time.UTC)
	cache := directory.NewCache(f.employees, time.Minute, f.clock, logger)
	engine := attendance.NewEngine(attendance.Deps{
		Ledger:   book,
		Locker:   lock.NewKeyedMutex(time.Second, f.clock),
		Rollups:  publisher,
		Settings: f.settings,
		Clock:    f.clock,
		Location: time.UTC,
		Logger:   logger,
	})

	attendanceHandler := NewAttendanceHandler(engine, cache, status.NewReader(book, f.clock, time.UTC), logger)
	directoryHandler := NewDirectoryHandler(cache, f.employees, logger)
	settingsHandler := NewSettingsHandler(f.settings, logger)
	f.reports = NewReportHandler(book, publisher, email.Config{Host: "smtp.test", Port: 25, From: "noreply@test"}, f.clock, time.UTC, logger)
	f.reports.Send = func(_ email.Config, to string, subject string, body string) error {
		f.sent = append(f.sent, sentMail{to: to, subject: subject, body: body})
		return nil
	}

	router := gin.New()
	router.POST("/attendance/clock-in", attendanceHandler.ClockIn)
	router.POST("/attendance/clock-out", attendanceHandler.ClockOut)
	router.GET("/attendance/status/:employeeId", attendanceHandler.Status)
	router.GET("/attendance/stats", attendanceHandler.Stats)
	router.GET("/employees/ids", directoryHandler.IDs)
	router.GET("/employees", directoryHandler.List)
	router.POST("/employees", directoryHandler.Create)
	router.GET("/settings/clock", settingsHandler.GetClock)
	router.PUT("/settings/clock", settingsHandler.UpdateClock)
	router.GET("/summaries", f.reports.Summaries)
	router.POST("/summaries/recompute", f.reports.Recompute)
	router.POST("/reports/daily/email", f.reports.DailyEmail)
	router.GET("/reports/workbook", f.reports.Workbook)
	f.router = router
	return f
}

func (f *fixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

// serve is do for callers that cannot use t, such as goroutines.
func (f *fixture) serve(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

func expectCode(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d: %s", rec.Code, want, rec.Body.String())
	}
}
