package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

const testSecret = "test-secret"

func protectedRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/admin", AuthRequired(testSecret), RequireAnyRole(RoleAdmin, RoleManager), func(c *gin.Context) {
		subject, _ := c.Get(ContextUserID)
		c.JSON(http.StatusOK, gin.H{"subject": subject})
	})
	return router
}

func TestAuthRequired(t *testing.T) {
	router := protectedRouter()

	admin, err := IssueToken("ops", RoleAdmin, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	employee, _ := IssueToken("E1", "employee", testSecret, time.Hour)
	expired, _ := IssueToken("ops", RoleAdmin, testSecret, -time.Minute)
	forged, _ := IssueToken("ops", RoleAdmin, "other-secret", time.Hour)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"forged", "Bearer " + forged, http.StatusUnauthorized},
		{"expired", "Bearer " + expired, http.StatusUnauthorized},
		{"wrong role", "Bearer " + employee, http.StatusForbidden},
		{"admin", "Bearer " + admin, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	router := gin.New()
	router.Use(RequestLogger(slog.New(slog.NewJSONHandler(&buf, nil))))
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(HeaderRequestID, "req-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if got := rec.Header().Get(HeaderRequestID); got != "req-1" {
		t.Fatalf("response request id = %q", got)
	}
	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("log line: %v (%q)", err, buf.String())
	}
	if line["request_id"] != "req-1" || line["path"] != "/ping" || line["status"] != float64(http.StatusNoContent) {
		t.Fatalf("line = %v", line)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if rec.Header().Get(HeaderRequestID) == "" {
		t.Fatal("generated request id missing")
	}
}
