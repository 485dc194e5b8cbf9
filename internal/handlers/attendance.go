package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"timeclock-backend/internal/attendance"
	"timeclock-backend/internal/directory"
	"timeclock-backend/internal/geo"
	"timeclock-backend/internal/status"
)

const notInDirectoryNotice = "employee id not found in directory"

type AttendanceHandler struct {
	Engine    *attendance.Engine
	Directory *directory.Cache
	Reader    *status.Reader
	Logger    *slog.Logger
}

type clockRequest struct {
	EmployeeID string   `json:"employeeId"`
	Latitude   *float64 `json:"latitude"`
	Longitude  *float64 `json:"longitude"`
}

type clockResponse struct {
	attendance.Outcome
	Notice string `json:"notice,omitempty"`
}

func NewAttendanceHandler(engine *attendance.Engine, dir *directory.Cache, reader *status.Reader, logger *slog.Logger) *AttendanceHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AttendanceHandler{Engine: engine, Directory: dir, Reader: reader, Logger: logger}
}

func (r clockRequest) coordinates() *geo.Coordinates {
	if r.Latitude == nil || r.Longitude == nil {
		return nil
	}
	return &geo.Coordinates{Latitude: *r.Latitude, Longitude: *r.Longitude}
}

func (h *AttendanceHandler) ClockIn(c *gin.Context) {
	var req clockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		outcome, err := h.Engine.Reject(c.Request.Context(), req.EmployeeID)
		h.respond(c, req, outcome, err, http.StatusCreated)
		return
	}

	outcome, err := h.Engine.ClockIn(c.Request.Context(), req.EmployeeID, req.coordinates())
	h.respond(c, req, outcome, err, http.StatusCreated)
}

func (h *AttendanceHandler) ClockOut(c *gin.Context) {
	var req clockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		outcome, err := h.Engine.Reject(c.Request.Context(), req.EmployeeID)
		h.respond(c, req, outcome, err, http.StatusOK)
		return
	}

	outcome, err := h.Engine.ClockOut(c.Request.Context(), req.EmployeeID, req.coordinates())
	h.respond(c, req, outcome, err, http.StatusOK)
}

func (h *AttendanceHandler) respond(c *gin.Context, req clockRequest, outcome attendance.Outcome, err error, success int) {
	code := statusCode(outcome.Status)
	if err == nil {
		code = success
	} else if code >= http.StatusInternalServerError {
		h.Logger.ErrorContext(c.Request.Context(), "clock request failed",
			"employee_id", outcome.EmployeeID,
			"status", outcome.Status,
			"error", err,
		)
	}

	body := clockResponse{Outcome: outcome}
	if outcome.Status != attendance.StatusInvalidInput && h.Directory != nil &&
		!h.Directory.Contains(c.Request.Context(), req.EmployeeID) {
		body.Notice = notInDirectoryNotice
	}
	c.JSON(code, body)
}

// statusCode maps an outcome status to its HTTP status.
func statusCode(s attendance.Status) int {
	switch s {
	case attendance.StatusSuccess:
		return http.StatusOK
	case attendance.StatusAlreadyClockedIn, attendance.StatusNoOpenSession:
		return http.StatusConflict
	case attendance.StatusDisabled:
		return http.StatusForbidden
	case attendance.StatusInvalidInput:
		return http.StatusBadRequest
	case attendance.StatusNegativeDuration:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusServiceUnavailable
	}
}

func (h *AttendanceHandler) Status(c *gin.Context) {
	employeeID := strings.TrimSpace(c.Param("employeeId"))
	if employeeID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "employeeId required"})
		return
	}

	result, err := h.Reader.EmployeeStatus(c.Request.Context(), employeeID)
	if err != nil {
		h.Logger.ErrorContext(c.Request.Context(), "status lookup failed", "employee_id", employeeID, "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "could not load attendance"})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *AttendanceHandler) Stats(c *gin.Context) {
	stats, err := h.Reader.GlobalStats(c.Request.Context())
	if err != nil {
		h.Logger.ErrorContext(c.Request.Context(), "stats lookup failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "could not load attendance"})
		return
	}
	c.JSON(http.StatusOK, stats)
}
