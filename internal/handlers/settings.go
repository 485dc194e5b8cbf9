package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"timeclock-backend/internal/settings"
)

type SettingsHandler struct {
	Store  settings.Store
	Logger *slog.Logger
}

// updateClockRequest leaves a switch unchanged when its field is omitted.
type updateClockRequest struct {
	ClockIn  *string `json:"ClockIn"`
	ClockOut *string `json:"ClockOut"`
}

func NewSettingsHandler(store settings.Store, logger *slog.Logger) *SettingsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SettingsHandler{Store: store, Logger: logger}
}

func (h *SettingsHandler) GetClock(c *gin.Context) {
	switches, err := h.Store.Switches(c.Request.Context())
	if err != nil {
		h.Logger.ErrorContext(c.Request.Context(), "load clock settings failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "failed to load settings"})
		return
	}
	c.JSON(http.StatusOK, switches.Labels())
}

func (h *SettingsHandler) UpdateClock(c *gin.Context) {
	var req updateClockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	if req.ClockIn == nil && req.ClockOut == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ClockIn or ClockOut required"})
		return
	}

	switches, err := h.Store.Switches(c.Request.Context())
	if err != nil {
		h.Logger.ErrorContext(c.Request.Context(), "load clock settings failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "failed to load settings"})
		return
	}
	for _, field := range []struct {
		value  *string
		target *bool
	}{
		{req.ClockIn, &switches.ClockIn},
		{req.ClockOut, &switches.ClockOut},
	} {
		if field.value == nil {
			continue
		}
		on, ok := settings.ParseSwitch(*field.value)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "switch must be ON or OFF"})
			return
		}
		*field.target = on
	}

	if err := h.Store.SetSwitches(c.Request.Context(), switches); err != nil {
		h.Logger.ErrorContext(c.Request.Context(), "save clock settings failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "failed to save settings"})
		return
	}
	c.JSON(http.StatusOK, switches.Labels())
}
