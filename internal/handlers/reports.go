package handlers

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"timeclock-backend/internal/clock"
	"timeclock-backend/internal/email"
	"timeclock-backend/internal/export"
	"timeclock-backend/internal/models"
	"timeclock-backend/internal/rollup"
)

const workbookContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Snapshotter interface {
	ReadAll(ctx context.Context) ([]models.SessionRecord, error)
}

type ReportHandler struct {
	Ledger    Snapshotter
	Publisher *rollup.Publisher
	Email     email.Config
	Send      func(cfg email.Config, to string, subject string, body string) error
	Clock     clock.Clock
	Location  *time.Location
	Logger    *slog.Logger
}

type dailyEmailRequest struct {
	Email string `json:"email" binding:"required"`
}

func NewReportHandler(ledger Snapshotter, publisher *rollup.Publisher, mail email.Config, clk clock.Clock, loc *time.Location, logger *slog.Logger) *ReportHandler {
	if clk == nil {
		clk = clock.Real()
	}
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportHandler{
		Ledger:    ledger,
		Publisher: publisher,
		Email:     mail,
		Send:      email.Send,
		Clock:     clk,
		Location:  loc,
		Logger:    logger,
	}
}

// Summaries recomputes the views on demand without persisting them.
func (h *ReportHandler) Summaries(c *gin.Context) {
	views, err := h.Publisher.Compute(c.Request.Context())
	if err != nil {
		h.Logger.ErrorContext(c.Request.Context(), "compute summaries failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "could not compute summaries"})
		return
	}
	c.JSON(http.StatusOK, views)
}

// Recompute rebuilds and persists every summary table.
func (h *ReportHandler) Recompute(c *gin.Context) {
	views, err := h.Publisher.Publish(c.Request.Context())
	if err != nil {
		h.Logger.ErrorContext(c.Request.Context(), "publish summaries failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "recompute failed"})
		return
	}
	h.Logger.InfoContext(c.Request.Context(), "summaries recomputed",
		"totals", len(views.Totals),
		"daily", len(views.Daily),
		"weekly", len(views.Weekly),
		"monthly", len(views.Monthly),
	)
	c.JSON(http.StatusOK, views)
}

func (h *ReportHandler) DailyEmail(c *gin.Context) {
	var req dailyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	to := strings.TrimSpace(req.Email)
	if !email.ValidAddress(to) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid email"})
		return
	}
	if !h.Email.Configured() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "email is not configured"})
		return
	}

	views, err := h.Publisher.Compute(c.Request.Context())
	if err != nil {
		h.Logger.ErrorContext(c.Request.Context(), "compute summaries failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "could not compute report"})
		return
	}

	subject, body := email.DailyReport(views.AsOf, views.Daily, h.Location)
	if err := h.Send(h.Email, to, subject, body); err != nil {
		h.Logger.ErrorContext(c.Request.Context(), "send daily report failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to send report"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "sent", "rows": len(views.Daily)})
}

func (h *ReportHandler) Workbook(c *gin.Context) {
	records, err := h.Ledger.ReadAll(c.Request.Context())
	if err != nil {
		h.Logger.ErrorContext(c.Request.Context(), "read ledger failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "could not load attendance"})
		return
	}
	now := h.Clock.Now()
	views := rollup.Recompute(records, now, h.Location)

	var buf bytes.Buffer
	if err := export.Write(&buf, records, views, h.Location); err != nil {
		h.Logger.ErrorContext(c.Request.Context(), "write workbook failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not build workbook"})
		return
	}

	filename := fmt.Sprintf("attendance-%s.xlsx", now.In(h.Location).Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, workbookContentType, buf.Bytes())
}
