package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"timeclock-backend/internal/directory"
	"timeclock-backend/internal/models"
)

// EmployeeStore is the writable side of the directory.
type EmployeeStore interface {
	List(ctx context.Context) ([]models.Employee, error)
	Add(ctx context.Context, employee *models.Employee) error
}

type DirectoryHandler struct {
	Cache  *directory.Cache
	Store  EmployeeStore
	Logger *slog.Logger
}

type createEmployeeRequest struct {
	Name       string `json:"name" binding:"required"`
	EmployeeID string `json:"employeeId" binding:"required"`
}

func NewDirectoryHandler(cache *directory.Cache, store EmployeeStore, logger *slog.Logger) *DirectoryHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DirectoryHandler{Cache: cache, Store: store, Logger: logger}
}

// IDs never fails: an unreachable directory yields the last known ids or
// an empty list.
func (h *DirectoryHandler) IDs(c *gin.Context) {
	c.JSON(http.StatusOK, h.Cache.EmployeeIDs(c.Request.Context()))
}

func (h *DirectoryHandler) List(c *gin.Context) {
	employees, err := h.Store.List(c.Request.Context())
	if err != nil {
		h.Logger.ErrorContext(c.Request.Context(), "list employees failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "could not load employees"})
		return
	}
	c.JSON(http.StatusOK, employees)
}

func (h *DirectoryHandler) Create(c *gin.Context) {
	var req createEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	employee := models.Employee{
		Name:       strings.TrimSpace(req.Name),
		EmployeeID: strings.TrimSpace(req.EmployeeID),
	}
	if employee.Name == "" || employee.EmployeeID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and employeeId are required"})
		return
	}

	if err := h.Store.Add(c.Request.Context(), &employee); err != nil {
		if errors.Is(err, directory.ErrDuplicateEmployee) {
			c.JSON(http.StatusConflict, gin.H{"error": "employeeId already exists"})
			return
		}
		h.Logger.ErrorContext(c.Request.Context(), "create employee failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "create failed"})
		return
	}
	h.Cache.Invalidate()
	c.JSON(http.StatusCreated, employee)
}
