package routes

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"timeclock-backend/internal/config"
	"timeclock-backend/internal/handlers"
	"timeclock-backend/internal/middleware"
)

type Handlers struct {
	Attendance *handlers.AttendanceHandler
	Directory  *handlers.DirectoryHandler
	Settings   *handlers.SettingsHandler
	Reports    *handlers.ReportHandler
}

// Register mounts every route. The admin group is only mounted when a JWT
// secret is configured.
func Register(router *gin.Engine, h Handlers, cfg config.Config) {
	router.Use(corsMiddleware(cfg.AllowedOriginsRaw))

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "timeclock-backend"})
	})

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		api.POST("/attendance/clock-in", h.Attendance.ClockIn)
		api.POST("/attendance/clock-out", h.Attendance.ClockOut)
		api.GET("/attendance/status/:employeeId", h.Attendance.Status)
		api.GET("/attendance/stats", h.Attendance.Stats)
		api.GET("/employees/ids", h.Directory.IDs)
		api.GET("/settings/clock", h.Settings.GetClock)
		api.GET("/summaries", h.Reports.Summaries)
	}

	if cfg.JwtSecret == "" {
		return
	}

	admin := api.Group("/")
	admin.Use(middleware.AuthRequired(cfg.JwtSecret), middleware.RequireAnyRole(middleware.RoleAdmin, middleware.RoleManager))
	{
		admin.PUT("/settings/clock", h.Settings.UpdateClock)
		admin.GET("/employees", h.Directory.List)
		admin.POST("/employees", h.Directory.Create)
		admin.POST("/reports/daily/email", h.Reports.DailyEmail)
		admin.GET("/reports/workbook", h.Reports.Workbook)
		admin.POST("/summaries/recompute", h.Reports.Recompute)
	}
}

func corsMiddleware(allowed string) gin.HandlerFunc {
	origins := []string{}
	for _, origin := range strings.Split(allowed, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			origins = append(origins, origin)
		}
	}

	allowAll := len(origins) == 0

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if allowAll {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		} else {
			for _, allowedOrigin := range origins {
				if origin == allowedOrigin {
					c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
					c.Writer.Header().Set("Vary", "Origin")
					break
				}
			}
		}

		c.Writer.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Disposition, X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
