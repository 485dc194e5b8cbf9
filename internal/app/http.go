package app

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"timeclock-backend/internal/attendance"
	"timeclock-backend/internal/clock"
	"timeclock-backend/internal/config"
	"timeclock-backend/internal/directory"
	"timeclock-backend/internal/email"
	"timeclock-backend/internal/geo"
	"timeclock-backend/internal/handlers"
	"timeclock-backend/internal/ledger"
	"timeclock-backend/internal/middleware"
	"timeclock-backend/internal/rollup"
	"timeclock-backend/internal/routes"
	"timeclock-backend/internal/status"
)

func setupHTTP(infra *Infra, cfg config.Config, loc *time.Location, clk clock.Clock, logger *slog.Logger) *gin.Engine {
	book := ledger.New(infra.Ledger, infra.Ledger, cfg.StoreTimeout)
	publisher := rollup.NewPublisher(book, book, clk, loc)
	publisher.Locker = infra.Locker
	cache := directory.NewCache(infra.Directory, cfg.DirectoryCacheTTL, clk, logger)

	var resolver geo.Resolver
	if cfg.GeocoderAPIKey != "" {
		google, err := geo.NewGoogleResolver(cfg.GeocoderAPIKey, cfg.GeocoderURL, cfg.GeocoderLanguage, cfg.GeocoderRegion, cfg.GeocoderTimeout)
		if err != nil {
			logger.Warn("geocoder disabled", "error", err)
		} else {
			resolver = google
		}
	}

	engine := attendance.NewEngine(attendance.Deps{
		Ledger:   book,
		Locker:   infra.Locker,
		Geocoder: resolver,
		Rollups:  publisher,
		Settings: infra.Settings,
		Clock:    clk,
		Location: loc,
		Logger:   logger,
	})

	mail := email.Config{
		Host:     cfg.SmtpHost,
		Port:     cfg.SmtpPort,
		Username: cfg.SmtpUser,
		Password: cfg.SmtpPass,
		From:     cfg.SmtpFrom,
	}

	h := routes.Handlers{
		Attendance: handlers.NewAttendanceHandler(engine, cache, status.NewReader(book, clk, loc), logger),
		Directory:  handlers.NewDirectoryHandler(cache, infra.Directory, logger),
		Settings:   handlers.NewSettingsHandler(infra.Settings, logger),
		Reports:    handlers.NewReportHandler(book, publisher, mail, clk, loc, logger),
	}

	router := gin.New()
	router.Use(middleware.RequestLogger(logger), gin.Recovery())
	routes.Register(router, h, cfg)
	return router
}
