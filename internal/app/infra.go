package app

import (
	"context"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"timeclock-backend/internal/clock"
	"timeclock-backend/internal/config"
	"timeclock-backend/internal/db"
	"timeclock-backend/internal/directory"
	"timeclock-backend/internal/handlers"
	"timeclock-backend/internal/ledger"
	"timeclock-backend/internal/lock"
	"timeclock-backend/internal/settings"
)

type LedgerStore interface {
	ledger.Store
	ledger.ViewStore
}

type DirectoryStore interface {
	directory.Source
	handlers.EmployeeStore
}

// Infra holds the storage and coordination backends selected by config.
type Infra struct {
	DB        *gorm.DB
	Redis     *goredis.Client
	Ledger    LedgerStore
	Directory DirectoryStore
	Settings  settings.Store
	Locker    lock.Locker
}

func setupInfra(ctx context.Context, cfg config.Config, clk clock.Clock, logger *slog.Logger) (*Infra, error) {
	infra := &Infra{}

	if cfg.DbDriver == "memory" {
		infra.Ledger = ledger.NewMemoryStore()
		infra.Directory = directory.NewMemorySource()
		infra.Settings = settings.NewMemoryStore()
		logger.Warn("using in-memory storage, data is lost on restart")
	} else {
		database, err := db.Open(cfg.DbDriver, cfg.DbDsn)
		if err != nil {
			return nil, err
		}
		infra.DB = database
		infra.Ledger = ledger.NewGormStore(database)
		infra.Directory = directory.NewGormSource(database)
		infra.Settings = settings.NewGormStore(database)
		logger.Info("database ready", "driver", cfg.DbDriver)
	}

	if cfg.RedisAddr == "" {
		infra.Locker = lock.NewKeyedMutex(cfg.LockTimeout, clk)
		return infra, nil
	}

	client, err := newRedis(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		infra.Close()
		return nil, err
	}
	infra.Redis = client
	infra.Locker = lock.NewRedisLocker(client, cfg.LockTimeout, cfg.LockLease, clk, logger)
	logger.Info("redis ready", "addr", cfg.RedisAddr)

	return infra, nil
}

func newRedis(ctx context.Context, addr, password string) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

// Close releases whatever backends were opened.
func (i *Infra) Close() error {
	var firstErr error
	if i.Redis != nil {
		if err := i.Redis.Close(); err != nil {
			firstErr = err
		}
	}
	if i.DB != nil {
		if err := db.Close(i.DB); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
