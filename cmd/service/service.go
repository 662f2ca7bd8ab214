// File: cmd/service/service.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"user-center/internal/config"
	"user-center/internal/database"
	"user-center/internal/logger"
	"user-center/internal/router"
	"user-center/internal/service"
	"user-center/internal/uow"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

var (
	loadConfig      = config.Load
	newLogger       = logger.New
	newPgxPool      = database.NewPgxPool
	runMigrationsFn = database.RunMigrations
	rollbackAllFn   = database.RollbackAll
	startServer     = func(e *echo.Echo, addr string) error { return e.Start(addr) }
	shutdownServer  = func(ctx context.Context, e *echo.Echo) error { return e.Shutdown(ctx) }
	notifyContext   = signal.NotifyContext
	exitFunc        = os.Exit
)

// run starts the API server and blocks until it stops. "rollback" as the
// first argument reverts every migration instead.
func run(args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := newLogger(logger.Config{Level: cfg.Log.Level, Dev: cfg.Log.Dev})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	if len(args) > 0 && args[0] == "rollback" {
		if err := rollbackAllFn(cfg.Database.URL); err != nil {
			return fmt.Errorf("rollback migrations: %w", err)
		}
		log.Info("all migrations rolled back")
		return nil
	}

	ctx, stop := notifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Database.AutoMigrate {
		if err := runMigrationsFn(cfg.Database.URL); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
	}

	db, err := newPgxPool(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	codec, err := service.NewTokenCodec(cfg.Auth.SecretKey, cfg.Auth.Algorithm, cfg.AccessTokenTTL())
	if err != nil {
		return fmt.Errorf("token codec: %w", err)
	}
	deps := service.Deps{
		Hasher: service.NewBcryptHasher(service.DefaultBcryptCost),
		Tokens: codec,
		Logger: log,
	}
	units := uow.NewFactory(db)

	if err := bootstrapAdmin(ctx, cfg, units, deps); err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}

	e := router.New(router.Deps{
		Config:   cfg,
		DB:       db,
		Units:    units,
		Services: deps,
		Logger:   log,
	})

	errCh := make(chan error, 1)
	go func() { errCh <- startServer(e, cfg.Addr()) }()
	log.Info("server started",
		zap.String("name", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("addr", cfg.Addr()),
	)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("start server: %w", err)
		}
		return nil
	case <-ctx.Done():
		log.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownServer(sctx, e); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	}
}

// bootstrapAdmin creates the configured admin account on first start. It is a
// no-op without ADMIN_PASSWORD.
func bootstrapAdmin(ctx context.Context, cfg config.Config, units uow.Factory, deps service.Deps) error {
	if cfg.Admin.Password == "" {
		return nil
	}
	return uow.Run(ctx, units, func(ctx context.Context, w uow.UnitOfWork) error {
		created, err := deps.Users(w).EnsureUser(ctx, cfg.Admin.Username, cfg.Admin.Password, cfg.Admin.Name)
		if err != nil {
			return err
		}
		if created {
			deps.Logger.Info("admin user created", zap.String("username", cfg.Admin.Username))
		}
		return nil
	})
}
