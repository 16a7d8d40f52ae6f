package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aashishkarki002/tenant-management-sub004/internal/accounts"
	"github.com/aashishkarki002/tenant-management-sub004/internal/config"
	"github.com/aashishkarki002/tenant-management-sub004/internal/handler"
	"github.com/aashishkarki002/tenant-management-sub004/internal/logging"
	"github.com/aashishkarki002/tenant-management-sub004/internal/middleware"
	"github.com/aashishkarki002/tenant-management-sub004/internal/posting"
	"github.com/aashishkarki002/tenant-management-sub004/internal/repository"
	"github.com/aashishkarki002/tenant-management-sub004/internal/service"
	"github.com/aashishkarki002/tenant-management-sub004/internal/service/billing"
	"github.com/aashishkarki002/tenant-management-sub004/internal/store"
	"github.com/aashishkarki002/tenant-management-sub004/internal/store/memory"
	mongostore "github.com/aashishkarki002/tenant-management-sub004/internal/store/mongo"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logging.Init("ledger-api", cfg.LogLevel, cfg.AppEnv)

	st, err := openStore(cfg)
	if err != nil {
		slog.Error("failed to open store", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := st.Close(ctx); err != nil {
			slog.Error("failed to close store", "error", err)
		}
	}()

	registry := accounts.Default()
	billingSvc := billing.NewService(st, posting.NewService(registry), registry)

	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()
	if cfg.OverdueSweepInterval > 0 {
		sweeper := service.NewOverdueSweeper(billingSvc, logger.With("component", "overdue_sweeper"), cfg.OverdueSweepInterval, cfg.OverdueSweepBatch)
		go sweeper.Start(sweepCtx)
	}

	health := handler.NewHealthHandler(st, cfg.StoreDriver)
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", health.Liveness)
	mux.HandleFunc("GET /health/ready", health.Readiness)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           middleware.Tracing(middleware.Logging(middleware.Recovery(mux))),
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("server started", "addr", addr, "store", cfg.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	stopSweeper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

func openStore(cfg *config.Config) (store.Store, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		return connectPostgres(cfg)
	case config.DriverMongo:
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		st, err := mongostore.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		if err := st.EnsureIndexes(ctx); err != nil {
			_ = st.Close(context.Background())
			return nil, err
		}
		return st, nil
	case config.DriverMemory:
		slog.Warn("using in-memory store, nothing will be persisted")
		return memory.New(), nil
	}
	return nil, fmt.Errorf("openStore: unknown driver %q", cfg.StoreDriver)
}

func connectPostgres(cfg *config.Config) (store.Store, error) {
	pool := repository.PoolConfig{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.DBConnMaxLifetimeS) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.DBConnMaxIdleTimeS) * time.Second,
	}

	var err error
	for i := range 30 {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		db, openErr := repository.NewPostgresDB(ctx, cfg.DatabaseURL, pool)
		cancel()
		if openErr == nil {
			return repository.NewStore(db, cfg.DBLockTimeout), nil
		}
		err = openErr
		slog.Info("waiting for database", "attempt", i+1)
		time.Sleep(time.Second)
	}
	return nil, fmt.Errorf("connectPostgres: gave up after 30 attempts: %w", err)
}
