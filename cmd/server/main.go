package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/eaglebank/ledger-service/internal/command"
	"github.com/eaglebank/ledger-service/internal/config"
	"github.com/eaglebank/ledger-service/internal/db"
	"github.com/eaglebank/ledger-service/internal/events"
	"github.com/eaglebank/ledger-service/internal/handler"
	"github.com/eaglebank/ledger-service/internal/logger"
	"github.com/eaglebank/ledger-service/internal/middleware"
	"github.com/eaglebank/ledger-service/internal/models"
	"github.com/eaglebank/ledger-service/internal/query"
	sharedredis "github.com/eaglebank/ledger-service/internal/redis"
	"github.com/eaglebank/ledger-service/internal/repository"
	"github.com/eaglebank/ledger-service/internal/service"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

func main() {
	bootstrap := logger.New(os.Stderr, "info", "text")

	cfg, err := config.Load(bootstrap)
	if err != nil {
		bootstrap.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	if err := run(cfg, log); err != nil {
		log.Error("Ledger service stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Database connection
	pool, err := db.ConnectPostgres(ctx, cfg, log)
	if err != nil {
		log.Error("Failed to connect to database", "dsn", cfg.MaskedDSN())
		return err
	}
	defer pool.Close()

	// Redis is optional: without it lists are read straight from PostgreSQL
	// and events are dropped.
	var rdb *goredis.Client
	if cfg.RedisEnabled() {
		client, err := sharedredis.NewClient(ctx, cfg)
		if err != nil {
			log.Warn("Redis unavailable, running without view cache", "addr", cfg.RedisAddr, "error", err)
		} else {
			rdb = client.Client
			defer client.Close()
		}
	}

	var publisher *events.Publisher
	if cfg.EventsEnabled && rdb != nil {
		publisher = events.NewPublisher(rdb)
	}

	// CQRS: write repos, cached read repos
	accountWriteRepo := repository.NewAccountWriteRepository(pool)
	transferWriteRepo := repository.NewTransferWriteRepository(pool)
	accountReadRepo := repository.NewAccountReadRepository(pool,
		sharedredis.NewViewCache[[]models.Account](rdb, cfg.CacheTTL, log))
	transferReadRepo := repository.NewTransferReadRepository(pool,
		sharedredis.NewViewCache[[]models.TransferView](rdb, cfg.CacheTTL, log))
	tx := repository.NewTransactor(pool)

	// Command + Query services
	opts := command.Options{Timeout: cfg.DBQueryTimeout, Logger: log}
	ledger := service.NewLedger(
		command.NewAccountCommandService(tx, accountWriteRepo, accountReadRepo, transferReadRepo, publisher, opts),
		command.NewTransferCommandService(tx, accountWriteRepo, transferWriteRepo, accountReadRepo, transferReadRepo, publisher, opts),
		query.NewAccountQueryService(accountReadRepo, cfg.DBQueryTimeout),
		query.NewTransferQueryService(transferReadRepo, cfg.DBQueryTimeout),
	)

	// Setup router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(log))

	router.GET("/health", handler.Health(pool, cfg.DBQueryTimeout))
	if cfg.StaticDir != "" {
		router.StaticFile("/", filepath.Join(cfg.StaticDir, "index.html"))
	}
	handler.NewLedgerHandler(ledger).RegisterRoutes(router)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("Ledger service starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	return shutdown(srv, cfg.ShutdownTimeout, log)
}

// shutdown drains in-flight requests. The deferred closes in run release
// redis and the database pool afterwards.
func shutdown(srv *http.Server, timeout time.Duration, log *slog.Logger) error {
	log.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	log.Info("Server stopped")
	return nil
}
