package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jcmexdev/order-management/internal/order-service/app"
	"github.com/jcmexdev/order-management/internal/order-service/infra/httpx"
	"github.com/jcmexdev/order-management/internal/order-service/orderlog"
	"github.com/jcmexdev/order-management/internal/order-service/orderlog/sqlite"
	"github.com/jcmexdev/order-management/internal/pkg/cache"
	"github.com/jcmexdev/order-management/internal/pkg/config"
	"github.com/jcmexdev/order-management/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	telemetry.InitLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := telemetry.SetupTracer(ctx, cfg.ServiceName, cfg.OTLPEndpoint)
	if err != nil {
		slog.Error("failed to initialise tracer", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTracer(shutdownCtx); err != nil {
			slog.Error("tracer shutdown error", "error", err)
		}
	}()

	var idempotencyCache cache.Cache
	if cfg.RedisAddr != "" {
		redisCache := cache.NewRedisCache(cfg.RedisAddr, "order")
		defer redisCache.Close()

		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisCache.Ping(pingCtx); err != nil {
			// keep going, lookups fail open
			slog.Warn("redis unreachable, idempotency keys degraded", "addr", cfg.RedisAddr, "error", err)
		}
		cancel()
		idempotencyCache = redisCache
	}

	var auditLog orderlog.Repository
	if cfg.OrderLogPath != "" {
		repo, err := sqlite.Open(cfg.OrderLogPath)
		if err != nil {
			slog.Error("failed to open order log", "path", cfg.OrderLogPath, "error", err)
			os.Exit(1)
		}
		defer repo.Close()

		rows, err := repo.Count(ctx)
		if err != nil {
			slog.Error("failed to read order log", "path", cfg.OrderLogPath, "error", err)
			os.Exit(1)
		}
		slog.Info("order log opened", "path", cfg.OrderLogPath, "rows", rows)
		auditLog = repo
	}

	metrics := telemetry.NewMetrics("service")
	orderService := app.NewOrderService(app.NewStore(), idempotencyCache, auditLog, cfg.IdempotencyTTL)
	handler := httpx.NewHandler(orderService, metrics)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           httpx.NewRouter(handler, metrics),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("order service HTTP running", "addr", srv.Addr,
			"idempotency", idempotencyCache != nil,
			"order_log", auditLog != nil,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}
}
