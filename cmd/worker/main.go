package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dsokolov/procurement-assistant/internal/bootstrap"
	"github.com/dsokolov/procurement-assistant/internal/config"
	"github.com/dsokolov/procurement-assistant/internal/observability/logging"
	"github.com/dsokolov/procurement-assistant/internal/observability/metrics"
)

const structureTimeout = 5 * time.Minute

func main() {
	cfg := config.Load()
	slog.SetDefault(logging.NewJSONLogger("worker", cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		slog.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	workerMetrics := metrics.NewWorkerMetrics("worker")
	metricsServer := &http.Server{
		Addr:    ":" + cfg.WorkerMetricsPort,
		Handler: workerMetrics.Handler(),
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("worker_metrics_server_failed", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	slog.Info("worker_subscribed", "subject", cfg.NATSSubject)
	err = app.Queue.SubscribeRFPCreated(ctx, func(handlerCtx context.Context, rfpID int64) error {
		structureCtx, cancel := context.WithTimeout(handlerCtx, structureTimeout)
		defer cancel()

		workerMetrics.StartStructure()
		start := time.Now()
		structureErr := app.Structurer.StructureByID(structureCtx, rfpID)
		workerMetrics.FinishStructure("worker", time.Since(start), structureErr)

		if structureErr != nil {
			slog.Error("rfp_structure_failed", "rfp_id", rfpID, "error", structureErr)
		} else {
			slog.Info("rfp_structured", "rfp_id", rfpID, "duration_ms", time.Since(start).Milliseconds())
		}
		return structureErr
	})
	if err != nil {
		slog.Error("worker_subscribe_failed", "error", err)
		os.Exit(1)
	}
}
