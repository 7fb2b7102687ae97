package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "github.com/dsokolov/procurement-assistant/internal/adapters/http"
	"github.com/dsokolov/procurement-assistant/internal/bootstrap"
	"github.com/dsokolov/procurement-assistant/internal/config"
	"github.com/dsokolov/procurement-assistant/internal/observability/logging"
	"github.com/dsokolov/procurement-assistant/internal/observability/metrics"
)

func main() {
	cfg := config.Load()
	slog.SetDefault(logging.NewJSONLogger("api", cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		slog.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	router := httpadapter.NewRouter(httpadapter.RouterDeps{
		RFPs:         app.RFPs,
		Vendors:      app.Vendors,
		Proposals:    app.Proposals,
		RFPRepo:      app.RFPRepo,
		VendorRepo:   app.VendorRepo,
		ProposalRepo: app.ProposalRepo,
		Comparer:     app.Comparer,
		Structurer:   app.Structurer,
		Parser:       app.Parser,
		Dispatcher:   app.Dispatcher,
		Metrics:      metrics.NewHTTPServerMetrics("api"),

		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	})

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("api_listening", "port", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("api_server_failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("api_shutdown_error", "error", err)
	}
}
