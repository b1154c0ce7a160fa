// Command server is the entry point for the SyncVote API.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hamidadj13/syncvote-api/internal/config"
	"github.com/hamidadj13/syncvote-api/internal/jobs"
	"github.com/hamidadj13/syncvote-api/internal/middleware"
	"github.com/hamidadj13/syncvote-api/internal/observability"
	"github.com/hamidadj13/syncvote-api/internal/server"
)

// @title SyncVote API
// @version 1.0
// @description Forum API with posts, comments and like/dislike voting

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

const reconcileTimeout = 5 * time.Minute

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	middleware.Logger = middleware.NewLogger(cfg.Env)
	logger := middleware.Logger

	shutdownTracing, err := observability.InitTracing(observability.TracingConfig{
		ServiceName:    "syncvote-api",
		ServiceVersion: "1.0",
		Environment:    cfg.Env,
		Exporter:       cfg.OTelExporter,
		OTLPEndpoint:   cfg.OTelEndpoint,
		SamplerRatio:   1.0,
	})
	if err != nil {
		log.Fatalf("Failed to initialize tracing: %v", err)
	}

	srv, err := server.NewServer(cfg)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	sched := jobs.NewScheduler(logger)
	if cfg.ReconcileSchedule != "" {
		if _, err := jobs.ScheduleReconcile(sched, cfg.ReconcileSchedule, reconcileTimeout, logger, srv.VoteService()); err != nil {
			log.Fatalf("Invalid RECONCILE_SCHEDULE %q: %v", cfg.ReconcileSchedule, err)
		}
	}
	sched.Start()

	srv.NewApp()
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigChan:
	case err := <-errCh:
		if err != nil {
			logger.Error("server stopped", "error", err)
		}
	}

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	// In-flight requests drain first; the store connections close last.
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
	if err := sched.Shutdown(ctx); err != nil {
		logger.Error("scheduler shutdown error", "error", err)
	}
	if err := shutdownTracing(ctx); err != nil {
		logger.Error("tracer shutdown error", "error", err)
	}
	if err := srv.Close(ctx); err != nil {
		logger.Error("server resource shutdown error", "error", err)
	}
}
