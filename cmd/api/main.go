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

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/kanso-kcal/internal/config"
	"github.com/comitanigiacomo/kanso-kcal/internal/core/services"
	"github.com/comitanigiacomo/kanso-kcal/internal/platform/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Critical: invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.Setup(logging.Options{
		Service: "kanso-kcal",
		Env:     cfg.AppEnv,
		File:    cfg.LogFile,
		Level:   logging.ParseLevel(cfg.LogLevel),
	})
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, logger, services.SystemClock)
	if err != nil {
		logger.Error("Critical: startup failed", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	workerCtx, stopWorker := context.WithCancel(context.Background())
	workerDone := a.worker.Start(workerCtx)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      a.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("Kanso Kcal running", "addr", "http://localhost:"+cfg.Port, "storage", cfg.Storage, "timezone", cfg.Timezone.String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Critical server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Stop signal received. Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Forced shutdown error", "error", err)
	}

	stopWorker()
	<-workerDone

	logger.Info("Server stopped gracefully.")
}
