package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/retailpos-api/internal/app"
	"github.com/sangkips/retailpos-api/internal/config"
	"github.com/sangkips/retailpos-api/pkg/logger"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Load configuration
	cfg, warning := config.Load()
	if cfg == nil {
		log.Fatalf("Failed to load configuration: %v", warning)
	}

	zlog, err := logger.New(cfg.Log.Level, cfg.App.Debug)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()
	if warning != nil {
		zlog.Warn("configuration", zap.Error(warning))
	}

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	container, err := app.Open(ctx, cfg, zlog)
	if err != nil {
		zlog.Fatal("failed to start", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           container.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zlog.Info("starting server",
			zap.String("name", cfg.App.Name),
			zap.String("env", cfg.App.Env),
			zap.String("addr", srv.Addr),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Error("server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("failed to shut down server", zap.Error(err))
	}
	container.Shutdown(shutdownCtx)
}
