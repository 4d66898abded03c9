// Package server exposes the extraction pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tsawler/slidetext"
	"github.com/tsawler/slidetext/internal/config"
	"github.com/tsawler/slidetext/internal/server/handler"
	"github.com/tsawler/slidetext/internal/server/router"
	"github.com/tsawler/slidetext/internal/server/service"
)

// shutdownTimeout bounds graceful shutdown after ctx is cancelled.
const shutdownTimeout = 30 * time.Second

// New builds the HTTP handler for cfg around an extractor.
func New(cfg config.Config, ext service.Extractor, logger *slog.Logger) http.Handler {
	extractService := service.NewExtractService(ext)
	extractHandler := handler.NewExtractHandler(extractService, logger)
	return router.New(cfg.APIKey, extractHandler, logger)
}

// Run starts the HTTP server and blocks until ctx is cancelled or the
// server fails.
func Run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	// Set Gin mode based on log level
	if cfg.Level() <= slog.LevelDebug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Build dependency chain
	engine, err := cfg.NewEngine(logger)
	if err != nil {
		return err
	}
	defer engine.Close()

	ext := slidetext.New(engine).WithLogger(logger)
	if !ext.Ready(ctx) {
		logger.Warn("starting without a working OCR engine; /readyz will report 503")
	}

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           New(cfg, ext, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.ListenAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
