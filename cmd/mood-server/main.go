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

	"gyarumi/internal/config"
	"gyarumi/internal/emotion"
	"gyarumi/internal/httpapi"
	"gyarumi/internal/mood"
)

// mood-server exposes the engine and the intent classifier without any
// LLM, store or broker behind them.
func main() {
	cfg, err := config.LoadMoodServerConfig()
	if err != nil {
		slog.New(slog.NewTextHandler(os.Stdout, nil)).Error("load config failed", "error", err)
		os.Exit(1)
	}
	logger := config.NewLogger(os.Stdout, cfg.LogConfig)
	engine := mood.NewEngine(mood.Config{MemoryModel: cfg.MemoryModel})

	httpServer := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: httpapi.NewRouter(httpapi.Options{
			Engine:       engine,
			MaxBodyBytes: cfg.MaxBodyBytes,
			RateLimit:    cfg.RateLimit,
			RateBurst:    cfg.RateBurst,
			CORSOrigin:   cfg.CORSOrigin,
			Logger:       logger,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		logger.Info("mood server started", "addr", cfg.HTTPAddr, "model_version", mood.ModelVersion, "memory_model", engine.Config().MemoryModel, "lexicon", emotion.Engine)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			cancel()
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		logger.Info("received shutdown signal")
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown failed", "error", err)
	}
}
