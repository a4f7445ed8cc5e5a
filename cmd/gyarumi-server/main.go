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
	"gyarumi/internal/db"
	"gyarumi/internal/httpapi"
	"gyarumi/internal/llm"
	"gyarumi/internal/mood"
	"gyarumi/internal/mqtt"
	"gyarumi/internal/orchestrator"
	"gyarumi/internal/search"
	"gyarumi/internal/session"
)

func main() {
	cfg, err := config.LoadServerConfig()
	if err != nil {
		slog.New(slog.NewTextHandler(os.Stdout, nil)).Error("load config failed", "error", err)
		os.Exit(1)
	}
	logger := config.NewLogger(os.Stdout, cfg.LogConfig)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var sessionStore session.Store
	if cfg.DBDSN != "" {
		store, err := db.New(ctx, cfg.DBDSN)
		if err != nil {
			logger.Error("connect db failed", "error", err)
			os.Exit(1)
		}
		defer store.Close()

		if err := store.Migrate(ctx); err != nil {
			logger.Error("migrate db failed", "error", err)
			os.Exit(1)
		}
		sessionStore = store
	} else {
		logger.Info("DB_DSN not set, running client-stateful")
	}
	sessions := session.NewService(sessionStore, mood.ModelVersion, cfg.ChatHistoryLimit, logger.With("component", "session"))

	llmCfg := llm.Config{
		Provider:         cfg.LLMProvider,
		Model:            cfg.LLMModel,
		ImageModel:       cfg.ImageModel,
		GeminiAPIKeys:    cfg.GeminiAPIKeys,
		GeminiBaseURL:    cfg.GeminiBaseURL,
		OpenAIBaseURL:    cfg.OpenAIBaseURL,
		OpenAIAPIKey:     cfg.OpenAIAPIKey,
		AnthropicBaseURL: cfg.AnthropicBaseURL,
		AnthropicAPIKey:  cfg.AnthropicAPIKey,
		Timeout:          cfg.LLMTimeout,
	}
	llmProvider, err := llm.NewProvider(ctx, llmCfg, logger)
	if err != nil {
		logger.Error("init llm provider failed", "error", err)
		os.Exit(1)
	}
	imageGen, err := llm.NewImageGenerator(ctx, llmCfg, logger)
	if err != nil {
		logger.Error("init image generator failed", "error", err)
		os.Exit(1)
	}
	if imageGen == nil {
		logger.Info("image generation disabled")
	}

	searchClient := search.NewClient(cfg.SearchBaseURL, cfg.SearchAPIKey, cfg.SearchEngineID, cfg.SearchLimit, cfg.SearchTimeout)
	if !searchClient.Enabled() {
		logger.Info("web search disabled")
	}

	var publisher orchestrator.Publisher
	if cfg.MQTTBrokerURL != "" {
		hub := mqtt.NewHub(mqtt.HubConfig{
			BrokerURL:   cfg.MQTTBrokerURL,
			ClientID:    cfg.MQTTClientID,
			Username:    cfg.MQTTUsername,
			Password:    cfg.MQTTPassword,
			TopicPrefix: cfg.MQTTTopicPrefix,
		}, logger.With("component", "mqtt"))
		if err := hub.Start(ctx); err != nil {
			logger.Error("start mqtt hub failed", "error", err)
			os.Exit(1)
		}
		publisher = hub
	}

	engine := mood.NewEngine(mood.Config{MemoryModel: cfg.MemoryModel})
	orch := orchestrator.New(orchestrator.Config{
		LLMModel:         cfg.LLMModel,
		Temperature:      cfg.LLMTemperature,
		PhotoProbability: cfg.PhotoProbability,
		SessionTTL:       cfg.SessionTTL,
	}, engine, llmProvider, imageGen, searchClient, sessions, publisher, logger.With("component", "orchestrator"))
	go orch.RunSessionSweeper(ctx, cfg.SweepInterval)

	httpServer := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: httpapi.NewRouter(httpapi.Options{
			Chat:         orch,
			Engine:       engine,
			MaxBodyBytes: cfg.MaxBodyBytes,
			RateLimit:    cfg.RateLimit,
			RateBurst:    cfg.RateBurst,
			CORSOrigin:   cfg.CORSOrigin,
			Logger:       logger.With("component", "http"),
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("gyarumi server started",
			"addr", cfg.HTTPAddr,
			"llm_provider", cfg.LLMProvider,
			"llm_model", cfg.LLMModel,
			"memory_model", engine.Config().MemoryModel,
			"session_store", sessions.Enabled(),
			"mqtt", publisher != nil,
		)
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
	cancel()
}
