package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"gyarumi/internal/domain"
)

var (
	ErrBlocked       = errors.New("response blocked by safety filter")
	ErrEmptyResponse = errors.New("empty model response")
)

type Provider interface {
	Complete(ctx context.Context, req domain.LLMRequest) (domain.LLMResponse, error)
}

// ImageGenerator returns a nil image without error when the model declines
// to draw.
type ImageGenerator interface {
	Generate(ctx context.Context, req domain.ImageRequest) (*domain.ImageAttachment, error)
}

type Config struct {
	Provider         string
	Model            string
	ImageModel       string
	GeminiAPIKeys    string
	GeminiBaseURL    string
	OpenAIBaseURL    string
	OpenAIAPIKey     string
	AnthropicBaseURL string
	AnthropicAPIKey  string
	Timeout          time.Duration
}

func NewProvider(ctx context.Context, cfg Config, logger *slog.Logger) (Provider, error) {
	client := &http.Client{Timeout: timeoutOr(cfg.Timeout)}

	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "gemini", "":
		return NewGeminiProvider(ctx, client, cfg.GeminiBaseURL, NewKeyPool(cfg.GeminiAPIKeys), logger)
	case "openai":
		return NewOpenAIProvider(client, cfg.OpenAIBaseURL, cfg.OpenAIAPIKey), nil
	case "claude":
		return NewClaudeProvider(client, cfg.AnthropicBaseURL, cfg.AnthropicAPIKey), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}

// NewImageGenerator always uses Gemini; image generation is disabled when no
// Gemini key is configured.
func NewImageGenerator(ctx context.Context, cfg Config, logger *slog.Logger) (ImageGenerator, error) {
	pool := NewKeyPool(cfg.GeminiAPIKeys)
	if pool.Len() == 0 || strings.TrimSpace(cfg.ImageModel) == "" {
		return nil, nil
	}
	client := &http.Client{Timeout: timeoutOr(cfg.Timeout)}
	return NewGeminiImageGenerator(ctx, client, cfg.GeminiBaseURL, pool, cfg.ImageModel, logger)
}

func timeoutOr(d time.Duration) time.Duration {
	if d <= 0 {
		return 60 * time.Second
	}
	return d
}
