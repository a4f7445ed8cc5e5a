package config

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestServerConfigDefaults(t *testing.T) {
	cfg, err := loadServerConfig(map[string]string{"GEMINI_API_KEY": "k1,k2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTPAddr != ":8787" || cfg.LLMProvider != "gemini" || cfg.LLMModel != "gemini-2.5-flash" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.MemoryModel != "decaying" || cfg.LLMTemperature != 0.8 || cfg.LLMTimeout != 60*time.Second {
		t.Fatalf("unexpected engine defaults %+v", cfg)
	}
	if cfg.SessionTTL != 720*time.Hour || cfg.MQTTTopicPrefix != "gyarumi" || cfg.RateBurst != 10 {
		t.Fatalf("unexpected store defaults %+v", cfg)
	}
}

func TestServerConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		environ map[string]string
		want    string
	}{
		{name: "gemini key", environ: map[string]string{}, want: "GEMINI_API_KEY is required"},
		{name: "openai key", environ: map[string]string{"LLM_PROVIDER": "openai"}, want: "OPENAI_API_KEY is required"},
		{name: "claude key", environ: map[string]string{"LLM_PROVIDER": "claude"}, want: "ANTHROPIC_API_KEY is required"},
		{name: "unknown provider", environ: map[string]string{"LLM_PROVIDER": "mistral"}, want: "invalid config"},
		{name: "memory model", environ: map[string]string{"GEMINI_API_KEY": "k", "MOOD_MEMORY_MODEL": "forever"}, want: "invalid config"},
		{name: "photo probability", environ: map[string]string{"GEMINI_API_KEY": "k", "PHOTO_PROBABILITY": "1.5"}, want: "invalid config"},
		{name: "bad duration", environ: map[string]string{"GEMINI_API_KEY": "k", "LLM_TIMEOUT": "soon"}, want: "parse env"},
		{name: "half search config", environ: map[string]string{"GEMINI_API_KEY": "k", "GOOGLE_SEARCH_API_KEY": "s"}, want: "must be set together"},
	}
	for _, tt := range tests {
		_, err := loadServerConfig(tt.environ)
		if err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Fatalf("%s: err=%v, want %q", tt.name, err, tt.want)
		}
	}
}

func TestServerConfigProviderModel(t *testing.T) {
	cfg, err := loadServerConfig(map[string]string{"LLM_PROVIDER": "openai", "OPENAI_API_KEY": "sk", "LLM_MODEL": "gpt-4.1"})
	if err != nil || cfg.LLMModel != "gpt-4.1" {
		t.Fatalf("cfg=%+v err=%v", cfg, err)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, LogConfig{LogLevel: "warn", LogFormat: "json"})
	logger.Info("hidden")
	logger.Warn("shown", "session_id", "sess_1")
	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, `"session_id":"sess_1"`) {
		t.Fatalf("unexpected log output %q", out)
	}
	if !logger.Enabled(context.Background(), slog.LevelError) {
		t.Fatalf("error level should be enabled")
	}
}
