package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type LogConfig struct {
	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info" validate:"oneof=debug info warn error"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text" validate:"oneof=text json"`
}

type HTTPConfig struct {
	MaxBodyBytes int64   `env:"MAX_BODY_BYTES"        envDefault:"8388608" validate:"min=1024"`
	RateLimit    float64 `env:"RATE_LIMIT_PER_SECOND" envDefault:"2"       validate:"min=0"`
	RateBurst    int     `env:"RATE_LIMIT_BURST"      envDefault:"10"      validate:"min=1"`
	CORSOrigin   string  `env:"CORS_ALLOW_ORIGIN"     envDefault:"*"`
}

type ServerConfig struct {
	LogConfig
	HTTPConfig

	HTTPAddr    string `env:"GYARUMI_HTTP_ADDR" envDefault:":8787"`
	MemoryModel string `env:"MOOD_MEMORY_MODEL" envDefault:"decaying" validate:"oneof=none decaying"`

	LLMProvider      string        `env:"LLM_PROVIDER"      envDefault:"gemini" validate:"oneof=gemini openai claude"`
	LLMModel         string        `env:"LLM_MODEL"`
	LLMTemperature   float32       `env:"LLM_TEMPERATURE"   envDefault:"0.8"    validate:"gt=0,max=2"`
	LLMTimeout       time.Duration `env:"LLM_TIMEOUT"       envDefault:"60s"    validate:"min=1s,max=10m"`
	ImageModel       string        `env:"IMAGE_MODEL"       envDefault:"gemini-2.5-flash-image-preview"`
	PhotoProbability float64       `env:"PHOTO_PROBABILITY" envDefault:"0.3"    validate:"min=0,max=1"`

	// GeminiAPIKeys accepts a comma separated list; keys are rotated.
	GeminiAPIKeys    string `env:"GEMINI_API_KEY"`
	GeminiBaseURL    string `env:"GEMINI_BASE_URL"    validate:"omitempty,url"`
	OpenAIBaseURL    string `env:"OPENAI_BASE_URL"    envDefault:"https://api.openai.com/v1" validate:"url"`
	OpenAIAPIKey     string `env:"OPENAI_API_KEY"`
	AnthropicBaseURL string `env:"ANTHROPIC_BASE_URL" envDefault:"https://api.anthropic.com" validate:"url"`
	AnthropicAPIKey  string `env:"ANTHROPIC_API_KEY"`

	SearchAPIKey   string        `env:"GOOGLE_SEARCH_API_KEY"`
	SearchEngineID string        `env:"GOOGLE_SEARCH_ENGINE_ID"`
	SearchBaseURL  string        `env:"GOOGLE_SEARCH_BASE_URL" envDefault:"https://www.googleapis.com/customsearch/v1" validate:"url"`
	SearchLimit    int           `env:"SEARCH_RESULT_LIMIT"    envDefault:"3"  validate:"min=1,max=10"`
	SearchTimeout  time.Duration `env:"SEARCH_TIMEOUT"         envDefault:"5s" validate:"min=100ms"`

	DBDSN            string        `env:"DB_DSN"`
	ChatHistoryLimit int           `env:"CHAT_HISTORY_LIMIT"     envDefault:"20"   validate:"min=1,max=200"`
	SessionTTL       time.Duration `env:"SESSION_TTL"            envDefault:"720h" validate:"min=0"`
	SweepInterval    time.Duration `env:"SESSION_SWEEP_INTERVAL" envDefault:"1h"   validate:"min=1m"`

	MQTTBrokerURL   string `env:"MQTT_BROKER_URL"`
	MQTTClientID    string `env:"MQTT_CLIENT_ID"    envDefault:"gyarumi-server"`
	MQTTUsername    string `env:"MQTT_USERNAME"`
	MQTTPassword    string `env:"MQTT_PASSWORD"`
	MQTTTopicPrefix string `env:"MQTT_TOPIC_PREFIX" envDefault:"gyarumi" validate:"required"`
}

type MoodServerConfig struct {
	LogConfig
	HTTPConfig

	HTTPAddr    string `env:"MOOD_HTTP_ADDR"    envDefault:":8788"`
	MemoryModel string `env:"MOOD_MEMORY_MODEL" envDefault:"decaying" validate:"oneof=none decaying"`
}

type CLIConfig struct {
	LogConfig

	MemoryModel string `env:"MOOD_MEMORY_MODEL" envDefault:"decaying" validate:"oneof=none decaying"`
}

var defaultModels = map[string]string{
	"gemini": "gemini-2.5-flash",
	"openai": "gpt-4o-mini",
	"claude": "claude-3-5-haiku-latest",
}

func LoadServerConfig() (ServerConfig, error) {
	return loadServerConfig(nil)
}

func LoadMoodServerConfig() (MoodServerConfig, error) {
	var cfg MoodServerConfig
	if err := load(&cfg, nil); err != nil {
		return MoodServerConfig{}, err
	}
	return cfg, nil
}

func LoadCLIConfig() (CLIConfig, error) {
	var cfg CLIConfig
	if err := load(&cfg, nil); err != nil {
		return CLIConfig{}, err
	}
	return cfg, nil
}

// loadServerConfig reads from environ when it is non-nil, otherwise from
// the process environment plus an optional .env file.
func loadServerConfig(environ map[string]string) (ServerConfig, error) {
	var cfg ServerConfig
	if err := load(&cfg, environ); err != nil {
		return ServerConfig{}, err
	}

	if strings.TrimSpace(cfg.LLMModel) == "" {
		cfg.LLMModel = defaultModels[cfg.LLMProvider]
	}

	switch cfg.LLMProvider {
	case "gemini":
		if strings.TrimSpace(cfg.GeminiAPIKeys) == "" {
			return ServerConfig{}, fmt.Errorf("GEMINI_API_KEY is required when LLM_PROVIDER=gemini")
		}
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			return ServerConfig{}, fmt.Errorf("OPENAI_API_KEY is required when LLM_PROVIDER=openai")
		}
	case "claude":
		if cfg.AnthropicAPIKey == "" {
			return ServerConfig{}, fmt.Errorf("ANTHROPIC_API_KEY is required when LLM_PROVIDER=claude")
		}
	}
	if (cfg.SearchAPIKey == "") != (cfg.SearchEngineID == "") {
		return ServerConfig{}, fmt.Errorf("GOOGLE_SEARCH_API_KEY and GOOGLE_SEARCH_ENGINE_ID must be set together")
	}
	return cfg, nil
}

func load(out any, environ map[string]string) error {
	opts := env.Options{}
	if environ != nil {
		opts.Environment = environ
	} else if err := loadDotEnv(); err != nil {
		return err
	}
	if err := env.ParseWithOptions(out, opts); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	if err := validator.New().Struct(out); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// loadDotEnv loads .env when present. Variables already set in the process
// environment take precedence.
func loadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}
