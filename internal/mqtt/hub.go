package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"gyarumi/internal/domain"
)

var ErrNotConnected = errors.New("mqtt hub not connected")

type HubConfig struct {
	BrokerURL      string
	ClientID       string
	Username       string
	Password       string
	TopicPrefix    string
	PublishTimeout time.Duration
}

// Hub publishes per-session vibe updates for companion displays. Messages
// are retained so a display that connects late still gets the last state.
type Hub struct {
	cfg    HubConfig
	client paho.Client
	logger *slog.Logger
}

func NewHub(cfg HubConfig, logger *slog.Logger) *Hub {
	if cfg.TopicPrefix == "" {
		cfg.TopicPrefix = "gyarumi"
	}
	if cfg.PublishTimeout <= 0 {
		cfg.PublishTimeout = 3 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{cfg: cfg, logger: logger}
}

func (h *Hub) Start(ctx context.Context) error {
	opts := paho.NewClientOptions().
		AddBroker(h.cfg.BrokerURL).
		SetClientID(h.cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true)

	if h.cfg.Username != "" {
		opts.SetUsername(h.cfg.Username)
		opts.SetPassword(h.cfg.Password)
	}

	opts.SetConnectionLostHandler(func(_ paho.Client, err error) {
		h.logger.Error("mqtt connection lost", "error", err)
	})
	opts.SetOnConnectHandler(func(_ paho.Client) {
		h.logger.Info("mqtt connected", "broker", h.cfg.BrokerURL, "topics", TopicAllVibes(h.cfg.TopicPrefix))
	})

	h.client = paho.NewClient(opts)
	if token := h.client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}

	go func() {
		<-ctx.Done()
		h.client.Disconnect(100)
	}()

	return nil
}

func (h *Hub) PublishVibe(ctx context.Context, payload domain.VibeUpdatePayload) error {
	if h.client == nil {
		return ErrNotConnected
	}
	if payload.SessionID == "" {
		return fmt.Errorf("vibe update without session id")
	}
	if payload.TS == "" {
		payload.TS = time.Now().UTC().Format(time.RFC3339Nano)
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	token := h.client.Publish(TopicSessionVibe(h.cfg.TopicPrefix, payload.SessionID), 0, true, body)
	timeout := h.cfg.PublishTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}
	if !token.WaitTimeout(timeout) {
		return fmt.Errorf("publish vibe %s: timeout", payload.SessionID)
	}
	return token.Error()
}
