package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"gyarumi/internal/db"
	"gyarumi/internal/domain"
)

type Store interface {
	LoadSession(ctx context.Context, sessionID string) (domain.SessionSnapshot, error)
	SaveSession(ctx context.Context, snap domain.SessionSnapshot, modelVersion string) error
	SaveMessage(ctx context.Context, sessionID, role, content string) error
	RecentMessages(ctx context.Context, sessionID string, limit int) ([]domain.Message, error)
	DeleteIdleSessions(ctx context.Context, before time.Time) (int64, error)
}

// Service is the optional server-side session memory. A nil store turns
// every call into a no-op so the server stays client-stateful.
type Service struct {
	store        Store
	modelVersion string
	historyLimit int
	log          *slog.Logger
}

func NewService(store Store, modelVersion string, historyLimit int, logger *slog.Logger) *Service {
	if historyLimit <= 0 {
		historyLimit = 20
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, modelVersion: modelVersion, historyLimit: historyLimit, log: logger}
}

func (s *Service) Enabled() bool {
	return s != nil && s.store != nil
}

func NewSessionID() string {
	return "sess_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Load returns the stored snapshot. found is false for unknown sessions and
// when no store is configured.
func (s *Service) Load(ctx context.Context, sessionID string) (snap domain.SessionSnapshot, found bool, err error) {
	if !s.Enabled() || strings.TrimSpace(sessionID) == "" {
		return domain.SessionSnapshot{}, false, nil
	}
	snap, err = s.store.LoadSession(ctx, sessionID)
	if errors.Is(err, db.ErrSessionNotFound) {
		return domain.SessionSnapshot{}, false, nil
	}
	if err != nil {
		return domain.SessionSnapshot{}, false, fmt.Errorf("load session %s: %w", sessionID, err)
	}
	return snap, true, nil
}

func (s *Service) Save(ctx context.Context, snap domain.SessionSnapshot) error {
	if !s.Enabled() {
		return nil
	}
	if err := s.store.SaveSession(ctx, snap, s.modelVersion); err != nil {
		return fmt.Errorf("save session %s: %w", snap.SessionID, err)
	}
	return nil
}

// AppendTurn stores the user message and the reply. Must run after Save so
// the session row exists.
func (s *Service) AppendTurn(ctx context.Context, sessionID, userMessage, reply string) error {
	if !s.Enabled() {
		return nil
	}
	if strings.TrimSpace(userMessage) != "" {
		if err := s.store.SaveMessage(ctx, sessionID, "user", userMessage); err != nil {
			return fmt.Errorf("save user message: %w", err)
		}
	}
	if strings.TrimSpace(reply) != "" {
		if err := s.store.SaveMessage(ctx, sessionID, "assistant", reply); err != nil {
			return fmt.Errorf("save assistant message: %w", err)
		}
	}
	return nil
}

func (s *Service) History(ctx context.Context, sessionID string) ([]domain.Message, error) {
	if !s.Enabled() || strings.TrimSpace(sessionID) == "" {
		return nil, nil
	}
	return s.store.RecentMessages(ctx, sessionID, s.historyLimit)
}

// Sweep deletes sessions idle for longer than ttl.
func (s *Service) Sweep(ctx context.Context, now time.Time, ttl time.Duration) (int64, error) {
	if !s.Enabled() || ttl <= 0 {
		return 0, nil
	}
	n, err := s.store.DeleteIdleSessions(ctx, now.Add(-ttl))
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.log.Info("idle sessions swept", "count", n, "ttl", ttl.String())
	}
	return n, nil
}
