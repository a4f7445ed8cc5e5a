package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"gyarumi/internal/domain"
)

var ErrSessionNotFound = errors.New("session not found")

type Store struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) Migrate(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS chat_sessions (
			session_id TEXT PRIMARY KEY,
			user_profile JSONB NOT NULL DEFAULT '{}'::jsonb,
			mood_state JSONB NOT NULL DEFAULT '{}'::jsonb,
			model_version TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE INDEX IF NOT EXISTS idx_chat_sessions_updated ON chat_sessions(updated_at);`,
		`CREATE TABLE IF NOT EXISTS chat_messages (
			id BIGSERIAL PRIMARY KEY,
			session_id TEXT NOT NULL REFERENCES chat_sessions(session_id) ON DELETE CASCADE,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE INDEX IF NOT EXISTS idx_chat_messages_session_created ON chat_messages(session_id, created_at);`,
	}

	for _, q := range queries {
		if _, err := s.pool.Exec(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) LoadSession(ctx context.Context, sessionID string) (domain.SessionSnapshot, error) {
	var (
		profileRaw []byte
		stateRaw   []byte
		out        = domain.SessionSnapshot{SessionID: sessionID}
	)
	err := s.pool.QueryRow(ctx, `
		SELECT user_profile, mood_state, updated_at
		FROM chat_sessions
		WHERE session_id=$1
	`, sessionID).Scan(&profileRaw, &stateRaw, &out.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.SessionSnapshot{}, ErrSessionNotFound
	}
	if err != nil {
		return domain.SessionSnapshot{}, err
	}
	if err := json.Unmarshal(profileRaw, &out.Profile); err != nil {
		return domain.SessionSnapshot{}, fmt.Errorf("decode user_profile: %w", err)
	}
	if err := json.Unmarshal(stateRaw, &out.State); err != nil {
		return domain.SessionSnapshot{}, fmt.Errorf("decode mood_state: %w", err)
	}
	return out, nil
}

func (s *Store) SaveSession(ctx context.Context, snap domain.SessionSnapshot, modelVersion string) error {
	profileJSON, err := json.Marshal(snap.Profile)
	if err != nil {
		return err
	}
	stateJSON, err := json.Marshal(snap.State)
	if err != nil {
		return err
	}
	updatedAt := snap.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO chat_sessions(session_id, user_profile, mood_state, model_version, updated_at)
		VALUES ($1, $2::jsonb, $3::jsonb, $4, $5)
		ON CONFLICT (session_id)
		DO UPDATE SET user_profile=EXCLUDED.user_profile,
			mood_state=EXCLUDED.mood_state,
			model_version=EXCLUDED.model_version,
			updated_at=EXCLUDED.updated_at;
	`, snap.SessionID, string(profileJSON), string(stateJSON), modelVersion, updatedAt)
	return err
}

func (s *Store) SaveMessage(ctx context.Context, sessionID, role, content string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO chat_messages(session_id, role, content)
		VALUES ($1, $2, $3)
	`, sessionID, role, content)
	return err
}

func (s *Store) RecentMessages(ctx context.Context, sessionID string, limit int) ([]domain.Message, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT role, content
		FROM (
			SELECT role, content, id
			FROM chat_messages
			WHERE session_id=$1
			ORDER BY id DESC
			LIMIT $2
		) t
		ORDER BY id ASC
	`, sessionID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	msgs := make([]domain.Message, 0, limit)
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.Role, &m.Content); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return msgs, nil
}

// DeleteIdleSessions removes sessions untouched since before; messages go
// with them through the cascade.
func (s *Store) DeleteIdleSessions(ctx context.Context, before time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM chat_sessions WHERE updated_at < $1`, before)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
