package session

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"gyarumi/internal/db"
	"gyarumi/internal/domain"
)

type fakeStore struct {
	sessions map[string]domain.SessionSnapshot
	messages map[string][]domain.Message
	loadErr  error
	cutoff   time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{sessions: map[string]domain.SessionSnapshot{}, messages: map[string][]domain.Message{}}
}

func (f *fakeStore) LoadSession(_ context.Context, id string) (domain.SessionSnapshot, error) {
	if f.loadErr != nil {
		return domain.SessionSnapshot{}, f.loadErr
	}
	snap, ok := f.sessions[id]
	if !ok {
		return domain.SessionSnapshot{}, db.ErrSessionNotFound
	}
	return snap, nil
}

func (f *fakeStore) SaveSession(_ context.Context, snap domain.SessionSnapshot, _ string) error {
	f.sessions[snap.SessionID] = snap
	return nil
}

func (f *fakeStore) SaveMessage(_ context.Context, id, role, content string) error {
	f.messages[id] = append(f.messages[id], domain.Message{Role: role, Content: content})
	return nil
}

func (f *fakeStore) RecentMessages(_ context.Context, id string, limit int) ([]domain.Message, error) {
	msgs := f.messages[id]
	if len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	return msgs, nil
}

func (f *fakeStore) DeleteIdleSessions(_ context.Context, before time.Time) (int64, error) {
	f.cutoff = before
	var n int64
	for id, snap := range f.sessions {
		if snap.UpdatedAt.Before(before) {
			delete(f.sessions, id)
			n++
		}
	}
	return n, nil
}

func TestLoadUnknownSession(t *testing.T) {
	svc := NewService(newFakeStore(), "v1", 10, nil)
	_, found, err := svc.Load(context.Background(), "sess_missing")
	if err != nil || found {
		t.Fatalf("found=%v err=%v, want not found", found, err)
	}
}

func TestLoadWrapsStoreErrors(t *testing.T) {
	store := newFakeStore()
	store.loadErr = errors.New("connection reset")
	svc := NewService(store, "v1", 10, nil)
	if _, _, err := svc.Load(context.Background(), "sess_x"); err == nil || !strings.Contains(err.Error(), "connection reset") {
		t.Fatalf("err=%v, want wrapped store error", err)
	}
}

func TestSaveLoadAndHistory(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, "v1", 2, nil)
	ctx := context.Background()

	snap := domain.SessionSnapshot{SessionID: "sess_a", Profile: domain.DefaultUserProfile(), State: domain.MoodState{Continuity: 3}}
	if err := svc.Save(ctx, snap); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := svc.AppendTurn(ctx, "sess_a", "やほー", "うぇーい"); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := svc.AppendTurn(ctx, "sess_a", "まじ？", ""); err != nil {
		t.Fatalf("append: %v", err)
	}

	got, found, err := svc.Load(ctx, "sess_a")
	if err != nil || !found || got.State.Continuity != 3 {
		t.Fatalf("got=%+v found=%v err=%v", got, found, err)
	}
	hist, err := svc.History(ctx, "sess_a")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(hist) != 2 || hist[0].Content != "うぇーい" || hist[1].Content != "まじ？" {
		t.Fatalf("history=%+v, want last two turns", hist)
	}
}

func TestDisabledServiceIsNoop(t *testing.T) {
	svc := NewService(nil, "v1", 10, nil)
	ctx := context.Background()
	if svc.Enabled() {
		t.Fatalf("service without store should be disabled")
	}
	if _, found, err := svc.Load(ctx, "sess_a"); found || err != nil {
		t.Fatalf("found=%v err=%v", found, err)
	}
	if err := svc.Save(ctx, domain.SessionSnapshot{SessionID: "sess_a"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if n, err := svc.Sweep(ctx, time.Now(), time.Hour); n != 0 || err != nil {
		t.Fatalf("sweep n=%d err=%v", n, err)
	}
}

func TestSweepUsesTTL(t *testing.T) {
	store := newFakeStore()
	now := time.Date(2025, 10, 15, 3, 0, 0, 0, time.UTC)
	store.sessions["old"] = domain.SessionSnapshot{SessionID: "old", UpdatedAt: now.Add(-48 * time.Hour)}
	store.sessions["new"] = domain.SessionSnapshot{SessionID: "new", UpdatedAt: now.Add(-time.Hour)}

	svc := NewService(store, "v1", 10, nil)
	n, err := svc.Sweep(context.Background(), now, 24*time.Hour)
	if err != nil || n != 1 {
		t.Fatalf("n=%d err=%v, want 1", n, err)
	}
	if !store.cutoff.Equal(now.Add(-24 * time.Hour)) {
		t.Fatalf("cutoff=%s", store.cutoff)
	}
	if _, ok := store.sessions["new"]; !ok {
		t.Fatalf("fresh session was swept")
	}
}

func TestNewSessionID(t *testing.T) {
	a, b := NewSessionID(), NewSessionID()
	if a == b || !strings.HasPrefix(a, "sess_") || len(a) != len("sess_")+32 {
		t.Fatalf("unexpected ids %q %q", a, b)
	}
}
