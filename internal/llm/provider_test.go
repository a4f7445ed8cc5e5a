package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"google.golang.org/genai"

	"gyarumi/internal/domain"
)

func TestKeyPoolRotates(t *testing.T) {
	pool := NewKeyPool(" a, b ,,a, c ")
	if pool.Len() != 3 {
		t.Fatalf("len=%d, want 3", pool.Len())
	}
	var got []string
	for i := 0; i < 4; i++ {
		k, err := pool.Next()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got = append(got, k)
	}
	if strings.Join(got, ",") != "a,b,c,a" {
		t.Fatalf("rotation=%v, want a,b,c,a", got)
	}
}

func TestKeyPoolEmpty(t *testing.T) {
	if _, err := NewKeyPool(" , ").Next(); !errors.Is(err, ErrNoAPIKey) {
		t.Fatalf("err=%v, want ErrNoAPIKey", err)
	}
	var nilPool *KeyPool
	if nilPool.Len() != 0 {
		t.Fatalf("nil pool should be empty")
	}
}

func TestNewProviderRejectsUnknown(t *testing.T) {
	if _, err := NewProvider(context.Background(), Config{Provider: "palm"}, nil); err == nil {
		t.Fatalf("expected error for unknown provider")
	}
	if _, err := NewProvider(context.Background(), Config{Provider: "gemini"}, nil); !errors.Is(err, ErrNoAPIKey) {
		t.Fatalf("err=%v, want ErrNoAPIKey", err)
	}
}

func TestNewImageGeneratorDisabledWithoutKey(t *testing.T) {
	gen, err := NewImageGenerator(context.Background(), Config{ImageModel: DefaultGeminiImageModel}, nil)
	if err != nil || gen != nil {
		t.Fatalf("gen=%v err=%v, want disabled", gen, err)
	}
}

func TestGeminiContentsAttachesImageToLastUserTurn(t *testing.T) {
	img := &domain.ImageAttachment{MIMEType: "image/png", Data: []byte{1, 2, 3}}
	contents := geminiContents([]domain.Message{
		{Role: "user", Content: "やほー"},
		{Role: "assistant", Content: "うぇーい"},
		{Role: "user", Content: "これ見て"},
		{Role: "assistant", Content: ""},
	}, img)
	if len(contents) != 3 {
		t.Fatalf("contents=%d, want 3", len(contents))
	}
	if contents[1].Role != string(genai.RoleModel) {
		t.Fatalf("second turn role=%s, want model", contents[1].Role)
	}
	last := contents[2]
	if len(last.Parts) != 2 || last.Parts[1].InlineData == nil || last.Parts[1].InlineData.MIMEType != "image/png" {
		t.Fatalf("image not attached to last user turn: %+v", last.Parts)
	}
}

func TestOpenAIProviderSendsImagePart(t *testing.T) {
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path=%s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			t.Errorf("missing bearer token")
		}
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &captured)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":" まじ？ "}}]}`))
	}))
	defer srv.Close()

	p := NewOpenAIProvider(srv.Client(), srv.URL, "sk-test")
	out, err := p.Complete(context.Background(), domain.LLMRequest{
		Model:    "gpt-4o-mini",
		System:   "persona",
		Messages: []domain.Message{{Role: "user", Content: "見て"}},
		Image:    &domain.ImageAttachment{MIMEType: "image/png", Data: []byte("png")},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Content != "まじ？" {
		t.Fatalf("content=%q", out.Content)
	}
	msgs, _ := captured["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("messages=%d, want 2", len(msgs))
	}
	user, _ := msgs[1].(map[string]any)
	parts, ok := user["content"].([]any)
	if !ok || len(parts) != 2 {
		t.Fatalf("user content should be text+image parts, got %#v", user["content"])
	}
}

func TestOpenAIProviderStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	p := NewOpenAIProvider(srv.Client(), srv.URL, "sk-test")
	_, err := p.Complete(context.Background(), domain.LLMRequest{Messages: []domain.Message{{Role: "user", Content: "hi"}}})
	if err == nil || !strings.Contains(err.Error(), "429") {
		t.Fatalf("err=%v, want status error", err)
	}
}

func TestClaudeProviderJoinsTextBlocks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("path=%s", r.URL.Path)
		}
		var req claudeRequest
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &req); err != nil {
			t.Errorf("bad body: %v", err)
		}
		if len(req.Messages) != 1 || req.Messages[0].Content[0].Type != "image" {
			t.Errorf("image block should lead the user turn: %+v", req.Messages)
		}
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"それな"},{"type":"text","text":"わかる"}]}`))
	}))
	defer srv.Close()

	p := NewClaudeProvider(srv.Client(), srv.URL, "key")
	out, err := p.Complete(context.Background(), domain.LLMRequest{
		Messages: []domain.Message{{Role: "user", Content: "見て"}},
		Image:    &domain.ImageAttachment{MIMEType: "image/jpeg", Data: []byte("jpg")},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Content != "それな\nわかる" {
		t.Fatalf("content=%q", out.Content)
	}
}

func TestProvidersRequireKey(t *testing.T) {
	req := domain.LLMRequest{Messages: []domain.Message{{Role: "user", Content: "hi"}}}
	if _, err := NewOpenAIProvider(http.DefaultClient, "http://unused", "").Complete(context.Background(), req); !errors.Is(err, ErrNoAPIKey) {
		t.Fatalf("openai err=%v", err)
	}
	if _, err := NewClaudeProvider(http.DefaultClient, "http://unused", "").Complete(context.Background(), req); !errors.Is(err, ErrNoAPIKey) {
		t.Fatalf("claude err=%v", err)
	}
}
