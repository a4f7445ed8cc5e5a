package llm

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"gyarumi/internal/domain"
)

type ClaudeProvider struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

func NewClaudeProvider(client *http.Client, baseURL, apiKey string) *ClaudeProvider {
	return &ClaudeProvider{client: client, baseURL: strings.TrimRight(baseURL, "/"), apiKey: apiKey}
}

type claudeRequest struct {
	Model       string          `json:"model"`
	System      string          `json:"system,omitempty"`
	MaxTokens   int             `json:"max_tokens"`
	Temperature float32         `json:"temperature,omitempty"`
	Messages    []claudeMessage `json:"messages"`
}

type claudeMessage struct {
	Role    string        `json:"role"`
	Content []claudeBlock `json:"content"`
}

type claudeBlock struct {
	Type   string             `json:"type"`
	Text   string             `json:"text,omitempty"`
	Source *claudeImageSource `json:"source,omitempty"`
}

type claudeImageSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type claudeResponse struct {
	Content []claudeBlock `json:"content"`
	Error   *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (p *ClaudeProvider) Complete(ctx context.Context, req domain.LLMRequest) (domain.LLMResponse, error) {
	if p.apiKey == "" {
		return domain.LLMResponse{}, fmt.Errorf("claude: %w", ErrNoAPIKey)
	}
	payload := claudeRequest{
		Model:       req.Model,
		System:      req.System,
		MaxTokens:   1024,
		Temperature: req.Temperature,
		Messages:    make([]claudeMessage, 0, len(req.Messages)),
	}
	lastUser := -1
	for _, m := range req.Messages {
		if strings.TrimSpace(m.Content) == "" {
			continue
		}
		role := "user"
		if m.Role == "assistant" || m.Role == "model" {
			role = "assistant"
		} else {
			lastUser = len(payload.Messages)
		}
		payload.Messages = append(payload.Messages, claudeMessage{
			Role:    role,
			Content: []claudeBlock{{Type: "text", Text: m.Content}},
		})
	}
	if req.Image != nil && len(req.Image.Data) > 0 {
		mime := req.Image.MIMEType
		if mime == "" {
			mime = "image/jpeg"
		}
		img := claudeBlock{Type: "image", Source: &claudeImageSource{
			Type:      "base64",
			MediaType: mime,
			Data:      base64.StdEncoding.EncodeToString(req.Image.Data),
		}}
		if lastUser >= 0 {
			blocks := payload.Messages[lastUser].Content
			payload.Messages[lastUser].Content = append([]claudeBlock{img}, blocks...)
		} else {
			payload.Messages = append(payload.Messages, claudeMessage{Role: "user", Content: []claudeBlock{img}})
		}
	}

	buf, err := json.Marshal(payload)
	if err != nil {
		return domain.LLMResponse{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/messages", bytes.NewReader(buf))
	if err != nil {
		return domain.LLMResponse{}, err
	}
	httpReq.Header.Set("x-api-key", p.apiKey)
	httpReq.Header.Set("anthropic-version", "2023-06-01")
	httpReq.Header.Set("content-type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return domain.LLMResponse{}, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 300 {
		return domain.LLMResponse{}, fmt.Errorf("claude status %d: %s", resp.StatusCode, string(body))
	}

	var parsed claudeResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return domain.LLMResponse{}, err
	}
	if parsed.Error != nil {
		return domain.LLMResponse{}, fmt.Errorf("claude error: %s", parsed.Error.Message)
	}

	texts := make([]string, 0, len(parsed.Content))
	for _, block := range parsed.Content {
		if block.Type == "text" && block.Text != "" {
			texts = append(texts, block.Text)
		}
	}
	out := strings.TrimSpace(strings.Join(texts, "\n"))
	if out == "" {
		return domain.LLMResponse{}, ErrEmptyResponse
	}
	return domain.LLMResponse{Content: out}, nil
}
