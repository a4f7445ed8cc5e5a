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

type OpenAIProvider struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

func NewOpenAIProvider(client *http.Client, baseURL, apiKey string) *OpenAIProvider {
	return &OpenAIProvider{client: client, baseURL: strings.TrimRight(baseURL, "/"), apiKey: apiKey}
}

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	Temperature float32         `json:"temperature,omitempty"`
}

// Content is either a plain string or a list of typed parts.
type openAIMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type openAIPart struct {
	Type     string          `json:"type"`
	Text     string          `json:"text,omitempty"`
	ImageURL *openAIImageURL `json:"image_url,omitempty"`
}

type openAIImageURL struct {
	URL string `json:"url"`
}

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (p *OpenAIProvider) Complete(ctx context.Context, req domain.LLMRequest) (domain.LLMResponse, error) {
	if p.apiKey == "" {
		return domain.LLMResponse{}, fmt.Errorf("openai: %w", ErrNoAPIKey)
	}
	payload := openAIRequest{
		Model:       req.Model,
		Messages:    make([]openAIMessage, 0, len(req.Messages)+1),
		Temperature: req.Temperature,
	}
	if req.System != "" {
		payload.Messages = append(payload.Messages, openAIMessage{Role: "system", Content: req.System})
	}
	lastUser := -1
	for _, m := range req.Messages {
		role := m.Role
		if role == "model" {
			role = "assistant"
		}
		if role != "assistant" {
			role = "user"
			lastUser = len(payload.Messages)
		}
		payload.Messages = append(payload.Messages, openAIMessage{Role: role, Content: m.Content})
	}
	if req.Image != nil && len(req.Image.Data) > 0 {
		img := openAIPart{Type: "image_url", ImageURL: &openAIImageURL{URL: dataURL(req.Image)}}
		if lastUser >= 0 {
			text, _ := payload.Messages[lastUser].Content.(string)
			payload.Messages[lastUser].Content = []openAIPart{{Type: "text", Text: text}, img}
		} else {
			payload.Messages = append(payload.Messages, openAIMessage{Role: "user", Content: []openAIPart{img}})
		}
	}

	buf, err := json.Marshal(payload)
	if err != nil {
		return domain.LLMResponse{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(buf))
	if err != nil {
		return domain.LLMResponse{}, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return domain.LLMResponse{}, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 300 {
		return domain.LLMResponse{}, fmt.Errorf("openai status %d: %s", resp.StatusCode, string(body))
	}

	var parsed openAIResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return domain.LLMResponse{}, err
	}
	if parsed.Error != nil {
		return domain.LLMResponse{}, fmt.Errorf("openai error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 || strings.TrimSpace(parsed.Choices[0].Message.Content) == "" {
		return domain.LLMResponse{}, ErrEmptyResponse
	}
	return domain.LLMResponse{Content: strings.TrimSpace(parsed.Choices[0].Message.Content)}, nil
}

func dataURL(img *domain.ImageAttachment) string {
	mime := img.MIMEType
	if mime == "" {
		mime = "image/jpeg"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
}
