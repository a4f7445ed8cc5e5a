package llm

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"gyarumi/internal/domain"
)

const (
	DefaultGeminiModel      = "gemini-2.5-flash"
	DefaultGeminiImageModel = "gemini-2.5-flash-image-preview"
	DefaultTemperature      = float32(0.8)
)

// The persona is crude on purpose; default filters reject ordinary gal slang.
var safetySettings = []*genai.SafetySetting{
	{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockThresholdBlockOnlyHigh},
	{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockThresholdBlockOnlyHigh},
	{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockThresholdBlockMediumAndAbove},
	{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockThresholdBlockMediumAndAbove},
}

// geminiClients keeps one SDK client per API key; each request picks the
// next key from the pool.
type geminiClients struct {
	pool    *KeyPool
	clients map[string]*genai.Client
}

func newGeminiClients(ctx context.Context, httpClient *http.Client, baseURL string, pool *KeyPool) (*geminiClients, error) {
	if pool.Len() == 0 {
		return nil, fmt.Errorf("gemini: %w", ErrNoAPIKey)
	}
	out := &geminiClients{pool: pool, clients: make(map[string]*genai.Client, pool.Len())}
	for _, key := range pool.Keys() {
		cc := &genai.ClientConfig{
			APIKey:     key,
			Backend:    genai.BackendGeminiAPI,
			HTTPClient: httpClient,
		}
		if base := strings.TrimSpace(baseURL); base != "" {
			cc.HTTPOptions = genai.HTTPOptions{BaseURL: base}
		}
		c, err := genai.NewClient(ctx, cc)
		if err != nil {
			return nil, fmt.Errorf("failed to create genai client: %w", err)
		}
		out.clients[key] = c
	}
	return out, nil
}

func (g *geminiClients) next() (*genai.Client, error) {
	key, err := g.pool.Next()
	if err != nil {
		return nil, err
	}
	return g.clients[key], nil
}

type GeminiProvider struct {
	clients *geminiClients
	log     *slog.Logger
}

func NewGeminiProvider(ctx context.Context, httpClient *http.Client, baseURL string, pool *KeyPool, logger *slog.Logger) (*GeminiProvider, error) {
	clients, err := newGeminiClients(ctx, httpClient, baseURL, pool)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &GeminiProvider{clients: clients, log: logger.With("component", "gemini")}, nil
}

func (p *GeminiProvider) Complete(ctx context.Context, req domain.LLMRequest) (domain.LLMResponse, error) {
	client, err := p.clients.next()
	if err != nil {
		return domain.LLMResponse{}, err
	}
	model := req.Model
	if model == "" {
		model = DefaultGeminiModel
	}
	temperature := req.Temperature
	if temperature <= 0 {
		temperature = DefaultTemperature
	}

	contents := geminiContents(req.Messages, req.Image)
	if len(contents) == 0 {
		return domain.LLMResponse{}, fmt.Errorf("gemini: no messages to send")
	}
	cfg := &genai.GenerateContentConfig{
		Temperature:    &temperature,
		SafetySettings: safetySettings,
	}
	if req.System != "" {
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: req.System}}}
	}

	resp, err := client.Models.GenerateContent(ctx, model, contents, cfg)
	if err != nil {
		return domain.LLMResponse{}, fmt.Errorf("gemini generate content: %w", err)
	}
	if blocked(resp) {
		p.log.Warn("gemini reply blocked", "reason", resp.PromptFeedback.BlockReason)
		return domain.LLMResponse{}, ErrBlocked
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return domain.LLMResponse{}, ErrEmptyResponse
	}
	return domain.LLMResponse{Content: text}, nil
}

// geminiContents maps history onto user/model turns and attaches the image
// to the last user turn.
func geminiContents(msgs []domain.Message, image *domain.ImageAttachment) []*genai.Content {
	contents := make([]*genai.Content, 0, len(msgs))
	lastUser := -1
	for _, m := range msgs {
		if strings.TrimSpace(m.Content) == "" {
			continue
		}
		var role genai.Role = genai.RoleUser
		switch m.Role {
		case "assistant", "model":
			role = genai.RoleModel
		default:
			lastUser = len(contents)
		}
		contents = append(contents, genai.NewContentFromText(m.Content, role))
	}
	if image != nil && len(image.Data) > 0 {
		part := genai.NewPartFromBytes(image.Data, image.MIMEType)
		if lastUser >= 0 {
			contents[lastUser].Parts = append(contents[lastUser].Parts, part)
		} else {
			contents = append(contents, genai.NewContentFromParts([]*genai.Part{part}, genai.RoleUser))
		}
	}
	return contents
}

func blocked(resp *genai.GenerateContentResponse) bool {
	return resp != nil && resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockedReasonUnspecified
}

type GeminiImageGenerator struct {
	clients *geminiClients
	model   string
	log     *slog.Logger
}

func NewGeminiImageGenerator(ctx context.Context, httpClient *http.Client, baseURL string, pool *KeyPool, model string, logger *slog.Logger) (*GeminiImageGenerator, error) {
	clients, err := newGeminiClients(ctx, httpClient, baseURL, pool)
	if err != nil {
		return nil, err
	}
	if model == "" {
		model = DefaultGeminiImageModel
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &GeminiImageGenerator{clients: clients, model: model, log: logger.With("component", "gemini_image")}, nil
}

func (g *GeminiImageGenerator) Generate(ctx context.Context, req domain.ImageRequest) (*domain.ImageAttachment, error) {
	client, err := g.clients.next()
	if err != nil {
		return nil, err
	}
	parts := []*genai.Part{genai.NewPartFromText(req.Prompt)}
	if req.Reference != nil && len(req.Reference.Data) > 0 {
		parts = append(parts, genai.NewPartFromBytes(req.Reference.Data, req.Reference.MIMEType))
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{"TEXT", "IMAGE"},
		SafetySettings:     safetySettings,
	}

	resp, err := client.Models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini generate image: %w", err)
	}
	if blocked(resp) {
		g.log.Warn("gemini image blocked", "reason", resp.PromptFeedback.BlockReason)
		return nil, nil
	}
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return &domain.ImageAttachment{MIMEType: part.InlineData.MIMEType, Data: part.InlineData.Data}, nil
			}
		}
	}
	g.log.Info("gemini image response had no inline data")
	return nil, nil
}
