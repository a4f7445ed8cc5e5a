package orchestrator

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"gyarumi/internal/domain"
	"gyarumi/internal/llm"
	"gyarumi/internal/mood"
	"gyarumi/internal/search"
	"gyarumi/internal/session"
)

var ErrEmptyMessage = errors.New("message or image is required")

const fallbackReply = "ごめん... ぎゃるみ、言葉が出てこなかったよ...🥹"

// Degradation markers reported back to the caller.
const (
	degradedLLM    = "llm"
	degradedSearch = "search"
	degradedImage  = "image"
)

type Searcher interface {
	Search(ctx context.Context, query string) ([]domain.SearchResult, error)
}

type Publisher interface {
	PublishVibe(ctx context.Context, payload domain.VibeUpdatePayload) error
}

type Config struct {
	LLMModel         string
	Temperature      float32
	PhotoProbability float64
	SessionTTL       time.Duration
}

type Service struct {
	cfg         Config
	engine      *mood.Engine
	llmProvider llm.Provider
	imageGen    llm.ImageGenerator
	searcher    Searcher
	sessions    *session.Service
	publisher   Publisher
	logger      *slog.Logger

	now  func() time.Time
	roll func() float64
}

// New wires the chat pipeline. imageGen, searcher, sessions and publisher
// are optional and may be nil.
func New(cfg Config, engine *mood.Engine, llmProvider llm.Provider, imageGen llm.ImageGenerator, searcher Searcher, sessions *session.Service, publisher Publisher, logger *slog.Logger) *Service {
	if cfg.Temperature <= 0 {
		cfg.Temperature = 0.8
	}
	if cfg.PhotoProbability < 0 {
		cfg.PhotoProbability = 0
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		cfg:         cfg,
		engine:      engine,
		llmProvider: llmProvider,
		imageGen:    imageGen,
		searcher:    searcher,
		sessions:    sessions,
		publisher:   publisher,
		logger:      logger,
		now:         time.Now,
		roll:        rand.Float64,
	}
}

func (s *Service) Engine() *mood.Engine {
	return s.engine
}

func (s *Service) HandleChat(ctx context.Context, req domain.ChatRequest) (domain.ChatResponse, error) {
	chatStart := time.Now()
	now := s.now().UTC()

	message := strings.TrimSpace(req.Message)
	if message == "" && req.Image == nil {
		return domain.ChatResponse{}, ErrEmptyMessage
	}
	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = session.NewSessionID()
	}

	profile, prior := s.resolveState(ctx, sessionID, req)
	history := req.History
	if len(history) == 0 {
		stored, err := s.sessions.History(ctx, sessionID)
		if err != nil {
			s.logger.Warn("load session history failed", "session_id", sessionID, "error", err)
		} else {
			history = stored
		}
	}

	result := s.engine.Update(profile, prior, mood.UpdateInput{
		Now:       now,
		Message:   message,
		HasImage:  req.Image != nil,
		IsDrawing: req.IsDrawing,
	})
	flags := result.Flags

	var (
		reply    string
		image    *domain.ImageAttachment
		results  []domain.SearchResult
		degraded []string
		llmDur   time.Duration
	)
	if result.Hint.Final {
		reply = result.Hint.Phrase
	} else {
		results, degraded = s.lookup(ctx, sessionID, message, flags, now)

		photo := s.wantsPhoto(flags, result.MoodStyle)
		var (
			g      errgroup.Group
			llmErr error
			imgErr error
		)
		g.Go(func() error {
			llmStart := time.Now()
			resp, err := s.llmProvider.Complete(ctx, domain.LLMRequest{
				Model: s.cfg.LLMModel,
				System: buildSystemPrompt(promptInput{
					Profile:      result.Profile,
					State:        result.State,
					MoodStyle:    result.MoodStyle,
					Hint:         result.Hint,
					Flags:        flags,
					Results:      results,
					Now:          now,
					PhotoPlanned: photo,
				}),
				Messages:    appendUserTurn(history, message),
				Image:       req.Image,
				Temperature: s.cfg.Temperature,
			})
			llmDur = time.Since(llmStart)
			if err != nil {
				llmErr = err
				return nil
			}
			reply = strings.TrimSpace(resp.Content)
			return nil
		})
		if photo {
			g.Go(func() error {
				img, err := s.imageGen.Generate(ctx, domain.ImageRequest{
					Prompt:    buildPhotoPrompt(message, flags, result.MoodStyle, now),
					Reference: req.Image,
				})
				if err != nil {
					imgErr = err
					return nil
				}
				image = img
				return nil
			})
		}
		_ = g.Wait()

		if llmErr != nil {
			s.logger.Warn("llm completion failed, using fallback reply", "session_id", sessionID, "error", llmErr)
			degraded = append(degraded, degradedLLM)
		}
		if imgErr != nil {
			s.logger.Warn("image generation failed", "session_id", sessionID, "error", imgErr)
			degraded = append(degraded, degradedImage)
		}
		if reply == "" {
			reply = fallbackReply
		}
	}

	state := result.State
	state.Side = updateSideMemory(state.Side, sideMemoryUpdate{
		Now:        now,
		Message:    message,
		Flags:      flags,
		Results:    results,
		Reply:      reply,
		ReplyFresh: !result.Hint.Final && reply != fallbackReply,
		Image:      image,
	})

	resp := domain.ChatResponse{
		SessionID:       sessionID,
		Reply:           reply,
		Image:           image,
		UserProfile:     result.Profile,
		State:           state,
		MoodStyle:       result.MoodStyle,
		DominantEmotion: result.Dominant.String(),
		Promotion:       string(result.Promotion),
		Flags:           flags,
		Degraded:        degraded,
	}

	s.persist(ctx, now, message, resp)
	s.publish(ctx, now, resp)

	if result.Promotion != mood.PromotionNone {
		s.logger.Info("relationship promoted", "session_id", sessionID, "promotion", string(result.Promotion), "affinity", result.Profile.AffinityPoints)
	}
	s.logger.Info("chat timing",
		"session_id", sessionID,
		"final_hint", result.Hint.Final,
		"mood_style", result.MoodStyle,
		"search_hits", len(results),
		"photo", image != nil,
		"llm_ms", llmDur.Milliseconds(),
		"total_ms", time.Since(chatStart).Milliseconds(),
	)
	return resp, nil
}

// resolveState picks the prior profile and state. Request-supplied values
// win over the stored snapshot; a missing value starts fresh.
func (s *Service) resolveState(ctx context.Context, sessionID string, req domain.ChatRequest) (domain.UserProfile, domain.MoodState) {
	if req.UserProfile != nil && req.State != nil {
		return *req.UserProfile, *req.State
	}
	profile := domain.DefaultUserProfile()
	var state domain.MoodState

	snap, found, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		s.logger.Warn("load session failed, starting fresh", "session_id", sessionID, "error", err)
	}
	if found {
		profile, state = snap.Profile, snap.State
	}
	if req.UserProfile != nil {
		profile = *req.UserProfile
	}
	if req.State != nil {
		state = *req.State
	}
	return profile, state
}

func (s *Service) lookup(ctx context.Context, sessionID, message string, flags domain.IntentFlags, now time.Time) ([]domain.SearchResult, []string) {
	if s.searcher == nil {
		return nil, nil
	}
	query := search.BuildQuery(message, flags, now)
	if query == "" {
		return nil, nil
	}
	results, err := s.searcher.Search(ctx, query)
	if err != nil {
		s.logger.Warn("web search failed", "session_id", sessionID, "query", query, "error", err)
		return nil, []string{degradedSearch}
	}
	return results, nil
}

func (s *Service) wantsPhoto(flags domain.IntentFlags, moodStyle string) bool {
	if s.imageGen == nil {
		return false
	}
	if flags.RequestingPhoto {
		return true
	}
	return flags.AskingDailyLife && moodStyle == mood.StyleHigh && s.roll() < s.cfg.PhotoProbability
}

func appendUserTurn(history []domain.Message, message string) []domain.Message {
	if message == "" {
		message = "（画像を送信）"
	}
	out := make([]domain.Message, 0, len(history)+1)
	for _, m := range history {
		if strings.TrimSpace(m.Content) == "" {
			continue
		}
		out = append(out, m)
	}
	return append(out, domain.Message{Role: "user", Content: message})
}

func (s *Service) persist(ctx context.Context, now time.Time, message string, resp domain.ChatResponse) {
	if !s.sessions.Enabled() {
		return
	}
	snap := domain.SessionSnapshot{
		SessionID: resp.SessionID,
		Profile:   resp.UserProfile,
		State:     resp.State,
		UpdatedAt: now,
	}
	if err := s.sessions.Save(ctx, snap); err != nil {
		s.logger.Warn("persist session failed", "session_id", resp.SessionID, "error", err)
		return
	}
	if err := s.sessions.AppendTurn(ctx, resp.SessionID, message, resp.Reply); err != nil {
		s.logger.Warn("persist chat turn failed", "session_id", resp.SessionID, "error", err)
	}
}

func (s *Service) publish(ctx context.Context, now time.Time, resp domain.ChatResponse) {
	if s.publisher == nil {
		return
	}
	payload := domain.VibeUpdatePayload{
		SessionID:       resp.SessionID,
		Relationship:    resp.UserProfile.Relationship,
		MoodScore:       resp.State.MoodScore,
		VibeScore:       resp.State.VibeScore,
		Continuity:      resp.State.Continuity,
		MoodStyle:       resp.MoodStyle,
		DominantEmotion: resp.DominantEmotion,
		EmotionalVector: resp.State.EmotionalVector,
		Promotion:       resp.Promotion,
		TS:              now.Format(time.RFC3339Nano),
	}
	if err := s.publisher.PublishVibe(ctx, payload); err != nil {
		s.logger.Warn("publish vibe update failed", "session_id", resp.SessionID, "error", err)
	}
}
