package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"gyarumi/internal/domain"
	"gyarumi/internal/emotion"
	"gyarumi/internal/intent"
	"gyarumi/internal/mood"
	"gyarumi/internal/orchestrator"
)

const defaultMaxBodyBytes = 8 << 20

type Chatter interface {
	HandleChat(ctx context.Context, req domain.ChatRequest) (domain.ChatResponse, error)
}

type Options struct {
	// Chat is optional; without it /v1/chat is not mounted.
	Chat         Chatter
	Engine       *mood.Engine
	MaxBodyBytes int64
	RateLimit    float64
	RateBurst    int
	CORSOrigin   string
	Logger       *slog.Logger
}

type moodUpdateRequest struct {
	UserProfile *domain.UserProfile `json:"user_profile"`
	State       *domain.MoodState   `json:"state"`
	Message     string              `json:"message"`
	HasImage    bool                `json:"has_image"`
	IsDrawing   bool                `json:"is_drawing"`
	Now         string              `json:"now,omitempty"`
}

type moodUpdateResponse struct {
	UserProfile     domain.UserProfile `json:"user_profile"`
	State           domain.MoodState   `json:"state"`
	Delta           float64            `json:"delta"`
	Promotion       string             `json:"promotion,omitempty"`
	MoodStyle       string             `json:"mood_style"`
	DominantEmotion string             `json:"dominant_emotion"`
	Hint            mood.Hint          `json:"hint"`
	ClassifierFlags domain.IntentFlags `json:"classifier_flags"`
	ModelVersion    string             `json:"model_version"`
	MemoryModel     string             `json:"memory_model"`
}

type classifyRequest struct {
	Text string `json:"text"`
}

func NewRouter(opts Options) http.Handler {
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaultMaxBodyBytes
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Engine == nil {
		opts.Engine = mood.NewEngine(mood.DefaultConfig())
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors(opts.CORSOrigin))
	if opts.RateLimit > 0 {
		r.Use(newIPLimiter(opts.RateLimit, opts.RateBurst).middleware)
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":            true,
			"model_version": mood.ModelVersion,
			"memory_model":  opts.Engine.Config().MemoryModel,
			"lexicon":       emotion.Engine,
			"chat":          opts.Chat != nil,
		})
	})

	if opts.Chat != nil {
		r.Post("/v1/chat", func(w http.ResponseWriter, req *http.Request) {
			var in domain.ChatRequest
			if err := decodeJSONBody(req, opts.MaxBodyBytes, false, &in); err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			out, err := opts.Chat.HandleChat(req.Context(), in)
			if err != nil {
				if errors.Is(err, orchestrator.ErrEmptyMessage) {
					writeError(w, http.StatusBadRequest, err.Error())
					return
				}
				opts.Logger.Error("chat failed", "request_id", middleware.GetReqID(req.Context()), "error", err)
				writeError(w, http.StatusInternalServerError, "internal error")
				return
			}
			writeJSON(w, http.StatusOK, out)
		})
	}

	r.Post("/v1/mood/update", func(w http.ResponseWriter, req *http.Request) {
		var in moodUpdateRequest
		if err := decodeJSONBody(req, opts.MaxBodyBytes, true, &in); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		now := time.Now().UTC()
		if raw := strings.TrimSpace(in.Now); raw != "" {
			t, err := time.Parse(time.RFC3339Nano, raw)
			if err != nil {
				writeError(w, http.StatusBadRequest, "now must be an RFC3339 timestamp")
				return
			}
			now = t
		}
		profile := domain.DefaultUserProfile()
		if in.UserProfile != nil {
			profile = *in.UserProfile
		}
		var state domain.MoodState
		if in.State != nil {
			state = *in.State
		}

		res := opts.Engine.Update(profile, state, mood.UpdateInput{
			Now:       now,
			Message:   in.Message,
			HasImage:  in.HasImage,
			IsDrawing: in.IsDrawing,
		})
		writeJSON(w, http.StatusOK, moodUpdateResponse{
			UserProfile:     res.Profile,
			State:           res.State,
			Delta:           res.Delta,
			Promotion:       string(res.Promotion),
			MoodStyle:       res.MoodStyle,
			DominantEmotion: res.Dominant.String(),
			Hint:            res.Hint,
			ClassifierFlags: res.Flags,
			ModelVersion:    mood.ModelVersion,
			MemoryModel:     opts.Engine.Config().MemoryModel,
		})
	})

	r.Post("/v1/intent/classify", func(w http.ResponseWriter, req *http.Request) {
		var in classifyRequest
		if err := decodeJSONBody(req, opts.MaxBodyBytes, true, &in); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if strings.TrimSpace(in.Text) == "" {
			writeError(w, http.StatusBadRequest, "text is required")
			return
		}
		writeJSON(w, http.StatusOK, intent.Classify(in.Text))
	})

	return r
}
