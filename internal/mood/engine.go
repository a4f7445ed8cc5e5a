package mood

import (
	"maps"
	"math"
	"strings"
	"time"

	"gyarumi/internal/domain"
	"gyarumi/internal/emotion"
	"gyarumi/internal/intent"
)

const ModelVersion = "gal-vibes-v1"

const (
	MemoryNone     = "none"
	MemoryDecaying = "decaying"
)

type Config struct {
	MemoryModel string

	ContinuityMax     int
	HotGapSeconds     float64
	ColdGapSeconds    float64
	WarmDecay         int
	ColdDecay         int
	ContinuityBonusAt int

	ContinuityBonus      float64
	ImageBonus           float64
	DrawingBonus         float64
	TopicBonus           float64
	BoredomPenalty       float64
	HighMultiplier       float64
	LowMultiplier        float64
	SleepyMorningPenalty float64
	FridayNightBonus     float64

	AffinityGainRate float64
	AffinityLossRate float64
	MemoryGain       float64
}

type Engine struct {
	cfg      Config
	analyzer *emotion.Analyzer
}

type UpdateInput struct {
	Now       time.Time
	Message   string
	HasImage  bool
	IsDrawing bool
}

type UpdateResult struct {
	Profile   domain.UserProfile
	State     domain.MoodState
	Delta     float64
	Promotion Promotion
	MoodStyle string
	Dominant  Emotion
	Hint      Hint
	Flags     domain.IntentFlags
}

func DefaultConfig() Config {
	return Config{
		MemoryModel:          MemoryDecaying,
		ContinuityMax:        10,
		HotGapSeconds:        300,
		ColdGapSeconds:       3600,
		WarmDecay:            1,
		ColdDecay:            3,
		ContinuityBonusAt:    5,
		ContinuityBonus:      0.2,
		ImageBonus:           0.4,
		DrawingBonus:         0.5,
		TopicBonus:           0.3,
		BoredomPenalty:       0.1,
		HighMultiplier:       1.5,
		LowMultiplier:        0.5,
		SleepyMorningPenalty: 0.3,
		FridayNightBonus:     0.2,
		AffinityGainRate:     5.0,
		AffinityLossRate:     3.0,
		MemoryGain:           0.2,
	}
}

func NewEngine(cfg Config) *Engine {
	defaults := DefaultConfig()
	switch strings.ToLower(strings.TrimSpace(cfg.MemoryModel)) {
	case MemoryNone:
		cfg.MemoryModel = MemoryNone
	case MemoryDecaying:
		cfg.MemoryModel = MemoryDecaying
	default:
		cfg.MemoryModel = defaults.MemoryModel
	}
	if cfg.ContinuityMax <= 0 {
		cfg.ContinuityMax = defaults.ContinuityMax
	}
	if cfg.HotGapSeconds <= 0 {
		cfg.HotGapSeconds = defaults.HotGapSeconds
	}
	if cfg.ColdGapSeconds <= cfg.HotGapSeconds {
		cfg.ColdGapSeconds = math.Max(defaults.ColdGapSeconds, cfg.HotGapSeconds)
	}
	if cfg.WarmDecay <= 0 {
		cfg.WarmDecay = defaults.WarmDecay
	}
	if cfg.ColdDecay <= 0 {
		cfg.ColdDecay = defaults.ColdDecay
	}
	if cfg.ContinuityBonusAt <= 0 {
		cfg.ContinuityBonusAt = defaults.ContinuityBonusAt
	}
	if cfg.ContinuityBonus <= 0 {
		cfg.ContinuityBonus = defaults.ContinuityBonus
	}
	if cfg.ImageBonus <= 0 {
		cfg.ImageBonus = defaults.ImageBonus
	}
	if cfg.DrawingBonus <= 0 {
		cfg.DrawingBonus = defaults.DrawingBonus
	}
	if cfg.TopicBonus <= 0 {
		cfg.TopicBonus = defaults.TopicBonus
	}
	if cfg.BoredomPenalty <= 0 {
		cfg.BoredomPenalty = defaults.BoredomPenalty
	}
	if cfg.HighMultiplier <= 0 {
		cfg.HighMultiplier = defaults.HighMultiplier
	}
	if cfg.LowMultiplier <= 0 {
		cfg.LowMultiplier = defaults.LowMultiplier
	}
	if cfg.SleepyMorningPenalty <= 0 {
		cfg.SleepyMorningPenalty = defaults.SleepyMorningPenalty
	}
	if cfg.FridayNightBonus <= 0 {
		cfg.FridayNightBonus = defaults.FridayNightBonus
	}
	if cfg.AffinityGainRate <= 0 {
		cfg.AffinityGainRate = defaults.AffinityGainRate
	}
	if cfg.AffinityLossRate <= 0 {
		cfg.AffinityLossRate = defaults.AffinityLossRate
	}
	if cfg.MemoryGain <= 0 {
		cfg.MemoryGain = defaults.MemoryGain
	}
	return &Engine{cfg: cfg, analyzer: emotion.NewAnalyzer()}
}

func (e *Engine) Config() Config {
	return e.cfg
}

func (e *Engine) Analyzer() *emotion.Analyzer {
	return e.analyzer
}

// Restore rebuilds a session from caller-supplied values. Out-of-range
// numbers are pulled back into bounds and the vibe score is re-derived
// from its accumulator.
func (e *Engine) Restore(profile domain.UserProfile, state domain.MoodState) *Session {
	p := profile.Normalize()
	s := state
	s.MoodScore = clampSigned(finiteOr(s.MoodScore, 0))
	s.VibeInput = finiteOr(s.VibeInput, 0)
	s.VibeScore = math.Tanh(s.VibeInput)
	if s.Continuity < 0 {
		s.Continuity = 0
	}
	if s.Continuity > e.cfg.ContinuityMax {
		s.Continuity = e.cfg.ContinuityMax
	}
	if parseOptionalTime(s.LastMessageAt).IsZero() {
		s.LastMessageAt = ""
	}
	s.Sensitivity = Sensitivity(p)
	s.Side.DailyActivities = maps.Clone(s.Side.DailyActivities)
	return &Session{cfg: e.cfg, analyzer: e.analyzer, profile: p, state: s}
}

// Update advances one request: continuity, then the configured score model,
// the emotional vector and the relationship ladder. The message's intent
// flags ride along with the result.
func (e *Engine) Update(profile domain.UserProfile, state domain.MoodState, in UpdateInput) UpdateResult {
	now := in.Now.UTC()
	if in.Now.IsZero() {
		now = time.Now().UTC()
	}
	s := e.Restore(profile, state)
	s.TrackContinuity(now)

	var (
		delta float64
		hint  Hint
	)
	if e.cfg.MemoryModel == MemoryDecaying {
		before := s.state.VibeScore
		hint = s.UpdateVibe(in.Message, now)
		delta = s.state.VibeScore - before
	} else {
		delta = s.ApplyMoodDelta(in.Message, in.HasImage, in.IsDrawing, now)
		s.RecomputeEmotionalVector()
	}

	return UpdateResult{
		Profile:   s.Profile(),
		State:     s.State(),
		Delta:     delta,
		Promotion: s.Promotion(),
		MoodStyle: s.MoodStyle(),
		Dominant:  s.Dominant(),
		Hint:      hint,
		Flags:     intent.Classify(in.Message),
	}
}
