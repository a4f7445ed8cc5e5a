package mood

import (
	"math"
	"strings"
	"time"

	"gyarumi/internal/domain"
	"gyarumi/internal/emotion"
	"gyarumi/internal/intent"
)

// Session is the engine state for one request. It is not safe for
// concurrent use and is discarded once the snapshot is taken.
type Session struct {
	cfg       Config
	analyzer  *emotion.Analyzer
	profile   domain.UserProfile
	state     domain.MoodState
	promotion Promotion
}

func (s *Session) Profile() domain.UserProfile {
	return s.profile
}

func (s *Session) State() domain.MoodState {
	return s.state
}

// Promotion reports the tier change made during this session, if any.
func (s *Session) Promotion() Promotion {
	return s.promotion
}

// Score is the active bounded score of the configured model.
func (s *Session) Score() float64 {
	if s.cfg.MemoryModel == MemoryDecaying {
		return s.state.VibeScore
	}
	return s.state.MoodScore
}

func (s *Session) TrackContinuity(now time.Time) {
	now = now.UTC()
	elapsed := 0.0
	if last := parseOptionalTime(s.state.LastMessageAt); !last.IsZero() {
		elapsed = math.Max(0, now.Sub(last).Seconds())
	}
	switch {
	case elapsed < s.cfg.HotGapSeconds:
		s.state.Continuity = min(s.cfg.ContinuityMax, s.state.Continuity+1)
	case elapsed > s.cfg.ColdGapSeconds:
		s.state.Continuity = max(0, s.state.Continuity-s.cfg.ColdDecay)
	default:
		s.state.Continuity = max(0, s.state.Continuity-s.cfg.WarmDecay)
	}
	s.state.LastMessageAt = now.Format(time.RFC3339Nano)
}

// ApplyMoodDelta runs the additive score model and feeds the result into
// the relationship ladder.
func (s *Session) ApplyMoodDelta(message string, hasImage, isDrawing bool, now time.Time) float64 {
	delta := 0.0
	if s.state.Continuity >= s.cfg.ContinuityBonusAt {
		delta += s.cfg.ContinuityBonus
	}
	if hasImage {
		delta += s.cfg.ImageBonus
	}
	if isDrawing {
		delta += s.cfg.DrawingBonus
	}
	if intent.IsGalFriendlyTopic(message) {
		delta += s.cfg.TopicBonus
	} else if !hasImage && !isDrawing {
		delta -= s.cfg.BoredomPenalty
	}

	switch s.profile.Relationship {
	case domain.RelationshipHigh:
		delta *= s.cfg.HighMultiplier
	case domain.RelationshipLow:
		delta *= s.cfg.LowMultiplier
	}

	local := LocalTime(now)
	if isWeekday(local) && local.Hour() >= 7 && local.Hour() <= 8 {
		delta -= s.cfg.SleepyMorningPenalty
	} else if local.Weekday() == time.Friday && local.Hour() >= 18 {
		delta += s.cfg.FridayNightBonus
	}

	s.state.MoodScore = clampSigned(s.state.MoodScore + delta)
	s.UpdateRelationship(delta)
	return delta
}

// UpdateVibe runs the decaying-memory model and returns the response hint
// for the new state.
func (s *Session) UpdateVibe(message string, now time.Time) Hint {
	timeBoost, multiplier := TimeVibeBoost(LocalTime(now))
	memoryBoost := 0.5 * (s.profile.MemoryJoy - s.profile.MemoryAnxiety)
	impact := s.sentimentRaw(message)*s.state.Sensitivity*multiplier + timeBoost + memoryBoost

	before := s.state.VibeScore
	s.state.VibeInput += impact
	s.state.VibeScore = math.Tanh(s.state.VibeInput)
	s.state.MoodScore = s.state.VibeScore
	change := s.state.VibeScore - before

	s.RecomputeEmotionalVector()
	s.UpdateMemory(change)
	s.UpdateRelationship(change)
	return s.ResponseHint(message)
}

// sentimentRaw weighs keyword hits; negativity from a close friend hurts
// twice as much.
func (s *Session) sentimentRaw(message string) float64 {
	res := s.analyzer.Score(message)
	raw := res.Raw
	if s.profile.Relationship == domain.RelationshipHigh && res.Negative > 0 {
		raw -= float64(res.Negative) * emotion.NegativeWeight
	}
	return raw
}

func (s *Session) RecomputeEmotionalVector() {
	s.state.EmotionalVector = ComputeEmotionalVector(s.Score(), s.profile.MemoryAnxiety)
}

func (s *Session) UpdateMemory(change float64) {
	retention := 0.95
	switch s.profile.Relationship {
	case domain.RelationshipHigh:
		retention = 0.99
	case domain.RelationshipLow:
		retention = 0.85
	}
	joy := s.profile.MemoryJoy*retention + math.Max(0, change)*s.cfg.MemoryGain
	anxiety := s.profile.MemoryAnxiety*retention + math.Max(0, -change)*s.cfg.MemoryGain
	s.profile.MemoryJoy = clamp(joy, 0, domain.MemoryCap)
	s.profile.MemoryAnxiety = clamp(anxiety, 0, domain.MemoryCap)
}

// UpdateRelationship accrues affinity from delta and promotes at most one
// tier per call. Tiers never go down.
func (s *Session) UpdateRelationship(delta float64) Promotion {
	if s.cfg.MemoryModel == MemoryDecaying {
		if delta > 0.15 && s.state.VibeScore > 0.7 {
			s.profile.AffinityPoints += delta * s.cfg.AffinityGainRate
		} else if delta < -0.15 {
			s.profile.AffinityPoints = math.Max(0, s.profile.AffinityPoints+delta*s.cfg.AffinityLossRate)
		}
	} else if delta > 0.1 {
		s.profile.AffinityPoints += delta * s.cfg.AffinityGainRate
	}

	th := ThresholdsFor(s.profile, s.cfg.MemoryModel)
	promo := PromotionNone
	if s.profile.Relationship == domain.RelationshipLow && s.profile.AffinityPoints >= th.Medium {
		s.profile.Relationship = domain.RelationshipMedium
		promo = PromotionMedium
	} else if s.profile.Relationship == domain.RelationshipMedium && s.profile.AffinityPoints >= th.High {
		s.profile.Relationship = domain.RelationshipHigh
		promo = PromotionHigh
	}
	if promo != PromotionNone {
		s.state.Sensitivity = Sensitivity(s.profile)
		s.promotion = promo
	}
	return promo
}

func (s *Session) MoodStyle() string {
	return StyleFor(s.Score())
}

func (s *Session) Dominant() Emotion {
	return DominantEmotion(s.state.EmotionalVector)
}

// ResponseHint picks the canned tone for the current state. Guard mode
// wins over the dominant emotion.
func (s *Session) ResponseHint(message string) Hint {
	p := s.profile
	if s.state.Sensitivity <= guardSensitivity {
		switch {
		case s.analyzer.IsSimpleGreeting(message):
			return Hint{Phrase: PhraseGuardGreeting, Final: true}
		case s.analyzer.IsIrrelevant(message):
			return Hint{Phrase: PhraseGuardDismiss, Final: true}
		case p.Relationship == domain.RelationshipLow && p.Gender == domain.GenderMale &&
			(p.AgeGroup == domain.AgeTeen || p.AgeGroup == domain.Age20s) &&
			strings.TrimSpace(message) == "別に":
			return Hint{Phrase: PhraseGuardCurt, Final: true}
		default:
			return Hint{Phrase: PhraseGuardFallback}
		}
	}

	switch s.Dominant() {
	case Joy:
		if s.state.EmotionalVector.Joy > 0.6 {
			return Hint{Phrase: PhraseJoyHigh}
		}
		return Hint{Phrase: PhraseJoy}
	case Anxiety:
		if p.Relationship == domain.RelationshipHigh {
			return Hint{Phrase: PhraseAnxietyClose}
		}
		return Hint{Phrase: PhraseAnxiety}
	default:
		if s.analyzer.IsSimpleGreeting(message) && p.Relationship == domain.RelationshipLow {
			return Hint{Phrase: PhraseApathyGreeting}
		}
		return Hint{Phrase: PhraseApathy}
	}
}
