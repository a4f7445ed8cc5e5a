package domain

import (
	"math"
	"strings"
)

type Gender string

const (
	GenderFemale Gender = "FEMALE"
	GenderMale   Gender = "MALE"
	GenderOther  Gender = "OTHER"
)

type AgeGroup string

const (
	AgeTeen    AgeGroup = "TEEN"
	Age20s     AgeGroup = "20S"
	Age30s     AgeGroup = "30S"
	Age40sPlus AgeGroup = "40S_PLUS"
)

type Style string

const (
	StyleGal    Style = "GAL"
	StyleTrendy Style = "TRENDY"
	StyleUncle  Style = "UNCLE"
	StyleCasual Style = "CASUAL"
)

type Relationship string

const (
	RelationshipLow    Relationship = "LOW"
	RelationshipMedium Relationship = "MEDIUM"
	RelationshipHigh   Relationship = "HIGH"
)

// Rank orders tiers so promotions can be compared; unknown tiers rank as LOW.
func (r Relationship) Rank() int {
	switch r {
	case RelationshipHigh:
		return 2
	case RelationshipMedium:
		return 1
	default:
		return 0
	}
}

const MemoryCap = 5.0

// UserProfile is owned by the caller: it arrives with every request, the
// engine mutates it and it is handed back for external storage.
type UserProfile struct {
	Gender         Gender       `json:"gender"`
	AgeGroup       AgeGroup     `json:"age_group"`
	Style          Style        `json:"style"`
	Relationship   Relationship `json:"relationship"`
	AffinityPoints float64      `json:"affinity_points"`
	MemoryJoy      float64      `json:"memory_joy"`
	MemoryAnxiety  float64      `json:"memory_anxiety"`
}

func DefaultUserProfile() UserProfile {
	return UserProfile{
		Gender:       GenderFemale,
		AgeGroup:     AgeTeen,
		Style:        StyleGal,
		Relationship: RelationshipLow,
	}
}

// Normalize fills defaults for missing or unknown fields and pulls the
// numeric fields back into their valid ranges.
func (p UserProfile) Normalize() UserProfile {
	out := p
	switch g := Gender(strings.ToUpper(strings.TrimSpace(string(p.Gender)))); g {
	case GenderFemale, GenderMale, GenderOther:
		out.Gender = g
	default:
		out.Gender = GenderFemale
	}
	switch a := AgeGroup(strings.ToUpper(strings.TrimSpace(string(p.AgeGroup)))); a {
	case AgeTeen, Age20s, Age30s, Age40sPlus:
		out.AgeGroup = a
	default:
		out.AgeGroup = AgeTeen
	}
	switch s := Style(strings.ToUpper(strings.TrimSpace(string(p.Style)))); s {
	case StyleGal, StyleTrendy, StyleUncle, StyleCasual:
		out.Style = s
	default:
		out.Style = StyleGal
	}
	switch r := Relationship(strings.ToUpper(strings.TrimSpace(string(p.Relationship)))); r {
	case RelationshipLow, RelationshipMedium, RelationshipHigh:
		out.Relationship = r
	default:
		out.Relationship = RelationshipLow
	}
	if !(out.AffinityPoints > 0) || math.IsInf(out.AffinityPoints, 1) {
		out.AffinityPoints = 0
	}
	out.MemoryJoy = clampMemory(out.MemoryJoy)
	out.MemoryAnxiety = clampMemory(out.MemoryAnxiety)
	return out
}

func clampMemory(v float64) float64 {
	if !(v > 0) {
		return 0
	}
	if v > MemoryCap {
		return MemoryCap
	}
	return v
}

// EmotionalVector is a categorical distribution over the three persona
// emotions. All-zero means the dominant emotion is undefined.
type EmotionalVector struct {
	Joy     float64 `json:"joy"`
	Apathy  float64 `json:"apathy"`
	Anxiety float64 `json:"anxiety"`
}

// SideMemory is carried through the engine untouched; the chat pipeline
// owns its contents.
type SideMemory struct {
	LastMentionedPlace string            `json:"last_mentioned_place,omitempty"`
	DailyActivities    map[string]string `json:"daily_activities,omitempty"`
	LastPhotoContext   string            `json:"last_photo_context,omitempty"`
}

// MoodState is the per-conversation engine state. It is rebuilt from
// client-supplied (or stored) values on every request.
type MoodState struct {
	MoodScore       float64         `json:"mood_score"`
	VibeInput       float64         `json:"vibe_input"`
	VibeScore       float64         `json:"vibe_score"`
	Continuity      int             `json:"continuity"`
	LastMessageAt   string          `json:"last_message_at,omitempty"`
	EmotionalVector EmotionalVector `json:"emotional_vector"`
	Sensitivity     float64         `json:"sensitivity"`
	Side            SideMemory      `json:"side_memory"`
}
