package mood

import (
	"math"
	"time"

	"gyarumi/internal/domain"
)

type Promotion string

const (
	PromotionNone   Promotion = ""
	PromotionMedium Promotion = "LEVEL_UP_MEDIUM"
	PromotionHigh   Promotion = "LEVEL_UP_HIGH"
)

// Emotion is ordered: on equal shares the lower value wins.
type Emotion int

const (
	Joy Emotion = iota
	Apathy
	Anxiety
)

func (e Emotion) String() string {
	switch e {
	case Joy:
		return "Joy"
	case Anxiety:
		return "Anxiety"
	default:
		return "Apathy"
	}
}

const (
	StyleHigh   = "high"
	StyleMedium = "medium"
	StyleLow    = "low"
)

// Hint is the canned tone for a reply. Final phrases are sent as-is and end
// the exchange without consulting the LLM.
type Hint struct {
	Phrase string `json:"phrase"`
	Final  bool   `json:"final"`
}

const guardSensitivity = 0.2

const (
	PhraseGuardGreeting  = "こんにちはー。"
	PhraseGuardDismiss   = "はぁ...。知らねーっす。自分で調べたらどうすか。"
	PhraseGuardCurt      = "だったら話しかけんなよ笑"
	PhraseGuardFallback  = "そうっすか。"
	PhraseJoyHigh        = "まじ、テンションMAX卍！アゲアゲすぎてやばみ✨"
	PhraseJoy            = "うぇーい！いい感じじゃん？バイブス上がってきたかも🥳"
	PhraseAnxietyClose   = "え、まじで！？何があったの！？超しんぱい... メンブレしそう😭"
	PhraseAnxiety        = "ふつー。でも、なんかちょっとモヤる。😅"
	PhraseApathyGreeting = "なんだよ笑"
	PhraseApathy         = "ふつー。まあ、ボチボチって感じ？😅"
)

// Sensitivity is how strongly the persona reacts to sentiment. Rules are
// evaluated in order and the first match wins.
func Sensitivity(p domain.UserProfile) float64 {
	switch p.Relationship {
	case domain.RelationshipHigh:
		return 0.9
	case domain.RelationshipMedium:
		return 0.6
	}
	young := p.AgeGroup == domain.AgeTeen || p.AgeGroup == domain.Age20s
	flashy := p.Style == domain.StyleGal || p.Style == domain.StyleTrendy
	switch {
	case p.Gender == domain.GenderFemale && young && flashy:
		return 0.8
	case p.Gender == domain.GenderMale && young && flashy:
		return 0.55
	case p.Gender == domain.GenderMale && (p.AgeGroup == domain.Age40sPlus || p.Style == domain.StyleUncle):
		return 0.15
	case p.Gender == domain.GenderFemale:
		return 0.45
	default:
		return 0.3
	}
}

type Thresholds struct {
	Medium float64
	High   float64
}

// ThresholdsFor returns the affinity needed for each promotion. Only the
// decaying model lowers the bar for young-styled male users.
func ThresholdsFor(p domain.UserProfile, memoryModel string) Thresholds {
	if memoryModel == MemoryDecaying && p.Gender == domain.GenderMale &&
		(p.Style == domain.StyleGal || p.Style == domain.StyleTrendy) {
		return Thresholds{Medium: 12.0, High: 30.0}
	}
	return Thresholds{Medium: 15.0, High: 35.0}
}

// TimeVibeBoost returns the additive boost and sentiment multiplier for a
// JST wall-clock time. Windows are checked in order; the first match wins.
func TimeVibeBoost(local time.Time) (boost, multiplier float64) {
	h := local.Hour()
	wd := local.Weekday()
	switch {
	case isWeekday(local) && h >= 7 && h <= 8:
		return -2.0, 0.5
	case isWeekday(local) && h >= 16 && h <= 19:
		return 0.5, 1.0
	case wd == time.Friday && h >= 18 && h <= 23:
		return 1.5, 1.2
	case wd == time.Sunday && h >= 15 && h <= 20:
		return -0.5, 1.0
	default:
		return 0, 1.0
	}
}

func ComputeEmotionalVector(score, memoryAnxiety float64) domain.EmotionalVector {
	v := domain.EmotionalVector{
		Joy:     math.Max(0, score*1.5),
		Apathy:  math.Max(0, 0.5-math.Abs(score)),
		Anxiety: math.Max(0, -score)*1.5 + math.Max(0, memoryAnxiety)*0.8,
	}
	sum := v.Joy + v.Apathy + v.Anxiety
	if sum <= 0 {
		return domain.EmotionalVector{}
	}
	v.Joy /= sum
	v.Apathy /= sum
	v.Anxiety /= sum
	return v
}

// DominantEmotion is the argmax of v with ties going to Joy, then Apathy.
// An all-zero vector yields Apathy.
func DominantEmotion(v domain.EmotionalVector) Emotion {
	if v.Joy+v.Apathy+v.Anxiety <= 0 {
		return Apathy
	}
	best, bestShare := Joy, v.Joy
	if v.Apathy > bestShare {
		best, bestShare = Apathy, v.Apathy
	}
	if v.Anxiety > bestShare {
		best = Anxiety
	}
	return best
}

func Share(v domain.EmotionalVector, e Emotion) float64 {
	switch e {
	case Joy:
		return v.Joy
	case Anxiety:
		return v.Anxiety
	default:
		return v.Apathy
	}
}

func StyleFor(score float64) string {
	switch {
	case score > 0.5:
		return StyleHigh
	case score < -0.3:
		return StyleLow
	default:
		return StyleMedium
	}
}
