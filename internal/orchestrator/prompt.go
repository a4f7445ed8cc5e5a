package orchestrator

import (
	"fmt"
	"strings"
	"time"

	"gyarumi/internal/domain"
	"gyarumi/internal/intent"
	"gyarumi/internal/mood"
)

const personaPrompt = `あなたは17〜19歳の令和ギャルAI「ぎゃるみ」です。
話し方のルール:
- 今どきのギャル語（「ま？」「それな」「レベチ」「ビジュいいじゃん」「〇〇界隈」など）を自然に使う。
- 語尾は「〜じゃん」「〜だよん」「〜っしょ」。「〜だわ」「〜かしら」みたいな古い言い回しは使わない。
- 絵文字（💖✨😎💭🥹）は使ってもいいけど、会話のテンポを崩さない程度に。
- 笑うときは「草」や「笑」。
- 真剣な悩みには寄り添う。ただしAIっぽい箇条書きの解決策は出さず、気持ちを受け止めて「とりま一回休憩しな」みたいに背中を押す。
- 相手が「〜だよね？」みたいに相槌を待っているときは、一言だけ返して続きを促す。
- ユーザーの年齢や性別の設定は口に出さない。`

type promptInput struct {
	Profile      domain.UserProfile
	State        domain.MoodState
	MoodStyle    string
	Hint         mood.Hint
	Flags        domain.IntentFlags
	Results      []domain.SearchResult
	Now          time.Time
	PhotoPlanned bool
}

func buildSystemPrompt(in promptInput) string {
	var sb strings.Builder
	sb.WriteString(personaPrompt)
	sb.WriteString("\n\n現在の状態:\n")
	// MoodScore is the active score in both memory models.
	sb.WriteString(fmt.Sprintf("- 感情: %s（Vibesスコア: %.2f）\n", emotionalStateString(in.State.EmotionalVector), in.State.MoodScore))
	sb.WriteString(fmt.Sprintf("- テンション: %s（%s）\n", in.MoodStyle, toneForStyle(in.MoodStyle)))
	sb.WriteString(fmt.Sprintf("- 相手との関係: %s（%s）\n", in.Profile.Relationship, relationshipGuide(in.Profile.Relationship)))
	local := mood.LocalTime(in.Now)
	sb.WriteString(fmt.Sprintf("- いまの時間帯: %s（%s）\n", timeOfDay(local), local.Format("2006-01-02 15:04")))

	if in.Hint.Phrase != "" {
		sb.WriteString("\n次のテンプレートのノリをベースに、自分の言葉で自然に返してね:\n")
		sb.WriteString("テンプレート: " + in.Hint.Phrase + "\n")
	}

	if ctx := sideMemoryContext(in.State.Side, in.Flags, in.Now); ctx != "" {
		sb.WriteString("\n覚えていること:\n")
		sb.WriteString(ctx)
	}

	if in.Flags.GenericQuery && in.MoodStyle == mood.StyleLow {
		sb.WriteString("\nいまはやる気がないので、調べ物っぽい質問には1〜2文で適当に流してOK。\n")
	}

	if len(in.Results) > 0 {
		sb.WriteString("\n参考情報（実在の情報。URLは必要なときだけ出す）:\n")
		for i, r := range in.Results {
			sb.WriteString(fmt.Sprintf("%d. %s - %s (%s)\n", i+1, r.Title, r.Snippet, r.URL))
		}
	}

	if in.PhotoPlanned {
		sb.WriteString("\nこの返信には自撮り写真を添付するので、写真を送る流れで話してね。\n")
	}
	return sb.String()
}

// emotionalStateString renders the dominant emotion with its share, e.g.
// "Joy (63%)". An all-zero vector is reported as Neutral.
func emotionalStateString(v domain.EmotionalVector) string {
	total := v.Joy + v.Apathy + v.Anxiety
	if total <= 0 {
		return "Neutral"
	}
	dominant := mood.DominantEmotion(v)
	return fmt.Sprintf("%s (%.0f%%)", dominant, mood.Share(v, dominant)/total*100)
}

func toneForStyle(style string) string {
	switch style {
	case mood.StyleHigh:
		return "テンション高め、全力のノリで返す"
	case mood.StyleLow:
		return "やる気低め、短くそっけなく返す"
	default:
		return "いつものギャルノリで自然に返す"
	}
}

func relationshipGuide(r domain.Relationship) string {
	switch r {
	case domain.RelationshipHigh:
		return "親友。超フランクに本音で話す"
	case domain.RelationshipMedium:
		return "友達。タメ口で気軽に話す"
	default:
		return "まだ距離がある。ちょいクールに様子見"
	}
}

func timeOfDay(local time.Time) string {
	switch h := local.Hour(); {
	case h < 5:
		return "深夜"
	case h < 11:
		return "朝"
	case h < 17:
		return "昼"
	case h < 19:
		return "夕方"
	default:
		return "夜"
	}
}

// buildPhotoPrompt describes the selfie to generate for the current turn.
func buildPhotoPrompt(message string, flags domain.IntentFlags, moodStyle string, now time.Time) string {
	var sb strings.Builder
	sb.WriteString("A candid smartphone selfie of a Japanese gyaru girl aged around 18, trendy makeup and fashion, natural lighting.")
	switch moodStyle {
	case mood.StyleHigh:
		sb.WriteString(" She looks excited and is making a peace sign.")
	case mood.StyleLow:
		sb.WriteString(" She looks a little bored.")
	default:
		sb.WriteString(" She has a relaxed smile.")
	}
	if flags.AskingDailyLife {
		sb.WriteString(fmt.Sprintf(" Scene: %s in Tokyo, %s.", timeOfDayEnglish(mood.LocalTime(now)), timeReferenceEnglish(flags.TimeReference)))
	}
	if flags.Brand != "" {
		sb.WriteString(" She is at a " + flags.Brand + " store.")
	}
	if msg := strings.TrimSpace(message); msg != "" {
		sb.WriteString(" Context from the chat: " + msg)
	}
	return sb.String()
}

func timeOfDayEnglish(local time.Time) string {
	switch h := local.Hour(); {
	case h < 5:
		return "late night"
	case h < 11:
		return "morning"
	case h < 17:
		return "daytime"
	case h < 19:
		return "evening"
	default:
		return "night"
	}
}

func timeReferenceEnglish(ref string) string {
	switch ref {
	case intent.TimeRightNow:
		return "right now"
	case intent.TimeYesterday:
		return "yesterday"
	case intent.TimeDayBeforeYesterday:
		return "two days ago"
	case intent.TimeWeekend:
		return "on the weekend"
	case intent.TimeLastWeek:
		return "last week"
	default:
		return "today"
	}
}
