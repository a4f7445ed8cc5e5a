package domain

import "time"

type ChatRequest struct {
	SessionID   string           `json:"session_id,omitempty"`
	Message     string           `json:"message"`
	Image       *ImageAttachment `json:"image,omitempty"`
	IsDrawing   bool             `json:"is_drawing,omitempty"`
	UserProfile *UserProfile     `json:"user_profile,omitempty"`
	State       *MoodState       `json:"state,omitempty"`
	History     []Message        `json:"history,omitempty"`
}

type ChatResponse struct {
	SessionID       string           `json:"session_id"`
	Reply           string           `json:"reply"`
	Image           *ImageAttachment `json:"image,omitempty"`
	UserProfile     UserProfile      `json:"user_profile"`
	State           MoodState        `json:"state"`
	MoodStyle       string           `json:"mood_style"`
	DominantEmotion string           `json:"dominant_emotion"`
	Promotion       string           `json:"promotion,omitempty"`
	Flags           IntentFlags      `json:"flags"`
	Degraded        []string         `json:"degraded,omitempty"`
}

// ImageAttachment carries raw bytes; JSON encodes them as base64.
type ImageAttachment struct {
	MIMEType string `json:"mime_type"`
	Data     []byte `json:"data"`
}

// IntentFlags is the classifier output handed to the prompt builder.
type IntentFlags struct {
	GenericQuery      bool   `json:"generic_query"`
	NeedsRealtime     bool   `json:"needs_realtime_search"`
	GalFriendlyTopic  bool   `json:"gal_friendly_topic"`
	AskingDailyLife   bool   `json:"asking_daily_life"`
	AskingPlace       bool   `json:"asking_place"`
	AskingLimitedTime bool   `json:"asking_limited_time"`
	AskingAboutPhoto  bool   `json:"asking_about_photo"`
	RequestingPhoto   bool   `json:"requesting_photo"`
	TimeReference     string `json:"time_reference"`
	Brand             string `json:"brand,omitempty"`
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type LLMRequest struct {
	Model       string
	System      string
	Messages    []Message
	Image       *ImageAttachment
	Temperature float32
}

type LLMResponse struct {
	Content string
}

type ImageRequest struct {
	Prompt    string
	Reference *ImageAttachment
}

type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// VibeUpdatePayload is published to companion displays after each turn.
type VibeUpdatePayload struct {
	SessionID       string          `json:"session_id"`
	Relationship    Relationship    `json:"relationship"`
	MoodScore       float64         `json:"mood_score"`
	VibeScore       float64         `json:"vibe_score"`
	Continuity      int             `json:"continuity"`
	MoodStyle       string          `json:"mood_style"`
	DominantEmotion string          `json:"dominant_emotion"`
	EmotionalVector EmotionalVector `json:"emotional_vector"`
	Promotion       string          `json:"promotion,omitempty"`
	TS              string          `json:"ts"`
}

// SessionSnapshot is what the optional session store keeps per conversation.
type SessionSnapshot struct {
	SessionID string      `json:"session_id"`
	Profile   UserProfile `json:"user_profile"`
	State     MoodState   `json:"state"`
	UpdatedAt time.Time   `json:"updated_at"`
}
