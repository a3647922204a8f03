package internal

import "time"

// Sentiment labels produced by a classifier
const (
	LabelPositive = "POSITIVE"
	LabelNegative = "NEGATIVE"
	LabelNeutral  = "NEUTRAL"
	LabelMixed    = "MIXED"
)

// Emotion categories, one per sentiment label
const (
	CategoryJoy        = "Joy / Optimism"
	CategorySadness    = "Sadness / Anger / Fear"
	CategoryCalm       = "Calm / Indifference"
	CategoryConflicted = "Conflicted / Uncertain"
)

// Conversation roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Labels returns the sentiment labels in canonical order.
func Labels() []string {
	return []string{LabelPositive, LabelNegative, LabelNeutral, LabelMixed}
}

// SentimentResult is a classifier's verdict for one piece of text
type SentimentResult struct {
	Label      string             `json:"label" yaml:"label"`
	Confidence float64            `json:"confidence" yaml:"confidence"`
	Scores     map[string]float64 `json:"scores,omitempty" yaml:"scores,omitempty"`
	Language   string             `json:"language,omitempty" yaml:"language,omitempty"`
}

// Score returns the per-label score, or 0 when the breakdown lacks it.
func (s SentimentResult) Score(label string) float64 {
	if s.Scores == nil {
		return 0
	}
	return s.Scores[label]
}

// ConversationTurn is one entry of caller-owned conversation history
type ConversationTurn struct {
	Role string `json:"role" yaml:"role"`
	Text string `json:"text" yaml:"text"`
}

// EmotionDescriptor is the emotional state derived from a sentiment
type EmotionDescriptor struct {
	Category string  `json:"category" yaml:"category"`
	Valence  float64 `json:"valence" yaml:"valence"`
	Arousal  float64 `json:"arousal" yaml:"arousal"`
}

// AnalysisRecord is the persisted result of one analyze call
type AnalysisRecord struct {
	ID               string            `json:"id" yaml:"id"`
	SessionID        string            `json:"session_id" yaml:"session_id"`
	InputText        string            `json:"input_text" yaml:"input_text"`
	OriginalText     string            `json:"original_text,omitempty" yaml:"original_text,omitempty"`
	Context          string            `json:"context,omitempty" yaml:"context,omitempty"`
	Sentiment        SentimentResult   `json:"sentiment" yaml:"sentiment"`
	Emotion          EmotionDescriptor `json:"emotion" yaml:"emotion"`
	AdaptiveResponse string            `json:"adaptive_response" yaml:"adaptive_response"`
	Confidence       float64           `json:"confidence" yaml:"confidence"`
	Timestamp        time.Time         `json:"timestamp" yaml:"timestamp"`
}

// SessionTrend summarizes a session's records. It is always derived, never stored.
type SessionTrend struct {
	SessionID         string  `json:"session_id" yaml:"session_id"`
	TrendLabel        string  `json:"trend_label" yaml:"trend_label"`
	Description       string  `json:"description" yaml:"description"`
	Direction         string  `json:"direction,omitempty" yaml:"direction,omitempty"`
	AverageValence    float64 `json:"average_valence" yaml:"average_valence"`
	AverageConfidence float64 `json:"average_confidence" yaml:"average_confidence"`
	TotalAnalyses     int     `json:"total_analyses" yaml:"total_analyses"`
}

// Empty reports whether the trend is the no-data sentinel.
func (t SessionTrend) Empty() bool {
	return t.TotalAnalyses == 0
}

// SessionSummary is the per-session index entry kept by stores
type SessionSummary struct {
	SessionID     string    `json:"session_id" yaml:"session_id"`
	CreatedAt     time.Time `json:"created_at" yaml:"created_at"`
	LastActivity  time.Time `json:"last_activity" yaml:"last_activity"`
	TotalAnalyses int       `json:"total_analyses" yaml:"total_analyses"`
}
