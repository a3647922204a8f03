package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/iksnae/emotion-session/internal"
)

// timeLayout keeps a fixed width so stored UTC timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000Z07:00"

// row is the flattened record shape shared by the SQL and DynamoDB backends
type row struct {
	SessionID           string             `dynamodbav:"session_id"`
	Seq                 int64              `dynamodbav:"seq"`
	ID                  string             `dynamodbav:"id"`
	InputText           string             `dynamodbav:"input_text"`
	OriginalText        string             `dynamodbav:"original_text"`
	Context             string             `dynamodbav:"context"`
	Language            string             `dynamodbav:"language"`
	Sentiment           string             `dynamodbav:"sentiment"`
	SentimentConfidence float64            `dynamodbav:"sentiment_confidence"`
	SentimentScores     map[string]float64 `dynamodbav:"sentiment_scores,omitempty"`
	Emotion             string             `dynamodbav:"emotion"`
	Valence             float64            `dynamodbav:"valence"`
	Arousal             float64            `dynamodbav:"arousal"`
	Confidence          float64            `dynamodbav:"confidence"`
	AdaptiveResponse    string             `dynamodbav:"adaptive_response"`
	Timestamp           string             `dynamodbav:"timestamp"`
}

func toRow(rec internal.AnalysisRecord, seq int64) row {
	return row{
		SessionID:           rec.SessionID,
		Seq:                 seq,
		ID:                  rec.ID,
		InputText:           rec.InputText,
		OriginalText:        rec.OriginalText,
		Context:             rec.Context,
		Language:            rec.Sentiment.Language,
		Sentiment:           rec.Sentiment.Label,
		SentimentConfidence: rec.Sentiment.Confidence,
		SentimentScores:     rec.Sentiment.Scores,
		Emotion:             rec.Emotion.Category,
		Valence:             rec.Emotion.Valence,
		Arousal:             rec.Emotion.Arousal,
		Confidence:          rec.Confidence,
		AdaptiveResponse:    rec.AdaptiveResponse,
		Timestamp:           formatTime(rec.Timestamp),
	}
}

func (r row) record() (internal.AnalysisRecord, error) {
	ts, err := parseTime(r.Timestamp)
	if err != nil {
		return internal.AnalysisRecord{}, fmt.Errorf("record %s: %w", r.ID, err)
	}
	return internal.AnalysisRecord{
		ID:           r.ID,
		SessionID:    r.SessionID,
		InputText:    r.InputText,
		OriginalText: r.OriginalText,
		Context:      r.Context,
		Sentiment: internal.SentimentResult{
			Label:      r.Sentiment,
			Confidence: r.SentimentConfidence,
			Scores:     r.SentimentScores,
			Language:   r.Language,
		},
		Emotion: internal.EmotionDescriptor{
			Category: r.Emotion,
			Valence:  r.Valence,
			Arousal:  r.Arousal,
		},
		AdaptiveResponse: r.AdaptiveResponse,
		Confidence:       r.Confidence,
		Timestamp:        ts,
	}, nil
}

func (r row) scoresJSON() (string, error) {
	if len(r.SentimentScores) == 0 {
		return "", nil
	}
	data, err := json.Marshal(r.SentimentScores)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func parseScores(s string) (map[string]float64, error) {
	if s == "" {
		return nil, nil
	}
	var scores map[string]float64
	if err := json.Unmarshal([]byte(s), &scores); err != nil {
		return nil, fmt.Errorf("invalid sentiment scores: %w", err)
	}
	return scores, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
