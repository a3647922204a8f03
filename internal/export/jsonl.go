package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// JSONLExporter exports sessions in JSONL format (one analysis per line)
type JSONLExporter struct{}

type jsonlLine struct {
	SessionID  string             `json:"session_id"`
	Timestamp  time.Time          `json:"timestamp"`
	Text       string             `json:"text"`
	Context    string             `json:"context,omitempty"`
	Sentiment  string             `json:"sentiment"`
	Scores     map[string]float64 `json:"scores,omitempty"`
	Language   string             `json:"language,omitempty"`
	Emotion    string             `json:"emotion"`
	Valence    float64            `json:"valence"`
	Arousal    float64            `json:"arousal"`
	Confidence float64            `json:"confidence"`
	Response   string             `json:"response"`
}

// Export exports a session to JSONL format
func (e *JSONLExporter) Export(session *SessionExport, w io.Writer) error {
	enc := json.NewEncoder(w)

	for _, rec := range session.Records {
		line := jsonlLine{
			SessionID:  session.SessionID,
			Timestamp:  rec.Timestamp,
			Text:       rec.OriginalText,
			Context:    rec.Context,
			Sentiment:  rec.Sentiment.Label,
			Scores:     rec.Sentiment.Scores,
			Language:   rec.Sentiment.Language,
			Emotion:    rec.Emotion.Category,
			Valence:    rec.Emotion.Valence,
			Arousal:    rec.Emotion.Arousal,
			Confidence: rec.Confidence,
			Response:   rec.AdaptiveResponse,
		}
		if line.Text == "" {
			line.Text = rec.InputText
		}

		if err := enc.Encode(line); err != nil {
			return fmt.Errorf("failed to encode record %s: %w", rec.ID, err)
		}
	}

	return nil
}

// Extension returns the file extension for this format
func (e *JSONLExporter) Extension() string {
	return "jsonl"
}
