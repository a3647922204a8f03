package testutil

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

// Utterance is a scripted classifier verdict for a piece of text
type Utterance struct {
	Text       string             `json:"text"`
	Label      string             `json:"label"`
	Confidence float64            `json:"confidence"`
	Scores     map[string]float64 `json:"scores,omitempty"`
}

// SampleConversation is a three-turn session drifting from hopeful to
// worried. Its valences are 0.76, 0.2*0.55=0.11 and -0.72.
func SampleConversation() []Utterance {
	return []Utterance{
		{
			Text:       "I finally got the job offer!",
			Label:      "POSITIVE",
			Confidence: 0.95,
			Scores:     map[string]float64{"POSITIVE": 0.95, "NEGATIVE": 0.01, "NEUTRAL": 0.03, "MIXED": 0.01},
		},
		{
			Text:       "But I'm not sure about moving cities",
			Label:      "MIXED",
			Confidence: 0.55,
			Scores:     map[string]float64{"POSITIVE": 0.3, "NEGATIVE": 0.1, "NEUTRAL": 0.05, "MIXED": 0.55},
		},
		{
			Text:       "Honestly I'm scared it will go badly",
			Label:      "NEGATIVE",
			Confidence: 0.9,
			Scores:     map[string]float64{"POSITIVE": 0.02, "NEGATIVE": 0.9, "NEUTRAL": 0.05, "MIXED": 0.03},
		},
	}
}

// SampleConfig is a config file selecting the offline stack
const SampleConfig = `
[server]
addr = "127.0.0.1:9000"

[store]
backend = "memory"

[classifier]
provider = "lexicon"
max_retries = 1

[responder]
history_window = 4
seed = 42

[log]
level = "debug"
`

// CreateConfigFixture writes SampleConfig (or content, when given) to
// config.toml in dir
func CreateConfigFixture(t *testing.T, dir string, content ...string) string {
	t.Helper()
	data := SampleConfig
	if len(content) > 0 {
		data = content[0]
	}
	return WriteFile(t, dir, "config.toml", []byte(data))
}

// CreateSQLiteFixture creates a SQLite database holding one session,
// "fixture-session", with two analyses written the way the sqlite store
// lays them out
func CreateSQLiteFixture(t *testing.T, dbPath string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		t.Fatalf("Failed to create fixture directory: %v", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer func() { _ = db.Close() }()

	stmts := []string{
		`CREATE TABLE emotion_analyses (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			seq BIGINT NOT NULL,
			input_text TEXT NOT NULL,
			original_text TEXT NOT NULL,
			context TEXT NOT NULL,
			language TEXT NOT NULL,
			sentiment TEXT NOT NULL,
			sentiment_confidence DOUBLE NOT NULL,
			sentiment_scores TEXT NOT NULL,
			emotion TEXT NOT NULL,
			valence DOUBLE NOT NULL,
			arousal DOUBLE NOT NULL,
			confidence DOUBLE NOT NULL,
			adaptive_response TEXT NOT NULL,
			recorded_at TEXT NOT NULL,
			UNIQUE (session_id, seq)
		)`,
		`CREATE TABLE user_sessions (
			session_id TEXT PRIMARY KEY,
			created_at TEXT NOT NULL,
			last_activity TEXT NOT NULL,
			total_analyses BIGINT NOT NULL
		)`,
		`INSERT INTO emotion_analyses VALUES
			('fixture-1', 'fixture-session', 1, 'What a lovely day', 'What a lovely day!!', '', 'en',
			 'POSITIVE', 0.9, '{"POSITIVE":0.9}', 'Joy / Optimism', 0.72, 0.6, 0.9,
			 'That sounds wonderful.', '2025-01-02T10:00:00.000000Z'),
			('fixture-2', 'fixture-session', 2, 'Work is draining me', 'Work is draining me', 'work', 'en',
			 'NEGATIVE', 0.8, '{"NEGATIVE":0.8}', 'Sadness / Anger / Fear', -0.64, 0.6, 0.8,
			 'That sounds hard.', '2025-01-02T10:05:00.000000Z')`,
		`INSERT INTO user_sessions VALUES
			('fixture-session', '2025-01-02T10:00:00.000000Z', '2025-01-02T10:05:00.000000Z', 2)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("Failed to seed fixture database: %v", err)
		}
	}
}
