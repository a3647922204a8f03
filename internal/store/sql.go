package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iksnae/emotion-session/internal"
)

// schema is valid for both SQLite and DuckDB
var schema = []string{
	`CREATE TABLE IF NOT EXISTS emotion_analyses (
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
	`CREATE INDEX IF NOT EXISTS idx_emotion_analyses_session ON emotion_analyses (session_id, seq)`,
	`CREATE TABLE IF NOT EXISTS user_sessions (
		session_id TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		last_activity TEXT NOT NULL,
		total_analyses BIGINT NOT NULL
	)`,
}

const recordColumns = `id, session_id, seq, input_text, original_text, context, language,
	sentiment, sentiment_confidence, sentiment_scores, emotion, valence, arousal,
	confidence, adaptive_response, recorded_at`

// SQLStore implements internal.Store over database/sql. Callers limit the
// pool to one connection so appends to a session are serialized.
type SQLStore struct {
	db      *sql.DB
	backend string
}

func newSQLStore(ctx context.Context, db *sql.DB, backend string) (*SQLStore, error) {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return nil, &internal.StorageError{Backend: backend, Op: "migrate", Err: err}
		}
	}
	return &SQLStore{db: db, backend: backend}, nil
}

func (s *SQLStore) Append(ctx context.Context, sessionID string, rec internal.AnalysisRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return s.fail("append", sessionID, err)
	}
	defer tx.Rollback()

	var last int64
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(seq), 0) FROM emotion_analyses WHERE session_id = ?`, sessionID,
	).Scan(&last); err != nil {
		return s.fail("append", sessionID, err)
	}

	r := toRow(rec, last+1)
	r.SessionID = sessionID
	scores, err := r.scoresJSON()
	if err != nil {
		return s.fail("append", sessionID, err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO emotion_analyses (`+recordColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.SessionID, r.Seq, r.InputText, r.OriginalText, r.Context, r.Language,
		r.Sentiment, r.SentimentConfidence, scores, r.Emotion, r.Valence, r.Arousal,
		r.Confidence, r.AdaptiveResponse, r.Timestamp,
	); err != nil {
		return s.fail("append", sessionID, err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO user_sessions (session_id, created_at, last_activity, total_analyses)
		VALUES (?, ?, ?, 1)
		ON CONFLICT (session_id) DO UPDATE SET
			last_activity = excluded.last_activity,
			total_analyses = total_analyses + 1`,
		sessionID, r.Timestamp, r.Timestamp,
	); err != nil {
		return s.fail("append", sessionID, err)
	}

	if err := tx.Commit(); err != nil {
		return s.fail("append", sessionID, err)
	}
	return nil
}

func (s *SQLStore) List(ctx context.Context, sessionID string) ([]internal.AnalysisRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+recordColumns+` FROM emotion_analyses WHERE session_id = ? ORDER BY seq ASC`, sessionID)
	if err != nil {
		return nil, s.fail("list", sessionID, err)
	}
	defer rows.Close()

	records := []internal.AnalysisRecord{}
	for rows.Next() {
		var r row
		var scores string
		if err := rows.Scan(&r.ID, &r.SessionID, &r.Seq, &r.InputText, &r.OriginalText, &r.Context,
			&r.Language, &r.Sentiment, &r.SentimentConfidence, &scores, &r.Emotion, &r.Valence,
			&r.Arousal, &r.Confidence, &r.AdaptiveResponse, &r.Timestamp); err != nil {
			return nil, s.fail("list", sessionID, fmt.Errorf("scan failed: %w", err))
		}
		if r.SentimentScores, err = parseScores(scores); err != nil {
			return nil, s.fail("list", sessionID, err)
		}
		rec, err := r.record()
		if err != nil {
			return nil, s.fail("list", sessionID, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, s.fail("list", sessionID, fmt.Errorf("rows iteration error: %w", err))
	}
	return records, nil
}

func (s *SQLStore) Delete(ctx context.Context, sessionID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return s.fail("delete", sessionID, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM emotion_analyses WHERE session_id = ?`, sessionID); err != nil {
		return s.fail("delete", sessionID, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM user_sessions WHERE session_id = ?`, sessionID); err != nil {
		return s.fail("delete", sessionID, err)
	}
	if err := tx.Commit(); err != nil {
		return s.fail("delete", sessionID, err)
	}
	return nil
}

func (s *SQLStore) Sessions(ctx context.Context, limit int) ([]internal.SessionSummary, error) {
	limit = internal.ClampLimit(limit, internal.DefaultSessionsLimit, internal.MaxSessionsLimit)
	rows, err := s.db.QueryContext(ctx,
		`SELECT session_id, created_at, last_activity, total_analyses
		FROM user_sessions ORDER BY last_activity DESC, session_id ASC LIMIT ?`, limit)
	if err != nil {
		return nil, s.fail("sessions", "", err)
	}
	defer rows.Close()

	summaries := []internal.SessionSummary{}
	for rows.Next() {
		var id, created, last string
		var total int64
		if err := rows.Scan(&id, &created, &last, &total); err != nil {
			return nil, s.fail("sessions", "", fmt.Errorf("scan failed: %w", err))
		}
		createdAt, err := parseTime(created)
		if err != nil {
			return nil, s.fail("sessions", id, err)
		}
		lastActivity, err := parseTime(last)
		if err != nil {
			return nil, s.fail("sessions", id, err)
		}
		summaries = append(summaries, internal.SessionSummary{
			SessionID:     id,
			CreatedAt:     createdAt,
			LastActivity:  lastActivity,
			TotalAnalyses: int(total),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, s.fail("sessions", "", fmt.Errorf("rows iteration error: %w", err))
	}
	return summaries, nil
}

// Ping checks that the database is reachable.
func (s *SQLStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return s.fail("ping", "", err)
	}
	return nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (s *SQLStore) fail(op, sessionID string, err error) error {
	return &internal.StorageError{Backend: s.backend, Op: op, SessionID: sessionID, Err: err}
}
