package internal

import "context"

// Session listing bounds
const (
	DefaultSessionsLimit = 20
	MaxSessionsLimit     = 200
	DefaultHistoryLimit  = 50
	MaxHistoryLimit      = 1000
)

// Store persists analysis records per session.
//
// Append must be atomic and ordered per session: concurrent appends to one
// session are serialized by the implementation, and List returns records
// oldest-first in append order. Appending to an unknown session creates it.
type Store interface {
	Append(ctx context.Context, sessionID string, rec AnalysisRecord) error
	List(ctx context.Context, sessionID string) ([]AnalysisRecord, error)
	Delete(ctx context.Context, sessionID string) error
	Sessions(ctx context.Context, limit int) ([]SessionSummary, error)
	Close() error
}

// Classifier returns a sentiment verdict for text. Errors may be transient.
type Classifier interface {
	Classify(ctx context.Context, text string) (SentimentResult, error)
	Name() string
}

// ClampLimit applies a default to non-positive limits and caps the result.
func ClampLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}
