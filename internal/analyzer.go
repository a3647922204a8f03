package internal

import (
	"context"
	"fmt"
	"strings"
)

// AnalyzeRequest is one analyze call. History is owned by the caller and
// is never persisted by the analyzer.
type AnalyzeRequest struct {
	Text      string
	SessionID string
	Context   string
	History   []ConversationTurn
}

// Analyzer runs the classify, map, respond, record pipeline
type Analyzer struct {
	classifier Classifier
	store      Store
	normalizer *Normalizer
	responder  *Responder
	builder    *RecordBuilder
	retry      RetryConfig
}

// AnalyzerOption configures an Analyzer
type AnalyzerOption func(*Analyzer)

// WithRetryConfig overrides the classifier retry policy.
func WithRetryConfig(cfg RetryConfig) AnalyzerOption {
	return func(a *Analyzer) { a.retry = cfg }
}

// WithResponder replaces the default time-seeded responder.
func WithResponder(r *Responder) AnalyzerOption {
	return func(a *Analyzer) {
		if r != nil {
			a.responder = r
		}
	}
}

// WithHistoryWindow bounds how many history turns reach the responder.
func WithHistoryWindow(n int) AnalyzerOption {
	return func(a *Analyzer) { a.normalizer = NewNormalizer(n) }
}

// NewAnalyzer wires a classifier and a store into the pipeline
func NewAnalyzer(classifier Classifier, store Store, opts ...AnalyzerOption) *Analyzer {
	a := &Analyzer{
		classifier: classifier,
		store:      store,
		normalizer: NewNormalizer(DefaultHistoryWindow),
		responder:  NewResponder(),
		builder:    NewRecordBuilder(store),
		retry:      DefaultRetryConfig(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze classifies the text and records the derived emotion.
//
// Invalid input and classification failures return no record. When the
// store rejects the record, the computed record is still returned along
// with an error matching ErrStoreWriteFailure.
func (a *Analyzer) Analyze(ctx context.Context, req AnalyzeRequest) (AnalysisRecord, error) {
	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		return AnalysisRecord{}, &InputError{Reason: "session id is required"}
	}
	cleaned, err := a.normalizer.CleanText(req.Text)
	if err != nil {
		return AnalysisRecord{}, err
	}

	var sentiment SentimentResult
	attempts, err := WithRetry(ctx, a.retry, func(ctx context.Context) error {
		var cerr error
		sentiment, cerr = a.classifier.Classify(ctx, cleaned)
		return cerr
	})
	if err != nil {
		LogError("classification failed for session %s: %v", sessionID, err)
		return AnalysisRecord{}, &ClassificationError{Provider: a.classifier.Name(), Attempts: attempts, Err: err}
	}

	emotion := MapEmotion(sentiment)
	history := a.normalizer.NormalizeHistory(req.History)

	var previous *EmotionDescriptor
	if len(history) > 0 {
		previous = a.previousEmotion(ctx, sessionID)
	}

	reply := a.responder.Respond(ResponseRequest{
		SessionID: sessionID,
		Emotion:   emotion,
		Context:   req.Context,
		History:   history,
		Previous:  previous,
	})

	rec := a.builder.Build(RecordInput{
		SessionID:    sessionID,
		OriginalText: req.Text,
		InputText:    cleaned,
		Context:      strings.TrimSpace(req.Context),
		Sentiment:    sentiment,
		Emotion:      emotion,
		Response:     reply,
	})

	Logger().Info("processed text analysis",
		"session", sessionID,
		"sentiment", sentiment.Label,
		"emotion", emotion.Category,
		"confidence", sentiment.Confidence)

	if err := a.builder.Commit(ctx, rec); err != nil {
		LogError("analysis for session %s not saved: %v", sessionID, err)
		return rec, err
	}
	return rec, nil
}

// previousEmotion returns the last stored descriptor for the session.
// Read failures only cost the shift-aware phrasing.
func (a *Analyzer) previousEmotion(ctx context.Context, sessionID string) *EmotionDescriptor {
	records, err := a.store.List(ctx, sessionID)
	if err != nil {
		LogWarn("could not load previous analysis for session %s: %v", sessionID, err)
		return nil
	}
	if len(records) == 0 {
		return nil
	}
	prev := records[len(records)-1].Emotion
	return &prev
}

// Trend recomputes the session trend from the store. Unknown sessions
// yield the empty sentinel.
func (a *Analyzer) Trend(ctx context.Context, sessionID string) (SessionTrend, error) {
	records, err := a.store.List(ctx, sessionID)
	if err != nil {
		return SessionTrend{}, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}
	return ComputeTrend(sessionID, records), nil
}

// History returns up to limit records, newest first.
func (a *Analyzer) History(ctx context.Context, sessionID string, limit int) ([]AnalysisRecord, error) {
	records, err := a.store.List(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}
	limit = ClampLimit(limit, DefaultHistoryLimit, MaxHistoryLimit)

	out := make([]AnalysisRecord, 0, min(limit, len(records)))
	for i := len(records) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, records[i])
	}
	return out, nil
}

// Records returns every record of the session, oldest first.
func (a *Analyzer) Records(ctx context.Context, sessionID string) ([]AnalysisRecord, error) {
	records, err := a.store.List(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}
	return records, nil
}

// Sessions lists session summaries, most recently active first.
func (a *Analyzer) Sessions(ctx context.Context, limit int) ([]SessionSummary, error) {
	return a.store.Sessions(ctx, ClampLimit(limit, DefaultSessionsLimit, MaxSessionsLimit))
}

// DeleteSession removes every record of the session.
func (a *Analyzer) DeleteSession(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return &InputError{Reason: "session id is required"}
	}
	if err := a.store.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session %s: %w", sessionID, err)
	}
	LogInfo("deleted session %s", sessionID)
	return nil
}
