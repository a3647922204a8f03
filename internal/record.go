package internal

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// RecordInput is what the builder composes into an AnalysisRecord
type RecordInput struct {
	SessionID    string
	OriginalText string
	InputText    string
	Context      string
	Sentiment    SentimentResult
	Emotion      EmotionDescriptor
	Response     string
}

// RecordBuilder stamps records and is the only path to the store
type RecordBuilder struct {
	store Store
	now   func() time.Time
	newID func() string

	mu   sync.Mutex
	last time.Time
}

// NewRecordBuilder creates a builder writing to store
func NewRecordBuilder(store Store) *RecordBuilder {
	return &RecordBuilder{
		store: store,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Build composes a record. Timestamps are UTC with microsecond precision
// and never go backwards across calls on the same builder.
func (b *RecordBuilder) Build(in RecordInput) AnalysisRecord {
	return AnalysisRecord{
		ID:               b.newID(),
		SessionID:        in.SessionID,
		InputText:        in.InputText,
		OriginalText:     in.OriginalText,
		Context:          in.Context,
		Sentiment:        in.Sentiment,
		Emotion:          in.Emotion,
		AdaptiveResponse: in.Response,
		Confidence:       in.Sentiment.Confidence,
		Timestamp:        b.stamp(),
	}
}

func (b *RecordBuilder) stamp() time.Time {
	b.mu.Lock()
	defer b.mu.Unlock()

	ts := b.now().UTC().Truncate(time.Microsecond)
	if !ts.After(b.last) {
		ts = b.last.Add(time.Microsecond)
	}
	b.last = ts
	return ts
}

// Commit forwards rec to the store. A failure wraps ErrStoreWriteFailure;
// the record is then not considered saved.
func (b *RecordBuilder) Commit(ctx context.Context, rec AnalysisRecord) error {
	if err := b.store.Append(ctx, rec.SessionID, rec); err != nil {
		return fmt.Errorf("%w: %w", ErrStoreWriteFailure, err)
	}
	return nil
}
