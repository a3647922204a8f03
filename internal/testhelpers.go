package internal

import (
	"context"
	"sort"
	"sync"
	"time"
)

// StubClassifier returns scripted results. Errs are returned first, one
// per call; afterwards Results are returned in order, the last one repeating.
type StubClassifier struct {
	mu      sync.Mutex
	Results []SentimentResult
	Errs    []error
	Texts   []string
}

// NewStubClassifier creates a classifier always answering with results
func NewStubClassifier(results ...SentimentResult) *StubClassifier {
	return &StubClassifier{Results: results}
}

func (s *StubClassifier) Classify(ctx context.Context, text string) (SentimentResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	call := len(s.Texts)
	s.Texts = append(s.Texts, text)
	if call < len(s.Errs) {
		return SentimentResult{}, s.Errs[call]
	}
	if len(s.Results) == 0 {
		return SentimentResult{Label: LabelNeutral, Confidence: 1, Language: "en"}, nil
	}
	idx := call - len(s.Errs)
	if idx >= len(s.Results) {
		idx = len(s.Results) - 1
	}
	return s.Results[idx], nil
}

func (s *StubClassifier) Name() string { return "stub" }

// Calls returns how many times Classify ran.
func (s *StubClassifier) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Texts)
}

// FakeStore is a map-backed Store with injectable failures
type FakeStore struct {
	mu        sync.Mutex
	records   map[string][]AnalysisRecord
	AppendErr error
	ListErr   error
}

// NewFakeStore creates an empty FakeStore
func NewFakeStore() *FakeStore {
	return &FakeStore{records: make(map[string][]AnalysisRecord)}
}

func (f *FakeStore) Append(ctx context.Context, sessionID string, rec AnalysisRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.AppendErr != nil {
		return f.AppendErr
	}
	f.records[sessionID] = append(f.records[sessionID], rec)
	return nil
}

func (f *FakeStore) List(ctx context.Context, sessionID string) ([]AnalysisRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	return append([]AnalysisRecord(nil), f.records[sessionID]...), nil
}

func (f *FakeStore) Delete(ctx context.Context, sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.records, sessionID)
	return nil
}

func (f *FakeStore) Sessions(ctx context.Context, limit int) ([]SessionSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	summaries := make([]SessionSummary, 0, len(f.records))
	for id, recs := range f.records {
		if len(recs) == 0 {
			continue
		}
		summaries = append(summaries, SessionSummary{
			SessionID:     id,
			CreatedAt:     recs[0].Timestamp,
			LastActivity:  recs[len(recs)-1].Timestamp,
			TotalAnalyses: len(recs),
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].LastActivity.After(summaries[j].LastActivity)
	})
	if limit > 0 && len(summaries) > limit {
		summaries = summaries[:limit]
	}
	return summaries, nil
}

func (f *FakeStore) Close() error { return nil }

// CreateTestRecord creates a fully populated record for the given label
func CreateTestRecord(sessionID, text, label string, confidence float64, ts time.Time) AnalysisRecord {
	sentiment := SentimentResult{
		Label:      label,
		Confidence: confidence,
		Scores:     map[string]float64{label: confidence},
		Language:   "en",
	}
	return AnalysisRecord{
		ID:               sessionID + "-" + ts.Format("150405.000000"),
		SessionID:        sessionID,
		InputText:        text,
		OriginalText:     text,
		Sentiment:        sentiment,
		Emotion:          MapEmotion(sentiment),
		AdaptiveResponse: FallbackReply,
		Confidence:       confidence,
		Timestamp:        ts.UTC(),
	}
}
