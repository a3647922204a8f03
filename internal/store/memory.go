package store

import (
	"context"
	"sort"
	"sync"

	"github.com/iksnae/emotion-session/internal"
)

// MemoryStore keeps records in process memory
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*memorySession
}

type memorySession struct {
	summary internal.SessionSummary
	records []internal.AnalysisRecord
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*memorySession)}
}

func (m *MemoryStore) Append(ctx context.Context, sessionID string, rec internal.AnalysisRecord) error {
	if err := ctx.Err(); err != nil {
		return &internal.StorageError{Backend: internal.BackendMemory, Op: "append", SessionID: sessionID, Err: err}
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[sessionID]
	if !ok {
		s = &memorySession{summary: internal.SessionSummary{SessionID: sessionID, CreatedAt: rec.Timestamp}}
		m.sessions[sessionID] = s
	}
	s.records = append(s.records, rec)
	s.summary.LastActivity = rec.Timestamp
	s.summary.TotalAnalyses = len(s.records)
	return nil
}

func (m *MemoryStore) List(ctx context.Context, sessionID string) ([]internal.AnalysisRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[sessionID]
	if !ok {
		return []internal.AnalysisRecord{}, nil
	}
	return append([]internal.AnalysisRecord(nil), s.records...), nil
}

func (m *MemoryStore) Delete(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
	return nil
}

func (m *MemoryStore) Sessions(ctx context.Context, limit int) ([]internal.SessionSummary, error) {
	m.mu.RLock()
	summaries := make([]internal.SessionSummary, 0, len(m.sessions))
	for _, s := range m.sessions {
		summaries = append(summaries, s.summary)
	}
	m.mu.RUnlock()

	return sortSummaries(summaries, limit), nil
}

func (m *MemoryStore) Close() error { return nil }

// sortSummaries orders by most recent activity and applies limit
func sortSummaries(summaries []internal.SessionSummary, limit int) []internal.SessionSummary {
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].LastActivity.Equal(summaries[j].LastActivity) {
			return summaries[i].SessionID < summaries[j].SessionID
		}
		return summaries[i].LastActivity.After(summaries[j].LastActivity)
	})
	limit = internal.ClampLimit(limit, internal.DefaultSessionsLimit, internal.MaxSessionsLimit)
	if len(summaries) > limit {
		summaries = summaries[:limit]
	}
	return summaries
}
