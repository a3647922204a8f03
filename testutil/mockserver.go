package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// SentimentServer is an httptest server speaking the HTTP classifier
// protocol: POST /sentiment {"text": ...} answered with a verdict
type SentimentServer struct {
	*httptest.Server

	mu        sync.Mutex
	replies   map[string]Utterance
	failFirst int
	requests  []string
}

// NewSentimentServer starts a server answering texts found in replies with
// their scripted verdict and anything else as NEUTRAL. The server is closed
// when the test ends.
func NewSentimentServer(t *testing.T, replies ...Utterance) *SentimentServer {
	t.Helper()
	s := &SentimentServer{replies: make(map[string]Utterance)}
	for _, u := range replies {
		s.replies[u.Text] = u
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

// FailFirst makes the next n requests answer 503
func (s *SentimentServer) FailFirst(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failFirst = n
}

// Requests returns the texts received so far
func (s *SentimentServer) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

func (s *SentimentServer) handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost || r.URL.Path != "/sentiment" {
		http.NotFound(w, r)
		return
	}
	var body struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Text == "" {
		http.Error(w, `{"error":"text is required"}`, http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.requests = append(s.requests, body.Text)
	fail := s.failFirst > 0
	if fail {
		s.failFirst--
	}
	u, ok := s.replies[body.Text]
	s.mu.Unlock()

	if fail {
		http.Error(w, `{"error":"warming up"}`, http.StatusServiceUnavailable)
		return
	}
	if !ok {
		u = Utterance{Text: body.Text, Label: "NEUTRAL", Confidence: 0.9}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"label":      u.Label,
		"confidence": u.Confidence,
		"scores":     u.Scores,
		"language":   "en",
	})
}
