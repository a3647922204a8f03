package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/iksnae/emotion-session/internal"
)

const maxBodyBytes = 1 << 20

type analyzeRequest struct {
	Text                string        `json:"text"`
	SessionID           string        `json:"session_id"`
	Context             string        `json:"context"`
	ConversationHistory []historyTurn `json:"conversation_history"`
}

// historyTurn accepts both {"role","text"} and {"role","content"}
type historyTurn struct {
	Role    string `json:"role"`
	Text    string `json:"text"`
	Content string `json:"content"`
}

type analyzeResponse struct {
	Success   bool                    `json:"success"`
	Saved     bool                    `json:"saved"`
	Analysis  internal.AnalysisRecord `json:"analysis"`
	SessionID string                  `json:"session_id"`
	Error     string                  `json:"error,omitempty"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

func newSessionID() string {
	return uuid.NewString()
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Emotion Detection API",
		"version": s.version,
		"endpoints": map[string]string{
			"analyze":  "/analyze",
			"history":  "/history/{session_id}",
			"trends":   "/trends/{session_id}",
			"sessions": "/sessions",
			"delete":   "/sessions/{session_id}",
			"health":   "/health",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": s.now().UTC().Format(time.RFC3339Nano),
	})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", fmt.Sprintf("invalid JSON body: %v", err))
		return
	}

	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = s.newID()
	}

	history := make([]internal.ConversationTurn, 0, len(req.ConversationHistory))
	for _, h := range req.ConversationHistory {
		text := h.Text
		if text == "" {
			text = h.Content
		}
		history = append(history, internal.ConversationTurn{Role: h.Role, Text: text})
	}

	rec, err := s.analyzer.Analyze(r.Context(), internal.AnalyzeRequest{
		Text:      req.Text,
		SessionID: sessionID,
		Context:   req.Context,
		History:   history,
	})

	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, analyzeResponse{Success: true, Saved: true, Analysis: rec, SessionID: sessionID})
	case errors.Is(err, internal.ErrStoreWriteFailure):
		writeJSON(w, http.StatusInternalServerError, analyzeResponse{
			Success:   false,
			Saved:     false,
			Analysis:  rec,
			SessionID: sessionID,
			Error:     "store_write_failure",
		})
	default:
		writeAnalyzerError(w, err)
	}
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["session_id"]
	limit, err := queryLimit(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", err.Error())
		return
	}

	records, err := s.analyzer.History(r.Context(), sessionID, limit)
	if err != nil {
		writeAnalyzerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"session_id":     sessionID,
		"total_analyses": len(records),
		"history":        records,
	})
}

func (s *Server) handleTrend(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["session_id"]
	trend, err := s.analyzer.Trend(r.Context(), sessionID)
	if err != nil {
		writeAnalyzerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"session_id":     sessionID,
		"trends":         trend,
		"total_analyses": trend.TotalAnalyses,
	})
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	limit, err := queryLimit(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", err.Error())
		return
	}
	sessions, err := s.analyzer.Sessions(r.Context(), limit)
	if err != nil {
		writeAnalyzerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"total_sessions": len(sessions),
		"sessions":       sessions,
	})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["session_id"]
	if err := s.analyzer.DeleteSession(r.Context(), sessionID); err != nil {
		writeAnalyzerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Session %s and all analyses deleted successfully", sessionID),
	})
}

func queryLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("limit must be an integer, got %q", raw)
	}
	return n, nil
}

// writeAnalyzerError maps the error taxonomy onto status codes
func writeAnalyzerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, internal.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "invalid_input", err.Error())
	case errors.Is(err, internal.ErrClassificationUnavailable):
		writeError(w, http.StatusServiceUnavailable, "classification_unavailable", err.Error())
	default:
		internal.LogError("request failed: %v", err)
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	writeJSON(w, status, errorResponse{Error: code, Detail: detail})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		internal.LogDebug("failed to write response: %v", err)
	}
}
