package cmd

import (
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iksnae/emotion-session/internal"
	"github.com/iksnae/emotion-session/internal/export"
	"github.com/iksnae/emotion-session/testutil"
)

func TestAnalyzeCommand_JSON(t *testing.T) {
	resetCommandState(t)
	dir := t.TempDir()

	out, err := runCommand(t, offlineArgs(dir, "analyze", "--session", "s1", "--json", "I love this,", "it is wonderful")...)
	if err != nil {
		t.Fatalf("analyze error = %v", err)
	}

	var rec internal.AnalysisRecord
	if err := json.Unmarshal([]byte(out), &rec); err != nil {
		t.Fatalf("analyze output is not a JSON record: %v\n%s", err, out)
	}
	if rec.SessionID != "s1" {
		t.Errorf("SessionID = %q, want s1", rec.SessionID)
	}
	if rec.Sentiment.Label != internal.LabelPositive {
		t.Errorf("Sentiment.Label = %q, want %q", rec.Sentiment.Label, internal.LabelPositive)
	}
	if rec.Emotion.Category != internal.CategoryJoy {
		t.Errorf("Emotion.Category = %q, want %q", rec.Emotion.Category, internal.CategoryJoy)
	}
	if rec.Emotion.Valence != 0.8 {
		t.Errorf("Emotion.Valence = %v, want 0.8", rec.Emotion.Valence)
	}
	if rec.AdaptiveResponse == "" {
		t.Error("AdaptiveResponse is empty")
	}
}

func TestAnalyzeCommand_GeneratesSessionID(t *testing.T) {
	resetCommandState(t)
	dir := t.TempDir()

	out, err := runCommand(t, offlineArgs(dir, "analyze", "--json", "The meeting is at three")...)
	if err != nil {
		t.Fatalf("analyze error = %v", err)
	}
	var rec internal.AnalysisRecord
	if err := json.Unmarshal([]byte(out), &rec); err != nil {
		t.Fatalf("analyze output is not a JSON record: %v", err)
	}
	if len(rec.SessionID) != 36 {
		t.Errorf("SessionID = %q, want a generated UUID", rec.SessionID)
	}
}

func TestAnalyzeCommand_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{"blank text", []string{"analyze", "--session", "s1", "   "}, internal.ErrInvalidInput},
		{"blank session", []string{"analyze", "--session", " ", "hello"}, internal.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetCommandState(t)
			_, err := runCommand(t, offlineArgs(t.TempDir(), tt.args...)...)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("analyze error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	t.Run("missing text", func(t *testing.T) {
		resetCommandState(t)
		if _, err := runCommand(t, offlineArgs(t.TempDir(), "analyze")...); err == nil {
			t.Error("analyze without text should fail")
		}
	})
}

func TestSessionCommands_Flow(t *testing.T) {
	dir := t.TempDir()
	texts := []string{"first great day", "second awful day", "third meeting at noon"}
	for _, text := range texts {
		resetCommandState(t)
		if _, err := runCommand(t, offlineArgs(dir, "analyze", "--session", "flow", text)...); err != nil {
			t.Fatalf("analyze %q error = %v", text, err)
		}
	}

	t.Run("history newest first with limit", func(t *testing.T) {
		resetCommandState(t)
		out, err := runCommand(t, offlineArgs(dir, "history", "flow", "--limit", "2")...)
		if err != nil {
			t.Fatalf("history error = %v", err)
		}
		if strings.Contains(out, "first great day") {
			t.Errorf("history output contains the oldest analysis beyond the limit:\n%s", out)
		}
		third, second := strings.Index(out, "third meeting at noon"), strings.Index(out, "second awful day")
		if third < 0 || second < 0 || third > second {
			t.Errorf("history output not newest first:\n%s", out)
		}
	})

	t.Run("trend", func(t *testing.T) {
		resetCommandState(t)
		out, err := runCommand(t, offlineArgs(dir, "trend", "flow")...)
		if err != nil {
			t.Fatalf("trend error = %v", err)
		}
		// 0.8, -0.8 and 0 average to a neutral session moving up from -0.8
		for _, want := range []string{internal.TrendNeutral, internal.ShiftImproving, "3"} {
			if !strings.Contains(out, want) {
				t.Errorf("trend output missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("sessions", func(t *testing.T) {
		resetCommandState(t)
		out, err := runCommand(t, offlineArgs(dir, "sessions")...)
		if err != nil {
			t.Fatalf("sessions error = %v", err)
		}
		if !strings.Contains(out, "Found 1 session(s)") || !strings.Contains(out, "flow") {
			t.Errorf("sessions output = %q", out)
		}
	})

	t.Run("delete", func(t *testing.T) {
		resetCommandState(t)
		if _, err := runCommand(t, offlineArgs(dir, "delete", "flow", "--yes")...); err != nil {
			t.Fatalf("delete error = %v", err)
		}
		resetCommandState(t)
		out, err := runCommand(t, offlineArgs(dir, "trend", "flow")...)
		if err != nil {
			t.Fatalf("trend error = %v", err)
		}
		if !strings.Contains(out, internal.TrendNone) {
			t.Errorf("trend after delete = %q, want %s", out, internal.TrendNone)
		}
	})
}

func TestDeleteCommand_Declined(t *testing.T) {
	dir := t.TempDir()
	resetCommandState(t)
	if _, err := runCommand(t, offlineArgs(dir, "analyze", "--session", "keep", "great news")...); err != nil {
		t.Fatalf("analyze error = %v", err)
	}

	resetCommandState(t)
	p := &scriptedPrompter{confirm: false}
	prompts = p
	out, err := runCommand(t, offlineArgs(dir, "delete", "keep")...)
	if err != nil {
		t.Fatalf("delete error = %v", err)
	}
	if len(p.asked) != 1 {
		t.Errorf("delete asked %d question(s), want 1", len(p.asked))
	}
	if !strings.Contains(out, "Aborted") {
		t.Errorf("delete output = %q, want Aborted", out)
	}

	resetCommandState(t)
	out, err = runCommand(t, offlineArgs(dir, "sessions")...)
	if err != nil {
		t.Fatalf("sessions error = %v", err)
	}
	if !strings.Contains(out, "keep") {
		t.Errorf("session was deleted despite declining:\n%s", out)
	}
}

func TestChatCommand(t *testing.T) {
	resetCommandState(t)
	dir := t.TempDir()
	prompts = &scriptedPrompter{lines: []string{
		"I love this, it is wonderful",
		"This is awful and I am so tired",
		"/quit",
		"never read",
	}}

	out, err := runCommand(t, offlineArgs(dir, "chat", "--session", "chat-1")...)
	if err != nil {
		t.Fatalf("chat error = %v", err)
	}
	for _, want := range []string{"chat-1", internal.CategoryJoy, internal.CategorySadness, internal.TrendNeutral, internal.ShiftWorsening} {
		if !strings.Contains(out, want) {
			t.Errorf("chat output missing %q:\n%s", want, out)
		}
	}

	resetCommandState(t)
	out, err = runCommand(t, offlineArgs(dir, "history", "chat-1")...)
	if err != nil {
		t.Fatalf("history error = %v", err)
	}
	if !strings.Contains(out, "2 analysis(es)") {
		t.Errorf("history after chat = %q, want 2 analyses", out)
	}
}

func TestAppendExchange(t *testing.T) {
	history := appendExchange(nil, "I love this", "That's wonderful to hear!")
	history = appendExchange(history, "now I'm tired", "Rest sounds earned.")

	want := []internal.ConversationTurn{
		{Role: internal.RoleUser, Text: "I love this"},
		{Role: internal.RoleAssistant, Text: "That's wonderful to hear!"},
		{Role: internal.RoleUser, Text: "now I'm tired"},
		{Role: internal.RoleAssistant, Text: "Rest sounds earned."},
	}
	got := internal.NewNormalizer(len(want)).NormalizeHistory(history)
	if len(got) != len(want) {
		t.Fatalf("NormalizeHistory(appendExchange()) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("turn %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestChatCommand_EndsOnEOF(t *testing.T) {
	resetCommandState(t)
	prompts = &scriptedPrompter{}

	out, err := runCommand(t, offlineArgs(t.TempDir(), "chat")...)
	if err != nil {
		t.Fatalf("chat error = %v", err)
	}
	if strings.Contains(out, "Trend for") {
		t.Errorf("chat without input printed a trend:\n%s", out)
	}
}

func TestExportCommand(t *testing.T) {
	dir := t.TempDir()
	resetCommandState(t)
	if _, err := runCommand(t, offlineArgs(dir, "analyze", "--session", "exp", "I love this")...); err != nil {
		t.Fatalf("analyze error = %v", err)
	}

	t.Run("compressed markdown", func(t *testing.T) {
		resetCommandState(t)
		outDir := filepath.Join(dir, "exports")
		out, err := runCommand(t, offlineArgs(dir, "export", "--session", "exp", "--format", "md", "--out", outDir, "--compress")...)
		if err != nil {
			t.Fatalf("export error = %v", err)
		}
		if !strings.Contains(out, "1 session(s) exported") {
			t.Errorf("export output = %q", out)
		}

		f, err := os.Open(filepath.Join(outDir, "session_exp.md.zst"))
		if err != nil {
			t.Fatalf("exported file missing: %v", err)
		}
		defer f.Close()
		r, err := export.Decompress(f)
		if err != nil {
			t.Fatalf("Decompress() error = %v", err)
		}
		defer r.Close()
		data, err := io.ReadAll(r)
		if err != nil {
			t.Fatalf("read export: %v", err)
		}
		for _, want := range []string{"# Session exp", internal.CategoryJoy, "> I love this"} {
			if !strings.Contains(string(data), want) {
				t.Errorf("export missing %q:\n%s", want, data)
			}
		}
	})

	t.Run("all sessions as jsonl", func(t *testing.T) {
		resetCommandState(t)
		outDir := filepath.Join(dir, "all")
		if _, err := runCommand(t, offlineArgs(dir, "export", "--out", outDir)...); err != nil {
			t.Fatalf("export error = %v", err)
		}
		if _, err := os.Stat(filepath.Join(outDir, "session_exp.jsonl")); err != nil {
			t.Errorf("jsonl export missing: %v", err)
		}
	})

	t.Run("unknown session", func(t *testing.T) {
		resetCommandState(t)
		_, err := runCommand(t, offlineArgs(dir, "export", "--session", "nope", "--out", filepath.Join(dir, "x"))...)
		if err == nil || !strings.Contains(err.Error(), "session not found") {
			t.Errorf("export error = %v, want session not found", err)
		}
	})

	t.Run("unsupported format", func(t *testing.T) {
		resetCommandState(t)
		_, err := runCommand(t, offlineArgs(dir, "export", "--format", "pdf")...)
		var exportErr *internal.ExportError
		if !errors.As(err, &exportErr) {
			t.Errorf("export error = %v, want *internal.ExportError", err)
		}
	})
}

func TestHealthcheckCommand(t *testing.T) {
	t.Run("healthy offline stack", func(t *testing.T) {
		resetCommandState(t)
		out, err := runCommand(t, offlineArgs(t.TempDir(), "healthcheck", "--details")...)
		if err != nil {
			t.Fatalf("healthcheck error = %v\n%s", err, out)
		}
		for _, want := range []string{"sqlite store reachable", "lexicon classifier answered", "All checks passed"} {
			if !strings.Contains(out, want) {
				t.Errorf("healthcheck output missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("config file", func(t *testing.T) {
		resetCommandState(t)
		path := testutil.CreateConfigFixture(t, t.TempDir())
		out, err := runCommand(t, "--config", path, "healthcheck", "--details")
		if err != nil {
			t.Fatalf("healthcheck error = %v\n%s", err, out)
		}
		if !strings.Contains(out, path) || !strings.Contains(out, "Store: memory") {
			t.Errorf("healthcheck output = %q, want config %s with memory store", out, path)
		}
	})

	t.Run("unreachable store", func(t *testing.T) {
		resetCommandState(t)
		dir := t.TempDir()
		blocker := testutil.WriteFile(t, dir, "blocker", []byte("not a directory"))
		out, err := runCommand(t,
			"--store", internal.BackendSQLite,
			"--store-path", filepath.Join(blocker, "emotion.db"),
			"--classifier", internal.ProviderLexicon,
			"healthcheck", "--skip-classifier")
		if err == nil {
			t.Fatal("healthcheck error = nil, want failure")
		}
		if !strings.Contains(out, "Store check failed") || !strings.Contains(out, "Classifier check skipped") {
			t.Errorf("healthcheck output = %q", out)
		}
	})
}
