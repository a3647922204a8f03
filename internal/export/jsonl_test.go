package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/iksnae/emotion-session/internal"
)

func TestJSONLExporter_Export(t *testing.T) {
	tests := []struct {
		name      string
		session   *SessionExport
		wantLines int
	}{
		{name: "two analyses", session: sampleExport(), wantLines: 2},
		{name: "empty session", session: NewSessionExport("empty", nil), wantLines: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := (&JSONLExporter{}).Export(tt.session, &buf); err != nil {
				t.Fatalf("Export() error = %v", err)
			}

			out := strings.TrimRight(buf.String(), "\n")
			var lines []string
			if out != "" {
				lines = strings.Split(out, "\n")
			}
			if len(lines) != tt.wantLines {
				t.Fatalf("Export() wrote %d lines, want %d", len(lines), tt.wantLines)
			}
			for i, line := range lines {
				var obj map[string]interface{}
				if err := json.Unmarshal([]byte(line), &obj); err != nil {
					t.Fatalf("line %d is not valid JSON: %v", i, err)
				}
				for _, key := range []string{"session_id", "timestamp", "text", "sentiment", "emotion", "valence", "response"} {
					if _, ok := obj[key]; !ok {
						t.Errorf("line %d missing %q", i, key)
					}
				}
			}
		})
	}
}

func TestJSONLExporter_FallsBackToInputText(t *testing.T) {
	rec := internal.CreateTestRecord("s", "cleaned text", internal.LabelNeutral, 1, exportTime)
	rec.OriginalText = ""

	var buf bytes.Buffer
	if err := (&JSONLExporter{}).Export(NewSessionExport("s", []internal.AnalysisRecord{rec}), &buf); err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if !strings.Contains(buf.String(), `"text":"cleaned text"`) {
		t.Errorf("Export() = %s, want input text", buf.String())
	}
}
