package classifier

import (
	"context"
	"testing"

	"github.com/iksnae/emotion-session/internal"
)

func TestLexicon_Classify(t *testing.T) {
	tests := []struct {
		name           string
		text           string
		wantLabel      string
		wantConfidence float64
	}{
		{"positive", "I love this, it is wonderful", internal.LabelPositive, 1},
		{"negative", "This is awful and I am so tired", internal.LabelNegative, 1},
		{"neutral", "The meeting is at three", internal.LabelNeutral, 0.9},
		{"negated positive", "I am not happy", internal.LabelNegative, 1},
		{"negated negative", "Honestly it was not bad", internal.LabelPositive, 1},
		{"balanced", "Happy about the job but worried about moving", internal.LabelMixed, 1},
		{"quoted words", "'great' news", internal.LabelPositive, 1},
	}

	l := NewLexicon()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := l.Classify(context.Background(), tt.text)
			if err != nil {
				t.Fatalf("Classify() error = %v", err)
			}
			if got.Label != tt.wantLabel {
				t.Errorf("Classify(%q) label = %q, want %q", tt.text, got.Label, tt.wantLabel)
			}
			if got.Confidence != tt.wantConfidence {
				t.Errorf("Classify(%q) confidence = %v, want %v", tt.text, got.Confidence, tt.wantConfidence)
			}
			if got.Language != "en" {
				t.Errorf("Classify() language = %q, want en", got.Language)
			}
		})
	}
}

func TestLexicon_Deterministic(t *testing.T) {
	l := NewLexicon()
	text := "great day but I'm anxious and tired"
	first, _ := l.Classify(context.Background(), text)
	for i := 0; i < 5; i++ {
		got, _ := l.Classify(context.Background(), text)
		if got.Label != first.Label || got.Confidence != first.Confidence {
			t.Fatalf("Classify() = %+v, want %+v", got, first)
		}
	}
}

func TestLexiconScores_SumToOne(t *testing.T) {
	for _, c := range [][2]float64{{0, 0}, {1, 0}, {0, 3}, {2, 1}, {4, 1}, {2, 2}} {
		scores := lexiconScores(c[0], c[1])
		sum := 0.0
		for _, s := range scores {
			sum += s
		}
		if sum < 0.999 || sum > 1.001 {
			t.Errorf("lexiconScores(%v, %v) sums to %v, want 1", c[0], c[1], sum)
		}
	}
}

func TestLexicon_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewLexicon().Classify(ctx, "hello"); err == nil {
		t.Error("Classify() error = nil, want context error")
	}
}
