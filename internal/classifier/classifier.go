// Package classifier provides the sentiment providers behind
// internal.Classifier.
package classifier

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/iksnae/emotion-session/internal"
)

// New creates the classifier selected by cfg.Provider
func New(ctx context.Context, cfg internal.ClassifierConfig) (internal.Classifier, error) {
	switch cfg.Provider {
	case internal.ProviderComprehend:
		return NewComprehend(ctx, cfg)
	case internal.ProviderOpenAI:
		return NewOpenAI(cfg)
	case internal.ProviderHTTP:
		return NewHTTP(cfg), nil
	case internal.ProviderLexicon:
		return NewLexicon(), nil
	default:
		return nil, &internal.ConfigError{
			Key: "classifier.provider",
			Err: fmt.Errorf("%w: %q", internal.ErrUnknownBackend, cfg.Provider),
		}
	}
}

// normalizeLabel upper-cases a provider label and checks it is known
func normalizeLabel(label string) (string, error) {
	l := strings.ToUpper(strings.TrimSpace(label))
	for _, known := range internal.Labels() {
		if l == known {
			return l, nil
		}
	}
	return "", fmt.Errorf("unknown sentiment label %q", label)
}

// maxScore returns the highest score, or 0 when there are none
func maxScore(scores map[string]float64) float64 {
	best := 0.0
	for _, s := range scores {
		if s > best {
			best = s
		}
	}
	return best
}

func round4(f float64) float64 {
	return math.Round(f*10000) / 10000
}

// checkProbabilities rejects a confidence or score outside [0, 1]
func checkProbabilities(confidence float64, scores map[string]float64) error {
	if math.IsNaN(confidence) || confidence < 0 || confidence > 1 {
		return fmt.Errorf("confidence %v outside [0, 1]", confidence)
	}
	for label, s := range scores {
		if math.IsNaN(s) || s < 0 || s > 1 {
			return fmt.Errorf("score %v for %s outside [0, 1]", s, label)
		}
	}
	return nil
}
