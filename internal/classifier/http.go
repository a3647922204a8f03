package classifier

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/iksnae/emotion-session/internal"
)

type sentimentRequest struct {
	Text string `json:"text"`
}

type sentimentResponse struct {
	Label      string             `json:"label"`
	Confidence *float64           `json:"confidence"`
	Scores     map[string]float64 `json:"scores"`
	Language   string             `json:"language"`
}

// HTTP classifies text by POSTing it to {base_url}/sentiment on a JSON
// sentiment service
type HTTP struct {
	client *resty.Client
}

// NewHTTP creates an HTTP classifier for cfg.BaseURL
func NewHTTP(cfg internal.ClassifierConfig) *HTTP {
	client := resty.New()
	client.SetBaseURL(strings.TrimRight(cfg.BaseURL, "/"))
	client.SetTimeout(cfg.Timeout())
	client.SetHeader("User-Agent", "emotion-session/1.0")
	client.SetHeader("Accept", "application/json")
	return &HTTP{client: client}
}

func (h *HTTP) Name() string { return internal.ProviderHTTP }

func (h *HTTP) Classify(ctx context.Context, text string) (internal.SentimentResult, error) {
	var out sentimentResponse
	resp, err := h.client.R().
		SetContext(ctx).
		SetBody(sentimentRequest{Text: text}).
		SetResult(&out).
		Post("/sentiment")
	if err != nil {
		return internal.SentimentResult{}, fmt.Errorf("failed to reach sentiment service: %w", err)
	}
	if resp.StatusCode() != 200 {
		return internal.SentimentResult{}, fmt.Errorf("HTTP error %d from sentiment service", resp.StatusCode())
	}

	label, err := normalizeLabel(out.Label)
	if err != nil {
		return internal.SentimentResult{}, err
	}

	scores := make(map[string]float64, len(out.Scores))
	for k, v := range out.Scores {
		if l, err := normalizeLabel(k); err == nil {
			scores[l] = v
		}
	}

	confidence := maxScore(scores)
	if out.Confidence != nil {
		confidence = *out.Confidence
	}
	if err := checkProbabilities(confidence, scores); err != nil {
		return internal.SentimentResult{}, fmt.Errorf("invalid verdict from sentiment service: %w", err)
	}
	lang := out.Language
	if lang == "" {
		lang = defaultLanguage
	}
	return internal.SentimentResult{
		Label:      label,
		Confidence: confidence,
		Scores:     scores,
		Language:   lang,
	}, nil
}
