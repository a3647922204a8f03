package classifier

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/comprehend"
	"github.com/aws/aws-sdk-go-v2/service/comprehend/types"
	"github.com/iksnae/emotion-session/internal"
)

const defaultLanguage = "en"

// ComprehendAPI is the subset of the Comprehend client used here
type ComprehendAPI interface {
	DetectDominantLanguage(ctx context.Context, params *comprehend.DetectDominantLanguageInput, optFns ...func(*comprehend.Options)) (*comprehend.DetectDominantLanguageOutput, error)
	DetectSentiment(ctx context.Context, params *comprehend.DetectSentimentInput, optFns ...func(*comprehend.Options)) (*comprehend.DetectSentimentOutput, error)
}

// Comprehend classifies text with Amazon Comprehend. The dominant language
// is detected first and used for the sentiment call.
type Comprehend struct {
	client  ComprehendAPI
	timeout time.Duration
}

// NewComprehend creates a Comprehend classifier from the default AWS
// credential chain
func NewComprehend(ctx context.Context, cfg internal.ClassifierConfig) (*Comprehend, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, &internal.ConfigError{Key: "classifier.region", Err: fmt.Errorf("failed to load AWS config: %w", err)}
	}
	return NewComprehendWithClient(comprehend.NewFromConfig(awsCfg), cfg.Timeout()), nil
}

// NewComprehendWithClient wraps an existing client
func NewComprehendWithClient(client ComprehendAPI, timeout time.Duration) *Comprehend {
	return &Comprehend{client: client, timeout: timeout}
}

func (c *Comprehend) Name() string { return internal.ProviderComprehend }

func (c *Comprehend) Classify(ctx context.Context, text string) (internal.SentimentResult, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	lang := c.detectLanguage(ctx, text)

	out, err := c.client.DetectSentiment(ctx, &comprehend.DetectSentimentInput{
		Text:         aws.String(text),
		LanguageCode: types.LanguageCode(lang),
	})
	if err != nil {
		return internal.SentimentResult{}, fmt.Errorf("comprehend sentiment detection failed: %w", err)
	}

	label, err := normalizeLabel(string(out.Sentiment))
	if err != nil {
		return internal.SentimentResult{}, err
	}

	scores := map[string]float64{}
	if s := out.SentimentScore; s != nil {
		scores[internal.LabelPositive] = float64(aws.ToFloat32(s.Positive))
		scores[internal.LabelNegative] = float64(aws.ToFloat32(s.Negative))
		scores[internal.LabelNeutral] = float64(aws.ToFloat32(s.Neutral))
		scores[internal.LabelMixed] = float64(aws.ToFloat32(s.Mixed))
	}

	return internal.SentimentResult{
		Label:      label,
		Confidence: maxScore(scores),
		Scores:     scores,
		Language:   lang,
	}, nil
}

// detectLanguage falls back to English when detection fails
func (c *Comprehend) detectLanguage(ctx context.Context, text string) string {
	out, err := c.client.DetectDominantLanguage(ctx, &comprehend.DetectDominantLanguageInput{
		Text: aws.String(text),
	})
	if err != nil {
		internal.LogWarn("Language detection failed, assuming %s: %v", defaultLanguage, err)
		return defaultLanguage
	}
	if len(out.Languages) == 0 || aws.ToString(out.Languages[0].LanguageCode) == "" {
		return defaultLanguage
	}
	return aws.ToString(out.Languages[0].LanguageCode)
}
