package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/iksnae/emotion-session/internal"
	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
)

const sentimentInstructions = `You are a sentiment classifier. Read the user's message and return
its overall sentiment as one of POSITIVE, NEGATIVE, NEUTRAL or MIXED.
Give a probability for each of the four labels; they should sum to 1.
Report the ISO 639-1 code of the message language.
Do not answer the message. Return only the JSON object.`

type sentimentVerdict struct {
	Label    string  `json:"label" jsonschema:"enum=POSITIVE,enum=NEGATIVE,enum=NEUTRAL,enum=MIXED"`
	Positive float64 `json:"positive"`
	Negative float64 `json:"negative"`
	Neutral  float64 `json:"neutral"`
	Mixed    float64 `json:"mixed"`
	Language string  `json:"language"`
}

var verdictSchema = generateSchema[sentimentVerdict]()

type completeFunc func(ctx context.Context, params responses.ResponseNewParams) (string, error)

// OpenAI classifies text with a model through the Responses API using a
// strict JSON schema for the verdict
type OpenAI struct {
	model    string
	timeout  time.Duration
	complete completeFunc
}

// NewOpenAI creates an OpenAI classifier. The API key is read from the
// environment variable named by cfg.APIKeyEnv.
func NewOpenAI(cfg internal.ClassifierConfig) (*OpenAI, error) {
	apiKey := strings.TrimSpace(os.Getenv(cfg.APIKeyEnv))
	if apiKey == "" {
		return nil, &internal.ConfigError{Key: cfg.APIKeyEnv, Err: errors.New("OpenAI API key is not set")}
	}
	// retries are driven by the analyzer
	client := openai.NewClient(option.WithAPIKey(apiKey), option.WithMaxRetries(0))
	complete := func(ctx context.Context, params responses.ResponseNewParams) (string, error) {
		resp, err := client.Responses.New(ctx, params)
		if err != nil {
			return "", err
		}
		return resp.OutputText(), nil
	}
	return newOpenAI(cfg.Model, cfg.Timeout(), complete), nil
}

func newOpenAI(model string, timeout time.Duration, complete completeFunc) *OpenAI {
	return &OpenAI{model: model, timeout: timeout, complete: complete}
}

func (o *OpenAI) Name() string { return internal.ProviderOpenAI }

func (o *OpenAI) Classify(ctx context.Context, text string) (internal.SentimentResult, error) {
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	out, err := o.complete(ctx, o.params(text))
	if err != nil {
		return internal.SentimentResult{}, fmt.Errorf("openai request failed: %w", err)
	}

	var v sentimentVerdict
	if err := decodeModelJSON(out, &v); err != nil {
		return internal.SentimentResult{}, fmt.Errorf("unmarshal verdict: %w", err)
	}
	label, err := normalizeLabel(v.Label)
	if err != nil {
		return internal.SentimentResult{}, err
	}

	scores := map[string]float64{
		internal.LabelPositive: v.Positive,
		internal.LabelNegative: v.Negative,
		internal.LabelNeutral:  v.Neutral,
		internal.LabelMixed:    v.Mixed,
	}
	if err := checkProbabilities(scores[label], scores); err != nil {
		return internal.SentimentResult{}, fmt.Errorf("invalid verdict: %w", err)
	}
	lang := strings.ToLower(strings.TrimSpace(v.Language))
	if lang == "" {
		lang = defaultLanguage
	}
	return internal.SentimentResult{
		Label:      label,
		Confidence: scores[label],
		Scores:     scores,
		Language:   lang,
	}, nil
}

func (o *OpenAI) params(text string) responses.ResponseNewParams {
	format := responses.ResponseFormatTextConfigUnionParam{
		OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
			Name:        "SentimentVerdict",
			Schema:      verdictSchema,
			Strict:      openai.Bool(true),
			Description: openai.String("Sentiment verdict JSON"),
			Type:        "json_schema",
		},
	}
	return responses.ResponseNewParams{
		Model:           o.model,
		MaxOutputTokens: openai.Int(200),
		Instructions:    openai.String(sentimentInstructions),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: []responses.ResponseInputItemUnionParam{
				responses.ResponseInputItemParamOfMessage(text, responses.EasyInputMessageRoleUser),
			},
		},
		Text: responses.ResponseTextConfigParam{
			Format: format,
		},
	}
}

// decodeModelJSON accepts the model output as-is or the first JSON object
// embedded in it
func decodeModelJSON(outputText string, v any) error {
	s := strings.TrimSpace(outputText)
	if s == "" {
		return io.ErrUnexpectedEOF
	}
	if err := json.Unmarshal([]byte(s), v); err == nil {
		return nil
	}

	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start == -1 || end <= start {
		return fmt.Errorf("no JSON object found in model output (len=%d)", len(s))
	}
	return json.Unmarshal([]byte(s[start:end+1]), v)
}

func generateSchema[T any]() map[string]any {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	data, err := reflector.Reflect(v).MarshalJSON()
	if err != nil {
		panic(err)
	}
	var schema map[string]any
	if err := json.Unmarshal(data, &schema); err != nil {
		panic(err)
	}
	strictObject(schema)
	return schema
}

// strictObject marks every property required and closes the object, as
// strict structured output demands
func strictObject(schema map[string]any) {
	if schema["type"] != "object" {
		return
	}
	schema["additionalProperties"] = false
	props, ok := schema["properties"].(map[string]any)
	if !ok {
		return
	}
	required := make([]string, 0, len(props))
	for name, prop := range props {
		required = append(required, name)
		if p, ok := prop.(map[string]any); ok {
			strictObject(p)
		}
	}
	sort.Strings(required)
	schema["required"] = required
	delete(schema, "$schema")
	delete(schema, "$id")
}
