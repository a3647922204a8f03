package classifier

import (
	"context"
	"errors"
	"testing"

	"github.com/iksnae/emotion-session/internal"
	"github.com/openai/openai-go/responses"
)

func TestOpenAI_Classify(t *testing.T) {
	tests := []struct {
		name      string
		output    string
		callErr   error
		wantLabel string
		wantConf  float64
		wantLang  string
		wantErr   bool
	}{
		{
			name:      "strict json",
			output:    `{"label":"POSITIVE","positive":0.9,"negative":0.02,"neutral":0.05,"mixed":0.03,"language":"en"}`,
			wantLabel: internal.LabelPositive,
			wantConf:  0.9,
			wantLang:  "en",
		},
		{
			name:      "json wrapped in prose",
			output:    "Here you go:\n{\"label\":\"mixed\",\"positive\":0.3,\"negative\":0.2,\"neutral\":0,\"mixed\":0.5,\"language\":\"FR\"}\n",
			wantLabel: internal.LabelMixed,
			wantConf:  0.5,
			wantLang:  "fr",
		},
		{
			name:      "missing language",
			output:    `{"label":"NEUTRAL","positive":0,"negative":0,"neutral":1,"mixed":0,"language":""}`,
			wantLabel: internal.LabelNeutral,
			wantConf:  1,
			wantLang:  "en",
		},
		{name: "empty output", output: "  ", wantErr: true},
		{name: "no json", output: "I think it is positive", wantErr: true},
		{name: "bad label", output: `{"label":"HAPPY","positive":1}`, wantErr: true},
		{name: "score above one", output: `{"label":"POSITIVE","positive":1.7,"negative":0,"neutral":0,"mixed":0,"language":"en"}`, wantErr: true},
		{name: "request fails", callErr: errors.New("429 too many requests"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotParams responses.ResponseNewParams
			o := newOpenAI("gpt-4o-mini", 0, func(ctx context.Context, params responses.ResponseNewParams) (string, error) {
				gotParams = params
				return tt.output, tt.callErr
			})

			got, err := o.Classify(context.Background(), "I got the job")
			if (err != nil) != tt.wantErr {
				t.Fatalf("Classify() error = %v, wantErr %v", err, tt.wantErr)
			}
			if gotParams.Model != "gpt-4o-mini" {
				t.Errorf("request model = %q, want gpt-4o-mini", gotParams.Model)
			}
			if tt.wantErr {
				return
			}
			if got.Label != tt.wantLabel {
				t.Errorf("Classify() label = %q, want %q", got.Label, tt.wantLabel)
			}
			if got.Confidence != tt.wantConf {
				t.Errorf("Classify() confidence = %v, want %v", got.Confidence, tt.wantConf)
			}
			if got.Language != tt.wantLang {
				t.Errorf("Classify() language = %q, want %q", got.Language, tt.wantLang)
			}
		})
	}
}

func TestVerdictSchema_IsStrict(t *testing.T) {
	if verdictSchema["additionalProperties"] != false {
		t.Errorf("additionalProperties = %v, want false", verdictSchema["additionalProperties"])
	}
	required, ok := verdictSchema["required"].([]string)
	if !ok {
		t.Fatalf("required = %T, want []string", verdictSchema["required"])
	}
	want := []string{"label", "language", "mixed", "negative", "neutral", "positive"}
	if len(required) != len(want) {
		t.Fatalf("required = %v, want %v", required, want)
	}
	for i := range want {
		if required[i] != want[i] {
			t.Errorf("required[%d] = %q, want %q", i, required[i], want[i])
		}
	}

	props := verdictSchema["properties"].(map[string]any)
	label := props["label"].(map[string]any)
	if enum, ok := label["enum"].([]any); !ok || len(enum) != 4 {
		t.Errorf("label enum = %v, want four labels", label["enum"])
	}
}

func TestNewOpenAI_RequiresKey(t *testing.T) {
	t.Setenv("EMOTION_TEST_OPENAI_KEY", "")
	cfg := internal.DefaultConfig().Classifier
	cfg.APIKeyEnv = "EMOTION_TEST_OPENAI_KEY"

	_, err := NewOpenAI(cfg)
	var ce *internal.ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("NewOpenAI() error = %v, want *ConfigError", err)
	}
}
