package classifier

import (
	"context"
	"strings"
	"unicode"

	"github.com/iksnae/emotion-session/internal"
)

var positiveWords = wordSet(`good great love loved lovely happy glad joy excited amazing awesome
wonderful fantastic excellent nice calm relieved proud grateful thankful hopeful optimistic
enjoy enjoyed fun beautiful better best brilliant delighted pleased win won success finally`)

var negativeWords = wordSet(`bad sad angry mad hate hated awful terrible horrible worse worst
upset scared afraid fear worried anxious nervous stressed tired exhausted lonely hurt pain
cry crying depressed miserable frustrated annoyed disappointed fail failed lost sick draining`)

var negations = wordSet(`not no never dont don't isn't wasn't can't cannot won't nothing hardly`)

// Lexicon is an offline word-list classifier for development and demos.
// It is deterministic and never fails.
type Lexicon struct{}

func NewLexicon() *Lexicon { return &Lexicon{} }

func (l *Lexicon) Name() string { return internal.ProviderLexicon }

func (l *Lexicon) Classify(ctx context.Context, text string) (internal.SentimentResult, error) {
	if err := ctx.Err(); err != nil {
		return internal.SentimentResult{}, err
	}

	var pos, neg float64
	negate := false
	for _, w := range tokenize(text) {
		w = strings.Trim(w, "'")
		switch {
		case negations[w]:
			negate = true
			continue
		case positiveWords[w]:
			if negate {
				neg++
			} else {
				pos++
			}
		case negativeWords[w]:
			if negate {
				pos++
			} else {
				neg++
			}
		}
		negate = false
	}

	scores := lexiconScores(pos, neg)
	label := internal.LabelNeutral
	for _, candidate := range []string{internal.LabelMixed, internal.LabelPositive, internal.LabelNegative} {
		if scores[candidate] > scores[label] {
			label = candidate
		}
	}
	return internal.SentimentResult{
		Label:      label,
		Confidence: scores[label],
		Scores:     scores,
		Language:   defaultLanguage,
	}, nil
}

// lexiconScores spreads probability over the four labels. Texts with no
// sentiment words are neutral; balanced hits push weight to MIXED.
func lexiconScores(pos, neg float64) map[string]float64 {
	total := pos + neg
	if total == 0 {
		return map[string]float64{
			internal.LabelPositive: 0.05,
			internal.LabelNegative: 0.05,
			internal.LabelNeutral:  0.9,
			internal.LabelMixed:    0,
		}
	}
	mixed := 2 * min(pos, neg) / total
	return map[string]float64{
		internal.LabelPositive: round4(pos / total * (1 - mixed)),
		internal.LabelNegative: round4(neg / total * (1 - mixed)),
		internal.LabelNeutral:  0,
		internal.LabelMixed:    round4(mixed),
	}
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})
}

func wordSet(words string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(words) {
		set[w] = true
	}
	return set
}
