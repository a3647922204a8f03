package internal

import (
	"strings"

	"github.com/shopspring/decimal"
)

type emotionBase struct {
	category string
	valence  decimal.Decimal
	arousal  float64
}

var emotionTable = map[string]emotionBase{
	LabelPositive: {category: CategoryJoy, valence: decimal.RequireFromString("0.8"), arousal: 0.6},
	LabelNegative: {category: CategorySadness, valence: decimal.RequireFromString("-0.8"), arousal: 0.6},
	LabelNeutral:  {category: CategoryCalm, valence: decimal.Zero, arousal: 0.1},
	LabelMixed:    {category: CategoryConflicted, valence: decimal.RequireFromString("0.2"), arousal: 0.5},
}

// MapEmotion derives the emotion descriptor for a classifier result.
//
// Valence is the label's base valence scaled by the confidence clamped to
// [0,1]; arousal is never scaled. For MIXED the sign follows
// scores[POSITIVE]-scores[NEGATIVE], with ties and missing breakdowns
// resolving to positive. Unknown labels map like NEUTRAL. The result is a
// pure function of the input.
func MapEmotion(result SentimentResult) EmotionDescriptor {
	label := strings.ToUpper(strings.TrimSpace(result.Label))
	base, ok := emotionTable[label]
	if !ok {
		LogDebug("unknown sentiment label %q, treating as %s", result.Label, LabelNeutral)
		label = LabelNeutral
		base = emotionTable[LabelNeutral]
	}

	valence := base.valence
	if label == LabelMixed && mixedSignNegative(result) {
		valence = valence.Neg()
	}
	valence = valence.Mul(clampUnit(result.Confidence))

	return EmotionDescriptor{
		Category: base.category,
		Valence:  valence.InexactFloat64(),
		Arousal:  base.arousal,
	}
}

// mixedSignNegative reports whether the negative score dominates.
func mixedSignNegative(result SentimentResult) bool {
	if !hasScores(result.Scores) {
		Logger().Warn("defaulting mixed sentiment to positive",
			"err", ErrAmbiguousMixedSentiment, "confidence", result.Confidence)
		return false
	}
	pos := decimal.NewFromFloat(result.Score(LabelPositive))
	neg := decimal.NewFromFloat(result.Score(LabelNegative))
	return pos.LessThan(neg)
}

func hasScores(scores map[string]float64) bool {
	for _, v := range scores {
		if v != 0 {
			return true
		}
	}
	return false
}

func clampUnit(f float64) decimal.Decimal {
	switch {
	case f != f || f <= 0: // NaN or non-positive
		return decimal.Zero
	case f >= 1:
		return decimal.NewFromInt(1)
	}
	return decimal.NewFromFloat(f)
}
