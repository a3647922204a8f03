package internal

import "github.com/shopspring/decimal"

// Trend labels
const (
	TrendPositive = "Positive"
	TrendNegative = "Negative"
	TrendNeutral  = "Neutral"
	TrendNone     = "None"
)

// Valence shift directions between consecutive analyses
const (
	ShiftImproving = "improving"
	ShiftWorsening = "worsening"
	ShiftStable    = "stable"
)

var (
	trendThreshold = decimal.RequireFromString("0.3")
	shiftThreshold = decimal.RequireFromString("0.1")
)

var trendDescriptions = map[string]string{
	TrendPositive: "Positive emotional trend",
	TrendNegative: "Negative emotional trend",
	TrendNeutral:  "Stable emotional state",
	TrendNone:     "No data available",
}

// ComputeTrend summarizes a session's records, given oldest-first.
// It always recomputes from the full sequence; an empty sequence yields the
// TrendNone sentinel with zero totals.
func ComputeTrend(sessionID string, records []AnalysisRecord) SessionTrend {
	if len(records) == 0 {
		return SessionTrend{
			SessionID:   sessionID,
			TrendLabel:  TrendNone,
			Description: trendDescriptions[TrendNone],
		}
	}

	valenceSum := decimal.Zero
	confidenceSum := decimal.Zero
	for _, rec := range records {
		valenceSum = valenceSum.Add(decimal.NewFromFloat(rec.Emotion.Valence))
		confidenceSum = confidenceSum.Add(decimal.NewFromFloat(rec.Sentiment.Confidence))
	}
	n := decimal.NewFromInt(int64(len(records)))
	avgValence := valenceSum.Div(n)
	avgConfidence := confidenceSum.Div(n)

	label := TrendNeutral
	switch {
	case avgValence.GreaterThan(trendThreshold):
		label = TrendPositive
	case avgValence.LessThan(trendThreshold.Neg()):
		label = TrendNegative
	}

	direction := ShiftStable
	if len(records) >= 2 {
		direction = ValenceShift(records[len(records)-2].Emotion.Valence, records[len(records)-1].Emotion.Valence)
	}

	return SessionTrend{
		SessionID:         sessionID,
		TrendLabel:        label,
		Description:       trendDescriptions[label],
		Direction:         direction,
		AverageValence:    avgValence.Round(4).InexactFloat64(),
		AverageConfidence: avgConfidence.Round(4).InexactFloat64(),
		TotalAnalyses:     len(records),
	}
}

// ValenceShift classifies the move from prev to cur. Changes of at most
// 0.1 in either direction are stable.
func ValenceShift(prev, cur float64) string {
	delta := decimal.NewFromFloat(cur).Sub(decimal.NewFromFloat(prev))
	switch {
	case delta.GreaterThan(shiftThreshold):
		return ShiftImproving
	case delta.LessThan(shiftThreshold.Neg()):
		return ShiftWorsening
	}
	return ShiftStable
}
