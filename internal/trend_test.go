package internal

import (
	"math"
	"testing"
)

func recordsWithValences(valences ...float64) []AnalysisRecord {
	records := make([]AnalysisRecord, len(valences))
	for i, v := range valences {
		records[i] = AnalysisRecord{
			SessionID: "s1",
			Emotion:   EmotionDescriptor{Valence: v},
			Sentiment: SentimentResult{Confidence: 0.9},
		}
	}
	return records
}

func TestComputeTrendLabels(t *testing.T) {
	tests := []struct {
		name     string
		valences []float64
		want     string
	}{
		{"exactly positive threshold is neutral", []float64{0.3}, TrendNeutral},
		{"just above threshold", []float64{0.31}, TrendPositive},
		{"exactly negative threshold is neutral", []float64{-0.3}, TrendNeutral},
		{"just below negative threshold", []float64{-0.31}, TrendNegative},
		{"mean exactly at threshold", []float64{0.2, 0.4}, TrendNeutral},
		{"mean of opposite extremes", []float64{0.8, -0.8}, TrendNeutral},
		{"scenario sequence", []float64{0.76, 0.64, -0.1}, TrendPositive},
		{"negative run", []float64{-0.76, -0.4, -0.12}, TrendNegative},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeTrend("s1", recordsWithValences(tt.valences...))
			if got.TrendLabel != tt.want {
				t.Errorf("ComputeTrend(%v).TrendLabel = %q, want %q (avg %v)", tt.valences, got.TrendLabel, tt.want, got.AverageValence)
			}
			if got.Description != trendDescriptions[tt.want] {
				t.Errorf("ComputeTrend(%v).Description = %q, want %q", tt.valences, got.Description, trendDescriptions[tt.want])
			}
		})
	}
}

func TestComputeTrendAverages(t *testing.T) {
	got := ComputeTrend("s1", recordsWithValences(0.76, 0.64, -0.1))

	if math.Abs(got.AverageValence-0.4333) > 1e-9 {
		t.Errorf("AverageValence = %v, want 0.4333", got.AverageValence)
	}
	if got.AverageConfidence != 0.9 {
		t.Errorf("AverageConfidence = %v, want 0.9", got.AverageConfidence)
	}
	if got.TotalAnalyses != 3 {
		t.Errorf("TotalAnalyses = %d, want 3", got.TotalAnalyses)
	}
	if got.SessionID != "s1" {
		t.Errorf("SessionID = %q, want s1", got.SessionID)
	}
	if got.Direction != ShiftWorsening {
		t.Errorf("Direction = %q, want %q", got.Direction, ShiftWorsening)
	}
}

func TestComputeTrendEmpty(t *testing.T) {
	for _, records := range [][]AnalysisRecord{nil, {}} {
		got := ComputeTrend("missing", records)
		if !got.Empty() {
			t.Errorf("ComputeTrend(empty).Empty() = false")
		}
		if got.TotalAnalyses != 0 {
			t.Errorf("ComputeTrend(empty).TotalAnalyses = %d, want 0", got.TotalAnalyses)
		}
		if got.TrendLabel != TrendNone {
			t.Errorf("ComputeTrend(empty).TrendLabel = %q, want %q", got.TrendLabel, TrendNone)
		}
		if got.Description != "No data available" {
			t.Errorf("ComputeTrend(empty).Description = %q", got.Description)
		}
	}
}

func TestComputeTrendRecomputesFromScratch(t *testing.T) {
	records := recordsWithValences(0.8, 0.8, 0.8)
	if got := ComputeTrend("s1", records).TrendLabel; got != TrendPositive {
		t.Fatalf("initial TrendLabel = %q, want Positive", got)
	}

	// a shorter sequence after out-of-band deletion must not remember old state
	if got := ComputeTrend("s1", records[:0]); !got.Empty() {
		t.Errorf("ComputeTrend after truncation = %+v, want empty", got)
	}
	if got := ComputeTrend("s1", recordsWithValences(-0.8)).TrendLabel; got != TrendNegative {
		t.Errorf("TrendLabel after replacement = %q, want Negative", got)
	}
}

func TestValenceShift(t *testing.T) {
	tests := []struct {
		prev, cur float64
		want      string
	}{
		{0.1, 0.76, ShiftImproving},
		{0.76, 0.1, ShiftWorsening},
		{0.2, 0.3, ShiftStable},
		{0.3, 0.2, ShiftStable},
		{-0.4, -0.4, ShiftStable},
		{-0.8, 0.0, ShiftImproving},
	}

	for _, tt := range tests {
		if got := ValenceShift(tt.prev, tt.cur); got != tt.want {
			t.Errorf("ValenceShift(%v, %v) = %q, want %q", tt.prev, tt.cur, got, tt.want)
		}
	}
}

func TestDirectionSingleRecord(t *testing.T) {
	if got := ComputeTrend("s1", recordsWithValences(0.5)).Direction; got != ShiftStable {
		t.Errorf("Direction with one record = %q, want %q", got, ShiftStable)
	}
}
