package engine

import (
	"strings"
	"testing"
)

func newTestConfidenceScorer(t *testing.T) *ConfidenceScorer {
	t.Helper()
	h := historyFromDraws(t, randomDraws(100, 61), nil)
	return NewConfidenceScorer(h, NewGapAnalyzer(h), NewPositionAnalyzer(h))
}

func TestConfidenceFactorsInRange(t *testing.T) {
	scorer := newTestConfidenceScorer(t)
	conf := scorer.Score(mustDraw(t, []int{7, 22, 39, 51, 84}), 0.6)

	if conf.Confidence < 0 || conf.Confidence > 1 {
		t.Errorf("Confidence = %f, out of [0,1]", conf.Confidence)
	}
	if len(conf.Factors) != 6 {
		t.Errorf("got %d factors, want 6", len(conf.Factors))
	}
	for name, v := range conf.Factors {
		if v < 0 || v > 1 {
			t.Errorf("factor %s = %f, out of [0,1]", name, v)
		}
	}
	if conf.Factors["strategy_agreement"] != 0.6 {
		t.Errorf("strategy_agreement = %f, want the supplied 0.6", conf.Factors["strategy_agreement"])
	}
}

func TestConfidenceLevels(t *testing.T) {
	tests := []struct {
		total float64
		want  string
	}{
		{0.80, "high"},
		{0.75, "high"},
		{0.60, "medium"},
		{0.55, "medium"},
		{0.40, "low"},
		{0.35, "low"},
		{0.20, "very_low"},
	}
	for _, tt := range tests {
		if got := confidenceLevel(tt.total); got != tt.want {
			t.Errorf("confidenceLevel(%f) = %s, want %s", tt.total, got, tt.want)
		}
	}
}

func TestWeakestFactors(t *testing.T) {
	factors := map[string]float64{
		"zone_diversity":       0.9,
		"gap_pattern":          0.2,
		"pattern_validity":     0.4,
		"position_alignment":   0.3,
		"strategy_agreement":   0.8,
		"historical_frequency": 0.7,
	}
	weak := weakestFactors(factors, 2)
	if len(weak) != 2 {
		t.Fatalf("got %d weak factors, want 2", len(weak))
	}
	if weak[0] != "gap_pattern" || weak[1] != "position_alignment" {
		t.Errorf("weakestFactors = %v, want worst-first [gap_pattern position_alignment]", weak)
	}
}

func TestMediumRecommendationNamesWeakFactors(t *testing.T) {
	factors := map[string]float64{
		"zone_diversity":     0.9,
		"gap_pattern":        0.2,
		"strategy_agreement": 0.8,
	}
	rec := recommendation("medium", factors)
	if !strings.Contains(rec, "gap_pattern") {
		t.Errorf("medium recommendation %q does not name the weak factor", rec)
	}
}

func TestZoneDiversity(t *testing.T) {
	spread := mustDraw(t, []int{5, 25, 45, 65, 85})
	if got := ZoneDiversity(spread); got != 1 {
		t.Errorf("ZoneDiversity(spread) = %f, want 1", got)
	}
	packed := mustDraw(t, []int{41, 43, 45, 47, 49})
	if got := ZoneDiversity(packed); got != 0.2 {
		t.Errorf("ZoneDiversity(packed) = %f, want 0.2", got)
	}
}

func TestValidateGapsBounds(t *testing.T) {
	h := historyFromDraws(t, randomDraws(100, 71), nil)
	gaps := NewGapAnalyzer(h)

	for _, nums := range [][]int{
		{1, 2, 3, 4, 5},
		{1, 30, 60, 88, 90},
		{10, 22, 35, 49, 62},
	} {
		score := gaps.ValidateGaps(mustDraw(t, nums))
		if score < 0 || score > 1 {
			t.Errorf("ValidateGaps(%v) = %f, out of [0,1]", nums, score)
		}
	}
}
