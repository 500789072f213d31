package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rewired-gh/lottoracle/internal/models"
)

// confidenceWeights blend the six ticket-quality factors.
var confidenceWeights = map[string]float64{
	"zone_diversity":       0.15,
	"gap_pattern":          0.15,
	"pattern_validity":     0.20,
	"position_alignment":   0.15,
	"strategy_agreement":   0.25,
	"historical_frequency": 0.10,
}

// ConfidenceScorer assesses tickets against the analyzer profiles of a
// history.
type ConfidenceScorer struct {
	gaps      *GapAnalyzer
	positions *PositionAnalyzer
	history   *models.DrawHistory
}

// NewConfidenceScorer builds the scorer over precomputed analyzers.
func NewConfidenceScorer(h *models.DrawHistory, gaps *GapAnalyzer, positions *PositionAnalyzer) *ConfidenceScorer {
	return &ConfidenceScorer{gaps: gaps, positions: positions, history: h}
}

// historicalFrequency caps the total recent-50 appearance count of the
// ticket's members into [0,1]. Random play lands near 0.55, so the cap of 25
// leaves headroom for genuinely hot tickets.
func (c *ConfidenceScorer) historicalFrequency(d models.Draw) float64 {
	total := 0
	for _, draw := range c.history.Recent(50) {
		for _, n := range d {
			if draw.Contains(n) {
				total++
			}
		}
	}
	f := float64(total) / 25
	if f > 1 {
		return 1
	}
	return f
}

// Score computes the weighted six-factor confidence for a ticket. The
// strategy-agreement factor is supplied by the caller as the overlap fraction
// with the other strategies' outputs.
func (c *ConfidenceScorer) Score(d models.Draw, strategyAgreement float64) models.Confidence {
	factors := map[string]float64{
		"zone_diversity":       ZoneDiversity(d),
		"gap_pattern":          c.gaps.ValidateGaps(d),
		"pattern_validity":     PatternValidity(d),
		"position_alignment":   clamp01(c.positions.ValidatePositions(d)),
		"strategy_agreement":   clamp01(strategyAgreement),
		"historical_frequency": c.historicalFrequency(d),
	}

	total := 0.0
	for name, w := range confidenceWeights {
		total += w * factors[name]
	}

	level := confidenceLevel(total)
	return models.Confidence{
		Confidence:     total,
		Level:          level,
		Factors:        factors,
		Recommendation: recommendation(level, factors),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func confidenceLevel(total float64) string {
	switch {
	case total >= 0.75:
		return "high"
	case total >= 0.55:
		return "medium"
	case total >= 0.35:
		return "low"
	default:
		return "very_low"
	}
}

func recommendation(level string, factors map[string]float64) string {
	switch level {
	case "high":
		return "Strong signal alignment across all factors; play as generated."
	case "medium":
		weak := weakestFactors(factors, 2)
		if len(weak) == 0 {
			return "Reasonable alignment; acceptable to play."
		}
		return fmt.Sprintf("Reasonable alignment, but watch: %s.", strings.Join(weak, ", "))
	case "low":
		return "Weak alignment; consider regenerating or combining with another strategy."
	default:
		return "Very weak alignment; treat this ticket as noise."
	}
}

// weakestFactors names up to limit factors scoring below 0.5, worst first.
func weakestFactors(factors map[string]float64, limit int) []string {
	type fv struct {
		name string
		v    float64
	}
	var weak []fv
	for name, v := range factors {
		if v < 0.5 {
			weak = append(weak, fv{name, v})
		}
	}
	sort.SliceStable(weak, func(i, j int) bool {
		if weak[i].v != weak[j].v {
			return weak[i].v < weak[j].v
		}
		return weak[i].name < weak[j].name
	})
	if len(weak) > limit {
		weak = weak[:limit]
	}
	names := make([]string, len(weak))
	for i, w := range weak {
		names[i] = w.name
	}
	return names
}
