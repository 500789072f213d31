package engine

import (
	"math"

	"github.com/rewired-gh/lottoracle/internal/models"
)

// GapAnalyzer profiles the inter-number gaps inside historical draws.
type GapAnalyzer struct {
	Counts   map[int]int
	AvgGap   float64
	StdGap   float64
	MinGap   int
	MaxGap   int
	IdealLow float64
	IdealHi  float64

	maxCount int
}

// NewGapAnalyzer pools every intra-draw gap across the history.
func NewGapAnalyzer(h *models.DrawHistory) *GapAnalyzer {
	a := &GapAnalyzer{Counts: make(map[int]int), MinGap: math.MaxInt32}
	var gaps []float64
	for t := 0; t < h.Len(); t++ {
		for _, g := range h.Winning(t).Gaps() {
			a.Counts[g]++
			gaps = append(gaps, float64(g))
			if g < a.MinGap {
				a.MinGap = g
			}
			if g > a.MaxGap {
				a.MaxGap = g
			}
		}
	}
	if len(gaps) == 0 {
		a.MinGap = 0
		a.IdealLow, a.IdealHi = 1, 30
		return a
	}

	a.AvgGap = mean(gaps)
	a.StdGap = std(gaps, a.AvgGap)
	a.IdealLow = a.AvgGap - a.StdGap
	if a.IdealLow < 1 {
		a.IdealLow = 1
	}
	a.IdealHi = a.AvgGap + a.StdGap

	for _, c := range a.Counts {
		if c > a.maxCount {
			a.maxCount = c
		}
	}
	return a
}

// ValidateGaps scores how well a ticket's internal gaps match the historical
// gap profile: reward in-range and common gaps, punish consecutive runs and
// very wide gaps. The result is clamped to [0,1].
func (a *GapAnalyzer) ValidateGaps(d models.Draw) float64 {
	score := 0.0
	for _, g := range d.Gaps() {
		gf := float64(g)
		if gf >= a.IdealLow && gf <= a.IdealHi {
			score += 0.15
		}
		if a.maxCount > 0 {
			score += 0.1 * float64(a.Counts[g]) / float64(a.maxCount)
		}
		if g == 1 {
			score -= 0.1
		}
		if g > 30 {
			score -= 0.1
		}
	}
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
