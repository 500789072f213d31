package engine

import (
	"fmt"
	"math"

	"github.com/rewired-gh/lottoracle/internal/models"
)

const (
	regimeMinDraws    = 100
	regimeThreshold   = 0.25
	regimeDetailFloor = 0.10
	regimeEpsilon     = 1e-10
)

// halfMetrics summarizes one half of a detection window.
type halfMetrics struct {
	sumMean       float64
	sumStd        float64
	deltaEntropy  float64
	numberEntropy float64
	clusterScore  float64
}

func computeHalfMetrics(draws []models.Draw) halfMetrics {
	var m halfMetrics
	if len(draws) == 0 {
		return m
	}

	sums := make([]float64, len(draws))
	for i, d := range draws {
		sums[i] = float64(d.Sum())
	}
	m.sumMean = mean(sums)
	m.sumStd = std(sums, m.sumMean)

	deltaCounts := make(map[int]int)
	numberCounts := make(map[int]int)
	clustered := 0
	for _, d := range draws {
		for _, g := range d.Gaps() {
			deltaCounts[g]++
		}
		for _, n := range d {
			numberCounts[n]++
		}
		if d.MaxGap() < 25 {
			clustered++
		}
	}
	m.deltaEntropy = shannonEntropy(deltaCounts)
	m.numberEntropy = shannonEntropy(numberCounts)
	m.clusterScore = float64(clustered) / float64(len(draws))
	return m
}

// shannonEntropy computes base-2 entropy over a count histogram. Empty
// histograms contribute 0.
func shannonEntropy(counts map[int]int) float64 {
	total := 0
	for _, c := range counts {
		total += c
	}
	if total == 0 {
		return 0
	}
	e := 0.0
	for _, c := range counts {
		if c == 0 {
			continue
		}
		p := float64(c) / float64(total)
		e -= p * math.Log2(p)
	}
	return e
}

func relativeChange(newVal, oldVal float64) float64 {
	return math.Abs(newVal-oldVal) / (math.Abs(oldVal) + regimeEpsilon)
}

// DetectRegimeChange compares the statistical profile of the older and newer
// halves of the window and reports whether the sequence appears to have
// shifted character.
func DetectRegimeChange(draws []models.Draw) models.RegimeReport {
	if len(draws) < regimeMinDraws {
		return models.RegimeReport{}
	}

	mid := len(draws) / 2
	old := computeHalfMetrics(draws[:mid])
	recent := computeHalfMetrics(draws[mid:])

	changes := map[string]float64{
		"sum_mean":       relativeChange(recent.sumMean, old.sumMean),
		"sum_std":        relativeChange(recent.sumStd, old.sumStd),
		"delta_entropy":  relativeChange(recent.deltaEntropy, old.deltaEntropy),
		"number_entropy": relativeChange(recent.numberEntropy, old.numberEntropy),
		"cluster_score":  relativeChange(recent.clusterScore, old.clusterScore),
	}

	total := 0.3*changes["sum_mean"] + 0.4*changes["delta_entropy"] + 0.3*changes["cluster_score"]

	report := models.RegimeReport{
		Detected:   total > regimeThreshold,
		Confidence: math.Min(total, 1.0),
	}
	for metric, change := range changes {
		if change > regimeDetailFloor {
			if report.Details == nil {
				report.Details = make(map[string]string)
			}
			report.Details[metric] = fmt.Sprintf("%.2f%%", change*100)
		}
	}
	return report
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	s := 0.0
	for _, v := range vals {
		s += v
	}
	return s / float64(len(vals))
}

func std(vals []float64, m float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	s := 0.0
	for _, v := range vals {
		d := v - m
		s += d * d
	}
	return math.Sqrt(s / float64(len(vals)))
}
