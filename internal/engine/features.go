package engine

import (
	"github.com/rewired-gh/lottoracle/internal/models"
)

const (
	featureLookback = 50
	numFeatures     = 7
)

// buildFeatures computes the feature vector for number k at reference index i:
// recent frequency, skip count, position tendency, delta compatibility,
// parity, high/low, trend. Index i must be a valid history position.
func buildFeatures(h *models.DrawHistory, i, k int) []float64 {
	x := make([]float64, 0, numFeatures)
	x = append(x, recentFrequency(h, i, k))
	x = append(x, float64(skipCount(h, i, k)))
	x = append(x, positionTendency(h, i, k))
	x = append(x, deltaCompatibility(h, i, k))
	x = append(x, float64(k%2))
	if k > models.HighThreshold {
		x = append(x, 1)
	} else {
		x = append(x, 0)
	}
	x = append(x, trendScore(h, i, k))
	return x
}

func recentFrequency(h *models.DrawHistory, i, k int) float64 {
	count := 0
	for _, d := range h.WinningSlice(i-featureLookback+1, i+1) {
		if d.Contains(k) {
			count++
		}
	}
	return float64(count) / featureLookback
}

// skipCount returns the draws elapsed since k last appeared, scanning backward
// from index i. A number never seen carries the full scanned length.
func skipCount(h *models.DrawHistory, i, k int) int {
	for j := i; j >= 0; j-- {
		if h.Winning(j).Contains(k) {
			return i - j
		}
	}
	return i + 1
}

// positionTendency is the mean normalized sorted rank of k when present in the
// recent window, defaulting to the neutral 0.5 when absent.
func positionTendency(h *models.DrawHistory, i, k int) float64 {
	total, count := 0.0, 0
	for _, d := range h.WinningSlice(i-featureLookback+1, i+1) {
		if r := d.Rank(k); r >= 0 {
			total += float64(r) / float64(models.DrawSize-1)
			count++
		}
	}
	if count == 0 {
		return 0.5
	}
	return total / float64(count)
}

// deltaCompatibility measures how well k's distances to the latest draw's
// members match the pooled inter-number gaps of the last 10 draws. Only
// distances up to 30 count.
func deltaCompatibility(h *models.DrawHistory, i, k int) float64 {
	pooled := make(map[int]bool)
	for _, d := range h.WinningSlice(i-9, i+1) {
		for _, g := range d.Gaps() {
			pooled[g] = true
		}
	}

	current := h.Winning(i)
	diffs := 0
	matched := 0
	for _, m := range current {
		d := k - m
		if d < 0 {
			d = -d
		}
		if d == 0 || d > 30 {
			continue
		}
		diffs++
		if pooled[d] {
			matched++
		}
	}
	return float64(matched) / float64(diffs+1)
}

// trendScore rescales the frequency change between the older and newer halves
// of the last 10 draws into [0,1]; 0.5 means flat (or too little data).
func trendScore(h *models.DrawHistory, i, k int) float64 {
	window := h.WinningSlice(i-9, i+1)
	if len(window) < 5 {
		return 0.5
	}
	mid := len(window) / 2
	f1 := drawFrequency(window[:mid], k)
	f2 := drawFrequency(window[mid:], k)
	return (f2 - f1 + 1) / 2
}

func drawFrequency(draws []models.Draw, k int) float64 {
	if len(draws) == 0 {
		return 0
	}
	count := 0
	for _, d := range draws {
		if d.Contains(k) {
			count++
		}
	}
	return float64(count) / float64(len(draws))
}
