package engine

import (
	"sort"

	"github.com/rewired-gh/lottoracle/internal/models"
)

const (
	snapshotWindow = 50
	hotWindow      = 20
	hotListSize    = 15
	coldListSize   = 15
)

// PatternSnapshot is a read-only summary of a trailing window of history.
// It is rebuilt fresh per prediction call.
type PatternSnapshot struct {
	SumMean  float64
	SumStd   float64
	SumQ1    int
	SumQ3    int
	EvenMode int
	HighMode int

	// Hot holds the highest-frequency numbers over the last 20 draws,
	// Cold the longest-skipping numbers. Both are capped at 15 entries.
	Hot  []int
	Cold []int

	// Skips maps every number to the draws elapsed since its last
	// appearance in the window; never-seen numbers carry the window length.
	Skips [models.MaxNumber + 1]int

	// Freq counts appearances over the hot window per number.
	Freq [models.MaxNumber + 1]int
}

// NewSnapshot summarizes the trailing window of the given history.
func NewSnapshot(h *models.DrawHistory) *PatternSnapshot {
	window := h.Recent(snapshotWindow)
	snap := &PatternSnapshot{}

	sums := make([]float64, len(window))
	evenCounts := make(map[int]int)
	highCounts := make(map[int]int)
	for i, d := range window {
		sums[i] = float64(d.Sum())
		evenCounts[d.EvenCount()]++
		highCounts[d.HighCount()]++
	}
	snap.SumMean = mean(sums)
	snap.SumStd = std(sums, snap.SumMean)
	snap.SumQ1 = int(percentile(sums, 0.25))
	snap.SumQ3 = int(percentile(sums, 0.75))
	snap.EvenMode = modalCount(evenCounts)
	snap.HighMode = modalCount(highCounts)

	for n := 1; n <= models.MaxNumber; n++ {
		snap.Skips[n] = len(window)
	}
	for i, d := range window {
		age := len(window) - 1 - i
		for _, n := range d {
			snap.Skips[n] = age
		}
	}

	hot := window
	if len(hot) > hotWindow {
		hot = hot[len(hot)-hotWindow:]
	}
	for _, d := range hot {
		for _, n := range d {
			snap.Freq[n]++
		}
	}

	snap.Hot = rankNumbers(hotListSize, func(a, b int) bool {
		if snap.Freq[a] != snap.Freq[b] {
			return snap.Freq[a] > snap.Freq[b]
		}
		return a < b
	})
	snap.Cold = rankNumbers(coldListSize, func(a, b int) bool {
		if snap.Skips[a] != snap.Skips[b] {
			return snap.Skips[a] > snap.Skips[b]
		}
		return a < b
	})
	return snap
}

// MeanSkip returns the average skip across all numbers.
func (s *PatternSnapshot) MeanSkip() float64 {
	total := 0
	for n := 1; n <= models.MaxNumber; n++ {
		total += s.Skips[n]
	}
	return float64(total) / float64(models.MaxNumber)
}

// SumInIQR reports whether a total falls within the snapshot's sum
// interquartile range.
func (s *PatternSnapshot) SumInIQR(sum int) bool {
	return sum >= s.SumQ1 && sum <= s.SumQ3
}

func rankNumbers(limit int, less func(a, b int) bool) []int {
	nums := make([]int, models.MaxNumber)
	for i := range nums {
		nums[i] = i + 1
	}
	sort.SliceStable(nums, func(i, j int) bool { return less(nums[i], nums[j]) })
	if limit > len(nums) {
		limit = len(nums)
	}
	return nums[:limit]
}

// percentile interpolates linearly between the closest sorted ranks.
func percentile(vals []float64, q float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	pos := q * float64(len(sorted)-1)
	lo := int(pos)
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

// modalCount returns the most frequent key, smaller key winning ties.
func modalCount(counts map[int]int) int {
	best, bestCount := 0, -1
	keys := make([]int, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	for _, k := range keys {
		if counts[k] > bestCount {
			best, bestCount = k, counts[k]
		}
	}
	return best
}
