package models

import "sort"

// ScoreTable maps every number in [1, MaxNumber] to a real-valued score.
// Index 0 is unused so that table[n] reads naturally.
type ScoreTable [MaxNumber + 1]float64

// Sum returns the total score mass over the whole range.
func (t *ScoreTable) Sum() float64 {
	s := 0.0
	for n := 1; n <= MaxNumber; n++ {
		s += t[n]
	}
	return s
}

// Normalize rescales the table into a probability distribution summing to 1.
// A non-positive raw sum leaves the table untouched; that degenerate case
// signals upstream fallback.
func (t *ScoreTable) Normalize() {
	sum := t.Sum()
	if sum <= 0 {
		return
	}
	for n := 1; n <= MaxNumber; n++ {
		t[n] /= sum
	}
}

// Top returns the n highest-scoring numbers, descending by score with ties
// broken by the smaller number.
func (t *ScoreTable) Top(n int) []int {
	nums := make([]int, MaxNumber)
	for i := range nums {
		nums[i] = i + 1
	}
	sort.SliceStable(nums, func(a, b int) bool {
		if t[nums[a]] != t[nums[b]] {
			return t[nums[a]] > t[nums[b]]
		}
		return nums[a] < nums[b]
	})
	if n > len(nums) {
		n = len(nums)
	}
	return nums[:n]
}

// Uniform returns the uniform distribution 1/MaxNumber per number.
func Uniform() ScoreTable {
	var t ScoreTable
	for n := 1; n <= MaxNumber; n++ {
		t[n] = 1.0 / MaxNumber
	}
	return t
}

// NumberState is the categorical activity label of a number at the current
// history snapshot. It is recomputed per query, never persisted.
type NumberState int

const (
	StateDormant NumberState = iota
	StateWarming
	StateActive
	StateOverheated
	StateBreakout
)

func (s NumberState) String() string {
	switch s {
	case StateWarming:
		return "warming"
	case StateActive:
		return "active"
	case StateOverheated:
		return "overheated"
	case StateBreakout:
		return "breakout"
	default:
		return "dormant"
	}
}

// Ticket is a candidate 5-number prediction with its strategy-assigned score.
type Ticket struct {
	Numbers Draw
	Score   float64
}
