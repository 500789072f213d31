package engine

import (
	"github.com/rewired-gh/lottoracle/internal/models"
)

// TrendAnalyzer tracks per-number momentum across short, medium, and long
// trailing windows.
type TrendAnalyzer struct {
	Momentum     [models.MaxNumber + 1]float64
	Acceleration [models.MaxNumber + 1]float64

	Rising       []int
	Falling      []int
	Accelerating []int
}

// NewTrendAnalyzer compares number frequency over the last 5, 10, and 20 draws.
func NewTrendAnalyzer(h *models.DrawHistory) *TrendAnalyzer {
	a := &TrendAnalyzer{}
	short := h.Recent(5)
	mid := h.Recent(10)
	long := h.Recent(20)

	for k := 1; k <= models.MaxNumber; k++ {
		f5 := drawFrequency(short, k)
		f10 := drawFrequency(mid, k)
		f20 := drawFrequency(long, k)
		a.Momentum[k] = f5 - f20
		a.Acceleration[k] = (f5 - f10) - (f10 - f20)
	}

	a.Rising = a.topBy(func(k int) float64 { return a.Momentum[k] }, func(k int) bool { return a.Momentum[k] > 0.05 })
	a.Falling = a.topBy(func(k int) float64 { return -a.Momentum[k] }, func(k int) bool { return a.Momentum[k] < -0.05 })
	a.Accelerating = a.topBy(func(k int) float64 { return a.Acceleration[k] }, func(k int) bool { return a.Acceleration[k] > 0.02 })
	return a
}

func (a *TrendAnalyzer) topBy(key func(int) float64, keep func(int) bool) []int {
	ranked := rankNumbers(models.MaxNumber, func(x, y int) bool {
		if key(x) != key(y) {
			return key(x) > key(y)
		}
		return x < y
	})
	var out []int
	for _, k := range ranked {
		if !keep(k) {
			continue
		}
		out = append(out, k)
		if len(out) == 10 {
			break
		}
	}
	return out
}

// IsRising reports membership in the top rising-momentum list.
func (a *TrendAnalyzer) IsRising(k int) bool { return containsInt(a.Rising, k) }

// IsAccelerating reports membership in the top acceleration list.
func (a *TrendAnalyzer) IsAccelerating(k int) bool { return containsInt(a.Accelerating, k) }

func containsInt(list []int, k int) bool {
	for _, n := range list {
		if n == k {
			return true
		}
	}
	return false
}
