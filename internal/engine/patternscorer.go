package engine

import (
	"sort"

	"github.com/rewired-gh/lottoracle/internal/models"
)

// PatternScorer builds one ticket from the hot/cold/due candidate pool of a
// snapshot. It is fully deterministic: no randomness is involved.
type PatternScorer struct {
	snap *PatternSnapshot
}

// NewPatternScorer wraps a snapshot for ticket generation.
func NewPatternScorer(snap *PatternSnapshot) *PatternScorer {
	return &PatternScorer{snap: snap}
}

func (s *PatternScorer) hotTop10() []int {
	hot := s.snap.Hot
	if len(hot) > 10 {
		hot = hot[:10]
	}
	return hot
}

// coldPool returns up to 10 numbers with skip above 15, longest skip first.
func (s *PatternScorer) coldPool() []int {
	var out []int
	for _, n := range s.snap.Cold {
		if s.snap.Skips[n] > 15 {
			out = append(out, n)
		}
		if len(out) == 10 {
			break
		}
	}
	return out
}

// coldTop5 returns the five longest-skipping numbers whose skip exceeds 20.
func (s *PatternScorer) coldTop5() map[int]bool {
	out := make(map[int]bool)
	for _, n := range s.snap.Cold {
		if s.snap.Skips[n] > 20 {
			out[n] = true
		}
		if len(out) == 5 {
			break
		}
	}
	return out
}

// duePool returns up to 10 numbers whose skip sits within 20% of the mean skip.
func (s *PatternScorer) duePool() []int {
	meanSkip := s.snap.MeanSkip()
	low, high := meanSkip*0.8, meanSkip*1.2
	var out []int
	for n := 1; n <= models.MaxNumber; n++ {
		skip := float64(s.snap.Skips[n])
		if skip >= low && skip <= high {
			out = append(out, n)
		}
		if len(out) == 10 {
			break
		}
	}
	return out
}

// numberScore is the per-number portion of the set scoring function.
func (s *PatternScorer) numberScore(n int, hot map[int]bool, coldTop map[int]bool) int {
	score := 0
	if hot[n] {
		score += 2
	}
	if coldTop[n] {
		score += 3
	}
	return score
}

// setScore scores a (possibly partial) candidate set.
func (s *PatternScorer) setScore(nums []int, hot map[int]bool, coldTop map[int]bool) int {
	score := 0
	sum := 0
	even := 0
	high := 0
	for _, n := range nums {
		score += s.numberScore(n, hot, coldTop)
		sum += n
		if n%2 == 0 {
			even++
		}
		if n > models.HighThreshold {
			high++
		}
	}
	if s.snap.SumInIQR(sum) {
		score += 5
	}
	if even == 2 || even == 3 {
		score += 3
	}
	if high == 2 || high == 3 {
		score += 3
	}
	sorted := append([]int(nil), nums...)
	sort.Ints(sorted)
	for i := 1; i < len(sorted); i++ {
		if sorted[i]-sorted[i-1] == 1 {
			score -= 2
		}
	}
	return score
}

// Predict builds the ticket: pool members ranked by individual score, greedily
// accepted while the running combination score stays non-decreasing, then
// backfilled from the remaining numbers.
func (s *PatternScorer) Predict() models.Ticket {
	hotSet := make(map[int]bool)
	for _, n := range s.hotTop10() {
		hotSet[n] = true
	}
	coldTop := s.coldTop5()

	pool := make([]int, 0, 30)
	inPool := make(map[int]bool)
	addAll := func(nums []int) {
		for _, n := range nums {
			if !inPool[n] {
				inPool[n] = true
				pool = append(pool, n)
			}
		}
	}
	addAll(s.hotTop10())
	addAll(s.coldPool())
	addAll(s.duePool())

	if len(pool) < 15 {
		rest := rankNumbers(models.MaxNumber, func(a, b int) bool {
			sa, sb := s.numberScore(a, hotSet, coldTop), s.numberScore(b, hotSet, coldTop)
			if sa != sb {
				return sa > sb
			}
			return a < b
		})
		for _, n := range rest {
			if len(pool) >= 15 {
				break
			}
			if !inPool[n] {
				inPool[n] = true
				pool = append(pool, n)
			}
		}
	}

	ranked := append([]int(nil), pool...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return s.numberScore(ranked[i], hotSet, coldTop) > s.numberScore(ranked[j], hotSet, coldTop)
	})

	var selected []int
	running := 0
	for _, n := range ranked {
		if len(selected) == models.DrawSize {
			break
		}
		tentative := append(append([]int(nil), selected...), n)
		if score := s.setScore(tentative, hotSet, coldTop); score >= running {
			selected = tentative
			running = score
		}
	}

	if len(selected) < models.DrawSize {
		chosen := make(map[int]bool, len(selected))
		for _, n := range selected {
			chosen[n] = true
		}
		rest := rankNumbers(models.MaxNumber, func(a, b int) bool {
			sa, sb := s.numberScore(a, hotSet, coldTop), s.numberScore(b, hotSet, coldTop)
			if sa != sb {
				return sa > sb
			}
			return a < b
		})
		for _, n := range rest {
			if len(selected) == models.DrawSize {
				break
			}
			if !chosen[n] {
				chosen[n] = true
				selected = append(selected, n)
			}
		}
	}

	score := s.setScore(selected, hotSet, coldTop)
	sort.Ints(selected)
	var d models.Draw
	copy(d[:], selected)
	return models.Ticket{Numbers: d, Score: float64(score)}
}
