package engine

import (
	"github.com/rewired-gh/lottoracle/internal/models"
)

// PositionAnalyzer tracks which numbers favor which sorted rank (0..4).
type PositionAnalyzer struct {
	// Favorites holds, per rank, every number ordered by how often it
	// occupied that rank.
	Favorites [models.DrawSize][]int
	counts    [models.DrawSize][models.MaxNumber + 1]int
}

// NewPositionAnalyzer counts rank occupancy across the history.
func NewPositionAnalyzer(h *models.DrawHistory) *PositionAnalyzer {
	a := &PositionAnalyzer{}
	for t := 0; t < h.Len(); t++ {
		for rank, n := range h.Winning(t) {
			a.counts[rank][n]++
		}
	}
	for rank := 0; rank < models.DrawSize; rank++ {
		r := rank
		a.Favorites[rank] = rankNumbers(models.MaxNumber, func(x, y int) bool {
			if a.counts[r][x] != a.counts[r][y] {
				return a.counts[r][x] > a.counts[r][y]
			}
			return x < y
		})
	}
	return a
}

// ValidatePositions returns the total rank-alignment bonus for a ticket:
// 0.15 for a top-5 rank favorite, 0.10 for top-10, 0.05 for top-15.
func (a *PositionAnalyzer) ValidatePositions(d models.Draw) float64 {
	score := 0.0
	for rank, n := range d {
		favs := a.Favorites[rank]
		for i, f := range favs {
			if i >= 15 {
				break
			}
			if f != n {
				continue
			}
			switch {
			case i < 5:
				score += 0.15
			case i < 10:
				score += 0.10
			default:
				score += 0.05
			}
			break
		}
	}
	return score
}
