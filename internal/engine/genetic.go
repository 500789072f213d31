package engine

import (
	"math/rand"
	"sort"

	"github.com/rewired-gh/lottoracle/internal/models"
)

// GeneticConfig shapes the evolutionary search.
type GeneticConfig struct {
	PopulationSize int
	Generations    int
	MutationRate   float64
}

// DefaultGeneticConfig returns the standard search shape.
func DefaultGeneticConfig() GeneticConfig {
	return GeneticConfig{PopulationSize: 150, Generations: 75, MutationRate: 0.3}
}

// Constraints are the soft targets an evolved ticket is scored against.
type Constraints struct {
	SumLow      int
	SumHigh     int
	HasSumRange bool
	EvenTargets map[int]bool
	HighTargets map[int]bool
}

// GeneticOptimizer evolves 5-number sets toward maximal fitness under a score
// table. All randomness flows from the injected source, so a fixed seed
// replays the same evolution.
type GeneticOptimizer struct {
	cfg GeneticConfig
	rng *rand.Rand
}

// NewGeneticOptimizer builds an optimizer around a shared random source.
func NewGeneticOptimizer(cfg GeneticConfig, rng *rand.Rand) *GeneticOptimizer {
	if cfg.PopulationSize <= 0 {
		cfg.PopulationSize = 150
	}
	if cfg.Generations <= 0 {
		cfg.Generations = 75
	}
	if cfg.MutationRate <= 0 {
		cfg.MutationRate = 0.3
	}
	return &GeneticOptimizer{cfg: cfg, rng: rng}
}

type individual [models.DrawSize]int

func (ind individual) sum() int {
	s := 0
	for _, n := range ind {
		s += n
	}
	return s
}

func (ind individual) distinct() bool {
	seen := make(map[int]bool, models.DrawSize)
	for _, n := range ind {
		if seen[n] {
			return false
		}
		seen[n] = true
	}
	return true
}

func (ind individual) adjacentPairs() int {
	sorted := ind
	sort.Ints(sorted[:])
	pairs := 0
	for i := 1; i < models.DrawSize; i++ {
		if sorted[i]-sorted[i-1] == 1 {
			pairs++
		}
	}
	return pairs
}

// Fitness scores an individual: probability mass scaled by soft-constraint
// satisfaction, penalized for adjacent numbers. A malformed individual scores 0.
func (g *GeneticOptimizer) Fitness(ind individual, table *models.ScoreTable, cons Constraints) float64 {
	if !ind.distinct() {
		return 0
	}

	mass := 0.0
	even, high := 0, 0
	for _, n := range ind {
		mass += table[n]
		if n%2 == 0 {
			even++
		}
		if n > models.HighThreshold {
			high++
		}
	}

	score := 1.0
	if cons.HasSumRange {
		if s := ind.sum(); s >= cons.SumLow && s <= cons.SumHigh {
			score *= 1.2
		} else {
			score *= 0.8
		}
	}
	if cons.EvenTargets[even] {
		score *= 1.1
	}
	if cons.HighTargets[high] {
		score *= 1.1
	}
	return mass*score - 0.1*float64(ind.adjacentPairs())
}

// weightedPick samples one number from 1..MaxNumber proportionally to the
// table, skipping numbers already taken. Falls back to a uniform pick over the
// free numbers when the remaining mass is zero.
func (g *GeneticOptimizer) weightedPick(table *models.ScoreTable, taken map[int]bool) int {
	total := 0.0
	for n := 1; n <= models.MaxNumber; n++ {
		if !taken[n] {
			total += table[n]
		}
	}
	if total > 0 {
		r := g.rng.Float64() * total
		for n := 1; n <= models.MaxNumber; n++ {
			if taken[n] {
				continue
			}
			r -= table[n]
			if r <= 0 {
				return n
			}
		}
	}
	for {
		n := g.rng.Intn(models.MaxNumber) + 1
		if !taken[n] {
			return n
		}
	}
}

func (g *GeneticOptimizer) randomIndividual(table *models.ScoreTable, cons Constraints) individual {
	// The sum constraint is relaxed after enough failed attempts so that a
	// narrow range can never stall initialization.
	const maxAttempts = 200
	for attempt := 0; ; attempt++ {
		taken := make(map[int]bool, models.DrawSize)
		var ind individual
		for i := 0; i < models.DrawSize; i++ {
			n := g.weightedPick(table, taken)
			taken[n] = true
			ind[i] = n
		}
		if !cons.HasSumRange || attempt >= maxAttempts {
			return ind
		}
		if s := ind.sum(); s >= cons.SumLow && s <= cons.SumHigh {
			return ind
		}
	}
}

func (g *GeneticOptimizer) tournament(pop []individual, fit []float64) individual {
	best := g.rng.Intn(len(pop))
	for i := 1; i < 3; i++ {
		c := g.rng.Intn(len(pop))
		if fit[c] > fit[best] {
			best = c
		}
	}
	return pop[best]
}

// crossover splices a prefix of p1 with p2's remaining numbers, then repairs
// the child to 5 distinct members.
func (g *GeneticOptimizer) crossover(p1, p2 individual) individual {
	point := g.rng.Intn(models.DrawSize-1) + 1

	taken := make(map[int]bool, models.DrawSize)
	nums := make([]int, 0, models.DrawSize)
	for _, n := range p1[:point] {
		if !taken[n] {
			taken[n] = true
			nums = append(nums, n)
		}
	}
	for _, n := range p2 {
		if len(nums) == models.DrawSize {
			break
		}
		if !taken[n] {
			taken[n] = true
			nums = append(nums, n)
		}
	}
	for len(nums) < models.DrawSize {
		n := g.rng.Intn(models.MaxNumber) + 1
		if !taken[n] {
			taken[n] = true
			nums = append(nums, n)
		}
	}
	sort.Ints(nums)

	var child individual
	copy(child[:], nums)
	return child
}

func (g *GeneticOptimizer) mutate(ind individual, table *models.ScoreTable) individual {
	switch g.rng.Intn(3) {
	case 0:
		i, j := g.rng.Intn(models.DrawSize), g.rng.Intn(models.DrawSize)
		ind[i], ind[j] = ind[j], ind[i]
	case 1:
		taken := make(map[int]bool, models.DrawSize)
		for _, n := range ind {
			taken[n] = true
		}
		i := g.rng.Intn(models.DrawSize)
		delete(taken, ind[i])
		ind[i] = g.weightedPick(table, taken)
	default:
		offset := g.rng.Intn(11) - 5
		taken := make(map[int]bool, models.DrawSize)
		for i, n := range ind {
			shifted := ((n-1+offset)%models.MaxNumber+models.MaxNumber)%models.MaxNumber + 1
			ind[i] = shifted
			taken[shifted] = true
		}
		for i := 0; i < models.DrawSize; i++ {
			dup := false
			for j := 0; j < i; j++ {
				if ind[j] == ind[i] {
					dup = true
					break
				}
			}
			if dup {
				for {
					n := g.rng.Intn(models.MaxNumber) + 1
					if !taken[n] {
						taken[n] = true
						ind[i] = n
						break
					}
				}
			}
		}
	}
	return ind
}

// Evolve runs the fixed-generation search and returns the best individual of
// the final population, sorted ascending.
func (g *GeneticOptimizer) Evolve(table *models.ScoreTable, cons Constraints) models.Ticket {
	pop := make([]individual, g.cfg.PopulationSize)
	for i := range pop {
		pop[i] = g.randomIndividual(table, cons)
	}

	fit := make([]float64, len(pop))
	for gen := 0; gen < g.cfg.Generations; gen++ {
		for i, ind := range pop {
			fit[i] = g.Fitness(ind, table, cons)
		}
		next := make([]individual, 0, len(pop))
		for len(next) < len(pop) {
			p1 := g.tournament(pop, fit)
			p2 := g.tournament(pop, fit)
			child := g.crossover(p1, p2)
			if g.rng.Float64() < g.cfg.MutationRate {
				child = g.mutate(child, table)
			}
			next = append(next, child)
		}
		pop = next
	}

	bestIdx := 0
	bestFit := g.Fitness(pop[0], table, cons)
	for i := 1; i < len(pop); i++ {
		if f := g.Fitness(pop[i], table, cons); f > bestFit {
			bestIdx, bestFit = i, f
		}
	}

	best := pop[bestIdx]
	sort.Ints(best[:])
	var d models.Draw
	copy(d[:], best[:])
	return models.Ticket{Numbers: d, Score: bestFit}
}
