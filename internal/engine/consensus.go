package engine

import (
	"sort"

	"github.com/rewired-gh/lottoracle/internal/models"
)

// strategyWeights are the per-strategy voting weights. Unknown strategies
// carry the neutral 1.0.
var strategyWeights = map[string]float64{
	StrategyML:           1.0,
	StrategyGenetic:      1.2,
	StrategyPattern:      1.1,
	StrategyIntelligence: 1.3,
}

func strategyWeight(name string) float64 {
	if w, ok := strategyWeights[name]; ok {
		return w
	}
	return 1.0
}

// StrategyOutput is one strategy's ticket in the reconciler's fixed iteration
// order.
type StrategyOutput struct {
	Name   string
	Ticket models.Draw
}

// ConsensusReconciler merges strategy outputs via weighted consensus voting.
type ConsensusReconciler struct {
	trends *TrendAnalyzer
}

// NewConsensusReconciler builds a reconciler; trends feed the recency boost in
// ExtractConsensus and may be nil when no trend data exists.
func NewConsensusReconciler(trends *TrendAnalyzer) *ConsensusReconciler {
	return &ConsensusReconciler{trends: trends}
}

type voteEntry struct {
	number    int
	count     int
	voteScore float64
	firstSeen int
}

// tally aggregates the vote table. Vote score per number adds, for every
// strategy containing it, the strategy weight plus half the agreement count
// (consensus self-reinforcement).
func (c *ConsensusReconciler) tally(outputs []StrategyOutput) []voteEntry {
	counts := make(map[int]int)
	weightSum := make(map[int]float64)
	firstSeen := make(map[int]int)

	order := 0
	for _, out := range outputs {
		for _, n := range out.Ticket {
			counts[n]++
			weightSum[n] += strategyWeight(out.Name)
			if _, ok := firstSeen[n]; !ok {
				firstSeen[n] = order
			}
			order++
		}
	}

	entries := make([]voteEntry, 0, len(counts))
	for n, count := range counts {
		entries = append(entries, voteEntry{
			number:    n,
			count:     count,
			voteScore: weightSum[n] + 0.5*float64(count)*float64(count),
			firstSeen: firstSeen[n],
		})
	}
	return entries
}

// Vote selects the five numbers with the strongest cross-strategy support:
// agreement count first, then vote score, ties resolved by strategy iteration
// order.
func (c *ConsensusReconciler) Vote(outputs []StrategyOutput) models.Ticket {
	entries := c.tally(outputs)
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.count != b.count {
			return a.count > b.count
		}
		if a.voteScore != b.voteScore {
			return a.voteScore > b.voteScore
		}
		return a.firstSeen < b.firstSeen
	})

	nums := make([]int, 0, models.DrawSize)
	score := 0.0
	for _, e := range entries {
		if len(nums) == models.DrawSize {
			break
		}
		nums = append(nums, e.number)
		score += e.voteScore
	}
	for n := 1; len(nums) < models.DrawSize && n <= models.MaxNumber; n++ {
		if !containsInt(nums, n) {
			nums = append(nums, n)
		}
	}

	sort.Ints(nums)
	var d models.Draw
	copy(d[:], nums)
	return models.Ticket{Numbers: d, Score: score}
}

// recencyBoost rewards numbers currently trending up: rising-momentum members
// gain 0.3, and 0.2 more when also accelerating.
func (c *ConsensusReconciler) recencyBoost(n int) float64 {
	if c.trends == nil || !c.trends.IsRising(n) {
		return 0
	}
	boost := 0.3
	if c.trends.IsAccelerating(n) {
		boost += 0.2
	}
	return boost
}

// ExtractConsensus returns the n most agreed-upon numbers, sorted ascending.
// The composite score stacks agreement count above weighted votes above the
// trend recency boost.
func (c *ConsensusReconciler) ExtractConsensus(outputs []StrategyOutput, n int) []int {
	entries := c.tally(outputs)
	composite := make(map[int]float64, len(entries))
	for _, e := range entries {
		composite[e.number] = float64(e.count)*100 + e.voteScore + c.recencyBoost(e.number)*10
	}
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if composite[a.number] != composite[b.number] {
			return composite[a.number] > composite[b.number]
		}
		return a.firstSeen < b.firstSeen
	})

	if n > len(entries) {
		n = len(entries)
	}
	out := make([]int, 0, n)
	for _, e := range entries[:n] {
		out = append(out, e.number)
	}
	sort.Ints(out)
	return out
}
