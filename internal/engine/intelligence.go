package engine

import (
	"math"
	"sort"

	"github.com/rewired-gh/lottoracle/internal/models"
)

const (
	temporalLambda   = 0.15
	burstWindow      = 10
	gravityThreshold = 1.2
)

var lagWeights = map[int]float64{1: 1.0, 2: 0.7, 3: 0.4}

// unifiedWeights blend the normalized per-number signals.
var unifiedWeights = struct {
	temporal, lag, burst, pair, family float64
}{0.30, 0.25, 0.20, 0.15, 0.10}

func stateModifier(s models.NumberState) float64 {
	switch s {
	case models.StateActive:
		return 1.2
	case models.StateWarming:
		return 1.1
	case models.StateBreakout:
		return 1.15
	case models.StateOverheated:
		return 0.8
	default:
		return 0.7
	}
}

// IntelligenceScorer computes the per-number signal tables (temporal decay,
// machine-to-win lag, burst, pair gravity, families, states) over an aligned
// winning+machine history, and generates persona tickets from them.
type IntelligenceScorer struct {
	h *models.DrawHistory

	temporal  [models.MaxNumber + 1]float64
	lag       [models.MaxNumber + 1]float64
	burst     [models.MaxNumber + 1]float64
	gravity   [models.MaxNumber + 1][models.MaxNumber + 1]float64
	clusterOf [models.MaxNumber + 1]int
	clusters  [][]int
	states    [models.MaxNumber + 1]models.NumberState
	unified   models.ScoreTable

	topTemporal []int
}

// NewIntelligenceScorer validates the history and precomputes every signal
// table. Machine draws are mandatory here.
func NewIntelligenceScorer(h *models.DrawHistory) (*IntelligenceScorer, error) {
	if !h.HasMachine() {
		return nil, &ValidationError{Reason: "intelligence scoring requires aligned machine draws"}
	}
	s := &IntelligenceScorer{h: h}
	s.computeTemporal()
	s.computeLag()
	s.computeBurst()
	s.computeGravity()
	s.computeClusters()
	s.computeStates()
	s.computeUnified()
	return s, nil
}

// States exposes the per-number state table.
func (s *IntelligenceScorer) States() [models.MaxNumber + 1]models.NumberState {
	return s.states
}

// Unified exposes the per-number unified score table.
func (s *IntelligenceScorer) Unified() models.ScoreTable { return s.unified }

func (s *IntelligenceScorer) computeTemporal() {
	last := s.h.Len() - 1
	for t := 0; t <= last; t++ {
		dt := float64(last - t)
		decay := math.Exp(-temporalLambda * dt)
		for _, n := range s.h.Winning(t) {
			s.temporal[n] += decay
		}
	}
	s.topTemporal = s.temporal10()
}

func (s *IntelligenceScorer) temporal10() []int {
	return rankNumbers(10, func(a, b int) bool {
		if s.temporal[a] != s.temporal[b] {
			return s.temporal[a] > s.temporal[b]
		}
		return a < b
	})
}

// computeLag estimates, per number, the best weighted probability that a
// machine appearance is followed by a win within 1 to 3 draws.
func (s *IntelligenceScorer) computeLag() {
	for k := 1; k <= models.MaxNumber; k++ {
		best := 0.0
		for lag := 1; lag <= 3; lag++ {
			hits, total := 0, 0
			for t := lag; t < s.h.Len(); t++ {
				if !s.h.Machine(t - lag).Contains(k) {
					continue
				}
				total++
				if s.h.Winning(t).Contains(k) {
					hits++
				}
			}
			if total == 0 {
				continue
			}
			if p := lagWeights[lag] * float64(hits) / float64(total); p > best {
				best = p
			}
		}
		s.lag[k] = best
	}
}

func (s *IntelligenceScorer) winIndexes(k int) []int {
	var idx []int
	for t := 0; t < s.h.Len(); t++ {
		if s.h.Winning(t).Contains(k) {
			idx = append(idx, t)
		}
	}
	return idx
}

func (s *IntelligenceScorer) computeBurst() {
	for k := 1; k <= models.MaxNumber; k++ {
		wins := s.winIndexes(k)
		if len(wins) < 2 {
			continue
		}
		recent := 0
		cutoff := s.h.Len() - burstWindow
		for _, t := range wins {
			if t >= cutoff {
				recent++
			}
		}
		gapSum := 0
		for i := 1; i < len(wins); i++ {
			gapSum += wins[i] - wins[i-1]
		}
		meanGap := float64(gapSum) / float64(len(wins)-1)
		s.burst[k] = float64(recent+1) / (meanGap + regimeEpsilon)
	}
}

// computeGravity fills the pairwise co-occurrence lift table.
func (s *IntelligenceScorer) computeGravity() {
	total := float64(s.h.Len())
	var marginal [models.MaxNumber + 1]float64
	var joint [models.MaxNumber + 1][models.MaxNumber + 1]float64
	for t := 0; t < s.h.Len(); t++ {
		d := s.h.Winning(t)
		for _, n := range d {
			marginal[n]++
		}
		for i := 0; i < models.DrawSize; i++ {
			for j := i + 1; j < models.DrawSize; j++ {
				joint[d[i]][d[j]]++
			}
		}
	}
	for i := 1; i <= models.MaxNumber; i++ {
		for j := i + 1; j <= models.MaxNumber; j++ {
			if marginal[i] == 0 || marginal[j] == 0 {
				continue
			}
			lift := (joint[i][j] / total) / ((marginal[i] / total) * (marginal[j] / total))
			s.gravity[i][j] = lift
			s.gravity[j][i] = lift
		}
	}
}

// computeClusters groups numbers connected by strong gravity. Pairs are
// processed by descending gravity; a number joins at most one cluster.
func (s *IntelligenceScorer) computeClusters() {
	type pair struct {
		i, j int
		g    float64
	}
	var pairs []pair
	for i := 1; i <= models.MaxNumber; i++ {
		for j := i + 1; j <= models.MaxNumber; j++ {
			if s.gravity[i][j] >= gravityThreshold {
				pairs = append(pairs, pair{i, j, s.gravity[i][j]})
			}
		}
	}
	sort.SliceStable(pairs, func(a, b int) bool { return pairs[a].g > pairs[b].g })

	for n := range s.clusterOf {
		s.clusterOf[n] = -1
	}
	for _, p := range pairs {
		ci, cj := s.clusterOf[p.i], s.clusterOf[p.j]
		switch {
		case ci == -1 && cj == -1:
			s.clusters = append(s.clusters, []int{p.i, p.j})
			s.clusterOf[p.i] = len(s.clusters) - 1
			s.clusterOf[p.j] = len(s.clusters) - 1
		case ci == -1:
			s.clusters[cj] = append(s.clusters[cj], p.i)
			s.clusterOf[p.i] = cj
		case cj == -1:
			s.clusters[ci] = append(s.clusters[ci], p.j)
			s.clusterOf[p.j] = ci
		}
	}
}

func (s *IntelligenceScorer) computeStates() {
	last := s.h.Len()
	cutoff := last - burstWindow
	for k := 1; k <= models.MaxNumber; k++ {
		recentWins, recentMachine := 0, 0
		for t := cutoff; t < last; t++ {
			if t < 0 {
				continue
			}
			if s.h.Winning(t).Contains(k) {
				recentWins++
			}
			if s.h.Machine(t).Contains(k) {
				recentMachine++
			}
		}
		timeSinceWin := last
		for t := last - 1; t >= 0; t-- {
			if s.h.Winning(t).Contains(k) {
				timeSinceWin = last - 1 - t
				break
			}
		}

		switch {
		case recentWins >= 3:
			s.states[k] = models.StateOverheated
		case recentWins >= 1 || (recentMachine >= 2 && s.lag[k] > 0.3):
			s.states[k] = models.StateActive
		case recentMachine >= 1 || s.lag[k] > 0.2:
			s.states[k] = models.StateWarming
		case timeSinceWin > 30 && s.burst[k] < 0.1:
			s.states[k] = models.StateDormant
		case timeSinceWin > 20 && s.lag[k] > 0.15:
			s.states[k] = models.StateBreakout
		default:
			s.states[k] = models.StateDormant
		}
	}
}

func (s *IntelligenceScorer) computeUnified() {
	normalize := func(raw [models.MaxNumber + 1]float64) [models.MaxNumber + 1]float64 {
		max := 0.0
		for n := 1; n <= models.MaxNumber; n++ {
			if raw[n] > max {
				max = raw[n]
			}
		}
		if max == 0 {
			return raw
		}
		var out [models.MaxNumber + 1]float64
		for n := 1; n <= models.MaxNumber; n++ {
			out[n] = raw[n] / max
		}
		return out
	}

	var pairSupport, familySupport [models.MaxNumber + 1]float64
	maxCluster := 0
	for _, c := range s.clusters {
		if len(c) > maxCluster {
			maxCluster = len(c)
		}
	}
	for k := 1; k <= models.MaxNumber; k++ {
		total, count := 0.0, 0
		for _, t := range s.topTemporal {
			if t == k {
				continue
			}
			total += s.gravity[k][t]
			count++
		}
		if count > 0 {
			pairSupport[k] = total / float64(count)
		}
		if c := s.clusterOf[k]; c >= 0 && maxCluster > 0 {
			familySupport[k] = float64(len(s.clusters[c])) / float64(maxCluster)
		}
	}

	temporal := normalize(s.temporal)
	lag := normalize(s.lag)
	burst := normalize(s.burst)
	pair := normalize(pairSupport)

	for k := 1; k <= models.MaxNumber; k++ {
		base := unifiedWeights.temporal*temporal[k] +
			unifiedWeights.lag*lag[k] +
			unifiedWeights.burst*burst[k] +
			unifiedWeights.pair*pair[k] +
			unifiedWeights.family*familySupport[k]
		s.unified[k] = stateModifier(s.states[k]) * base
	}
}

// TicketScore combines member unified scores with pair synergy, family
// coherence, redundancy penalties, and the temporal anchor bonus.
func (s *IntelligenceScorer) TicketScore(d models.Draw) float64 {
	score := 0.0
	for _, n := range d {
		score += s.unified[n]
	}

	for i := 0; i < models.DrawSize; i++ {
		for j := i + 1; j < models.DrawSize; j++ {
			if g := s.gravity[d[i]][d[j]]; g > 1.0 {
				score += 0.5 * (g - 1)
			}
		}
	}

	for _, n := range d {
		if s.clusterOf[n] < 0 {
			continue
		}
		shared := 0
		for _, m := range d {
			if m != n && s.clusterOf[m] == s.clusterOf[n] {
				shared++
			}
		}
		if shared >= 2 {
			score += 0.3
		}
	}

	overheated, active := 0, 0
	for _, n := range d {
		switch s.states[n] {
		case models.StateOverheated:
			overheated++
		case models.StateActive:
			active++
		}
	}
	if overheated > 1 {
		score -= 0.5
	}
	if active > 3 {
		score -= 0.3
	}

	anchored := false
	for _, n := range d {
		for _, t := range s.topTemporal {
			if n == t {
				anchored = true
			}
		}
	}
	if anchored {
		score += 0.2
	} else {
		score -= 0.3
	}
	return score
}

// Personas lists the ticket generator names in their fixed order.
func Personas() []string {
	return []string{"balanced", "structural_anchor", "machine_memory_hunter", "cluster_rider", "breakout_speculator"}
}

func (s *IntelligenceScorer) topUnified(n int) []int {
	return rankNumbers(n, func(a, b int) bool {
		if s.unified[a] != s.unified[b] {
			return s.unified[a] > s.unified[b]
		}
		return a < b
	})
}

// fill extends seed to a full 5-number set with top unified-score numbers.
func (s *IntelligenceScorer) fill(seed []int) models.Draw {
	taken := make(map[int]bool, models.DrawSize)
	nums := make([]int, 0, models.DrawSize)
	for _, n := range seed {
		if len(nums) == models.DrawSize {
			break
		}
		if n >= 1 && n <= models.MaxNumber && !taken[n] {
			taken[n] = true
			nums = append(nums, n)
		}
	}
	for _, n := range s.topUnified(models.MaxNumber) {
		if len(nums) == models.DrawSize {
			break
		}
		if !taken[n] {
			taken[n] = true
			nums = append(nums, n)
		}
	}
	sort.Ints(nums)
	var d models.Draw
	copy(d[:], nums)
	return d
}

// statePicks returns numbers in any of the given states, best unified first.
func (s *IntelligenceScorer) statePicks(limit int, states ...models.NumberState) []int {
	want := make(map[models.NumberState]bool, len(states))
	for _, st := range states {
		want[st] = true
	}
	var out []int
	for _, n := range s.topUnified(models.MaxNumber) {
		if want[s.states[n]] {
			out = append(out, n)
		}
		if len(out) == limit {
			break
		}
	}
	return out
}

// generate builds the candidate ticket for one persona. Every persona falls
// through to top-unified fill, so a full valid ticket always comes back.
func (s *IntelligenceScorer) generate(persona string) models.Draw {
	switch persona {
	case "structural_anchor":
		return s.fill(s.statePicks(models.DrawSize, models.StateActive, models.StateWarming))
	case "machine_memory_hunter":
		lagTop := rankNumbers(3, func(a, b int) bool {
			if s.lag[a] != s.lag[b] {
				return s.lag[a] > s.lag[b]
			}
			return a < b
		})
		return s.fill(lagTop)
	case "cluster_rider":
		bestCluster := -1
		for i, c := range s.clusters {
			if bestCluster == -1 || len(c) > len(s.clusters[bestCluster]) {
				bestCluster = i
			}
		}
		if bestCluster == -1 {
			return s.fill(nil)
		}
		members := append([]int(nil), s.clusters[bestCluster]...)
		sort.SliceStable(members, func(a, b int) bool {
			if s.unified[members[a]] != s.unified[members[b]] {
				return s.unified[members[a]] > s.unified[members[b]]
			}
			return members[a] < members[b]
		})
		return s.fill(members)
	case "breakout_speculator":
		return s.fill(s.statePicks(3, models.StateBreakout))
	default: // balanced
		seed := s.topUnified(2)
		seed = append(seed, s.temporal10()...)
		return s.fill(seed)
	}
}

// Predict returns the persona's ticket scored by TicketScore. An empty persona
// runs every generator and keeps the best-scoring ticket, earliest persona
// winning ties.
func (s *IntelligenceScorer) Predict(persona string) models.Ticket {
	if persona != "" {
		d := s.generate(persona)
		return models.Ticket{Numbers: d, Score: s.TicketScore(d)}
	}

	var best models.Ticket
	first := true
	for _, p := range Personas() {
		d := s.generate(p)
		t := models.Ticket{Numbers: d, Score: s.TicketScore(d)}
		if first || t.Score > best.Score {
			best = t
			first = false
		}
	}
	return best
}
