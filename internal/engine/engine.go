// Package engine implements the multi-strategy scoring and
// consensus-reconciliation core: it turns draw history into per-number
// scores, runs the independent generation strategies, and merges their
// outputs into ranked consensus picks with confidence estimates.
package engine

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/rewired-gh/lottoracle/internal/logger"
	"github.com/rewired-gh/lottoracle/internal/models"
)

// Strategy names accepted by Predict.
const (
	StrategyML           = "ml"
	StrategyGenetic      = "genetic"
	StrategyPattern      = "pattern"
	StrategyIntelligence = "intelligence"
	StrategyEnsemble     = "ensemble"
	StrategyAll          = "all"
)

const (
	minDrawsBasic   = 60
	minDrawsAligned = 50
)

// Config tunes the engine. Zero values fall back to defaults.
type Config struct {
	Genetic GeneticConfig
}

// DefaultConfig returns the standard engine tuning.
func DefaultConfig() Config {
	return Config{Genetic: DefaultGeneticConfig()}
}

// Options adjust a single Predict call.
type Options struct {
	// NPredictions is the requested ticket count per strategy. The engine
	// guarantees one ticket per strategy; multiplicity beyond that is a
	// caller-level feature.
	NPredictions int
}

// Engine is a caller-owned prediction instance. Derived tables are memoized
// against the current history and rebuilt by SetHistory. Instances are not
// safe for concurrent use.
type Engine struct {
	history *models.DrawHistory
	cfg     Config

	snapshot   *PatternSnapshot
	zones      *ZoneAnalyzer
	gaps       *GapAnalyzer
	trends     *TrendAnalyzer
	positions  *PositionAnalyzer
	confidence *ConfidenceScorer

	probModel    *ProbabilityModel
	probAttempt  bool
	intel        *IntelligenceScorer
	intelErr     error
	intelAttempt bool
}

// New constructs an engine over a validated history.
func New(history *models.DrawHistory, cfg Config) *Engine {
	e := &Engine{cfg: cfg}
	e.SetHistory(history)
	return e
}

// SetHistory swaps the history and rebuilds every derived table.
func (e *Engine) SetHistory(history *models.DrawHistory) {
	e.history = history
	e.snapshot = NewSnapshot(history)
	e.zones = NewZoneAnalyzer(history)
	e.gaps = NewGapAnalyzer(history)
	e.trends = NewTrendAnalyzer(history)
	e.positions = NewPositionAnalyzer(history)
	e.confidence = NewConfidenceScorer(history, e.gaps, e.positions)
	e.probModel = NewProbabilityModel()
	e.probAttempt = false
	e.intel = nil
	e.intelErr = nil
	e.intelAttempt = false
}

// History returns the engine's current history.
func (e *Engine) History() *models.DrawHistory { return e.history }

// Snapshot returns the memoized trailing-window summary.
func (e *Engine) Snapshot() *PatternSnapshot { return e.snapshot }

// DetectRegimeChange runs regime detection over the full history.
func (e *Engine) DetectRegimeChange() models.RegimeReport {
	return DetectRegimeChange(e.history.WinningSlice(0, e.history.Len()))
}

// ensureProbModel trains the classifier ensemble once per history. Training
// uses its own fixed-purpose seed so the memoized model is identical no
// matter which strategy triggered it.
func (e *Engine) ensureProbModel() *ProbabilityModel {
	if !e.probAttempt {
		e.probAttempt = true
		rng := newRand(e.history, "ml-train")
		if !e.probModel.Train(e.history, rng) {
			logger.Warn("classifier training skipped: history too short (%d draws)", e.history.Len())
		}
	}
	return e.probModel
}

// ensureIntelligence builds the intelligence scorer once per history.
func (e *Engine) ensureIntelligence() (*IntelligenceScorer, error) {
	if !e.intelAttempt {
		e.intelAttempt = true
		e.intel, e.intelErr = NewIntelligenceScorer(e.history)
	}
	return e.intel, e.intelErr
}

func (e *Engine) validateStrategy(strategy string) error {
	switch strategy {
	case StrategyML, StrategyGenetic, StrategyPattern:
		if e.history.Len() < minDrawsBasic {
			return insufficientData(strategy+" strategy", minDrawsBasic, e.history.Len())
		}
	case StrategyIntelligence:
		if !e.history.HasMachine() {
			return &ValidationError{Reason: "intelligence strategy requires aligned machine draws"}
		}
		if e.history.Len() < minDrawsAligned {
			return insufficientData("intelligence strategy", minDrawsAligned, e.history.Len())
		}
	case StrategyEnsemble, StrategyAll:
		if e.history.Len() < minDrawsBasic {
			return insufficientData("ensemble strategy", minDrawsBasic, e.history.Len())
		}
	default:
		return &ValidationError{Reason: fmt.Sprintf("unknown strategy %q", strategy)}
	}
	return nil
}

// Predict runs one strategy (or the full ensemble) over the current history.
// All randomness for the call flows from a single seed derived from the
// history and the strategy name, so identical inputs replay identical output.
func (e *Engine) Predict(strategy string, opts Options) (*models.Prediction, error) {
	if err := e.validateStrategy(strategy); err != nil {
		return nil, err
	}
	if opts.NPredictions < 1 {
		opts.NPredictions = 3
	}

	rng := newRand(e.history, strategy)
	pred := &models.Prediction{
		Strategy: strategy,
		Tickets:  make(map[string][]models.Ticket),
	}

	if strategy == StrategyEnsemble || strategy == StrategyAll {
		e.runEnsemble(pred, rng)
		return pred, nil
	}

	ticket := e.runStrategy(strategy, rng)
	pred.Tickets[strategy] = []models.Ticket{ticket}
	// A lone strategy only overlaps itself, so agreement degenerates to 1.
	pred.Confidence = map[string]models.Confidence{
		strategy: e.confidence.Score(ticket.Numbers, 1),
	}
	return pred, nil
}

// runStrategy executes one strategy through its fallback tiers and applies
// anti-pattern repair to the result.
func (e *Engine) runStrategy(name string, rng *rand.Rand) models.Ticket {
	ticket, err := e.runPrimary(name, rng)
	if err != nil {
		logger.Warn("%s strategy failed (%v), using simplified fallback", name, err)
		ticket = e.simplifiedTicket(name)
	}
	repaired := RepairAntiPatterns(ticket.Numbers, e.repairPool())
	if repaired != ticket.Numbers {
		ticket.Numbers = repaired
	}
	return ticket
}

func (e *Engine) runPrimary(name string, rng *rand.Rand) (models.Ticket, error) {
	switch name {
	case StrategyML:
		return e.mlTicket()
	case StrategyGenetic:
		return e.geneticTicket(rng), nil
	case StrategyPattern:
		return NewPatternScorer(e.snapshot).Predict(), nil
	case StrategyIntelligence:
		intel, err := e.ensureIntelligence()
		if err != nil {
			return models.Ticket{}, err
		}
		return intel.Predict(""), nil
	}
	return models.Ticket{}, fmt.Errorf("no primary for strategy %q", name)
}

// mlTicket takes the top five numbers of the classifier ensemble's
// probability table. An untrained model leaves the table uniform, which the
// caller treats as a soft failure.
func (e *Engine) mlTicket() (models.Ticket, error) {
	model := e.ensureProbModel()
	table := model.PredictProbabilities(e.history)
	if !model.Trained() {
		return models.Ticket{}, insufficientData("classifier training", featureLookback+10, e.history.Len())
	}

	top := table.Top(models.DrawSize)
	d, err := models.NewDraw(top)
	if err != nil {
		return models.Ticket{}, err
	}
	score := 0.0
	for _, n := range d {
		score += table[n]
	}
	return models.Ticket{Numbers: d, Score: score}, nil
}

// patternScoreTable builds the genetic optimizer's weight table from the
// snapshot: hot, overdue-cold, due, and frequency signals stacked on a small
// uniform base.
func (e *Engine) patternScoreTable() models.ScoreTable {
	var table models.ScoreTable
	snap := e.snapshot

	hot := make(map[int]bool)
	for i, n := range snap.Hot {
		if i == 10 {
			break
		}
		hot[n] = true
	}
	coldTop5 := make(map[int]bool)
	for _, n := range snap.Cold {
		if snap.Skips[n] > 20 {
			coldTop5[n] = true
		}
		if len(coldTop5) == 5 {
			break
		}
	}
	meanSkip := snap.MeanSkip()

	maxFreq := 0
	for n := 1; n <= models.MaxNumber; n++ {
		if snap.Freq[n] > maxFreq {
			maxFreq = snap.Freq[n]
		}
	}

	for n := 1; n <= models.MaxNumber; n++ {
		score := 0.01
		if hot[n] {
			score += 0.4
		}
		if coldTop5[n] {
			score += 0.3 * float64(snap.Skips[n]) / 30
		}
		skip := float64(snap.Skips[n])
		if skip >= meanSkip*0.8 && skip <= meanSkip*1.2 {
			score += 0.2
		}
		if maxFreq > 0 {
			score += 0.1 * float64(snap.Freq[n]) / float64(maxFreq)
		}
		table[n] = score
	}
	table.Normalize()
	return table
}

func (e *Engine) geneticTicket(rng *rand.Rand) models.Ticket {
	table := e.patternScoreTable()
	cons := Constraints{
		SumLow:      e.snapshot.SumQ1,
		SumHigh:     e.snapshot.SumQ3,
		HasSumRange: e.snapshot.SumQ3 > e.snapshot.SumQ1,
		EvenTargets: map[int]bool{2: true, 3: true},
		HighTargets: map[int]bool{2: true, 3: true},
	}
	return NewGeneticOptimizer(e.cfg.Genetic, rng).Evolve(&table, cons)
}

// simplifiedTicket is the deterministic middle fallback tier: top numbers by
// recent frequency, skips broken toward longer-overdue numbers.
func (e *Engine) simplifiedTicket(name string) models.Ticket {
	snap := e.snapshot
	top := rankNumbers(models.DrawSize, func(a, b int) bool {
		if snap.Freq[a] != snap.Freq[b] {
			return snap.Freq[a] > snap.Freq[b]
		}
		if snap.Skips[a] != snap.Skips[b] {
			return snap.Skips[a] > snap.Skips[b]
		}
		return a < b
	})
	d, err := models.NewDraw(top)
	if err != nil {
		logger.Warn("%s simplified fallback failed (%v), using frequency ticket", name, err)
		return e.frequencyTicket()
	}
	return models.Ticket{Numbers: d, Score: 0}
}

// frequencyTicket is the last-resort fallback: the five most frequent numbers
// of the entire history.
func (e *Engine) frequencyTicket() models.Ticket {
	var counts [models.MaxNumber + 1]int
	for t := 0; t < e.history.Len(); t++ {
		for _, n := range e.history.Winning(t) {
			counts[n]++
		}
	}
	top := rankNumbers(models.DrawSize, func(a, b int) bool {
		if counts[a] != counts[b] {
			return counts[a] > counts[b]
		}
		return a < b
	})
	var d models.Draw
	copy(d[:], top)
	return models.Ticket{Numbers: d, Score: 0}
}

// repairPool orders the anti-pattern repair candidates rising-trend numbers
// first, then the remaining range.
func (e *Engine) repairPool() []int {
	pool := make([]int, 0, models.MaxNumber)
	seen := make(map[int]bool)
	for _, n := range e.trends.Rising {
		pool = append(pool, n)
		seen[n] = true
	}
	for n := 1; n <= models.MaxNumber; n++ {
		if !seen[n] {
			pool = append(pool, n)
		}
	}
	return pool
}

// runEnsemble executes every strategy with failure isolation, fuses the
// survivors through consensus voting, and attaches the consensus extracts and
// per-strategy confidence.
func (e *Engine) runEnsemble(pred *models.Prediction, rng *rand.Rand) {
	var outputs []StrategyOutput
	for _, name := range []string{StrategyML, StrategyGenetic, StrategyPattern} {
		ticket, err := e.runPrimary(name, rng)
		if err != nil {
			logger.Warn("%s strategy failed in ensemble (%v), using simplified fallback", name, err)
			ticket = e.simplifiedTicket(name)
		}
		ticket.Numbers = RepairAntiPatterns(ticket.Numbers, e.repairPool())
		pred.Tickets[name] = []models.Ticket{ticket}
		outputs = append(outputs, StrategyOutput{Name: name, Ticket: ticket.Numbers})
	}

	if e.history.HasMachine() && e.history.Len() >= minDrawsAligned {
		ticket := e.intelligenceEnsembleTicket(outputs)
		ticket.Numbers = RepairAntiPatterns(ticket.Numbers, e.repairPool())
		pred.Tickets[StrategyIntelligence] = []models.Ticket{ticket}
		outputs = append(outputs, StrategyOutput{Name: StrategyIntelligence, Ticket: ticket.Numbers})
	} else if e.history.HasMachine() {
		logger.Warn("intelligence strategy skipped: %d aligned draws, need %d", e.history.Len(), minDrawsAligned)
	}

	if len(outputs) == 0 {
		fallback := e.frequencyTicket()
		pred.Tickets[StrategyEnsemble] = []models.Ticket{fallback}
		return
	}

	rec := NewConsensusReconciler(e.trends)
	fused := rec.Vote(outputs)
	fused.Numbers = RepairAntiPatterns(fused.Numbers, e.repairPool())
	pred.Tickets[StrategyEnsemble] = []models.Ticket{fused}
	pred.TwoSure = rec.ExtractConsensus(outputs, 2)
	pred.ThreeDirect = rec.ExtractConsensus(outputs, 3)

	pred.Confidence = make(map[string]models.Confidence, len(outputs)+1)
	for _, out := range outputs {
		agreement := e.agreementFraction(out.Ticket, outputs)
		pred.Confidence[out.Name] = e.confidence.Score(out.Ticket, agreement)
	}
	pred.Confidence[StrategyEnsemble] = e.confidence.Score(fused.Numbers, e.agreementFraction(fused.Numbers, outputs))
}

// intelligenceEnsembleTicket runs the intelligence scorer for the ensemble
// and pulls its ticket toward the other strategies' consensus before the vote.
func (e *Engine) intelligenceEnsembleTicket(base []StrategyOutput) models.Ticket {
	intel, err := e.ensureIntelligence()
	if err != nil {
		logger.Warn("intelligence strategy failed in ensemble (%v), using simplified fallback", err)
		return e.simplifiedTicket(StrategyIntelligence)
	}
	ticket := intel.Predict("")
	ticket.Numbers = alignWithConsensus(ticket.Numbers, base, intel, e.trends)
	ticket.Score = intel.TicketScore(ticket.Numbers)
	return ticket
}

// alignWithConsensus folds the base strategies' top-2 consensus numbers into a
// ticket: each consensus number the ticket misses replaces the member with the
// lowest unified score, consensus members themselves staying untouched.
func alignWithConsensus(d models.Draw, base []StrategyOutput, intel *IntelligenceScorer, trends *TrendAnalyzer) models.Draw {
	if len(base) == 0 {
		return d
	}
	consensus := NewConsensusReconciler(trends).ExtractConsensus(base, 2)
	unified := intel.Unified()
	for _, c := range consensus {
		if d.Contains(c) {
			continue
		}
		worst := -1
		for i, n := range d {
			if containsInt(consensus, n) {
				continue
			}
			if worst == -1 || unified[n] < unified[d[worst]] {
				worst = i
			}
		}
		if worst == -1 {
			break
		}
		d[worst] = c
		sort.Ints(d[:])
	}
	return d
}

// agreementFraction averages the per-strategy overlap of a ticket with every
// strategy output, the ticket's own strategy included.
func (e *Engine) agreementFraction(d models.Draw, outputs []StrategyOutput) float64 {
	if len(outputs) == 0 {
		return 0
	}
	total := 0.0
	for _, out := range outputs {
		overlap := 0
		for _, n := range d {
			if out.Ticket.Contains(n) {
				overlap++
			}
		}
		total += float64(overlap) / models.DrawSize
	}
	return total / float64(len(outputs))
}

// Evaluate compares a predicted ticket against the actual draw. The z-score
// measures the match count against the 25/90 random expectation.
func (e *Engine) Evaluate(predicted, actual models.Draw) models.Evaluation {
	matches := 0
	for _, n := range predicted {
		if actual.Contains(n) {
			matches++
		}
	}

	p := float64(models.DrawSize) / float64(models.MaxNumber)
	expected := float64(models.DrawSize) * p
	sigma := math.Sqrt(float64(models.DrawSize) * p * (1 - p))
	z := (float64(matches) - expected) / sigma
	return models.Evaluation{
		Matches:        matches,
		ExpectedRandom: expected,
		ZScore:         z,
		Significant:    math.Abs(z) > 1.96,
	}
}
