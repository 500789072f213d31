package engine

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/rewired-gh/lottoracle/internal/models"
)

func historyFromDraws(t *testing.T, winning []models.Draw, machine []models.Draw) *models.DrawHistory {
	t.Helper()
	h, err := models.NewHistoryFromDraws(winning, machine)
	if err != nil {
		t.Fatalf("NewHistoryFromDraws failed: %v", err)
	}
	return h
}

func checkTicket(t *testing.T, ticket models.Ticket) {
	t.Helper()
	seen := make(map[int]bool, models.DrawSize)
	for i, n := range ticket.Numbers {
		if n < 1 || n > models.MaxNumber {
			t.Errorf("ticket number %d out of range: %v", n, ticket.Numbers)
		}
		if seen[n] {
			t.Errorf("ticket has duplicate %d: %v", n, ticket.Numbers)
		}
		seen[n] = true
		if i > 0 && ticket.Numbers[i-1] >= n {
			t.Errorf("ticket not sorted ascending: %v", ticket.Numbers)
		}
	}
}

// hotSevenHistory builds 60 draws where 7 appears in 40 of them, spread evenly,
// and every other number repeats only a handful of times.
func hotSevenHistory(t *testing.T) *models.DrawHistory {
	t.Helper()

	fillers := make([]int, 0, models.MaxNumber-1)
	for n := 1; n <= models.MaxNumber; n++ {
		if n != 7 {
			fillers = append(fillers, n)
		}
	}

	next := 0
	take := func(count int) []int {
		out := make([]int, 0, count)
		for len(out) < count {
			out = append(out, fillers[next%len(fillers)])
			next++
		}
		return out
	}

	draws := make([]models.Draw, 60)
	for i := range draws {
		var nums []int
		if i%3 != 2 {
			nums = append([]int{7}, take(4)...)
		} else {
			nums = take(5)
		}
		d, err := models.NewDraw(nums)
		if err != nil {
			t.Fatalf("draw %d invalid: %v", i, err)
		}
		draws[i] = d
	}
	return historyFromDraws(t, draws, nil)
}

func TestSnapshotHotNumber(t *testing.T) {
	h := hotSevenHistory(t)
	snap := NewSnapshot(h)
	if snap.Hot[0] != 7 {
		t.Errorf("Hot[0] = %d, want 7", snap.Hot[0])
	}
}

func TestMLStrategyIncludesHotNumber(t *testing.T) {
	h := hotSevenHistory(t)
	eng := New(h, DefaultConfig())

	pred, err := eng.Predict(StrategyML, Options{})
	if err != nil {
		t.Fatalf("Predict(ml) failed: %v", err)
	}
	tickets := pred.Tickets[StrategyML]
	if len(tickets) != 1 {
		t.Fatalf("got %d ml tickets, want 1", len(tickets))
	}
	checkTicket(t, tickets[0])
	if !tickets[0].Numbers.Contains(7) {
		t.Errorf("ml ticket %v does not include the dominant number 7", tickets[0].Numbers)
	}
}

func TestPredictMinimumDraws(t *testing.T) {
	short := historyFromDraws(t, randomDraws(59, 3), nil)
	eng := New(short, DefaultConfig())

	for _, strategy := range []string{StrategyML, StrategyGenetic, StrategyPattern, StrategyEnsemble} {
		if _, err := eng.Predict(strategy, Options{}); !errors.Is(err, ErrInsufficientData) {
			t.Errorf("Predict(%s) on 59 draws: error = %v, want ErrInsufficientData", strategy, err)
		}
	}
}

func TestIntelligenceRequiresMachineDraws(t *testing.T) {
	h := historyFromDraws(t, randomDraws(80, 3), nil)
	eng := New(h, DefaultConfig())

	_, err := eng.Predict(StrategyIntelligence, Options{})
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Predict(intelligence) without machine draws: error = %v, want ErrInvalidInput", err)
	}

	aligned := historyFromDraws(t, randomDraws(49, 3), randomDraws(49, 4))
	eng = New(aligned, DefaultConfig())
	if _, err := eng.Predict(StrategyIntelligence, Options{}); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("Predict(intelligence) on 49 aligned draws: error = %v, want ErrInsufficientData", err)
	}
}

func TestPredictUnknownStrategy(t *testing.T) {
	eng := New(historyFromDraws(t, randomDraws(80, 3), nil), DefaultConfig())
	if _, err := eng.Predict("tarot", Options{}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Predict(tarot) error = %v, want ErrInvalidInput", err)
	}
}

func TestPredictDeterminism(t *testing.T) {
	h := historyFromDraws(t, randomDraws(80, 5), nil)

	for _, strategy := range []string{StrategyGenetic, StrategyPattern} {
		a, err := New(h, DefaultConfig()).Predict(strategy, Options{})
		if err != nil {
			t.Fatalf("Predict(%s) failed: %v", strategy, err)
		}
		b, err := New(h, DefaultConfig()).Predict(strategy, Options{})
		if err != nil {
			t.Fatalf("Predict(%s) failed: %v", strategy, err)
		}
		if !reflect.DeepEqual(a, b) {
			t.Errorf("Predict(%s) not deterministic: %+v vs %+v", strategy, a, b)
		}
		if !a.GeneratedAt.IsZero() {
			t.Errorf("Predict(%s) stamped GeneratedAt %v; timestamping belongs to the caller", strategy, a.GeneratedAt)
		}
	}
}

func TestSingleStrategyConfidence(t *testing.T) {
	h := historyFromDraws(t, randomDraws(80, 7), nil)
	eng := New(h, DefaultConfig())

	pred, err := eng.Predict(StrategyPattern, Options{})
	if err != nil {
		t.Fatalf("Predict(pattern) failed: %v", err)
	}
	conf, ok := pred.Confidence[StrategyPattern]
	if !ok {
		t.Fatalf("single-strategy prediction carries no confidence: %+v", pred.Confidence)
	}
	if conf.Confidence < 0 || conf.Confidence > 1 {
		t.Errorf("confidence %f out of [0,1]", conf.Confidence)
	}
	if conf.Level == "" || conf.Recommendation == "" {
		t.Error("confidence missing level or recommendation")
	}
	if got := conf.Factors["strategy_agreement"]; got != 1 {
		t.Errorf("strategy_agreement = %f, want 1 for a lone strategy", got)
	}
}

func TestStrategyTicketsAreClean(t *testing.T) {
	h := historyFromDraws(t, randomDraws(120, 9), randomDraws(120, 10))
	eng := New(h, DefaultConfig())

	for _, strategy := range []string{StrategyML, StrategyGenetic, StrategyPattern, StrategyIntelligence} {
		pred, err := eng.Predict(strategy, Options{})
		if err != nil {
			t.Fatalf("Predict(%s) failed: %v", strategy, err)
		}
		ticket := pred.Tickets[strategy][0]
		checkTicket(t, ticket)
		if violations := CheckAntiPatterns(ticket.Numbers); len(violations) != 0 {
			t.Errorf("%s ticket %v violates %v after repair", strategy, ticket.Numbers, violations)
		}
	}
}

func TestEnsemblePrediction(t *testing.T) {
	h := historyFromDraws(t, randomDraws(120, 21), randomDraws(120, 22))
	eng := New(h, DefaultConfig())

	pred, err := eng.Predict(StrategyEnsemble, Options{})
	if err != nil {
		t.Fatalf("Predict(ensemble) failed: %v", err)
	}

	for _, name := range []string{StrategyML, StrategyGenetic, StrategyPattern, StrategyIntelligence, StrategyEnsemble} {
		tickets, ok := pred.Tickets[name]
		if !ok || len(tickets) != 1 {
			t.Fatalf("missing ticket for %s", name)
		}
		checkTicket(t, tickets[0])
		conf, ok := pred.Confidence[name]
		if !ok {
			t.Errorf("missing confidence for %s", name)
			continue
		}
		if conf.Confidence < 0 || conf.Confidence > 1 {
			t.Errorf("%s confidence %f out of [0,1]", name, conf.Confidence)
		}
		if conf.Level == "" || conf.Recommendation == "" {
			t.Errorf("%s confidence missing level or recommendation", name)
		}
	}

	if len(pred.TwoSure) != 2 {
		t.Errorf("TwoSure = %v, want 2 numbers", pred.TwoSure)
	}
	if len(pred.ThreeDirect) != 3 {
		t.Errorf("ThreeDirect = %v, want 3 numbers", pred.ThreeDirect)
	}
}

func TestAlignWithConsensus(t *testing.T) {
	h := historyFromDraws(t, randomDraws(60, 11), randomDraws(60, 12))
	intel, err := NewIntelligenceScorer(h)
	if err != nil {
		t.Fatalf("NewIntelligenceScorer failed: %v", err)
	}
	// 7 and 22 are the clear top-2 consensus of the base strategies.
	base := []StrategyOutput{
		{Name: StrategyML, Ticket: mustDraw(t, []int{7, 22, 31, 48, 60})},
		{Name: StrategyGenetic, Ticket: mustDraw(t, []int{7, 14, 22, 53, 77})},
		{Name: StrategyPattern, Ticket: mustDraw(t, []int{7, 19, 22, 66, 84})},
	}

	aligned := alignWithConsensus(mustDraw(t, []int{1, 2, 3, 4, 5}), base, intel, nil)
	checkTicket(t, models.Ticket{Numbers: aligned})
	if !aligned.Contains(7) || !aligned.Contains(22) {
		t.Errorf("aligned ticket %v missing consensus numbers 7 and 22", aligned)
	}

	already := mustDraw(t, []int{7, 22, 40, 55, 70})
	if got := alignWithConsensus(already, base, intel, nil); got != already {
		t.Errorf("already-aligned ticket changed: %v vs %v", got, already)
	}

	if got := alignWithConsensus(already, nil, intel, nil); got != already {
		t.Errorf("empty base must leave the ticket unchanged, got %v", got)
	}
}

func TestEvaluate(t *testing.T) {
	h := historyFromDraws(t, randomDraws(80, 3), nil)
	eng := New(h, DefaultConfig())

	d, err := models.NewDraw([]int{1, 2, 3, 4, 5})
	if err != nil {
		t.Fatal(err)
	}
	ev := eng.Evaluate(d, d)
	if ev.Matches != 5 {
		t.Errorf("Matches = %d, want 5", ev.Matches)
	}
	if math.Abs(ev.ExpectedRandom-25.0/90.0) > 1e-9 {
		t.Errorf("ExpectedRandom = %f, want %f", ev.ExpectedRandom, 25.0/90.0)
	}
	if !ev.Significant {
		t.Errorf("Significant = false for a 5-match (z = %f)", ev.ZScore)
	}

	miss, err := models.NewDraw([]int{6, 8, 10, 12, 14})
	if err != nil {
		t.Fatal(err)
	}
	ev = eng.Evaluate(d, miss)
	if ev.Matches != 0 {
		t.Errorf("Matches = %d, want 0", ev.Matches)
	}
	if ev.Significant {
		t.Errorf("Significant = true for a 0-match (z = %f)", ev.ZScore)
	}
}

func TestDeriveSeedSensitivity(t *testing.T) {
	h1 := historyFromDraws(t, randomDraws(60, 1), nil)
	h2 := historyFromDraws(t, randomDraws(60, 2), nil)

	if deriveSeed(h1, "genetic") != deriveSeed(h1, "genetic") {
		t.Error("deriveSeed not stable for identical inputs")
	}
	if deriveSeed(h1, "genetic") == deriveSeed(h1, "pattern") {
		t.Error("deriveSeed ignores the strategy name")
	}
	if deriveSeed(h1, "genetic") == deriveSeed(h2, "genetic") {
		t.Error("deriveSeed ignores the history")
	}
}
