package engine

import (
	"math"
	"testing"

	"github.com/rewired-gh/lottoracle/internal/models"
)

func TestProbabilityModelUntrainedIsUniform(t *testing.T) {
	h := historyFromDraws(t, randomDraws(30, 8), nil)
	model := NewProbabilityModel()

	if model.Train(h, newRand(h, "ml-train")) {
		t.Fatal("Train succeeded on 30 draws, want refusal")
	}
	table := model.PredictProbabilities(h)
	for n := 1; n <= models.MaxNumber; n++ {
		if math.Abs(table[n]-1.0/models.MaxNumber) > 1e-12 {
			t.Fatalf("untrained table[%d] = %f, want uniform %f", n, table[n], 1.0/models.MaxNumber)
		}
	}
}

func TestProbabilityModelTrained(t *testing.T) {
	h := hotSevenHistory(t)
	model := NewProbabilityModel()

	if !model.Train(h, newRand(h, "ml-train")) {
		t.Fatal("Train failed on 60 draws")
	}
	table := model.PredictProbabilities(h)

	sum := table.Sum()
	if math.Abs(sum-1) > 1e-6 {
		t.Errorf("probabilities sum to %f, want 1", sum)
	}
	if table[7] <= 1.0/models.MaxNumber {
		t.Errorf("table[7] = %f not above uniform despite dominant history", table[7])
	}
}

func TestBuildFeaturesShape(t *testing.T) {
	h := historyFromDraws(t, randomDraws(70, 12), nil)
	x := buildFeatures(h, h.Len()-1, 17)
	if len(x) != numFeatures {
		t.Fatalf("feature vector length %d, want %d", len(x), numFeatures)
	}

	// Parity and high/low bits are exact.
	if x[4] != 1 {
		t.Errorf("parity feature for 17 = %f, want 1", x[4])
	}
	if x[5] != 0 {
		t.Errorf("high feature for 17 = %f, want 0", x[5])
	}

	x = buildFeatures(h, h.Len()-1, 88)
	if x[4] != 0 {
		t.Errorf("parity feature for 88 = %f, want 0", x[4])
	}
	if x[5] != 1 {
		t.Errorf("high feature for 88 = %f, want 1", x[5])
	}
}

func TestSkipCount(t *testing.T) {
	draws := []models.Draw{
		mustDraw(t, []int{1, 2, 3, 4, 5}),
		mustDraw(t, []int{10, 20, 30, 40, 50}),
		mustDraw(t, []int{11, 21, 31, 41, 51}),
	}
	h := historyFromDraws(t, draws, nil)

	if got := skipCount(h, 2, 11); got != 0 {
		t.Errorf("skipCount(11) = %d, want 0", got)
	}
	if got := skipCount(h, 2, 10); got != 1 {
		t.Errorf("skipCount(10) = %d, want 1", got)
	}
	if got := skipCount(h, 2, 1); got != 2 {
		t.Errorf("skipCount(1) = %d, want 2", got)
	}
	// Never seen: the full scanned length.
	if got := skipCount(h, 2, 89); got != 3 {
		t.Errorf("skipCount(89) = %d, want 3", got)
	}
}
