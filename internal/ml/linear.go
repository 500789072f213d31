package ml

import (
	"errors"
	"fmt"

	"github.com/sajari/regression"
)

// Linear is a least-squares linear probability model: an ordinary regression
// of the binary label on the features, with predictions clamped to [0,1].
// It is the structurally simplest member of the ensemble.
type Linear struct {
	r *regression.Regression
}

// Fit trains the linear model.
func (l *Linear) Fit(X [][]float64, y []int) error {
	if len(X) == 0 || len(X) != len(y) {
		return errors.New("linear: empty or mismatched training set")
	}
	r := new(regression.Regression)
	r.SetObserved("appears")
	for j := range X[0] {
		r.SetVar(j, fmt.Sprintf("f%d", j))
	}
	for i, row := range X {
		r.Train(regression.DataPoint(float64(y[i]), row))
	}
	if err := r.Run(); err != nil {
		return fmt.Errorf("linear: %w", err)
	}
	l.r = r
	return nil
}

// PredictProba returns the clamped regression output.
func (l *Linear) PredictProba(x []float64) float64 {
	if l.r == nil {
		return 0
	}
	p, err := l.r.Predict(x)
	if err != nil {
		return 0
	}
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
