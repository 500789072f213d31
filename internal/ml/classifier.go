// Package ml provides the binary classifier ensemble behind the probability
// model: feature scaling, class rebalancing, and three structurally different
// classifiers (bagged trees, boosted stumps, linear probability model).
package ml

import "math"

// Classifier is a trained binary model producing a positive-class probability.
type Classifier interface {
	Fit(X [][]float64, y []int) error
	PredictProba(x []float64) float64
}

// StandardScaler standardizes features to zero mean and unit variance.
type StandardScaler struct {
	Mean []float64
	Std  []float64
}

// Fit computes per-feature mean and standard deviation from X.
func (s *StandardScaler) Fit(X [][]float64) {
	if len(X) == 0 {
		return
	}
	nf := len(X[0])
	s.Mean = make([]float64, nf)
	s.Std = make([]float64, nf)

	for _, row := range X {
		for j, v := range row {
			s.Mean[j] += v
		}
	}
	for j := range s.Mean {
		s.Mean[j] /= float64(len(X))
	}
	for _, row := range X {
		for j, v := range row {
			d := v - s.Mean[j]
			s.Std[j] += d * d
		}
	}
	for j := range s.Std {
		s.Std[j] = math.Sqrt(s.Std[j] / float64(len(X)))
		if s.Std[j] == 0 {
			s.Std[j] = 1
		}
	}
}

// Transform standardizes a single feature vector.
func (s *StandardScaler) Transform(x []float64) []float64 {
	out := make([]float64, len(x))
	for j, v := range x {
		out[j] = (v - s.Mean[j]) / s.Std[j]
	}
	return out
}

// TransformAll standardizes a full matrix.
func (s *StandardScaler) TransformAll(X [][]float64) [][]float64 {
	out := make([][]float64, len(X))
	for i, row := range X {
		out[i] = s.Transform(row)
	}
	return out
}
