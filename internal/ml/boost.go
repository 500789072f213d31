package ml

import (
	"errors"
	"math"
)

// Boost is a gradient-boosted ensemble of shallow regression trees on
// logistic loss, with Newton-step leaf values and shrinkage.
type Boost struct {
	Rounds    int
	MaxDepth  int
	MinLeaf   int
	Shrinkage float64

	base  float64
	trees []*treeNode
}

// NewBoost constructs a boosted model with the given shape.
func NewBoost(rounds, maxDepth int) *Boost {
	return &Boost{Rounds: rounds, MaxDepth: maxDepth, MinLeaf: 2, Shrinkage: 0.1}
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

// Fit trains the boosted ensemble on a binary-labeled sample.
func (b *Boost) Fit(X [][]float64, y []int) error {
	if len(X) == 0 || len(X) != len(y) {
		return errors.New("boost: empty or mismatched training set")
	}

	pos := 0
	for _, v := range y {
		pos += v
	}
	p := float64(pos) / float64(len(y))
	if p <= 0 {
		p = 1e-6
	}
	if p >= 1 {
		p = 1 - 1e-6
	}
	b.base = math.Log(p / (1 - p))

	raw := make([]float64, len(X))
	for i := range raw {
		raw[i] = b.base
	}
	idx := make([]int, len(X))
	for i := range idx {
		idx[i] = i
	}

	grad := make([]float64, len(X))
	hess := make([]float64, len(X))
	b.trees = make([]*treeNode, 0, b.Rounds)
	for m := 0; m < b.Rounds; m++ {
		for i := range X {
			q := sigmoid(raw[i])
			grad[i] = float64(y[i]) - q
			hess[i] = q * (1 - q)
		}
		tree := buildRegTree(X, grad, hess, idx, 0, b.MaxDepth, b.MinLeaf)
		b.trees = append(b.trees, tree)
		for i := range X {
			raw[i] += b.Shrinkage * tree.predict(X[i])
		}
	}
	return nil
}

// PredictProba returns the boosted positive-class probability.
func (b *Boost) PredictProba(x []float64) float64 {
	z := b.base
	for _, t := range b.trees {
		z += b.Shrinkage * t.predict(x)
	}
	return sigmoid(z)
}
