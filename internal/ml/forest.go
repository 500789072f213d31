package ml

import (
	"errors"
	"math"
	"math/rand"
)

// Forest is a bagged ensemble of gini classification trees: each tree trains
// on a bootstrap sample with a random feature subset considered per node.
type Forest struct {
	NumTrees int
	MaxDepth int
	MinLeaf  int

	rng   *rand.Rand
	trees []*treeNode
}

// NewForest constructs a forest with the given shape. The caller-supplied rng
// drives bootstrapping and feature subsampling, keeping training deterministic
// for a fixed seed.
func NewForest(numTrees, maxDepth int, rng *rand.Rand) *Forest {
	return &Forest{NumTrees: numTrees, MaxDepth: maxDepth, MinLeaf: 2, rng: rng}
}

// Fit trains the forest on a binary-labeled sample.
func (f *Forest) Fit(X [][]float64, y []int) error {
	if len(X) == 0 || len(X) != len(y) {
		return errors.New("forest: empty or mismatched training set")
	}
	mtry := int(math.Sqrt(float64(len(X[0]))))
	if mtry < 1 {
		mtry = 1
	}

	f.trees = make([]*treeNode, 0, f.NumTrees)
	for t := 0; t < f.NumTrees; t++ {
		idx := make([]int, len(X))
		for i := range idx {
			idx[i] = f.rng.Intn(len(X))
		}
		f.trees = append(f.trees, buildClassTree(X, y, idx, 0, f.MaxDepth, f.MinLeaf, mtry, f.rng))
	}
	return nil
}

// PredictProba returns the mean positive-class fraction across trees.
func (f *Forest) PredictProba(x []float64) float64 {
	if len(f.trees) == 0 {
		return 0
	}
	sum := 0.0
	for _, t := range f.trees {
		sum += t.predict(x)
	}
	return sum / float64(len(f.trees))
}
