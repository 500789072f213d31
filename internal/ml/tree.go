package ml

import (
	"math/rand"
	"sort"
)

// treeNode is a node in a binary decision tree. Leaves carry value: the
// positive-class fraction for classification trees, the fitted residual for
// regression trees.
type treeNode struct {
	feature   int
	threshold float64
	left      *treeNode
	right     *treeNode
	leaf      bool
	value     float64
}

func (n *treeNode) predict(x []float64) float64 {
	for !n.leaf {
		if x[n.feature] <= n.threshold {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n.value
}

// split holds the best threshold found for a node.
type split struct {
	feature   int
	threshold float64
	score     float64
	ok        bool
}

// maxThresholds caps the split candidates evaluated per feature; beyond this
// the distinct midpoints are strided evenly.
const maxThresholds = 16

// candidateThresholds returns midpoints between consecutive distinct sorted
// values of feature j over the given rows.
func candidateThresholds(X [][]float64, idx []int, j int) []float64 {
	vals := make([]float64, len(idx))
	for i, r := range idx {
		vals[i] = X[r][j]
	}
	sort.Float64s(vals)
	var out []float64
	for i := 1; i < len(vals); i++ {
		if vals[i] != vals[i-1] {
			out = append(out, (vals[i]+vals[i-1])/2)
		}
	}
	if len(out) > maxThresholds {
		strided := make([]float64, 0, maxThresholds)
		step := float64(len(out)) / maxThresholds
		for i := 0; i < maxThresholds; i++ {
			strided = append(strided, out[int(float64(i)*step)])
		}
		out = strided
	}
	return out
}

// giniSplit finds the impurity-minimizing split over a feature subset.
func giniSplit(X [][]float64, y []int, idx []int, features []int) split {
	best := split{score: 1e18}
	for _, j := range features {
		for _, th := range candidateThresholds(X, idx, j) {
			var lN, lPos, rN, rPos int
			for _, r := range idx {
				if X[r][j] <= th {
					lN++
					lPos += y[r]
				} else {
					rN++
					rPos += y[r]
				}
			}
			if lN == 0 || rN == 0 {
				continue
			}
			score := weightedGini(lN, lPos) + weightedGini(rN, rPos)
			if score < best.score {
				best = split{feature: j, threshold: th, score: score, ok: true}
			}
		}
	}
	return best
}

func weightedGini(n, pos int) float64 {
	p := float64(pos) / float64(n)
	return float64(n) * 2 * p * (1 - p)
}

// buildClassTree grows a gini classification tree over the rows in idx.
// mtry features are drawn at random per node when mtry < total features.
func buildClassTree(X [][]float64, y []int, idx []int, depth, maxDepth, minLeaf, mtry int, rng *rand.Rand) *treeNode {
	pos := 0
	for _, r := range idx {
		pos += y[r]
	}
	prob := float64(pos) / float64(len(idx))
	if depth >= maxDepth || len(idx) < 2*minLeaf || pos == 0 || pos == len(idx) {
		return &treeNode{leaf: true, value: prob}
	}

	features := sampleFeatures(len(X[0]), mtry, rng)
	sp := giniSplit(X, y, idx, features)
	if !sp.ok {
		return &treeNode{leaf: true, value: prob}
	}

	var left, right []int
	for _, r := range idx {
		if X[r][sp.feature] <= sp.threshold {
			left = append(left, r)
		} else {
			right = append(right, r)
		}
	}
	if len(left) < minLeaf || len(right) < minLeaf {
		return &treeNode{leaf: true, value: prob}
	}
	return &treeNode{
		feature:   sp.feature,
		threshold: sp.threshold,
		left:      buildClassTree(X, y, left, depth+1, maxDepth, minLeaf, mtry, rng),
		right:     buildClassTree(X, y, right, depth+1, maxDepth, minLeaf, mtry, rng),
	}
}

// buildRegTree grows a variance-reduction regression tree on targets t,
// with Newton-step leaf values for logistic boosting: sum(residual) / sum(h).
func buildRegTree(X [][]float64, t, hess []float64, idx []int, depth, maxDepth, minLeaf int) *treeNode {
	if depth >= maxDepth || len(idx) < 2*minLeaf {
		return &treeNode{leaf: true, value: newtonLeaf(t, hess, idx)}
	}

	all := make([]int, len(X[0]))
	for j := range all {
		all[j] = j
	}
	best := split{score: 1e18}
	for _, j := range all {
		for _, th := range candidateThresholds(X, idx, j) {
			var lN, rN int
			var lSum, rSum, lSq, rSq float64
			for _, r := range idx {
				if X[r][j] <= th {
					lN++
					lSum += t[r]
					lSq += t[r] * t[r]
				} else {
					rN++
					rSum += t[r]
					rSq += t[r] * t[r]
				}
			}
			if lN == 0 || rN == 0 {
				continue
			}
			score := (lSq - lSum*lSum/float64(lN)) + (rSq - rSum*rSum/float64(rN))
			if score < best.score {
				best = split{feature: j, threshold: th, score: score, ok: true}
			}
		}
	}
	if !best.ok {
		return &treeNode{leaf: true, value: newtonLeaf(t, hess, idx)}
	}

	var left, right []int
	for _, r := range idx {
		if X[r][best.feature] <= best.threshold {
			left = append(left, r)
		} else {
			right = append(right, r)
		}
	}
	if len(left) < minLeaf || len(right) < minLeaf {
		return &treeNode{leaf: true, value: newtonLeaf(t, hess, idx)}
	}
	return &treeNode{
		feature:   best.feature,
		threshold: best.threshold,
		left:      buildRegTree(X, t, hess, left, depth+1, maxDepth, minLeaf),
		right:     buildRegTree(X, t, hess, right, depth+1, maxDepth, minLeaf),
	}
}

func newtonLeaf(t, hess []float64, idx []int) float64 {
	var num, den float64
	for _, r := range idx {
		num += t[r]
		den += hess[r]
	}
	if den < 1e-12 {
		return 0
	}
	return num / den
}

func sampleFeatures(total, mtry int, rng *rand.Rand) []int {
	all := make([]int, total)
	for i := range all {
		all[i] = i
	}
	if mtry <= 0 || mtry >= total {
		return all
	}
	rng.Shuffle(total, func(i, j int) { all[i], all[j] = all[j], all[i] })
	out := all[:mtry]
	sort.Ints(out)
	return out
}
