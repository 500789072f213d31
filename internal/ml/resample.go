package ml

import (
	"errors"
	"math/rand"
)

// ErrDegenerateMinority signals that synthetic oversampling cannot interpolate
// because the minority class has fewer than two samples.
var ErrDegenerateMinority = errors.New("minority class has fewer than 2 samples")

func splitClasses(X [][]float64, y []int) (pos, neg [][]float64) {
	for i, row := range X {
		if y[i] == 1 {
			pos = append(pos, row)
		} else {
			neg = append(neg, row)
		}
	}
	return pos, neg
}

func merge(pos, neg [][]float64) ([][]float64, []int) {
	X := make([][]float64, 0, len(pos)+len(neg))
	y := make([]int, 0, len(pos)+len(neg))
	for _, row := range pos {
		X = append(X, row)
		y = append(y, 1)
	}
	for _, row := range neg {
		X = append(X, row)
		y = append(y, 0)
	}
	return X, y
}

// ResampleOversample balances classes by resampling the minority (positive)
// class with replacement until it matches the majority count. Inputs are
// returned unchanged when already balanced or when the positive class is empty.
func ResampleOversample(X [][]float64, y []int, rng *rand.Rand) ([][]float64, []int) {
	pos, neg := splitClasses(X, y)
	if len(pos) == 0 || len(neg) <= len(pos) {
		return X, y
	}
	resampled := make([][]float64, len(neg))
	for i := range resampled {
		resampled[i] = pos[rng.Intn(len(pos))]
	}
	return merge(resampled, neg)
}

// SyntheticOversample balances classes by generating interpolated minority
// samples between random minority pairs. It fails with ErrDegenerateMinority
// when interpolation is impossible; callers fall back to ResampleOversample.
func SyntheticOversample(X [][]float64, y []int, rng *rand.Rand) ([][]float64, []int, error) {
	pos, neg := splitClasses(X, y)
	if len(neg) <= len(pos) {
		return X, y, nil
	}
	if len(pos) < 2 {
		return nil, nil, ErrDegenerateMinority
	}

	synth := make([][]float64, 0, len(neg)-len(pos))
	for len(pos)+len(synth) < len(neg) {
		a := pos[rng.Intn(len(pos))]
		b := pos[rng.Intn(len(pos))]
		u := rng.Float64()
		row := make([]float64, len(a))
		for j := range row {
			row[j] = a[j] + u*(b[j]-a[j])
		}
		synth = append(synth, row)
	}
	X2, y2 := merge(append(append([][]float64{}, pos...), synth...), neg)
	return X2, y2, nil
}
