package engine

import (
	"math/rand"

	"github.com/rewired-gh/lottoracle/internal/logger"
	"github.com/rewired-gh/lottoracle/internal/ml"
	"github.com/rewired-gh/lottoracle/internal/models"
)

// ProbabilityModel wraps the classifier ensemble behind a per-number
// probability table. Untrained, it answers with the uniform distribution.
type ProbabilityModel struct {
	trained bool
	scaler  ml.StandardScaler
	members []ml.Classifier
}

// NewProbabilityModel returns an untrained model.
func NewProbabilityModel() *ProbabilityModel {
	return &ProbabilityModel{}
}

// Trained reports whether the ensemble has been fitted.
func (p *ProbabilityModel) Trained() bool { return p.trained }

// Train fits the ensemble on labeled examples built from the history. It
// returns false when the history is too short (fewer than lookback+10 draws).
// Class balancing tries synthetic interpolation first and falls back to plain
// resampling when the minority class is degenerate.
func (p *ProbabilityModel) Train(h *models.DrawHistory, rng *rand.Rand) bool {
	if h.Len() < featureLookback+10 {
		return false
	}

	var X [][]float64
	var y []int
	for i := featureLookback; i <= h.Len()-2; i++ {
		next := h.Winning(i + 1)
		for k := 1; k <= models.MaxNumber; k++ {
			X = append(X, buildFeatures(h, i, k))
			if next.Contains(k) {
				y = append(y, 1)
			} else {
				y = append(y, 0)
			}
		}
	}

	balX, balY, err := ml.SyntheticOversample(X, y, rng)
	if err != nil {
		logger.Warn("synthetic oversampling failed (%v), resampling instead", err)
		balX, balY = ml.ResampleOversample(X, y, rng)
	}

	p.scaler.Fit(balX)
	scaled := p.scaler.TransformAll(balX)

	candidates := []ml.Classifier{
		ml.NewForest(100, 5, rng),
		ml.NewBoost(50, 3),
		&ml.Linear{},
	}
	p.members = p.members[:0]
	for _, c := range candidates {
		if err := c.Fit(scaled, balY); err != nil {
			logger.Warn("ensemble member training failed: %v", err)
			continue
		}
		p.members = append(p.members, c)
	}
	p.trained = len(p.members) > 0
	return p.trained
}

// PredictProbabilities returns the per-number probability table at the latest
// history position, normalized to sum 1. An untrained model answers uniform.
func (p *ProbabilityModel) PredictProbabilities(h *models.DrawHistory) models.ScoreTable {
	if !p.trained {
		return models.Uniform()
	}

	var table models.ScoreTable
	latest := h.Len() - 1
	for k := 1; k <= models.MaxNumber; k++ {
		x := p.scaler.Transform(buildFeatures(h, latest, k))
		sum := 0.0
		for _, m := range p.members {
			sum += m.PredictProba(x)
		}
		table[k] = sum / float64(len(p.members))
	}
	table.Normalize()
	return table
}
