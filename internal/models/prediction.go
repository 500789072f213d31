package models

import "time"

// Confidence is the multi-factor confidence assessment of a single ticket.
type Confidence struct {
	Confidence     float64            `json:"confidence"`
	Level          string             `json:"level"`
	Factors        map[string]float64 `json:"factors"`
	Recommendation string             `json:"recommendation"`
}

// Prediction is the result of one engine call: per-strategy tickets plus the
// consensus extracts and per-strategy confidence for ensemble runs.
type Prediction struct {
	Strategy    string                `json:"strategy"`
	Tickets     map[string][]Ticket   `json:"tickets"`
	TwoSure     []int                 `json:"two_sure,omitempty"`
	ThreeDirect []int                 `json:"three_direct,omitempty"`
	Confidence  map[string]Confidence `json:"confidence,omitempty"`
	GeneratedAt time.Time             `json:"generated_at"`
}

// Evaluation compares a predicted ticket against an actual draw.
type Evaluation struct {
	Matches        int     `json:"matches"`
	ExpectedRandom float64 `json:"expected_random"`
	ZScore         float64 `json:"z_score"`
	Significant    bool    `json:"significant"`
}

// RegimeReport is the outcome of regime-change detection over a window.
type RegimeReport struct {
	Detected   bool              `json:"detected"`
	Confidence float64           `json:"confidence"`
	Details    map[string]string `json:"details,omitempty"`
}
