package entity

import "time"

// Probabilities is the class distribution on a 0-100 percentage scale.
type Probabilities struct {
	Low    float64 `json:"low"`
	Medium float64 `json:"medium"`
	High   float64 `json:"high"`
}

// Sum returns the total of the three percentages.
func (p Probabilities) Sum() float64 {
	return p.Low + p.Medium + p.High
}

// Analysis is the assembled outcome of one risk classification.
type Analysis struct {
	Ticker         string        `json:"ticker"`
	Price          float64       `json:"price"`
	Features       FeatureRecord `json:"features"`
	Class          RiskClass     `json:"class"`
	Label          string        `json:"label"`
	Color          string        `json:"color"`
	Probabilities  Probabilities `json:"probabilities"`
	Recommendation string        `json:"recommendation"`
	ModelVersion   string        `json:"model_version,omitempty"`
	AnalyzedAt     time.Time     `json:"analyzed_at"`
}

// ModelInfo describes the loaded classifier artifact.
type ModelInfo struct {
	Loaded   bool
	Version  string
	Kind     string
	Features []string
	Classes  []string
}
