package model

import (
	"fmt"
	"math"
)

// LogisticParams は StandardScaler + 多項ロジスティック回帰のパラメータです。
type LogisticParams struct {
	Mean      []float64   `yaml:"mean"`
	Scale     []float64   `yaml:"scale"`
	Coef      [][]float64 `yaml:"coef"`
	Intercept []float64   `yaml:"intercept"`
}

func (p *LogisticParams) validate(nFeatures, nClasses int) error {
	if len(p.Mean) != nFeatures || len(p.Scale) != nFeatures {
		return fmt.Errorf("%w: scaler needs %d values", ErrInvalidArtifact, nFeatures)
	}
	for i, s := range p.Scale {
		if s == 0 || math.IsNaN(s) {
			return fmt.Errorf("%w: scale[%d] is %v", ErrInvalidArtifact, i, s)
		}
	}
	if len(p.Coef) != nClasses || len(p.Intercept) != nClasses {
		return fmt.Errorf("%w: coef/intercept need %d rows", ErrInvalidArtifact, nClasses)
	}
	for i, row := range p.Coef {
		if len(row) != nFeatures {
			return fmt.Errorf("%w: coef[%d] has %d columns, want %d", ErrInvalidArtifact, i, len(row), nFeatures)
		}
	}
	return nil
}

func (p *LogisticParams) predictProba(x []float64) []float64 {
	z := make([]float64, len(x))
	for i, v := range x {
		z[i] = (v - p.Mean[i]) / p.Scale[i]
	}

	logits := make([]float64, len(p.Coef))
	for k, row := range p.Coef {
		s := p.Intercept[k]
		for i, w := range row {
			s += w * z[i]
		}
		logits[k] = s
	}
	return softmax(logits)
}

func softmax(logits []float64) []float64 {
	maxv := math.Inf(-1)
	for _, l := range logits {
		maxv = math.Max(maxv, l)
	}
	out := make([]float64, len(logits))
	var sum float64
	for i, l := range logits {
		out[i] = math.Exp(l - maxv)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}
