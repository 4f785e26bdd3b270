package model

import (
	"context"
	"fmt"

	"investiq_backend/internal/feature/riskanalysis/domain"
	"investiq_backend/internal/feature/riskanalysis/domain/entity"
	"investiq_backend/internal/feature/riskanalysis/usecase"
)

type estimator interface {
	predictProba(x []float64) []float64
}

// Model は usecase.Classifier の実装です。ロード後は読み取り専用なので並行利用できます。
type Model struct {
	artifact *Artifact
	est      estimator
}

var _ usecase.Classifier = (*Model)(nil)

// Load はアーティファクトファイルからモデルを生成します。
func Load(path string) (*Model, error) {
	a, err := ReadArtifact(path)
	if err != nil {
		return nil, err
	}
	return New(a)
}

// New は検証済みアーティファクトからモデルを生成します。
func New(a *Artifact) (*Model, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	m := &Model{artifact: a}
	switch a.Kind {
	case KindLogistic:
		m.est = a.Logistic
	case KindForest:
		m.est = a.Forest
	}
	return m, nil
}

// FeatureNames returns the feature order declared by the artifact.
func (m *Model) FeatureNames() []string {
	out := make([]string, len(m.artifact.Features))
	copy(out, m.artifact.Features)
	return out
}

// PredictProba はクラス確率を返します。
func (m *Model) PredictProba(v entity.FeatureVector) ([]float64, error) {
	if len(v) != len(m.artifact.Features) {
		return nil, fmt.Errorf("%w: vector has %d values, model expects %d", domain.ErrFeatureMismatch, len(v), len(m.artifact.Features))
	}
	probs := m.est.predictProba(v)
	if err := usecase.CheckProbabilities(probs); err != nil {
		return nil, err
	}
	return renormalize(probs), nil
}

// Predict は最も確率の高いクラスを返します。同率の場合は小さいインデックスを採用します。
func (m *Model) Predict(v entity.FeatureVector) (entity.RiskClass, error) {
	probs, err := m.PredictProba(v)
	if err != nil {
		return 0, err
	}
	return argmax(probs), nil
}

// Classify implements usecase.Classifier.
func (m *Model) Classify(ctx context.Context, v entity.FeatureVector) (entity.RiskClass, []float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, nil, err
	}
	probs, err := m.PredictProba(v)
	if err != nil {
		return 0, nil, err
	}
	return argmax(probs), probs, nil
}

// Info implements usecase.Classifier.
func (m *Model) Info() entity.ModelInfo {
	classes := make([]string, len(m.artifact.Classes))
	copy(classes, m.artifact.Classes)
	return entity.ModelInfo{
		Loaded:   true,
		Version:  m.artifact.Version,
		Kind:     m.artifact.Kind,
		Features: m.FeatureNames(),
		Classes:  classes,
	}
}

func argmax(probs []float64) entity.RiskClass {
	best := 0
	for i := 1; i < len(probs); i++ {
		if probs[i] > probs[best] {
			best = i
		}
	}
	return entity.RiskClass(best)
}

func renormalize(probs []float64) []float64 {
	var sum float64
	for _, p := range probs {
		sum += p
	}
	out := make([]float64, len(probs))
	for i, p := range probs {
		out[i] = p / sum
	}
	return out
}
