package model

import (
	"context"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"investiq_backend/internal/feature/riskanalysis/domain"
	"investiq_backend/internal/feature/riskanalysis/domain/entity"
)

func loadTestModel(t *testing.T, name string) *Model {
	t.Helper()
	m, err := Load(filepath.Join("testdata", name))
	require.NoError(t, err)
	return m
}

func sumOf(xs []float64) float64 {
	var s float64
	for _, x := range xs {
		s += x
	}
	return s
}

func TestLoad_Logistic(t *testing.T) {
	m := loadTestModel(t, "logistic.yaml")

	info := m.Info()
	assert.True(t, info.Loaded)
	assert.Equal(t, "test-logistic", info.Version)
	assert.Equal(t, KindLogistic, info.Kind)
	assert.Equal(t, entity.FeatureNames(), m.FeatureNames())
	assert.Equal(t, []string{"Low", "Medium", "High"}, info.Classes)

	testCases := []struct {
		name     string
		vector   entity.FeatureVector
		expected entity.RiskClass
	}{
		// 平均値ではロジットが切片のみになり Medium が最大
		{name: "at scaler mean", vector: entity.FeatureVector{50, 0, 1.5, 1.6, 10, 0, 0}, expected: entity.RiskMedium},
		{name: "calm stock", vector: entity.FeatureVector{50, 0.01, 0.1, 0.1, 0.2, 0, 0.1}, expected: entity.RiskLow},
		{name: "volatile stock", vector: entity.FeatureVector{70, 3, 4.2, 3.9, 28, 15, -5}, expected: entity.RiskHigh},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			class, probs, err := m.Classify(context.Background(), tc.vector)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, class)
			require.Len(t, probs, entity.NumRiskClasses)
			assert.InDelta(t, 1, sumOf(probs), 1e-9)

			predicted, err := m.Predict(tc.vector)
			require.NoError(t, err)
			assert.Equal(t, class, predicted)
		})
	}
}

func TestLoad_ForestFromJSON(t *testing.T) {
	m := loadTestModel(t, "forest.json")
	assert.Equal(t, KindForest, m.Info().Kind)

	probs, err := m.PredictProba(entity.FeatureVector{50, 0, 1, 1, 5, 0, 0})
	require.NoError(t, err)
	// 木1: [0.8,0.2,0] 木2: [0.5,0.5,0] の平均
	assert.InDeltaSlice(t, []float64{0.65, 0.35, 0}, probs, 1e-9)

	class, probs, err := m.Classify(context.Background(), entity.FeatureVector{50, 0, 3, 3, 20, 0, 0})
	require.NoError(t, err)
	assert.Equal(t, entity.RiskHigh, class)
	assert.InDeltaSlice(t, []float64{0, 0.1, 0.9}, probs, 1e-9)
}

func TestLoad_RejectsContractViolations(t *testing.T) {
	for _, name := range []string{"params_mismatch.yaml", "features_mismatch.yaml"} {
		t.Run(name, func(t *testing.T) {
			_, err := Load(filepath.Join("testdata", name))
			assert.ErrorIs(t, err, ErrInvalidArtifact)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join("testdata", "absent.yaml"))
		assert.Error(t, err)
	})
}

func TestParseArtifact_Invalid(t *testing.T) {
	header := `
version: "x"
classes: [Low, Medium, High]
features: [RSI, MACD, Volatility_30, Volatility_90, BB_width, Momentum, Daily_Return_pct]
indicator_params: {rsi_window: 14, macd_fast: 12, macd_slow: 26, macd_signal: 9, bollinger_window: 20, bollinger_k: 2, momentum_period: 10, vol_short_window: 30, vol_long_window: 90}
`
	testCases := []struct {
		name string
		body string
	}{
		{name: "unknown kind", body: header + "kind: svm\n"},
		{name: "logistic without parameters", body: header + "kind: logistic\n"},
		{name: "zero scale", body: header + `kind: logistic
logistic:
  mean: [0, 0, 0, 0, 0, 0, 0]
  scale: [1, 1, 0, 1, 1, 1, 1]
  coef: [[0,0,0,0,0,0,0],[0,0,0,0,0,0,0],[0,0,0,0,0,0,0]]
  intercept: [0, 0, 0]
`},
		{name: "short coef row", body: header + `kind: logistic
logistic:
  mean: [0, 0, 0, 0, 0, 0, 0]
  scale: [1, 1, 1, 1, 1, 1, 1]
  coef: [[0,0,0,0,0,0,0],[0,0,0],[0,0,0,0,0,0,0]]
  intercept: [0, 0, 0]
`},
		{name: "forest with cyclic child", body: header + `kind: forest
forest:
  trees:
    - nodes:
        - {feature: 0, threshold: 1, left: 0, right: 1}
        - {feature: -1, value: [1, 0, 0]}
`},
		{name: "forest leaf with two classes", body: header + `kind: forest
forest:
  trees:
    - nodes:
        - {feature: -1, value: [1, 0]}
`},
		{name: "not yaml", body: "{{{"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseArtifact([]byte(tc.body))
			assert.ErrorIs(t, err, ErrInvalidArtifact)
		})
	}
}

func TestModel_FeatureVectorLength(t *testing.T) {
	m := loadTestModel(t, "logistic.yaml")
	_, _, err := m.Classify(context.Background(), entity.FeatureVector{1, 2, 3})
	assert.ErrorIs(t, err, domain.ErrFeatureMismatch)
}

func TestModel_ClassifyHonoursContext(t *testing.T) {
	m := loadTestModel(t, "logistic.yaml")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := m.Classify(ctx, entity.FeatureVector{50, 0, 1.5, 1.6, 10, 0, 0})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestArgmax_TiesGoToLowestIndex(t *testing.T) {
	assert.Equal(t, entity.RiskLow, argmax([]float64{0.5, 0.5, 0}))
	assert.Equal(t, entity.RiskMedium, argmax([]float64{0.2, 0.4, 0.4}))
	assert.Equal(t, entity.RiskHigh, argmax([]float64{0.1, 0.2, 0.7}))
}

func TestSoftmax_LargeLogitsStayFinite(t *testing.T) {
	p := softmax([]float64{1000, 999, -1000})
	for _, v := range p {
		assert.False(t, math.IsNaN(v))
	}
	assert.InDelta(t, 1, sumOf(p), 1e-12)
}

func TestBundledArtifactLoads(t *testing.T) {
	m, err := Load(filepath.Join("..", "..", "..", "..", "..", "models", "stock_risk_model.yaml"))
	require.NoError(t, err)
	class, _, err := m.Classify(context.Background(), entity.FeatureVector{50, 0.01, 0.1, 0.1, 0.2, 0, 0.1})
	require.NoError(t, err)
	assert.Equal(t, entity.RiskLow, class)
}
