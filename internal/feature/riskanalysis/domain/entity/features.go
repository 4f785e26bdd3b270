package entity

import (
	"fmt"
	"math"

	"investiq_backend/internal/feature/riskanalysis/domain"
)

// Feature names in the order the classifier was trained on.
const (
	FeatureRSI            = "RSI"
	FeatureMACD           = "MACD"
	FeatureVolatility30   = "Volatility_30"
	FeatureVolatility90   = "Volatility_90"
	FeatureBBWidth        = "BB_width"
	FeatureMomentum       = "Momentum"
	FeatureDailyReturnPct = "Daily_Return_pct"
)

var featureNames = [...]string{
	FeatureRSI,
	FeatureMACD,
	FeatureVolatility30,
	FeatureVolatility90,
	FeatureBBWidth,
	FeatureMomentum,
	FeatureDailyReturnPct,
}

// FeatureNames returns the canonical feature order.
func FeatureNames() []string {
	out := make([]string, len(featureNames))
	copy(out, featureNames[:])
	return out
}

// FeatureRecord holds the technical indicators evaluated at the latest bar.
// NaN marks an undefined value.
type FeatureRecord struct {
	RSI            float64 `json:"rsi"`
	MACD           float64 `json:"macd"`
	Volatility30   float64 `json:"volatility_30"`
	Volatility90   float64 `json:"volatility_90"`
	BBWidth        float64 `json:"bb_width"`
	Momentum       float64 `json:"momentum"`
	DailyReturnPct float64 `json:"daily_return_pct"`
}

// FeatureVector is a positional classifier input.
type FeatureVector []float64

// Get returns the value of the named feature.
func (f FeatureRecord) Get(name string) (float64, bool) {
	switch name {
	case FeatureRSI:
		return f.RSI, true
	case FeatureMACD:
		return f.MACD, true
	case FeatureVolatility30:
		return f.Volatility30, true
	case FeatureVolatility90:
		return f.Volatility90, true
	case FeatureBBWidth:
		return f.BBWidth, true
	case FeatureMomentum:
		return f.Momentum, true
	case FeatureDailyReturnPct:
		return f.DailyReturnPct, true
	}
	return 0, false
}

// Vector lays the record out in the given name order.
// Every name must be known and the list must cover all features exactly once.
func (f FeatureRecord) Vector(names []string) (FeatureVector, error) {
	if len(names) != len(featureNames) {
		return nil, fmt.Errorf("%w: expected %d features, model declares %d", domain.ErrFeatureMismatch, len(featureNames), len(names))
	}
	seen := make(map[string]struct{}, len(names))
	out := make(FeatureVector, 0, len(names))
	for _, n := range names {
		if _, dup := seen[n]; dup {
			return nil, fmt.Errorf("%w: duplicate feature %q", domain.ErrFeatureMismatch, n)
		}
		seen[n] = struct{}{}
		v, ok := f.Get(n)
		if !ok {
			return nil, fmt.Errorf("%w: unknown feature %q", domain.ErrFeatureMismatch, n)
		}
		out = append(out, v)
	}
	return out, nil
}

// Undefined returns the names of non-finite fields in canonical order.
func (f FeatureRecord) Undefined() []string {
	var out []string
	for _, n := range featureNames {
		v, _ := f.Get(n)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			out = append(out, n)
		}
	}
	return out
}
