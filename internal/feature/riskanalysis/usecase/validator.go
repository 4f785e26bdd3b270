package usecase

import (
	"fmt"
	"math"

	"investiq_backend/internal/feature/riskanalysis/domain"
	"investiq_backend/internal/feature/riskanalysis/domain/entity"
	"investiq_backend/internal/feature/riskanalysis/indicator"
)

// ValidateFeatures はスナップショットが分類器に渡せる状態かを検証します。
//
// 系列長がウォームアップに満たない場合、またはRSI・Volatility_30・Volatility_90が
// 未定義の場合は拒否します。その他の特徴量も非有限値であれば拒否します。
func ValidateFeatures(snap indicator.Snapshot) error {
	if snap.Bars < indicator.MinBars {
		return fmt.Errorf("%w: %d bars, need %d", domain.ErrInsufficientBars, snap.Bars, indicator.MinBars)
	}

	f := snap.Features
	gated := []struct {
		name  string
		value float64
	}{
		{entity.FeatureRSI, f.RSI},
		{entity.FeatureVolatility30, f.Volatility30},
		{entity.FeatureVolatility90, f.Volatility90},
	}
	for _, g := range gated {
		if !finite(g.value) {
			return fmt.Errorf("%w: %s", domain.ErrUndefinedIndicator, g.name)
		}
	}

	if undefined := f.Undefined(); len(undefined) > 0 {
		return fmt.Errorf("%w: %v", domain.ErrUndefinedIndicator, undefined)
	}
	if !finite(snap.Close) {
		return fmt.Errorf("%w: close", domain.ErrUndefinedIndicator)
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
