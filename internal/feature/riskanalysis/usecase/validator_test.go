package usecase_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"investiq_backend/internal/feature/riskanalysis/domain"
	"investiq_backend/internal/feature/riskanalysis/domain/entity"
	"investiq_backend/internal/feature/riskanalysis/indicator"
	"investiq_backend/internal/feature/riskanalysis/usecase"
)

func validSnapshot() indicator.Snapshot {
	return indicator.Snapshot{
		Close: 101.5,
		Bars:  180,
		Features: entity.FeatureRecord{
			RSI:            55.2,
			MACD:           0.12,
			Volatility30:   1.4,
			Volatility90:   1.6,
			BBWidth:        6.1,
			Momentum:       2.3,
			DailyReturnPct: -0.4,
		},
	}
}

func TestValidateFeatures(t *testing.T) {
	testCases := []struct {
		name        string
		mutate      func(s *indicator.Snapshot)
		expectedErr error
	}{
		{name: "success: all features defined", mutate: func(s *indicator.Snapshot) {}},
		{name: "success: exactly minimum bars", mutate: func(s *indicator.Snapshot) { s.Bars = indicator.MinBars }},
		{name: "error: 99 bars", mutate: func(s *indicator.Snapshot) { s.Bars = indicator.MinBars - 1 }, expectedErr: domain.ErrInsufficientBars},
		{name: "error: RSI undefined", mutate: func(s *indicator.Snapshot) { s.Features.RSI = math.NaN() }, expectedErr: domain.ErrUndefinedIndicator},
		{name: "error: Volatility_30 undefined", mutate: func(s *indicator.Snapshot) { s.Features.Volatility30 = math.NaN() }, expectedErr: domain.ErrUndefinedIndicator},
		{name: "error: Volatility_90 undefined", mutate: func(s *indicator.Snapshot) { s.Features.Volatility90 = math.NaN() }, expectedErr: domain.ErrUndefinedIndicator},
		{name: "error: MACD infinite", mutate: func(s *indicator.Snapshot) { s.Features.MACD = math.Inf(1) }, expectedErr: domain.ErrUndefinedIndicator},
		{name: "error: close undefined", mutate: func(s *indicator.Snapshot) { s.Close = math.NaN() }, expectedErr: domain.ErrUndefinedIndicator},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			snap := validSnapshot()
			tc.mutate(&snap)

			err := usecase.ValidateFeatures(snap)
			if tc.expectedErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.expectedErr)
		})
	}
}
