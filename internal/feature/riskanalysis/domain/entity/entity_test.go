package entity_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"investiq_backend/internal/feature/riskanalysis/domain"
	"investiq_backend/internal/feature/riskanalysis/domain/entity"
)

func day(d int) time.Time {
	return time.Date(2025, 3, d, 0, 0, 0, 0, time.UTC)
}

func TestSeries_Normalize(t *testing.T) {
	t.Run("sorts newest-first input ascending", func(t *testing.T) {
		s := entity.Series{Ticker: "AAPL", Candles: []entity.Candle{
			{Time: day(5), Close: 3},
			{Time: day(4), Close: 2},
			{Time: day(3), Close: 1},
		}}
		require.NoError(t, s.Normalize())
		assert.Equal(t, []float64{1, 2, 3}, s.Closes())

		last, ok := s.Last()
		require.True(t, ok)
		assert.Equal(t, day(5), last.Time)
	})

	t.Run("rejects duplicate dates", func(t *testing.T) {
		s := entity.Series{Candles: []entity.Candle{
			{Time: day(3)},
			{Time: day(3).Add(16 * time.Hour)},
		}}
		assert.ErrorIs(t, s.Normalize(), domain.ErrInvalidSeries)
	})

	t.Run("empty series is valid", func(t *testing.T) {
		var s entity.Series
		assert.NoError(t, s.Normalize())
		_, ok := s.Last()
		assert.False(t, ok)
		assert.Equal(t, 0, s.Len())
	})
}

func sampleRecord() entity.FeatureRecord {
	return entity.FeatureRecord{RSI: 1, MACD: 2, Volatility30: 3, Volatility90: 4, BBWidth: 5, Momentum: 6, DailyReturnPct: 7}
}

func TestFeatureRecord_Vector(t *testing.T) {
	t.Run("canonical order", func(t *testing.T) {
		v, err := sampleRecord().Vector(entity.FeatureNames())
		require.NoError(t, err)
		assert.Equal(t, entity.FeatureVector{1, 2, 3, 4, 5, 6, 7}, v)
	})

	t.Run("follows the declared order", func(t *testing.T) {
		names := []string{"Daily_Return_pct", "Momentum", "BB_width", "Volatility_90", "Volatility_30", "MACD", "RSI"}
		v, err := sampleRecord().Vector(names)
		require.NoError(t, err)
		assert.Equal(t, entity.FeatureVector{7, 6, 5, 4, 3, 2, 1}, v)
	})

	testCases := []struct {
		name  string
		names []string
	}{
		{name: "too few", names: []string{"RSI", "MACD"}},
		{name: "unknown name", names: []string{"RSI", "MACD", "Volatility_30", "Volatility_90", "BB_width", "Momentum", "Volume"}},
		{name: "duplicate", names: []string{"RSI", "RSI", "Volatility_30", "Volatility_90", "BB_width", "Momentum", "Daily_Return_pct"}},
	}
	for _, tc := range testCases {
		t.Run("error: "+tc.name, func(t *testing.T) {
			_, err := sampleRecord().Vector(tc.names)
			assert.ErrorIs(t, err, domain.ErrFeatureMismatch)
		})
	}
}

func TestFeatureNames_ReturnsCopy(t *testing.T) {
	names := entity.FeatureNames()
	names[0] = "changed"
	assert.Equal(t, "RSI", entity.FeatureNames()[0])
	assert.Len(t, entity.FeatureNames(), 7)
}

func TestFeatureRecord_Undefined(t *testing.T) {
	r := sampleRecord()
	assert.Empty(t, r.Undefined())

	r.Volatility90 = math.NaN()
	r.RSI = math.Inf(-1)
	assert.Equal(t, []string{"RSI", "Volatility_90"}, r.Undefined())
}

func TestRiskClass(t *testing.T) {
	assert.Equal(t, []string{"Low", "Medium", "High"}, entity.ClassNames())

	assert.Equal(t, "Medium", entity.RiskMedium.String())
	assert.Equal(t, "High Risk", entity.RiskHigh.Label())
	assert.Equal(t, "#F59E0B", entity.RiskMedium.Color())

	invalid := entity.RiskClass(7)
	assert.False(t, invalid.Valid())
	assert.Equal(t, "RiskClass(7)", invalid.String())
	assert.Empty(t, invalid.Label())
	assert.Empty(t, invalid.Color())
	assert.Empty(t, invalid.Recommendation())
}
