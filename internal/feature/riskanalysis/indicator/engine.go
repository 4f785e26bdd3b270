package indicator

import (
	"fmt"

	"investiq_backend/internal/feature/riskanalysis/domain"
	"investiq_backend/internal/feature/riskanalysis/domain/entity"
)

// MinBars is the shortest series the engine evaluates. It covers the 90-bar
// volatility window plus the smoothing lead-in of RSI and MACD.
const MinBars = 100

// Params fixes the indicator parameterization. It is part of the model
// contract: the artifact records the values it was trained with.
type Params struct {
	RSIWindow       int     `yaml:"rsi_window" json:"rsi_window"`
	MACDFast        int     `yaml:"macd_fast" json:"macd_fast"`
	MACDSlow        int     `yaml:"macd_slow" json:"macd_slow"`
	MACDSignal      int     `yaml:"macd_signal" json:"macd_signal"`
	BollingerWindow int     `yaml:"bollinger_window" json:"bollinger_window"`
	BollingerK      float64 `yaml:"bollinger_k" json:"bollinger_k"`
	MomentumPeriod  int     `yaml:"momentum_period" json:"momentum_period"`
	VolShortWindow  int     `yaml:"vol_short_window" json:"vol_short_window"`
	VolLongWindow   int     `yaml:"vol_long_window" json:"vol_long_window"`
}

// DefaultParams returns the parameters the risk model was trained with.
// Bollinger bands use the population deviation, volatilities the sample deviation.
func DefaultParams() Params {
	return Params{
		RSIWindow:       14,
		MACDFast:        12,
		MACDSlow:        26,
		MACDSignal:      9,
		BollingerWindow: 20,
		BollingerK:      2,
		MomentumPeriod:  10,
		VolShortWindow:  30,
		VolLongWindow:   90,
	}
}

// Snapshot is the engine output for the latest bar of a series.
type Snapshot struct {
	Close    float64
	Bars     int
	Features entity.FeatureRecord
}

// Engine derives the feature record from a daily series.
type Engine struct {
	params Params
}

// NewEngine returns an Engine using DefaultParams.
func NewEngine() *Engine {
	return &Engine{params: DefaultParams()}
}

// Params returns the engine parameterization.
func (e *Engine) Params() Params {
	return e.params
}

// Compute evaluates all indicators at the final bar. Earlier bars only seed
// the rolling and smoothing windows. Undefined indicators come back as NaN;
// deciding whether the record is usable is left to the caller.
func (e *Engine) Compute(series entity.Series) (Snapshot, error) {
	if series.Len() < MinBars {
		return Snapshot{}, fmt.Errorf("%w: %d bars, need %d", domain.ErrInsufficientBars, series.Len(), MinBars)
	}

	p := e.params
	closes := series.Closes()
	daily := PctChange(closes, 1)

	return Snapshot{
		Close: closes[len(closes)-1],
		Bars:  len(closes),
		Features: entity.FeatureRecord{
			RSI:            last(RSI(closes, p.RSIWindow)),
			MACD:           last(MACDDiff(closes, p.MACDFast, p.MACDSlow, p.MACDSignal)),
			Volatility30:   last(RollingStd(daily, p.VolShortWindow, 1)),
			Volatility90:   last(RollingStd(daily, p.VolLongWindow, 1)),
			BBWidth:        last(BollingerWidth(closes, p.BollingerWindow, p.BollingerK)),
			Momentum:       last(PctChange(closes, p.MomentumPeriod)),
			DailyReturnPct: last(daily),
		},
	}, nil
}
