package indicator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-9

// assertSeries はNaN位置も含めて系列を比較します。
func assertSeries(t *testing.T, want, got []float64) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		if math.IsNaN(want[i]) {
			assert.Truef(t, math.IsNaN(got[i]), "index %d: want NaN, got %v", i, got[i])
			continue
		}
		assert.InDeltaf(t, want[i], got[i], 1e-4, "index %d", i)
	}
}

func TestEMA(t *testing.T) {
	t.Parallel()

	nan := math.NaN()
	tests := []struct {
		name string
		in   []float64
		span int
		want []float64
	}{
		{"empty", []float64{}, 3, []float64{}},
		{"warm-up then smoothing", []float64{1, 2, 3, 4}, 3, []float64{nan, nan, 2.25, 3.125}},
		{"constant series", []float64{5, 5, 5, 5, 5}, 2, []float64{nan, 5, 5, 5, 5}},
		{"leading undefined values are skipped", []float64{nan, nan, 1, 2, 3, 4}, 3, []float64{nan, nan, nan, nan, 2.25, 3.125}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assertSeries(t, tt.want, EMA(tt.in, tt.span))
		})
	}
}

func TestEWM_GapDecaysOldWeight(t *testing.T) {
	t.Parallel()

	nan := math.NaN()
	got := ewm([]float64{nan, 2, nan, 4}, 0.5, 1)
	assertSeries(t, []float64{nan, 2, 2, 10.0 / 3.0}, got)
}

func TestRSI(t *testing.T) {
	t.Parallel()

	t.Run("hand computed window 2", func(t *testing.T) {
		t.Parallel()
		got := RSI([]float64{1, 2, 1}, 2)
		assertSeries(t, []float64{math.NaN(), 100, 100.0 / 3.0}, got)
	})

	t.Run("strictly rising series saturates at 100", func(t *testing.T) {
		t.Parallel()
		closes := make([]float64, 30)
		for i := range closes {
			closes[i] = 100 + float64(i)
		}
		got := RSI(closes, 14)
		assert.True(t, math.IsNaN(got[12]), "RSI must be undefined before 14 observations")
		assert.InDelta(t, 100, got[13], eps)
		assert.InDelta(t, 100, got[29], eps)
	})

	t.Run("strictly falling series is 0", func(t *testing.T) {
		t.Parallel()
		closes := make([]float64, 30)
		for i := range closes {
			closes[i] = 100 - float64(i)
		}
		got := RSI(closes, 14)
		assert.InDelta(t, 0, got[29], eps)
	})

	t.Run("alternating series stays near 50", func(t *testing.T) {
		t.Parallel()
		got := RSI(alternating(200, 100, 1), 14)
		assert.InDelta(t, 50, got[199], 2.0)
	})
}

func TestMACDDiff(t *testing.T) {
	t.Parallel()

	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 42
	}
	got := MACDDiff(closes, 12, 26, 9)

	// MACD線は26本目から、シグナルはさらに9観測後から定義される
	assert.True(t, math.IsNaN(got[32]))
	assert.InDelta(t, 0, got[33], eps)
	assert.InDelta(t, 0, got[59], eps)
}

func TestMACDDiff_TrendIsPositive(t *testing.T) {
	t.Parallel()

	closes := make([]float64, 120)
	for i := range closes {
		// accelerating uptrend keeps MACD above its signal
		closes[i] = 100 + float64(i*i)/100
	}
	got := MACDDiff(closes, 12, 26, 9)
	assert.Greater(t, got[119], 0.0)
}

func TestPctChange(t *testing.T) {
	t.Parallel()

	nan := math.NaN()
	assertSeries(t, []float64{nan, 10, -10}, PctChange([]float64{100, 110, 99}, 1))
	assertSeries(t, []float64{nan, nan, -1}, PctChange([]float64{100, 110, 99}, 2))
}

func TestRollingStd(t *testing.T) {
	t.Parallel()

	nan := math.NaN()
	in := []float64{1, 2, 3, 4}

	assertSeries(t, []float64{nan, math.Sqrt(0.5), math.Sqrt(0.5), math.Sqrt(0.5)}, RollingStd(in, 2, 1))
	assertSeries(t, []float64{nan, 0.5, 0.5, 0.5}, RollingStd(in, 2, 0))
	assertSeries(t, []float64{nan, nan, nan, nan}, RollingStd([]float64{nan, 1, 2, 3}, 4, 1))
	assertSeries(t, []float64{nan, nan, math.Sqrt(0.5), math.Sqrt(0.5)}, RollingStd([]float64{nan, 1, 2, 3}, 2, 1))
}

func TestBollingerWidth(t *testing.T) {
	t.Parallel()

	assertSeries(t, []float64{math.NaN(), 4}, BollingerWidth([]float64{1, 3}, 2, 2))

	flat := BollingerWidth([]float64{7, 7, 7, 7}, 3, 2)
	assert.InDelta(t, 0, flat[3], eps)
}

// alternating は base と base+step を交互に並べた系列を返します。
func alternating(n int, base, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = base
		if i%2 == 1 {
			out[i] += step
		}
	}
	return out
}

// goldenCloses は振幅・トレンド・ノイズを含む60本の終値です。
var goldenCloses = []float64{
	98.00, 100.99, 103.90, 102.26, 104.81, 107.09, 104.69, 106.37, 107.75, 104.44,
	105.29, 101.56, 102.11, 102.61, 98.75, 99.39, 100.22, 96.88, 98.21, 99.85,
	97.41, 99.66, 97.77, 100.51, 103.40, 101.98, 104.98, 107.90, 106.28, 108.87,
	111.19, 108.82, 110.55, 107.56, 108.69, 109.57, 105.86, 106.42, 106.92, 103.05,
	103.68, 104.48, 101.10, 102.40, 99.60, 101.51, 103.72, 101.81, 104.52, 107.39,
	105.97, 108.96, 111.90, 110.31, 112.92, 110.88, 112.95, 114.72, 111.77, 112.94,
}

// TestIndicators_GoldenValues はpandas の ewm(adjust=False)/rolling と同じ定義で
// 事前計算した値に一致することを検証します。
func TestIndicators_GoldenValues(t *testing.T) {
	t.Parallel()

	const tol = 1e-6

	t.Run("MACDDiff 12/26/9", func(t *testing.T) {
		t.Parallel()
		got := MACDDiff(goldenCloses, 12, 26, 9)
		assert.True(t, math.IsNaN(got[32]))
		assert.InDelta(t, 0.7384405945, got[33], tol)
		assert.InDelta(t, 0.6367194458, got[59], tol)
	})

	t.Run("RSI 14", func(t *testing.T) {
		t.Parallel()
		got := RSI(goldenCloses, 14)
		assert.True(t, math.IsNaN(got[12]))
		assert.InDelta(t, 52.7533194509, got[13], tol)
		assert.InDelta(t, 58.9762341660, got[59], tol)
	})

	t.Run("BollingerWidth 20/2", func(t *testing.T) {
		t.Parallel()
		got := BollingerWidth(goldenCloses, 20, 2)
		assert.InDelta(t, 18.8599820785, got[59], tol)
	})
}
