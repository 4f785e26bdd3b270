package indicator

import "math"

// RSI returns the relative strength index with Wilder smoothing (alpha = 1/window).
//
// The first bar has no predecessor and counts as a zero gain and zero loss.
// A window whose smoothed loss is zero yields 100.
func RSI(closes []float64, window int) []float64 {
	n := len(closes)
	up := make([]float64, n)
	down := make([]float64, n)
	for i := 1; i < n; i++ {
		d := closes[i] - closes[i-1]
		switch {
		case d > 0:
			up[i] = d
		case d < 0:
			down[i] = -d
		}
	}

	alpha := 1 / float64(window)
	avgUp := ewm(up, alpha, window)
	avgDown := ewm(down, alpha, window)

	out := make([]float64, n)
	for i := range out {
		switch {
		case math.IsNaN(avgUp[i]) || math.IsNaN(avgDown[i]):
			out[i] = math.NaN()
		case avgDown[i] == 0:
			out[i] = 100
		default:
			rs := avgUp[i] / avgDown[i]
			out[i] = 100 - 100/(1+rs)
		}
	}
	return out
}
