package indicator

import "math"

// PctChange returns the percentage change over the given number of periods.
func PctChange(xs []float64, periods int) []float64 {
	out := make([]float64, len(xs))
	for i := range out {
		if i < periods {
			out[i] = math.NaN()
			continue
		}
		out[i] = (xs[i]/xs[i-periods] - 1) * 100
	}
	return out
}

// RollingStd returns the standard deviation over a trailing window.
// ddof 0 gives the population deviation, ddof 1 the sample deviation.
// A window containing an undefined value yields NaN.
func RollingStd(xs []float64, window, ddof int) []float64 {
	out := make([]float64, len(xs))
	for i := range out {
		out[i] = math.NaN()
		if i+1 < window || window <= ddof {
			continue
		}
		out[i] = windowStd(xs[i+1-window:i+1], ddof)
	}
	return out
}

// BollingerWidth returns upper minus lower band of Bollinger bands with a
// population deviation, i.e. 2*k*stddev over the trailing window.
func BollingerWidth(closes []float64, window int, k float64) []float64 {
	std := RollingStd(closes, window, 0)
	out := make([]float64, len(std))
	for i, s := range std {
		out[i] = 2 * k * s
	}
	return out
}

func windowStd(w []float64, ddof int) float64 {
	var sum float64
	for _, x := range w {
		if math.IsNaN(x) {
			return math.NaN()
		}
		sum += x
	}
	mean := sum / float64(len(w))
	var ss float64
	for _, x := range w {
		d := x - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(w)-ddof))
}
