// Package indicator computes the technical indicators that make up the classifier feature record.
//
// Every function returns a series aligned with its input; NaN marks positions
// where the indicator is not yet defined (warm-up) or cannot be computed.
package indicator

import "math"

// ewm is a non-adjusted exponentially weighted mean.
// It starts at the first defined observation and yields NaN until minPeriods
// defined observations have been seen. Undefined observations after the start
// keep the previous mean and let the old weight decay, so the next defined
// observation is blended with weight alpha against (1-alpha)^(gap+1).
func ewm(xs []float64, alpha float64, minPeriods int) []float64 {
	out := make([]float64, len(xs))
	if len(xs) == 0 {
		return out
	}

	weighted := math.NaN()
	oldWt := 1.0
	nobs := 0
	for i, x := range xs {
		observed := !math.IsNaN(x)
		if observed {
			nobs++
		}
		switch {
		case !math.IsNaN(weighted):
			oldWt *= 1 - alpha
			if observed {
				if weighted != x {
					weighted = (oldWt*weighted + alpha*x) / (oldWt + alpha)
				}
				oldWt = 1
			}
		case observed:
			weighted = x
		}
		if nobs >= minPeriods {
			out[i] = weighted
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}

// EMA returns the exponential moving average with alpha = 2/(span+1).
func EMA(xs []float64, span int) []float64 {
	return ewm(xs, 2/float64(span+1), span)
}

// last returns the final element or NaN for an empty series.
func last(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	return xs[len(xs)-1]
}
