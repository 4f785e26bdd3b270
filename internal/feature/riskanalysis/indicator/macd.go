package indicator

// MACDDiff returns the MACD histogram: (EMA_fast - EMA_slow) minus its signal EMA.
func MACDDiff(closes []float64, fast, slow, signal int) []float64 {
	fastEMA := EMA(closes, fast)
	slowEMA := EMA(closes, slow)

	macd := make([]float64, len(closes))
	for i := range macd {
		macd[i] = fastEMA[i] - slowEMA[i]
	}
	sig := EMA(macd, signal)

	out := make([]float64, len(closes))
	for i := range out {
		out[i] = macd[i] - sig[i]
	}
	return out
}
