// Package entity defines the domain models for the riskanalysis feature.
package entity

import (
	"fmt"
	"sort"
	"time"

	"investiq_backend/internal/feature/riskanalysis/domain"
)

// Candle represents one daily OHLCV bar of a price series.
type Candle struct {
	Time   time.Time // Trading day of this bar
	Open   float64   // Opening price
	High   float64   // Highest price during the day
	Low    float64   // Lowest price during the day
	Close  float64   // Closing price
	Volume int64     // Trading volume
}

// Series is a time-ordered daily price history for one ticker.
type Series struct {
	Ticker  string
	Candles []Candle
}

// Len returns the number of bars.
func (s Series) Len() int {
	return len(s.Candles)
}

// Closes returns the closing prices in series order.
func (s Series) Closes() []float64 {
	out := make([]float64, len(s.Candles))
	for i, c := range s.Candles {
		out[i] = c.Close
	}
	return out
}

// Last returns the most recent bar.
func (s Series) Last() (Candle, bool) {
	if len(s.Candles) == 0 {
		return Candle{}, false
	}
	return s.Candles[len(s.Candles)-1], true
}

// Normalize sorts the bars by time ascending and rejects duplicate dates.
// Providers return newest-first or oldest-first depending on the endpoint, so
// every source passes its output through here.
func (s *Series) Normalize() error {
	sort.SliceStable(s.Candles, func(i, j int) bool {
		return s.Candles[i].Time.Before(s.Candles[j].Time)
	})
	for i := 1; i < len(s.Candles); i++ {
		prev, cur := s.Candles[i-1].Time, s.Candles[i].Time
		if dayKey(prev) == dayKey(cur) {
			return fmt.Errorf("%w: duplicate bar for %s", domain.ErrInvalidSeries, dayKey(cur))
		}
	}
	return nil
}

func dayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
