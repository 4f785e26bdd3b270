// Package yahoo provides a daily price source backed by the Yahoo Finance chart API.
package yahoo

import (
	"context"
	"fmt"
	"time"

	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"

	"investiq_backend/internal/feature/riskanalysis/domain/entity"
	"investiq_backend/internal/feature/riskanalysis/usecase"
)

// ProviderName はメトリクスとログで使うプロバイダ名です。
const ProviderName = "yahoo"

// barIter は chart.Iter のうち利用するメソッドだけを切り出したものです。
type barIter interface {
	Next() bool
	Bar() *finance.ChartBar
	Err() error
}

type fetchFunc func(p *chart.Params) barIter

func chartGet(p *chart.Params) barIter {
	return chart.Get(p)
}

// YahooSource はYahoo Financeから日足を取得するPriceHistorySource実装です。
// APIキーは不要です。
type YahooSource struct {
	fetch fetchFunc
}

var _ usecase.PriceHistorySource = (*YahooSource)(nil)

// NewYahooSource は YahooSource を生成します。
func NewYahooSource() *YahooSource {
	return &YahooSource{fetch: chartGet}
}

// Name implements usecase.PriceHistorySource.
func (y *YahooSource) Name() string { return ProviderName }

// FetchDaily は [from, to] の日足を取得します。
// 値が欠損しているバー（終値0）は休場日として除外します。
// 価格は分割・配当調整済みの値を返します。
func (y *YahooSource) FetchDaily(ctx context.Context, ticker string, from, to time.Time) (entity.Series, error) {
	params := &chart.Params{
		Symbol:   ticker,
		Start:    datetime.New(&from),
		End:      datetime.New(&to),
		Interval: datetime.OneDay,
	}
	params.Context = &ctx

	iter := y.fetch(params)

	candles := make([]entity.Candle, 0, 128)
	for iter.Next() {
		bar := iter.Bar()
		if bar == nil || !bar.Close.IsPositive() {
			continue
		}
		candles = append(candles, adjusted(bar))
	}
	if err := iter.Err(); err != nil {
		return entity.Series{}, fmt.Errorf("yahoo chart %s: %w", ticker, err)
	}
	return entity.Series{Ticker: ticker, Candles: candles}, nil
}

// adjusted は調整後終値を終値とし、始値・高値・安値を同じ比率で調整します。
// 調整後終値が無いバーは生の値を使います。
func adjusted(bar *finance.ChartBar) entity.Candle {
	o, h, l, c := bar.Open, bar.High, bar.Low, bar.Close
	if bar.AdjClose.IsPositive() && !bar.AdjClose.Equal(c) {
		f := bar.AdjClose.Div(c)
		o, h, l, c = o.Mul(f), h.Mul(f), l.Mul(f), bar.AdjClose
	}
	return entity.Candle{
		Time:   time.Unix(int64(bar.Timestamp), 0).UTC(),
		Open:   o.InexactFloat64(),
		High:   h.InexactFloat64(),
		Low:    l.InexactFloat64(),
		Close:  c.InexactFloat64(),
		Volume: int64(bar.Volume),
	}
}
