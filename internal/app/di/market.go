// Package di はアプリケーションコンポーネントを組み立てるファクトリを提供します。
package di

import (
	"fmt"

	"investiq_backend/internal/feature/riskanalysis/usecase"
	"investiq_backend/internal/platform/config"
	"investiq_backend/internal/platform/externalapi/twelvedata"
	"investiq_backend/internal/platform/externalapi/yahoo"
	infrahttp "investiq_backend/internal/platform/http"
)

// NewPriceSource は設定されたプロバイダのPriceHistorySourceを生成します。
func NewPriceSource(cfg config.ProviderConfig) (usecase.PriceHistorySource, error) {
	switch cfg.Name {
	case "", yahoo.ProviderName:
		return yahoo.NewYahooSource(), nil
	case twelvedata.ProviderName:
		httpClient := infrahttp.NewHTTPClient(cfg.FetchTimeout)
		return twelvedata.NewTwelveDataSource(twelvedata.Config{
			APIKey:        cfg.TwelveDataAPIKey,
			BaseURL:       cfg.TwelveDataBaseURL,
			Timeout:       cfg.FetchTimeout,
			RatePerMinute: cfg.RatePerMinute,
			MaxRetries:    cfg.FetchMaxRetries,
		}, httpClient), nil
	default:
		return nil, fmt.Errorf("unknown price provider %q", cfg.Name)
	}
}
