package twelvedata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"investiq_backend/internal/feature/riskanalysis/domain/entity"
	"investiq_backend/internal/feature/riskanalysis/usecase"
	"investiq_backend/internal/platform/externalapi/twelvedata/dto"
)

// ProviderName はメトリクスとログで使うプロバイダ名です。
const ProviderName = "twelvedata"

// ErrNoAPIKey はAPIキーが設定されていない場合に返されます。
var ErrNoAPIKey = errors.New("twelvedata: api key not configured")

// HTTPStatusError は2xx以外のHTTPステータスを表します。
type HTTPStatusError struct {
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("twelvedata http %d", e.StatusCode)
}

// APIError はレスポンスボディで返されたエラーです（status: "error"）。
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("twelvedata: %s (code %d)", e.Message, e.Code)
}

// TwelveDataSource はTwelve Data APIから日足を取得するPriceHistorySource実装です。
type TwelveDataSource struct {
	cfg        Config
	client     *resty.Client
	limiter    *rate.Limiter
	newBackOff func() backoff.BackOff
}

// TwelveDataSourceがPriceHistorySourceを実装していることをコンパイル時に検証します。
var _ usecase.PriceHistorySource = (*TwelveDataSource)(nil)

// NewTwelveDataSource は指定された設定とHTTPクライアントでTwelveDataSourceを生成します。
// 無料プランの分間リクエスト制限を超えないよう、全リクエストを共通のリミッタに通します。
func NewTwelveDataSource(cfg Config, hc *http.Client) *TwelveDataSource {
	cfg = cfg.withDefaults()
	client := resty.NewWithClient(hc).
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")

	return &TwelveDataSource{
		cfg:     cfg,
		client:  client,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RatePerMinute)), cfg.RatePerMinute),
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 500 * time.Millisecond
			b.MaxElapsedTime = 30 * time.Second
			return b
		},
	}
}

// Name implements usecase.PriceHistorySource.
func (t *TwelveDataSource) Name() string { return ProviderName }

// FetchDaily はTwelve Data APIから [from, to] の日足を取得します。
// 5xx・429・通信エラーは指数バックオフで再試行し、それ以外の4xxとAPIエラーは即座に返します。
func (t *TwelveDataSource) FetchDaily(ctx context.Context, ticker string, from, to time.Time) (entity.Series, error) {
	if t.cfg.APIKey == "" {
		return entity.Series{}, ErrNoAPIKey
	}

	var body dto.TimeSeriesResponse
	operation := func() error {
		if err := t.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}

		resp, err := t.client.R().
			SetContext(ctx).
			SetQueryParams(map[string]string{
				"symbol":     ticker,
				"interval":   "1day",
				"start_date": from.Format("2006-01-02"),
				"end_date":   to.Format("2006-01-02"),
				"outputsize": "5000",
				"order":      "ASC",
				"apikey":     t.cfg.APIKey,
			}).
			Get("/time_series")
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			return err
		}

		if code := resp.StatusCode(); code >= 400 {
			statusErr := &HTTPStatusError{StatusCode: code}
			if code >= 500 || code == http.StatusTooManyRequests {
				return statusErr
			}
			return backoff.Permanent(statusErr)
		}

		body = dto.TimeSeriesResponse{}
		if err := json.Unmarshal(resp.Body(), &body); err != nil {
			return backoff.Permanent(fmt.Errorf("decode time_series: %w", err))
		}
		if body.Status == "error" {
			apiErr := &APIError{Code: body.Code, Message: body.Message}
			if body.Code == http.StatusTooManyRequests {
				return apiErr
			}
			return backoff.Permanent(apiErr)
		}
		return nil
	}

	b := backoff.WithContext(backoff.WithMaxRetries(t.newBackOff(), uint64(t.cfg.MaxRetries)), ctx)
	if err := backoff.Retry(operation, b); err != nil {
		return entity.Series{}, err
	}

	candles, err := toCandles(body.Values)
	if err != nil {
		return entity.Series{}, err
	}
	return entity.Series{Ticker: ticker, Candles: candles}, nil
}

func toCandles(values []dto.TimeSeriesValue) ([]entity.Candle, error) {
	candles := make([]entity.Candle, 0, len(values))
	for _, v := range values {
		// タイムスタンプをパース
		tm, err := time.Parse("2006-01-02 15:04:05", v.Datetime)
		if err != nil {
			tm, err = time.Parse("2006-01-02", v.Datetime)
			if err != nil {
				return nil, fmt.Errorf("parse time %q: %w", v.Datetime, err)
			}
		}
		o, err := strconv.ParseFloat(v.Open, 64)
		if err != nil {
			return nil, fmt.Errorf("parse open %q: %w", v.Open, err)
		}
		h, err := strconv.ParseFloat(v.High, 64)
		if err != nil {
			return nil, fmt.Errorf("parse high %q: %w", v.High, err)
		}
		l, err := strconv.ParseFloat(v.Low, 64)
		if err != nil {
			return nil, fmt.Errorf("parse low %q: %w", v.Low, err)
		}
		c, err := strconv.ParseFloat(v.Close, 64)
		if err != nil {
			return nil, fmt.Errorf("parse close %q: %w", v.Close, err)
		}
		vol, err := parseVolume(v.Volume)
		if err != nil {
			return nil, fmt.Errorf("parse volume %q: %w", v.Volume, err)
		}

		candles = append(candles, entity.Candle{
			Time:   tm,
			Open:   o,
			High:   h,
			Low:    l,
			Close:  c,
			Volume: vol,
		})
	}
	return candles, nil
}

// parseVolume は出来高をパースします。出来高のない銘柄では空文字列になるため0とします。
func parseVolume(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return int64(f), nil
}
