// Package usecase はリスク分類パイプラインのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"investiq_backend/internal/feature/riskanalysis/domain"
	"investiq_backend/internal/feature/riskanalysis/domain/entity"
	"investiq_backend/internal/feature/riskanalysis/indicator"
)

const (
	// HistoryWindow は価格履歴を取得する期間です。90日ボラティリティのウォームアップに
	// 休場日とプロバイダの欠損を加味して余裕を持たせています。
	HistoryWindow = 180 * 24 * time.Hour
	// DefaultHistoryLimit は分析履歴のデフォルト返却件数です。
	DefaultHistoryLimit = 12
	// MaxHistoryLimit は分析履歴の最大返却件数です。
	MaxHistoryLimit = 100
)

// Outcome labels reported to the Recorder.
const (
	OutcomeSuccess          = "success"
	OutcomeNoTicker         = "no_ticker"
	OutcomeDataUnavailable  = "data_unavailable"
	OutcomeModelUnavailable = "model_unavailable"
	OutcomeError            = "error"
)

// PriceHistorySource は日足の価格履歴を取得する外部データソースです。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type PriceHistorySource interface {
	// Name はメトリクスとログに使うプロバイダ名を返します。
	Name() string
	// FetchDaily は [from, to] の日足を返します。
	FetchDaily(ctx context.Context, ticker string, from, to time.Time) (entity.Series, error)
}

// Classifier は学習済みモデルを包む分類器です。
type Classifier interface {
	// FeatureNames はモデルが学習時に使用した特徴量の順序を返します。
	FeatureNames() []string
	// Classify はクラスインデックスと、同じ順序のクラス確率を返します。
	Classify(ctx context.Context, v entity.FeatureVector) (entity.RiskClass, []float64, error)
	// Info はロード済みアーティファクトの情報を返します。
	Info() entity.ModelInfo
}

// HistoryRepository は分析結果の永続化を抽象化します。
type HistoryRepository interface {
	Save(ctx context.Context, a entity.Analysis) error
	ListByTicker(ctx context.Context, ticker string, limit int) ([]entity.Analysis, error)
}

// Recorder はパイプラインのメトリクスを記録します。
type Recorder interface {
	ObserveFetch(provider string, d time.Duration)
	RecordOutcome(outcome string)
	RecordRiskClass(class string)
}

// AnalyzeUsecase は ticker → 価格履歴 → 特徴量 → 分類 → 結果 の流れを実行します。
// 保持する状態はすべて読み取り専用なので、複数リクエストから同時に呼び出せます。
type AnalyzeUsecase struct {
	source     PriceHistorySource
	engine     *indicator.Engine
	classifier Classifier
	history    HistoryRepository
	recorder   Recorder
	log        zerolog.Logger
	now        func() time.Time
}

// Option は AnalyzeUsecase の任意設定です。
type Option func(*AnalyzeUsecase)

// WithHistory は分析結果の保存先を設定します。
func WithHistory(h HistoryRepository) Option {
	return func(u *AnalyzeUsecase) { u.history = h }
}

// WithRecorder はメトリクスの記録先を設定します。
func WithRecorder(r Recorder) Option {
	return func(u *AnalyzeUsecase) { u.recorder = r }
}

// WithLogger はロガーを設定します。
func WithLogger(l zerolog.Logger) Option {
	return func(u *AnalyzeUsecase) { u.log = l }
}

// WithClock は現在時刻の取得関数を差し替えます。
func WithClock(now func() time.Time) Option {
	return func(u *AnalyzeUsecase) { u.now = now }
}

// NewAnalyzeUsecase は AnalyzeUsecase を生成します。
// classifier が nil の場合、分析は常に ErrModelUnavailable で失敗します。
func NewAnalyzeUsecase(source PriceHistorySource, classifier Classifier, opts ...Option) *AnalyzeUsecase {
	u := &AnalyzeUsecase{
		source:     source,
		engine:     indicator.NewEngine(),
		classifier: classifier,
		recorder:   nopRecorder{},
		log:        zerolog.Nop(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Analyze は指定銘柄のリスク分類を実行します。
func (u *AnalyzeUsecase) Analyze(ctx context.Context, ticker string) (*entity.Analysis, error) {
	a, err := u.analyze(ctx, strings.TrimSpace(ticker))
	u.recorder.RecordOutcome(outcomeOf(err))
	if err != nil {
		return nil, err
	}
	u.recorder.RecordRiskClass(a.Class.String())
	return a, nil
}

func (u *AnalyzeUsecase) analyze(ctx context.Context, ticker string) (*entity.Analysis, error) {
	if ticker == "" {
		return nil, domain.ErrNoTicker
	}
	log := u.log.With().Str("ticker", ticker).Logger()

	snap, err := u.features(ctx, ticker, log)
	if err != nil {
		return nil, err
	}

	if u.classifier == nil {
		return nil, domain.ErrModelUnavailable
	}

	vec, err := snap.Features.Vector(u.classifier.FeatureNames())
	if err != nil {
		return nil, err
	}
	class, probs, err := u.classifier.Classify(ctx, vec)
	if err != nil {
		return nil, fmt.Errorf("classify %s: %w", ticker, err)
	}

	a, err := Assemble(ticker, snap.Close, snap.Features, class, probs)
	if err != nil {
		return nil, err
	}
	a.ModelVersion = u.classifier.Info().Version
	a.AnalyzedAt = u.now().UTC()

	if u.history != nil {
		if err := u.history.Save(ctx, a); err != nil {
			log.Warn().Err(err).Msg("failed to record analysis history")
		}
	}

	log.Info().
		Str("risk", a.Label).
		Float64("price", a.Price).
		Float64("p_low", a.Probabilities.Low).
		Float64("p_medium", a.Probabilities.Medium).
		Float64("p_high", a.Probabilities.High).
		Msg("risk analysis completed")
	return &a, nil
}

// features は価格履歴を取得し、検証済みの特徴量スナップショットを返します。
// ここで発生したエラーはすべて ErrDataUnavailable として呼び出し元に返します。
func (u *AnalyzeUsecase) features(ctx context.Context, ticker string, log zerolog.Logger) (indicator.Snapshot, error) {
	to := u.now()
	from := to.Add(-HistoryWindow)

	start := time.Now()
	series, err := u.source.FetchDaily(ctx, ticker, from, to)
	u.recorder.ObserveFetch(u.source.Name(), time.Since(start))
	if err != nil {
		log.Warn().Err(err).Str("provider", u.source.Name()).Msg("price history fetch failed")
		return indicator.Snapshot{}, fmt.Errorf("%w: %s", domain.ErrDataUnavailable, ticker)
	}

	snap, err := u.snapshot(series)
	if err != nil {
		log.Info().Err(err).Int("bars", series.Len()).Msg("price history rejected")
		return indicator.Snapshot{}, fmt.Errorf("%w: %s", domain.ErrDataUnavailable, ticker)
	}
	return snap, nil
}

func (u *AnalyzeUsecase) snapshot(series entity.Series) (indicator.Snapshot, error) {
	if err := series.Normalize(); err != nil {
		return indicator.Snapshot{}, err
	}
	if series.Len() < indicator.MinBars {
		return indicator.Snapshot{}, fmt.Errorf("%w: %d bars", domain.ErrInsufficientBars, series.Len())
	}
	snap, err := u.engine.Compute(series)
	if err != nil {
		return indicator.Snapshot{}, err
	}
	if err := ValidateFeatures(snap); err != nil {
		return indicator.Snapshot{}, err
	}
	return snap, nil
}

// History は指定銘柄の直近の分析結果を新しい順に返します。
func (u *AnalyzeUsecase) History(ctx context.Context, ticker string, limit int) ([]entity.Analysis, error) {
	ticker = strings.TrimSpace(ticker)
	if ticker == "" {
		return nil, domain.ErrNoTicker
	}
	if limit <= 0 || limit > MaxHistoryLimit {
		limit = DefaultHistoryLimit
	}
	if u.history == nil {
		return []entity.Analysis{}, nil
	}
	return u.history.ListByTicker(ctx, ticker, limit)
}

// ModelInfo はロード済みモデルの情報を返します。
func (u *AnalyzeUsecase) ModelInfo() entity.ModelInfo {
	if u.classifier == nil {
		return entity.ModelInfo{Loaded: false, Features: entity.FeatureNames(), Classes: entity.ClassNames()}
	}
	return u.classifier.Info()
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, domain.ErrNoTicker):
		return OutcomeNoTicker
	case errors.Is(err, domain.ErrDataUnavailable):
		return OutcomeDataUnavailable
	case errors.Is(err, domain.ErrModelUnavailable):
		return OutcomeModelUnavailable
	default:
		return OutcomeError
	}
}

type nopRecorder struct{}

func (nopRecorder) ObserveFetch(string, time.Duration) {}
func (nopRecorder) RecordOutcome(string)               {}
func (nopRecorder) RecordRiskClass(string)             {}
