package di

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"investiq_backend/internal/feature/riskanalysis/adapters/model"
	"investiq_backend/internal/feature/riskanalysis/usecase"
	"investiq_backend/internal/platform/logger"
	"investiq_backend/internal/platform/metrics"
)

// LoadClassifier はモデルアーティファクトを読み込みます。
// 読み込みに失敗してもサーバーは起動を続け、分析は "Model not loaded" を返します。
func LoadClassifier(path string, log zerolog.Logger) usecase.Classifier {
	m, err := model.Load(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("model not loaded")
		// 型付き nil をインターフェースに入れない
		return nil
	}
	info := m.Info()
	log.Info().Str("path", path).Str("version", info.Version).Str("kind", info.Kind).Msg("model loaded")
	return m
}

// Deps は AnalyzeUsecase の組み立てに必要な依存です。
type Deps struct {
	Source     usecase.PriceHistorySource
	Classifier usecase.Classifier
	History    usecase.HistoryRepository
	Registerer prometheus.Registerer
	Logger     zerolog.Logger
}

// NewAnalyzeUsecase は依存を注入した AnalyzeUsecase を生成します。
func NewAnalyzeUsecase(d Deps) *usecase.AnalyzeUsecase {
	opts := []usecase.Option{
		usecase.WithLogger(logger.Component(d.Logger, "riskanalysis")),
	}
	if d.History != nil {
		opts = append(opts, usecase.WithHistory(d.History))
	}
	if d.Registerer != nil {
		opts = append(opts, usecase.WithRecorder(metrics.New(d.Registerer)))
	}
	return usecase.NewAnalyzeUsecase(d.Source, d.Classifier, opts...)
}
