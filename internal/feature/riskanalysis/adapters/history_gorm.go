package adapters

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"investiq_backend/internal/feature/riskanalysis/domain/entity"
	"investiq_backend/internal/feature/riskanalysis/usecase"
)

type historyGorm struct {
	db *gorm.DB
}

var _ usecase.HistoryRepository = (*historyGorm)(nil)

// NewHistoryRepository は gorm を使った分析履歴リポジトリを生成します。
func NewHistoryRepository(db *gorm.DB) *historyGorm {
	return &historyGorm{db: db}
}

// AnalysisModel is one recorded risk analysis.
type AnalysisModel struct {
	ID         uint      `gorm:"primaryKey"`
	Ticker     string    `gorm:"size:32;not null;index:analysis_ticker_time,priority:1"`
	AnalyzedAt time.Time `gorm:"not null;index:analysis_ticker_time,priority:2"`

	Price          float64 `gorm:"not null"`
	RSI            float64 `gorm:"column:rsi;not null"`
	MACD           float64 `gorm:"column:macd;not null"`
	Volatility30   float64 `gorm:"column:volatility_30;not null"`
	Volatility90   float64 `gorm:"column:volatility_90;not null"`
	BBWidth        float64 `gorm:"column:bb_width;not null"`
	Momentum       float64 `gorm:"not null"`
	DailyReturnPct float64 `gorm:"column:daily_return_pct;not null"`

	RiskClass    int     `gorm:"not null"`
	ProbLow      float64 `gorm:"not null"`
	ProbMedium   float64 `gorm:"not null"`
	ProbHigh     float64 `gorm:"not null"`
	ModelVersion string  `gorm:"size:64"`

	CreatedAt time.Time
}

func (AnalysisModel) TableName() string {
	return "risk_analyses"
}

func toAnalysisModel(a entity.Analysis) AnalysisModel {
	return AnalysisModel{
		Ticker:         strings.ToUpper(a.Ticker),
		AnalyzedAt:     a.AnalyzedAt,
		Price:          a.Price,
		RSI:            a.Features.RSI,
		MACD:           a.Features.MACD,
		Volatility30:   a.Features.Volatility30,
		Volatility90:   a.Features.Volatility90,
		BBWidth:        a.Features.BBWidth,
		Momentum:       a.Features.Momentum,
		DailyReturnPct: a.Features.DailyReturnPct,
		RiskClass:      int(a.Class),
		ProbLow:        a.Probabilities.Low,
		ProbMedium:     a.Probabilities.Medium,
		ProbHigh:       a.Probabilities.High,
		ModelVersion:   a.ModelVersion,
	}
}

// toEntity はテーブル行からドメインモデルへ変換します。
// ラベル・色・推奨文は保存せず、クラスから復元します。
func (m AnalysisModel) toEntity() entity.Analysis {
	class := entity.RiskClass(m.RiskClass)
	return entity.Analysis{
		Ticker: m.Ticker,
		Price:  m.Price,
		Features: entity.FeatureRecord{
			RSI:            m.RSI,
			MACD:           m.MACD,
			Volatility30:   m.Volatility30,
			Volatility90:   m.Volatility90,
			BBWidth:        m.BBWidth,
			Momentum:       m.Momentum,
			DailyReturnPct: m.DailyReturnPct,
		},
		Class:          class,
		Label:          class.Label(),
		Color:          class.Color(),
		Probabilities:  entity.Probabilities{Low: m.ProbLow, Medium: m.ProbMedium, High: m.ProbHigh},
		Recommendation: class.Recommendation(),
		ModelVersion:   m.ModelVersion,
		AnalyzedAt:     m.AnalyzedAt.UTC(),
	}
}

// Save は分析結果を1件記録します。
func (r *historyGorm) Save(ctx context.Context, a entity.Analysis) error {
	m := toAnalysisModel(a)
	return r.db.WithContext(ctx).Create(&m).Error
}

// ListByTicker は指定銘柄の分析結果を新しい順に最大 limit 件返します。
func (r *historyGorm) ListByTicker(ctx context.Context, ticker string, limit int) ([]entity.Analysis, error) {
	var rows []AnalysisModel
	q := r.db.WithContext(ctx).
		Where("ticker = ?", strings.ToUpper(ticker)).
		Order("analyzed_at DESC").
		Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.Analysis, 0, len(rows))
	for _, m := range rows {
		out = append(out, m.toEntity())
	}
	return out, nil
}
