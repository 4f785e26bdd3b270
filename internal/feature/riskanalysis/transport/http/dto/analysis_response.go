// Package dto はリスク分析APIのリクエスト/レスポンスDTOを定義します。
package dto

import (
	"time"

	"investiq_backend/internal/feature/riskanalysis/domain/entity"
)

// AnalyzeRequest は POST /api/analyze-stock のリクエストボディです。
type AnalyzeRequest struct {
	Ticker string `json:"ticker"`
}

// ErrorResponse は失敗時の共通レスポンスです。
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Probabilities はクラス確率（0〜100）です。
type Probabilities struct {
	Low    float64 `json:"low"`
	Medium float64 `json:"medium"`
	High   float64 `json:"high"`
}

// AnalysisData は分析結果のペイロードです。
// volatility は volatility_30 と同じ値で、既存クライアントとの互換のために残しています。
type AnalysisData struct {
	Price          float64       `json:"price"`
	RSI            float64       `json:"rsi"`
	MACD           float64       `json:"macd"`
	BBWidth        float64       `json:"bb_width"`
	Volatility     float64       `json:"volatility"`
	Volatility30   float64       `json:"volatility_30"`
	Volatility90   float64       `json:"volatility_90"`
	Momentum       float64       `json:"momentum"`
	DailyReturnPct float64       `json:"daily_return_pct"`
	Risk           string        `json:"risk"`
	RiskColor      string        `json:"riskColor"`
	Probabilities  Probabilities `json:"probabilities"`
	Recommendation string        `json:"recommendation"`
}

// AnalysisResponse は分析成功時のレスポンスです。
type AnalysisResponse struct {
	Success bool         `json:"success"`
	Data    AnalysisData `json:"data"`
}

// HistoryItem は分析履歴の1件です。
type HistoryItem struct {
	Ticker       string    `json:"ticker"`
	AnalyzedAt   time.Time `json:"analyzed_at"`
	ModelVersion string    `json:"model_version,omitempty"`
	AnalysisData
}

// HistoryResponse は分析履歴のレスポンスです。
type HistoryResponse struct {
	Success bool          `json:"success"`
	Data    []HistoryItem `json:"data"`
}

// ModelInfo はロード済みモデルの情報です。
type ModelInfo struct {
	Loaded   bool     `json:"loaded"`
	Version  string   `json:"version,omitempty"`
	Kind     string   `json:"kind,omitempty"`
	Features []string `json:"features"`
	Classes  []string `json:"classes"`
}

// ModelResponse は GET /api/model のレスポンスです。
type ModelResponse struct {
	Success bool      `json:"success"`
	Data    ModelInfo `json:"data"`
}

// FromAnalysis はドメインモデルをレスポンス用に変換します。
func FromAnalysis(a entity.Analysis) AnalysisData {
	return AnalysisData{
		Price:          a.Price,
		RSI:            a.Features.RSI,
		MACD:           a.Features.MACD,
		BBWidth:        a.Features.BBWidth,
		Volatility:     a.Features.Volatility30,
		Volatility30:   a.Features.Volatility30,
		Volatility90:   a.Features.Volatility90,
		Momentum:       a.Features.Momentum,
		DailyReturnPct: a.Features.DailyReturnPct,
		Risk:           a.Label,
		RiskColor:      a.Color,
		Probabilities: Probabilities{
			Low:    a.Probabilities.Low,
			Medium: a.Probabilities.Medium,
			High:   a.Probabilities.High,
		},
		Recommendation: a.Recommendation,
	}
}

// FromHistory は履歴をレスポンス用に変換します。
func FromHistory(as []entity.Analysis) []HistoryItem {
	out := make([]HistoryItem, 0, len(as))
	for _, a := range as {
		out = append(out, HistoryItem{
			Ticker:       a.Ticker,
			AnalyzedAt:   a.AnalyzedAt,
			ModelVersion: a.ModelVersion,
			AnalysisData: FromAnalysis(a),
		})
	}
	return out
}

// FromModelInfo converts the classifier description.
func FromModelInfo(m entity.ModelInfo) ModelInfo {
	return ModelInfo{
		Loaded:   m.Loaded,
		Version:  m.Version,
		Kind:     m.Kind,
		Features: m.Features,
		Classes:  m.Classes,
	}
}
