// Package handler はriskanalysisフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"investiq_backend/internal/feature/riskanalysis/domain"
	"investiq_backend/internal/feature/riskanalysis/domain/entity"
	"investiq_backend/internal/feature/riskanalysis/transport/http/dto"
)

// Caller-visible error messages.
const (
	MsgNoTicker         = "No ticker provided"
	MsgDataUnavailable  = "Could not fetch stock data"
	MsgModelUnavailable = "Model not loaded"
)

// RiskUsecase はリスク分析のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type RiskUsecase interface {
	Analyze(ctx context.Context, ticker string) (*entity.Analysis, error)
	History(ctx context.Context, ticker string, limit int) ([]entity.Analysis, error)
	ModelInfo() entity.ModelInfo
}

// RiskHandler はリスク分析のHTTPリクエストを処理します。
type RiskHandler struct {
	uc RiskUsecase
}

// NewRiskHandler は指定されたusecaseでRiskHandlerの新しいインスタンスを生成します。
func NewRiskHandler(uc RiskUsecase) *RiskHandler {
	return &RiskHandler{uc: uc}
}

// AnalyzeStock はJSONボディの ticker を分析します。
//
// エンドポイント例:
// POST /api/analyze-stock  {"ticker": "AAPL"}
func (h *RiskHandler) AnalyzeStock(c *gin.Context) {
	var req dto.AnalyzeRequest
	// ボディが壊れている場合も ticker 未指定として扱う
	if err := c.ShouldBindJSON(&req); err != nil {
		req.Ticker = ""
	}
	h.analyze(c, req.Ticker)
}

// GetRisk はパスパラメータの銘柄を分析します。
//
// エンドポイント例:
// GET /api/stocks/AAPL/risk
func (h *RiskHandler) GetRisk(c *gin.Context) {
	h.analyze(c, c.Param("ticker"))
}

func (h *RiskHandler) analyze(c *gin.Context, ticker string) {
	a, err := h.uc.Analyze(c.Request.Context(), ticker)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.AnalysisResponse{Success: true, Data: dto.FromAnalysis(*a)})
}

// ListAnalyses は銘柄の分析履歴を新しい順に返します。
//
// エンドポイント例:
// GET /api/stocks/AAPL/analyses?limit=12
func (h *RiskHandler) ListAnalyses(c *gin.Context) {
	// 数値でない場合はデフォルト値（usecase側で補正）
	limit, _ := strconv.Atoi(c.Query("limit"))

	as, err := h.uc.History(c.Request.Context(), c.Param("ticker"), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.HistoryResponse{Success: true, Data: dto.FromHistory(as)})
}

// GetModel はロード済みモデルの情報を返します。
func (h *RiskHandler) GetModel(c *gin.Context) {
	c.JSON(http.StatusOK, dto.ModelResponse{Success: true, Data: dto.FromModelInfo(h.uc.ModelInfo())})
}

// ErrorStatus はドメインエラーをHTTPステータスと呼び出し元に見せるメッセージに変換します。
// 想定外のエラーはメッセージをそのまま返します。
func ErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrNoTicker):
		return http.StatusBadRequest, MsgNoTicker
	case errors.Is(err, domain.ErrDataUnavailable):
		return http.StatusBadRequest, MsgDataUnavailable
	case errors.Is(err, domain.ErrModelUnavailable):
		return http.StatusInternalServerError, MsgModelUnavailable
	default:
		return http.StatusInternalServerError, err.Error()
	}
}

func writeError(c *gin.Context, err error) {
	status, msg := ErrorStatus(err)
	_ = c.Error(err)
	c.JSON(status, dto.ErrorResponse{Success: false, Error: msg})
}
