package router

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	riskhandler "investiq_backend/internal/feature/riskanalysis/transport/handler"
	"investiq_backend/internal/platform/http/handler"
	jwtmw "investiq_backend/internal/platform/jwt"
	"investiq_backend/internal/platform/logger"
	"investiq_backend/internal/platform/metrics"
)

// Config はルーター構築に必要な依存です。
type Config struct {
	Risk *riskhandler.RiskHandler
	// ModelLoaded は /healthz でモデルの状態を報告するために使います。
	ModelLoaded func() bool
	// JWTSecret が空でなければ /api グループにBearer認証を適用します。
	JWTSecret string
	// CORSAllowOrigins はカンマ区切りの許可オリジンです。空または "*" なら全オリジンを許可します。
	CORSAllowOrigins string
	Gatherer         prometheus.Gatherer
	Logger           zerolog.Logger
}

func NewRouter(cfg Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), logger.GinMiddleware(cfg.Logger), newCORS(cfg.CORSAllowOrigins))

	// 認証不要
	// 導通確認用
	health := handler.Health(cfg.ModelLoaded)
	r.GET("/healthz", health)
	r.HEAD("/healthz", health)
	r.OPTIONS("/healthz", health)

	if cfg.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(metrics.Handler(cfg.Gatherer)))
	}

	api := r.Group("/api")
	if cfg.JWTSecret != "" {
		// → リクエストヘッダーに JWT が必要になる
		api.Use(jwtmw.AuthRequired(cfg.JWTSecret))
	}
	{
		api.POST("/analyze-stock", cfg.Risk.AnalyzeStock)
		api.GET("/stocks/:ticker/risk", cfg.Risk.GetRisk)
		api.GET("/stocks/:ticker/analyses", cfg.Risk.ListAnalyses)
		api.GET("/model", cfg.Risk.GetModel)
	}

	return r
}

// newCORS はブラウザのフロントエンドから /api を呼べるようにCORSミドルウェアを生成します。
// JWT保護時にプリフライトが通るよう、Authorization ヘッダーは常に許可します。
func newCORS(origins string) gin.HandlerFunc {
	c := cors.DefaultConfig()
	c.AddAllowHeaders("Authorization")

	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" && o != "*" {
			c.AllowOrigins = append(c.AllowOrigins, o)
		}
	}
	if len(c.AllowOrigins) == 0 || strings.TrimSpace(origins) == "*" {
		c.AllowOrigins = nil
		c.AllowAllOrigins = true
	}
	return cors.New(c)
}
