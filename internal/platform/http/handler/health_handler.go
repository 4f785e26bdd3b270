// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health は /healthz エンドポイントのハンドラーを返します。
// modelLoaded が false を返す間も 200 を返しますが、status は "degraded" になります。
// プロセスの生存確認とモデルの状態確認を1つのエンドポイントで兼ねるためです。
func Health(modelLoaded func() bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 明示的にキャッシュを防止
		c.Header("Cache-Control", "no-store")

		switch c.Request.Method {
		case http.MethodHead:
			c.Status(http.StatusOK)
		case http.MethodOptions:
			c.Status(http.StatusNoContent)
		default:
			loaded := modelLoaded != nil && modelLoaded()
			status := "ok"
			if !loaded {
				status = "degraded"
			}
			c.JSON(http.StatusOK, gin.H{"status": status, "model_loaded": loaded})
		}
	}
}
