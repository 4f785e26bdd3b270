// Package jwtmw はAPIを保護するBearer JWTミドルウェアを提供します。
package jwtmw

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// ContextSubject はトークンの sub クレームを格納するコンテキストキーです。
const ContextSubject = "subject"

func abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "error": msg})
}

// AuthRequired returns a Gin middleware function that validates HS256 bearer tokens
// signed with secret and restricts access to authenticated callers only.
func AuthRequired(secret string) gin.HandlerFunc {
	key := []byte(secret)
	return func(c *gin.Context) {
		// 1. Get Authorization header
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			abort(c, http.StatusUnauthorized, "missing bearer token")
			return
		}
		tokenStr := strings.TrimPrefix(auth, "Bearer ")

		if len(key) == 0 {
			// Server misconfiguration (guard installed without a secret)
			abort(c, http.StatusInternalServerError, "server misconfigured")
			return
		}

		// 2. Parse and verify JWT signature (only HMAC allowed)
		claims := &jwt.RegisteredClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return key, nil
		}, jwt.WithExpirationRequired())
		if err != nil || !token.Valid {
			abort(c, http.StatusUnauthorized, "invalid token")
			return
		}

		// 3. Expose the subject to downstream handlers
		if claims.Subject != "" {
			c.Set(ContextSubject, claims.Subject)
		}
		c.Next()
	}
}
