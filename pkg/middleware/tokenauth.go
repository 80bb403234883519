package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nao1215/pulse/pkg/envelope"
)

// TokenLookupFunc は不透明APIトークンからユーザーIDを解決する関数。
// トークンに対応するユーザーが存在しない場合はfalseを返す。
type TokenLookupFunc func(ctx context.Context, token string) (userID string, ok bool)

// TokenAuth は不透明APIトークンを検証するGinミドルウェアを返す。
// Authorization: Bearer ヘッダーのトークンをlookupで解決し、
// 成功した場合はコンテキストに "user_id" を設定する。
func TokenAuth(lookup TokenLookupFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			envelope.AbortError(c, http.StatusUnauthorized, envelope.KindUnauthorized)
			return
		}

		userID, ok := lookup(c.Request.Context(), token)
		if !ok {
			envelope.AbortError(c, http.StatusUnauthorized, envelope.KindUnauthorized)
			return
		}

		c.Set("user_id", userID)
		c.Next()
	}
}

// bearerToken はAuthorizationヘッダーからBearerトークンを取り出す。
// ヘッダーが存在しない、形式が不正、トークンが空の場合はfalseを返す。
func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}

	token, found := strings.CutPrefix(authHeader, "Bearer ")
	if !found || token == "" {
		return "", false
	}
	return token, true
}
