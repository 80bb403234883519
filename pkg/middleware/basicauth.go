package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nao1215/pulse/pkg/envelope"
)

// BasicAuth はHTTP Basic認証を行うGinミドルウェアを返す。
// 設定された1組のユーザー名・パスワードとの完全一致のみを認める。
// 認証失敗時はBasic認証クライアントが期待するWWW-Authenticateチャレンジを
// 付与した上で401エラーエンベロープを返す。
func BasicAuth(username, password string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, pass, ok := c.Request.BasicAuth()
		if !ok || user != username || pass != password {
			c.Header("WWW-Authenticate", `Basic realm="pulse"`)
			envelope.AbortError(c, http.StatusUnauthorized, envelope.KindUnauthorized)
			return
		}
		c.Next()
	}
}
