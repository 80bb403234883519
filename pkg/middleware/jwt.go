package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/nao1215/pulse/pkg/envelope"
)

// JWTClaims はJWTトークンのクレーム（ペイロード）を表す。
// user_id・email・expのみを持ち、署名アルゴリズムはHS256に固定する。
type JWTClaims struct {
	jwt.RegisteredClaims
	// UserID は認証済みユーザーの一意識別子。
	UserID string `json:"user_id"`
	// Email はユーザーのメールアドレス。
	Email string `json:"email"`
}

// JWTTokenTTL はJWTトークンの有効期間。
const JWTTokenTTL = time.Hour

// GenerateJWT はユーザー情報からJWTトークンを生成する。
// 有効期限は発行時刻からJWTTokenTTL後に設定される。
func GenerateJWT(secret, userID, email string) (string, error) {
	claims := JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(JWTTokenTTL)),
		},
		UserID: userID,
		Email:  email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("JWTトークンの署名に失敗: %w", err)
	}
	return signed, nil
}

// JWTAuth はJWTトークンを検証するGinミドルウェアを返す。
// 有効期限切れはTOKEN_EXPIRED、署名不正やペイロード不正はUNAUTHORIZEDとして
// 区別して応答する。検証に成功した場合、コンテキストに "user_id" と "email" を設定する。
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			envelope.AbortError(c, http.StatusUnauthorized, envelope.KindUnauthorized)
			return
		}

		claims := &JWTClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(_ *jwt.Token) (any, error) {
			return []byte(secret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				envelope.AbortError(c, http.StatusUnauthorized, envelope.KindTokenExpired)
				return
			}
			envelope.AbortError(c, http.StatusUnauthorized, envelope.KindUnauthorized)
			return
		}
		if !token.Valid {
			envelope.AbortError(c, http.StatusUnauthorized, envelope.KindUnauthorized)
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		c.Next()
	}
}

// GetUserID はGinコンテキストからユーザーIDを取得する。
// JWTAuthまたはTokenAuthミドルウェアが事前に適用されている必要がある。
func GetUserID(c *gin.Context) string {
	userID, _ := c.Get("user_id")
	if id, ok := userID.(string); ok {
		return id
	}
	return ""
}
