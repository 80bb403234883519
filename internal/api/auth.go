package api

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nao1215/pulse/internal/store"
	"github.com/nao1215/pulse/pkg/envelope"
	"github.com/nao1215/pulse/pkg/middleware"
)

// loginRequest はログインリクエストのJSON構造。
type loginRequest struct {
	// Email はログイン対象ユーザーのメールアドレス。
	Email string `json:"email"`
}

// userResponse はレスポンスに含めるユーザー情報。
type userResponse struct {
	// ID はユーザーの一意識別子。
	ID string `json:"id"`
	// Email はユーザーのメールアドレス。
	Email string `json:"email"`
	// Name はユーザーの表示名。
	Name string `json:"name"`
}

// tokenResponse は不透明トークン発行時のレスポンス。
type tokenResponse struct {
	// Token は不透明APIトークン。
	Token string `json:"token"`
	// User はトークンの所有者。
	User userResponse `json:"user"`
}

// jwtTokenResponse はJWT発行時のレスポンス。
type jwtTokenResponse struct {
	// Token は署名済みJWT。
	Token string `json:"token"`
	// TokenType はトークンの種別。常に "Bearer"。
	TokenType string `json:"token_type"`
	// ExpiresIn はトークンの有効期間（秒）。
	ExpiresIn int64 `json:"expires_in"`
	// User はトークンの所有者。
	User userResponse `json:"user"`
}

// messageResponse はメッセージのみのレスポンス。
type messageResponse struct {
	// Message は処理結果のメッセージ。
	Message string `json:"message"`
}

// newUserResponse はストアのユーザーレコードからレスポンス構造を組み立てる。
func newUserResponse(user *store.User) userResponse {
	return userResponse{ID: user.ID, Email: user.Email, Name: user.Name}
}

// bindLoginRequest はログインリクエストのボディを解析する。
// ボディが空の場合はemail欠落として扱い、JSONとして不正な場合はfalseを返す。
func bindLoginRequest(c *gin.Context) (loginRequest, bool) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		envelope.Error(c, http.StatusBadRequest, envelope.KindInvalidJSON)
		return loginRequest{}, false
	}
	return req, true
}

// handleLogin は不透明トークンによるログインを処理するハンドラを返す。
// メールアドレスのみでユーザーを識別し、現在のトークンをそのまま返す。
// トークンの再発行はrefresh/logoutでのみ行われる。
func (s *Server) handleLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		req, ok := bindLoginRequest(c)
		if !ok {
			return
		}
		if req.Email == "" {
			envelope.Error(c, http.StatusBadRequest, envelope.KindMissingParameter, "email")
			return
		}

		user, err := s.store.UserByEmail(c.Request.Context(), req.Email)
		if err != nil {
			envelope.Error(c, http.StatusUnauthorized, envelope.KindUnauthorized)
			return
		}

		envelope.OK(c, tokenResponse{
			Token: user.APIToken,
			User:  newUserResponse(user),
		})
	}
}

// handleRefresh は不透明トークンの再発行を処理するハンドラを返す。
// 古いトークンは即座に無効になる。
func (s *Server) handleRefresh() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := s.store.RegenerateToken(c.Request.Context(), middleware.GetUserID(c))
		if err != nil {
			envelope.Error(c, http.StatusUnauthorized, envelope.KindUnauthorized)
			return
		}

		envelope.OK(c, tokenResponse{
			Token: user.APIToken,
			User:  newUserResponse(user),
		})
	}
}

// handleLogout は不透明トークンによるログアウトを処理するハンドラを返す。
// トークンを再発行することで提示されたトークンを無効化する。
func (s *Server) handleLogout() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := s.store.RegenerateToken(c.Request.Context(), middleware.GetUserID(c)); err != nil {
			envelope.Error(c, http.StatusUnauthorized, envelope.KindUnauthorized)
			return
		}

		envelope.OK(c, messageResponse{Message: "Logged out successfully"})
	}
}

// handleJWTLogin はJWTによるログインを処理するハンドラを返す。
func (s *Server) handleJWTLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		req, ok := bindLoginRequest(c)
		if !ok {
			return
		}
		if req.Email == "" {
			envelope.Error(c, http.StatusBadRequest, envelope.KindMissingParameter, "email")
			return
		}

		user, err := s.store.UserByEmail(c.Request.Context(), req.Email)
		if err != nil {
			envelope.Error(c, http.StatusUnauthorized, envelope.KindUnauthorized)
			return
		}

		s.renderJWT(c, user)
	}
}

// handleJWTRefresh はJWTの再発行を処理するハンドラを返す。
// クレームのuser_idからユーザーを再解決し、存在しない場合は401を返す。
func (s *Server) handleJWTRefresh() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := s.store.UserByID(c.Request.Context(), middleware.GetUserID(c))
		if err != nil {
			envelope.Error(c, http.StatusUnauthorized, envelope.KindUnauthorized)
			return
		}

		s.renderJWT(c, user)
	}
}

// handleJWTLogout はJWTによるログアウトを処理するハンドラを返す。
// JWTはステートレスなためサーバー側での失効処理は行わない。
func (s *Server) handleJWTLogout() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := s.store.UserByID(c.Request.Context(), middleware.GetUserID(c)); err != nil {
			envelope.Error(c, http.StatusUnauthorized, envelope.KindUnauthorized)
			return
		}

		envelope.OK(c, messageResponse{Message: "Logged out successfully"})
	}
}

// renderJWT はユーザーに対して新しいJWTを発行し、レスポンスを書き出す。
func (s *Server) renderJWT(c *gin.Context, user *store.User) {
	token, err := middleware.GenerateJWT(s.cfg.JWTSecret, user.ID, user.Email)
	if err != nil {
		log.Printf("JWT生成エラー: %v", err)
		envelope.Error(c, http.StatusInternalServerError, envelope.KindInternalError)
		return
	}

	envelope.OK(c, jwtTokenResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: int64(middleware.JWTTokenTTL.Seconds()),
		User:      newUserResponse(user),
	})
}
