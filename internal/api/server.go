package api

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nao1215/pulse/internal/config"
	"github.com/nao1215/pulse/internal/store"
	"github.com/nao1215/pulse/pkg/middleware"
)

// Server はpulseサービスのHTTPサーバー。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// cfg はサービスの実行時設定。
	cfg config.Config
	// store はユーザーと認証トークンのストア。
	store *store.Store
	// db はSQLiteデータベース接続。
	db *sql.DB
}

// NewServer は新しいAPIサーバーを生成する。
// SQLiteデータベースの初期化とスキーマ適用を行う。
func NewServer(cfg config.Config) (*Server, error) {
	userStore, db, err := store.Open(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS([]string{cfg.FrontendURL}))

	s := &Server{
		router: router,
		cfg:    cfg,
		store:  userStore,
		db:     db,
	}
	s.setupRoutes()

	return s, nil
}

// Run はHTTPサーバーを起動する。
func (s *Server) Run() error {
	return s.router.Run(fmt.Sprintf(":%s", s.cfg.Port))
}

// setupRoutes はAPIルーティングを設定する。
// 各ルートにはちょうど1つの認証戦略を割り当てる。
func (s *Server) setupRoutes() {
	api := s.router.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			// ログインは認証不要（メールアドレスのみで識別する）
			auth.POST("/login", s.handleLogin())
			auth.POST("/jwt_login", s.handleJWTLogin())

			// 不透明トークン認証のルート
			token := auth.Group("", middleware.TokenAuth(s.lookupToken))
			{
				token.POST("/refresh", s.handleRefresh())
				token.POST("/logout", s.handleLogout())
			}

			// JWT認証のルート
			jwtAuth := auth.Group("", middleware.JWTAuth(s.cfg.JWTSecret))
			{
				jwtAuth.POST("/jwt_refresh", s.handleJWTRefresh())
				jwtAuth.POST("/jwt_logout", s.handleJWTLogout())
			}
		}

		// Basic認証で保護されたヘルスチェック/エコーリソース
		health := api.Group("/health", middleware.BasicAuth(s.cfg.BasicAuthUsername, s.cfg.BasicAuthPassword))
		{
			health.GET("", s.handleHealthShow())
			health.POST("", s.handleHealthCreate())
			health.PUT("", s.handleHealthUpdate())
			health.DELETE("", s.handleHealthDelete())
		}
	}

	// 死活監視用（認証不要）
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "pulse"})
	})
}

// lookupToken は不透明APIトークンをユーザーIDに解決する。
// TokenAuthミドルウェアから使用される。
func (s *Server) lookupToken(ctx context.Context, token string) (string, bool) {
	user, err := s.store.UserByToken(ctx, token)
	if err != nil {
		return "", false
	}
	return user.ID, true
}
