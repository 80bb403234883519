// Package config は環境変数からのサービス設定の読み込みを提供する。
//
// 起動時に.envファイルがあれば読み込み、未設定の項目には開発用の
// デフォルト値を適用する。
package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config はpulseサービスの実行時設定。
type Config struct {
	// Port はHTTPサーバーのリッスンポート。
	Port string
	// DatabasePath はSQLiteデータベースのDSN。
	DatabasePath string
	// JWTSecret はJWT署名用のプロセス共通シークレット。
	JWTSecret string
	// BasicAuthUsername はBasic認証のユーザー名。
	BasicAuthUsername string
	// BasicAuthPassword はBasic認証のパスワード。
	BasicAuthPassword string
	// FrontendURL はCORSで許可するフロントエンドのオリジン。
	FrontendURL string
}

// Load は.envファイルと環境変数から設定を読み込む。
// .envファイルが存在しない場合は環境変数のみを使用する。
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:              getEnvOr("PORT", "8080"),
		DatabasePath:      getEnvOr("DATABASE_PATH", "/data/pulse.db?_journal_mode=WAL&_busy_timeout=5000"),
		JWTSecret:         getEnvOr("JWT_SECRET", "dev-secret-key"),
		BasicAuthUsername: getEnvOr("BASIC_AUTH_USERNAME", "admin"),
		BasicAuthPassword: getEnvOr("BASIC_AUTH_PASSWORD", "password"),
		FrontendURL:       getEnvOr("FRONTEND_URL", "http://localhost:3000"),
	}
}

// getEnvOr は環境変数を取得し、設定されていない場合はデフォルト値を返す。
func getEnvOr(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
