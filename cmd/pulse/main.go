// pulseサービスのエントリポイント。
// 不透明トークン/JWTの認証エンドポイントと、Basic認証で保護された
// ヘルスチェック/エコーリソースを提供するHTTPサーバーを起動する。
package main

import (
	"log"

	"github.com/nao1215/pulse/internal/api"
	"github.com/nao1215/pulse/internal/config"
)

func main() {
	cfg := config.Load()

	server, err := api.NewServer(cfg)
	if err != nil {
		log.Fatalf("pulseサーバーの初期化に失敗: %v", err)
	}

	log.Printf("pulseサービスを起動します: :%s", cfg.Port)
	if err := server.Run(); err != nil {
		log.Fatalf("pulseサービスの起動に失敗: %v", err)
	}
}
