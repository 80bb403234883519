// Package api はpulseサービスのHTTP APIを提供する。
//
// 不透明トークンとJWTの2系統の認証エンドポイント、およびBasic認証で
// 保護されたヘルスチェック/エコーリソースを公開する。全レスポンスは
// envelopeパッケージの統一フォーマットで返される。
package api
