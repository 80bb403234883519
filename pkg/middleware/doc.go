// Package middleware はGinベースのHTTP APIで使用する共通ミドルウェアを提供する。
//
// ルート単位で選択する3種類の認証戦略（Basic認証・不透明APIトークン・JWT）と、
// リクエストID付与、パニックリカバリ、CORS設定を含む。各ルートには
// ちょうど1つの認証戦略を割り当てる。
package middleware
