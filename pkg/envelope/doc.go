// Package envelope は全エンドポイント共通のJSONレスポンス形式を提供する。
//
// 成功レスポンスは {success, data, timestamp, request_id}、エラーレスポンスは
// {success, error: {code, message, details?, timestamp, request_id}} の形式で
// 統一される。エラーコードとメッセージはエラー種別ごとの静的な対応表で管理し、
// プレースホルダは生成時に明示的に埋め込む。
package envelope
