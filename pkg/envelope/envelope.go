package envelope

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// ContextKeyRequestID はGinコンテキストに格納するリクエストIDのキー。
// middleware.RequestID が設定し、レスポンス生成時に参照する。
const ContextKeyRequestID = "request_id"

// Kind はエラーレスポンスの種別を表す。
type Kind string

const (
	// KindMissingParameter は必須クエリパラメータの欠落。引数: パラメータ名。
	KindMissingParameter Kind = "missing_parameter"
	// KindMissingParametersBody はリクエストボディの欠落。
	KindMissingParametersBody Kind = "missing_parameters_body"
	// KindParameterMissing はボディ内の必須キーの欠落。引数: キー名。
	KindParameterMissing Kind = "parameter_missing"
	// KindInvalidJSON は不正なJSON形式のリクエストボディ。
	KindInvalidJSON Kind = "invalid_json"
	// KindSchemaValidation はJSONスキーマ違反。詳細は ErrorDetails で渡す。
	KindSchemaValidation Kind = "schema_validation"
	// KindUnauthorized は認証失敗全般。
	KindUnauthorized Kind = "unauthorized"
	// KindTokenExpired はJWTの有効期限切れ。認証失敗とは区別する。
	KindTokenExpired Kind = "token_expired"
	// KindInternalError は予期しないサーバー内部エラー。
	KindInternalError Kind = "internal_error"
)

// errorTemplate はエラー種別ごとのコードとメッセージテンプレート。
type errorTemplate struct {
	code    string
	message string
	details string
}

// errorCatalog はエラー種別からコード・メッセージへの静的な対応表。
// %s はErrorの可変長引数で埋める。
var errorCatalog = map[Kind]errorTemplate{
	KindMissingParameter: {
		code:    "MISSING_PARAMETER",
		message: "%s parameter is required",
		details: "Please provide a %s parameter in your request",
	},
	KindMissingParametersBody: {
		code:    "MISSING_PARAMETER",
		message: "Required parameters missing",
		details: "Please provide the required parameters in the request body",
	},
	KindParameterMissing: {
		code:    "MISSING_PARAMETER",
		message: "Required parameter missing: %s",
		details: "The '%s' parameter is required but was not provided.",
	},
	KindInvalidJSON: {
		code:    "INVALID_JSON",
		message: "Invalid JSON format in request body",
		details: "The request body contains malformed JSON. Please check your JSON syntax.",
	},
	KindSchemaValidation: {
		code:    "SCHEMA_VALIDATION_ERROR",
		message: "JSON Schema validation failed",
	},
	KindUnauthorized: {
		code:    "UNAUTHORIZED",
		message: "Invalid or missing authentication credentials",
	},
	KindTokenExpired: {
		code:    "TOKEN_EXPIRED",
		message: "Token has expired",
		details: "Please obtain a new token and retry the request",
	},
	KindInternalError: {
		code:    "INTERNAL_ERROR",
		message: "An unexpected error occurred",
	},
}

// SuccessBody は成功レスポンスのエンベロープ。
type SuccessBody struct {
	// Success は成功レスポンスでは常にtrue。
	Success bool `json:"success"`
	// Data はエンドポイント固有のレスポンスデータ。
	Data any `json:"data"`
	// Timestamp はレスポンス生成時刻（ISO-8601形式）。
	Timestamp string `json:"timestamp"`
	// RequestID はリクエスト単位の相関ID。
	RequestID string `json:"request_id"`
}

// ErrorBody はエラーレスポンスのエンベロープ。
type ErrorBody struct {
	// Success はエラーレスポンスでは常にfalse。
	Success bool `json:"success"`
	// Error はエラーの詳細情報。
	Error ErrorDetail `json:"error"`
}

// ErrorDetail はエラーレスポンス内のエラー情報。
type ErrorDetail struct {
	// Code は機械可読なエラーコード。
	Code string `json:"code"`
	// Message は人間可読なエラーメッセージ。
	Message string `json:"message"`
	// Details はエラーの補足説明。省略可能。
	Details string `json:"details,omitempty"`
	// Timestamp はレスポンス生成時刻（ISO-8601形式）。
	Timestamp string `json:"timestamp"`
	// RequestID はリクエスト単位の相関ID。
	RequestID string `json:"request_id"`
}

// OK は200 OKの成功エンベロープを書き出す。
func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, SuccessBody{
		Success:   true,
		Data:      data,
		Timestamp: timestamp(),
		RequestID: c.GetString(ContextKeyRequestID),
	})
}

// Error はカタログのテンプレートからエラーエンベロープを書き出す。
// argsはメッセージと詳細のプレースホルダに順に埋め込まれる。
func Error(c *gin.Context, status int, kind Kind, args ...any) {
	c.JSON(status, errorBody(c, kind, args...))
}

// ErrorDetails はテンプレートの詳細を上書きしてエラーエンベロープを書き出す。
// スキーマ違反のように詳細が動的に決まる場合に使用する。
func ErrorDetails(c *gin.Context, status int, kind Kind, details string) {
	body := errorBody(c, kind)
	body.Error.Details = details
	c.JSON(status, body)
}

// AbortError はエラーエンベロープを書き出し、後続のハンドラを中断する。
// ミドルウェアからの認証エラー応答に使用する。
func AbortError(c *gin.Context, status int, kind Kind, args ...any) {
	c.AbortWithStatusJSON(status, errorBody(c, kind, args...))
}

// errorBody はエラーエンベロープを組み立てる。
func errorBody(c *gin.Context, kind Kind, args ...any) ErrorBody {
	tmpl, ok := errorCatalog[kind]
	if !ok {
		tmpl = errorCatalog[KindInternalError]
	}

	detail := ErrorDetail{
		Code:      tmpl.code,
		Message:   fmt.Sprintf(tmpl.message, args...),
		Timestamp: timestamp(),
		RequestID: c.GetString(ContextKeyRequestID),
	}
	if tmpl.details != "" {
		detail.Details = fmt.Sprintf(tmpl.details, args...)
	}

	return ErrorBody{Success: false, Error: detail}
}

// timestamp は現在時刻をISO-8601形式（UTC）で返す。
func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
