package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrEmptyBody はリクエストボディが空であることを表す。
	ErrEmptyBody = errors.New("リクエストボディが空です")
	// ErrMalformedJSON はリクエストボディがJSONとして解析できないことを表す。
	ErrMalformedJSON = errors.New("リクエストボディのJSONが不正です")
	// ErrMissingRoot はトップレベルのhealthキーが存在しないことを表す。
	ErrMissingRoot = errors.New("healthキーがありません")
)

// Violation は1件のバリデーション違反。
type Violation struct {
	// Path は違反したフィールドのパス（例: health.settings.timeout）。
	Path string
	// Message は違反内容の説明。
	Message string
}

// ValidationError はペイロードのバリデーション違反の集合。
type ValidationError struct {
	// Violations は検出された違反の一覧。
	Violations []Violation
}

// Error は全違反をパス付きで連結した説明を返す。
func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		msgs = append(msgs, fmt.Sprintf("%s %s", v.Path, v.Message))
	}
	return strings.Join(msgs, "; ")
}

// requestBody はhealthペイロードのラッパー。トップレベルのhealthキーが必須。
type requestBody struct {
	Health *Payload `json:"health"`
}

// versionPattern はX.Y.Z形式のバージョン文字列のパターン。
var versionPattern = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

// validate はペイロード検証用の共有インスタンス。初期化後は読み取り専用。
var validate = newValidator()

// newValidator はカスタムタグを登録したバリデータを生成する。
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// エラーメッセージでGoのフィールド名ではなくJSONキー名を使う
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("version", func(fl validator.FieldLevel) bool {
		return versionPattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(fmt.Sprintf("versionバリデーションの登録に失敗: %v", err))
	}

	return v
}

// ParsePayload はJSONボディを解析し、検証済みのhealthペイロードを返す。
// 失敗時はErrEmptyBody・ErrMissingRoot・ErrMalformedJSON・*ValidationErrorの
// いずれかを返し、ペイロードを部分的に適用することはない。
func ParsePayload(body []byte) (*Payload, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, ErrEmptyBody
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()

	var req requestBody
	if err := dec.Decode(&req); err != nil {
		return nil, mapDecodeError(err)
	}
	if req.Health == nil {
		return nil, ErrMissingRoot
	}

	if err := validate.Struct(req.Health); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			return nil, newValidationError(fieldErrs)
		}
		return nil, fmt.Errorf("ペイロードの検証に失敗: %w", err)
	}

	return req.Health, nil
}

// mapDecodeError はJSONデコードエラーを公開エラー型に変換する。
// 構文エラーはErrMalformedJSON、型不一致と未宣言キーはスキーマ違反として扱う。
func mapDecodeError(err error) error {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) || errors.Is(err, io.ErrUnexpectedEOF) {
		return ErrMalformedJSON
	}
	if errors.Is(err, io.EOF) {
		return ErrEmptyBody
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		path := typeErr.Field
		if path == "" {
			path = "health"
		}
		return &ValidationError{Violations: []Violation{
			{Path: path, Message: fmt.Sprintf("must be of type %s", jsonTypeName(typeErr.Type))},
		}}
	}

	// encoding/jsonの未宣言キーエラーは専用の型を持たないため文字列で判定する
	if name, found := strings.CutPrefix(err.Error(), `json: unknown field `); found {
		return &ValidationError{Violations: []Violation{
			{Path: strings.Trim(name, `"`), Message: "is not an allowed property"},
		}}
	}

	return ErrMalformedJSON
}

// newValidationError はvalidatorのエラーをパス付き違反リストに変換する。
func newValidationError(fieldErrs validator.ValidationErrors) *ValidationError {
	violations := make([]Violation, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		violations = append(violations, Violation{
			Path:    violationPath(fe),
			Message: violationMessage(fe),
		})
	}
	return &ValidationError{Violations: violations}
}

// violationPath はフィールドエラーからhealthを起点とするパスを組み立てる。
func violationPath(fe validator.FieldError) string {
	// Namespaceは構造体型名から始まる（例: Payload.settings.timeout）ため
	// 先頭をJSON上のルートキーhealthに置き換える
	if _, rest, found := strings.Cut(fe.Namespace(), "."); found {
		return "health." + rest
	}
	return "health"
}

// violationMessage はバリデーションタグごとの違反メッセージを返す。
func violationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case "version":
		return "must be a version string in X.Y.Z format"
	case "datetime":
		return "must be a date-time string in ISO-8601 format"
	default:
		return "is invalid"
	}
}

// jsonTypeName はGoの型をJSONの型名に変換する。
func jsonTypeName(t reflect.Type) string {
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Slice, reflect.Array:
		return "array"
	default:
		return "object"
	}
}
