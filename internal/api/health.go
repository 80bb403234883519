package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nao1215/pulse/internal/schema"
	"github.com/nao1215/pulse/pkg/envelope"
)

// healthShowResponse はGET /healthのレスポンス。
type healthShowResponse struct {
	// Status は処理結果のステータス。常に "ok"。
	Status string `json:"status"`
	// Message はクエリパラメータでエコーされたメッセージ。
	Message string `json:"message"`
}

// healthMutationResponse はPOST/PUT /healthのレスポンス。
// リクエストに存在したフィールドのみをエコーし、存在しなかったものは省略する。
type healthMutationResponse struct {
	// Status は処理結果のステータス。"created" または "updated"。
	Status string `json:"status"`
	// ID はエコーされたリソース識別子。
	ID *string `json:"id,omitempty"`
	// Data はエコーされたデータ文字列。
	Data *string `json:"data,omitempty"`
	// Settings はエコーされた動作設定。
	Settings *schema.Settings `json:"settings,omitempty"`
	// Metadata はエコーされた付随情報。
	Metadata *schema.Metadata `json:"metadata,omitempty"`
	// Tags はエコーされたタグの一覧。
	Tags []string `json:"tags,omitempty"`
	// NestedData はエコーされたネスト項目の一覧。
	NestedData []schema.NestedItem `json:"nested_data,omitempty"`
}

// healthDeleteResponse はDELETE /healthのレスポンス。
type healthDeleteResponse struct {
	// Status は処理結果のステータス。常に "deleted"。
	Status string `json:"status"`
	// ID は削除対象として指定された識別子。
	ID string `json:"id"`
}

// handleHealthShow はメッセージをエコーするハンドラを返す。
func (s *Server) handleHealthShow() gin.HandlerFunc {
	return func(c *gin.Context) {
		message := c.Query("message")
		if message == "" {
			envelope.Error(c, http.StatusBadRequest, envelope.KindMissingParameter, "message")
			return
		}

		envelope.OK(c, healthShowResponse{Status: "ok", Message: message})
	}
}

// handleHealthCreate はhealthリソースの作成を処理するハンドラを返す。
func (s *Server) handleHealthCreate() gin.HandlerFunc {
	return s.handleHealthMutation("created")
}

// handleHealthUpdate はhealthリソースの更新を処理するハンドラを返す。
func (s *Server) handleHealthUpdate() gin.HandlerFunc {
	return s.handleHealthMutation("updated")
}

// handleHealthMutation は作成/更新に共通するボディ検証とエコー処理を行う。
func (s *Server) handleHealthMutation(status string) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			envelope.Error(c, http.StatusBadRequest, envelope.KindInvalidJSON)
			return
		}

		payload, err := schema.ParsePayload(body)
		if err != nil {
			renderPayloadError(c, err)
			return
		}

		envelope.OK(c, healthMutationResponse{
			Status:     status,
			ID:         payload.ID,
			Data:       payload.Data,
			Settings:   payload.Settings,
			Metadata:   payload.Metadata,
			Tags:       payload.Tags,
			NestedData: payload.NestedData,
		})
	}
}

// handleHealthDelete はhealthリソースの削除を処理するハンドラを返す。
func (s *Server) handleHealthDelete() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Query("id")
		if id == "" {
			envelope.Error(c, http.StatusBadRequest, envelope.KindMissingParameter, "id")
			return
		}

		envelope.OK(c, healthDeleteResponse{Status: "deleted", ID: id})
	}
}

// renderPayloadError はペイロード解析エラーをエラーレスポンスに変換する。
func renderPayloadError(c *gin.Context, err error) {
	var vErr *schema.ValidationError

	switch {
	case errors.Is(err, schema.ErrEmptyBody):
		envelope.Error(c, http.StatusBadRequest, envelope.KindMissingParametersBody)
	case errors.Is(err, schema.ErrMissingRoot):
		envelope.Error(c, http.StatusBadRequest, envelope.KindParameterMissing, "health")
	case errors.Is(err, schema.ErrMalformedJSON):
		envelope.Error(c, http.StatusBadRequest, envelope.KindInvalidJSON)
	case errors.As(err, &vErr):
		envelope.ErrorDetails(c, http.StatusBadRequest, envelope.KindSchemaValidation, vErr.Error())
	default:
		envelope.Error(c, http.StatusBadRequest, envelope.KindInvalidJSON)
	}
}
