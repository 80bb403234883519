package api

import (
	"net/http"
	"strings"
	"testing"
)

// TestHealthAuthentication はhealthリソースのBasic認証境界を検証する。
func TestHealthAuthentication(t *testing.T) {
	t.Parallel()

	t.Run("認証なしでは全メソッドで401が返ること", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t)

		for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete} {
			w := doRequest(t, s, method, "/api/v1/health", "", nil)
			if w.Code != http.StatusUnauthorized {
				t.Errorf("%s のステータスコード = %d, want %d", method, w.Code, http.StatusUnauthorized)
			}
			if got := w.Header().Get("WWW-Authenticate"); !strings.HasPrefix(got, "Basic ") {
				t.Errorf("%s のWWW-Authenticate = %q, want Basicチャレンジ", method, got)
			}
		}
	})

	t.Run("誤った認証情報で401が返ること", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t)

		w := doRequest(t, s, http.MethodGet, "/api/v1/health?message=Hello", "", basicAuthHeaders("wrong", "credentials"))

		if w.Code != http.StatusUnauthorized {
			t.Errorf("ステータスコード = %d, want %d", w.Code, http.StatusUnauthorized)
		}
		if resp := decodeEnvelope(t, w); resp.Error.Code != "UNAUTHORIZED" {
			t.Errorf("エラーコード = %q, want %q", resp.Error.Code, "UNAUTHORIZED")
		}
	})
}

// TestHealthShow はGET /api/v1/healthを検証する。
func TestHealthShow(t *testing.T) {
	t.Parallel()

	t.Run("messageパラメータがエコーされること", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t)

		w := doRequest(t, s, http.MethodGet, "/api/v1/health?message=Hello", "", basicAuthHeaders("admin", "password"))

		if w.Code != http.StatusOK {
			t.Fatalf("ステータスコード = %d, want %d", w.Code, http.StatusOK)
		}

		resp := decodeEnvelope(t, w)
		if !resp.Success {
			t.Error("success = false, want true")
		}
		if resp.Data["status"] != "ok" {
			t.Errorf("data.status = %v, want %q", resp.Data["status"], "ok")
		}
		if resp.Data["message"] != "Hello" {
			t.Errorf("data.message = %v, want %q", resp.Data["message"], "Hello")
		}
	})

	t.Run("messageパラメータなしで400が返ること", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t)

		w := doRequest(t, s, http.MethodGet, "/api/v1/health", "", basicAuthHeaders("admin", "password"))

		if w.Code != http.StatusBadRequest {
			t.Fatalf("ステータスコード = %d, want %d", w.Code, http.StatusBadRequest)
		}

		resp := decodeEnvelope(t, w)
		if resp.Error.Code != "MISSING_PARAMETER" {
			t.Errorf("エラーコード = %q, want %q", resp.Error.Code, "MISSING_PARAMETER")
		}
		if resp.Error.Message != "message parameter is required" {
			t.Errorf("エラーメッセージ = %q, want %q", resp.Error.Message, "message parameter is required")
		}
		if resp.Error.Details != "Please provide a message parameter in your request" {
			t.Errorf("エラー詳細 = %q", resp.Error.Details)
		}
	})

	t.Run("空のmessageパラメータで400が返ること", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t)

		w := doRequest(t, s, http.MethodGet, "/api/v1/health?message=", "", basicAuthHeaders("admin", "password"))

		if w.Code != http.StatusBadRequest {
			t.Errorf("ステータスコード = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})
}

// TestHealthCreate はPOST /api/v1/healthを検証する。
func TestHealthCreate(t *testing.T) {
	t.Parallel()

	t.Run("ボディなしで400が返ること", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t)

		w := doRequest(t, s, http.MethodPost, "/api/v1/health", "", basicAuthHeaders("admin", "password"))

		if w.Code != http.StatusBadRequest {
			t.Fatalf("ステータスコード = %d, want %d", w.Code, http.StatusBadRequest)
		}

		resp := decodeEnvelope(t, w)
		if resp.Error.Code != "MISSING_PARAMETER" {
			t.Errorf("エラーコード = %q, want %q", resp.Error.Code, "MISSING_PARAMETER")
		}
		if resp.Error.Message != "Required parameters missing" {
			t.Errorf("エラーメッセージ = %q, want %q", resp.Error.Message, "Required parameters missing")
		}
	})

	t.Run("不正なJSONで400が返ること", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t)

		w := doRequest(t, s, http.MethodPost, "/api/v1/health", `{ invalid json }`, basicAuthHeaders("admin", "password"))

		if w.Code != http.StatusBadRequest {
			t.Fatalf("ステータスコード = %d, want %d", w.Code, http.StatusBadRequest)
		}

		resp := decodeEnvelope(t, w)
		if resp.Error.Code != "INVALID_JSON" {
			t.Errorf("エラーコード = %q, want %q", resp.Error.Code, "INVALID_JSON")
		}
		if resp.Error.Message != "Invalid JSON format in request body" {
			t.Errorf("エラーメッセージ = %q", resp.Error.Message)
		}
	})

	t.Run("healthキーなしで400が返ること", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t)

		w := doRequest(t, s, http.MethodPost, "/api/v1/health", `{}`, basicAuthHeaders("admin", "password"))

		if w.Code != http.StatusBadRequest {
			t.Fatalf("ステータスコード = %d, want %d", w.Code, http.StatusBadRequest)
		}

		resp := decodeEnvelope(t, w)
		if resp.Error.Code != "MISSING_PARAMETER" {
			t.Errorf("エラーコード = %q, want %q", resp.Error.Code, "MISSING_PARAMETER")
		}
		if resp.Error.Message != "Required parameter missing: health" {
			t.Errorf("エラーメッセージ = %q, want %q", resp.Error.Message, "Required parameter missing: health")
		}
	})

	t.Run("正しいJSONボディで200が返ること", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t)

		w := doRequest(t, s, http.MethodPost, "/api/v1/health", `{"health": {"data": "test data"}}`, basicAuthHeaders("admin", "password"))

		if w.Code != http.StatusOK {
			t.Fatalf("ステータスコード = %d, want %d (body=%s)", w.Code, http.StatusOK, w.Body.String())
		}

		resp := decodeEnvelope(t, w)
		if resp.Data["status"] != "created" {
			t.Errorf("data.status = %v, want %q", resp.Data["status"], "created")
		}
		if resp.Data["data"] != "test data" {
			t.Errorf("data.data = %v, want %q", resp.Data["data"], "test data")
		}
	})

	t.Run("存在したフィールドのみがエコーされること", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t)

		body := `{
			"health": {
				"data": "complex data",
				"settings": {"enabled": true, "timeout": 30, "retry_count": 3},
				"metadata": {"version": "1.0.0", "created_at": "2024-01-01T00:00:00Z", "tags": ["api", "test"]},
				"tags": ["important", "urgent"],
				"nested_data": [
					{"name": "item1", "value": 100, "sub_items": [{"id": 1, "label": "sub1"}, {"id": 2, "label": "sub2"}]}
				]
			}
		}`
		w := doRequest(t, s, http.MethodPost, "/api/v1/health", body, basicAuthHeaders("admin", "password"))

		if w.Code != http.StatusOK {
			t.Fatalf("ステータスコード = %d, want %d (body=%s)", w.Code, http.StatusOK, w.Body.String())
		}

		resp := decodeEnvelope(t, w)
		if resp.Data["status"] != "created" {
			t.Errorf("data.status = %v, want %q", resp.Data["status"], "created")
		}
		if resp.Data["data"] != "complex data" {
			t.Errorf("data.data = %v, want %q", resp.Data["data"], "complex data")
		}

		settings, ok := resp.Data["settings"].(map[string]any)
		if !ok {
			t.Fatalf("data.settingsがオブジェクトでない: %v", resp.Data["settings"])
		}
		if settings["enabled"] != true {
			t.Errorf("settings.enabled = %v, want true", settings["enabled"])
		}
		if timeout, _ := settings["timeout"].(float64); timeout != 30 {
			t.Errorf("settings.timeout = %v, want 30", settings["timeout"])
		}

		metadata, ok := resp.Data["metadata"].(map[string]any)
		if !ok {
			t.Fatalf("data.metadataがオブジェクトでない: %v", resp.Data["metadata"])
		}
		if metadata["version"] != "1.0.0" {
			t.Errorf("metadata.version = %v, want %q", metadata["version"], "1.0.0")
		}

		tags, ok := resp.Data["tags"].([]any)
		if !ok || len(tags) != 2 || tags[0] != "important" {
			t.Errorf("data.tags = %v, want [important urgent]", resp.Data["tags"])
		}

		nested, ok := resp.Data["nested_data"].([]any)
		if !ok || len(nested) != 1 {
			t.Fatalf("data.nested_data = %v", resp.Data["nested_data"])
		}
		item, _ := nested[0].(map[string]any)
		if item["name"] != "item1" {
			t.Errorf("nested_data[0].name = %v, want %q", item["name"], "item1")
		}
		subItems, _ := item["sub_items"].([]any)
		if len(subItems) != 2 {
			t.Fatalf("sub_items = %v", item["sub_items"])
		}
		if sub, _ := subItems[0].(map[string]any); sub["label"] != "sub1" {
			t.Errorf("sub_items[0].label = %v, want %q", sub["label"], "sub1")
		}

		// リクエストに存在しなかったフィールドはエコーされない
		for _, absent := range []string{"id", "message"} {
			if _, ok := resp.Data[absent]; ok {
				t.Errorf("存在しなかったフィールド %q がエコーされている", absent)
			}
		}
	})

	t.Run("timeoutが範囲外の場合に400が返ること", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t)

		body := `{"health": {"data": "test data", "settings": {"enabled": true, "timeout": 150, "retry_count": 3}}}`
		w := doRequest(t, s, http.MethodPost, "/api/v1/health", body, basicAuthHeaders("admin", "password"))

		if w.Code != http.StatusBadRequest {
			t.Fatalf("ステータスコード = %d, want %d", w.Code, http.StatusBadRequest)
		}

		resp := decodeEnvelope(t, w)
		if resp.Error.Code != "SCHEMA_VALIDATION_ERROR" {
			t.Errorf("エラーコード = %q, want %q", resp.Error.Code, "SCHEMA_VALIDATION_ERROR")
		}
		if resp.Error.Message != "JSON Schema validation failed" {
			t.Errorf("エラーメッセージ = %q", resp.Error.Message)
		}
		if !strings.Contains(resp.Error.Details, "timeout") {
			t.Errorf("エラー詳細にtimeoutが含まれない: %q", resp.Error.Details)
		}
	})

	t.Run("version形式が不正な場合に400が返ること", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t)

		body := `{"health": {"data": "test data", "metadata": {"version": "invalid-version", "created_at": "2024-01-01T00:00:00Z"}}}`
		w := doRequest(t, s, http.MethodPost, "/api/v1/health", body, basicAuthHeaders("admin", "password"))

		if w.Code != http.StatusBadRequest {
			t.Fatalf("ステータスコード = %d, want %d", w.Code, http.StatusBadRequest)
		}

		resp := decodeEnvelope(t, w)
		if resp.Error.Code != "SCHEMA_VALIDATION_ERROR" {
			t.Errorf("エラーコード = %q, want %q", resp.Error.Code, "SCHEMA_VALIDATION_ERROR")
		}
		if !strings.Contains(resp.Error.Details, "version") {
			t.Errorf("エラー詳細にversionが含まれない: %q", resp.Error.Details)
		}
	})

	t.Run("未宣言のプロパティで400が返ること", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t)

		body := `{"health": {"data": "test data", "settings": {"enabled": true, "timeout": 30, "invalid_property": "should not be allowed"}}}`
		w := doRequest(t, s, http.MethodPost, "/api/v1/health", body, basicAuthHeaders("admin", "password"))

		if w.Code != http.StatusBadRequest {
			t.Fatalf("ステータスコード = %d, want %d", w.Code, http.StatusBadRequest)
		}
		if resp := decodeEnvelope(t, w); resp.Error.Code != "SCHEMA_VALIDATION_ERROR" {
			t.Errorf("エラーコード = %q, want %q", resp.Error.Code, "SCHEMA_VALIDATION_ERROR")
		}
	})
}

// TestHealthUpdate はPUT /api/v1/healthを検証する。
func TestHealthUpdate(t *testing.T) {
	t.Parallel()

	t.Run("正しいJSONボディでstatusがupdatedになること", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t)

		w := doRequest(t, s, http.MethodPut, "/api/v1/health", `{"health": {"id": "123", "data": "updated data"}}`, basicAuthHeaders("admin", "password"))

		if w.Code != http.StatusOK {
			t.Fatalf("ステータスコード = %d, want %d (body=%s)", w.Code, http.StatusOK, w.Body.String())
		}

		resp := decodeEnvelope(t, w)
		if resp.Data["status"] != "updated" {
			t.Errorf("data.status = %v, want %q", resp.Data["status"], "updated")
		}
		if resp.Data["id"] != "123" {
			t.Errorf("data.id = %v, want %q", resp.Data["id"], "123")
		}
		if resp.Data["data"] != "updated data" {
			t.Errorf("data.data = %v, want %q", resp.Data["data"], "updated data")
		}
	})

	t.Run("nested_dataの値が負の場合に400が返ること", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t)

		body := `{"health": {"id": "123", "data": "test data", "nested_data": [{"name": "item1", "value": -10, "sub_items": [{"id": 1, "label": "sub1"}]}]}}`
		w := doRequest(t, s, http.MethodPut, "/api/v1/health", body, basicAuthHeaders("admin", "password"))

		if w.Code != http.StatusBadRequest {
			t.Fatalf("ステータスコード = %d, want %d", w.Code, http.StatusBadRequest)
		}

		resp := decodeEnvelope(t, w)
		if resp.Error.Code != "SCHEMA_VALIDATION_ERROR" {
			t.Errorf("エラーコード = %q, want %q", resp.Error.Code, "SCHEMA_VALIDATION_ERROR")
		}
		if !strings.Contains(resp.Error.Details, "value") {
			t.Errorf("エラー詳細にvalueが含まれない: %q", resp.Error.Details)
		}
	})

	t.Run("ボディなしで400が返ること", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t)

		w := doRequest(t, s, http.MethodPut, "/api/v1/health", "", basicAuthHeaders("admin", "password"))

		if w.Code != http.StatusBadRequest {
			t.Errorf("ステータスコード = %d, want %d", w.Code, http.StatusBadRequest)
		}
		if resp := decodeEnvelope(t, w); resp.Error.Code != "MISSING_PARAMETER" {
			t.Errorf("エラーコード = %q, want %q", resp.Error.Code, "MISSING_PARAMETER")
		}
	})
}

// TestHealthDelete はDELETE /api/v1/healthを検証する。
func TestHealthDelete(t *testing.T) {
	t.Parallel()

	t.Run("idパラメータなしで400が返ること", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t)

		w := doRequest(t, s, http.MethodDelete, "/api/v1/health", "", basicAuthHeaders("admin", "password"))

		if w.Code != http.StatusBadRequest {
			t.Fatalf("ステータスコード = %d, want %d", w.Code, http.StatusBadRequest)
		}

		resp := decodeEnvelope(t, w)
		if resp.Error.Code != "MISSING_PARAMETER" {
			t.Errorf("エラーコード = %q, want %q", resp.Error.Code, "MISSING_PARAMETER")
		}
		if resp.Error.Message != "id parameter is required" {
			t.Errorf("エラーメッセージ = %q, want %q", resp.Error.Message, "id parameter is required")
		}
	})

	t.Run("idパラメータありで削除結果がエコーされること", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t)

		w := doRequest(t, s, http.MethodDelete, "/api/v1/health?id=123", "", basicAuthHeaders("admin", "password"))

		if w.Code != http.StatusOK {
			t.Fatalf("ステータスコード = %d, want %d", w.Code, http.StatusOK)
		}

		resp := decodeEnvelope(t, w)
		if resp.Data["status"] != "deleted" {
			t.Errorf("data.status = %v, want %q", resp.Data["status"], "deleted")
		}
		if resp.Data["id"] != "123" {
			t.Errorf("data.id = %v, want %q", resp.Data["id"], "123")
		}
	})
}
