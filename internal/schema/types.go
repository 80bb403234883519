package schema

// Payload はhealthリソースの入力ペイロード。
// 全フィールドが省略可能で、存在するフィールドのみが検証・エコーの対象になる。
// ポインタ型にすることで「キーが存在しない」ことと「ゼロ値」を区別する。
type Payload struct {
	// ID はリソースの識別子。
	ID *string `json:"id,omitempty"`
	// Data は任意の文字列データ。
	Data *string `json:"data,omitempty"`
	// Message は任意のメッセージ文字列。
	Message *string `json:"message,omitempty"`
	// Settings は動作設定。
	Settings *Settings `json:"settings,omitempty"`
	// Metadata は付随情報。
	Metadata *Metadata `json:"metadata,omitempty"`
	// Tags はタグの一覧。
	Tags []string `json:"tags,omitempty"`
	// NestedData はネストした項目の一覧。
	NestedData []NestedItem `json:"nested_data,omitempty" validate:"omitempty,dive"`
}

// Settings はhealthペイロードの動作設定。
type Settings struct {
	// Enabled は有効フラグ。
	Enabled *bool `json:"enabled,omitempty"`
	// Timeout はタイムアウト秒数。1以上100以下。
	Timeout *int `json:"timeout,omitempty" validate:"omitempty,min=1,max=100"`
	// RetryCount はリトライ回数。0以上10以下。
	RetryCount *int `json:"retry_count,omitempty" validate:"omitempty,min=0,max=10"`
}

// Metadata はhealthペイロードの付随情報。
type Metadata struct {
	// Version はX.Y.Z形式のバージョン文字列。
	Version *string `json:"version,omitempty" validate:"omitempty,version"`
	// CreatedAt はISO-8601形式の日時文字列。形式のみを検証する。
	CreatedAt *string `json:"created_at,omitempty" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	// Tags はタグの一覧。
	Tags []string `json:"tags,omitempty"`
}

// NestedItem はnested_data配列の要素。nameとvalueが必須。
type NestedItem struct {
	// Name は項目名。必須。
	Name *string `json:"name" validate:"required"`
	// Value は項目の値。必須、0以上。
	Value *int `json:"value" validate:"required,min=0"`
	// SubItems はサブ項目の一覧。
	SubItems []SubItem `json:"sub_items,omitempty" validate:"omitempty,dive"`
}

// SubItem はsub_items配列の要素。idとlabelが必須。
type SubItem struct {
	// ID はサブ項目の識別子。必須。
	ID *int `json:"id" validate:"required"`
	// Label はサブ項目の表示名。必須。
	Label *string `json:"label" validate:"required"`
}
