package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// ErrUserNotFound は条件に一致するユーザーが存在しないことを表す。
var ErrUserNotFound = errors.New("ユーザーが見つかりません")

// apiTokenBytes はAPIトークンの乱数長（バイト数）。
const apiTokenBytes = 24

// User は認証対象のユーザーレコード。
type User struct {
	// ID はユーザーの一意識別子。
	ID string
	// Email はユーザーのメールアドレス。一意。
	Email string
	// Name はユーザーの表示名。
	Name string
	// APIToken は現在有効な不透明APIトークン。
	APIToken string
	// CreatedAt はレコード作成日時。
	CreatedAt string
}

// Store はSQLiteに保存されたユーザーを操作する。
type Store struct {
	// db はSQLiteデータベース接続。
	db *sql.DB
}

// Open はSQLiteデータベースに接続し、スキーマを適用したStoreを生成する。
func Open(dsn string) (*Store, *sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("データベース接続に失敗: %w", err)
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("スキーマ初期化に失敗: %w", err)
	}

	return New(db), db, nil
}

// New は既存のデータベース接続からStoreを生成する。
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// CreateUserParams はユーザー登録のパラメータ。
type CreateUserParams struct {
	// ID はユーザーの一意識別子。
	ID string
	// Email はユーザーのメールアドレス。
	Email string
	// Name はユーザーの表示名。
	Name string
}

// CreateUser は新しいユーザーを登録し、初期APIトークンを発行する。
func (s *Store) CreateUser(ctx context.Context, params CreateUserParams) (*User, error) {
	token, err := newAPIToken()
	if err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO users (id, email, name, api_token) VALUES (?, ?, ?, ?)`,
		params.ID, params.Email, params.Name, token,
	)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの登録に失敗: %w", err)
	}

	return s.UserByID(ctx, params.ID)
}

// UserByEmail はメールアドレスでユーザーを検索する。
func (s *Store) UserByEmail(ctx context.Context, email string) (*User, error) {
	return s.queryUser(ctx, `SELECT id, email, name, api_token, created_at FROM users WHERE email = ?`, email)
}

// UserByToken は不透明APIトークンでユーザーを検索する。
func (s *Store) UserByToken(ctx context.Context, token string) (*User, error) {
	return s.queryUser(ctx, `SELECT id, email, name, api_token, created_at FROM users WHERE api_token = ?`, token)
}

// UserByID はIDでユーザーを検索する。
func (s *Store) UserByID(ctx context.Context, id string) (*User, error) {
	return s.queryUser(ctx, `SELECT id, email, name, api_token, created_at FROM users WHERE id = ?`, id)
}

// RegenerateToken はユーザーのAPIトークンを新しい値に置き換える。
// 置き換えは単一のUPDATE文で行われ、古いトークンは即座に無効になる。
func (s *Store) RegenerateToken(ctx context.Context, userID string) (*User, error) {
	token, err := newAPIToken()
	if err != nil {
		return nil, err
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE users SET api_token = ? WHERE id = ?`, token, userID)
	if err != nil {
		return nil, fmt.Errorf("APIトークンの再発行に失敗: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("更新行数の取得に失敗: %w", err)
	}
	if affected == 0 {
		return nil, ErrUserNotFound
	}

	return s.UserByID(ctx, userID)
}

// queryUser は1件のユーザーを検索する共通処理。
func (s *Store) queryUser(ctx context.Context, query string, arg any) (*User, error) {
	var u User
	err := s.db.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Email, &u.Name, &u.APIToken, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ユーザーの検索に失敗: %w", err)
	}
	return &u, nil
}

// newAPIToken は暗号学的乱数からURLセーフなAPIトークンを生成する。
func newAPIToken() (string, error) {
	b := make([]byte, apiTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("トークン用乱数の生成に失敗: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
