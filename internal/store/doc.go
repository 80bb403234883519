// Package store はSQLiteに保存されたユーザーと認証トークンの操作を提供する。
//
// ユーザーはメールアドレス・不透明APIトークン・IDのいずれかで検索できる。
// APIトークンの再発行は単一のUPDATE文で行われ、並行するトークン検索が
// 書き換え途中の値を観測することはない。古いトークンは再発行の時点で
// 即座に無効になる。
package store
