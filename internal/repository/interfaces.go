// Package repository はデータ永続化のインターフェースを定義する。
// デフォルトはプロセスメモリ実装。DATABASE_URL設定時はPostgreSQL実装に
// 差し替わる（ルート・サービス層のロジックは両者で同一）。
package repository

import (
	"context"
	"errors"

	"github.com/hitoshi/newsgate/internal/model"
)

// ErrDuplicateEmail は同一メールアドレスのユーザーが既に存在する場合のエラー。
var ErrDuplicateEmail = errors.New("email already registered")

// UserRepository はユーザーデータの永続化インターフェース。
// ユーザーテーブルはメールアドレスをユニークキーとする。
type UserRepository interface {
	// FindByEmail は指定メールアドレスのユーザーを取得する。
	// 見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// Create はユーザーを作成する。存在チェックと挿入は単一のクリティカル
	// セクションで行われ、重複時はErrDuplicateEmailを返す。
	Create(ctx context.Context, user *model.User) error

	// UpdateFullName は指定IDのユーザーのfullNameのみをアトミックに更新し、
	// 更新後のユーザーを返す。見つからない場合はnilを返す。
	UpdateFullName(ctx context.Context, id, fullName string) (*model.User, error)

	// UpdatePassword は指定メールアドレスのユーザーのパスワードハッシュを
	// 更新する。見つからない場合もエラーにしない。
	UpdatePassword(ctx context.Context, email, passwordHash string) error
}

// PasswordResetRepository はパスワードリセットトークンの永続化インターフェース。
// メールアドレスごとに有効なトークンは常に1件までとする。
type PasswordResetRepository interface {
	// Store はリセットトークンを保存する。同一メールアドレスの既存トークンは
	// 置き換えられる。
	Store(ctx context.Context, reset *model.PasswordReset) error

	// Consume はトークンハッシュでリセットトークンを取得し、同時に削除する
	// （使い捨て）。見つからない場合はnilを返す。
	Consume(ctx context.Context, tokenHash string) (*model.PasswordReset, error)
}
