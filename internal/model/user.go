// Package model はドメインモデルを定義する。
package model

import "time"

// User はサービス利用ユーザーを表す。
// PasswordHashは外部に出さない。レスポンスにはPublicView()を使うこと。
type User struct {
	ID           string
	FullName     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserView はクライアントに返すユーザー情報。
// パスワードハッシュを含まない。
type UserView struct {
	ID        string    `json:"id"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// PublicView はクライアント向けのユーザー表現を返す。
func (u *User) PublicView() UserView {
	return UserView{
		ID:        u.ID,
		FullName:  u.FullName,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

// PasswordReset はパスワードリセットの使い捨てトークンを表す。
// TokenHashには平文トークンのSHA-256を格納する（平文は保存しない）。
type PasswordReset struct {
	Email     string
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// IsExpired はリセットトークンが期限切れかどうかを返す。
func (p *PasswordReset) IsExpired(now time.Time) bool {
	return now.After(p.ExpiresAt)
}
