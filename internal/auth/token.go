// Package auth は登録・ログイン・トークン管理のドメインロジックを提供する。
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// トークン検証の失敗種別。期限切れと不正は区別して呼び出し元に返す
// （期限切れは403、欠落・不正は401として扱われる）。
var (
	// ErrTokenExpired はトークンが自然期限切れの場合のエラー。
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid はトークンが不正（署名不一致・形式不正）の場合のエラー。
	ErrTokenInvalid = errors.New("token invalid")
)

// Claims は署名付きトークンのクレーム。{id, email}のみを運ぶ。
// 発行後のトークンはサーバー側で追跡されない（失効リストは存在しない）。
type Claims struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// TokenManager はHS256署名のトークン発行・検証を行う。
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time // テストで差し替え可能
}

// NewTokenManager はTokenManagerを生成する。
// ttlは発行から失効までの固定有効期間（既定は7日）。
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue は{id, email}クレームの署名付きトークンを発行する。
// 有効期限は発行時刻 + ttl。
func (m *TokenManager) Issue(userID, email string) (string, time.Time, error) {
	issuedAt := m.now()
	expiresAt := issuedAt.Add(m.ttl)

	claims := Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("トークンの署名に失敗しました: %w", err)
	}

	return signed, expiresAt, nil
}

// Verify はトークンを検証しクレームを返す。
// 期限切れはErrTokenExpired、それ以外の検証失敗はErrTokenInvalidを返す。
func (m *TokenManager) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			return m.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return m.now() }),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
