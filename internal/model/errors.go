// Package model はドメインモデルを定義する。
package model

import (
	"fmt"
	"strings"
)

// APIError は統一エラーフォーマットを表す。
// クライアントに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, news, system
	Action   string // クライアント向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeInvalidParam      = "INVALID_PARAM"
	ErrCodeMissingParam      = "MISSING_PARAM"
	ErrCodeInvalidEmail      = "INVALID_EMAIL"
	ErrCodeWeakPassword      = "WEAK_PASSWORD"
	ErrCodeMissingField      = "MISSING_FIELD"
	ErrCodeEmailTaken        = "EMAIL_TAKEN"
	ErrCodeInvalidCreds      = "INVALID_CREDENTIALS"
	ErrCodeUnauthorized      = "UNAUTHORIZED"
	ErrCodeTokenExpired      = "TOKEN_EXPIRED"
	ErrCodeUserNotFound      = "USER_NOT_FOUND"
	ErrCodeInvalidResetToken = "INVALID_RESET_TOKEN"
	ErrCodeAPIKeyMissing     = "API_KEY_NOT_CONFIGURED"
	ErrCodeUpstream          = "UPSTREAM_ERROR"
	ErrCodeInternal          = "INTERNAL_ERROR"
)

// NewInvalidEnumError は閉集合パラメータの違反エラーを生成する。
// メッセージには許容値の全リストを含める。
func NewInvalidEnumError(field, value string, allowed []string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidParam,
		Message:  fmt.Sprintf("invalid %s %q. Accepted values: %s", field, value, strings.Join(allowed, ", ")),
		Category: "validation",
		Action:   fmt.Sprintf("Use one of the accepted %s values.", field),
	}
}

// NewMissingParamError は必須クエリパラメータの欠落エラーを生成する。
func NewMissingParamError(field string) *APIError {
	return &APIError{
		Code:     ErrCodeMissingParam,
		Message:  fmt.Sprintf("missing required parameter %q", field),
		Category: "validation",
		Action:   fmt.Sprintf("Provide a non-empty %q parameter.", field),
	}
}

// NewInvalidParamError はパラメータ値の形式エラーを生成する。
func NewInvalidParamError(field, reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidParam,
		Message:  fmt.Sprintf("invalid %s: %s", field, reason),
		Category: "validation",
		Action:   fmt.Sprintf("Check the %q parameter and retry.", field),
	}
}

// NewInvalidEmailError はメールアドレス形式エラーを生成する。
func NewInvalidEmailError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidEmail,
		Message:  "invalid email address",
		Category: "validation",
		Action:   "Provide a valid email address (e.g. name@example.com).",
	}
}

// NewWeakPasswordError はパスワード長不足エラーを生成する。
func NewWeakPasswordError() *APIError {
	return &APIError{
		Code:     ErrCodeWeakPassword,
		Message:  "password must be at least 6 characters long",
		Category: "validation",
		Action:   "Choose a password of 6 characters or more.",
	}
}

// NewMissingFieldError はリクエストボディの必須フィールド欠落エラーを生成する。
func NewMissingFieldError(field string) *APIError {
	return &APIError{
		Code:     ErrCodeMissingField,
		Message:  fmt.Sprintf("missing required field %q", field),
		Category: "validation",
		Action:   fmt.Sprintf("Include a non-empty %q field in the request body.", field),
	}
}

// NewEmailTakenError は重複登録エラーを生成する。
func NewEmailTakenError() *APIError {
	return &APIError{
		Code:     ErrCodeEmailTaken,
		Message:  "an account with this email already exists",
		Category: "auth",
		Action:   "Log in instead, or use a different email address.",
	}
}

// NewInvalidCredentialsError は認証失敗エラーを生成する。
// ユーザー不在とパスワード不一致で同一のメッセージを返し、
// アカウントの存在有無を漏らさない。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCreds,
		Message:  "invalid email or password",
		Category: "auth",
		Action:   "Check your credentials and try again.",
	}
}

// NewUnauthorizedError はトークン欠落・不正エラーを生成する。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "authentication required",
		Category: "auth",
		Action:   "Provide a valid bearer token in the Authorization header.",
	}
}

// NewTokenExpiredError はトークン期限切れエラーを生成する。
func NewTokenExpiredError() *APIError {
	return &APIError{
		Code:     ErrCodeTokenExpired,
		Message:  "token has expired",
		Category: "auth",
		Action:   "Log in again to obtain a fresh token.",
	}
}

// NewUserNotFoundError はユーザーレコード不在エラーを生成する。
func NewUserNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  "user not found",
		Category: "auth",
		Action:   "Log in again.",
	}
}

// NewInvalidResetTokenError はリセットトークンの検証失敗エラーを生成する。
func NewInvalidResetTokenError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidResetToken,
		Message:  "invalid or expired reset token",
		Category: "auth",
		Action:   "Request a new password reset and use the latest token.",
	}
}

// NewAPIKeyNotConfiguredError はプロバイダAPIキー未設定エラーを生成する。
func NewAPIKeyNotConfiguredError() *APIError {
	return &APIError{
		Code:     ErrCodeAPIKeyMissing,
		Message:  "news provider API key is not configured on the server",
		Category: "system",
		Action:   "Contact the server operator.",
	}
}

// NewUpstreamError はアップストリーム起因のエラーを生成する。
func NewUpstreamError(message string) *APIError {
	return &APIError{
		Code:     ErrCodeUpstream,
		Message:  message,
		Category: "news",
		Action:   "Try again later.",
	}
}

// NewInternalError は詳細を漏らさない一般的な内部エラーを生成する。
func NewInternalError() *APIError {
	return &APIError{
		Code:     ErrCodeInternal,
		Message:  "internal server error",
		Category: "system",
		Action:   "Try again later.",
	}
}
