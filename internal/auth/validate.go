package auth

import (
	"regexp"
	"strings"
)

// MinPasswordLength はパスワード長の下限。
const MinPasswordLength = 6

// emailPattern は寛容なメールアドレスパターン（local@domain.tld）。
// 厳密なRFC検証は行わない。
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// NormalizeEmail はメールアドレスをトリムして小文字化する。
// ユーザーテーブルのキーとして使用する正規形。
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidEmail はメールアドレスが許容パターンに一致するかを返す。
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidPassword はパスワードが長さ下限を満たすかを返す。
// それ以上のサニタイズは行わない（全文字列は信頼しない前提で扱う）。
func ValidPassword(password string) bool {
	return len(password) >= MinPasswordLength
}
