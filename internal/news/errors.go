package news

import (
	"errors"
	"net/http"
	"strings"

	"github.com/hitoshi/newsgate/internal/gnews"
	"github.com/hitoshi/newsgate/internal/model"
)

// MapUpstreamError はパイプラインの失敗をクライアント向けの
// HTTPステータスとAPIErrorに変換する。
//
// 優先順位は厳密に順序付けられている:
//  1. 設定エラー（APIキー未設定）→ 500
//  2. アップストリーム401 → 401 "invalid API key"
//  3. アップストリーム403 → 403 "daily limit reached"
//  4. アップストリーム429 → 429 "rate limit exceeded"
//  5. その他のHTTPステータス → 同一ステータスでミラー。
//     アップストリーム自身のエラーメッセージがあればそれを使う。
//  6. HTTPレスポンスなし（トランスポート障害）→ 500 一般メッセージ
func MapUpstreamError(err error) (int, *model.APIError) {
	if errors.Is(err, gnews.ErrKeyNotConfigured) {
		return http.StatusInternalServerError, model.NewAPIKeyNotConfiguredError()
	}

	var statusErr *gnews.StatusError
	if errors.As(err, &statusErr) {
		switch statusErr.StatusCode {
		case http.StatusUnauthorized:
			return http.StatusUnauthorized, model.NewUpstreamError("invalid API key")
		case http.StatusForbidden:
			return http.StatusForbidden, model.NewUpstreamError("daily limit reached")
		case http.StatusTooManyRequests:
			return http.StatusTooManyRequests, model.NewUpstreamError("rate limit exceeded")
		default:
			msg := "news provider error"
			if len(statusErr.Messages) > 0 {
				msg = strings.Join(statusErr.Messages, "; ")
			}
			return statusErr.StatusCode, model.NewUpstreamError(msg)
		}
	}

	// トランスポート障害・デコード失敗。詳細はログのみに残す。
	return http.StatusInternalServerError, model.NewInternalError()
}
