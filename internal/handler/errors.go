// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hitoshi/newsgate/internal/auth"
	"github.com/hitoshi/newsgate/internal/middleware"
	"github.com/hitoshi/newsgate/internal/model"
	"github.com/hitoshi/newsgate/internal/news"
)

// writeJSON はJSONレスポンスを書き込む。
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}

// writeAPIErrorResponse は統一エラーフォーマットでエラーレスポンスを書き込む。
func writeAPIErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	middleware.WriteErrorResponse(w, statusCode, apiErr)
}

// handleNewsError はニュースパイプラインの失敗をHTTPレスポンスに変換する。
// 検証エラー（*model.APIError）は400、それ以外はエラーマッパーの
// 優先順位に従って変換する。
func handleNewsError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	status, mapped := news.MapUpstreamError(err)
	writeAPIErrorResponse(w, status, mapped)
}

// handleAuthError は認証サービスの失敗をHTTPレスポンスに変換する。
// 既知のエラー種別以外は詳細をログのみに残し、一般的な500を返す。
func handleAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrEmailTaken):
		writeAPIErrorResponse(w, http.StatusConflict, model.NewEmailTakenError())
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewInvalidCredentialsError())
	case errors.Is(err, auth.ErrUserNotFound):
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewUserNotFoundError())
	case errors.Is(err, auth.ErrInvalidResetToken):
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidResetTokenError())
	default:
		slog.Error("auth service error", slog.String("error", err.Error()))
		middleware.WriteInternalServerError(w)
	}
}

// decodeJSONBody はリクエストボディをJSONとしてデコードする。
// 失敗時は400を書き込み、falseを返す。
func decodeJSONBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidParamError("body", "must be valid JSON"))
		return false
	}
	return true
}
