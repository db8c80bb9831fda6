package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/hitoshi/newsgate/internal/auth"
	"github.com/hitoshi/newsgate/internal/middleware"
	"github.com/hitoshi/newsgate/internal/model"
)

// forgotPasswordAck はアカウントの存在有無に関わらず常に同一の応答メッセージ。
const forgotPasswordAck = "If an account with that email exists, a password reset has been sent."

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	Register(ctx context.Context, fullName, email, password string) (string, *model.User, error)
	Login(ctx context.Context, email, password string) (string, *model.User, error)
	Refresh(ctx context.Context, userID, email string) (string, error)
	GetProfile(ctx context.Context, userID string) (*model.User, error)
	UpdateProfile(ctx context.Context, userID, fullName string) (*model.User, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}

// AuthHandler は認証関連のHTTPハンドラー。
type AuthHandler struct {
	service AuthServiceInterface
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service AuthServiceInterface) *AuthHandler {
	return &AuthHandler{service: service}
}

// --- リクエスト・レスポンス型 ---

type registerRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateProfileRequest struct {
	FullName string `json:"fullName"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

// tokenUserResponse はトークンと公開ユーザービューのレスポンス。
// パスワードハッシュは含まれない。
type tokenUserResponse struct {
	Token string         `json:"token"`
	User  model.UserView `json:"user"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type userResponse struct {
	User model.UserView `json:"user"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Register は新規ユーザーを登録する。
// POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	if strings.TrimSpace(req.FullName) == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewMissingFieldError("fullName"))
		return
	}
	email := auth.NormalizeEmail(req.Email)
	if !auth.ValidEmail(email) {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidEmailError())
		return
	}
	if !auth.ValidPassword(req.Password) {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewWeakPasswordError())
		return
	}

	token, user, err := h.service.Register(r.Context(), req.FullName, email, req.Password)
	if err != nil {
		handleAuthError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, tokenUserResponse{
		Token: token,
		User:  user.PublicView(),
	})
}

// Login は認証情報を検証し、新しいトークンを発行する。
// POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	if strings.TrimSpace(req.Email) == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewMissingFieldError("email"))
		return
	}
	if req.Password == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewMissingFieldError("password"))
		return
	}

	token, user, err := h.service.Login(r.Context(), auth.NormalizeEmail(req.Email), req.Password)
	if err != nil {
		handleAuthError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenUserResponse{
		Token: token,
		User:  user.PublicView(),
	})
}

// Logout はログアウトの確認応答のみを返す。
// サーバー側にセッションも失効リストも存在しないため、ストアは変更されず、
// 提示されたトークンは自然期限切れまで有効なままとなる（仕様上の制限）。
// POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, messageResponse{
		Message: "Logged out successfully.",
	})
}

// Refresh は同一クレームのトークンを新しい7日間の有効期限で再署名する。
// POST /auth/refresh
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}
	email, err := middleware.EmailFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	token, err := h.service.Refresh(r.Context(), userID, email)
	if err != nil {
		handleAuthError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}

// Me は現在のユーザーの公開ビューを返す。
// GET /auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	user, err := h.service.GetProfile(r.Context(), userID)
	if err != nil {
		handleAuthError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, userResponse{User: user.PublicView()})
}

// UpdateProfile はfullNameのみを更新する。空値の場合は変更しない。
// PUT /auth/update-profile
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req updateProfileRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), userID, req.FullName)
	if err != nil {
		handleAuthError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, userResponse{User: user.PublicView()})
}

// ForgotPassword はリセットフローを開始する。
// アカウントの存在有無を漏らさないため、常に同一の確認応答を返す。
// POST /auth/forgot-password
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	email := auth.NormalizeEmail(req.Email)
	if !auth.ValidEmail(email) {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidEmailError())
		return
	}

	// サービスは内部エラーでも常にnilを返す（応答を一定に保つ）
	_ = h.service.ForgotPassword(r.Context(), email)

	writeJSON(w, http.StatusOK, messageResponse{Message: forgotPasswordAck})
}

// ResetPassword はリセットトークンを検証し、新しいパスワードを設定する。
// POST /auth/reset-password
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	if strings.TrimSpace(req.Token) == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewMissingFieldError("token"))
		return
	}
	if !auth.ValidPassword(req.NewPassword) {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewWeakPasswordError())
		return
	}

	if err := h.service.ResetPassword(r.Context(), req.Token, req.NewPassword); err != nil {
		handleAuthError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{
		Message: "Password has been reset successfully.",
	})
}
