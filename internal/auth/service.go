package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/hitoshi/newsgate/internal/mail"
	"github.com/hitoshi/newsgate/internal/model"
	"github.com/hitoshi/newsgate/internal/repository"
)

// サービス層のエラー種別。ハンドラーがHTTPステータスに変換する。
var (
	// ErrEmailTaken は登録済みメールアドレスでの再登録エラー。
	ErrEmailTaken = errors.New("email already taken")
	// ErrInvalidCredentials はログイン失敗エラー。
	// ユーザー不在とパスワード不一致を区別しない。
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserNotFound はトークンは有効だがユーザーレコードが存在しない場合のエラー。
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidResetToken はリセットトークンが不正・期限切れ・使用済みの場合のエラー。
	ErrInvalidResetToken = errors.New("invalid reset token")
)

// MetricsRecorder は認証操作の結果を記録するインターフェース。
type MetricsRecorder interface {
	RecordAuthOperation(op, result string)
}

// Service は認証フローのサービス層。
// ユーザーテーブルはリポジトリ経由でのみ読み書きする。
type Service struct {
	users    repository.UserRepository
	resets   repository.PasswordResetRepository
	tokens   *TokenManager
	mailer   mail.Mailer
	metrics  MetricsRecorder
	resetTTL time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

// NewService はServiceの新しいインスタンスを生成する。
// metricsはnilを許容する（記録しない）。
func NewService(
	users repository.UserRepository,
	resets repository.PasswordResetRepository,
	tokens *TokenManager,
	mailer mail.Mailer,
	metrics MetricsRecorder,
	resetTTL time.Duration,
	logger *slog.Logger,
) *Service {
	return &Service{
		users:    users,
		resets:   resets,
		tokens:   tokens,
		mailer:   mailer,
		metrics:  metrics,
		resetTTL: resetTTL,
		logger:   logger,
		now:      time.Now,
	}
}

// Register は新規ユーザーを登録し、署名付きトークンと公開ビューを返す。
// メールアドレスが既に存在する場合はErrEmailTakenを返す。
func (s *Service) Register(ctx context.Context, fullName, email, password string) (string, *model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, fmt.Errorf("パスワードのハッシュ化に失敗しました: %w", err)
	}

	now := s.now()
	user := &model.User{
		ID:           uuid.NewString(),
		FullName:     strings.TrimSpace(fullName),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			s.record("register", "conflict")
			return "", nil, ErrEmailTaken
		}
		return "", nil, fmt.Errorf("ユーザーの作成に失敗しました: %w", err)
	}

	token, _, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return "", nil, err
	}

	s.record("register", "ok")
	s.logger.Info("user registered",
		slog.String("user_id", user.ID),
	)

	return token, user, nil
}

// Login は認証情報を検証し、新しいトークンとユーザーを返す。
// ユーザー不在とパスワード不一致のいずれもErrInvalidCredentialsを返す
// （アカウントの存在有無を漏らさない）。
func (s *Service) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		s.record("login", "failed")
		return "", nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.record("login", "failed")
		return "", nil, ErrInvalidCredentials
	}

	token, _, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return "", nil, err
	}

	s.record("login", "ok")
	return token, user, nil
}

// Refresh は同一クレームのトークンを新しい有効期限で再署名する。
// ストアの読み書きは行わない。
func (s *Service) Refresh(ctx context.Context, userID, email string) (string, error) {
	token, _, err := s.tokens.Issue(userID, email)
	if err != nil {
		return "", err
	}
	s.record("refresh", "ok")
	return token, nil
}

// GetProfile は現在のユーザーを取得する。
// レコードが存在しない場合はErrUserNotFoundを返す。
func (s *Service) GetProfile(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// UpdateProfile はfullNameのみを上書きする。
// トリム後に空の場合は何も変更せず現在のユーザーを返す。
// 他のフィールドには一切触れない。
func (s *Service) UpdateProfile(ctx context.Context, userID, fullName string) (*model.User, error) {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return s.GetProfile(ctx, userID)
	}

	user, err := s.users.UpdateFullName(ctx, userID, fullName)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの更新に失敗しました: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// ForgotPassword はリセットトークンを生成・保存し、メール送信を試みる。
// アカウントの存在有無を漏らさないため、結果に関わらず常にnilを返す
// （内部エラーはログのみに記録する）。
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		s.logger.Error("forgot-password lookup failed",
			slog.String("error", err.Error()),
		)
		return nil
	}
	if user == nil {
		// 未登録アドレス。応答は登録済みの場合と同一。
		s.record("forgot_password", "unknown_email")
		return nil
	}

	token, err := generateResetToken()
	if err != nil {
		s.logger.Error("failed to generate reset token",
			slog.String("error", err.Error()),
		)
		return nil
	}

	now := s.now()
	reset := &model.PasswordReset{
		Email:     user.Email,
		TokenHash: hashResetToken(token),
		ExpiresAt: now.Add(s.resetTTL),
		CreatedAt: now,
	}
	if err := s.resets.Store(ctx, reset); err != nil {
		s.logger.Error("failed to store reset token",
			slog.String("error", err.Error()),
		)
		return nil
	}

	if err := s.mailer.SendPasswordReset(user.Email, token); err != nil {
		s.logger.Error("failed to deliver reset mail",
			slog.String("error", err.Error()),
		)
		return nil
	}

	s.record("forgot_password", "ok")
	return nil
}

// ResetPassword はリセットトークンを検証し、新しいパスワードを設定する。
// トークンは使い捨てで、不正・期限切れ・使用済みの場合は
// ErrInvalidResetTokenを返す。
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	reset, err := s.resets.Consume(ctx, hashResetToken(token))
	if err != nil {
		return fmt.Errorf("リセットトークンの取得に失敗しました: %w", err)
	}
	if reset == nil || reset.IsExpired(s.now()) {
		s.record("reset_password", "invalid_token")
		return ErrInvalidResetToken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("パスワードのハッシュ化に失敗しました: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, reset.Email, string(hash)); err != nil {
		return fmt.Errorf("パスワードの更新に失敗しました: %w", err)
	}

	s.record("reset_password", "ok")
	s.logger.Info("password reset completed")
	return nil
}

// record は認証操作の結果メトリクスを記録する。metricsがnilなら何もしない。
func (s *Service) record(op, result string) {
	if s.metrics != nil {
		s.metrics.RecordAuthOperation(op, result)
	}
}

// generateResetToken は32バイトの乱数からリセットトークンを生成する。
func generateResetToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// hashResetToken はトークンの保存用ハッシュを返す。平文は保存しない。
func hashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
