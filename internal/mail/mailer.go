// Package mail はパスワードリセットメールの送信を提供する。
package mail

import (
	"fmt"
	"log/slog"

	"gopkg.in/gomail.v2"
)

// Mailer はリセットメール送信のインターフェース。
type Mailer interface {
	// SendPasswordReset はリセットトークンを指定アドレスに送信する。
	SendPasswordReset(to, token string) error
}

// SMTPMailer はgomailによるSMTP送信の実装。
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
	logger *slog.Logger
}

// NewSMTPMailer はSMTPMailerを生成する。
func NewSMTPMailer(host string, port int, user, password, from string, logger *slog.Logger) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, user, password),
		from:   from,
		logger: logger,
	}
}

// SendPasswordReset はリセットトークンをプレーンテキストメールで送信する。
func (m *SMTPMailer) SendPasswordReset(to, token string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Password reset")
	msg.SetBody("text/plain", fmt.Sprintf(
		"A password reset was requested for your account.\n\n"+
			"Reset token: %s\n\n"+
			"The token expires shortly. If you did not request this, ignore this mail.\n",
		token,
	))

	if err := m.dialer.DialAndSend(msg); err != nil {
		m.logger.Error("failed to send password reset mail",
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("リセットメールの送信に失敗しました: %w", err)
	}

	return nil
}

// LogMailer はSMTP未設定時のフォールバック実装。
// 送信せず、リセット要求があった事実のみをログに残す（トークンは記録しない）。
type LogMailer struct {
	logger *slog.Logger
}

// NewLogMailer はLogMailerを生成する。
func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

// SendPasswordReset は送信の代わりにログ出力のみを行う。
func (m *LogMailer) SendPasswordReset(to, token string) error {
	m.logger.Info("password reset requested (SMTP not configured, mail not sent)",
		slog.String("to", to),
	)
	return nil
}
