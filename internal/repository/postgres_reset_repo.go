package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hitoshi/newsgate/internal/model"
)

// PostgresPasswordResetRepo はPostgreSQLを使用したリセットトークンリポジトリ。
type PostgresPasswordResetRepo struct {
	db *sql.DB
}

// NewPostgresPasswordResetRepo はPostgresPasswordResetRepoを生成する。
func NewPostgresPasswordResetRepo(db *sql.DB) *PostgresPasswordResetRepo {
	return &PostgresPasswordResetRepo{db: db}
}

// Store はリセットトークンを保存する。同一メールアドレスの既存トークンは
// 同一トランザクションで削除される。
func (r *PostgresPasswordResetRepo) Store(ctx context.Context, reset *model.PasswordReset) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM password_resets WHERE email = $1`,
		reset.Email,
	); err != nil {
		return fmt.Errorf("failed to delete stale reset tokens: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO password_resets (email, token_hash, expires_at, created_at)
		 VALUES ($1, $2, $3, $4)`,
		reset.Email, reset.TokenHash, reset.ExpiresAt, reset.CreatedAt,
	); err != nil {
		return fmt.Errorf("failed to insert reset token: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Consume はトークンハッシュでリセットトークンを取得し、同時に削除する。
// 見つからない場合はnilを返す。
func (r *PostgresPasswordResetRepo) Consume(ctx context.Context, tokenHash string) (*model.PasswordReset, error) {
	reset := &model.PasswordReset{}
	err := r.db.QueryRowContext(ctx,
		`DELETE FROM password_resets WHERE token_hash = $1
		 RETURNING email, token_hash, expires_at, created_at`,
		tokenHash,
	).Scan(&reset.Email, &reset.TokenHash, &reset.ExpiresAt, &reset.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to consume reset token: %w", err)
	}

	return reset, nil
}
