package repository

import (
	"context"
	"sync"

	"github.com/hitoshi/newsgate/internal/model"
)

// MemoryPasswordResetRepo はプロセスメモリ上のリセットトークンリポジトリ。
type MemoryPasswordResetRepo struct {
	mu      sync.Mutex
	byToken map[string]*model.PasswordReset // token_hash -> reset
}

// NewMemoryPasswordResetRepo はMemoryPasswordResetRepoを生成する。
func NewMemoryPasswordResetRepo() *MemoryPasswordResetRepo {
	return &MemoryPasswordResetRepo{
		byToken: make(map[string]*model.PasswordReset),
	}
}

// Store はリセットトークンを保存する。同一メールアドレスの既存トークンは
// 無効化される（有効なトークンは常に1件まで）。
func (r *MemoryPasswordResetRepo) Store(ctx context.Context, reset *model.PasswordReset) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for hash, existing := range r.byToken {
		if existing.Email == reset.Email {
			delete(r.byToken, hash)
		}
	}

	stored := *reset
	r.byToken[stored.TokenHash] = &stored
	return nil
}

// Consume はトークンハッシュでリセットトークンを取得し、同時に削除する。
// 見つからない場合はnilを返す。
func (r *MemoryPasswordResetRepo) Consume(ctx context.Context, tokenHash string) (*model.PasswordReset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	reset, ok := r.byToken[tokenHash]
	if !ok {
		return nil, nil
	}
	delete(r.byToken, tokenHash)

	c := *reset
	return &c, nil
}
