package repository

import (
	"context"
	"sync"
	"time"

	"github.com/hitoshi/newsgate/internal/model"
)

// MemoryUserRepo はプロセスメモリ上のユーザーリポジトリ。
// プロセス再起動で内容は失われる（仕様上の割り切り）。
// 単一のRWMutexで全操作を直列化し、同一メールアドレスへの並行登録による
// ロストアップデートを防ぐ。
type MemoryUserRepo struct {
	mu      sync.RWMutex
	byEmail map[string]*model.User
	byID    map[string]string // id -> email
}

// NewMemoryUserRepo はMemoryUserRepoを生成する。
func NewMemoryUserRepo() *MemoryUserRepo {
	return &MemoryUserRepo{
		byEmail: make(map[string]*model.User),
		byID:    make(map[string]string),
	}
}

// FindByEmail は指定メールアドレスのユーザーを取得する。見つからない場合はnilを返す。
func (r *MemoryUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byEmail[email]
	if !ok {
		return nil, nil
	}
	return copyUser(user), nil
}

// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
func (r *MemoryUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	email, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	return copyUser(r.byEmail[email]), nil
}

// Create はユーザーを作成する。存在チェックと挿入を同一クリティカル
// セクションで行い、重複時はErrDuplicateEmailを返す。
func (r *MemoryUserRepo) Create(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[user.Email]; exists {
		return ErrDuplicateEmail
	}

	stored := copyUser(user)
	r.byEmail[stored.Email] = stored
	r.byID[stored.ID] = stored.Email
	return nil
}

// UpdateFullName は指定IDのユーザーのfullNameのみを更新し、更新後の
// ユーザーを返す。見つからない場合はnilを返す。
func (r *MemoryUserRepo) UpdateFullName(ctx context.Context, id, fullName string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	email, ok := r.byID[id]
	if !ok {
		return nil, nil
	}

	user := r.byEmail[email]
	user.FullName = fullName
	user.UpdatedAt = time.Now()
	return copyUser(user), nil
}

// UpdatePassword は指定メールアドレスのユーザーのパスワードハッシュを更新する。
func (r *MemoryUserRepo) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byEmail[email]
	if !ok {
		return nil
	}

	user.PasswordHash = passwordHash
	user.UpdatedAt = time.Now()
	return nil
}

// copyUser は外部からの変更がストア内部に波及しないようコピーを返す。
func copyUser(u *model.User) *model.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
