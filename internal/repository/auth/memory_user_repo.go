package auth

import (
	"context"
	"sync"
	"time"

	"aurabox/internal/model/auth"
)

// MemoryUserRepo 内存用户仓库，未配置 MongoDB 时使用
type MemoryUserRepo struct {
	mu    sync.RWMutex
	users map[string]*auth.User
}

// NewMemoryUserRepo 创建内存用户仓库
func NewMemoryUserRepo() *MemoryUserRepo {
	return &MemoryUserRepo{users: make(map[string]*auth.User)}
}

// Create 实现 UserStore
func (r *MemoryUserRepo) Create(_ context.Context, user *auth.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Username == user.Username || u.Email == user.Email {
			return ErrDuplicate
		}
	}

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

// FindByID 实现 UserStore
func (r *MemoryUserRepo) FindByID(_ context.Context, id string) (*auth.User, error) {
	return r.find(func(u *auth.User) bool { return u.ID == id })
}

// FindByUsername 实现 UserStore
func (r *MemoryUserRepo) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	return r.find(func(u *auth.User) bool { return u.Username == username })
}

// FindByEmail 实现 UserStore
func (r *MemoryUserRepo) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	return r.find(func(u *auth.User) bool { return u.Email == email })
}

// UpdateLastLoginAt 实现 UserStore
func (r *MemoryUserRepo) UpdateLastLoginAt(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return ErrNotFound
	}
	now := time.Now()
	u.LastLoginAt = &now
	u.UpdatedAt = now
	return nil
}

// UpdateStatus 实现 UserStore
func (r *MemoryUserRepo) UpdateStatus(_ context.Context, id string, status auth.UserStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return ErrNotFound
	}
	u.Status = status
	u.UpdatedAt = time.Now()
	return nil
}

func (r *MemoryUserRepo) find(match func(*auth.User) bool) (*auth.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if match(u) {
			out := *u
			return &out, nil
		}
	}
	return nil, ErrNotFound
}
