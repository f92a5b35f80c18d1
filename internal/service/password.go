package service

import (
	"context"
	"errors"
	"sync"

	"accounts/internal/model"
	"accounts/internal/worker"

	"golang.org/x/crypto/bcrypt"
)

var (
	bcryptGenerateFromPassword   = bcrypt.GenerateFromPassword
	bcryptCompareHashAndPassword = bcrypt.CompareHashAndPassword
)

// PasswordHasher 在 worker pool 上執行 bcrypt，限制同時進行的雜湊數量
type PasswordHasher struct {
	pool worker.Pool
	cost int

	dummyOnce sync.Once
	dummy     []byte
}

// NewPasswordHasher pool 為 nil 時直接在呼叫端 goroutine 執行；cost <= 0 使用 bcrypt.DefaultCost
func NewPasswordHasher(pool worker.Pool, cost int) *PasswordHasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{pool: pool, cost: cost}
}

func (h *PasswordHasher) run(ctx context.Context, fn func()) error {
	if h.pool == nil {
		if err := ctx.Err(); err != nil {
			return err
		}
		fn()
		return nil
	}
	return h.pool.Do(ctx, fn)
}

// Hash 接收明文密碼，回傳 bcrypt 哈希字串
func (h *PasswordHasher) Hash(ctx context.Context, password string) (string, error) {
	var (
		hash []byte
		err  error
	)
	if perr := h.run(ctx, func() {
		hash, err = bcryptGenerateFromPassword([]byte(password), h.cost)
	}); perr != nil {
		return "", perr
	}
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", model.ErrPasswordTooLong
	}
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Compare 比對成功回傳 nil，密碼不符回傳 ErrInvalidCredentials
func (h *PasswordHasher) Compare(ctx context.Context, hash, password string) error {
	var err error
	if perr := h.run(ctx, func() {
		err = bcryptCompareHashAndPassword([]byte(hash), []byte(password))
	}); perr != nil {
		return perr
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return model.ErrInvalidCredentials
	}
	return err
}

// CompareDummy 對不存在的帳號做一次等成本的比對，結果一律捨棄
func (h *PasswordHasher) CompareDummy(ctx context.Context, password string) {
	h.dummyOnce.Do(func() {
		h.dummy, _ = bcryptGenerateFromPassword([]byte("not-a-real-password"), h.cost)
	})
	_ = h.run(ctx, func() {
		_ = bcryptCompareHashAndPassword(h.dummy, []byte(password))
	})
}
