package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"accounts/internal/cache"
	"accounts/internal/model"

	"github.com/redis/go-redis/v9"
)

const throttleKeyPrefix = "login:fail:"

// LoginThrottle 以 Redis 計數每個 email 在固定視窗內的登入失敗次數。
// nil *LoginThrottle 代表停用。
type LoginThrottle struct {
	cache       cache.Cache
	maxAttempts int
	window      time.Duration
}

func NewLoginThrottle(c cache.Cache, maxAttempts int, window time.Duration) *LoginThrottle {
	if c == nil || maxAttempts <= 0 {
		return nil
	}
	if window <= 0 {
		window = 15 * time.Minute
	}
	return &LoginThrottle{cache: c, maxAttempts: maxAttempts, window: window}
}

func throttleKey(email string) string {
	return throttleKeyPrefix + strings.TrimSpace(email)
}

// Check 失敗次數已達上限時回傳 ErrTooManyAttempts
func (t *LoginThrottle) Check(ctx context.Context, email string) error {
	if t == nil {
		return nil
	}
	n, err := t.cache.Get(ctx, throttleKey(email)).Int()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("LoginThrottle.Check: %w", err)
	}
	if n >= t.maxAttempts {
		return model.ErrTooManyAttempts
	}
	return nil
}

// Fail 累加失敗次數，第一次失敗時開始計算視窗
func (t *LoginThrottle) Fail(ctx context.Context, email string) error {
	if t == nil {
		return nil
	}
	key := throttleKey(email)
	n, err := t.cache.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("LoginThrottle.Fail: %w", err)
	}
	if n == 1 {
		if err := t.cache.Expire(ctx, key, t.window).Err(); err != nil {
			return fmt.Errorf("LoginThrottle.Fail: %w", err)
		}
	}
	return nil
}

// Reset 登入成功後清除計數
func (t *LoginThrottle) Reset(ctx context.Context, email string) error {
	if t == nil {
		return nil
	}
	if err := t.cache.Del(ctx, throttleKey(email)).Err(); err != nil {
		return fmt.Errorf("LoginThrottle.Reset: %w", err)
	}
	return nil
}
