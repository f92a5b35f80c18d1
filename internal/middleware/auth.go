package middleware

import (
	"fmt"
	"strings"

	"accounts/internal/model"
	"accounts/internal/service"

	"github.com/labstack/echo/v4"
)

const ContextUserKey = "user"

// TokenValidator 由 *service.TokenIssuer 實作
type TokenValidator interface {
	Validate(token string) (model.Identity, error)
	ValidateOptional(token string) model.Identity
}

func bearerToken(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	if authHeader == "" {
		return "", fmt.Errorf("%w: missing token", model.ErrInvalidToken)
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", fmt.Errorf("%w: invalid authorization header format", model.ErrInvalidToken)
	}
	return strings.TrimSpace(parts[1]), nil
}

// RequireAuth 驗證 bearer token 並把 model.Identity 放入 context
func RequireAuth(v TokenValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := bearerToken(c)
			if err != nil {
				return err
			}
			id, err := v.Validate(token)
			if err != nil {
				return err
			}
			c.Set(ContextUserKey, id)
			return next(c)
		}
	}
}

// RequireRole 未帶或無效 token 回 401，角色不符回 403
func RequireRole(v TokenValidator, roles ...model.Role) echo.MiddlewareFunc {
	auth := RequireAuth(v)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return auth(func(c echo.Context) error {
			id, _ := IdentityFrom(c)
			if err := service.Authorize(roles, id.Role); err != nil {
				return err
			}
			return next(c)
		})
	}
}

// OptionalAuth 有效 token 時設定身分，否則視為匿名繼續處理
func OptionalAuth(v TokenValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, _ := bearerToken(c)
			c.Set(ContextUserKey, v.ValidateOptional(token))
			return next(c)
		}
	}
}

// IdentityFrom 取出 RequireAuth / OptionalAuth 設定的身分
func IdentityFrom(c echo.Context) (model.Identity, bool) {
	id, ok := c.Get(ContextUserKey).(model.Identity)
	if !ok || id.Anonymous() {
		return model.Identity{}, false
	}
	return id, true
}
