package model

import "errors"

// 領域錯誤，由 handler 層統一轉換為 HTTP 狀態碼
var (
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrInvalidToken           = errors.New("invalid token")
	ErrAccessDenied           = errors.New("access denied")
	ErrNotFound               = errors.New("user not found")
	ErrEmailTaken             = errors.New("email already registered")
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrInvalidRole            = errors.New("invalid role")
	ErrInvalidPaging          = errors.New("invalid paging")
	ErrTooManyAttempts        = errors.New("too many login attempts")
	ErrPasswordTooLong        = errors.New("password must be at most 72 bytes")
)
