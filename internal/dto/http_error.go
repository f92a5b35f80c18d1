// File: internal/dto/http_error.go
package dto

// 對外固定的錯誤訊息
const (
	MsgInvalidCredentials = "invalid credentials"
	MsgInvalidToken       = "invalid or expired token"
	MsgAccessDenied       = "access denied"
	MsgNotFound           = "user not found"
	MsgEmailTaken         = "email already registered"
	MsgTooManyRequests    = "too many requests"
	MsgInternal           = "internal server error"
)

// HTTPError 全域錯誤響應模型
// swagger:model dto.HTTPError
type HTTPError struct {
	// message 錯誤描述
	Message string `json:"message" example:"invalid credentials"`
}
