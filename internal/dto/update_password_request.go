// File: internal/dto/update_password_request.go
package dto

// swagger:model dto.UpdatePasswordRequest
type UpdatePasswordRequest struct {
	Password string `json:"password" form:"password" validate:"required,min=8,bcryptmax" example:"NewSecret456!"`
}
