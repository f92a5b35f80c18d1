// File: internal/dto/register_request.go
package dto

// swagger:model dto.RegisterRequest
type RegisterRequest struct {
	Name     string `json:"name" form:"name" validate:"required,max=100" example:"Alice"`
	Email    string `json:"email" form:"email" validate:"required,email,max=255" example:"alice@example.com"`
	Password string `json:"password" form:"password" validate:"required,min=8,bcryptmax" example:"Secret123!"`
}
