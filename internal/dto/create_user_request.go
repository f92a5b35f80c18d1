// File: internal/dto/create_user_request.go
package dto

// swagger:model dto.CreateUserRequest
type CreateUserRequest struct {
	Name     string `json:"name" validate:"required,max=100" example:"Bob"`
	Email    string `json:"email" validate:"required,email,max=255" example:"bob@example.com"`
	Password string `json:"password" validate:"required,min=8,bcryptmax" example:"Secret123!"`
	Role     string `json:"role" validate:"required,oneof=user admin" example:"user" enums:"user,admin"`
}
