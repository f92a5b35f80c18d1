// File: internal/dto/update_role_request.go
package dto

// swagger:model dto.UpdateRoleRequest
type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user admin" example:"admin" enums:"user,admin"`
}
