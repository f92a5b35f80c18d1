// File: internal/dto/update_me_request.go
package dto

// swagger:model dto.UpdateMeRequest
type UpdateMeRequest struct {
	Name string `json:"name" form:"name" validate:"required,max=100" example:"Alice"`
}
