// File: internal/dto/user_response.go
package dto

import (
	"time"

	"accounts/internal/model"

	"github.com/google/uuid"
)

// swagger:model dto.UserResponse
type UserResponse struct {
	ID        uuid.UUID  `json:"id" example:"3fa85f64-5717-4562-b3fc-2c963f66afa6" swaggertype:"string" format:"uuid"`
	Name      string     `json:"name" example:"Alice"`
	Email     string     `json:"email" example:"alice@example.com"`
	Role      model.Role `json:"role" example:"user" swaggertype:"string" enums:"user,admin"`
	CreatedAt time.Time  `json:"created_at" example:"2025-05-01T15:04:05Z"`
	UpdatedAt time.Time  `json:"updated_at" example:"2025-05-01T15:04:05Z"`
	DeletedAt *time.Time `json:"deleted_at" example:"2025-05-02T15:04:05Z" extensions:"x-nullable"`
}

// NewUserResponse 密碼雜湊不會出現在回應中
func NewUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
		DeletedAt: u.DeletedAt,
	}
}

// swagger:model dto.UserPageResponse
type UserPageResponse struct {
	Total    int            `json:"total" example:"25"`
	Page     int            `json:"page" example:"1"`
	PageSize int            `json:"page_size" example:"10"`
	Items    []UserResponse `json:"items"`
}

func NewUserPageResponse(p model.Page[model.User]) UserPageResponse {
	items := make([]UserResponse, 0, len(p.Items))
	for i := range p.Items {
		items = append(items, NewUserResponse(&p.Items[i]))
	}
	return UserPageResponse{Total: p.Total, Page: p.Page, PageSize: p.PageSize, Items: items}
}
