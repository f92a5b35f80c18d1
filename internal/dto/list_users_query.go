// File: internal/dto/list_users_query.go
package dto

import "accounts/internal/model"

// ListUsersQuery GET /admin/users 的查詢參數；IsDeleted 為 nil 時不過濾
type ListUsersQuery struct {
	SearchText string `query:"search_text" validate:"max=255"`
	Role       string `query:"role" validate:"omitempty,oneof=user admin"`
	IsDeleted  *bool  `query:"is_deleted"`
	Page       int    `query:"page" validate:"min=1"`
	PageSize   int    `query:"page_size" validate:"min=1,max=100"`
	Sort       string `query:"sort" validate:"oneof=asc desc"`
}

// DefaultListUsersQuery page=1, page_size=10, sort=desc
func DefaultListUsersQuery() ListUsersQuery {
	p := model.DefaultPaging()
	return ListUsersQuery{Page: p.Page, PageSize: p.PageSize, Sort: string(p.Sort)}
}

func (q ListUsersQuery) Filter() model.UserFilter {
	f := model.UserFilter{SearchText: q.SearchText, IsDeleted: q.IsDeleted}
	if q.Role != "" {
		r := model.Role(q.Role)
		f.Role = &r
	}
	return f
}

func (q ListUsersQuery) Paging() model.Paging {
	return model.Paging{Page: q.Page, PageSize: q.PageSize, Sort: model.SortOrder(q.Sort)}
}
