package model

import (
	"fmt"
	"math"
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Paging 分頁參數，page 從 1 開始，依 created_at 排序
type Paging struct {
	Page     int
	PageSize int
	Sort     SortOrder
}

// DefaultPaging page=1, page_size=10, sort=desc
func DefaultPaging() Paging {
	return Paging{Page: 1, PageSize: DefaultPageSize, Sort: SortDesc}
}

func (p Paging) Validate() error {
	if p.Page < 1 {
		return fmt.Errorf("%w: page must be >= 1", ErrInvalidPaging)
	}
	if p.PageSize < 1 || p.PageSize > MaxPageSize {
		return fmt.Errorf("%w: page_size must be between 1 and %d", ErrInvalidPaging, MaxPageSize)
	}
	if p.Sort != SortAsc && p.Sort != SortDesc {
		return fmt.Errorf("%w: sort must be asc or desc", ErrInvalidPaging)
	}
	return nil
}

func (p Paging) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func (p Paging) Limit() int {
	return p.PageSize
}

// UserFilter 所有條件以 AND 組合；nil / 空字串代表不過濾
type UserFilter struct {
	SearchText string
	Role       *Role
	IsDeleted  *bool
}

// Page 一頁查詢結果，Total 與分頁視窗無關
type Page[T any] struct {
	Total    int
	Page     int
	PageSize int
	Items    []T
}

// TotalPages 依 Total 與 PageSize 計算總頁數
func (p Page[T]) TotalPages() int {
	if p.PageSize <= 0 {
		return 0
	}
	return int(math.Ceil(float64(p.Total) / float64(p.PageSize)))
}
