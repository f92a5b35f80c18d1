package service

import (
	"slices"

	"accounts/internal/model"
)

// Authorize 呼叫者角色必須與 required 其中之一完全相同，admin 不會自動擁有 user 權限
func Authorize(required []model.Role, caller model.Role) error {
	if caller.Valid() && slices.Contains(required, caller) {
		return nil
	}
	return model.ErrAccessDenied
}
