package service

import (
	"testing"

	"accounts/internal/model"

	"github.com/stretchr/testify/require"
)

func TestAuthorize(t *testing.T) {
	user := []model.Role{model.RoleUser}
	admin := []model.Role{model.RoleAdmin}
	both := []model.Role{model.RoleUser, model.RoleAdmin}

	require.NoError(t, Authorize(user, model.RoleUser))
	require.NoError(t, Authorize(admin, model.RoleAdmin))
	require.NoError(t, Authorize(both, model.RoleAdmin))

	// 角色必須完全相符，admin 不繼承 user
	require.ErrorIs(t, Authorize(user, model.RoleAdmin), model.ErrAccessDenied)
	require.ErrorIs(t, Authorize(admin, model.RoleUser), model.ErrAccessDenied)
	require.ErrorIs(t, Authorize(nil, model.RoleAdmin), model.ErrAccessDenied)
	require.ErrorIs(t, Authorize([]model.Role{""}, ""), model.ErrAccessDenied)
}
