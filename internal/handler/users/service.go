package users

import (
	"context"

	"accounts/internal/model"
	"accounts/internal/service"

	"github.com/google/uuid"
)

// AccountService 由 *service.AccountService 實作
type AccountService interface {
	CreateUser(ctx context.Context, in service.NewAccount) (*model.User, error)
	GetProfile(ctx context.Context, id uuid.UUID) (*model.User, error)
	ListAccounts(ctx context.Context, f model.UserFilter, p model.Paging) (model.Page[model.User], error)
	UpdatePassword(ctx context.Context, id uuid.UUID, password string) (*model.User, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role model.Role) (*model.User, error)
	Deactivate(ctx context.Context, id uuid.UUID) (*model.User, error)
	Reactivate(ctx context.Context, id uuid.UUID) (*model.User, error)
}

var _ AccountService = (*service.AccountService)(nil)
