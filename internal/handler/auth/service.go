package auth

import (
	"context"

	"accounts/internal/model"
	"accounts/internal/service"

	"github.com/google/uuid"
)

// AccountService 由 *service.AccountService 實作
type AccountService interface {
	Register(ctx context.Context, name, email, password string) (*model.User, error)
	Login(ctx context.Context, email, password string, required model.Role) (*service.LoginResult, error)
	GetProfile(ctx context.Context, id uuid.UUID) (*model.User, error)
	UpdateName(ctx context.Context, id uuid.UUID, name string) (*model.User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, password string) (*model.User, error)
}

var _ AccountService = (*service.AccountService)(nil)
