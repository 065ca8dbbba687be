package service_interfaces

import (
	"context"

	"github.com/api-sage/deposit-ledger/internal/adapter/http/models"
	"github.com/api-sage/deposit-ledger/internal/commons"
)

type UserService interface {
	Authenticate(ctx context.Context, req models.LoginRequest) (commons.Response[models.UserResponse], error)
	CreateUser(ctx context.Context, req models.CreateUserRequest) (commons.Response[models.UserResponse], error)
	GetUser(ctx context.Context, username string) (commons.Response[models.UserResponse], error)
}
