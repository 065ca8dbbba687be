package repo_interfaces

import (
	"context"

	"github.com/api-sage/deposit-ledger/internal/domain"
)

type CustomerRepository interface {
	Create(ctx context.Context, customer domain.Customer) (domain.Customer, error)
	GetByID(ctx context.Context, id string) (domain.Customer, error)
	List(ctx context.Context) ([]domain.Customer, error)
	SearchByLastName(ctx context.Context, lastNamePart string) ([]domain.Customer, error)
	Exists(ctx context.Context, id string) (bool, error)
}
