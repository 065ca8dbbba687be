package repo_interfaces

import (
	"context"

	"github.com/api-sage/deposit-ledger/internal/domain"
)

type ProductRepository interface {
	Create(ctx context.Context, product domain.Product) (domain.Product, error)
	GetByID(ctx context.Context, id string) (domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	SearchByName(ctx context.Context, namePart string) ([]domain.Product, error)
}
