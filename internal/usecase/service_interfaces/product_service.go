package service_interfaces

import (
	"context"

	"github.com/api-sage/deposit-ledger/internal/adapter/http/models"
	"github.com/api-sage/deposit-ledger/internal/commons"
)

type ProductService interface {
	CreateProduct(ctx context.Context, req models.CreateProductRequest) (commons.Response[models.ProductResponse], error)
	GetProduct(ctx context.Context, id string) (commons.Response[models.ProductResponse], error)
	ListProducts(ctx context.Context) (commons.Response[[]models.ProductResponse], error)
	SearchProducts(ctx context.Context, namePart string) (commons.Response[[]models.ProductResponse], error)
}
