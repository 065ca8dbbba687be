package service_interfaces

import (
	"context"

	"github.com/api-sage/deposit-ledger/internal/adapter/http/models"
	"github.com/api-sage/deposit-ledger/internal/commons"
)

type CustomerService interface {
	CreateCustomer(ctx context.Context, req models.CreateCustomerRequest) (commons.Response[models.CustomerResponse], error)
	GetCustomer(ctx context.Context, id string) (commons.Response[models.CustomerResponse], error)
	ListCustomers(ctx context.Context) (commons.Response[[]models.CustomerResponse], error)
	SearchCustomers(ctx context.Context, lastNamePart string) (commons.Response[[]models.CustomerResponse], error)
}
