package service_interfaces

import (
	"context"

	"github.com/api-sage/deposit-ledger/internal/adapter/http/models"
	"github.com/api-sage/deposit-ledger/internal/commons"
)

type AccrualService interface {
	AccrueForContract(ctx context.Context, req models.AccrueInterestRequest) (commons.Response[models.AccrualResultResponse], error)
	AccrueAll(ctx context.Context, req models.AccrueAllRequest) (commons.Response[models.AccrueAllResponse], error)
}
