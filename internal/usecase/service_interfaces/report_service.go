package service_interfaces

import (
	"context"

	"github.com/api-sage/deposit-ledger/internal/adapter/http/models"
	"github.com/api-sage/deposit-ledger/internal/commons"
)

type ReportService interface {
	OperationsReport(ctx context.Context, fromDate, toDate, opType, customerID string) (commons.Response[[]models.OperationResponse], error)
	ContractsByCustomer(ctx context.Context, customerID string, activeOnly bool) (commons.Response[[]models.ContractResponse], error)
}
