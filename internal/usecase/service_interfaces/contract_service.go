package service_interfaces

import (
	"context"

	"github.com/api-sage/deposit-ledger/internal/adapter/http/models"
	"github.com/api-sage/deposit-ledger/internal/commons"
)

type ContractService interface {
	OpenContract(ctx context.Context, req models.OpenContractRequest) (commons.Response[models.ContractResponse], error)
	Deposit(ctx context.Context, req models.DepositRequest) (commons.Response[models.ContractResponse], error)
	Withdraw(ctx context.Context, req models.WithdrawRequest) (commons.Response[models.ContractResponse], error)
	CloseContract(ctx context.Context, req models.CloseContractRequest) (commons.Response[models.ContractResponse], error)
	FreezeContract(ctx context.Context, req models.ContractStatusRequest) (commons.Response[models.ContractResponse], error)
	UnfreezeContract(ctx context.Context, req models.ContractStatusRequest) (commons.Response[models.ContractResponse], error)
	GetContract(ctx context.Context, id string) (commons.Response[models.ContractResponse], error)
	ListContracts(ctx context.Context) (commons.Response[[]models.ContractResponse], error)
	ListContractsByCustomer(ctx context.Context, customerID string) (commons.Response[[]models.ContractResponse], error)
	ListOperations(ctx context.Context, contractID, fromDate, toDate, opType string) (commons.Response[[]models.OperationResponse], error)
	VerifyContractBalance(ctx context.Context, contractID string) (commons.Response[models.BalanceAuditResponse], error)
}
