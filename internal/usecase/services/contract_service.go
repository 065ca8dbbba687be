package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/api-sage/deposit-ledger/internal/adapter/http/models"
	"github.com/api-sage/deposit-ledger/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/deposit-ledger/internal/commons"
	"github.com/api-sage/deposit-ledger/internal/domain"
	"github.com/api-sage/deposit-ledger/internal/logger"
	"github.com/shopspring/decimal"
)

// ContractService is the deposit-contract ledger. Every mutating call
// validates against the product constraints copied or referenced by the
// contract, then delegates the balance change and the paired journal
// append to the repository as one atomic unit. The actor on each request
// is an explicit value supplied by the caller; the ledger holds no
// session state and performs no authorization.
type ContractService struct {
	contractRepo  repo_interfaces.ContractRepository
	operationRepo repo_interfaces.OperationRepository
	productRepo   repo_interfaces.ProductRepository
	customerRepo  repo_interfaces.CustomerRepository
}

func NewContractService(
	contractRepo repo_interfaces.ContractRepository,
	operationRepo repo_interfaces.OperationRepository,
	productRepo repo_interfaces.ProductRepository,
	customerRepo repo_interfaces.CustomerRepository,
) *ContractService {
	return &ContractService{
		contractRepo:  contractRepo,
		operationRepo: operationRepo,
		productRepo:   productRepo,
		customerRepo:  customerRepo,
	}
}

func (s *ContractService) OpenContract(ctx context.Context, req models.OpenContractRequest) (commons.Response[models.ContractResponse], error) {
	logger.Info("contract service open contract request", logger.Fields{
		"payload": logger.SanitizePayload(req),
		"actor":   req.Actor,
	})

	if err := req.Validate(); err != nil {
		logger.Error("contract service open contract validation failed", err, nil)
		return commons.ErrorResponse[models.ContractResponse]("validation failed", err.Error()), err
	}

	customerID := strings.TrimSpace(req.CustomerID)
	productID := strings.TrimSpace(req.ProductID)
	initialAmount := req.InitialAmount.Round(2)

	openDate, err := parseDateOrToday(req.OpenDate)
	if err != nil {
		return commons.ErrorResponse[models.ContractResponse]("validation failed", err.Error()), err
	}

	customer, err := s.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			err = fmt.Errorf("%w: customer with id=%s not found", domain.ErrNotFound, customerID)
			return commons.ErrorResponse[models.ContractResponse](err.Error()), err
		}
		logger.Error("contract service open contract customer lookup failed", err, logger.Fields{
			"customerId": customerID,
		})
		return commons.ErrorResponse[models.ContractResponse]("failed to open contract", "Unable to open contract right now"), err
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			err = fmt.Errorf("%w: deposit product with id=%s not found", domain.ErrNotFound, productID)
			return commons.ErrorResponse[models.ContractResponse](err.Error()), err
		}
		logger.Error("contract service open contract product lookup failed", err, logger.Fields{
			"productId": productID,
		})
		return commons.ErrorResponse[models.ContractResponse]("failed to open contract", "Unable to open contract right now"), err
	}

	if product.MinAmount != nil && initialAmount.LessThan(*product.MinAmount) {
		err = fmt.Errorf("%w: initial amount is below the product minimum of %s", domain.ErrInvalidOperation, product.MinAmount.StringFixed(2))
		return commons.ErrorResponse[models.ContractResponse]("validation failed", err.Error()), err
	}
	if product.MaxAmount != nil && initialAmount.GreaterThan(*product.MaxAmount) {
		err = fmt.Errorf("%w: initial amount is above the product maximum of %s", domain.ErrInvalidOperation, product.MaxAmount.StringFixed(2))
		return commons.ErrorResponse[models.ContractResponse]("validation failed", err.Error()), err
	}

	contractNumber, err := s.contractRepo.NextContractNumber(ctx)
	if err != nil {
		logger.Error("contract service open contract number generation failed", err, nil)
		return commons.ErrorResponse[models.ContractResponse]("failed to open contract", "Unable to open contract right now"), err
	}

	contract := domain.Contract{
		ContractNumber: contractNumber,
		CustomerID:     customer.ID,
		ProductID:      product.ID,
		Status:         domain.ContractStatusOpen,
		OpenDate:       openDate,
		InitialAmount:  initialAmount,
		CurrentBalance: initialAmount,
		InterestRate:   product.BaseInterestRate,
	}

	opening := domain.Operation{
		OperationDateTime: time.Now(),
		Type:              domain.OperationTypeOpening,
		Amount:            initialAmount,
		Description:       "Contract opened, initial deposit placed",
	}

	created, err := s.contractRepo.CreateWithOpening(ctx, contract, opening)
	if err != nil {
		logger.Error("contract service open contract repository failed", err, logger.Fields{
			"contractNumber": contractNumber,
		})
		return commons.ErrorResponse[models.ContractResponse]("failed to open contract", "Unable to open contract right now"), err
	}

	logger.Info("contract service open contract success", logger.Fields{
		"contractId":     created.ID,
		"contractNumber": created.ContractNumber,
		"actor":          req.Actor,
	})

	return commons.SuccessResponse("contract opened successfully", toContractResponse(created, customer, product)), nil
}

func (s *ContractService) Deposit(ctx context.Context, req models.DepositRequest) (commons.Response[models.ContractResponse], error) {
	logger.Info("contract service deposit request", logger.Fields{
		"payload": logger.SanitizePayload(req),
		"actor":   req.Actor,
	})

	if err := req.Validate(); err != nil {
		logger.Error("contract service deposit validation failed", err, nil)
		return commons.ErrorResponse[models.ContractResponse]("validation failed", err.Error()), err
	}

	contractID := strings.TrimSpace(req.ContractID)
	amount := req.Amount.Round(2)

	contract, product, errResp, err := s.loadOpenContract(ctx, contractID, "deposit")
	if err != nil {
		return errResp, err
	}

	if !product.AllowReplenishment {
		err = fmt.Errorf("%w: replenishment is not allowed for product %s", domain.ErrInvalidOperation, product.Name)
		return commons.ErrorResponse[models.ContractResponse]("validation failed", err.Error()), err
	}
	if product.MaxAmount != nil && contract.CurrentBalance.Add(amount).GreaterThan(*product.MaxAmount) {
		err = fmt.Errorf("%w: deposit amount would exceed the product maximum of %s", domain.ErrInvalidOperation, product.MaxAmount.StringFixed(2))
		return commons.ErrorResponse[models.ContractResponse]("validation failed", err.Error()), err
	}

	op := domain.Operation{
		OperationDateTime: time.Now(),
		Type:              domain.OperationTypeDeposit,
		Amount:            amount,
		Description:       descriptionOrDefault(req.Description, "Contract replenishment"),
	}

	updated, err := s.contractRepo.ApplyDeposit(ctx, contractID, amount, product.MaxAmount, op)
	if err != nil {
		return s.mutationErrorResponse("deposit", contractID, err), err
	}

	logger.Info("contract service deposit success", logger.Fields{
		"contractId":     updated.ID,
		"amount":         amount,
		"currentBalance": updated.CurrentBalance,
		"actor":          req.Actor,
	})

	return s.materialize(ctx, "funds deposited successfully", updated)
}

func (s *ContractService) Withdraw(ctx context.Context, req models.WithdrawRequest) (commons.Response[models.ContractResponse], error) {
	logger.Info("contract service withdraw request", logger.Fields{
		"payload": logger.SanitizePayload(req),
		"actor":   req.Actor,
	})

	if err := req.Validate(); err != nil {
		logger.Error("contract service withdraw validation failed", err, nil)
		return commons.ErrorResponse[models.ContractResponse]("validation failed", err.Error()), err
	}

	contractID := strings.TrimSpace(req.ContractID)
	amount := req.Amount.Round(2)

	contract, product, errResp, err := s.loadOpenContract(ctx, contractID, "withdrawal")
	if err != nil {
		return errResp, err
	}

	if !product.AllowPartialWithdrawal {
		err = fmt.Errorf("%w: partial withdrawal is not allowed for product %s", domain.ErrInvalidOperation, product.Name)
		return commons.ErrorResponse[models.ContractResponse]("validation failed", err.Error()), err
	}
	if amount.GreaterThan(contract.CurrentBalance) {
		err = fmt.Errorf("%w: insufficient funds for withdrawal", domain.ErrInvalidOperation)
		return commons.ErrorResponse[models.ContractResponse]("validation failed", err.Error()), err
	}
	if product.MinAmount != nil && contract.CurrentBalance.Sub(amount).LessThan(*product.MinAmount) {
		err = fmt.Errorf("%w: withdrawal would bring the balance below the product minimum of %s", domain.ErrInvalidOperation, product.MinAmount.StringFixed(2))
		return commons.ErrorResponse[models.ContractResponse]("validation failed", err.Error()), err
	}

	op := domain.Operation{
		OperationDateTime: time.Now(),
		Type:              domain.OperationTypeWithdrawal,
		Amount:            amount,
		Description:       descriptionOrDefault(req.Description, "Partial withdrawal"),
	}

	updated, err := s.contractRepo.ApplyWithdrawal(ctx, contractID, amount, product.MinAmount, op)
	if err != nil {
		return s.mutationErrorResponse("withdraw", contractID, err), err
	}

	logger.Info("contract service withdraw success", logger.Fields{
		"contractId":     updated.ID,
		"amount":         amount,
		"currentBalance": updated.CurrentBalance,
		"actor":          req.Actor,
	})

	return s.materialize(ctx, "funds withdrawn successfully", updated)
}

func (s *ContractService) CloseContract(ctx context.Context, req models.CloseContractRequest) (commons.Response[models.ContractResponse], error) {
	logger.Info("contract service close contract request", logger.Fields{
		"payload": logger.SanitizePayload(req),
		"actor":   req.Actor,
	})

	if err := req.Validate(); err != nil {
		logger.Error("contract service close contract validation failed", err, nil)
		return commons.ErrorResponse[models.ContractResponse]("validation failed", err.Error()), err
	}

	contractID := strings.TrimSpace(req.ContractID)

	closeDate, err := parseDateOrToday(req.CloseDate)
	if err != nil {
		return commons.ErrorResponse[models.ContractResponse]("validation failed", err.Error()), err
	}

	closed, payout, err := s.contractRepo.Close(ctx, contractID, closeDate, time.Now(), "Contract closed, funds paid out to the customer")
	if err != nil {
		return s.mutationErrorResponse("close", contractID, err), err
	}

	logger.Info("contract service close contract success", logger.Fields{
		"contractId": closed.ID,
		"payout":     payout.Amount,
		"actor":      req.Actor,
	})

	return s.materialize(ctx, "contract closed successfully", closed)
}

func (s *ContractService) FreezeContract(ctx context.Context, req models.ContractStatusRequest) (commons.Response[models.ContractResponse], error) {
	return s.transition(ctx, req, domain.ContractStatusOpen, domain.ContractStatusFrozen, domain.OperationTypeFreeze, "Contract frozen", "contract frozen successfully")
}

func (s *ContractService) UnfreezeContract(ctx context.Context, req models.ContractStatusRequest) (commons.Response[models.ContractResponse], error) {
	return s.transition(ctx, req, domain.ContractStatusFrozen, domain.ContractStatusOpen, domain.OperationTypeUnfreeze, "Contract unfrozen", "contract unfrozen successfully")
}

func (s *ContractService) transition(
	ctx context.Context,
	req models.ContractStatusRequest,
	from, to domain.ContractStatus,
	opType domain.OperationType,
	defaultDescription string,
	successMessage string,
) (commons.Response[models.ContractResponse], error) {
	logger.Info("contract service status transition request", logger.Fields{
		"contractId": req.ContractID,
		"to":         to,
		"actor":      req.Actor,
	})

	if err := req.Validate(); err != nil {
		return commons.ErrorResponse[models.ContractResponse]("validation failed", err.Error()), err
	}

	contractID := strings.TrimSpace(req.ContractID)

	op := domain.Operation{
		OperationDateTime: time.Now(),
		Type:              opType,
		Amount:            decimal.Zero,
		Description:       descriptionOrDefault(req.Reason, defaultDescription),
	}

	updated, err := s.contractRepo.SetStatus(ctx, contractID, from, to, op)
	if err != nil {
		return s.mutationErrorResponse("status transition", contractID, err), err
	}

	logger.Info("contract service status transition success", logger.Fields{
		"contractId": updated.ID,
		"status":     updated.Status,
		"actor":      req.Actor,
	})

	return s.materialize(ctx, successMessage, updated)
}

func (s *ContractService) GetContract(ctx context.Context, id string) (commons.Response[models.ContractResponse], error) {
	id = strings.TrimSpace(id)
	if id == "" {
		err := fmt.Errorf("contract id is required")
		return commons.ErrorResponse[models.ContractResponse]("validation failed", err.Error()), err
	}

	contract, err := s.contractRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			err = fmt.Errorf("%w: contract with id=%s not found", domain.ErrNotFound, id)
			return commons.ErrorResponse[models.ContractResponse](err.Error()), err
		}
		logger.Error("contract service get contract failed", err, logger.Fields{
			"contractId": id,
		})
		return commons.ErrorResponse[models.ContractResponse]("failed to get contract", "Unable to fetch contract right now"), err
	}

	return s.materialize(ctx, "contract fetched successfully", contract)
}

func (s *ContractService) ListContracts(ctx context.Context) (commons.Response[[]models.ContractResponse], error) {
	contracts, err := s.contractRepo.List(ctx)
	if err != nil {
		logger.Error("contract service list contracts failed", err, nil)
		return commons.ErrorResponse[[]models.ContractResponse]("failed to list contracts", "Unable to fetch contracts right now"), err
	}

	return s.materializeList(ctx, "contracts fetched successfully", contracts)
}

func (s *ContractService) ListContractsByCustomer(ctx context.Context, customerID string) (commons.Response[[]models.ContractResponse], error) {
	customerID = strings.TrimSpace(customerID)

	exists, err := s.customerRepo.Exists(ctx, customerID)
	if err != nil {
		logger.Error("contract service list by customer existence check failed", err, logger.Fields{
			"customerId": customerID,
		})
		return commons.ErrorResponse[[]models.ContractResponse]("failed to list contracts", "Unable to fetch contracts right now"), err
	}
	if !exists {
		err = fmt.Errorf("%w: customer with id=%s not found", domain.ErrNotFound, customerID)
		return commons.ErrorResponse[[]models.ContractResponse](err.Error()), err
	}

	contracts, err := s.contractRepo.ListByCustomer(ctx, customerID)
	if err != nil {
		logger.Error("contract service list by customer failed", err, logger.Fields{
			"customerId": customerID,
		})
		return commons.ErrorResponse[[]models.ContractResponse]("failed to list contracts", "Unable to fetch contracts right now"), err
	}

	return s.materializeList(ctx, "contracts fetched successfully", contracts)
}

func (s *ContractService) ListOperations(ctx context.Context, contractID, fromDate, toDate, opType string) (commons.Response[[]models.OperationResponse], error) {
	contractID = strings.TrimSpace(contractID)
	if contractID == "" {
		err := fmt.Errorf("contract id is required")
		return commons.ErrorResponse[[]models.OperationResponse]("validation failed", err.Error()), err
	}

	contract, err := s.contractRepo.GetByID(ctx, contractID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			err = fmt.Errorf("%w: contract with id=%s not found", domain.ErrNotFound, contractID)
			return commons.ErrorResponse[[]models.OperationResponse](err.Error()), err
		}
		return commons.ErrorResponse[[]models.OperationResponse]("failed to list operations", "Unable to fetch operations right now"), err
	}

	filter, err := parseOperationFilter(fromDate, toDate, opType)
	if err != nil {
		return commons.ErrorResponse[[]models.OperationResponse]("validation failed", err.Error()), err
	}

	var operations []domain.Operation
	if filter.hasPeriod {
		operations, err = s.operationRepo.ListByContractAndPeriod(ctx, contractID, filter.from, filter.to)
	} else {
		operations, err = s.operationRepo.ListByContract(ctx, contractID)
	}
	if err != nil {
		logger.Error("contract service list operations failed", err, logger.Fields{
			"contractId": contractID,
		})
		return commons.ErrorResponse[[]models.OperationResponse]("failed to list operations", "Unable to fetch operations right now"), err
	}

	responses := make([]models.OperationResponse, 0, len(operations))
	for _, op := range operations {
		if filter.opType != "" && op.Type != filter.opType {
			continue
		}
		responses = append(responses, toOperationResponse(op, contract.ContractNumber))
	}

	return commons.SuccessResponse("operations fetched successfully", responses), nil
}

// VerifyContractBalance replays the journal from the OPENING entry and
// compares the signed sum with the cached balance. The cached balance
// stays the primary read path; this is the audit cross-check.
func (s *ContractService) VerifyContractBalance(ctx context.Context, contractID string) (commons.Response[models.BalanceAuditResponse], error) {
	contractID = strings.TrimSpace(contractID)

	contract, err := s.contractRepo.GetByID(ctx, contractID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			err = fmt.Errorf("%w: contract with id=%s not found", domain.ErrNotFound, contractID)
			return commons.ErrorResponse[models.BalanceAuditResponse](err.Error()), err
		}
		return commons.ErrorResponse[models.BalanceAuditResponse]("failed to verify balance", "Unable to verify balance right now"), err
	}

	operations, err := s.operationRepo.ListByContract(ctx, contractID)
	if err != nil {
		logger.Error("contract service verify balance journal read failed", err, logger.Fields{
			"contractId": contractID,
		})
		return commons.ErrorResponse[models.BalanceAuditResponse]("failed to verify balance", "Unable to verify balance right now"), err
	}

	replayed := decimal.Zero
	for _, op := range operations {
		replayed = replayed.Add(op.SignedAmount())
	}

	response := models.BalanceAuditResponse{
		ContractID:      contract.ID,
		ContractNumber:  contract.ContractNumber,
		CurrentBalance:  contract.CurrentBalance.StringFixed(2),
		ReplayedBalance: replayed.StringFixed(2),
		Consistent:      replayed.Equal(contract.CurrentBalance),
	}

	if !response.Consistent {
		logger.Error("contract service balance audit mismatch", nil, logger.Fields{
			"contractId":      contract.ID,
			"currentBalance":  response.CurrentBalance,
			"replayedBalance": response.ReplayedBalance,
		})
	}

	return commons.SuccessResponse("balance audit completed", response), nil
}

func (s *ContractService) loadOpenContract(ctx context.Context, contractID string, action string) (domain.Contract, domain.Product, commons.Response[models.ContractResponse], error) {
	contract, err := s.contractRepo.GetByID(ctx, contractID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			err = fmt.Errorf("%w: contract with id=%s not found", domain.ErrNotFound, contractID)
			return domain.Contract{}, domain.Product{}, commons.ErrorResponse[models.ContractResponse](err.Error()), err
		}
		logger.Error("contract service load contract failed", err, logger.Fields{
			"contractId": contractID,
			"action":     action,
		})
		return domain.Contract{}, domain.Product{}, commons.ErrorResponse[models.ContractResponse]("failed to process "+action, "Unable to process "+action+" right now"), err
	}

	if contract.Status != domain.ContractStatusOpen {
		err = fmt.Errorf("%w: %s is allowed only for OPEN contracts, contract %s is %s", domain.ErrInvalidOperation, action, contract.ContractNumber, contract.Status)
		return domain.Contract{}, domain.Product{}, commons.ErrorResponse[models.ContractResponse]("validation failed", err.Error()), err
	}

	product, err := s.productRepo.GetByID(ctx, contract.ProductID)
	if err != nil {
		logger.Error("contract service load product failed", err, logger.Fields{
			"contractId": contractID,
			"productId":  contract.ProductID,
		})
		return domain.Contract{}, domain.Product{}, commons.ErrorResponse[models.ContractResponse]("failed to process "+action, "Unable to process "+action+" right now"), err
	}

	return contract, product, commons.Response[models.ContractResponse]{}, nil
}

func (s *ContractService) mutationErrorResponse(action, contractID string, err error) commons.Response[models.ContractResponse] {
	logger.Error("contract service "+action+" failed", err, logger.Fields{
		"contractId": contractID,
	})
	if errors.Is(err, domain.ErrNotFound) {
		return commons.ErrorResponse[models.ContractResponse]("Contract not found")
	}
	if errors.Is(err, domain.ErrInvalidOperation) {
		return commons.ErrorResponse[models.ContractResponse]("validation failed", err.Error())
	}
	return commons.ErrorResponse[models.ContractResponse]("failed to process "+action, "Unable to process "+action+" right now")
}

func (s *ContractService) materialize(ctx context.Context, message string, contract domain.Contract) (commons.Response[models.ContractResponse], error) {
	customer, err := s.customerRepo.GetByID(ctx, contract.CustomerID)
	if err != nil {
		logger.Error("contract service materialize customer failed", err, logger.Fields{
			"contractId": contract.ID,
			"customerId": contract.CustomerID,
		})
		return commons.ErrorResponse[models.ContractResponse]("failed to fetch contract", "Unable to fetch contract right now"), err
	}

	product, err := s.productRepo.GetByID(ctx, contract.ProductID)
	if err != nil {
		logger.Error("contract service materialize product failed", err, logger.Fields{
			"contractId": contract.ID,
			"productId":  contract.ProductID,
		})
		return commons.ErrorResponse[models.ContractResponse]("failed to fetch contract", "Unable to fetch contract right now"), err
	}

	return commons.SuccessResponse(message, toContractResponse(contract, customer, product)), nil
}

func (s *ContractService) materializeList(ctx context.Context, message string, contracts []domain.Contract) (commons.Response[[]models.ContractResponse], error) {
	customers := make(map[string]domain.Customer)
	products := make(map[string]domain.Product)

	responses := make([]models.ContractResponse, 0, len(contracts))
	for _, contract := range contracts {
		customer, ok := customers[contract.CustomerID]
		if !ok {
			var err error
			customer, err = s.customerRepo.GetByID(ctx, contract.CustomerID)
			if err != nil {
				logger.Error("contract service materialize list customer failed", err, logger.Fields{
					"customerId": contract.CustomerID,
				})
				return commons.ErrorResponse[[]models.ContractResponse]("failed to list contracts", "Unable to fetch contracts right now"), err
			}
			customers[contract.CustomerID] = customer
		}

		product, ok := products[contract.ProductID]
		if !ok {
			var err error
			product, err = s.productRepo.GetByID(ctx, contract.ProductID)
			if err != nil {
				logger.Error("contract service materialize list product failed", err, logger.Fields{
					"productId": contract.ProductID,
				})
				return commons.ErrorResponse[[]models.ContractResponse]("failed to list contracts", "Unable to fetch contracts right now"), err
			}
			products[contract.ProductID] = product
		}

		responses = append(responses, toContractResponse(contract, customer, product))
	}

	return commons.SuccessResponse(message, responses), nil
}
