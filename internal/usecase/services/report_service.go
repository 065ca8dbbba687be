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
)

// ReportService builds read-only views over the journal and the contract
// book for back-office reporting. Filters combine freely; an empty
// filter returns the full journal.
type ReportService struct {
	contractRepo  repo_interfaces.ContractRepository
	operationRepo repo_interfaces.OperationRepository
	customerRepo  repo_interfaces.CustomerRepository
	productRepo   repo_interfaces.ProductRepository
}

func NewReportService(
	contractRepo repo_interfaces.ContractRepository,
	operationRepo repo_interfaces.OperationRepository,
	customerRepo repo_interfaces.CustomerRepository,
	productRepo repo_interfaces.ProductRepository,
) *ReportService {
	return &ReportService{
		contractRepo:  contractRepo,
		operationRepo: operationRepo,
		customerRepo:  customerRepo,
		productRepo:   productRepo,
	}
}

func (s *ReportService) OperationsReport(ctx context.Context, fromDate, toDate, opType, customerID string) (commons.Response[[]models.OperationResponse], error) {
	logger.Info("report service operations report request", logger.Fields{
		"fromDate":   fromDate,
		"toDate":     toDate,
		"opType":     opType,
		"customerId": customerID,
	})

	filter, err := parseOperationFilter(fromDate, toDate, opType)
	if err != nil {
		return commons.ErrorResponse[[]models.OperationResponse]("validation failed", err.Error()), err
	}

	customerID = strings.TrimSpace(customerID)

	// The customer filter narrows the journal to that customer's
	// contracts; contract numbers are resolved along the way so the rows
	// are readable without further lookups.
	contractNumbers := make(map[string]string)
	var customerContracts map[string]bool
	if customerID != "" {
		exists, err := s.customerRepo.Exists(ctx, customerID)
		if err != nil {
			logger.Error("report service customer existence check failed", err, logger.Fields{
				"customerId": customerID,
			})
			return commons.ErrorResponse[[]models.OperationResponse]("failed to build report", "Unable to build report right now"), err
		}
		if !exists {
			err = fmt.Errorf("%w: customer with id=%s not found", domain.ErrNotFound, customerID)
			return commons.ErrorResponse[[]models.OperationResponse](err.Error()), err
		}

		contracts, err := s.contractRepo.ListByCustomer(ctx, customerID)
		if err != nil {
			logger.Error("report service customer contracts lookup failed", err, logger.Fields{
				"customerId": customerID,
			})
			return commons.ErrorResponse[[]models.OperationResponse]("failed to build report", "Unable to build report right now"), err
		}

		customerContracts = make(map[string]bool, len(contracts))
		for _, contract := range contracts {
			customerContracts[contract.ID] = true
			contractNumbers[contract.ID] = contract.ContractNumber
		}
	}

	operations, err := s.listOperations(ctx, filter)
	if err != nil {
		logger.Error("report service journal read failed", err, nil)
		return commons.ErrorResponse[[]models.OperationResponse]("failed to build report", "Unable to build report right now"), err
	}

	responses := make([]models.OperationResponse, 0, len(operations))
	for _, op := range operations {
		if customerContracts != nil && !customerContracts[op.ContractID] {
			continue
		}

		number, ok := contractNumbers[op.ContractID]
		if !ok {
			contract, err := s.contractRepo.GetByID(ctx, op.ContractID)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					contractNumbers[op.ContractID] = ""
					continue
				}
				logger.Error("report service contract lookup failed", err, logger.Fields{
					"contractId": op.ContractID,
				})
				return commons.ErrorResponse[[]models.OperationResponse]("failed to build report", "Unable to build report right now"), err
			}
			number = contract.ContractNumber
			contractNumbers[op.ContractID] = number
		}

		responses = append(responses, toOperationResponse(op, number))
	}

	return commons.SuccessResponse("operations report built successfully", responses), nil
}

func (s *ReportService) ContractsByCustomer(ctx context.Context, customerID string, activeOnly bool) (commons.Response[[]models.ContractResponse], error) {
	logger.Info("report service contracts by customer request", logger.Fields{
		"customerId": customerID,
		"activeOnly": activeOnly,
	})

	customerID = strings.TrimSpace(customerID)
	if customerID == "" {
		err := fmt.Errorf("customer id is required")
		return commons.ErrorResponse[[]models.ContractResponse]("validation failed", err.Error()), err
	}

	customer, err := s.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			err = fmt.Errorf("%w: customer with id=%s not found", domain.ErrNotFound, customerID)
			return commons.ErrorResponse[[]models.ContractResponse](err.Error()), err
		}
		logger.Error("report service customer lookup failed", err, logger.Fields{
			"customerId": customerID,
		})
		return commons.ErrorResponse[[]models.ContractResponse]("failed to build report", "Unable to build report right now"), err
	}

	contracts, err := s.contractRepo.ListByCustomer(ctx, customerID)
	if err != nil {
		logger.Error("report service contracts lookup failed", err, logger.Fields{
			"customerId": customerID,
		})
		return commons.ErrorResponse[[]models.ContractResponse]("failed to build report", "Unable to build report right now"), err
	}

	products := make(map[string]domain.Product)
	responses := make([]models.ContractResponse, 0, len(contracts))
	for _, contract := range contracts {
		if activeOnly && contract.Status == domain.ContractStatusClosed {
			continue
		}

		product, ok := products[contract.ProductID]
		if !ok {
			product, err = s.productRepo.GetByID(ctx, contract.ProductID)
			if err != nil {
				logger.Error("report service product lookup failed", err, logger.Fields{
					"productId": contract.ProductID,
				})
				return commons.ErrorResponse[[]models.ContractResponse]("failed to build report", "Unable to build report right now"), err
			}
			products[contract.ProductID] = product
		}

		responses = append(responses, toContractResponse(contract, customer, product))
	}

	return commons.SuccessResponse("customer contracts report built successfully", responses), nil
}

func (s *ReportService) listOperations(ctx context.Context, filter operationFilter) ([]domain.Operation, error) {
	switch {
	case filter.hasPeriod && filter.opType != "":
		return s.operationRepo.ListByTypeAndPeriod(ctx, filter.opType, filter.from, filter.to)
	case filter.hasPeriod:
		return s.operationRepo.ListByPeriod(ctx, filter.from, filter.to)
	case filter.opType != "":
		return s.operationRepo.ListByType(ctx, filter.opType)
	default:
		return s.operationRepo.ListByPeriod(ctx, time.Time{}, time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC))
	}
}
