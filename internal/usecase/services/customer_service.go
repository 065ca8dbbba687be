package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/api-sage/deposit-ledger/internal/adapter/http/models"
	"github.com/api-sage/deposit-ledger/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/deposit-ledger/internal/commons"
	"github.com/api-sage/deposit-ledger/internal/domain"
	"github.com/api-sage/deposit-ledger/internal/logger"
)

type CustomerService struct {
	customerRepo repo_interfaces.CustomerRepository
}

func NewCustomerService(customerRepo repo_interfaces.CustomerRepository) *CustomerService {
	return &CustomerService{customerRepo: customerRepo}
}

func (s *CustomerService) CreateCustomer(ctx context.Context, req models.CreateCustomerRequest) (commons.Response[models.CustomerResponse], error) {
	logger.Info("customer service create request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		logger.Error("customer service create validation failed", err, nil)
		return commons.ErrorResponse[models.CustomerResponse]("validation failed", err.Error()), err
	}

	customer := domain.Customer{
		LastName:       strings.TrimSpace(req.LastName),
		FirstName:      strings.TrimSpace(req.FirstName),
		MiddleName:     strings.TrimSpace(req.MiddleName),
		DocumentNumber: strings.TrimSpace(req.DocumentNumber),
		Phone:          strings.TrimSpace(req.Phone),
		Email:          strings.TrimSpace(req.Email),
	}

	created, err := s.customerRepo.Create(ctx, customer)
	if err != nil {
		logger.Error("customer service create failed", err, logger.Fields{
			"documentNumber": customer.DocumentNumber,
		})
		return commons.ErrorResponse[models.CustomerResponse]("failed to create customer", "Unable to create customer right now"), err
	}

	logger.Info("customer service create success", logger.Fields{
		"customerId": created.ID,
	})

	return commons.SuccessResponse("customer created successfully", toCustomerResponse(created)), nil
}

func (s *CustomerService) GetCustomer(ctx context.Context, id string) (commons.Response[models.CustomerResponse], error) {
	id = strings.TrimSpace(id)
	if id == "" {
		err := fmt.Errorf("customer id is required")
		return commons.ErrorResponse[models.CustomerResponse]("validation failed", err.Error()), err
	}

	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			err = fmt.Errorf("%w: customer with id=%s not found", domain.ErrNotFound, id)
			return commons.ErrorResponse[models.CustomerResponse](err.Error()), err
		}
		logger.Error("customer service get failed", err, logger.Fields{
			"customerId": id,
		})
		return commons.ErrorResponse[models.CustomerResponse]("failed to get customer", "Unable to fetch customer right now"), err
	}

	return commons.SuccessResponse("customer fetched successfully", toCustomerResponse(customer)), nil
}

func (s *CustomerService) ListCustomers(ctx context.Context) (commons.Response[[]models.CustomerResponse], error) {
	customers, err := s.customerRepo.List(ctx)
	if err != nil {
		logger.Error("customer service list failed", err, nil)
		return commons.ErrorResponse[[]models.CustomerResponse]("failed to list customers", "Unable to fetch customers right now"), err
	}

	responses := make([]models.CustomerResponse, 0, len(customers))
	for _, customer := range customers {
		responses = append(responses, toCustomerResponse(customer))
	}

	return commons.SuccessResponse("customers fetched successfully", responses), nil
}

func (s *CustomerService) SearchCustomers(ctx context.Context, lastNamePart string) (commons.Response[[]models.CustomerResponse], error) {
	lastNamePart = strings.TrimSpace(lastNamePart)

	customers, err := s.customerRepo.SearchByLastName(ctx, lastNamePart)
	if err != nil {
		logger.Error("customer service search failed", err, logger.Fields{
			"lastNamePart": lastNamePart,
		})
		return commons.ErrorResponse[[]models.CustomerResponse]("failed to search customers", "Unable to search customers right now"), err
	}

	responses := make([]models.CustomerResponse, 0, len(customers))
	for _, customer := range customers {
		responses = append(responses, toCustomerResponse(customer))
	}

	return commons.SuccessResponse("customers fetched successfully", responses), nil
}
