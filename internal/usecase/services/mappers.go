package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/api-sage/deposit-ledger/internal/adapter/http/models"
	"github.com/api-sage/deposit-ledger/internal/domain"
)

const timestampLayout = time.RFC3339

func toContractResponse(contract domain.Contract, customer domain.Customer, product domain.Product) models.ContractResponse {
	response := models.ContractResponse{
		ID:             contract.ID,
		ContractNumber: contract.ContractNumber,
		CustomerID:     contract.CustomerID,
		CustomerName:   customer.FullName(),
		ProductID:      contract.ProductID,
		ProductName:    product.Name,
		Status:         string(contract.Status),
		OpenDate:       contract.OpenDate.Format(models.DateLayout),
		InitialAmount:  contract.InitialAmount.StringFixed(2),
		CurrentBalance: contract.CurrentBalance.StringFixed(2),
		InterestRate:   contract.InterestRate.String(),
		CreatedAt:      contract.CreatedAt.Format(timestampLayout),
		UpdatedAt:      contract.UpdatedAt.Format(timestampLayout),
	}
	if contract.CloseDate != nil {
		response.CloseDate = contract.CloseDate.Format(models.DateLayout)
	}
	return response
}

func toOperationResponse(op domain.Operation, contractNumber string) models.OperationResponse {
	return models.OperationResponse{
		ID:                op.ID,
		ContractID:        op.ContractID,
		ContractNumber:    contractNumber,
		OperationDateTime: op.OperationDateTime.Format(timestampLayout),
		Type:              string(op.Type),
		Amount:            op.Amount.StringFixed(2),
		Description:       op.Description,
	}
}

func toProductResponse(product domain.Product) models.ProductResponse {
	response := models.ProductResponse{
		ID:                     product.ID,
		Name:                   product.Name,
		Description:            product.Description,
		TermMonths:             product.TermMonths,
		BaseInterestRate:       product.BaseInterestRate.String(),
		AllowReplenishment:     product.AllowReplenishment,
		AllowPartialWithdrawal: product.AllowPartialWithdrawal,
		Capitalization:         product.Capitalization,
		CreatedAt:              product.CreatedAt.Format(timestampLayout),
		UpdatedAt:              product.UpdatedAt.Format(timestampLayout),
	}
	if product.MinAmount != nil {
		response.MinAmount = product.MinAmount.StringFixed(2)
	}
	if product.MaxAmount != nil {
		response.MaxAmount = product.MaxAmount.StringFixed(2)
	}
	return response
}

func toCustomerResponse(customer domain.Customer) models.CustomerResponse {
	return models.CustomerResponse{
		ID:             customer.ID,
		LastName:       customer.LastName,
		FirstName:      customer.FirstName,
		MiddleName:     customer.MiddleName,
		FullName:       customer.FullName(),
		DocumentNumber: customer.DocumentNumber,
		Phone:          customer.Phone,
		Email:          customer.Email,
		CreatedAt:      customer.CreatedAt.Format(timestampLayout),
		UpdatedAt:      customer.UpdatedAt.Format(timestampLayout),
	}
}

func toUserResponse(user domain.User) models.UserResponse {
	return models.UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		FullName:  user.FullName,
		Role:      string(user.Role),
		Active:    user.Active,
		CreatedAt: user.CreatedAt.Format(timestampLayout),
		UpdatedAt: user.UpdatedAt.Format(timestampLayout),
	}
}

// parseDateOrToday parses a YYYY-MM-DD business date, defaulting to the
// current UTC date when the value is blank.
func parseDateOrToday(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}

	parsed, err := time.Parse(models.DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("date must be in YYYY-MM-DD format")
	}
	return parsed, nil
}

func descriptionOrDefault(description, fallback string) string {
	description = strings.TrimSpace(description)
	if description == "" {
		return fallback
	}
	return description
}

type operationFilter struct {
	hasPeriod bool
	from      time.Time
	to        time.Time
	opType    domain.OperationType
}

// parseOperationFilter interprets optional report filters. A period is
// inclusive on both ends; an empty fromDate defaults to the epoch and an
// empty toDate extends to the end of the requested day.
func parseOperationFilter(fromDate, toDate, opType string) (operationFilter, error) {
	var filter operationFilter

	fromDate = strings.TrimSpace(fromDate)
	toDate = strings.TrimSpace(toDate)
	opType = strings.ToUpper(strings.TrimSpace(opType))

	if fromDate != "" || toDate != "" {
		filter.hasPeriod = true
		filter.from = time.Time{}
		filter.to = time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC)

		if fromDate != "" {
			parsed, err := time.Parse(models.DateLayout, fromDate)
			if err != nil {
				return operationFilter{}, fmt.Errorf("fromDate must be in YYYY-MM-DD format")
			}
			filter.from = parsed
		}
		if toDate != "" {
			parsed, err := time.Parse(models.DateLayout, toDate)
			if err != nil {
				return operationFilter{}, fmt.Errorf("toDate must be in YYYY-MM-DD format")
			}
			filter.to = parsed.Add(24*time.Hour - time.Nanosecond)
		}
		if filter.to.Before(filter.from) {
			return operationFilter{}, fmt.Errorf("toDate cannot be before fromDate")
		}
	}

	if opType != "" {
		switch domain.OperationType(opType) {
		case domain.OperationTypeOpening, domain.OperationTypeDeposit, domain.OperationTypeWithdrawal,
			domain.OperationTypeInterestAccrual, domain.OperationTypeClosing,
			domain.OperationTypeFreeze, domain.OperationTypeUnfreeze:
			filter.opType = domain.OperationType(opType)
		default:
			return operationFilter{}, fmt.Errorf("unknown operation type %q", opType)
		}
	}

	return filter, nil
}
