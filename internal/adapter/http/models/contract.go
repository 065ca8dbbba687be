package models

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const DateLayout = "2006-01-02"

type OpenContractRequest struct {
	CustomerID    string          `json:"customerId"`
	ProductID     string          `json:"productId"`
	InitialAmount decimal.Decimal `json:"initialAmount"`
	OpenDate      string          `json:"openDate,omitempty"`
	Actor         string          `json:"-"`
}

func (r OpenContractRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.CustomerID) == "" {
		errs = append(errs, "customerId is required")
	}
	if strings.TrimSpace(r.ProductID) == "" {
		errs = append(errs, "productId is required")
	}
	if !r.InitialAmount.IsPositive() {
		errs = append(errs, "initialAmount must be positive")
	}
	if strings.TrimSpace(r.OpenDate) != "" {
		if _, err := time.Parse(DateLayout, strings.TrimSpace(r.OpenDate)); err != nil {
			errs = append(errs, "openDate must be in YYYY-MM-DD format")
		}
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

type DepositRequest struct {
	ContractID  string          `json:"contractId"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
	Actor       string          `json:"-"`
}

func (r DepositRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.ContractID) == "" {
		errs = append(errs, "contractId is required")
	}
	if !r.Amount.IsPositive() {
		errs = append(errs, "amount must be positive")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

type WithdrawRequest struct {
	ContractID  string          `json:"contractId"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
	Actor       string          `json:"-"`
}

func (r WithdrawRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.ContractID) == "" {
		errs = append(errs, "contractId is required")
	}
	if !r.Amount.IsPositive() {
		errs = append(errs, "amount must be positive")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

type CloseContractRequest struct {
	ContractID string `json:"contractId"`
	CloseDate  string `json:"closeDate,omitempty"`
	Actor      string `json:"-"`
}

func (r CloseContractRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.ContractID) == "" {
		errs = append(errs, "contractId is required")
	}
	if strings.TrimSpace(r.CloseDate) != "" {
		if _, err := time.Parse(DateLayout, strings.TrimSpace(r.CloseDate)); err != nil {
			errs = append(errs, "closeDate must be in YYYY-MM-DD format")
		}
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

type ContractStatusRequest struct {
	ContractID string `json:"contractId"`
	Reason     string `json:"reason,omitempty"`
	Actor      string `json:"-"`
}

func (r ContractStatusRequest) Validate() error {
	if strings.TrimSpace(r.ContractID) == "" {
		return errors.New("contractId is required")
	}

	return nil
}

type ContractResponse struct {
	ID             string `json:"id"`
	ContractNumber string `json:"contractNumber"`
	CustomerID     string `json:"customerId"`
	CustomerName   string `json:"customerName"`
	ProductID      string `json:"productId"`
	ProductName    string `json:"productName"`
	Status         string `json:"status"`
	OpenDate       string `json:"openDate"`
	CloseDate      string `json:"closeDate,omitempty"`
	InitialAmount  string `json:"initialAmount"`
	CurrentBalance string `json:"currentBalance"`
	InterestRate   string `json:"interestRate"`
	CreatedAt      string `json:"createdAt"`
	UpdatedAt      string `json:"updatedAt"`
}

type OperationResponse struct {
	ID                string `json:"id"`
	ContractID        string `json:"contractId"`
	ContractNumber    string `json:"contractNumber"`
	OperationDateTime string `json:"operationDateTime"`
	Type              string `json:"type"`
	Amount            string `json:"amount"`
	Description       string `json:"description,omitempty"`
}

type BalanceAuditResponse struct {
	ContractID      string `json:"contractId"`
	ContractNumber  string `json:"contractNumber"`
	CurrentBalance  string `json:"currentBalance"`
	ReplayedBalance string `json:"replayedBalance"`
	Consistent      bool   `json:"consistent"`
}
