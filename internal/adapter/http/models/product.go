package models

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

type CreateProductRequest struct {
	Name                   string           `json:"name"`
	Description            string           `json:"description,omitempty"`
	MinAmount              *decimal.Decimal `json:"minAmount,omitempty"`
	MaxAmount              *decimal.Decimal `json:"maxAmount,omitempty"`
	TermMonths             int              `json:"termMonths"`
	BaseInterestRate       decimal.Decimal  `json:"baseInterestRate"`
	AllowReplenishment     bool             `json:"allowReplenishment"`
	AllowPartialWithdrawal bool             `json:"allowPartialWithdrawal"`
	Capitalization         bool             `json:"capitalization"`
}

func (r CreateProductRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.Name) == "" {
		errs = append(errs, "name is required")
	}
	if r.TermMonths < 0 {
		errs = append(errs, "termMonths cannot be negative")
	}
	if r.BaseInterestRate.IsNegative() {
		errs = append(errs, "baseInterestRate cannot be negative")
	}
	if r.MinAmount != nil && r.MinAmount.IsNegative() {
		errs = append(errs, "minAmount cannot be negative")
	}
	if r.MaxAmount != nil && r.MaxAmount.IsNegative() {
		errs = append(errs, "maxAmount cannot be negative")
	}
	if r.MinAmount != nil && r.MaxAmount != nil && r.MinAmount.GreaterThan(*r.MaxAmount) {
		errs = append(errs, "minAmount cannot exceed maxAmount")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

type ProductResponse struct {
	ID                     string `json:"id"`
	Name                   string `json:"name"`
	Description            string `json:"description,omitempty"`
	MinAmount              string `json:"minAmount,omitempty"`
	MaxAmount              string `json:"maxAmount,omitempty"`
	TermMonths             int    `json:"termMonths"`
	BaseInterestRate       string `json:"baseInterestRate"`
	AllowReplenishment     bool   `json:"allowReplenishment"`
	AllowPartialWithdrawal bool   `json:"allowPartialWithdrawal"`
	Capitalization         bool   `json:"capitalization"`
	CreatedAt              string `json:"createdAt"`
	UpdatedAt              string `json:"updatedAt"`
}
