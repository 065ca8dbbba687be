package models

import (
	"errors"
	"strings"
	"time"
)

type AccrueInterestRequest struct {
	ContractID string `json:"contractId"`
	AsOfDate   string `json:"asOfDate,omitempty"`
	Actor      string `json:"-"`
}

func (r AccrueInterestRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.ContractID) == "" {
		errs = append(errs, "contractId is required")
	}
	if strings.TrimSpace(r.AsOfDate) != "" {
		if _, err := time.Parse(DateLayout, strings.TrimSpace(r.AsOfDate)); err != nil {
			errs = append(errs, "asOfDate must be in YYYY-MM-DD format")
		}
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

type AccrueAllRequest struct {
	AsOfDate string `json:"asOfDate,omitempty"`
	Actor    string `json:"-"`
}

func (r AccrueAllRequest) Validate() error {
	if strings.TrimSpace(r.AsOfDate) != "" {
		if _, err := time.Parse(DateLayout, strings.TrimSpace(r.AsOfDate)); err != nil {
			return errors.New("asOfDate must be in YYYY-MM-DD format")
		}
	}

	return nil
}

type AccrualResultResponse struct {
	ContractID     string `json:"contractId"`
	ContractNumber string `json:"contractNumber,omitempty"`
	Accrued        bool   `json:"accrued"`
	Interest       string `json:"interest,omitempty"`
	Days           int64  `json:"days,omitempty"`
	CurrentBalance string `json:"currentBalance,omitempty"`
}

type AccrueAllResponse struct {
	AsOfDate     string `json:"asOfDate"`
	OpenCount    int    `json:"openCount"`
	AccruedCount int    `json:"accruedCount"`
	FailedCount  int    `json:"failedCount"`
}
