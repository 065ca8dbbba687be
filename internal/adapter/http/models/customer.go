package models

import (
	"errors"
	"strings"
)

type CreateCustomerRequest struct {
	LastName       string `json:"lastName"`
	FirstName      string `json:"firstName"`
	MiddleName     string `json:"middleName,omitempty"`
	DocumentNumber string `json:"documentNumber"`
	Phone          string `json:"phone,omitempty"`
	Email          string `json:"email,omitempty"`
}

func (r CreateCustomerRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.LastName) == "" {
		errs = append(errs, "lastName is required")
	}
	if strings.TrimSpace(r.FirstName) == "" {
		errs = append(errs, "firstName is required")
	}
	if strings.TrimSpace(r.DocumentNumber) == "" {
		errs = append(errs, "documentNumber is required")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

type CustomerResponse struct {
	ID             string `json:"id"`
	LastName       string `json:"lastName"`
	FirstName      string `json:"firstName"`
	MiddleName     string `json:"middleName,omitempty"`
	FullName       string `json:"fullName"`
	DocumentNumber string `json:"documentNumber"`
	Phone          string `json:"phone,omitempty"`
	Email          string `json:"email,omitempty"`
	CreatedAt      string `json:"createdAt"`
	UpdatedAt      string `json:"updatedAt"`
}
