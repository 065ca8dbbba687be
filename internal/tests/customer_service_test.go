package services_test

import (
	"context"
	"testing"

	"github.com/api-sage/deposit-ledger/internal/adapter/http/models"
	"github.com/api-sage/deposit-ledger/internal/adapter/repository/memory"
	"github.com/api-sage/deposit-ledger/internal/usecase/services"
)

func TestCustomerServiceCreateValidationError(t *testing.T) {
	svc := services.NewCustomerService(memory.NewCustomerRepository())

	_, err := svc.CreateCustomer(context.Background(), models.CreateCustomerRequest{})
	if err == nil {
		t.Fatal("expected validation error for empty create customer request")
	}
}

func TestCustomerServiceCreateAndSearch(t *testing.T) {
	svc := services.NewCustomerService(memory.NewCustomerRepository())

	created, err := svc.CreateCustomer(context.Background(), models.CreateCustomerRequest{
		LastName:       "Ivanov",
		FirstName:      "Pyotr",
		MiddleName:     "Sergeevich",
		DocumentNumber: "CD7654321",
	})
	if err != nil {
		t.Fatalf("create customer: %v", err)
	}
	if created.Data.FullName != "Ivanov Pyotr Sergeevich" {
		t.Fatalf("unexpected full name %s", created.Data.FullName)
	}

	found, err := svc.SearchCustomers(context.Background(), "iva")
	if err != nil {
		t.Fatalf("search customers: %v", err)
	}
	if len(*found.Data) != 1 {
		t.Fatalf("expected 1 match, got %d", len(*found.Data))
	}

	none, err := svc.SearchCustomers(context.Background(), "petrov")
	if err != nil {
		t.Fatalf("search customers: %v", err)
	}
	if len(*none.Data) != 0 {
		t.Fatalf("expected no matches, got %d", len(*none.Data))
	}
}
