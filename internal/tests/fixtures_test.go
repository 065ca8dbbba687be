package services_test

import (
	"context"
	"testing"

	"github.com/api-sage/deposit-ledger/internal/adapter/http/models"
	"github.com/api-sage/deposit-ledger/internal/adapter/repository/memory"
	"github.com/api-sage/deposit-ledger/internal/domain"
	"github.com/api-sage/deposit-ledger/internal/usecase/services"
	"github.com/shopspring/decimal"
)

type fixture struct {
	ledger    *memory.LedgerRepository
	products  *memory.ProductRepository
	customers *memory.CustomerRepository
	users     *memory.UserRepository

	contracts *services.ContractService
	accrual   *services.AccrualService
	reports   *services.ReportService

	customer domain.Customer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		ledger:    memory.NewLedgerRepository(),
		products:  memory.NewProductRepository(),
		customers: memory.NewCustomerRepository(),
		users:     memory.NewUserRepository(),
	}

	f.contracts = services.NewContractService(f.ledger, f.ledger, f.products, f.customers)
	f.accrual = services.NewAccrualService(f.ledger)
	f.reports = services.NewReportService(f.ledger, f.ledger, f.customers, f.products)

	customer, err := f.customers.Create(context.Background(), domain.Customer{
		LastName:       "Petrova",
		FirstName:      "Anna",
		DocumentNumber: "AB1234567",
	})
	if err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	f.customer = customer

	return f
}

func (f *fixture) seedProduct(t *testing.T, product domain.Product) domain.Product {
	t.Helper()

	created, err := f.products.Create(context.Background(), product)
	if err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return created
}

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func decPtr(value string) *decimal.Decimal {
	d := decimal.RequireFromString(value)
	return &d
}

// savingsProduct allows replenishment and partial withdrawal with a
// 1000.00 floor and 8.5% annual rate.
func savingsProduct() domain.Product {
	return domain.Product{
		Name:                   "Classic Savings",
		MinAmount:              decPtr("1000.00"),
		TermMonths:             12,
		BaseInterestRate:       dec("8.5"),
		AllowReplenishment:     true,
		AllowPartialWithdrawal: true,
	}
}

// fixedTermProduct forbids replenishment and withdrawal and caps the
// balance at 500000.00.
func fixedTermProduct() domain.Product {
	return domain.Product{
		Name:             "Fixed Term",
		MinAmount:        decPtr("50000.00"),
		MaxAmount:        decPtr("500000.00"),
		TermMonths:       6,
		BaseInterestRate: dec("11"),
	}
}

func (f *fixture) openContract(t *testing.T, product domain.Product, initialAmount, openDate string) models.ContractResponse {
	t.Helper()

	response, err := f.contracts.OpenContract(context.Background(), models.OpenContractRequest{
		CustomerID:    f.customer.ID,
		ProductID:     product.ID,
		InitialAmount: dec(initialAmount),
		OpenDate:      openDate,
		Actor:         "manager",
	})
	if err != nil {
		t.Fatalf("open contract: %v", err)
	}
	if response.Data == nil {
		t.Fatal("open contract returned no data")
	}
	return *response.Data
}
