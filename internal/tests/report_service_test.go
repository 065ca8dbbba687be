package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/api-sage/deposit-ledger/internal/adapter/http/models"
	"github.com/api-sage/deposit-ledger/internal/domain"
)

func TestReportServiceOperationsReportByType(t *testing.T) {
	f := newFixture(t)
	product := f.seedProduct(t, savingsProduct())
	contract := f.openContract(t, product, "5000.00", "2024-01-01")

	if _, err := f.contracts.Deposit(context.Background(), models.DepositRequest{
		ContractID: contract.ID,
		Amount:     dec("500.00"),
	}); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if _, err := f.contracts.Withdraw(context.Background(), models.WithdrawRequest{
		ContractID: contract.ID,
		Amount:     dec("300.00"),
	}); err != nil {
		t.Fatalf("withdraw: %v", err)
	}

	response, err := f.reports.OperationsReport(context.Background(), "", "", "WITHDRAWAL", "")
	if err != nil {
		t.Fatalf("operations report: %v", err)
	}
	rows := *response.Data
	if len(rows) != 1 {
		t.Fatalf("expected 1 WITHDRAWAL row, got %d", len(rows))
	}
	if rows[0].Amount != "300.00" {
		t.Fatalf("unexpected amount %s", rows[0].Amount)
	}
	if rows[0].ContractNumber != contract.ContractNumber {
		t.Fatalf("unexpected contract number %s", rows[0].ContractNumber)
	}
}

func TestReportServiceOperationsReportByCustomer(t *testing.T) {
	f := newFixture(t)
	product := f.seedProduct(t, savingsProduct())
	f.openContract(t, product, "5000.00", "2024-01-01")

	other, err := f.customers.Create(context.Background(), domain.Customer{
		LastName:       "Sidorov",
		FirstName:      "Ivan",
		DocumentNumber: "EF0000001",
	})
	if err != nil {
		t.Fatalf("seed second customer: %v", err)
	}

	if _, err := f.contracts.OpenContract(context.Background(), models.OpenContractRequest{
		CustomerID:    other.ID,
		ProductID:     product.ID,
		InitialAmount: dec("7000.00"),
		OpenDate:      "2024-01-02",
	}); err != nil {
		t.Fatalf("open second contract: %v", err)
	}

	response, err := f.reports.OperationsReport(context.Background(), "", "", "", other.ID)
	if err != nil {
		t.Fatalf("operations report: %v", err)
	}
	rows := *response.Data
	if len(rows) != 1 {
		t.Fatalf("expected 1 row for second customer, got %d", len(rows))
	}
	if rows[0].Type != "OPENING" {
		t.Fatalf("unexpected type %s", rows[0].Type)
	}
	if rows[0].Amount != "7000.00" {
		t.Fatalf("unexpected amount %s", rows[0].Amount)
	}

	_, err = f.reports.OperationsReport(context.Background(), "", "", "", "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown customer, got %v", err)
	}
}

func TestReportServiceOperationsReportRejectsBadFilters(t *testing.T) {
	f := newFixture(t)

	if _, err := f.reports.OperationsReport(context.Background(), "2024-13-99", "", "", ""); err == nil {
		t.Fatal("expected error for malformed fromDate")
	}
	if _, err := f.reports.OperationsReport(context.Background(), "2024-02-01", "2024-01-01", "", ""); err == nil {
		t.Fatal("expected error when toDate precedes fromDate")
	}
	if _, err := f.reports.OperationsReport(context.Background(), "", "", "TRANSFER", ""); err == nil {
		t.Fatal("expected error for unknown operation type")
	}
}

func TestReportServiceContractsByCustomerActiveOnly(t *testing.T) {
	f := newFixture(t)
	product := f.seedProduct(t, savingsProduct())

	open := f.openContract(t, product, "5000.00", "2024-01-01")
	closed := f.openContract(t, product, "6000.00", "2024-01-01")

	if _, err := f.contracts.CloseContract(context.Background(), models.CloseContractRequest{ContractID: closed.ID}); err != nil {
		t.Fatalf("close: %v", err)
	}

	all, err := f.reports.ContractsByCustomer(context.Background(), f.customer.ID, false)
	if err != nil {
		t.Fatalf("contracts by customer: %v", err)
	}
	if len(*all.Data) != 2 {
		t.Fatalf("expected 2 contracts, got %d", len(*all.Data))
	}

	active, err := f.reports.ContractsByCustomer(context.Background(), f.customer.ID, true)
	if err != nil {
		t.Fatalf("contracts by customer active only: %v", err)
	}
	rows := *active.Data
	if len(rows) != 1 {
		t.Fatalf("expected 1 active contract, got %d", len(rows))
	}
	if rows[0].ID != open.ID {
		t.Fatalf("unexpected contract %s in active list", rows[0].ID)
	}
}
