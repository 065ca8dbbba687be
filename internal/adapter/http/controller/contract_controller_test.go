package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/api-sage/deposit-ledger/internal/adapter/http/models"
	"github.com/api-sage/deposit-ledger/internal/adapter/http/router"
	"github.com/api-sage/deposit-ledger/internal/adapter/repository/memory"
	"github.com/api-sage/deposit-ledger/internal/domain"
	"github.com/api-sage/deposit-ledger/internal/usecase/services"
	"github.com/shopspring/decimal"
)

func newTestServer(t *testing.T) (*http.ServeMux, string, string) {
	t.Helper()

	ledger := memory.NewLedgerRepository()
	products := memory.NewProductRepository()
	customers := memory.NewCustomerRepository()
	users := memory.NewUserRepository()

	contractService := services.NewContractService(ledger, ledger, products, customers)
	userService := services.NewUserService(users)

	for _, u := range []models.CreateUserRequest{
		{Username: "manager", Password: "secret123", Role: "MANAGER"},
		{Username: "auditor", Password: "secret123", Role: "AUDITOR"},
	} {
		if _, err := userService.CreateUser(context.Background(), u); err != nil {
			t.Fatalf("seed user %s: %v", u.Username, err)
		}
	}

	customer, err := customers.Create(context.Background(), domain.Customer{
		LastName:       "Petrova",
		FirstName:      "Anna",
		DocumentNumber: "AB1234567",
	})
	if err != nil {
		t.Fatalf("seed customer: %v", err)
	}

	minAmount := decimal.RequireFromString("1000.00")
	product, err := products.Create(context.Background(), domain.Product{
		Name:               "Classic Savings",
		MinAmount:          &minAmount,
		BaseInterestRate:   decimal.RequireFromString("8.5"),
		AllowReplenishment: true,
	})
	if err != nil {
		t.Fatalf("seed product: %v", err)
	}

	mux := router.New(nil,
		NewContractController(contractService, userService),
		NewUserController(userService),
	)

	return mux, customer.ID, product.ID
}

func openContractBody(customerID, productID string) string {
	return `{"customerId":"` + customerID + `","productId":"` + productID + `","initialAmount":"5000.00","openDate":"2024-01-01"}`
}

func TestContractControllerOpenRequiresActor(t *testing.T) {
	mux, customerID, productID := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/contracts", strings.NewReader(openContractBody(customerID, productID)))
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d without X-Actor, got %d", http.StatusBadRequest, rr.Code)
	}
}

func TestContractControllerOpenRejectsUnauthorizedRole(t *testing.T) {
	mux, customerID, productID := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/contracts", strings.NewReader(openContractBody(customerID, productID)))
	req.Header.Set("X-Actor", "auditor")
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected status %d for auditor, got %d", http.StatusForbidden, rr.Code)
	}
}

func TestContractControllerOpenAndDeposit(t *testing.T) {
	mux, customerID, productID := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/contracts", strings.NewReader(openContractBody(customerID, productID)))
	req.Header.Set("X-Actor", "manager")
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rr.Code, rr.Body.String())
	}

	var opened struct {
		Data models.ContractResponse `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &opened); err != nil {
		t.Fatalf("decode open response: %v", err)
	}
	if opened.Data.Status != "OPEN" {
		t.Fatalf("expected OPEN contract, got %s", opened.Data.Status)
	}

	depositBody := `{"contractId":"` + opened.Data.ID + `","amount":"500.00"}`
	req = httptest.NewRequest(http.MethodPost, "/contracts/deposit", strings.NewReader(depositBody))
	req.Header.Set("X-Actor", "manager")
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rr.Code, rr.Body.String())
	}

	var deposited struct {
		Data models.ContractResponse `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &deposited); err != nil {
		t.Fatalf("decode deposit response: %v", err)
	}
	if deposited.Data.CurrentBalance != "5500.00" {
		t.Fatalf("expected balance 5500.00, got %s", deposited.Data.CurrentBalance)
	}
}

func TestContractControllerDetailsNotFound(t *testing.T) {
	mux, _, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/contracts/details?id=missing", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, rr.Code)
	}
}
