package services_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/api-sage/deposit-ledger/internal/adapter/http/models"
	"github.com/api-sage/deposit-ledger/internal/domain"
)

func TestContractServiceOpenContractValidationError(t *testing.T) {
	f := newFixture(t)

	_, err := f.contracts.OpenContract(context.Background(), models.OpenContractRequest{})
	if err == nil {
		t.Fatal("expected validation error for empty open request")
	}
}

func TestContractServiceOpenContractRejectsAmountBelowMinimum(t *testing.T) {
	f := newFixture(t)
	product := f.seedProduct(t, savingsProduct())

	_, err := f.contracts.OpenContract(context.Background(), models.OpenContractRequest{
		CustomerID:    f.customer.ID,
		ProductID:     product.ID,
		InitialAmount: dec("500.00"),
	})
	if !errors.Is(err, domain.ErrInvalidOperation) {
		t.Fatalf("expected ErrInvalidOperation, got %v", err)
	}
}

func TestContractServiceOpenContractUnknownCustomer(t *testing.T) {
	f := newFixture(t)
	product := f.seedProduct(t, savingsProduct())

	_, err := f.contracts.OpenContract(context.Background(), models.OpenContractRequest{
		CustomerID:    "missing",
		ProductID:     product.ID,
		InitialAmount: dec("5000.00"),
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestContractServiceOpenContractRecordsOpeningOperation(t *testing.T) {
	f := newFixture(t)
	product := f.seedProduct(t, savingsProduct())

	contract := f.openContract(t, product, "5000.00", "2024-01-01")

	if contract.Status != "OPEN" {
		t.Fatalf("expected OPEN status, got %s", contract.Status)
	}
	if contract.ContractNumber != "D-000001" {
		t.Fatalf("unexpected contract number %s", contract.ContractNumber)
	}
	if contract.CurrentBalance != "5000.00" {
		t.Fatalf("unexpected balance %s", contract.CurrentBalance)
	}

	operations, err := f.ledger.ListByContract(context.Background(), contract.ID)
	if err != nil {
		t.Fatalf("list operations: %v", err)
	}
	if len(operations) != 1 {
		t.Fatalf("expected 1 journal entry, got %d", len(operations))
	}
	if operations[0].Type != domain.OperationTypeOpening {
		t.Fatalf("expected OPENING entry, got %s", operations[0].Type)
	}
	if !operations[0].Amount.Equal(dec("5000.00")) {
		t.Fatalf("unexpected OPENING amount %s", operations[0].Amount)
	}
}

func TestContractServiceDepositAndWithdraw(t *testing.T) {
	f := newFixture(t)
	product := f.seedProduct(t, savingsProduct())
	contract := f.openContract(t, product, "5000.00", "2024-01-01")

	deposited, err := f.contracts.Deposit(context.Background(), models.DepositRequest{
		ContractID: contract.ID,
		Amount:     dec("2500.00"),
	})
	if err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if deposited.Data.CurrentBalance != "7500.00" {
		t.Fatalf("expected balance 7500.00, got %s", deposited.Data.CurrentBalance)
	}

	withdrawn, err := f.contracts.Withdraw(context.Background(), models.WithdrawRequest{
		ContractID: contract.ID,
		Amount:     dec("3000.00"),
	})
	if err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if withdrawn.Data.CurrentBalance != "4500.00" {
		t.Fatalf("expected balance 4500.00, got %s", withdrawn.Data.CurrentBalance)
	}
}

func TestContractServiceDepositRejectedWhenReplenishmentNotAllowed(t *testing.T) {
	f := newFixture(t)
	product := f.seedProduct(t, fixedTermProduct())
	contract := f.openContract(t, product, "100000.00", "2024-01-01")

	_, err := f.contracts.Deposit(context.Background(), models.DepositRequest{
		ContractID: contract.ID,
		Amount:     dec("1000.00"),
	})
	if !errors.Is(err, domain.ErrInvalidOperation) {
		t.Fatalf("expected ErrInvalidOperation, got %v", err)
	}
}

func TestContractServiceDepositRejectedAboveProductMaximum(t *testing.T) {
	f := newFixture(t)
	product := fixedTermProduct()
	product.AllowReplenishment = true
	seeded := f.seedProduct(t, product)
	contract := f.openContract(t, seeded, "450000.00", "2024-01-01")

	_, err := f.contracts.Deposit(context.Background(), models.DepositRequest{
		ContractID: contract.ID,
		Amount:     dec("100000.00"),
	})
	if !errors.Is(err, domain.ErrInvalidOperation) {
		t.Fatalf("expected ErrInvalidOperation, got %v", err)
	}
}

func TestContractServiceWithdrawRejectedBelowProductMinimum(t *testing.T) {
	f := newFixture(t)
	product := f.seedProduct(t, savingsProduct())
	contract := f.openContract(t, product, "1500.00", "2024-01-01")

	_, err := f.contracts.Withdraw(context.Background(), models.WithdrawRequest{
		ContractID: contract.ID,
		Amount:     dec("600.00"),
	})
	if !errors.Is(err, domain.ErrInvalidOperation) {
		t.Fatalf("expected ErrInvalidOperation, got %v", err)
	}
}

func TestContractServiceWithdrawRejectedOnInsufficientFunds(t *testing.T) {
	f := newFixture(t)
	product := savingsProduct()
	product.MinAmount = nil
	seeded := f.seedProduct(t, product)
	contract := f.openContract(t, seeded, "1000.00", "2024-01-01")

	_, err := f.contracts.Withdraw(context.Background(), models.WithdrawRequest{
		ContractID: contract.ID,
		Amount:     dec("1000.01"),
	})
	if !errors.Is(err, domain.ErrInvalidOperation) {
		t.Fatalf("expected ErrInvalidOperation, got %v", err)
	}
}

func TestContractServiceCloseContractPaysOutFullBalance(t *testing.T) {
	f := newFixture(t)
	product := f.seedProduct(t, savingsProduct())
	contract := f.openContract(t, product, "5000.00", "2024-01-01")

	closed, err := f.contracts.CloseContract(context.Background(), models.CloseContractRequest{
		ContractID: contract.ID,
		CloseDate:  "2024-06-01",
	})
	if err != nil {
		t.Fatalf("close contract: %v", err)
	}
	if closed.Data.Status != "CLOSED" {
		t.Fatalf("expected CLOSED, got %s", closed.Data.Status)
	}
	if closed.Data.CurrentBalance != "0.00" {
		t.Fatalf("expected zero balance, got %s", closed.Data.CurrentBalance)
	}
	if closed.Data.CloseDate != "2024-06-01" {
		t.Fatalf("unexpected close date %s", closed.Data.CloseDate)
	}

	operations, err := f.ledger.ListByContract(context.Background(), contract.ID)
	if err != nil {
		t.Fatalf("list operations: %v", err)
	}
	last := operations[len(operations)-1]
	if last.Type != domain.OperationTypeClosing {
		t.Fatalf("expected CLOSING entry, got %s", last.Type)
	}
	if !last.Amount.Equal(dec("5000.00")) {
		t.Fatalf("expected payout 5000.00, got %s", last.Amount)
	}
}

func TestContractServiceMoneyOperationsRejectedAfterClose(t *testing.T) {
	f := newFixture(t)
	product := f.seedProduct(t, savingsProduct())
	contract := f.openContract(t, product, "5000.00", "2024-01-01")

	if _, err := f.contracts.CloseContract(context.Background(), models.CloseContractRequest{ContractID: contract.ID}); err != nil {
		t.Fatalf("close contract: %v", err)
	}

	if _, err := f.contracts.Deposit(context.Background(), models.DepositRequest{
		ContractID: contract.ID,
		Amount:     dec("100.00"),
	}); !errors.Is(err, domain.ErrInvalidOperation) {
		t.Fatalf("expected deposit on closed contract to fail, got %v", err)
	}

	if _, err := f.contracts.CloseContract(context.Background(), models.CloseContractRequest{
		ContractID: contract.ID,
	}); !errors.Is(err, domain.ErrInvalidOperation) {
		t.Fatalf("expected second close to fail, got %v", err)
	}
}

func TestContractServiceFreezeAndUnfreeze(t *testing.T) {
	f := newFixture(t)
	product := f.seedProduct(t, savingsProduct())
	contract := f.openContract(t, product, "5000.00", "2024-01-01")

	frozen, err := f.contracts.FreezeContract(context.Background(), models.ContractStatusRequest{ContractID: contract.ID})
	if err != nil {
		t.Fatalf("freeze: %v", err)
	}
	if frozen.Data.Status != "FROZEN" {
		t.Fatalf("expected FROZEN, got %s", frozen.Data.Status)
	}

	if _, err := f.contracts.Deposit(context.Background(), models.DepositRequest{
		ContractID: contract.ID,
		Amount:     dec("100.00"),
	}); !errors.Is(err, domain.ErrInvalidOperation) {
		t.Fatalf("expected deposit on frozen contract to fail, got %v", err)
	}

	unfrozen, err := f.contracts.UnfreezeContract(context.Background(), models.ContractStatusRequest{ContractID: contract.ID})
	if err != nil {
		t.Fatalf("unfreeze: %v", err)
	}
	if unfrozen.Data.Status != "OPEN" {
		t.Fatalf("expected OPEN, got %s", unfrozen.Data.Status)
	}

	if _, err := f.contracts.UnfreezeContract(context.Background(), models.ContractStatusRequest{ContractID: contract.ID}); !errors.Is(err, domain.ErrInvalidOperation) {
		t.Fatalf("expected unfreeze of OPEN contract to fail, got %v", err)
	}
}

func TestContractServiceJournalReplayMatchesBalance(t *testing.T) {
	f := newFixture(t)
	product := f.seedProduct(t, savingsProduct())
	contract := f.openContract(t, product, "5000.00", "2024-01-01")

	steps := []struct {
		deposit bool
		amount  string
	}{
		{true, "1200.50"},
		{true, "99.99"},
		{false, "2000.00"},
		{true, "345.67"},
		{false, "1500.25"},
	}

	for _, step := range steps {
		var err error
		if step.deposit {
			_, err = f.contracts.Deposit(context.Background(), models.DepositRequest{ContractID: contract.ID, Amount: dec(step.amount)})
		} else {
			_, err = f.contracts.Withdraw(context.Background(), models.WithdrawRequest{ContractID: contract.ID, Amount: dec(step.amount)})
		}
		if err != nil {
			t.Fatalf("apply step %+v: %v", step, err)
		}
	}

	audit, err := f.contracts.VerifyContractBalance(context.Background(), contract.ID)
	if err != nil {
		t.Fatalf("verify balance: %v", err)
	}
	if !audit.Data.Consistent {
		t.Fatalf("journal replay %s does not match balance %s", audit.Data.ReplayedBalance, audit.Data.CurrentBalance)
	}
	if audit.Data.CurrentBalance != "3145.91" {
		t.Fatalf("unexpected balance %s", audit.Data.CurrentBalance)
	}
}

func TestContractServiceJournalReplayAfterCloseIsZero(t *testing.T) {
	f := newFixture(t)
	product := f.seedProduct(t, savingsProduct())
	contract := f.openContract(t, product, "5000.00", "2024-01-01")

	if _, err := f.contracts.Deposit(context.Background(), models.DepositRequest{ContractID: contract.ID, Amount: dec("250.00")}); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if _, err := f.contracts.CloseContract(context.Background(), models.CloseContractRequest{ContractID: contract.ID}); err != nil {
		t.Fatalf("close: %v", err)
	}

	audit, err := f.contracts.VerifyContractBalance(context.Background(), contract.ID)
	if err != nil {
		t.Fatalf("verify balance: %v", err)
	}
	if !audit.Data.Consistent {
		t.Fatalf("journal replay %s does not match balance %s", audit.Data.ReplayedBalance, audit.Data.CurrentBalance)
	}
	if audit.Data.ReplayedBalance != "0.00" {
		t.Fatalf("expected replayed balance 0.00, got %s", audit.Data.ReplayedBalance)
	}
}

func TestContractServiceConcurrentDepositsKeepJournalConsistent(t *testing.T) {
	f := newFixture(t)
	product := f.seedProduct(t, savingsProduct())
	contract := f.openContract(t, product, "5000.00", "2024-01-01")

	const workers = 10

	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.contracts.Deposit(context.Background(), models.DepositRequest{
				ContractID: contract.ID,
				Amount:     dec("10.00"),
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent deposit: %v", err)
		}
	}

	audit, err := f.contracts.VerifyContractBalance(context.Background(), contract.ID)
	if err != nil {
		t.Fatalf("verify balance: %v", err)
	}
	if audit.Data.CurrentBalance != "5100.00" {
		t.Fatalf("expected balance 5100.00, got %s", audit.Data.CurrentBalance)
	}
	if !audit.Data.Consistent {
		t.Fatalf("journal replay %s does not match balance %s", audit.Data.ReplayedBalance, audit.Data.CurrentBalance)
	}

	operations, err := f.ledger.ListByContract(context.Background(), contract.ID)
	if err != nil {
		t.Fatalf("list operations: %v", err)
	}
	if len(operations) != workers+1 {
		t.Fatalf("expected %d journal entries, got %d", workers+1, len(operations))
	}
}

func TestContractServiceListOperationsFiltersByTypeAndPeriod(t *testing.T) {
	f := newFixture(t)
	product := f.seedProduct(t, savingsProduct())
	contract := f.openContract(t, product, "5000.00", "2024-01-01")

	for i := 0; i < 3; i++ {
		if _, err := f.contracts.Deposit(context.Background(), models.DepositRequest{
			ContractID: contract.ID,
			Amount:     dec("100.00"),
		}); err != nil {
			t.Fatalf("deposit %d: %v", i, err)
		}
	}

	response, err := f.contracts.ListOperations(context.Background(), contract.ID, "", "", "DEPOSIT")
	if err != nil {
		t.Fatalf("list operations: %v", err)
	}
	if len(*response.Data) != 3 {
		t.Fatalf("expected 3 DEPOSIT entries, got %d", len(*response.Data))
	}
	for _, op := range *response.Data {
		if op.Type != "DEPOSIT" {
			t.Fatalf("unexpected type %s in filtered result", op.Type)
		}
		if op.ContractNumber != contract.ContractNumber {
			t.Fatalf("unexpected contract number %s", op.ContractNumber)
		}
	}

	_, err = f.contracts.ListOperations(context.Background(), contract.ID, "", "", "BOGUS")
	if err == nil {
		t.Fatal("expected error for unknown operation type")
	}

	empty, err := f.contracts.ListOperations(context.Background(), contract.ID, "1999-01-01", "1999-12-31", "")
	if err != nil {
		t.Fatalf("list operations with past period: %v", err)
	}
	if len(*empty.Data) != 0 {
		t.Fatalf("expected no entries in past period, got %d", len(*empty.Data))
	}
}

func TestContractServiceListContractsByCustomer(t *testing.T) {
	f := newFixture(t)
	product := f.seedProduct(t, savingsProduct())

	for i := 0; i < 2; i++ {
		f.openContract(t, product, fmt.Sprintf("%d000.00", i+5), "2024-01-01")
	}

	response, err := f.contracts.ListContractsByCustomer(context.Background(), f.customer.ID)
	if err != nil {
		t.Fatalf("list by customer: %v", err)
	}
	if len(*response.Data) != 2 {
		t.Fatalf("expected 2 contracts, got %d", len(*response.Data))
	}
	if (*response.Data)[0].CustomerName != "Petrova Anna" {
		t.Fatalf("unexpected customer name %s", (*response.Data)[0].CustomerName)
	}

	_, err = f.contracts.ListContractsByCustomer(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown customer, got %v", err)
	}
}
