package memory

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/api-sage/deposit-ledger/internal/domain"
	"github.com/shopspring/decimal"
)

func seedContract(t *testing.T, r *LedgerRepository, balance string) domain.Contract {
	t.Helper()

	amount := decimal.RequireFromString(balance)
	contract, err := r.CreateWithOpening(context.Background(), domain.Contract{
		ContractNumber: "D-000001",
		CustomerID:     "customer-1",
		ProductID:      "product-1",
		Status:         domain.ContractStatusOpen,
		OpenDate:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		InitialAmount:  amount,
		CurrentBalance: amount,
		InterestRate:   decimal.RequireFromString("8.5"),
	}, domain.Operation{
		OperationDateTime: time.Now(),
		Type:              domain.OperationTypeOpening,
		Amount:            amount,
		Description:       "Contract opened, initial deposit placed",
	})
	if err != nil {
		t.Fatalf("seed contract: %v", err)
	}
	return contract
}

func withdrawalOp(amount decimal.Decimal) domain.Operation {
	return domain.Operation{
		OperationDateTime: time.Now(),
		Type:              domain.OperationTypeWithdrawal,
		Amount:            amount,
		Description:       "Partial withdrawal",
	}
}

func TestLedgerRepositoryWithdrawalGuardDistinguishesFloorFromFunds(t *testing.T) {
	r := NewLedgerRepository()
	contract := seedContract(t, r, "5000.00")
	minBalance := decimal.RequireFromString("1000.00")

	amount := decimal.RequireFromString("4500.00")
	_, err := r.ApplyWithdrawal(context.Background(), contract.ID, amount, &minBalance, withdrawalOp(amount))
	if !errors.Is(err, domain.ErrInvalidOperation) {
		t.Fatalf("expected ErrInvalidOperation, got %v", err)
	}
	if !strings.Contains(err.Error(), "below the product minimum") {
		t.Fatalf("expected the product-minimum message, got %q", err.Error())
	}

	amount = decimal.RequireFromString("6000.00")
	_, err = r.ApplyWithdrawal(context.Background(), contract.ID, amount, &minBalance, withdrawalOp(amount))
	if !errors.Is(err, domain.ErrInvalidOperation) {
		t.Fatalf("expected ErrInvalidOperation, got %v", err)
	}
	if !strings.Contains(err.Error(), "insufficient funds") {
		t.Fatalf("expected the insufficient-funds message, got %q", err.Error())
	}
}

func TestLedgerRepositoryApplyAccrualPlansAgainstCommittedState(t *testing.T) {
	r := NewLedgerRepository()
	contract := seedContract(t, r, "100000.00")

	firstEntry := time.Date(2024, 1, 31, 12, 0, 0, 0, time.UTC)
	interest := decimal.RequireFromString("698.63")

	_, accrued, err := r.ApplyAccrual(context.Background(), contract.ID, func(c domain.Contract, lastAccrual *time.Time) (decimal.Decimal, domain.Operation) {
		if lastAccrual != nil {
			t.Errorf("expected no prior accrual, got %v", *lastAccrual)
		}
		return interest, domain.Operation{
			OperationDateTime: firstEntry,
			Type:              domain.OperationTypeInterestAccrual,
			Amount:            interest,
			Description:       "Interest accrued for 30 days",
		}
	})
	if err != nil {
		t.Fatalf("first accrual: %v", err)
	}
	if !accrued {
		t.Fatal("expected first accrual to post")
	}

	updated, accrued, err := r.ApplyAccrual(context.Background(), contract.ID, func(c domain.Contract, lastAccrual *time.Time) (decimal.Decimal, domain.Operation) {
		if lastAccrual == nil || !lastAccrual.Equal(firstEntry) {
			t.Errorf("expected last accrual %v, got %v", firstEntry, lastAccrual)
		}
		if !c.CurrentBalance.Equal(decimal.RequireFromString("100698.63")) {
			t.Errorf("expected planned balance 100698.63, got %s", c.CurrentBalance)
		}
		return decimal.Zero, domain.Operation{}
	})
	if err != nil {
		t.Fatalf("second accrual: %v", err)
	}
	if accrued {
		t.Fatal("expected zero-interest plan to post nothing")
	}

	operations, err := r.ListByType(context.Background(), domain.OperationTypeInterestAccrual)
	if err != nil {
		t.Fatalf("list accrual entries: %v", err)
	}
	if len(operations) != 1 {
		t.Fatalf("expected 1 accrual entry, got %d", len(operations))
	}
	if !updated.CurrentBalance.Equal(decimal.RequireFromString("100698.63")) {
		t.Fatalf("expected balance 100698.63, got %s", updated.CurrentBalance)
	}
}
