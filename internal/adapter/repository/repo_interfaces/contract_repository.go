package repo_interfaces

import (
	"context"
	"time"

	"github.com/api-sage/deposit-ledger/internal/domain"
	"github.com/shopspring/decimal"
)

// AccrualPlanFunc derives the interest entry for a contract from state
// read inside the atomic unit: the contract as locked for mutation and
// the datetime of its last INTEREST_ACCRUAL entry, nil when none
// exists. Returning a non-positive interest means nothing is due.
type AccrualPlanFunc func(contract domain.Contract, lastAccrual *time.Time) (interest decimal.Decimal, op domain.Operation)

// ContractRepository owns every atomic unit that touches a contract
// balance: each mutating method updates the contract row and inserts the
// paired journal operation in a single transaction. Either both are
// committed or neither is. Journal appends are not reachable any other
// way.
type ContractRepository interface {
	// CreateWithOpening persists a new contract together with its
	// OPENING operation.
	CreateWithOpening(ctx context.Context, contract domain.Contract, opening domain.Operation) (domain.Contract, error)

	GetByID(ctx context.Context, id string) (domain.Contract, error)
	List(ctx context.Context) ([]domain.Contract, error)
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Contract, error)
	ListByStatus(ctx context.Context, status domain.ContractStatus) ([]domain.Contract, error)
	NextContractNumber(ctx context.Context) (string, error)

	// ApplyDeposit adds amount to the balance of an OPEN contract. When
	// maxBalance is non-nil the resulting balance must not exceed it;
	// the guard is enforced inside the same transaction so a concurrent
	// mutation cannot slip the balance past the bound.
	ApplyDeposit(ctx context.Context, contractID string, amount decimal.Decimal, maxBalance *decimal.Decimal, op domain.Operation) (domain.Contract, error)

	// ApplyWithdrawal subtracts amount from the balance of an OPEN
	// contract. The balance may never go below zero, nor below
	// minBalance when non-nil.
	ApplyWithdrawal(ctx context.Context, contractID string, amount decimal.Decimal, minBalance *decimal.Decimal, op domain.Operation) (domain.Contract, error)

	// ApplyAccrual locks the contract for mutation, reads its last
	// accrual datetime under that lock, asks plan for the interest
	// entry and commits the balance change with the paired journal
	// append. Reading the base state inside the atomic unit is what
	// keeps a concurrent run for the same as-of date from posting a
	// second entry: the later run observes the first run's entry and
	// plans zero interest. When nothing is due the contract is
	// returned unchanged, nothing is written and accrued is false.
	ApplyAccrual(ctx context.Context, contractID string, plan AccrualPlanFunc) (contract domain.Contract, accrued bool, err error)

	// Close moves an OPEN contract to CLOSED, zeroes the balance and
	// records a CLOSING operation whose amount is the pre-close balance.
	// The recorded payout operation is returned alongside the contract.
	Close(ctx context.Context, contractID string, closeDate time.Time, closedAt time.Time, description string) (domain.Contract, domain.Operation, error)

	// SetStatus transitions the contract from one non-CLOSED status to
	// another (freeze/unfreeze) and records the paired operation.
	SetStatus(ctx context.Context, contractID string, from, to domain.ContractStatus, op domain.Operation) (domain.Contract, error)
}
