package repo_interfaces

import (
	"context"
	"time"

	"github.com/api-sage/deposit-ledger/internal/domain"
)

// OperationRepository reads the append-only journal. All results are
// ordered by (operation_datetime, insertion order) ascending. Date
// range bounds are inclusive. There is no update, delete or
// free-standing append: journal writes happen only inside the contract
// mutations.
type OperationRepository interface {
	ListByContract(ctx context.Context, contractID string) ([]domain.Operation, error)
	ListByContractAndPeriod(ctx context.Context, contractID string, from, to time.Time) ([]domain.Operation, error)
	ListByType(ctx context.Context, opType domain.OperationType) ([]domain.Operation, error)
	ListByPeriod(ctx context.Context, from, to time.Time) ([]domain.Operation, error)
	ListByTypeAndPeriod(ctx context.Context, opType domain.OperationType, from, to time.Time) ([]domain.Operation, error)

	// LastAccrualDate returns the datetime of the contract's most
	// recent INTEREST_ACCRUAL operation, or nil when no accrual has
	// happened yet.
	LastAccrualDate(ctx context.Context, contractID string) (*time.Time, error)
}
