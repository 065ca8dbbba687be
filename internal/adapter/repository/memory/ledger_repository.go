package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/api-sage/deposit-ledger/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/deposit-ledger/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerRepository is an in-memory contract + journal store used by
// tests and local runs. It implements both ContractRepository and
// OperationRepository: the two stores share one atomic unit, the same
// way the Postgres implementation pairs them in one transaction.
//
// Same-contract mutations serialize on a per-contract mutex; mutations
// against different contracts proceed in parallel.
type LedgerRepository struct {
	mu         sync.RWMutex
	contracts  map[string]domain.Contract
	operations []domain.Operation

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex

	numberMu   sync.Mutex
	nextNumber int64
}

func NewLedgerRepository() *LedgerRepository {
	return &LedgerRepository{
		contracts: make(map[string]domain.Contract),
		locks:     make(map[string]*sync.Mutex),
	}
}

func (r *LedgerRepository) contractLock(contractID string) *sync.Mutex {
	r.locksMu.Lock()
	defer r.locksMu.Unlock()

	lock, ok := r.locks[contractID]
	if !ok {
		lock = &sync.Mutex{}
		r.locks[contractID] = lock
	}
	return lock
}

func (r *LedgerRepository) CreateWithOpening(_ context.Context, contract domain.Contract, opening domain.Operation) (domain.Contract, error) {
	now := time.Now()
	contract.ID = uuid.NewString()
	contract.CreatedAt = now
	contract.UpdatedAt = now

	opening.ID = uuid.NewString()
	opening.ContractID = contract.ID
	opening.CreatedAt = now

	r.mu.Lock()
	defer r.mu.Unlock()

	r.contracts[contract.ID] = contract
	r.operations = append(r.operations, opening)

	return contract, nil
}

func (r *LedgerRepository) GetByID(_ context.Context, id string) (domain.Contract, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	contract, ok := r.contracts[id]
	if !ok {
		return domain.Contract{}, domain.ErrNotFound
	}
	return contract, nil
}

func (r *LedgerRepository) List(_ context.Context) ([]domain.Contract, error) {
	return r.filterContracts(func(domain.Contract) bool { return true }), nil
}

func (r *LedgerRepository) ListByCustomer(_ context.Context, customerID string) ([]domain.Contract, error) {
	return r.filterContracts(func(c domain.Contract) bool { return c.CustomerID == customerID }), nil
}

func (r *LedgerRepository) ListByStatus(_ context.Context, status domain.ContractStatus) ([]domain.Contract, error) {
	return r.filterContracts(func(c domain.Contract) bool { return c.Status == status }), nil
}

func (r *LedgerRepository) filterContracts(keep func(domain.Contract) bool) []domain.Contract {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var contracts []domain.Contract
	for _, contract := range r.contracts {
		if keep(contract) {
			contracts = append(contracts, contract)
		}
	}

	sort.Slice(contracts, func(i, j int) bool {
		if !contracts[i].OpenDate.Equal(contracts[j].OpenDate) {
			return contracts[i].OpenDate.Before(contracts[j].OpenDate)
		}
		return contracts[i].ContractNumber < contracts[j].ContractNumber
	})

	return contracts
}

func (r *LedgerRepository) NextContractNumber(_ context.Context) (string, error) {
	r.numberMu.Lock()
	defer r.numberMu.Unlock()

	r.nextNumber++
	return fmt.Sprintf("D-%06d", r.nextNumber), nil
}

func (r *LedgerRepository) ApplyDeposit(ctx context.Context, contractID string, amount decimal.Decimal, maxBalance *decimal.Decimal, op domain.Operation) (domain.Contract, error) {
	return r.mutate(ctx, contractID, op, func(contract *domain.Contract) error {
		next := contract.CurrentBalance.Add(amount)
		if maxBalance != nil && next.GreaterThan(*maxBalance) {
			return fmt.Errorf("%w: deposit amount would exceed the product maximum", domain.ErrInvalidOperation)
		}
		contract.CurrentBalance = next
		return nil
	})
}

func (r *LedgerRepository) ApplyWithdrawal(ctx context.Context, contractID string, amount decimal.Decimal, minBalance *decimal.Decimal, op domain.Operation) (domain.Contract, error) {
	return r.mutate(ctx, contractID, op, func(contract *domain.Contract) error {
		next := contract.CurrentBalance.Sub(amount)
		if next.IsNegative() {
			return fmt.Errorf("%w: insufficient funds for withdrawal", domain.ErrInvalidOperation)
		}
		if minBalance != nil && next.LessThan(*minBalance) {
			return fmt.Errorf("%w: withdrawal would bring the balance below the product minimum of %s", domain.ErrInvalidOperation, minBalance.StringFixed(2))
		}
		contract.CurrentBalance = next
		return nil
	})
}

// ApplyAccrual holds the contract lock across the whole read-plan-commit
// sequence, so the balance and last accrual datetime handed to plan are
// the ones the committed entry is based on.
func (r *LedgerRepository) ApplyAccrual(_ context.Context, contractID string, plan repo_interfaces.AccrualPlanFunc) (domain.Contract, bool, error) {
	lock := r.contractLock(contractID)
	lock.Lock()
	defer lock.Unlock()

	r.mu.RLock()
	contract, ok := r.contracts[contractID]
	r.mu.RUnlock()
	if !ok {
		return domain.Contract{}, false, domain.ErrNotFound
	}

	if contract.Status != domain.ContractStatusOpen {
		return domain.Contract{}, false, fmt.Errorf("%w: interest accrual is allowed only for OPEN contracts, contract %s is %s", domain.ErrInvalidOperation, contract.ContractNumber, contract.Status)
	}

	interest, op := plan(contract, r.lastAccrual(contractID))
	if !interest.IsPositive() {
		return contract, false, nil
	}

	now := time.Now()
	contract.CurrentBalance = contract.CurrentBalance.Add(interest)
	contract.UpdatedAt = now

	op.ID = uuid.NewString()
	op.ContractID = contractID
	op.CreatedAt = now

	r.mu.Lock()
	r.contracts[contractID] = contract
	r.operations = append(r.operations, op)
	r.mu.Unlock()

	return contract, true, nil
}

// mutate serializes on the contract's lock, applies fn to a copy and
// commits contract + operation together only when fn succeeds.
func (r *LedgerRepository) mutate(_ context.Context, contractID string, op domain.Operation, fn func(*domain.Contract) error) (domain.Contract, error) {
	lock := r.contractLock(contractID)
	lock.Lock()
	defer lock.Unlock()

	r.mu.RLock()
	contract, ok := r.contracts[contractID]
	r.mu.RUnlock()
	if !ok {
		return domain.Contract{}, domain.ErrNotFound
	}

	if contract.Status != domain.ContractStatusOpen {
		return domain.Contract{}, fmt.Errorf("%w: operation is allowed only for OPEN contracts, contract %s is %s", domain.ErrInvalidOperation, contract.ContractNumber, contract.Status)
	}

	if err := fn(&contract); err != nil {
		return domain.Contract{}, err
	}

	now := time.Now()
	contract.UpdatedAt = now

	op.ID = uuid.NewString()
	op.ContractID = contractID
	op.CreatedAt = now

	r.mu.Lock()
	r.contracts[contractID] = contract
	r.operations = append(r.operations, op)
	r.mu.Unlock()

	return contract, nil
}

func (r *LedgerRepository) Close(_ context.Context, contractID string, closeDate time.Time, closedAt time.Time, description string) (domain.Contract, domain.Operation, error) {
	lock := r.contractLock(contractID)
	lock.Lock()
	defer lock.Unlock()

	r.mu.RLock()
	contract, ok := r.contracts[contractID]
	r.mu.RUnlock()
	if !ok {
		return domain.Contract{}, domain.Operation{}, domain.ErrNotFound
	}

	if contract.Status != domain.ContractStatusOpen {
		return domain.Contract{}, domain.Operation{}, fmt.Errorf("%w: only an OPEN contract can be closed, contract %s is %s", domain.ErrInvalidOperation, contract.ContractNumber, contract.Status)
	}

	payout := contract.CurrentBalance
	now := time.Now()

	contract.Status = domain.ContractStatusClosed
	contract.CloseDate = &closeDate
	contract.CurrentBalance = decimal.Zero
	contract.UpdatedAt = now

	closing := domain.Operation{
		ID:                uuid.NewString(),
		ContractID:        contractID,
		OperationDateTime: closedAt,
		Type:              domain.OperationTypeClosing,
		Amount:            payout,
		Description:       description,
		CreatedAt:         now,
	}

	r.mu.Lock()
	r.contracts[contractID] = contract
	r.operations = append(r.operations, closing)
	r.mu.Unlock()

	return contract, closing, nil
}

func (r *LedgerRepository) SetStatus(_ context.Context, contractID string, from, to domain.ContractStatus, op domain.Operation) (domain.Contract, error) {
	lock := r.contractLock(contractID)
	lock.Lock()
	defer lock.Unlock()

	r.mu.RLock()
	contract, ok := r.contracts[contractID]
	r.mu.RUnlock()
	if !ok {
		return domain.Contract{}, domain.ErrNotFound
	}

	if contract.Status != from {
		return domain.Contract{}, fmt.Errorf("%w: contract %s is %s, expected %s", domain.ErrInvalidOperation, contract.ContractNumber, contract.Status, from)
	}

	now := time.Now()
	contract.Status = to
	contract.UpdatedAt = now

	op.ID = uuid.NewString()
	op.ContractID = contractID
	op.CreatedAt = now

	r.mu.Lock()
	r.contracts[contractID] = contract
	r.operations = append(r.operations, op)
	r.mu.Unlock()

	return contract, nil
}

func (r *LedgerRepository) ListByContract(_ context.Context, contractID string) ([]domain.Operation, error) {
	return r.filterOperations(func(op domain.Operation) bool { return op.ContractID == contractID }), nil
}

func (r *LedgerRepository) ListByContractAndPeriod(_ context.Context, contractID string, from, to time.Time) ([]domain.Operation, error) {
	return r.filterOperations(func(op domain.Operation) bool {
		return op.ContractID == contractID && inPeriod(op.OperationDateTime, from, to)
	}), nil
}

func (r *LedgerRepository) ListByType(_ context.Context, opType domain.OperationType) ([]domain.Operation, error) {
	return r.filterOperations(func(op domain.Operation) bool { return op.Type == opType }), nil
}

func (r *LedgerRepository) ListByPeriod(_ context.Context, from, to time.Time) ([]domain.Operation, error) {
	return r.filterOperations(func(op domain.Operation) bool { return inPeriod(op.OperationDateTime, from, to) }), nil
}

func (r *LedgerRepository) ListByTypeAndPeriod(_ context.Context, opType domain.OperationType, from, to time.Time) ([]domain.Operation, error) {
	return r.filterOperations(func(op domain.Operation) bool {
		return op.Type == opType && inPeriod(op.OperationDateTime, from, to)
	}), nil
}

func (r *LedgerRepository) LastAccrualDate(_ context.Context, contractID string) (*time.Time, error) {
	return r.lastAccrual(contractID), nil
}

func (r *LedgerRepository) lastAccrual(contractID string) *time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var last *time.Time
	for _, op := range r.operations {
		if op.ContractID != contractID || op.Type != domain.OperationTypeInterestAccrual {
			continue
		}
		if last == nil || op.OperationDateTime.After(*last) {
			t := op.OperationDateTime
			last = &t
		}
	}

	return last
}

// filterOperations preserves insertion order for equal datetimes, the
// journal's (datetime, insertion order) contract.
func (r *LedgerRepository) filterOperations(keep func(domain.Operation) bool) []domain.Operation {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var operations []domain.Operation
	for _, op := range r.operations {
		if keep(op) {
			operations = append(operations, op)
		}
	}

	sort.SliceStable(operations, func(i, j int) bool {
		return operations[i].OperationDateTime.Before(operations[j].OperationDateTime)
	})

	return operations
}

func inPeriod(t, from, to time.Time) bool {
	return !t.Before(from) && !t.After(to)
}
