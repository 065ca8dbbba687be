package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/api-sage/deposit-ledger/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/deposit-ledger/internal/domain"
	"github.com/api-sage/deposit-ledger/internal/logger"
	"github.com/shopspring/decimal"
)

const contractColumns = `id, contract_number, customer_id, product_id, status, open_date, close_date, initial_amount, current_balance, interest_rate, created_at, updated_at`

type ContractRepository struct {
	db *sql.DB
}

func NewContractRepository(db *sql.DB) *ContractRepository {
	return &ContractRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

type queryRunner interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func scanContract(row rowScanner) (domain.Contract, error) {
	var contract domain.Contract
	var closeDate sql.NullTime

	if err := row.Scan(
		&contract.ID,
		&contract.ContractNumber,
		&contract.CustomerID,
		&contract.ProductID,
		&contract.Status,
		&contract.OpenDate,
		&closeDate,
		&contract.InitialAmount,
		&contract.CurrentBalance,
		&contract.InterestRate,
		&contract.CreatedAt,
		&contract.UpdatedAt,
	); err != nil {
		return domain.Contract{}, err
	}

	if closeDate.Valid {
		t := closeDate.Time
		contract.CloseDate = &t
	}

	return contract, nil
}

func (r *ContractRepository) CreateWithOpening(ctx context.Context, contract domain.Contract, opening domain.Operation) (domain.Contract, error) {
	logger.Info("contract repository create with opening", logger.Fields{
		"contractNumber": contract.ContractNumber,
		"customerId":     contract.CustomerID,
		"productId":      contract.ProductID,
		"initialAmount":  contract.InitialAmount,
	})

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("contract repository create begin tx failed", err, nil)
		return domain.Contract{}, fmt.Errorf("begin open contract transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const insertContract = `
INSERT INTO deposit_contracts (
	contract_number,
	customer_id,
	product_id,
	status,
	open_date,
	initial_amount,
	current_balance,
	interest_rate
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id, created_at, updated_at`

	if err = tx.QueryRowContext(
		ctx,
		insertContract,
		contract.ContractNumber,
		contract.CustomerID,
		contract.ProductID,
		contract.Status,
		contract.OpenDate,
		contract.InitialAmount,
		contract.CurrentBalance,
		contract.InterestRate,
	).Scan(&contract.ID, &contract.CreatedAt, &contract.UpdatedAt); err != nil {
		logger.Error("contract repository create insert failed", err, logger.Fields{
			"contractNumber": contract.ContractNumber,
		})
		return domain.Contract{}, fmt.Errorf("insert contract: %w", err)
	}

	opening.ContractID = contract.ID
	if _, err = insertOperation(ctx, tx, opening); err != nil {
		return domain.Contract{}, err
	}

	if err = tx.Commit(); err != nil {
		logger.Error("contract repository create commit failed", err, nil)
		return domain.Contract{}, fmt.Errorf("commit open contract transaction: %w", err)
	}

	logger.Info("contract repository create with opening success", logger.Fields{
		"contractId":     contract.ID,
		"contractNumber": contract.ContractNumber,
	})

	return contract, nil
}

func (r *ContractRepository) GetByID(ctx context.Context, id string) (domain.Contract, error) {
	return getContract(ctx, r.db, id)
}

func getContract(ctx context.Context, run queryRunner, id string) (domain.Contract, error) {
	query := `SELECT ` + contractColumns + ` FROM deposit_contracts WHERE id = $1`

	contract, err := scanContract(run.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Contract{}, domain.ErrNotFound
		}
		return domain.Contract{}, fmt.Errorf("get contract by id: %w", err)
	}

	return contract, nil
}

func (r *ContractRepository) List(ctx context.Context) ([]domain.Contract, error) {
	query := `SELECT ` + contractColumns + ` FROM deposit_contracts ORDER BY open_date, contract_number`
	return r.queryContracts(ctx, query)
}

func (r *ContractRepository) ListByCustomer(ctx context.Context, customerID string) ([]domain.Contract, error) {
	query := `SELECT ` + contractColumns + ` FROM deposit_contracts WHERE customer_id = $1 ORDER BY open_date, contract_number`
	return r.queryContracts(ctx, query, customerID)
}

func (r *ContractRepository) ListByStatus(ctx context.Context, status domain.ContractStatus) ([]domain.Contract, error) {
	query := `SELECT ` + contractColumns + ` FROM deposit_contracts WHERE status = $1 ORDER BY open_date, contract_number`
	return r.queryContracts(ctx, query, status)
}

func (r *ContractRepository) queryContracts(ctx context.Context, query string, args ...any) ([]domain.Contract, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error("contract repository list failed", err, nil)
		return nil, fmt.Errorf("list contracts: %w", err)
	}
	defer rows.Close()

	var contracts []domain.Contract
	for rows.Next() {
		contract, err := scanContract(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contract: %w", err)
		}
		contracts = append(contracts, contract)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contracts: %w", err)
	}

	return contracts, nil
}

func (r *ContractRepository) NextContractNumber(ctx context.Context) (string, error) {
	const query = `SELECT nextval('contract_number_seq')`

	var n int64
	if err := r.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		logger.Error("contract repository next contract number failed", err, nil)
		return "", fmt.Errorf("next contract number: %w", err)
	}

	return fmt.Sprintf("D-%06d", n), nil
}

func (r *ContractRepository) ApplyDeposit(ctx context.Context, contractID string, amount decimal.Decimal, maxBalance *decimal.Decimal, op domain.Operation) (domain.Contract, error) {
	logger.Info("contract repository apply deposit", logger.Fields{
		"contractId": contractID,
		"amount":     amount,
	})

	const query = `
UPDATE deposit_contracts
SET current_balance = current_balance + $2::numeric,
    updated_at = NOW()
WHERE id = $1
  AND status = 'OPEN'
  AND ($3::numeric IS NULL OR current_balance + $2::numeric <= $3::numeric)
RETURNING ` + contractColumns

	guard := func(domain.Contract) string {
		return "deposit amount would exceed the product maximum"
	}

	return r.applyBalanceChange(ctx, contractID, op, query, guard, contractID, amount, nullableDecimal(maxBalance))
}

func (r *ContractRepository) ApplyWithdrawal(ctx context.Context, contractID string, amount decimal.Decimal, minBalance *decimal.Decimal, op domain.Operation) (domain.Contract, error) {
	logger.Info("contract repository apply withdrawal", logger.Fields{
		"contractId": contractID,
		"amount":     amount,
	})

	const query = `
UPDATE deposit_contracts
SET current_balance = current_balance - $2::numeric,
    updated_at = NOW()
WHERE id = $1
  AND status = 'OPEN'
  AND current_balance >= $2::numeric
  AND current_balance - $2::numeric >= COALESCE($3::numeric, 0)
RETURNING ` + contractColumns

	// The row is re-read when the guarded UPDATE matches nothing, so the
	// failure message names the predicate that actually failed.
	guard := func(contract domain.Contract) string {
		if minBalance == nil || contract.CurrentBalance.LessThan(amount) {
			return "insufficient funds for withdrawal"
		}
		return fmt.Sprintf("withdrawal would bring the balance below the product minimum of %s", minBalance.StringFixed(2))
	}

	return r.applyBalanceChange(ctx, contractID, op, query, guard, contractID, amount, nullableDecimal(minBalance))
}

// ApplyAccrual derives the interest entry under the contract row lock:
// the balance, status and last accrual datetime the plan sees cannot be
// changed by a concurrent mutation before this transaction commits.
func (r *ContractRepository) ApplyAccrual(ctx context.Context, contractID string, plan repo_interfaces.AccrualPlanFunc) (domain.Contract, bool, error) {
	logger.Info("contract repository apply accrual", logger.Fields{
		"contractId": contractID,
	})

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("contract repository accrual begin tx failed", err, logger.Fields{
			"contractId": contractID,
		})
		return domain.Contract{}, false, fmt.Errorf("begin accrual transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	lockQuery := `SELECT ` + contractColumns + ` FROM deposit_contracts WHERE id = $1 FOR UPDATE`

	var contract domain.Contract
	contract, err = scanContract(tx.QueryRowContext(ctx, lockQuery, contractID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = domain.ErrNotFound
			return domain.Contract{}, false, err
		}
		return domain.Contract{}, false, fmt.Errorf("lock contract for accrual: %w", err)
	}

	if contract.Status != domain.ContractStatusOpen {
		err = fmt.Errorf("%w: interest accrual is allowed only for OPEN contracts, contract %s is %s", domain.ErrInvalidOperation, contract.ContractNumber, contract.Status)
		return domain.Contract{}, false, err
	}

	const lastAccrualQuery = `
SELECT operation_datetime
FROM deposit_operations
WHERE contract_id = $1 AND operation_type = 'INTEREST_ACCRUAL'
ORDER BY operation_datetime DESC, created_at DESC, id DESC
LIMIT 1`

	var lastAccrual *time.Time
	var last time.Time
	scanErr := tx.QueryRowContext(ctx, lastAccrualQuery, contractID).Scan(&last)
	switch {
	case scanErr == nil:
		lastAccrual = &last
	case !errors.Is(scanErr, sql.ErrNoRows):
		err = fmt.Errorf("read last accrual datetime: %w", scanErr)
		return domain.Contract{}, false, err
	}

	interest, op := plan(contract, lastAccrual)
	if !interest.IsPositive() {
		_ = tx.Rollback()
		return contract, false, nil
	}

	const update = `
UPDATE deposit_contracts
SET current_balance = current_balance + $2::numeric,
    updated_at = NOW()
WHERE id = $1
RETURNING ` + contractColumns

	contract, err = scanContract(tx.QueryRowContext(ctx, update, contractID, interest))
	if err != nil {
		logger.Error("contract repository accrual update failed", err, logger.Fields{
			"contractId": contractID,
		})
		return domain.Contract{}, false, fmt.Errorf("apply accrual: %w", err)
	}

	op.ContractID = contractID
	if _, err = insertOperation(ctx, tx, op); err != nil {
		return domain.Contract{}, false, err
	}

	if err = tx.Commit(); err != nil {
		logger.Error("contract repository accrual commit failed", err, logger.Fields{
			"contractId": contractID,
		})
		return domain.Contract{}, false, fmt.Errorf("commit accrual transaction: %w", err)
	}

	logger.Info("contract repository accrual success", logger.Fields{
		"contractId":     contractID,
		"interest":       interest,
		"currentBalance": contract.CurrentBalance,
	})

	return contract, true, nil
}

// applyBalanceChange runs the guarded balance UPDATE and the journal
// insert in one transaction. A zero-row UPDATE means either the contract
// is gone, its status is not OPEN, or a balance guard failed; the cause
// is classified inside the same transaction before rolling back, with
// guard naming the failed balance predicate.
func (r *ContractRepository) applyBalanceChange(ctx context.Context, contractID string, op domain.Operation, query string, guard func(domain.Contract) string, args ...any) (domain.Contract, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("contract repository begin tx failed", err, logger.Fields{
			"contractId": contractID,
		})
		return domain.Contract{}, fmt.Errorf("begin contract mutation transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var contract domain.Contract
	contract, err = scanContract(tx.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = r.classifyGuardFailure(ctx, tx, contractID, guard)
			return domain.Contract{}, err
		}
		logger.Error("contract repository balance update failed", err, logger.Fields{
			"contractId": contractID,
		})
		return domain.Contract{}, fmt.Errorf("update contract balance: %w", err)
	}

	op.ContractID = contractID
	if _, err = insertOperation(ctx, tx, op); err != nil {
		return domain.Contract{}, err
	}

	if err = tx.Commit(); err != nil {
		logger.Error("contract repository commit tx failed", err, logger.Fields{
			"contractId": contractID,
		})
		return domain.Contract{}, fmt.Errorf("commit contract mutation transaction: %w", err)
	}

	logger.Info("contract repository balance change success", logger.Fields{
		"contractId":     contractID,
		"operationType":  op.Type,
		"currentBalance": contract.CurrentBalance,
	})

	return contract, nil
}

func (r *ContractRepository) classifyGuardFailure(ctx context.Context, tx *sql.Tx, contractID string, guard func(domain.Contract) string) error {
	contract, getErr := getContract(ctx, tx, contractID)
	if getErr != nil {
		if errors.Is(getErr, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return getErr
	}
	if contract.Status != domain.ContractStatusOpen {
		return fmt.Errorf("%w: operation is allowed only for OPEN contracts, contract %s is %s", domain.ErrInvalidOperation, contract.ContractNumber, contract.Status)
	}
	return fmt.Errorf("%w: %s", domain.ErrInvalidOperation, guard(contract))
}

func (r *ContractRepository) Close(ctx context.Context, contractID string, closeDate time.Time, closedAt time.Time, description string) (domain.Contract, domain.Operation, error) {
	logger.Info("contract repository close", logger.Fields{
		"contractId": contractID,
		"closeDate":  closeDate.Format("2006-01-02"),
	})

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("contract repository close begin tx failed", err, nil)
		return domain.Contract{}, domain.Operation{}, fmt.Errorf("begin close contract transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// The payout must be read under the row lock: a concurrent deposit
	// committing between the read and the update would otherwise be lost.
	lockQuery := `SELECT ` + contractColumns + ` FROM deposit_contracts WHERE id = $1 FOR UPDATE`

	var contract domain.Contract
	contract, err = scanContract(tx.QueryRowContext(ctx, lockQuery, contractID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = domain.ErrNotFound
			return domain.Contract{}, domain.Operation{}, err
		}
		return domain.Contract{}, domain.Operation{}, fmt.Errorf("lock contract for close: %w", err)
	}

	if contract.Status != domain.ContractStatusOpen {
		err = fmt.Errorf("%w: only an OPEN contract can be closed, contract %s is %s", domain.ErrInvalidOperation, contract.ContractNumber, contract.Status)
		return domain.Contract{}, domain.Operation{}, err
	}

	payout := contract.CurrentBalance

	const update = `
UPDATE deposit_contracts
SET status = 'CLOSED',
    close_date = $2,
    current_balance = 0,
    updated_at = NOW()
WHERE id = $1`

	if _, err = tx.ExecContext(ctx, update, contractID, closeDate); err != nil {
		logger.Error("contract repository close update failed", err, logger.Fields{
			"contractId": contractID,
		})
		return domain.Contract{}, domain.Operation{}, fmt.Errorf("close contract: %w", err)
	}

	closing := domain.Operation{
		ContractID:        contractID,
		OperationDateTime: closedAt,
		Type:              domain.OperationTypeClosing,
		Amount:            payout,
		Description:       description,
	}
	closing, err = insertOperation(ctx, tx, closing)
	if err != nil {
		return domain.Contract{}, domain.Operation{}, err
	}

	if err = tx.Commit(); err != nil {
		logger.Error("contract repository close commit failed", err, nil)
		return domain.Contract{}, domain.Operation{}, fmt.Errorf("commit close contract transaction: %w", err)
	}

	contract.Status = domain.ContractStatusClosed
	contract.CloseDate = &closeDate
	contract.CurrentBalance = decimal.Zero

	logger.Info("contract repository close success", logger.Fields{
		"contractId": contractID,
		"payout":     payout,
	})

	return contract, closing, nil
}

func (r *ContractRepository) SetStatus(ctx context.Context, contractID string, from, to domain.ContractStatus, op domain.Operation) (domain.Contract, error) {
	logger.Info("contract repository set status", logger.Fields{
		"contractId": contractID,
		"from":       from,
		"to":         to,
	})

	const query = `
UPDATE deposit_contracts
SET status = $3,
    updated_at = NOW()
WHERE id = $1
  AND status = $2
RETURNING ` + contractColumns

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Contract{}, fmt.Errorf("begin set status transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var contract domain.Contract
	contract, err = scanContract(tx.QueryRowContext(ctx, query, contractID, from, to))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			var current domain.Contract
			current, err = getContract(ctx, tx, contractID)
			if err != nil {
				return domain.Contract{}, err
			}
			err = fmt.Errorf("%w: contract %s is %s, expected %s", domain.ErrInvalidOperation, current.ContractNumber, current.Status, from)
			return domain.Contract{}, err
		}
		return domain.Contract{}, fmt.Errorf("set contract status: %w", err)
	}

	op.ContractID = contractID
	if _, err = insertOperation(ctx, tx, op); err != nil {
		return domain.Contract{}, err
	}

	if err = tx.Commit(); err != nil {
		return domain.Contract{}, fmt.Errorf("commit set status transaction: %w", err)
	}

	logger.Info("contract repository set status success", logger.Fields{
		"contractId": contractID,
		"status":     contract.Status,
	})

	return contract, nil
}

func insertOperation(ctx context.Context, tx *sql.Tx, op domain.Operation) (domain.Operation, error) {
	const query = `
INSERT INTO deposit_operations (
	contract_id,
	operation_datetime,
	operation_type,
	amount,
	description
) VALUES ($1, $2, $3, $4, $5)
RETURNING id, created_at`

	if err := tx.QueryRowContext(
		ctx,
		query,
		op.ContractID,
		op.OperationDateTime,
		op.Type,
		op.Amount,
		op.Description,
	).Scan(&op.ID, &op.CreatedAt); err != nil {
		logger.Error("contract repository insert operation failed", err, logger.Fields{
			"contractId":    op.ContractID,
			"operationType": op.Type,
		})
		return domain.Operation{}, fmt.Errorf("insert operation: %w", err)
	}

	return op, nil
}

func nullableDecimal(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return *d
}
