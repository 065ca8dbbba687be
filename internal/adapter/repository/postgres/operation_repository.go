package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/api-sage/deposit-ledger/internal/domain"
	"github.com/api-sage/deposit-ledger/internal/logger"
)

const operationColumns = `id, contract_id, operation_datetime, operation_type, amount, description, created_at`
const operationOrder = ` ORDER BY operation_datetime, created_at, id`

type OperationRepository struct {
	db *sql.DB
}

func NewOperationRepository(db *sql.DB) *OperationRepository {
	return &OperationRepository{db: db}
}

func (r *OperationRepository) ListByContract(ctx context.Context, contractID string) ([]domain.Operation, error) {
	query := `SELECT ` + operationColumns + ` FROM deposit_operations WHERE contract_id = $1` + operationOrder
	return r.queryOperations(ctx, query, contractID)
}

func (r *OperationRepository) ListByContractAndPeriod(ctx context.Context, contractID string, from, to time.Time) ([]domain.Operation, error) {
	query := `SELECT ` + operationColumns + ` FROM deposit_operations WHERE contract_id = $1 AND operation_datetime BETWEEN $2 AND $3` + operationOrder
	return r.queryOperations(ctx, query, contractID, from, to)
}

func (r *OperationRepository) ListByType(ctx context.Context, opType domain.OperationType) ([]domain.Operation, error) {
	query := `SELECT ` + operationColumns + ` FROM deposit_operations WHERE operation_type = $1` + operationOrder
	return r.queryOperations(ctx, query, opType)
}

func (r *OperationRepository) ListByPeriod(ctx context.Context, from, to time.Time) ([]domain.Operation, error) {
	query := `SELECT ` + operationColumns + ` FROM deposit_operations WHERE operation_datetime BETWEEN $1 AND $2` + operationOrder
	return r.queryOperations(ctx, query, from, to)
}

func (r *OperationRepository) ListByTypeAndPeriod(ctx context.Context, opType domain.OperationType, from, to time.Time) ([]domain.Operation, error) {
	query := `SELECT ` + operationColumns + ` FROM deposit_operations WHERE operation_type = $1 AND operation_datetime BETWEEN $2 AND $3` + operationOrder
	return r.queryOperations(ctx, query, opType, from, to)
}

func (r *OperationRepository) LastAccrualDate(ctx context.Context, contractID string) (*time.Time, error) {
	const query = `
SELECT operation_datetime
FROM deposit_operations
WHERE contract_id = $1
  AND operation_type = 'INTEREST_ACCRUAL'
ORDER BY operation_datetime DESC, created_at DESC
LIMIT 1`

	var dt time.Time
	if err := r.db.QueryRowContext(ctx, query, contractID).Scan(&dt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		logger.Error("operation repository last accrual date failed", err, logger.Fields{
			"contractId": contractID,
		})
		return nil, fmt.Errorf("last accrual date: %w", err)
	}

	return &dt, nil
}

func (r *OperationRepository) queryOperations(ctx context.Context, query string, args ...any) ([]domain.Operation, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error("operation repository list failed", err, nil)
		return nil, fmt.Errorf("list operations: %w", err)
	}
	defer rows.Close()

	var operations []domain.Operation
	for rows.Next() {
		var op domain.Operation
		if err := rows.Scan(
			&op.ID,
			&op.ContractID,
			&op.OperationDateTime,
			&op.Type,
			&op.Amount,
			&op.Description,
			&op.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan operation: %w", err)
		}
		operations = append(operations, op)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate operations: %w", err)
	}

	return operations, nil
}
