package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OperationType string

const (
	OperationTypeOpening         OperationType = "OPENING"
	OperationTypeDeposit         OperationType = "DEPOSIT"
	OperationTypeWithdrawal      OperationType = "WITHDRAWAL"
	OperationTypeInterestAccrual OperationType = "INTEREST_ACCRUAL"
	OperationTypeClosing         OperationType = "CLOSING"
	OperationTypeFreeze          OperationType = "FREEZE"
	OperationTypeUnfreeze        OperationType = "UNFREEZE"
)

// Operation is an append-only journal entry for a single contract event.
// Entries are never updated or deleted; ordering by (operation_datetime,
// insertion order) defines the audit trail.
type Operation struct {
	ID                string
	ContractID        string
	OperationDateTime time.Time
	Type              OperationType
	Amount            decimal.Decimal
	Description       string
	CreatedAt         time.Time
}

// SignedAmount returns the operation amount with the sign it contributes
// to the contract balance: openings, deposits and accruals add funds,
// withdrawals and the closing payout remove them, status transitions
// move nothing.
func (o Operation) SignedAmount() decimal.Decimal {
	switch o.Type {
	case OperationTypeOpening, OperationTypeDeposit, OperationTypeInterestAccrual:
		return o.Amount
	case OperationTypeWithdrawal, OperationTypeClosing:
		return o.Amount.Neg()
	default:
		return decimal.Zero
	}
}
