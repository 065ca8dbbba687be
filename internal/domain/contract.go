package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type ContractStatus string

const (
	ContractStatusOpen   ContractStatus = "OPEN"
	ContractStatusClosed ContractStatus = "CLOSED"
	ContractStatusFrozen ContractStatus = "FROZEN"
)

// Contract is a customer's deposit instance. CurrentBalance is a cached
// value; replaying the contract's operations from the OPENING entry must
// reproduce it exactly.
type Contract struct {
	ID             string
	ContractNumber string
	CustomerID     string
	ProductID      string
	Status         ContractStatus
	OpenDate       time.Time
	CloseDate      *time.Time
	InitialAmount  decimal.Decimal
	CurrentBalance decimal.Decimal
	InterestRate   decimal.Decimal
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
