package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product holds the reference terms a contract is opened against.
// A contract copies BaseInterestRate at open time and never reads the
// live product rate afterwards. MinAmount and MaxAmount are nullable;
// nil means the bound is not enforced.
type Product struct {
	ID                     string
	Name                   string
	Description            string
	MinAmount              *decimal.Decimal
	MaxAmount              *decimal.Decimal
	TermMonths             int
	BaseInterestRate       decimal.Decimal
	AllowReplenishment     bool
	AllowPartialWithdrawal bool
	Capitalization         bool
	CreatedAt              time.Time
	UpdatedAt              time.Time
}
