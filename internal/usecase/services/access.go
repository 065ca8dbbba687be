package services

import "github.com/api-sage/deposit-ledger/internal/domain"

// Actions subject to role checks at the API boundary. The ledger itself
// never consults these; callers resolve the actor's role and check the
// table before invoking a service.
const (
	ActionOpenContract     = "contract.open"
	ActionDeposit          = "contract.deposit"
	ActionWithdraw         = "contract.withdraw"
	ActionCloseContract    = "contract.close"
	ActionFreezeContract   = "contract.freeze"
	ActionUnfreezeContract = "contract.unfreeze"
	ActionAccrueInterest   = "interest.accrue"
	ActionManageProducts   = "product.manage"
	ActionManageCustomers  = "customer.manage"
	ActionManageUsers      = "user.manage"
	ActionViewReports      = "report.view"
	ActionVerifyBalances   = "audit.verify"
)

var roleActions = map[domain.UserRole]map[string]bool{
	domain.UserRoleAdmin: {
		ActionOpenContract:     true,
		ActionDeposit:          true,
		ActionWithdraw:         true,
		ActionCloseContract:    true,
		ActionFreezeContract:   true,
		ActionUnfreezeContract: true,
		ActionAccrueInterest:   true,
		ActionManageProducts:   true,
		ActionManageCustomers:  true,
		ActionManageUsers:      true,
		ActionViewReports:      true,
		ActionVerifyBalances:   true,
	},
	domain.UserRoleManager: {
		ActionOpenContract:     true,
		ActionDeposit:          true,
		ActionWithdraw:         true,
		ActionCloseContract:    true,
		ActionFreezeContract:   true,
		ActionUnfreezeContract: true,
		ActionAccrueInterest:   true,
		ActionManageProducts:   true,
		ActionManageCustomers:  true,
		ActionViewReports:      true,
	},
	domain.UserRoleOperator: {
		ActionDeposit:         true,
		ActionWithdraw:        true,
		ActionManageCustomers: true,
		ActionViewReports:     true,
	},
	domain.UserRoleDirector: {
		ActionFreezeContract:   true,
		ActionUnfreezeContract: true,
		ActionAccrueInterest:   true,
		ActionViewReports:      true,
		ActionVerifyBalances:   true,
	},
	domain.UserRoleAuditor: {
		ActionViewReports:    true,
		ActionVerifyBalances: true,
	},
}

// RoleAllows reports whether the given role may perform the action.
func RoleAllows(role domain.UserRole, action string) bool {
	return roleActions[role][action]
}
