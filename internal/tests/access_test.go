package services_test

import (
	"testing"

	"github.com/api-sage/deposit-ledger/internal/domain"
	"github.com/api-sage/deposit-ledger/internal/usecase/services"
)

func TestRoleAllows(t *testing.T) {
	cases := []struct {
		role   domain.UserRole
		action string
		want   bool
	}{
		{domain.UserRoleAdmin, services.ActionManageUsers, true},
		{domain.UserRoleAdmin, services.ActionOpenContract, true},
		{domain.UserRoleManager, services.ActionOpenContract, true},
		{domain.UserRoleManager, services.ActionManageUsers, false},
		{domain.UserRoleOperator, services.ActionDeposit, true},
		{domain.UserRoleOperator, services.ActionOpenContract, false},
		{domain.UserRoleOperator, services.ActionCloseContract, false},
		{domain.UserRoleDirector, services.ActionFreezeContract, true},
		{domain.UserRoleDirector, services.ActionDeposit, false},
		{domain.UserRoleAuditor, services.ActionVerifyBalances, true},
		{domain.UserRoleAuditor, services.ActionViewReports, true},
		{domain.UserRoleAuditor, services.ActionWithdraw, false},
		{domain.UserRole("UNKNOWN"), services.ActionViewReports, false},
	}

	for _, tc := range cases {
		if got := services.RoleAllows(tc.role, tc.action); got != tc.want {
			t.Errorf("RoleAllows(%s, %s) = %v, want %v", tc.role, tc.action, got, tc.want)
		}
	}
}
