// Package accounts holds the chart of accounts the ledger may post to.
//
// The registry is fixed when it is built and is safe to share between
// goroutines without locking. New codes are added here, through a reviewed
// change, never invented by a journal builder at runtime.
package accounts

import (
	"fmt"

	"github.com/aashishkarki002/tenant-management-sub004/internal/domain"
)

var chart = []domain.Account{
	{Code: domain.AccountCash, Role: domain.AccountRoleAsset, Name: "Cash"},
	{Code: domain.AccountBank, Role: domain.AccountRoleAsset, Name: "Bank"},
	{Code: domain.AccountReceivable, Role: domain.AccountRoleAsset, Name: "Accounts Receivable"},
	{Code: domain.AccountTDSReceivable, Role: domain.AccountRoleAsset, Name: "TDS Receivable"},
	{Code: domain.AccountSecurityDeposit, Role: domain.AccountRoleLiability, Name: "Security Deposit Liability"},
	{Code: domain.AccountTenantAdvances, Role: domain.AccountRoleLiability, Name: "Tenant Advances"},
	{Code: domain.AccountRentalRevenue, Role: domain.AccountRoleRevenue, Name: "Rental Revenue"},
	{Code: domain.AccountCAMRevenue, Role: domain.AccountRoleRevenue, Name: "CAM Revenue"},
	{Code: domain.AccountElectricityRevenue, Role: domain.AccountRoleRevenue, Name: "Electricity Revenue"},
	{Code: domain.AccountMaintenanceRevenue, Role: domain.AccountRoleRevenue, Name: "Maintenance Revenue"},
	{Code: domain.AccountOtherRevenue, Role: domain.AccountRoleRevenue, Name: "Other Revenue"},
	{Code: domain.AccountMaintenanceExpense, Role: domain.AccountRoleExpense, Name: "Maintenance Expense"},
	{Code: domain.AccountUtilityExpense, Role: domain.AccountRoleExpense, Name: "Utility Expense"},
	{Code: domain.AccountOtherExpense, Role: domain.AccountRoleExpense, Name: "Other Expense"},
}

type Registry struct {
	byCode map[domain.AccountCode]domain.Account
	order  []domain.AccountCode
}

// Default returns the registry with the standard chart of accounts.
func Default() *Registry {
	r, err := New(chart...)
	if err != nil {
		panic(fmt.Sprintf("accounts: invalid built-in chart: %v", err))
	}
	return r
}

// New builds a registry. A code registered twice is rejected even when the
// roles agree.
func New(accts ...domain.Account) (*Registry, error) {
	r := &Registry{
		byCode: make(map[domain.AccountCode]domain.Account, len(accts)),
		order:  make([]domain.AccountCode, 0, len(accts)),
	}
	for _, a := range accts {
		if a.Code == "" {
			return nil, fmt.Errorf("New: empty account code")
		}
		switch a.Role {
		case domain.AccountRoleAsset, domain.AccountRoleLiability, domain.AccountRoleRevenue, domain.AccountRoleExpense:
		default:
			return nil, fmt.Errorf("New: account %s: invalid role %q", a.Code, a.Role)
		}
		if existing, ok := r.byCode[a.Code]; ok {
			return nil, fmt.Errorf("New: account %s already registered as %s", a.Code, existing.Role)
		}
		r.byCode[a.Code] = a
		r.order = append(r.order, a.Code)
	}
	return r, nil
}

func (r *Registry) Lookup(code domain.AccountCode) (domain.Account, error) {
	a, ok := r.byCode[code]
	if !ok {
		return domain.Account{}, &domain.UnknownAccountError{Code: code}
	}
	return a, nil
}

// All returns the accounts in registration order.
func (r *Registry) All() []domain.Account {
	out := make([]domain.Account, 0, len(r.order))
	for _, c := range r.order {
		out = append(out, r.byCode[c])
	}
	return out
}
