package domain

type AccountCode string

type AccountRole string

const (
	AccountRoleAsset     AccountRole = "asset"
	AccountRoleLiability AccountRole = "liability"
	AccountRoleRevenue   AccountRole = "revenue"
	AccountRoleExpense   AccountRole = "expense"
)

const (
	AccountCash               AccountCode = "1000"
	AccountBank               AccountCode = "1010"
	AccountReceivable         AccountCode = "1200"
	AccountTDSReceivable      AccountCode = "1300"
	AccountSecurityDeposit    AccountCode = "2100"
	AccountTenantAdvances     AccountCode = "2200"
	AccountRentalRevenue      AccountCode = "4000"
	AccountCAMRevenue         AccountCode = "4100"
	AccountElectricityRevenue AccountCode = "4200"
	AccountMaintenanceRevenue AccountCode = "4300"
	AccountOtherRevenue       AccountCode = "4400"
	AccountMaintenanceExpense AccountCode = "5000"
	AccountUtilityExpense     AccountCode = "5100"
	AccountOtherExpense       AccountCode = "5200"
)

type Account struct {
	Code AccountCode
	Role AccountRole
	Name string
}

// NormalBalanceDebit reports whether increases to the account are debits.
func (a Account) NormalBalanceDebit() bool {
	return a.Role == AccountRoleAsset || a.Role == AccountRoleExpense
}
