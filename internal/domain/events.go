package domain

import "time"

type ExpenseCategory string

const (
	ExpenseMaintenance ExpenseCategory = "maintenance"
	ExpenseUtility     ExpenseCategory = "utility"
	ExpenseOther       ExpenseCategory = "other"
)

// Expense, SecurityDeposit and RevenueStream are business records owned by
// the surrounding application; the core only journals them.
type Expense struct {
	ID          string
	Category    ExpenseCategory
	Amount      Paisa
	Method      PaymentMethod
	Date        time.Time
	NepaliDate  string
	PropertyID  *string
	Payee       string
	Description string
	CreatedBy   string
}

type SecurityDeposit struct {
	ID         string
	TenantID   string
	TenantName string
	PropertyID *string
	Amount     Paisa
	Method     PaymentMethod
	Date       time.Time
	NepaliDate string
	CreatedBy  string
}

type RevenueStream struct {
	ID          string
	Source      string
	Amount      Paisa
	Method      PaymentMethod
	Date        time.Time
	NepaliDate  string
	TenantID    *string
	PropertyID  *string
	Description string
	CreatedBy   string
}
