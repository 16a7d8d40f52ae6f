package journal

import (
	"fmt"

	"github.com/aashishkarki002/tenant-management-sub004/internal/domain"
)

func SecurityDeposit(d *domain.SecurityDeposit, opts Options) Payload {
	desc := describe("Security deposit received", "", d.TenantName)
	return Payload{
		Type:            domain.TxSecurityDeposit,
		ReferenceType:   domain.RefSecurityDeposit,
		ReferenceID:     d.ID,
		TransactionDate: opts.date(d.Date),
		NepaliDate:      opts.nepaliDate(d.NepaliDate),
		TotalAmount:     d.Amount,
		Description:     desc,
		CreatedBy:       opts.createdBy(d.CreatedBy),
		TenantID:        strPtr(d.TenantID),
		PropertyID:      d.PropertyID,
		Lines: []Line{
			debit(d.Method.SettlementAccount(), d.Amount, desc),
			credit(domain.AccountSecurityDeposit, d.Amount, desc),
		},
	}
}

// SecurityDepositRefund is its own event type; a refund is never a negative
// deposit.
func SecurityDepositRefund(d *domain.SecurityDeposit, opts Options) Payload {
	desc := describe("Security deposit refunded", "", d.TenantName)
	return Payload{
		Type:            domain.TxSecurityDepositRefund,
		ReferenceType:   domain.RefSecurityDeposit,
		ReferenceID:     d.ID,
		TransactionDate: opts.date(d.Date),
		NepaliDate:      opts.nepaliDate(d.NepaliDate),
		TotalAmount:     d.Amount,
		Description:     desc,
		CreatedBy:       opts.createdBy(d.CreatedBy),
		TenantID:        strPtr(d.TenantID),
		PropertyID:      d.PropertyID,
		Lines: []Line{
			debit(domain.AccountSecurityDeposit, d.Amount, desc),
			credit(d.Method.SettlementAccount(), d.Amount, desc),
		},
	}
}

func RevenueStream(rs *domain.RevenueStream, opts Options) Payload {
	desc := rs.Description
	if desc == "" {
		desc = describe("Revenue", "", rs.Source)
	}
	return Payload{
		Type:            domain.TxRevenueStream,
		ReferenceType:   domain.RefRevenueStream,
		ReferenceID:     rs.ID,
		TransactionDate: opts.date(rs.Date),
		NepaliDate:      opts.nepaliDate(rs.NepaliDate),
		TotalAmount:     rs.Amount,
		Description:     desc,
		CreatedBy:       opts.createdBy(rs.CreatedBy),
		TenantID:        rs.TenantID,
		PropertyID:      rs.PropertyID,
		Lines: []Line{
			debit(rs.Method.SettlementAccount(), rs.Amount, desc),
			credit(domain.AccountOtherRevenue, rs.Amount, desc),
		},
	}
}

var expenseTypes = map[domain.ExpenseCategory]struct {
	txType  domain.TransactionType
	account domain.AccountCode
}{
	domain.ExpenseMaintenance: {domain.TxMaintenanceExpense, domain.AccountMaintenanceExpense},
	domain.ExpenseUtility:     {domain.TxUtilityExpense, domain.AccountUtilityExpense},
	domain.ExpenseOther:       {domain.TxOtherExpense, domain.AccountOtherExpense},
}

func Expense(e *domain.Expense, opts Options) (Payload, error) {
	et, ok := expenseTypes[e.Category]
	if !ok {
		return Payload{}, fmt.Errorf("Expense: category %q: %w", e.Category, domain.ErrInvalidRequest)
	}
	desc := e.Description
	if desc == "" {
		desc = describe(string(e.Category)+" expense", "", e.Payee)
	}
	return Payload{
		Type:            et.txType,
		ReferenceType:   domain.RefExpense,
		ReferenceID:     e.ID,
		TransactionDate: opts.date(e.Date),
		NepaliDate:      opts.nepaliDate(e.NepaliDate),
		TotalAmount:     e.Amount,
		Description:     desc,
		CreatedBy:       opts.createdBy(e.CreatedBy),
		PropertyID:      e.PropertyID,
		Lines: []Line{
			debit(et.account, e.Amount, desc),
			credit(e.Method.SettlementAccount(), e.Amount, desc),
		},
	}, nil
}

// Reversal mirrors every line of a posted transaction. Posted transactions are
// never edited; this is how they are corrected.
func Reversal(orig *domain.Transaction, entries []domain.LedgerEntry, reason string, opts Options) Payload {
	desc := "Reversal of " + orig.Description
	if reason != "" {
		desc += ": " + reason
	}

	lines := make([]Line, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, Line{
			AccountCode: e.AccountCode,
			Debit:       e.Credit,
			Credit:      e.Debit,
			Description: "Reversal: " + e.Description,
		})
	}

	return Payload{
		Type:             domain.TxReversal,
		ReferenceType:    domain.RefTransaction,
		ReferenceID:      orig.ID.String(),
		TransactionDate:  opts.date(orig.TransactionDate),
		NepaliDate:       opts.nepaliDate(orig.NepaliDate),
		TotalAmount:      orig.TotalAmount,
		Description:      desc,
		CreatedBy:        opts.createdBy(orig.CreatedBy),
		TenantID:         orig.TenantID,
		PropertyID:       orig.PropertyID,
		BillingFrequency: orig.BillingFrequency,
		Quarter:          orig.Quarter,
		Lines:            lines,
	}
}
