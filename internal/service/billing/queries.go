package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aashishkarki002/tenant-management-sub004/internal/domain"
	"github.com/aashishkarki002/tenant-management-sub004/internal/logging"
	"github.com/aashishkarki002/tenant-management-sub004/internal/store"
)

type LineSummary struct {
	LineNo      int           `json:"lineNo"`
	UnitID      string        `json:"unitId"`
	Description string        `json:"description,omitempty"`
	Principal   domain.Amount `json:"principal"`
	Withheld    domain.Amount `json:"withheld"`
	Paid        domain.Amount `json:"paid"`
	Remaining   domain.Amount `json:"remaining"`
}

type ReceivableSummary struct {
	ReceivableID uuid.UUID               `json:"receivableId"`
	Kind         domain.ReceivableKind   `json:"kind"`
	TenantID     string                  `json:"tenantId"`
	Principal    domain.Amount           `json:"principal"`
	Withheld     domain.Amount           `json:"withheld"`
	Paid         domain.Amount           `json:"paid"`
	Remaining    domain.Amount           `json:"remaining"`
	Status       domain.ReceivableStatus `json:"status"`
	DueDate      *time.Time              `json:"dueDate,omitempty"`
	LastPaidAt   *time.Time              `json:"lastPaidAt,omitempty"`
	Lines        []LineSummary           `json:"lines,omitempty"`
}

func (s *Service) GetReceivableSummary(ctx context.Context, id uuid.UUID) (*ReceivableSummary, error) {
	r, err := s.store.GetReceivable(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("GetReceivableSummary: %w", err)
	}

	sum := &ReceivableSummary{
		ReceivableID: r.ID,
		Kind:         r.Kind,
		TenantID:     r.TenantID,
		Principal:    domain.NewAmount(r.Principal),
		Withheld:     domain.NewAmount(r.Withheld),
		Paid:         domain.NewAmount(r.Paid),
		Remaining:    domain.NewAmount(r.Remaining()),
		Status:       r.Status,
		DueDate:      r.DueDate,
		LastPaidAt:   r.LastPaidAt,
	}
	for _, l := range r.Lines {
		sum.Lines = append(sum.Lines, LineSummary{
			LineNo:      l.LineNo,
			UnitID:      l.UnitID,
			Description: l.Description,
			Principal:   domain.NewAmount(l.Principal),
			Withheld:    domain.NewAmount(l.Withheld),
			Paid:        domain.NewAmount(l.Paid),
			Remaining:   domain.NewAmount(l.Remaining()),
		})
	}
	return sum, nil
}

type TransactionDetail struct {
	Transaction domain.Transaction   `json:"transaction"`
	Entries     []domain.LedgerEntry `json:"entries"`
	TotalAmount domain.Amount        `json:"totalAmount"`
}

func (s *Service) GetTransaction(ctx context.Context, id uuid.UUID) (*TransactionDetail, error) {
	t, err := s.store.GetTransaction(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("GetTransaction: %w", err)
	}
	entries, err := s.store.ListLedgerEntries(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("GetTransaction: %w", err)
	}
	return &TransactionDetail{Transaction: *t, Entries: entries, TotalAmount: domain.NewAmount(t.TotalAmount)}, nil
}

// ListTransactionsForReference returns every journal posted against a
// business record, reversals of it excluded.
func (s *Service) ListTransactionsForReference(ctx context.Context, refType domain.ReferenceType, refID string) ([]domain.Transaction, error) {
	txns, err := s.store.ListTransactionsByReference(ctx, refType, refID)
	if err != nil {
		return nil, fmt.Errorf("ListTransactionsForReference: %w", err)
	}
	return txns, nil
}

func (s *Service) ListPayments(ctx context.Context, receivableID uuid.UUID) ([]domain.Payment, error) {
	if _, err := s.store.GetReceivable(ctx, receivableID); err != nil {
		return nil, fmt.Errorf("ListPayments: %w", err)
	}
	payments, err := s.store.ListPayments(ctx, receivableID)
	if err != nil {
		return nil, fmt.Errorf("ListPayments: %w", err)
	}
	return payments, nil
}

type TrialBalanceRow struct {
	AccountCode domain.AccountCode `json:"accountCode"`
	Name        string             `json:"name"`
	Role        domain.AccountRole `json:"role"`
	Debit       domain.Amount      `json:"debit"`
	Credit      domain.Amount      `json:"credit"`
	// Balance is signed toward the account's normal side.
	Balance domain.Amount `json:"balance"`
}

type TrialBalance struct {
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  domain.Amount     `json:"totalDebit"`
	TotalCredit domain.Amount     `json:"totalCredit"`
	Balanced    bool              `json:"balanced"`
}

func (s *Service) TrialBalance(ctx context.Context) (*TrialBalance, error) {
	totals, err := s.store.AccountTotals(ctx)
	if err != nil {
		return nil, fmt.Errorf("TrialBalance: %w", err)
	}

	tb := &TrialBalance{Rows: make([]TrialBalanceRow, 0, len(totals))}
	var debits, credits domain.Paisa
	for _, t := range totals {
		row := TrialBalanceRow{
			AccountCode: t.AccountCode,
			Debit:       domain.NewAmount(t.Debit),
			Credit:      domain.NewAmount(t.Credit),
		}
		balance := t.Debit - t.Credit
		if acct, err := s.registry.Lookup(t.AccountCode); err == nil {
			row.Name = acct.Name
			row.Role = acct.Role
			if !acct.NormalBalanceDebit() {
				balance = -balance
			}
		}
		row.Balance = domain.NewAmount(balance)
		tb.Rows = append(tb.Rows, row)
		debits += t.Debit
		credits += t.Credit
	}
	tb.TotalDebit = domain.NewAmount(debits)
	tb.TotalCredit = domain.NewAmount(credits)
	tb.Balanced = debits == credits
	return tb, nil
}

// MarkOverdue moves open receivables whose due date has passed to overdue,
// each in its own unit of work. A receivable that changed underneath is
// skipped; the next sweep sees it again if it is still open.
func (s *Service) MarkOverdue(ctx context.Context, asOf time.Time, limit int) (int, error) {
	log := logging.FromContext(ctx)

	ids, err := s.store.ListOverdueCandidates(ctx, asOf, limit)
	if err != nil {
		return 0, fmt.Errorf("MarkOverdue: %w", err)
	}

	marked := 0
	for _, id := range ids {
		changed := false
		err := s.store.RunInTx(ctx, func(ctx context.Context, tx store.Tx) error {
			r, err := tx.GetReceivableForUpdate(ctx, id)
			if err != nil {
				return err
			}
			if r.DueDate == nil || !r.DueDate.Before(asOf) {
				return nil
			}
			if r.Status != domain.ReceivableStatusPending && r.Status != domain.ReceivableStatusPartiallyPaid {
				return nil
			}
			r.Status = domain.ReceivableStatusOverdue
			r.UpdatedAt = s.now().UTC()
			changed = true
			return tx.UpdateReceivable(ctx, r)
		})
		if err != nil {
			if domain.IsRetryable(err) {
				log.Warn("overdue mark skipped", "receivable_id", id, "error", err)
				continue
			}
			return marked, fmt.Errorf("MarkOverdue: %s: %w", id, err)
		}
		if changed {
			marked++
			log.Info("receivable overdue", "receivable_id", id)
		}
	}
	return marked, nil
}
