// Package posting validates journal payloads and writes them to the ledger.
package posting

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aashishkarki002/tenant-management-sub004/internal/accounts"
	"github.com/aashishkarki002/tenant-management-sub004/internal/domain"
	"github.com/aashishkarki002/tenant-management-sub004/internal/journal"
	"github.com/aashishkarki002/tenant-management-sub004/internal/logging"
	"github.com/aashishkarki002/tenant-management-sub004/internal/store"
)

type LedgerWriter interface {
	InsertTransaction(ctx context.Context, t *domain.Transaction) error
	InsertLedgerEntries(ctx context.Context, entries []domain.LedgerEntry) error
}

type UnitOfWork interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx store.Tx) error) error
}

type Posted struct {
	Transaction domain.Transaction
	Entries     []domain.LedgerEntry
}

type Service struct {
	registry *accounts.Registry
	now      func() time.Time
}

func NewService(registry *accounts.Registry) *Service {
	return &Service{registry: registry, now: time.Now}
}

// PostJournalEntry writes one transaction and its entries through w. It does
// not deduplicate; a second posting for the same reference fails in the store.
func (s *Service) PostJournalEntry(ctx context.Context, w LedgerWriter, p journal.Payload) (*Posted, error) {
	if err := s.Validate(p); err != nil {
		return nil, fmt.Errorf("PostJournalEntry: %w", err)
	}

	now := s.now().UTC()
	txn := domain.Transaction{
		ID:               uuid.New(),
		Type:             p.Type,
		ReferenceType:    p.ReferenceType,
		ReferenceID:      p.ReferenceID,
		TransactionDate:  p.TransactionDate,
		NepaliDate:       p.NepaliDate,
		TotalAmount:      p.TotalAmount,
		Description:      p.Description,
		CreatedBy:        p.CreatedBy,
		TenantID:         p.TenantID,
		PropertyID:       p.PropertyID,
		BillingFrequency: p.BillingFrequency,
		Quarter:          p.Quarter,
		CreatedAt:        now,
	}
	if txn.TransactionDate.IsZero() {
		txn.TransactionDate = now
	}

	entries := make([]domain.LedgerEntry, len(p.Lines))
	for i, l := range p.Lines {
		entries[i] = domain.LedgerEntry{
			ID:            uuid.New(),
			TransactionID: txn.ID,
			LineNo:        i + 1,
			AccountCode:   l.AccountCode,
			Debit:         l.Debit,
			Credit:        l.Credit,
			Description:   l.Description,
			CreatedAt:     now,
		}
	}

	if err := w.InsertTransaction(ctx, &txn); err != nil {
		return nil, fmt.Errorf("PostJournalEntry: %w", err)
	}
	if err := w.InsertLedgerEntries(ctx, entries); err != nil {
		return nil, fmt.Errorf("PostJournalEntry: %w", err)
	}

	logging.FromContext(ctx).Debug("journal posted",
		"transaction_id", txn.ID,
		"type", txn.Type,
		"reference_type", txn.ReferenceType,
		"reference_id", txn.ReferenceID,
		"amount_paisa", int64(txn.TotalAmount),
		"lines", len(entries),
	)

	return &Posted{Transaction: txn, Entries: entries}, nil
}

// Post opens its own unit of work for callers that are not already inside one.
func (s *Service) Post(ctx context.Context, uow UnitOfWork, p journal.Payload) (*Posted, error) {
	var posted *Posted
	err := uow.RunInTx(ctx, func(ctx context.Context, tx store.Tx) error {
		var err error
		posted, err = s.PostJournalEntry(ctx, tx, p)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("Post: %w", err)
	}
	return posted, nil
}

func (s *Service) Validate(p journal.Payload) error {
	if p.Type == "" || p.ReferenceType == "" || p.ReferenceID == "" {
		return fmt.Errorf("journal header is missing type or reference: %w", domain.ErrInvalidRequest)
	}
	if len(p.Lines) == 0 {
		return &domain.UnbalancedJournalError{Total: p.TotalAmount, Reason: "journal has no lines"}
	}

	var debits, credits domain.Paisa
	for i, l := range p.Lines {
		if l.Debit < 0 || l.Credit < 0 || (l.Debit > 0) == (l.Credit > 0) {
			return fmt.Errorf("line %d (%s) must carry exactly one positive side: %w", i+1, l.AccountCode, domain.ErrInvalidAmount)
		}
		if _, err := s.registry.Lookup(l.AccountCode); err != nil {
			return err
		}
		var ok bool
		if debits, ok = addPaisa(debits, l.Debit); !ok {
			return fmt.Errorf("debit total overflows: %w", domain.ErrInvalidAmount)
		}
		if credits, ok = addPaisa(credits, l.Credit); !ok {
			return fmt.Errorf("credit total overflows: %w", domain.ErrInvalidAmount)
		}
	}

	if debits != credits || debits != p.TotalAmount {
		return &domain.UnbalancedJournalError{Debits: debits, Credits: credits, Total: p.TotalAmount}
	}
	return nil
}

func addPaisa(a, b domain.Paisa) (domain.Paisa, bool) {
	sum := a + b
	if sum < a {
		return 0, false
	}
	return sum, true
}
