// Package memory is a process-local store. Units of work run one at a time and
// their writes become visible only when the callback returns nil.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aashishkarki002/tenant-management-sub004/internal/domain"
	"github.com/aashishkarki002/tenant-management-sub004/internal/store"
)

type refKey struct {
	txType  domain.TransactionType
	refType domain.ReferenceType
	refID   string
}

type Store struct {
	mu sync.Mutex

	receivables  map[uuid.UUID]*domain.Receivable
	payments     map[uuid.UUID]*domain.Payment
	paymentOrder []uuid.UUID
	transactions map[uuid.UUID]*domain.Transaction
	txOrder      []uuid.UUID
	refs         map[refKey]uuid.UUID
	entries      map[uuid.UUID][]domain.LedgerEntry
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		receivables:  make(map[uuid.UUID]*domain.Receivable),
		payments:     make(map[uuid.UUID]*domain.Payment),
		transactions: make(map[uuid.UUID]*domain.Transaction),
		refs:         make(map[refKey]uuid.UUID),
		entries:      make(map[uuid.UUID][]domain.LedgerEntry),
	}
}

func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context, tx store.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("RunInTx: %w", domain.ErrTransactionConflict)
	}

	tx := newUnit(s)
	if err := fn(ctx, tx); err != nil {
		return err
	}
	tx.commit()
	return nil
}

func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }

func (s *Store) Close(context.Context) error { return nil }

func (s *Store) GetReceivable(_ context.Context, id uuid.UUID) (*domain.Receivable, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.receivables[id]
	if !ok {
		return nil, fmt.Errorf("GetReceivable: %w", domain.ErrReceivableNotFound)
	}
	return r.Clone(), nil
}

func (s *Store) GetTransaction(_ context.Context, id uuid.UUID) (*domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.transactions[id]
	if !ok {
		return nil, fmt.Errorf("GetTransaction: %w", domain.ErrTransactionNotFound)
	}
	c := *t
	return &c, nil
}

func (s *Store) ListLedgerEntries(_ context.Context, transactionID uuid.UUID) ([]domain.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]domain.LedgerEntry(nil), s.entries[transactionID]...), nil
}

func (s *Store) ListTransactionsByReference(_ context.Context, refType domain.ReferenceType, refID string) ([]domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.Transaction
	for _, id := range s.txOrder {
		t := s.transactions[id]
		if t.ReferenceType == refType && t.ReferenceID == refID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (s *Store) ListPayments(_ context.Context, receivableID uuid.UUID) ([]domain.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.Payment
	for _, id := range s.paymentOrder {
		if p := s.payments[id]; p.ReceivableID == receivableID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (s *Store) AccountTotals(context.Context) ([]store.AccountTotal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	byCode := make(map[domain.AccountCode]*store.AccountTotal)
	for _, entries := range s.entries {
		for _, e := range entries {
			t, ok := byCode[e.AccountCode]
			if !ok {
				t = &store.AccountTotal{AccountCode: e.AccountCode}
				byCode[e.AccountCode] = t
			}
			t.Debit += e.Debit
			t.Credit += e.Credit
		}
	}

	out := make([]store.AccountTotal, 0, len(byCode))
	for _, t := range byCode {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AccountCode < out[j].AccountCode })
	return out, nil
}

func (s *Store) ListOverdueCandidates(_ context.Context, asOf time.Time, limit int) ([]uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var due []*domain.Receivable
	for _, r := range s.receivables {
		if r.DueDate == nil || !r.DueDate.Before(asOf) {
			continue
		}
		if r.Status == domain.ReceivableStatusPending || r.Status == domain.ReceivableStatusPartiallyPaid {
			due = append(due, r)
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].DueDate.Before(*due[j].DueDate) })

	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}
	ids := make([]uuid.UUID, len(due))
	for i, r := range due {
		ids[i] = r.ID
	}
	return ids, nil
}
