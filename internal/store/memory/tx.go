package memory

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/aashishkarki002/tenant-management-sub004/internal/domain"
)

// unit stages writes on top of the committed maps. The store mutex is held
// for its whole life, so reading through to committed state is safe.
type unit struct {
	s *Store

	receivables  map[uuid.UUID]*domain.Receivable
	payments     map[uuid.UUID]*domain.Payment
	paymentOrder []uuid.UUID
	transactions map[uuid.UUID]*domain.Transaction
	txOrder      []uuid.UUID
	refs         map[refKey]uuid.UUID
	entries      map[uuid.UUID][]domain.LedgerEntry
}

func newUnit(s *Store) *unit {
	return &unit{
		s:            s,
		receivables:  make(map[uuid.UUID]*domain.Receivable),
		payments:     make(map[uuid.UUID]*domain.Payment),
		transactions: make(map[uuid.UUID]*domain.Transaction),
		refs:         make(map[refKey]uuid.UUID),
		entries:      make(map[uuid.UUID][]domain.LedgerEntry),
	}
}

func (u *unit) commit() {
	for id, r := range u.receivables {
		u.s.receivables[id] = r
	}
	for _, id := range u.paymentOrder {
		u.s.payments[id] = u.payments[id]
	}
	u.s.paymentOrder = append(u.s.paymentOrder, u.paymentOrder...)
	for _, id := range u.txOrder {
		u.s.transactions[id] = u.transactions[id]
	}
	u.s.txOrder = append(u.s.txOrder, u.txOrder...)
	for k, id := range u.refs {
		u.s.refs[k] = id
	}
	for id, e := range u.entries {
		u.s.entries[id] = append(u.s.entries[id], e...)
	}
}

func (u *unit) receivable(id uuid.UUID) (*domain.Receivable, bool) {
	if r, ok := u.receivables[id]; ok {
		return r, true
	}
	r, ok := u.s.receivables[id]
	return r, ok
}

func (u *unit) GetReceivableForUpdate(_ context.Context, id uuid.UUID) (*domain.Receivable, error) {
	r, ok := u.receivable(id)
	if !ok {
		return nil, fmt.Errorf("GetReceivableForUpdate: %w", domain.ErrReceivableNotFound)
	}
	return r.Clone(), nil
}

func (u *unit) CreateReceivable(_ context.Context, r *domain.Receivable) error {
	if _, ok := u.receivable(r.ID); ok {
		return fmt.Errorf("CreateReceivable: receivable %s exists: %w", r.ID, domain.ErrInvalidRequest)
	}
	u.receivables[r.ID] = r.Clone()
	return nil
}

func (u *unit) UpdateReceivable(_ context.Context, r *domain.Receivable) error {
	cur, ok := u.receivable(r.ID)
	if !ok {
		return fmt.Errorf("UpdateReceivable: %w", domain.ErrReceivableNotFound)
	}
	if cur.Version != r.Version {
		return fmt.Errorf("UpdateReceivable: version %d, stored %d: %w", r.Version, cur.Version, domain.ErrTransactionConflict)
	}
	r.Version++
	u.receivables[r.ID] = r.Clone()
	return nil
}

func (u *unit) CreatePayment(_ context.Context, p *domain.Payment) error {
	if _, ok := u.payments[p.ID]; ok {
		return fmt.Errorf("CreatePayment: payment %s exists: %w", p.ID, domain.ErrInvalidRequest)
	}
	if _, ok := u.s.payments[p.ID]; ok {
		return fmt.Errorf("CreatePayment: payment %s exists: %w", p.ID, domain.ErrInvalidRequest)
	}
	c := *p
	u.payments[p.ID] = &c
	u.paymentOrder = append(u.paymentOrder, p.ID)
	return nil
}

func (u *unit) GetPayment(_ context.Context, id uuid.UUID) (*domain.Payment, error) {
	p, ok := u.payments[id]
	if !ok {
		p, ok = u.s.payments[id]
	}
	if !ok {
		return nil, fmt.Errorf("GetPayment: %w", domain.ErrPaymentNotFound)
	}
	c := *p
	return &c, nil
}

func (u *unit) FindTransactionByReference(_ context.Context, txType domain.TransactionType, refType domain.ReferenceType, refID string) (*domain.Transaction, error) {
	k := refKey{txType: txType, refType: refType, refID: refID}
	id, ok := u.refs[k]
	if !ok {
		id, ok = u.s.refs[k]
	}
	if !ok {
		return nil, fmt.Errorf("FindTransactionByReference: %w", domain.ErrTransactionNotFound)
	}
	t, ok := u.transactions[id]
	if !ok {
		t = u.s.transactions[id]
	}
	c := *t
	return &c, nil
}

func (u *unit) ListLedgerEntries(_ context.Context, transactionID uuid.UUID) ([]domain.LedgerEntry, error) {
	out := append([]domain.LedgerEntry(nil), u.s.entries[transactionID]...)
	return append(out, u.entries[transactionID]...), nil
}

func (u *unit) InsertTransaction(_ context.Context, t *domain.Transaction) error {
	k := refKey{txType: t.Type, refType: t.ReferenceType, refID: t.ReferenceID}
	if _, ok := u.refs[k]; ok {
		return fmt.Errorf("InsertTransaction: %w", domain.ErrDuplicateTransaction)
	}
	if _, ok := u.s.refs[k]; ok {
		return fmt.Errorf("InsertTransaction: %w", domain.ErrDuplicateTransaction)
	}
	c := *t
	u.transactions[t.ID] = &c
	u.txOrder = append(u.txOrder, t.ID)
	u.refs[k] = t.ID
	return nil
}

func (u *unit) InsertLedgerEntries(_ context.Context, entries []domain.LedgerEntry) error {
	for _, e := range entries {
		if _, ok := u.transactions[e.TransactionID]; !ok {
			if _, ok := u.s.transactions[e.TransactionID]; !ok {
				return fmt.Errorf("InsertLedgerEntries: transaction %s: %w", e.TransactionID, domain.ErrTransactionNotFound)
			}
		}
		u.entries[e.TransactionID] = append(u.entries[e.TransactionID], e)
	}
	return nil
}
