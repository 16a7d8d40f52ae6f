// Package store declares the persistence contracts shared by the postgres,
// mongo and memory implementations.
//
// Every write happens inside RunInTx. If fn returns an error nothing it wrote
// is visible afterwards. Implementations report write conflicts, serialization
// failures, deadlocks and lock timeouts as domain.ErrTransactionConflict and a
// second transaction for the same (type, reference type, reference id) as
// domain.ErrDuplicateTransaction. They never retry on their own.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/aashishkarki002/tenant-management-sub004/internal/domain"
)

type Store interface {
	Reader
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

type Reader interface {
	GetReceivable(ctx context.Context, id uuid.UUID) (*domain.Receivable, error)
	GetTransaction(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	ListLedgerEntries(ctx context.Context, transactionID uuid.UUID) ([]domain.LedgerEntry, error)
	ListTransactionsByReference(ctx context.Context, refType domain.ReferenceType, refID string) ([]domain.Transaction, error)
	ListPayments(ctx context.Context, receivableID uuid.UUID) ([]domain.Payment, error)
	AccountTotals(ctx context.Context) ([]AccountTotal, error)
	// ListOverdueCandidates returns open receivables, not yet marked overdue,
	// whose due date is before asOf.
	ListOverdueCandidates(ctx context.Context, asOf time.Time, limit int) ([]uuid.UUID, error)
}

// Tx is the unit of work handed to RunInTx callbacks.
type Tx interface {
	// GetReceivableForUpdate reads the receivable so that a concurrent unit of
	// work writing the same receivable conflicts with this one.
	GetReceivableForUpdate(ctx context.Context, id uuid.UUID) (*domain.Receivable, error)
	CreateReceivable(ctx context.Context, r *domain.Receivable) error
	// UpdateReceivable persists r if the stored version still equals
	// r.Version, then increments r.Version.
	UpdateReceivable(ctx context.Context, r *domain.Receivable) error

	CreatePayment(ctx context.Context, p *domain.Payment) error
	GetPayment(ctx context.Context, id uuid.UUID) (*domain.Payment, error)

	FindTransactionByReference(ctx context.Context, txType domain.TransactionType, refType domain.ReferenceType, refID string) (*domain.Transaction, error)
	ListLedgerEntries(ctx context.Context, transactionID uuid.UUID) ([]domain.LedgerEntry, error)
	InsertTransaction(ctx context.Context, t *domain.Transaction) error
	InsertLedgerEntries(ctx context.Context, entries []domain.LedgerEntry) error
}

type AccountTotal struct {
	AccountCode domain.AccountCode
	Debit       domain.Paisa
	Credit      domain.Paisa
}
