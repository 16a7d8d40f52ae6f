package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aashishkarki002/tenant-management-sub004/internal/domain"
	"github.com/aashishkarki002/tenant-management-sub004/internal/store"
)

// Store runs units of work as READ COMMITTED transactions. Receivables are
// locked with SELECT ... FOR UPDATE and a lock wait longer than lockTimeout
// fails the unit with domain.ErrTransactionConflict.
type Store struct {
	db           *sql.DB
	lockTimeout  time.Duration
	receivables  *ReceivableRepository
	payments     *PaymentRepository
	transactions *TransactionRepository
	ledger       *LedgerRepository
}

var _ store.Store = (*Store)(nil)

func NewStore(db *sql.DB, lockTimeout time.Duration) *Store {
	return &Store{
		db:           db,
		lockTimeout:  lockTimeout,
		receivables:  NewReceivableRepository(db),
		payments:     NewPaymentRepository(db),
		transactions: NewTransactionRepository(db),
		ledger:       NewLedgerRepository(db),
	}
}

func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context, tx store.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("RunInTx: begin tx: %w", classify(err))
	}
	defer tx.Rollback()

	if s.lockTimeout > 0 {
		// SET does not take bind parameters.
		stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", s.lockTimeout.Milliseconds())
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("RunInTx: lock timeout: %w", classify(err))
		}
	}

	if err := fn(ctx, &pgTx{tx: tx, s: s}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("RunInTx: commit: %w", classifyCommit(err))
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("Ping: %w", err)
	}
	return nil
}

func (s *Store) Close(context.Context) error {
	return s.db.Close()
}

func (s *Store) GetReceivable(ctx context.Context, id uuid.UUID) (*domain.Receivable, error) {
	return s.receivables.GetByID(ctx, id)
}

func (s *Store) GetTransaction(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	return s.transactions.GetByID(ctx, id)
}

func (s *Store) ListLedgerEntries(ctx context.Context, transactionID uuid.UUID) ([]domain.LedgerEntry, error) {
	return s.ledger.GetByTransactionID(ctx, transactionID)
}

func (s *Store) ListTransactionsByReference(ctx context.Context, refType domain.ReferenceType, refID string) ([]domain.Transaction, error) {
	return s.transactions.ListByReference(ctx, refType, refID)
}

func (s *Store) ListPayments(ctx context.Context, receivableID uuid.UUID) ([]domain.Payment, error) {
	return s.payments.ListByReceivable(ctx, receivableID)
}

func (s *Store) AccountTotals(ctx context.Context) ([]store.AccountTotal, error) {
	return s.ledger.AccountTotals(ctx)
}

func (s *Store) ListOverdueCandidates(ctx context.Context, asOf time.Time, limit int) ([]uuid.UUID, error) {
	return s.receivables.ListOverdueCandidates(ctx, asOf, limit)
}

type pgTx struct {
	tx *sql.Tx
	s  *Store
}

func (t *pgTx) GetReceivableForUpdate(ctx context.Context, id uuid.UUID) (*domain.Receivable, error) {
	return t.s.receivables.GetForUpdate(ctx, t.tx, id)
}

func (t *pgTx) CreateReceivable(ctx context.Context, r *domain.Receivable) error {
	return t.s.receivables.Create(ctx, t.tx, r)
}

func (t *pgTx) UpdateReceivable(ctx context.Context, r *domain.Receivable) error {
	return t.s.receivables.Update(ctx, t.tx, r)
}

func (t *pgTx) CreatePayment(ctx context.Context, p *domain.Payment) error {
	return t.s.payments.Create(ctx, t.tx, p)
}

func (t *pgTx) GetPayment(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	return t.s.payments.GetByID(ctx, t.tx, id)
}

func (t *pgTx) FindTransactionByReference(ctx context.Context, txType domain.TransactionType, refType domain.ReferenceType, refID string) (*domain.Transaction, error) {
	return t.s.transactions.FindByReference(ctx, t.tx, txType, refType, refID)
}

func (t *pgTx) ListLedgerEntries(ctx context.Context, transactionID uuid.UUID) ([]domain.LedgerEntry, error) {
	return t.s.ledger.GetByTransactionIDTx(ctx, t.tx, transactionID)
}

func (t *pgTx) InsertTransaction(ctx context.Context, txn *domain.Transaction) error {
	return t.s.transactions.Create(ctx, t.tx, txn)
}

func (t *pgTx) InsertLedgerEntries(ctx context.Context, entries []domain.LedgerEntry) error {
	for i := range entries {
		if err := t.s.ledger.Create(ctx, t.tx, &entries[i]); err != nil {
			return err
		}
	}
	return nil
}
