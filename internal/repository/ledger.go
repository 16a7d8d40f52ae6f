package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/aashishkarki002/tenant-management-sub004/internal/domain"
	"github.com/aashishkarki002/tenant-management-sub004/internal/store"
)

const ledgerColumns = `id, transaction_id, line_no, account_code,
	debit_paisa, credit_paisa, description, created_at`

type LedgerRepository struct {
	db *sql.DB
}

func NewLedgerRepository(db *sql.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

func (r *LedgerRepository) Create(ctx context.Context, tx *sql.Tx, entry *domain.LedgerEntry) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO ledger_entries (`+ledgerColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		entry.ID, entry.TransactionID, entry.LineNo, entry.AccountCode,
		entry.Debit, entry.Credit, entry.Description, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", classify(err))
	}
	return nil
}

func (r *LedgerRepository) GetByTransactionID(ctx context.Context, transactionID uuid.UUID) ([]domain.LedgerEntry, error) {
	entries, err := r.byTransaction(ctx, r.db, transactionID)
	if err != nil {
		return nil, fmt.Errorf("GetByTransactionID: %w", err)
	}
	return entries, nil
}

func (r *LedgerRepository) GetByTransactionIDTx(ctx context.Context, tx *sql.Tx, transactionID uuid.UUID) ([]domain.LedgerEntry, error) {
	entries, err := r.byTransaction(ctx, tx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("GetByTransactionIDTx: %w", err)
	}
	return entries, nil
}

func (r *LedgerRepository) byTransaction(ctx context.Context, q querier, transactionID uuid.UUID) ([]domain.LedgerEntry, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT `+ledgerColumns+` FROM ledger_entries
		WHERE transaction_id = $1 ORDER BY line_no`, transactionID,
	)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	var entries []domain.LedgerEntry
	for rows.Next() {
		e, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return entries, nil
}

func (r *LedgerRepository) AccountTotals(ctx context.Context) ([]store.AccountTotal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT account_code, COALESCE(SUM(debit_paisa), 0)::bigint, COALESCE(SUM(credit_paisa), 0)::bigint
		FROM ledger_entries GROUP BY account_code ORDER BY account_code`,
	)
	if err != nil {
		return nil, fmt.Errorf("AccountTotals: %w", classify(err))
	}
	defer rows.Close()

	var totals []store.AccountTotal
	for rows.Next() {
		var t store.AccountTotal
		if err := rows.Scan(&t.AccountCode, &t.Debit, &t.Credit); err != nil {
			return nil, fmt.Errorf("AccountTotals: scan: %w", err)
		}
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("AccountTotals: rows: %w", err)
	}
	return totals, nil
}

func scanLedgerEntry(s scanner) (*domain.LedgerEntry, error) {
	var e domain.LedgerEntry
	err := s.Scan(
		&e.ID, &e.TransactionID, &e.LineNo, &e.AccountCode,
		&e.Debit, &e.Credit, &e.Description, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
