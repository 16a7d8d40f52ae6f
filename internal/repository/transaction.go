package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/aashishkarki002/tenant-management-sub004/internal/domain"
)

const transactionColumns = `id, type, reference_type, reference_id, transaction_date,
	nepali_date, total_amount_paisa, description, created_by, tenant_id,
	property_id, billing_frequency, quarter, created_at`

type TransactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Create relies on transactions_reference_key to reject a second journal for
// the same event.
func (r *TransactionRepository) Create(ctx context.Context, tx *sql.Tx, t *domain.Transaction) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO transactions (`+transactionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		t.ID, t.Type, t.ReferenceType, t.ReferenceID, t.TransactionDate,
		t.NepaliDate, t.TotalAmount, t.Description, t.CreatedBy, t.TenantID,
		t.PropertyID, t.BillingFrequency, t.Quarter, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", classify(err))
	}
	return nil
}

func (r *TransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	t, err := scanTransaction(r.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, id,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByID: %w", domain.ErrTransactionNotFound)
		}
		return nil, fmt.Errorf("GetByID: %w", classify(err))
	}
	return t, nil
}

func (r *TransactionRepository) FindByReference(ctx context.Context, tx *sql.Tx, txType domain.TransactionType, refType domain.ReferenceType, refID string) (*domain.Transaction, error) {
	t, err := scanTransaction(tx.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions
		WHERE type = $1 AND reference_type = $2 AND reference_id = $3`,
		txType, refType, refID,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("FindByReference: %w", domain.ErrTransactionNotFound)
		}
		return nil, fmt.Errorf("FindByReference: %w", classify(err))
	}
	return t, nil
}

func (r *TransactionRepository) ListByReference(ctx context.Context, refType domain.ReferenceType, refID string) ([]domain.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions
		WHERE reference_type = $1 AND reference_id = $2
		ORDER BY created_at, id`,
		refType, refID,
	)
	if err != nil {
		return nil, fmt.Errorf("ListByReference: %w", classify(err))
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("ListByReference: scan: %w", err)
		}
		txns = append(txns, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListByReference: rows: %w", err)
	}
	return txns, nil
}

func scanTransaction(s scanner) (*domain.Transaction, error) {
	var t domain.Transaction
	err := s.Scan(
		&t.ID, &t.Type, &t.ReferenceType, &t.ReferenceID, &t.TransactionDate,
		&t.NepaliDate, &t.TotalAmount, &t.Description, &t.CreatedBy, &t.TenantID,
		&t.PropertyID, &t.BillingFrequency, &t.Quarter, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
