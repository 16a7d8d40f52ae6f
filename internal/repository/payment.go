package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/aashishkarki002/tenant-management-sub004/internal/domain"
)

const paymentColumns = `id, receivable_id, amount_paisa, method, paid_at,
	payer_id, received_by, note, created_at`

type PaymentRepository struct {
	db *sql.DB
}

func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(ctx context.Context, tx *sql.Tx, p *domain.Payment) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO payments (`+paymentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		p.ID, p.ReceivableID, p.Amount, p.Method, p.PaidAt,
		p.PayerID, p.ReceivedBy, p.Note, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", classify(err))
	}
	return nil
}

func (r *PaymentRepository) GetByID(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*domain.Payment, error) {
	p, err := scanPayment(tx.QueryRowContext(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByID: %w", domain.ErrPaymentNotFound)
		}
		return nil, fmt.Errorf("GetByID: %w", classify(err))
	}
	return p, nil
}

func (r *PaymentRepository) ListByReceivable(ctx context.Context, receivableID uuid.UUID) ([]domain.Payment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+paymentColumns+` FROM payments
		WHERE receivable_id = $1 ORDER BY created_at, id`, receivableID,
	)
	if err != nil {
		return nil, fmt.Errorf("ListByReceivable: %w", classify(err))
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("ListByReceivable: scan: %w", err)
		}
		payments = append(payments, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListByReceivable: rows: %w", err)
	}
	return payments, nil
}

func scanPayment(s scanner) (*domain.Payment, error) {
	var p domain.Payment
	err := s.Scan(
		&p.ID, &p.ReceivableID, &p.Amount, &p.Method, &p.PaidAt,
		&p.PayerID, &p.ReceivedBy, &p.Note, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
