package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aashishkarki002/tenant-management-sub004/internal/domain"
)

const receivableColumns = `id, kind, tenant_id, tenant_name, property_id,
	principal_paisa, paid_paisa, withheld_paisa, status, last_paid_at, due_date,
	period_month, period_year, nepali_date, billing_frequency, quarter,
	version, created_by, created_at, updated_at`

const receivableLineColumns = `line_no, unit_id, description, principal_paisa, withheld_paisa, paid_paisa`

type ReceivableRepository struct {
	db *sql.DB
}

func NewReceivableRepository(db *sql.DB) *ReceivableRepository {
	return &ReceivableRepository{db: db}
}

// GetByID reads the row and its lines from one snapshot so a payment
// committing in between cannot split them.
func (r *ReceivableRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Receivable, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("GetByID: begin: %w", classify(err))
	}
	defer func() { _ = tx.Rollback() }()

	rec, err := r.get(ctx, tx, `SELECT `+receivableColumns+` FROM receivables WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("GetByID: commit: %w", classify(err))
	}
	return rec, nil
}

// GetForUpdate holds the row lock until tx ends. Concurrent payments against
// the same receivable queue here.
func (r *ReceivableRepository) GetForUpdate(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*domain.Receivable, error) {
	rec, err := r.get(ctx, tx, `SELECT `+receivableColumns+` FROM receivables WHERE id = $1 FOR UPDATE`, id)
	if err != nil {
		return nil, fmt.Errorf("GetForUpdate: %w", err)
	}
	return rec, nil
}

func (r *ReceivableRepository) get(ctx context.Context, q querier, query string, id uuid.UUID) (*domain.Receivable, error) {
	rec, err := scanReceivable(q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrReceivableNotFound
		}
		return nil, classify(err)
	}
	if rec.Lines, err = r.lines(ctx, q, id); err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *ReceivableRepository) lines(ctx context.Context, q querier, id uuid.UUID) ([]domain.ReceivableLine, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT `+receivableLineColumns+` FROM receivable_lines
		WHERE receivable_id = $1 ORDER BY line_no`, id,
	)
	if err != nil {
		return nil, fmt.Errorf("lines: %w", classify(err))
	}
	defer rows.Close()

	var lines []domain.ReceivableLine
	for rows.Next() {
		var l domain.ReceivableLine
		if err := rows.Scan(&l.LineNo, &l.UnitID, &l.Description, &l.Principal, &l.Withheld, &l.Paid); err != nil {
			return nil, fmt.Errorf("lines: scan: %w", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("lines: rows: %w", err)
	}
	return lines, nil
}

func (r *ReceivableRepository) Create(ctx context.Context, tx *sql.Tx, rec *domain.Receivable) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO receivables (
			id, kind, tenant_id, tenant_name, property_id,
			principal_paisa, paid_paisa, withheld_paisa, status, last_paid_at, due_date,
			period_month, period_year, nepali_date, billing_frequency, quarter,
			version, created_by, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`,
		rec.ID, rec.Kind, rec.TenantID, rec.TenantName, rec.PropertyID,
		rec.Principal, rec.Paid, rec.Withheld, rec.Status, rec.LastPaidAt, rec.DueDate,
		rec.PeriodMonth, rec.PeriodYear, rec.NepaliDate, rec.BillingFrequency, rec.Quarter,
		rec.Version, rec.CreatedBy, rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", classify(err))
	}

	for _, l := range rec.Lines {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO receivable_lines (receivable_id, `+receivableLineColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			rec.ID, l.LineNo, l.UnitID, l.Description, l.Principal, l.Withheld, l.Paid,
		)
		if err != nil {
			return fmt.Errorf("Create: line %d: %w", l.LineNo, classify(err))
		}
	}
	return nil
}

// Update writes the payment state of rec when the stored version still
// matches rec.Version and bumps it on success.
func (r *ReceivableRepository) Update(ctx context.Context, tx *sql.Tx, rec *domain.Receivable) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE receivables
		SET paid_paisa = $1, status = $2, last_paid_at = $3, updated_at = $4, version = version + 1
		WHERE id = $5 AND version = $6`,
		rec.Paid, rec.Status, rec.LastPaidAt, rec.UpdatedAt, rec.ID, rec.Version,
	)
	if err != nil {
		return fmt.Errorf("Update: %w", classify(err))
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("Update: rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("Update: version %d is stale: %w", rec.Version, domain.ErrTransactionConflict)
	}

	for _, l := range rec.Lines {
		_, err := tx.ExecContext(ctx,
			`UPDATE receivable_lines SET paid_paisa = $1 WHERE receivable_id = $2 AND line_no = $3`,
			l.Paid, rec.ID, l.LineNo,
		)
		if err != nil {
			return fmt.Errorf("Update: line %d: %w", l.LineNo, classify(err))
		}
	}

	rec.Version++
	return nil
}

func (r *ReceivableRepository) ListOverdueCandidates(ctx context.Context, asOf time.Time, limit int) ([]uuid.UUID, error) {
	var lim sql.NullInt64
	if limit > 0 {
		lim = sql.NullInt64{Int64: int64(limit), Valid: true}
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id FROM receivables
		WHERE status IN ('pending', 'partially_paid') AND due_date < $1
		ORDER BY due_date LIMIT $2`,
		asOf, lim,
	)
	if err != nil {
		return nil, fmt.Errorf("ListOverdueCandidates: %w", classify(err))
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("ListOverdueCandidates: scan: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListOverdueCandidates: rows: %w", err)
	}
	return ids, nil
}

func scanReceivable(s scanner) (*domain.Receivable, error) {
	var r domain.Receivable
	err := s.Scan(
		&r.ID, &r.Kind, &r.TenantID, &r.TenantName, &r.PropertyID,
		&r.Principal, &r.Paid, &r.Withheld, &r.Status, &r.LastPaidAt, &r.DueDate,
		&r.PeriodMonth, &r.PeriodYear, &r.NepaliDate, &r.BillingFrequency, &r.Quarter,
		&r.Version, &r.CreatedBy, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}
