package repository

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aashishkarki002/tenant-management-sub004/internal/domain"
	"github.com/aashishkarki002/tenant-management-sub004/internal/store"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr error
	}{
		{name: "duplicate journal", err: &pq.Error{Code: "23505", Constraint: transactionReferenceKey}, wantErr: domain.ErrDuplicateTransaction},
		{name: "other unique key", err: &pq.Error{Code: "23505", Constraint: "payments_pkey"}, wantErr: domain.ErrInvalidRequest},
		{name: "serialization failure", err: &pq.Error{Code: "40001"}, wantErr: domain.ErrTransactionConflict},
		{name: "deadlock", err: &pq.Error{Code: "40P01"}, wantErr: domain.ErrTransactionConflict},
		{name: "lock timeout", err: &pq.Error{Code: "55P03"}, wantErr: domain.ErrTransactionConflict},
		{name: "statement timeout", err: &pq.Error{Code: "57014"}, wantErr: domain.ErrTransactionConflict},
		{name: "deadline", err: context.DeadlineExceeded, wantErr: domain.ErrTransactionConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classify(tt.err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, tt.err)
		})
	}

	plain := errors.New("connection reset")
	assert.Same(t, plain, classify(plain))
	assert.NoError(t, classify(nil))

	check := classify(&pq.Error{Code: "23514"})
	assert.False(t, domain.IsRetryable(check))
}

func TestRunInTxCommitsAndSetsLockTimeout(t *testing.T) {
	db, mock := newMock(t)
	s := NewStore(db, 2*time.Second)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("SET LOCAL lock_timeout = '2000ms'")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO payments")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := s.RunInTx(context.Background(), func(ctx context.Context, tx store.Tx) error {
		return tx.CreatePayment(ctx, &domain.Payment{
			ID:           uuid.New(),
			ReceivableID: uuid.New(),
			Amount:       5000,
			Method:       domain.PaymentMethodCash,
			PaidAt:       time.Now(),
			ReceivedBy:   "clerk",
			CreatedAt:    time.Now(),
		})
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunInTxRollsBackOnError(t *testing.T) {
	db, mock := newMock(t)
	s := NewStore(db, 0)
	boom := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := s.RunInTx(context.Background(), func(context.Context, store.Tx) error { return boom })
	require.ErrorIs(t, err, boom)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCommitSerializationFailureIsConflict(t *testing.T) {
	db, mock := newMock(t)
	s := NewStore(db, 0)

	mock.ExpectBegin()
	mock.ExpectCommit().WillReturnError(&pq.Error{Code: "40001"})

	err := s.RunInTx(context.Background(), func(context.Context, store.Tx) error { return nil })
	require.ErrorIs(t, err, domain.ErrTransactionConflict)
	assert.True(t, domain.IsRetryable(err))
}

func TestCommitLostConnectionIsOutcomeUnknown(t *testing.T) {
	db, mock := newMock(t)
	s := NewStore(db, 0)

	mock.ExpectBegin()
	mock.ExpectCommit().WillReturnError(io.ErrUnexpectedEOF)

	err := s.RunInTx(context.Background(), func(context.Context, store.Tx) error { return nil })
	require.ErrorIs(t, err, domain.ErrCommitOutcomeUnknown)
	assert.False(t, domain.IsRetryable(err))
}

func TestGetForUpdate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewReceivableRepository(db)
	id := uuid.New()
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM receivables WHERE id = $1 FOR UPDATE")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "kind", "tenant_id", "tenant_name", "property_id",
			"principal_paisa", "paid_paisa", "withheld_paisa", "status", "last_paid_at", "due_date",
			"period_month", "period_year", "nepali_date", "billing_frequency", "quarter",
			"version", "created_by", "created_at", "updated_at",
		}).AddRow(
			id.String(), "rent", "tenant-1", "Ram", nil,
			int64(100000), int64(40000), int64(0), "partially_paid", now, nil,
			1, 2081, "", nil, nil,
			int64(3), "admin", now, now,
		))
	mock.ExpectQuery(regexp.QuoteMeta("FROM receivable_lines")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"line_no", "unit_id", "description", "principal_paisa", "withheld_paisa", "paid_paisa"}).
			AddRow(1, "unit-a", "", int64(60000), int64(0), int64(40000)).
			AddRow(2, "unit-b", "", int64(40000), int64(0), int64(0)))

	tx, err := db.Begin()
	require.NoError(t, err)

	r, err := repo.GetForUpdate(context.Background(), tx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.ReceivableRent, r.Kind)
	assert.Equal(t, domain.Paisa(40000), r.Paid)
	assert.Equal(t, int64(3), r.Version)
	assert.Nil(t, r.PropertyID)
	assert.Nil(t, r.DueDate)
	require.Len(t, r.Lines, 2)
	assert.Equal(t, "unit-b", r.Lines[1].UnitID)
}

func TestGetForUpdateNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewReceivableRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	tx, err := db.Begin()
	require.NoError(t, err)

	_, err = repo.GetForUpdate(context.Background(), tx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrReceivableNotFound)
}

func TestGetForUpdateLockTimeout(t *testing.T) {
	db, mock := newMock(t)
	repo := NewReceivableRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WillReturnError(&pq.Error{Code: "55P03", Message: "canceling statement due to lock timeout"})

	tx, err := db.Begin()
	require.NoError(t, err)

	_, err = repo.GetForUpdate(context.Background(), tx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrTransactionConflict)
}

func TestGetByIDReadsRowAndLinesInOneTx(t *testing.T) {
	db, mock := newMock(t)
	repo := NewReceivableRepository(db)
	id := uuid.New()
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM receivables WHERE id = $1")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "kind", "tenant_id", "tenant_name", "property_id",
			"principal_paisa", "paid_paisa", "withheld_paisa", "status", "last_paid_at", "due_date",
			"period_month", "period_year", "nepali_date", "billing_frequency", "quarter",
			"version", "created_by", "created_at", "updated_at",
		}).AddRow(
			id.String(), "cam", "tenant-1", "Ram", nil,
			int64(100000), int64(90000), int64(10000), "paid", now, nil,
			1, 2081, "", nil, nil,
			int64(2), "admin", now, now,
		))
	mock.ExpectQuery(regexp.QuoteMeta("FROM receivable_lines")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"line_no", "unit_id", "description", "principal_paisa", "withheld_paisa", "paid_paisa"}).
			AddRow(1, "unit-a", "", int64(60000), int64(6000), int64(54000)).
			AddRow(2, "unit-b", "", int64(40000), int64(4000), int64(36000)))
	mock.ExpectCommit()

	r, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, r.Lines, 2)
	assert.Equal(t, domain.Paisa(6000), r.Lines[0].Withheld)
	assert.Equal(t, domain.Paisa(0), r.Lines[0].Remaining()+r.Lines[1].Remaining())
	assert.Equal(t, r.Remaining(), r.Lines[0].Remaining()+r.Lines[1].Remaining())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDNotFoundRollsBack(t *testing.T) {
	db, mock := newMock(t)
	repo := NewReceivableRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM receivables WHERE id = $1")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, err := repo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrReceivableNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStaleVersion(t *testing.T) {
	db, mock := newMock(t)
	repo := NewReceivableRepository(db)
	rec := &domain.Receivable{ID: uuid.New(), Paid: 5000, Status: domain.ReceivableStatusPartiallyPaid, Version: 2}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE receivables")).
		WithArgs(rec.Paid, rec.Status, sqlmock.AnyArg(), sqlmock.AnyArg(), rec.ID, rec.Version).
		WillReturnResult(sqlmock.NewResult(0, 0))

	tx, err := db.Begin()
	require.NoError(t, err)

	err = repo.Update(context.Background(), tx, rec)
	require.ErrorIs(t, err, domain.ErrTransactionConflict)
	assert.Equal(t, int64(2), rec.Version)
}

func TestUpdateWritesLinesAndBumpsVersion(t *testing.T) {
	db, mock := newMock(t)
	repo := NewReceivableRepository(db)
	rec := &domain.Receivable{
		ID:      uuid.New(),
		Paid:    5000,
		Status:  domain.ReceivableStatusPartiallyPaid,
		Version: 2,
		Lines: []domain.ReceivableLine{
			{LineNo: 1, Principal: 5000, Paid: 5000},
			{LineNo: 2, Principal: 5000, Paid: 0},
		},
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE receivables")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE receivable_lines")).
		WithArgs(rec.Lines[0].Paid, rec.ID, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE receivable_lines")).
		WithArgs(rec.Lines[1].Paid, rec.ID, 2).
		WillReturnResult(sqlmock.NewResult(0, 1))

	tx, err := db.Begin()
	require.NoError(t, err)

	require.NoError(t, repo.Update(context.Background(), tx, rec))
	assert.Equal(t, int64(3), rec.Version)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertDuplicateTransaction(t *testing.T) {
	db, mock := newMock(t)
	s := NewStore(db, 0)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO transactions")).
		WillReturnError(&pq.Error{Code: "23505", Constraint: transactionReferenceKey})
	mock.ExpectRollback()

	err := s.RunInTx(context.Background(), func(ctx context.Context, tx store.Tx) error {
		return tx.InsertTransaction(ctx, &domain.Transaction{
			ID:            uuid.New(),
			Type:          domain.TxReversal,
			ReferenceType: domain.RefTransaction,
			ReferenceID:   uuid.NewString(),
			TotalAmount:   100,
		})
	})
	require.ErrorIs(t, err, domain.ErrDuplicateTransaction)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByReferenceNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTransactionRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE type = $1 AND reference_type = $2 AND reference_id = $3")).
		WithArgs(domain.TxSecurityDeposit, domain.RefSecurityDeposit, "dep-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	tx, err := db.Begin()
	require.NoError(t, err)

	_, err = repo.FindByReference(context.Background(), tx, domain.TxSecurityDeposit, domain.RefSecurityDeposit, "dep-1")
	assert.ErrorIs(t, err, domain.ErrTransactionNotFound)
}

func TestAccountTotals(t *testing.T) {
	db, mock := newMock(t)
	repo := NewLedgerRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("GROUP BY account_code")).
		WillReturnRows(sqlmock.NewRows([]string{"account_code", "debit", "credit"}).
			AddRow("1000", int64(100000), int64(0)).
			AddRow("1200", int64(100000), int64(100000)).
			AddRow("4000", int64(0), int64(100000)))

	totals, err := repo.AccountTotals(context.Background())
	require.NoError(t, err)
	require.Len(t, totals, 3)
	assert.Equal(t, store.AccountTotal{AccountCode: domain.AccountCash, Debit: 100000}, totals[0])
	assert.Equal(t, domain.Paisa(100000), totals[2].Credit)
}

func TestListOverdueCandidatesWithoutLimit(t *testing.T) {
	db, mock := newMock(t)
	repo := NewReceivableRepository(db)
	asOf := time.Now()
	id := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY due_date LIMIT $2")).
		WithArgs(asOf, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(id.String()))

	ids, err := repo.ListOverdueCandidates(context.Background(), asOf, 0)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{id}, ids)
}
