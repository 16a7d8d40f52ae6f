package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/aashishkarki002/tenant-management-sub004/internal/domain"
)

type scanner interface {
	Scan(dest ...any) error
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const (
	codeUniqueViolation      = "23505"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeLockNotAvailable     = "55P03"
	codeQueryCanceled        = "57014"

	transactionReferenceKey = "transactions_reference_key"
)

// classify maps driver failures onto the domain errors callers branch on.
// Anything it does not recognise is returned unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", domain.ErrTransactionConflict, err)
	}

	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch pqErr.Code {
	case codeUniqueViolation:
		if pqErr.Constraint == transactionReferenceKey {
			return fmt.Errorf("%w: %w", domain.ErrDuplicateTransaction, err)
		}
		return fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
	case codeSerializationFailure, codeDeadlockDetected, codeLockNotAvailable, codeQueryCanceled:
		return fmt.Errorf("%w: %w", domain.ErrTransactionConflict, err)
	}
	return err
}

// classifyCommit separates a commit the server answered from one whose
// connection failed mid-flight, which may have applied.
func classifyCommit(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) || errors.Is(err, sql.ErrTxDone) {
		return classify(err)
	}
	return fmt.Errorf("%w: %w", domain.ErrCommitOutcomeUnknown, err)
}
