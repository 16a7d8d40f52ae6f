package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound             = errors.New("not found")
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrInvalidRequest       = errors.New("invalid request")
	ErrUnbalancedJournal    = errors.New("unbalanced journal")
	ErrUnknownAccount       = errors.New("unknown account")
	ErrOverpaymentRejected  = errors.New("overpayment rejected")
	ErrReceivableNotFound   = fmt.Errorf("receivable %w", ErrNotFound)
	ErrPaymentNotFound      = fmt.Errorf("payment %w", ErrNotFound)
	ErrTransactionNotFound  = fmt.Errorf("transaction %w", ErrNotFound)
	ErrTransactionConflict  = errors.New("transaction conflict, retry with fresh state")
	ErrDuplicateTransaction = errors.New("transaction already posted for this reference")

	// ErrCommitOutcomeUnknown means the commit may or may not have applied.
	// Retrying is only safe with the same idempotency key.
	ErrCommitOutcomeUnknown = errors.New("commit outcome unknown")
)

// OverpaymentRejectedError is an expected outcome: the caller may confirm and
// retry with overpayment allowed.
type OverpaymentRejectedError struct {
	Due       Paisa
	Paid      Paisa
	Attempted Paisa
	Excess    Paisa
}

func (e *OverpaymentRejectedError) Error() string {
	return fmt.Sprintf("overpayment rejected: payment of %d paisa exceeds outstanding balance by %d paisa", e.Attempted, e.Excess)
}

func (e *OverpaymentRejectedError) Unwrap() error { return ErrOverpaymentRejected }

type UnbalancedJournalError struct {
	Debits  Paisa
	Credits Paisa
	Total   Paisa
	Reason  string
}

func (e *UnbalancedJournalError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("unbalanced journal: %s", e.Reason)
	}
	return fmt.Sprintf("unbalanced journal: debits %d, credits %d, total %d", e.Debits, e.Credits, e.Total)
}

func (e *UnbalancedJournalError) Unwrap() error { return ErrUnbalancedJournal }

type UnknownAccountError struct {
	Code AccountCode
}

func (e *UnknownAccountError) Error() string {
	return fmt.Sprintf("unknown account code %q", e.Code)
}

func (e *UnknownAccountError) Unwrap() error { return ErrUnknownAccount }

// IsRetryable reports whether the caller should retry the whole operation
// against fresh state.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTransactionConflict)
}
