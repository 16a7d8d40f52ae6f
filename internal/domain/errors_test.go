package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorFamilies(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		notFound  bool
		retryable bool
	}{
		{name: "receivable missing", err: fmt.Errorf("GetReceivable: %w", ErrReceivableNotFound), notFound: true},
		{name: "payment missing", err: fmt.Errorf("GetPayment: %w", ErrPaymentNotFound), notFound: true},
		{name: "transaction missing", err: ErrTransactionNotFound, notFound: true},
		{name: "conflict", err: fmt.Errorf("commit: %w", ErrTransactionConflict), retryable: true},
		{name: "commit outcome unknown", err: fmt.Errorf("commit: %w", ErrCommitOutcomeUnknown)},
		{name: "duplicate", err: ErrDuplicateTransaction},
		{name: "overpayment", err: &OverpaymentRejectedError{Due: 100, Attempted: 150, Excess: 50}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.notFound, errors.Is(tc.err, ErrNotFound))
			assert.Equal(t, tc.retryable, IsRetryable(tc.err))
		})
	}

	assert.Equal(t, "receivable not found", ErrReceivableNotFound.Error())
	assert.NotErrorIs(t, ErrPaymentNotFound, ErrReceivableNotFound)
}
