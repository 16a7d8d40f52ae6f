package mongo

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/aashishkarki002/tenant-management-sub004/internal/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		want      error
		retryable bool
	}{
		{
			name: "unknown commit result wins over conflict code",
			err:  mongo.CommandError{Code: codeWriteConflict, Labels: []string{labelUnknownCommitResult, labelTransientTransaction}},
			want: domain.ErrCommitOutcomeUnknown,
		},
		{
			name:      "transient transaction",
			err:       mongo.CommandError{Code: 24, Labels: []string{labelTransientTransaction}},
			want:      domain.ErrTransactionConflict,
			retryable: true,
		},
		{
			name:      "write conflict",
			err:       mongo.CommandError{Code: codeWriteConflict},
			want:      domain.ErrTransactionConflict,
			retryable: true,
		},
		{
			name:      "no such transaction",
			err:       mongo.CommandError{Code: codeNoSuchTransaction},
			want:      domain.ErrTransactionConflict,
			retryable: true,
		},
		{
			name: "duplicate key",
			err:  mongo.CommandError{Code: 11000},
			want: domain.ErrInvalidRequest,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := classify(tc.err)
			assert.ErrorIs(t, got, tc.want)
			assert.Equal(t, tc.retryable, domain.IsRetryable(got))
		})
	}

	other := mongo.CommandError{Code: 2}
	assert.Equal(t, error(other), classify(other))
	assert.NoError(t, classify(nil))
}

func TestClassifyCommit(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		want      error
		retryable bool
	}{
		{
			name: "labelled unknown",
			err:  mongo.CommandError{Code: 91, Labels: []string{labelUnknownCommitResult}},
			want: domain.ErrCommitOutcomeUnknown,
		},
		{
			name: "deadline while committing",
			err:  fmt.Errorf("commit: %w", context.DeadlineExceeded),
			want: domain.ErrCommitOutcomeUnknown,
		},
		{
			name:      "server rejected the commit",
			err:       mongo.CommandError{Code: codeNoSuchTransaction, Labels: []string{labelTransientTransaction}},
			want:      domain.ErrTransactionConflict,
			retryable: true,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := classifyCommit(tc.err)
			assert.True(t, errors.Is(got, tc.want), "got %v", got)
			assert.Equal(t, tc.retryable, domain.IsRetryable(got))
		})
	}
}
