package accounts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aashishkarki002/tenant-management-sub004/internal/domain"
)

func TestDefaultRegistry(t *testing.T) {
	r := Default()

	tests := []struct {
		code domain.AccountCode
		role domain.AccountRole
	}{
		{domain.AccountCash, domain.AccountRoleAsset},
		{domain.AccountReceivable, domain.AccountRoleAsset},
		{domain.AccountSecurityDeposit, domain.AccountRoleLiability},
		{domain.AccountRentalRevenue, domain.AccountRoleRevenue},
		{domain.AccountOtherExpense, domain.AccountRoleExpense},
	}

	for _, tc := range tests {
		t.Run(string(tc.code), func(t *testing.T) {
			a, err := r.Lookup(tc.code)
			require.NoError(t, err)
			assert.Equal(t, tc.role, a.Role)
		})
	}

	assert.Len(t, r.All(), len(chart))
}

func TestLookupUnknown(t *testing.T) {
	_, err := Default().Lookup("9999")

	require.ErrorIs(t, err, domain.ErrUnknownAccount)
	var unknown *domain.UnknownAccountError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, domain.AccountCode("9999"), unknown.Code)
}

func TestNewRejectsInvalidChart(t *testing.T) {
	tests := []struct {
		name  string
		accts []domain.Account
	}{
		{
			name: "duplicate code",
			accts: []domain.Account{
				{Code: "1000", Role: domain.AccountRoleAsset},
				{Code: "1000", Role: domain.AccountRoleRevenue},
			},
		},
		{
			name:  "empty code",
			accts: []domain.Account{{Code: "", Role: domain.AccountRoleAsset}},
		},
		{
			name:  "unknown role",
			accts: []domain.Account{{Code: "1000", Role: "equity"}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.accts...)
			require.Error(t, err)
		})
	}
}
