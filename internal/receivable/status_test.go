package receivable

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aashishkarki002/tenant-management-sub004/internal/domain"
)

func TestApplyPayment(t *testing.T) {
	tests := []struct {
		name       string
		bal        Balance
		amount     domain.Paisa
		allow      bool
		wantStatus domain.ReceivableStatus
		wantPaid   domain.Paisa
		wantRemain domain.Paisa
		wantOver   domain.Paisa
		wantErr    error
	}{
		{
			name:       "zero payment on fresh receivable stays pending",
			bal:        Balance{Principal: 100000},
			amount:     0,
			wantStatus: domain.ReceivableStatusPending,
			wantRemain: 100000,
		},
		{
			name:       "partial payment",
			bal:        Balance{Principal: 100000},
			amount:     60000,
			wantStatus: domain.ReceivableStatusPartiallyPaid,
			wantPaid:   60000,
			wantRemain: 40000,
		},
		{
			name:       "exact settlement",
			bal:        Balance{Principal: 100000, Paid: 60000},
			amount:     40000,
			wantStatus: domain.ReceivableStatusPaid,
			wantPaid:   100000,
		},
		{
			name:       "withheld tax reduces what is due",
			bal:        Balance{Principal: 100000, Withheld: 10000},
			amount:     90000,
			wantStatus: domain.ReceivableStatusPaid,
			wantPaid:   90000,
		},
		{
			name:    "overpayment without confirmation",
			bal:     Balance{Principal: 100000},
			amount:  150000,
			wantErr: domain.ErrOverpaymentRejected,
		},
		{
			name:       "overpayment confirmed",
			bal:        Balance{Principal: 100000},
			amount:     150000,
			allow:      true,
			wantStatus: domain.ReceivableStatusOverpaid,
			wantPaid:   150000,
			wantOver:   50000,
		},
		{
			name:    "any payment on a settled receivable is an overpayment",
			bal:     Balance{Principal: 100000, Paid: 100000},
			amount:  1,
			wantErr: domain.ErrOverpaymentRejected,
		},
		{
			name:    "negative amount",
			bal:     Balance{Principal: 100000},
			amount:  -1,
			wantErr: domain.ErrInvalidAmount,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res, err := ApplyPayment(tc.bal, tc.amount, tc.allow)

			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantStatus, res.Status)
			assert.Equal(t, tc.wantPaid, res.NewPaid)
			assert.Equal(t, tc.wantRemain, res.Remaining)
			assert.Equal(t, tc.wantOver, res.OverpaidBy)
		})
	}
}

func TestPartialThenFullSettles(t *testing.T) {
	bal := Balance{Principal: 100000}

	first, err := ApplyPayment(bal, 60000, false)
	require.NoError(t, err)
	assert.Equal(t, domain.ReceivableStatusPartiallyPaid, first.Status)
	assert.Equal(t, domain.Paisa(40000), first.Remaining)

	bal.Paid = first.NewPaid
	second, err := ApplyPayment(bal, 40000, false)
	require.NoError(t, err)
	assert.Equal(t, domain.ReceivableStatusPaid, second.Status)
	assert.Equal(t, domain.Paisa(0), second.Remaining)
}

func TestOverpaymentNeedsExplicitAllowance(t *testing.T) {
	bal := Balance{Principal: 100000}

	_, err := ApplyPayment(bal, 150000, false)
	var rejected *domain.OverpaymentRejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, domain.Paisa(50000), rejected.Excess)

	res, err := ApplyPayment(bal, 150000, true)
	require.NoError(t, err)
	assert.Equal(t, domain.ReceivableStatusOverpaid, res.Status)
	assert.Equal(t, domain.Paisa(150000), res.NewPaid)
	assert.True(t, res.IsOverpayment)
	assert.Equal(t, domain.Paisa(50000), res.Excess)
}

func TestExcessCountsOnlyTheNewPortion(t *testing.T) {
	res, err := ApplyPayment(Balance{Principal: 100000, Paid: 80000}, 50000, true)
	require.NoError(t, err)
	assert.Equal(t, domain.Paisa(30000), res.Excess)
	assert.Equal(t, domain.Paisa(30000), res.OverpaidBy)

	res, err = ApplyPayment(Balance{Principal: 100000, Paid: 130000}, 10000, true)
	require.NoError(t, err)
	assert.Equal(t, domain.Paisa(10000), res.Excess)
	assert.Equal(t, domain.Paisa(40000), res.OverpaidBy)
}

func TestPaidIsMonotonic(t *testing.T) {
	bal := Balance{Principal: 250075}
	payments := []domain.Paisa{0, 1, 50000, 74, 100000, 0, 100000}

	prev := bal.Paid
	for _, amt := range payments {
		res, err := ApplyPayment(bal, amt, true)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, res.NewPaid, prev)
		assert.Equal(t, DeriveStatus(Balance{Principal: bal.Principal, Paid: res.NewPaid}), res.Status)
		prev = res.NewPaid
		bal.Paid = res.NewPaid
	}
}

func TestReversePayment(t *testing.T) {
	res, err := ReversePayment(Balance{Principal: 100000, Paid: 100000}, 40000)
	require.NoError(t, err)
	assert.Equal(t, domain.Paisa(60000), res.NewPaid)
	assert.Equal(t, domain.ReceivableStatusPartiallyPaid, res.Status)

	res, err = ReversePayment(Balance{Principal: 100000, Paid: 150000}, 150000)
	require.NoError(t, err)
	assert.Equal(t, domain.ReceivableStatusPending, res.Status)

	_, err = ReversePayment(Balance{Principal: 100000, Paid: 1000}, 2000)
	require.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestIsConsistent(t *testing.T) {
	tests := []struct {
		name string
		r    domain.Receivable
		want bool
	}{
		{"pending", domain.Receivable{Principal: 100, Status: domain.ReceivableStatusPending}, true},
		{"stale paid", domain.Receivable{Principal: 100, Paid: 50, Status: domain.ReceivableStatusPaid}, false},
		{"overdue partial", domain.Receivable{Principal: 100, Paid: 50, Status: domain.ReceivableStatusOverdue}, true},
		{"overdue but settled", domain.Receivable{Principal: 100, Paid: 100, Status: domain.ReceivableStatusOverdue}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsConsistent(&tc.r))
		})
	}
}

func TestApplyAllocatesAcrossLines(t *testing.T) {
	r := &domain.Receivable{
		Principal: 300000,
		Status:    domain.ReceivableStatusPending,
		Lines: []domain.ReceivableLine{
			{LineNo: 1, UnitID: "A-101", Principal: 100000},
			{LineNo: 2, UnitID: "A-102", Principal: 200000},
		},
	}
	at := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

	next, res, err := Apply(r, 150000, false, at)
	require.NoError(t, err)
	assert.Equal(t, domain.ReceivableStatusPartiallyPaid, res.Status)
	assert.Equal(t, domain.Paisa(100000), next.Lines[0].Paid)
	assert.Equal(t, domain.Paisa(50000), next.Lines[1].Paid)
	assert.Equal(t, at, *next.LastPaidAt)
	assert.Equal(t, domain.Paisa(0), r.Paid, "input must not be mutated")

	totals := Aggregate(next.Lines)
	assert.Equal(t, next.Principal, totals.Principal)
	assert.Equal(t, next.Paid, totals.Paid)
	assert.Equal(t, next.Remaining(), totals.Remaining)

	back, _, err := Reverse(next, 60000)
	require.NoError(t, err)
	assert.Equal(t, domain.Paisa(90000), back.Paid)
	assert.Equal(t, domain.Paisa(90000), back.Lines[0].Paid)
	assert.Equal(t, domain.Paisa(0), back.Lines[1].Paid)
}

func TestAllocateOverpaymentLandsOnLastLine(t *testing.T) {
	lines := []domain.ReceivableLine{
		{LineNo: 1, Principal: 100},
		{LineNo: 2, Principal: 200},
	}
	out := Allocate(lines, 450)
	assert.Equal(t, domain.Paisa(100), out[0].Paid)
	assert.Equal(t, domain.Paisa(350), out[1].Paid)
	assert.Equal(t, domain.Paisa(450), Aggregate(out).Paid)
}

func TestCheckLinesMismatch(t *testing.T) {
	r := &domain.Receivable{
		Principal: 300,
		Lines:     []domain.ReceivableLine{{Principal: 100}, {Principal: 100}},
	}
	require.ErrorIs(t, CheckLines(r), ErrLineTotalsMismatch)
}

func TestDeallocateUndoesAllocate(t *testing.T) {
	lines := []domain.ReceivableLine{
		{LineNo: 1, Principal: 100},
		{LineNo: 2, Principal: 200},
	}
	paid := Allocate(lines, 250)
	back := Deallocate(paid, 120)

	assert.Equal(t, domain.Paisa(100), back[0].Paid)
	assert.Equal(t, domain.Paisa(30), back[1].Paid)
	assert.Equal(t, domain.Paisa(0), lines[1].Paid, "input lines are not modified")

	tot := Aggregate(back)
	assert.Equal(t, domain.Paisa(300), tot.Principal)
	assert.Equal(t, domain.Paisa(130), tot.Paid)
	assert.Equal(t, domain.Paisa(170), tot.Remaining)
}

func TestSplitWithheld(t *testing.T) {
	tests := []struct {
		name       string
		principals []domain.Paisa
		withheld   domain.Paisa
		want       []domain.Paisa
	}{
		{name: "proportional", principals: []domain.Paisa{60000, 40000}, withheld: 10000, want: []domain.Paisa{6000, 4000}},
		{name: "remainder to largest fraction", principals: []domain.Paisa{1, 1, 1}, withheld: 2, want: []domain.Paisa{1, 1, 0}},
		{name: "uneven", principals: []domain.Paisa{10000, 5000}, withheld: 1001, want: []domain.Paisa{667, 334}},
		{name: "nothing withheld", principals: []domain.Paisa{500, 700}, withheld: 0, want: []domain.Paisa{0, 0}},
		{name: "large amounts", principals: []domain.Paisa{4_000_000_000_000_000, 3_000_000_000_000_000}, withheld: 3_500_000_000_000_000, want: []domain.Paisa{2_000_000_000_000_000, 1_500_000_000_000_000}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			lines := make([]domain.ReceivableLine, len(tc.principals))
			for i, p := range tc.principals {
				lines[i] = domain.ReceivableLine{LineNo: i + 1, Principal: p}
			}
			out := SplitWithheld(lines, tc.withheld)
			require.Len(t, out, len(tc.want))
			for i := range out {
				assert.Equal(t, tc.want[i], out[i].Withheld, "line %d", i+1)
				assert.LessOrEqual(t, out[i].Withheld, out[i].Principal)
			}
			assert.Equal(t, tc.withheld, Aggregate(out).Withheld)
			assert.Equal(t, domain.Paisa(0), lines[0].Withheld, "input lines are not modified")
		})
	}
}

func TestWithheldLinesSettleInFull(t *testing.T) {
	r := &domain.Receivable{
		Principal: 100000,
		Withheld:  10000,
		Status:    domain.ReceivableStatusPending,
		Lines: SplitWithheld([]domain.ReceivableLine{
			{LineNo: 1, UnitID: "A-101", Principal: 60000},
			{LineNo: 2, UnitID: "A-102", Principal: 40000},
		}, 10000),
	}
	at := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

	next, res, err := Apply(r, 90000, false, at)
	require.NoError(t, err)
	assert.Equal(t, domain.ReceivableStatusPaid, res.Status)
	assert.Equal(t, domain.Paisa(54000), next.Lines[0].Paid)
	assert.Equal(t, domain.Paisa(36000), next.Lines[1].Paid)

	var remaining domain.Paisa
	for _, l := range next.Lines {
		remaining += l.Remaining()
	}
	assert.Equal(t, domain.Paisa(0), remaining)
	assert.Equal(t, next.Remaining(), Aggregate(next.Lines).Remaining)

	back, _, err := Reverse(next, 50000)
	require.NoError(t, err)
	assert.Equal(t, domain.Paisa(40000), back.Paid)
	assert.Equal(t, domain.Paisa(50000), Aggregate(back.Lines).Remaining)
}

func TestCheckLinesCatchesWithheldDrift(t *testing.T) {
	r := &domain.Receivable{
		Principal: 100000,
		Withheld:  10000,
		Lines: []domain.ReceivableLine{
			{LineNo: 1, Principal: 60000},
			{LineNo: 2, Principal: 40000},
		},
	}
	require.ErrorIs(t, CheckLines(r), ErrLineTotalsMismatch)
	r.Lines = SplitWithheld(r.Lines, r.Withheld)
	require.NoError(t, CheckLines(r))
}
