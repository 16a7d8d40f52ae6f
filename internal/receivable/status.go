// Package receivable derives the paid/owed state of a billable record.
//
// Everything here is pure: callers load the receivable inside a unit of work,
// run these functions and persist the result in the same unit.
package receivable

import (
	"errors"
	"fmt"
	"time"

	"github.com/aashishkarki002/tenant-management-sub004/internal/domain"
)

var ErrLineTotalsMismatch = errors.New("receivable lines do not add up to the receivable totals")

type Balance struct {
	Principal domain.Paisa
	Paid      domain.Paisa
	Withheld  domain.Paisa
}

func BalanceOf(r *domain.Receivable) Balance {
	return Balance{Principal: r.Principal, Paid: r.Paid, Withheld: r.Withheld}
}

func (b Balance) Due() domain.Paisa {
	return b.Principal - b.Withheld
}

type Result struct {
	NewPaid       domain.Paisa
	Remaining     domain.Paisa
	Status        domain.ReceivableStatus
	IsOverpayment bool
	// OverpaidBy is the cumulative amount paid beyond what is due.
	OverpaidBy domain.Paisa
	// Excess is the part of this payment that went beyond what was due.
	Excess domain.Paisa
}

// DeriveStatus evaluates the status rules in order, first match wins.
func DeriveStatus(b Balance) domain.ReceivableStatus {
	due := b.Due()
	switch {
	case b.Paid == 0:
		return domain.ReceivableStatusPending
	case b.Paid == due:
		return domain.ReceivableStatusPaid
	case b.Paid > due:
		return domain.ReceivableStatusOverpaid
	default:
		return domain.ReceivableStatusPartiallyPaid
	}
}

// ApplyPayment computes the state after amount is paid. A payment that would
// take the receivable past what is due is rejected with the excess unless the
// caller has confirmed the overpayment.
func ApplyPayment(b Balance, amount domain.Paisa, allowOverpayment bool) (Result, error) {
	if amount < 0 {
		return Result{}, fmt.Errorf("ApplyPayment: negative amount %d: %w", amount, domain.ErrInvalidAmount)
	}
	newPaid := b.Paid + amount
	if newPaid < b.Paid {
		return Result{}, fmt.Errorf("ApplyPayment: amount %d overflows: %w", amount, domain.ErrInvalidAmount)
	}

	due := b.Due()
	res := Result{
		NewPaid:   newPaid,
		Remaining: max(due-newPaid, 0),
		Status:    DeriveStatus(Balance{Principal: b.Principal, Paid: newPaid, Withheld: b.Withheld}),
	}

	if newPaid > due {
		res.OverpaidBy = newPaid - due
		res.Excess = newPaid - max(due, b.Paid)
		res.IsOverpayment = res.Excess > 0
		if res.IsOverpayment && !allowOverpayment {
			return Result{}, &domain.OverpaymentRejectedError{
				Due:       due,
				Paid:      b.Paid,
				Attempted: amount,
				Excess:    res.Excess,
			}
		}
	}

	return res, nil
}

// ReversePayment undoes a previously applied payment. It is the only way paid
// may decrease.
func ReversePayment(b Balance, amount domain.Paisa) (Result, error) {
	if amount <= 0 || amount > b.Paid {
		return Result{}, fmt.Errorf("ReversePayment: cannot reverse %d of %d paid: %w", amount, b.Paid, domain.ErrInvalidAmount)
	}
	newPaid := b.Paid - amount
	due := b.Due()
	return Result{
		NewPaid:    newPaid,
		Remaining:  max(due-newPaid, 0),
		Status:     DeriveStatus(Balance{Principal: b.Principal, Paid: newPaid, Withheld: b.Withheld}),
		OverpaidBy: max(newPaid-due, 0),
	}, nil
}

// IsConsistent reports whether the stored status matches the stored amounts.
// Overdue is set by the overdue sweep and stands in for any open status.
func IsConsistent(r *domain.Receivable) bool {
	derived := DeriveStatus(BalanceOf(r))
	if r.Status == domain.ReceivableStatusOverdue {
		return derived == domain.ReceivableStatusPending || derived == domain.ReceivableStatusPartiallyPaid
	}
	return r.Status == derived
}

// Apply returns a copy of r with the payment applied, including the sub-line
// allocation.
func Apply(r *domain.Receivable, amount domain.Paisa, allowOverpayment bool, paidAt time.Time) (*domain.Receivable, Result, error) {
	res, err := ApplyPayment(BalanceOf(r), amount, allowOverpayment)
	if err != nil {
		return nil, Result{}, err
	}
	next := r.Clone()
	next.Paid = res.NewPaid
	next.Status = res.Status
	next.Lines = Allocate(r.Lines, amount)
	if amount > 0 {
		at := paidAt
		next.LastPaidAt = &at
	}
	if err := CheckLines(next); err != nil {
		return nil, Result{}, fmt.Errorf("Apply: %w", err)
	}
	return next, res, nil
}

// Reverse returns a copy of r with a payment of amount taken back out.
func Reverse(r *domain.Receivable, amount domain.Paisa) (*domain.Receivable, Result, error) {
	res, err := ReversePayment(BalanceOf(r), amount)
	if err != nil {
		return nil, Result{}, err
	}
	next := r.Clone()
	next.Paid = res.NewPaid
	next.Status = res.Status
	next.Lines = Deallocate(r.Lines, amount)
	if err := CheckLines(next); err != nil {
		return nil, Result{}, fmt.Errorf("Reverse: %w", err)
	}
	return next, res, nil
}
