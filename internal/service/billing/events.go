package billing

import (
	"context"
	"fmt"

	"github.com/aashishkarki002/tenant-management-sub004/internal/domain"
	"github.com/aashishkarki002/tenant-management-sub004/internal/journal"
	"github.com/aashishkarki002/tenant-management-sub004/internal/logging"
	"github.com/aashishkarki002/tenant-management-sub004/internal/posting"
	"github.com/aashishkarki002/tenant-management-sub004/internal/store"
)

func (s *Service) securityDeposit(req SecurityDepositRequest) (*domain.SecurityDeposit, error) {
	if err := s.requests.check(req); err != nil {
		return nil, err
	}
	amount, err := positiveAmount("amount", req.Amount)
	if err != nil {
		return nil, err
	}
	return &domain.SecurityDeposit{
		ID:         req.DepositID,
		TenantID:   req.TenantID,
		TenantName: req.TenantName,
		PropertyID: req.PropertyID,
		Amount:     amount,
		Method:     req.Method,
		Date:       s.dateOr(req.Date),
		NepaliDate: req.NepaliDate,
		CreatedBy:  req.CreatedBy,
	}, nil
}

func (s *Service) RecordSecurityDeposit(ctx context.Context, req SecurityDepositRequest) (*posting.Posted, error) {
	d, err := s.securityDeposit(req)
	if err != nil {
		return nil, fmt.Errorf("RecordSecurityDeposit: %w", err)
	}

	posted, err := s.post(ctx, journal.SecurityDeposit(d, journal.Options{}))
	if err != nil {
		return nil, fmt.Errorf("RecordSecurityDeposit: %w", err)
	}

	logging.FromContext(ctx).Info("security deposit recorded",
		"deposit_id", d.ID,
		"tenant_id", d.TenantID,
		"amount_paisa", int64(d.Amount),
		"transaction_id", posted.Transaction.ID,
	)
	return posted, nil
}

// RefundSecurityDeposit returns up to the amount originally deposited under
// DepositID.
func (s *Service) RefundSecurityDeposit(ctx context.Context, req SecurityDepositRequest) (*posting.Posted, error) {
	d, err := s.securityDeposit(req)
	if err != nil {
		return nil, fmt.Errorf("RefundSecurityDeposit: %w", err)
	}

	var posted *posting.Posted
	err = s.store.RunInTx(ctx, func(ctx context.Context, tx store.Tx) error {
		deposit, err := tx.FindTransactionByReference(ctx, domain.TxSecurityDeposit, domain.RefSecurityDeposit, d.ID)
		if err != nil {
			return fmt.Errorf("deposit %s: %w", d.ID, err)
		}
		if d.Amount > deposit.TotalAmount {
			return fmt.Errorf("refund %s exceeds deposit %s: %w", d.Amount, deposit.TotalAmount, domain.ErrInvalidAmount)
		}
		posted, err = s.poster.PostJournalEntry(ctx, tx, journal.SecurityDepositRefund(d, journal.Options{}))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("RefundSecurityDeposit: %w", err)
	}

	logging.FromContext(ctx).Info("security deposit refunded",
		"deposit_id", d.ID,
		"tenant_id", d.TenantID,
		"amount_paisa", int64(d.Amount),
		"transaction_id", posted.Transaction.ID,
	)
	return posted, nil
}

func (s *Service) RecordExpense(ctx context.Context, req ExpenseRequest) (*posting.Posted, error) {
	if err := s.requests.check(req); err != nil {
		return nil, fmt.Errorf("RecordExpense: %w", err)
	}
	amount, err := positiveAmount("amount", req.Amount)
	if err != nil {
		return nil, fmt.Errorf("RecordExpense: %w", err)
	}

	e := &domain.Expense{
		ID:          req.ExpenseID,
		Category:    req.Category,
		Amount:      amount,
		Method:      req.Method,
		Date:        s.dateOr(req.Date),
		NepaliDate:  req.NepaliDate,
		PropertyID:  req.PropertyID,
		Payee:       req.Payee,
		Description: req.Description,
		CreatedBy:   req.CreatedBy,
	}
	payload, err := journal.Expense(e, journal.Options{})
	if err != nil {
		return nil, fmt.Errorf("RecordExpense: %w", err)
	}
	posted, err := s.post(ctx, payload)
	if err != nil {
		return nil, fmt.Errorf("RecordExpense: %w", err)
	}

	logging.FromContext(ctx).Info("expense recorded",
		"expense_id", e.ID,
		"category", e.Category,
		"amount_paisa", int64(e.Amount),
		"transaction_id", posted.Transaction.ID,
	)
	return posted, nil
}

func (s *Service) RecordRevenue(ctx context.Context, req RevenueRequest) (*posting.Posted, error) {
	if err := s.requests.check(req); err != nil {
		return nil, fmt.Errorf("RecordRevenue: %w", err)
	}
	amount, err := positiveAmount("amount", req.Amount)
	if err != nil {
		return nil, fmt.Errorf("RecordRevenue: %w", err)
	}

	rs := &domain.RevenueStream{
		ID:          req.RevenueID,
		Source:      req.Source,
		Amount:      amount,
		Method:      req.Method,
		Date:        s.dateOr(req.Date),
		NepaliDate:  req.NepaliDate,
		TenantID:    req.TenantID,
		PropertyID:  req.PropertyID,
		Description: req.Description,
		CreatedBy:   req.CreatedBy,
	}
	posted, err := s.post(ctx, journal.RevenueStream(rs, journal.Options{}))
	if err != nil {
		return nil, fmt.Errorf("RecordRevenue: %w", err)
	}

	logging.FromContext(ctx).Info("revenue recorded",
		"revenue_id", rs.ID,
		"source", rs.Source,
		"amount_paisa", int64(rs.Amount),
		"transaction_id", posted.Transaction.ID,
	)
	return posted, nil
}
