package billing

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/aashishkarki002/tenant-management-sub004/internal/domain"
	"github.com/aashishkarki002/tenant-management-sub004/internal/journal"
	"github.com/aashishkarki002/tenant-management-sub004/internal/logging"
	"github.com/aashishkarki002/tenant-management-sub004/internal/posting"
	"github.com/aashishkarki002/tenant-management-sub004/internal/receivable"
	"github.com/aashishkarki002/tenant-management-sub004/internal/store"
)

type ChargeResult struct {
	Receivable *domain.Receivable
	Journal    *posting.Posted
}

// CreateCharge opens a receivable and posts its charge journal.
func (s *Service) CreateCharge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	r, err := s.newReceivable(req)
	if err != nil {
		return nil, fmt.Errorf("CreateCharge: %w", err)
	}

	var posted *posting.Posted
	err = s.store.RunInTx(ctx, func(ctx context.Context, tx store.Tx) error {
		if err := tx.CreateReceivable(ctx, r); err != nil {
			return fmt.Errorf("create receivable: %w", err)
		}
		payload, err := journal.Charge(r, journal.Options{Date: req.Date, CreatedBy: req.CreatedBy})
		if err != nil {
			return err
		}
		posted, err = s.poster.PostJournalEntry(ctx, tx, payload)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("CreateCharge: %w", err)
	}

	logging.FromContext(ctx).Info("charge created",
		"receivable_id", r.ID,
		"kind", r.Kind,
		"tenant_id", r.TenantID,
		"principal_paisa", int64(r.Principal),
		"withheld_paisa", int64(r.Withheld),
		"transaction_id", posted.Transaction.ID,
	)

	return &ChargeResult{Receivable: r, Journal: posted}, nil
}

func (s *Service) newReceivable(req ChargeRequest) (*domain.Receivable, error) {
	if err := s.requests.check(req); err != nil {
		return nil, err
	}

	lines, lineTotal, err := chargeLines(req.Lines)
	if err != nil {
		return nil, err
	}

	var principal domain.Paisa
	switch {
	case req.Amount.IsSet():
		if principal, err = positiveAmount("amount", req.Amount); err != nil {
			return nil, err
		}
		if len(lines) > 0 && lineTotal != principal {
			return nil, fmt.Errorf("lines sum to %s, amount is %s: %w", lineTotal, principal, domain.ErrInvalidRequest)
		}
	case len(lines) > 0:
		principal = lineTotal
	default:
		return nil, fmt.Errorf("amount is required: %w", domain.ErrInvalidAmount)
	}

	withheld, err := req.Withheld.Resolve()
	if err != nil {
		return nil, fmt.Errorf("withheld: %w", err)
	}
	if withheld >= principal {
		return nil, fmt.Errorf("withheld %s must be below principal %s: %w", withheld, principal, domain.ErrInvalidAmount)
	}

	lines = receivable.SplitWithheld(lines, withheld)

	id := uuid.New()
	if req.ReferenceID != "" {
		id = uuid.MustParse(req.ReferenceID)
	}

	now := s.now().UTC()
	return &domain.Receivable{
		ID:               id,
		Kind:             req.Kind,
		TenantID:         req.TenantID,
		TenantName:       req.TenantName,
		PropertyID:       req.PropertyID,
		Principal:        principal,
		Withheld:         withheld,
		Status:           domain.ReceivableStatusPending,
		DueDate:          req.DueDate,
		PeriodMonth:      req.PeriodMonth,
		PeriodYear:       req.PeriodYear,
		NepaliDate:       req.NepaliDate,
		BillingFrequency: req.BillingFrequency,
		Quarter:          req.Quarter,
		Lines:            lines,
		CreatedBy:        req.CreatedBy,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

func chargeLines(in []ChargeLine) ([]domain.ReceivableLine, domain.Paisa, error) {
	if len(in) == 0 {
		return nil, 0, nil
	}
	lines := make([]domain.ReceivableLine, len(in))
	var total domain.Paisa
	for i, l := range in {
		amt, err := positiveAmount(fmt.Sprintf("lines[%d].amount", i), l.Amount)
		if err != nil {
			return nil, 0, err
		}
		lines[i] = domain.ReceivableLine{
			LineNo:      i + 1,
			UnitID:      l.UnitID,
			Description: l.Description,
			Principal:   amt,
		}
		if total+amt < total {
			return nil, 0, fmt.Errorf("line totals overflow: %w", domain.ErrInvalidAmount)
		}
		total += amt
	}
	return lines, total, nil
}
