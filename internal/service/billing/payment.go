package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/aashishkarki002/tenant-management-sub004/internal/domain"
	"github.com/aashishkarki002/tenant-management-sub004/internal/journal"
	"github.com/aashishkarki002/tenant-management-sub004/internal/logging"
	"github.com/aashishkarki002/tenant-management-sub004/internal/posting"
	"github.com/aashishkarki002/tenant-management-sub004/internal/receivable"
	"github.com/aashishkarki002/tenant-management-sub004/internal/store"
)

type PaymentResult struct {
	Payment    *domain.Payment
	Receivable *domain.Receivable
	Outcome    receivable.Result
	Journal    *posting.Posted
}

// RecordPayment applies a payment to a receivable. The receivable is re-read
// inside the unit of work so two payments against it cannot both see the old
// balance.
func (s *Service) RecordPayment(ctx context.Context, req PaymentRequest) (*PaymentResult, error) {
	ctx = logging.With(ctx, "receivable_id", req.ReceivableID)
	log := logging.FromContext(ctx)

	if err := s.requests.check(req); err != nil {
		return nil, fmt.Errorf("RecordPayment: %w", err)
	}
	amount, err := positiveAmount("amount", req.Amount)
	if err != nil {
		return nil, fmt.Errorf("RecordPayment: %w", err)
	}

	paymentID := req.PaymentID
	if paymentID == uuid.Nil {
		paymentID = uuid.New()
	}

	paidAt := s.dateOr(req.Date)
	var out PaymentResult
	err = s.store.RunInTx(ctx, func(ctx context.Context, tx store.Tx) error {
		r, err := tx.GetReceivableForUpdate(ctx, req.ReceivableID)
		if err != nil {
			return err
		}

		// Checked after the lock so a resubmission waits for the first
		// attempt to commit or roll back.
		if _, err := tx.GetPayment(ctx, paymentID); err == nil {
			return fmt.Errorf("payment %s: %w", paymentID, domain.ErrDuplicateTransaction)
		} else if !errors.Is(err, domain.ErrPaymentNotFound) {
			return err
		}

		next, res, err := receivable.Apply(r, amount, req.AllowOverpayment, paidAt)
		if err != nil {
			return err
		}
		next.UpdatedAt = s.now().UTC()
		if err := tx.UpdateReceivable(ctx, next); err != nil {
			return fmt.Errorf("update receivable: %w", err)
		}

		p := &domain.Payment{
			ID:           paymentID,
			ReceivableID: r.ID,
			Amount:       amount,
			Method:       req.Method,
			PaidAt:       paidAt,
			PayerID:      req.PayerID,
			ReceivedBy:   req.ReceivedBy,
			Note:         req.Note,
			CreatedAt:    next.UpdatedAt,
		}
		if err := tx.CreatePayment(ctx, p); err != nil {
			return fmt.Errorf("create payment: %w", err)
		}

		payload, err := journal.Payment(next, p, res.Excess, journal.Options{NepaliDate: req.NepaliDate})
		if err != nil {
			return err
		}
		posted, err := s.poster.PostJournalEntry(ctx, tx, payload)
		if err != nil {
			return err
		}

		out = PaymentResult{Payment: p, Receivable: next, Outcome: res, Journal: posted}
		return nil
	})
	if err != nil {
		var over *domain.OverpaymentRejectedError
		switch {
		case errors.As(err, &over):
			log.Info("overpayment rejected",
				"amount_paisa", int64(amount),
				"excess_paisa", int64(over.Excess),
			)
		case errors.Is(err, domain.ErrCommitOutcomeUnknown):
			log.Warn("payment commit outcome unknown", "payment_id", paymentID)
		}
		return nil, fmt.Errorf("RecordPayment: %w", err)
	}

	log.Info("payment recorded",
		"payment_id", out.Payment.ID,
		"amount_paisa", int64(amount),
		"method", req.Method,
		"status", out.Outcome.Status,
		"excess_paisa", int64(out.Outcome.Excess),
		"transaction_id", out.Journal.Transaction.ID,
	)

	return &out, nil
}

type ReversalResult struct {
	Payment    *domain.Payment
	Receivable *domain.Receivable
	Journal    *posting.Posted
}

// ReversePayment takes a payment back out of its receivable and posts the
// mirror image of its journal. A payment can be reversed once.
func (s *Service) ReversePayment(ctx context.Context, req ReversalRequest) (*ReversalResult, error) {
	if err := s.requests.check(req); err != nil {
		return nil, fmt.Errorf("ReversePayment: %w", err)
	}

	var out ReversalResult
	err := s.store.RunInTx(ctx, func(ctx context.Context, tx store.Tx) error {
		p, err := tx.GetPayment(ctx, req.PaymentID)
		if err != nil {
			return err
		}
		r, err := tx.GetReceivableForUpdate(ctx, p.ReceivableID)
		if err != nil {
			return err
		}

		txType, ok := journal.PaymentType(r.Kind)
		if !ok {
			return fmt.Errorf("receivable kind %q: %w", r.Kind, domain.ErrInvalidRequest)
		}
		orig, err := tx.FindTransactionByReference(ctx, txType, domain.RefPayment, p.ID.String())
		if err != nil {
			return fmt.Errorf("payment journal: %w", err)
		}
		entries, err := tx.ListLedgerEntries(ctx, orig.ID)
		if err != nil {
			return err
		}

		next, _, err := receivable.Reverse(r, p.Amount)
		if err != nil {
			return err
		}
		next.UpdatedAt = s.now().UTC()
		if err := tx.UpdateReceivable(ctx, next); err != nil {
			return fmt.Errorf("update receivable: %w", err)
		}

		payload := journal.Reversal(orig, entries, req.Reason, journal.Options{Date: s.dateOr(req.Date), CreatedBy: req.ReversedBy})
		posted, err := s.poster.PostJournalEntry(ctx, tx, payload)
		if err != nil {
			return err
		}

		out = ReversalResult{Payment: p, Receivable: next, Journal: posted}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ReversePayment: %w", err)
	}

	logging.FromContext(ctx).Info("payment reversed",
		"payment_id", out.Payment.ID,
		"amount_paisa", int64(out.Payment.Amount),
		"status", out.Receivable.Status,
		"transaction_id", out.Journal.Transaction.ID,
	)

	return &out, nil
}
