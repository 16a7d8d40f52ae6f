package journal

import (
	"fmt"

	"github.com/aashishkarki002/tenant-management-sub004/internal/domain"
)

func RentPayment(r *domain.Receivable, p *domain.Payment, excess domain.Paisa, opts Options) Payload {
	return buildPayment(kinds[domain.ReceivableRent], r, p, excess, opts)
}

func CamPayment(r *domain.Receivable, p *domain.Payment, excess domain.Paisa, opts Options) Payload {
	return buildPayment(kinds[domain.ReceivableCAM], r, p, excess, opts)
}

func ElectricityPayment(r *domain.Receivable, p *domain.Payment, excess domain.Paisa, opts Options) Payload {
	return buildPayment(kinds[domain.ReceivableElectricity], r, p, excess, opts)
}

func MaintenancePayment(r *domain.Receivable, p *domain.Payment, excess domain.Paisa, opts Options) Payload {
	return buildPayment(kinds[domain.ReceivableMaintenance], r, p, excess, opts)
}

// Payment picks the builder matching the receivable's kind. excess is the
// part of the payment beyond what was due; it is credited to tenant advances
// instead of the receivable.
func Payment(r *domain.Receivable, p *domain.Payment, excess domain.Paisa, opts Options) (Payload, error) {
	ks, ok := kinds[r.Kind]
	if !ok {
		return Payload{}, fmt.Errorf("Payment: receivable kind %q: %w", r.Kind, domain.ErrInvalidRequest)
	}
	return buildPayment(ks, r, p, excess, opts), nil
}

func buildPayment(ks kindSpec, r *domain.Receivable, p *domain.Payment, excess domain.Paisa, opts Options) Payload {
	period := periodLabel(r.PeriodMonth, r.PeriodYear, r.Quarter)
	excess = min(max(excess, 0), p.Amount)
	applied := p.Amount - excess

	lines := []Line{
		debit(p.Method.SettlementAccount(), p.Amount, describe(ks.label+" payment received", period, r.TenantName)),
	}
	if applied > 0 {
		lines = append(lines, credit(domain.AccountReceivable, applied, describe(ks.label+" receivable settled", period, r.TenantName)))
	}
	if excess > 0 {
		lines = append(lines, credit(domain.AccountTenantAdvances, excess, describe(ks.label+" overpayment held as advance", period, r.TenantName)))
	}

	return Payload{
		Type:             ks.paymentType,
		ReferenceType:    domain.RefPayment,
		ReferenceID:      p.ID.String(),
		TransactionDate:  opts.date(p.PaidAt),
		NepaliDate:       opts.nepaliDate(""),
		TotalAmount:      p.Amount,
		Description:      describe(ks.label+" payment received", period, r.TenantName),
		CreatedBy:        opts.createdBy(p.ReceivedBy),
		TenantID:         strPtr(r.TenantID),
		PropertyID:       r.PropertyID,
		BillingFrequency: r.BillingFrequency,
		Quarter:          r.Quarter,
		Lines:            lines,
	}
}

// PaymentType is the transaction type a payment against kind is posted as.
func PaymentType(kind domain.ReceivableKind) (domain.TransactionType, bool) {
	ks, ok := kinds[kind]
	return ks.paymentType, ok
}
