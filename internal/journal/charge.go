package journal

import (
	"fmt"

	"github.com/aashishkarki002/tenant-management-sub004/internal/domain"
)

type kindSpec struct {
	chargeType  domain.TransactionType
	paymentType domain.TransactionType
	revenue     domain.AccountCode
	label       string
}

var kinds = map[domain.ReceivableKind]kindSpec{
	domain.ReceivableRent: {
		chargeType:  domain.TxRentCharge,
		paymentType: domain.TxRentPaymentReceived,
		revenue:     domain.AccountRentalRevenue,
		label:       "Rent",
	},
	domain.ReceivableCAM: {
		chargeType:  domain.TxCAMCharge,
		paymentType: domain.TxCAMPaymentReceived,
		revenue:     domain.AccountCAMRevenue,
		label:       "CAM",
	},
	domain.ReceivableElectricity: {
		chargeType:  domain.TxElectricityCharge,
		paymentType: domain.TxElectricityPayment,
		revenue:     domain.AccountElectricityRevenue,
		label:       "Electricity",
	},
	domain.ReceivableMaintenance: {
		chargeType:  domain.TxMaintenanceCharge,
		paymentType: domain.TxMaintenancePaymentReceived,
		revenue:     domain.AccountMaintenanceRevenue,
		label:       "Maintenance",
	},
}

func RentCharge(r *domain.Receivable, opts Options) Payload {
	return buildCharge(kinds[domain.ReceivableRent], r, opts)
}

func CamCharge(r *domain.Receivable, opts Options) Payload {
	return buildCharge(kinds[domain.ReceivableCAM], r, opts)
}

func ElectricityCharge(r *domain.Receivable, opts Options) Payload {
	return buildCharge(kinds[domain.ReceivableElectricity], r, opts)
}

func MaintenanceCharge(r *domain.Receivable, opts Options) Payload {
	return buildCharge(kinds[domain.ReceivableMaintenance], r, opts)
}

// Charge picks the builder matching the receivable's kind.
func Charge(r *domain.Receivable, opts Options) (Payload, error) {
	ks, ok := kinds[r.Kind]
	if !ok {
		return Payload{}, fmt.Errorf("Charge: receivable kind %q: %w", r.Kind, domain.ErrInvalidRequest)
	}
	return buildCharge(ks, r, opts), nil
}

// A charge with tax withheld at source splits the debit: the tenant owes the
// net amount and the withheld part is claimable from the tax authority.
func buildCharge(ks kindSpec, r *domain.Receivable, opts Options) Payload {
	period := periodLabel(r.PeriodMonth, r.PeriodYear, r.Quarter)
	desc := describe(ks.label+" charge", period, r.TenantName)

	var lines []Line
	if r.Withheld > 0 {
		lines = []Line{
			debit(domain.AccountReceivable, r.Principal-r.Withheld, describe(ks.label+" receivable", period, r.TenantName)),
			debit(domain.AccountTDSReceivable, r.Withheld, describe("TDS withheld on "+ks.label, period, r.TenantName)),
			credit(ks.revenue, r.Principal, describe(ks.label+" revenue", period, r.TenantName)),
		}
	} else {
		lines = []Line{
			debit(domain.AccountReceivable, r.Principal, describe(ks.label+" receivable", period, r.TenantName)),
			credit(ks.revenue, r.Principal, describe(ks.label+" revenue", period, r.TenantName)),
		}
	}

	return Payload{
		Type:             ks.chargeType,
		ReferenceType:    r.Kind.ReferenceType(),
		ReferenceID:      r.ID.String(),
		TransactionDate:  opts.date(r.CreatedAt),
		NepaliDate:       opts.nepaliDate(r.NepaliDate),
		TotalAmount:      r.Principal,
		Description:      desc,
		CreatedBy:        opts.createdBy(r.CreatedBy),
		TenantID:         strPtr(r.TenantID),
		PropertyID:       r.PropertyID,
		BillingFrequency: r.BillingFrequency,
		Quarter:          r.Quarter,
		Lines:            lines,
	}
}
