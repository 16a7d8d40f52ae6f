package domain

import (
	"time"

	"github.com/google/uuid"
)

type ReceivableKind string

const (
	ReceivableRent        ReceivableKind = "rent"
	ReceivableCAM         ReceivableKind = "cam"
	ReceivableElectricity ReceivableKind = "electricity"
	ReceivableMaintenance ReceivableKind = "maintenance"
)

func (k ReceivableKind) IsValid() bool {
	switch k {
	case ReceivableRent, ReceivableCAM, ReceivableElectricity, ReceivableMaintenance:
		return true
	}
	return false
}

func (k ReceivableKind) ReferenceType() ReferenceType {
	switch k {
	case ReceivableCAM:
		return RefCam
	case ReceivableElectricity:
		return RefElectricity
	case ReceivableMaintenance:
		return RefMaintenance
	default:
		return RefRent
	}
}

type ReceivableStatus string

const (
	ReceivableStatusPending       ReceivableStatus = "pending"
	ReceivableStatusPartiallyPaid ReceivableStatus = "partially_paid"
	ReceivableStatusPaid          ReceivableStatus = "paid"
	ReceivableStatusOverdue       ReceivableStatus = "overdue"
	ReceivableStatusOverpaid      ReceivableStatus = "overpaid"
)

// IsOpen reports whether money is still owed.
func (s ReceivableStatus) IsOpen() bool {
	return s == ReceivableStatusPending || s == ReceivableStatusPartiallyPaid || s == ReceivableStatusOverdue
}

type ReceivableLine struct {
	LineNo      int
	UnitID      string
	Description string
	Principal   Paisa
	Withheld    Paisa
	Paid        Paisa
}

// Due is what the tenant owes on this line once its share of any
// withholding is taken out.
func (l ReceivableLine) Due() Paisa { return l.Principal - l.Withheld }

func (l ReceivableLine) Remaining() Paisa { return max(l.Due()-l.Paid, 0) }

type Receivable struct {
	ID               uuid.UUID
	Kind             ReceivableKind
	TenantID         string
	TenantName       string
	PropertyID       *string
	Principal        Paisa
	Paid             Paisa
	Withheld         Paisa
	Status           ReceivableStatus
	LastPaidAt       *time.Time
	DueDate          *time.Time
	PeriodMonth      int
	PeriodYear       int
	NepaliDate       string
	BillingFrequency *string
	Quarter          *int
	Lines            []ReceivableLine
	Version          int64
	CreatedBy        string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Due is the amount the tenant must pay once tax withheld at source is
// accounted for.
func (r *Receivable) Due() Paisa {
	return r.Principal - r.Withheld
}

func (r *Receivable) Remaining() Paisa {
	if rem := r.Due() - r.Paid; rem > 0 {
		return rem
	}
	return 0
}

func (r *Receivable) Clone() *Receivable {
	c := *r
	if r.Lines != nil {
		c.Lines = make([]ReceivableLine, len(r.Lines))
		copy(c.Lines, r.Lines)
	}
	return &c
}
