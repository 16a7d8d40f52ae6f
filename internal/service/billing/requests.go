package billing

import (
	"time"

	"github.com/google/uuid"

	"github.com/aashishkarki002/tenant-management-sub004/internal/domain"
)

type ChargeLine struct {
	UnitID      string `validate:"required"`
	Description string `validate:"max=200"`
	Amount      domain.MoneyInput
}

// ChargeRequest opens a receivable. Amount may be omitted when Lines are
// given; the principal is then their sum.
type ChargeRequest struct {
	ReferenceID      string                `validate:"omitempty,uuid"`
	Kind             domain.ReceivableKind `validate:"required,oneof=rent cam electricity maintenance"`
	TenantID         string                `validate:"required"`
	TenantName       string                `validate:"max=200"`
	PropertyID       *string               `validate:"omitempty,min=1"`
	Amount           domain.MoneyInput
	Withheld         domain.MoneyInput
	Lines            []ChargeLine `validate:"omitempty,dive"`
	PeriodMonth      int          `validate:"omitempty,min=1,max=12"`
	PeriodYear       int          `validate:"omitempty,min=1900,max=2300"`
	NepaliDate       string       `validate:"max=20"`
	DueDate          *time.Time
	BillingFrequency *string `validate:"omitempty,oneof=monthly quarterly half_yearly yearly"`
	Quarter          *int    `validate:"omitempty,min=1,max=4"`
	CreatedBy        string  `validate:"required"`
	Date             time.Time
}

// PaymentRequest records money received against a receivable. PaymentID is
// optional; a caller that sets it can resubmit the same request after an
// ambiguous failure without the payment landing twice.
type PaymentRequest struct {
	PaymentID        uuid.UUID
	ReceivableID     uuid.UUID `validate:"required"`
	Amount           domain.MoneyInput
	Method           domain.PaymentMethod `validate:"required,oneof=cash bank_transfer cheque digital_wallet"`
	Date             time.Time
	NepaliDate       string `validate:"max=20"`
	PayerID          string
	ReceivedBy       string `validate:"required"`
	Note             string `validate:"max=500"`
	AllowOverpayment bool
}

type ReversalRequest struct {
	PaymentID  uuid.UUID `validate:"required"`
	Reason     string    `validate:"required,max=500"`
	ReversedBy string    `validate:"required"`
	Date       time.Time
}

// SecurityDepositRequest is used for both receiving and refunding a deposit.
// A refund names the deposit it returns through DepositID.
type SecurityDepositRequest struct {
	DepositID  string `validate:"required"`
	TenantID   string `validate:"required"`
	TenantName string `validate:"max=200"`
	PropertyID *string
	Amount     domain.MoneyInput
	Method     domain.PaymentMethod `validate:"required,oneof=cash bank_transfer cheque digital_wallet"`
	Date       time.Time
	NepaliDate string `validate:"max=20"`
	CreatedBy  string `validate:"required"`
}

type ExpenseRequest struct {
	ExpenseID   string                 `validate:"required"`
	Category    domain.ExpenseCategory `validate:"required,oneof=maintenance utility other"`
	Amount      domain.MoneyInput
	Method      domain.PaymentMethod `validate:"required,oneof=cash bank_transfer cheque digital_wallet"`
	Date        time.Time
	NepaliDate  string `validate:"max=20"`
	PropertyID  *string
	Payee       string `validate:"max=200"`
	Description string `validate:"max=500"`
	CreatedBy   string `validate:"required"`
}

type RevenueRequest struct {
	RevenueID   string `validate:"required"`
	Source      string `validate:"required,max=100"`
	Amount      domain.MoneyInput
	Method      domain.PaymentMethod `validate:"required,oneof=cash bank_transfer cheque digital_wallet"`
	Date        time.Time
	NepaliDate  string `validate:"max=20"`
	TenantID    *string
	PropertyID  *string
	Description string `validate:"max=500"`
	CreatedBy   string `validate:"required"`
}
