package mongo

import (
	"time"

	"github.com/google/uuid"

	"github.com/aashishkarki002/tenant-management-sub004/internal/domain"
)

type receivableLineModel struct {
	LineNo         int    `bson:"line_no"`
	UnitID         string `bson:"unit_id"`
	Description    string `bson:"description"`
	PrincipalPaisa int64  `bson:"principal_paisa"`
	WithheldPaisa  int64  `bson:"withheld_paisa"`
	PaidPaisa      int64  `bson:"paid_paisa"`
}

type receivableModel struct {
	ID               string                `bson:"_id"`
	Kind             string                `bson:"kind"`
	TenantID         string                `bson:"tenant_id"`
	TenantName       string                `bson:"tenant_name"`
	PropertyID       *string               `bson:"property_id,omitempty"`
	PrincipalPaisa   int64                 `bson:"principal_paisa"`
	PaidPaisa        int64                 `bson:"paid_paisa"`
	WithheldPaisa    int64                 `bson:"withheld_paisa"`
	Status           string                `bson:"status"`
	LastPaidAt       *time.Time            `bson:"last_paid_at,omitempty"`
	DueDate          *time.Time            `bson:"due_date,omitempty"`
	PeriodMonth      int                   `bson:"period_month"`
	PeriodYear       int                   `bson:"period_year"`
	NepaliDate       string                `bson:"nepali_date"`
	BillingFrequency *string               `bson:"billing_frequency,omitempty"`
	Quarter          *int                  `bson:"quarter,omitempty"`
	Lines            []receivableLineModel `bson:"lines,omitempty"`
	Version          int64                 `bson:"version"`
	// LockSeq is bumped by every locking read so that two units of work
	// touching the same receivable write-conflict.
	LockSeq   int64     `bson:"lock_seq"`
	CreatedBy string    `bson:"created_by"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func toReceivableModel(r *domain.Receivable) *receivableModel {
	m := &receivableModel{
		ID:               r.ID.String(),
		Kind:             string(r.Kind),
		TenantID:         r.TenantID,
		TenantName:       r.TenantName,
		PropertyID:       r.PropertyID,
		PrincipalPaisa:   int64(r.Principal),
		PaidPaisa:        int64(r.Paid),
		WithheldPaisa:    int64(r.Withheld),
		Status:           string(r.Status),
		LastPaidAt:       r.LastPaidAt,
		DueDate:          r.DueDate,
		PeriodMonth:      r.PeriodMonth,
		PeriodYear:       r.PeriodYear,
		NepaliDate:       r.NepaliDate,
		BillingFrequency: r.BillingFrequency,
		Quarter:          r.Quarter,
		Version:          r.Version,
		CreatedBy:        r.CreatedBy,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
	m.Lines = toLineModels(r.Lines)
	return m
}

func toLineModels(lines []domain.ReceivableLine) []receivableLineModel {
	if len(lines) == 0 {
		return nil
	}
	out := make([]receivableLineModel, len(lines))
	for i, l := range lines {
		out[i] = receivableLineModel{
			LineNo:         l.LineNo,
			UnitID:         l.UnitID,
			Description:    l.Description,
			PrincipalPaisa: int64(l.Principal),
			WithheldPaisa:  int64(l.Withheld),
			PaidPaisa:      int64(l.Paid),
		}
	}
	return out
}

func fromReceivableModel(m *receivableModel) (*domain.Receivable, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return nil, err
	}
	r := &domain.Receivable{
		ID:               id,
		Kind:             domain.ReceivableKind(m.Kind),
		TenantID:         m.TenantID,
		TenantName:       m.TenantName,
		PropertyID:       m.PropertyID,
		Principal:        domain.Paisa(m.PrincipalPaisa),
		Paid:             domain.Paisa(m.PaidPaisa),
		Withheld:         domain.Paisa(m.WithheldPaisa),
		Status:           domain.ReceivableStatus(m.Status),
		LastPaidAt:       m.LastPaidAt,
		DueDate:          m.DueDate,
		PeriodMonth:      m.PeriodMonth,
		PeriodYear:       m.PeriodYear,
		NepaliDate:       m.NepaliDate,
		BillingFrequency: m.BillingFrequency,
		Quarter:          m.Quarter,
		Version:          m.Version,
		CreatedBy:        m.CreatedBy,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
	for _, l := range m.Lines {
		r.Lines = append(r.Lines, domain.ReceivableLine{
			LineNo:      l.LineNo,
			UnitID:      l.UnitID,
			Description: l.Description,
			Principal:   domain.Paisa(l.PrincipalPaisa),
			Withheld:    domain.Paisa(l.WithheldPaisa),
			Paid:        domain.Paisa(l.PaidPaisa),
		})
	}
	return r, nil
}

type paymentModel struct {
	ID           string    `bson:"_id"`
	ReceivableID string    `bson:"receivable_id"`
	AmountPaisa  int64     `bson:"amount_paisa"`
	Method       string    `bson:"method"`
	PaidAt       time.Time `bson:"paid_at"`
	PayerID      string    `bson:"payer_id"`
	ReceivedBy   string    `bson:"received_by"`
	Note         string    `bson:"note"`
	CreatedAt    time.Time `bson:"created_at"`
}

func toPaymentModel(p *domain.Payment) *paymentModel {
	return &paymentModel{
		ID:           p.ID.String(),
		ReceivableID: p.ReceivableID.String(),
		AmountPaisa:  int64(p.Amount),
		Method:       string(p.Method),
		PaidAt:       p.PaidAt,
		PayerID:      p.PayerID,
		ReceivedBy:   p.ReceivedBy,
		Note:         p.Note,
		CreatedAt:    p.CreatedAt,
	}
}

func fromPaymentModel(m *paymentModel) (*domain.Payment, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return nil, err
	}
	rid, err := uuid.Parse(m.ReceivableID)
	if err != nil {
		return nil, err
	}
	return &domain.Payment{
		ID:           id,
		ReceivableID: rid,
		Amount:       domain.Paisa(m.AmountPaisa),
		Method:       domain.PaymentMethod(m.Method),
		PaidAt:       m.PaidAt,
		PayerID:      m.PayerID,
		ReceivedBy:   m.ReceivedBy,
		Note:         m.Note,
		CreatedAt:    m.CreatedAt,
	}, nil
}

type transactionModel struct {
	ID               string    `bson:"_id"`
	Type             string    `bson:"type"`
	ReferenceType    string    `bson:"reference_type"`
	ReferenceID      string    `bson:"reference_id"`
	TransactionDate  time.Time `bson:"transaction_date"`
	NepaliDate       string    `bson:"nepali_date"`
	TotalAmountPaisa int64     `bson:"total_amount_paisa"`
	Description      string    `bson:"description"`
	CreatedBy        string    `bson:"created_by"`
	TenantID         *string   `bson:"tenant_id,omitempty"`
	PropertyID       *string   `bson:"property_id,omitempty"`
	BillingFrequency *string   `bson:"billing_frequency,omitempty"`
	Quarter          *int      `bson:"quarter,omitempty"`
	CreatedAt        time.Time `bson:"created_at"`
}

func toTransactionModel(t *domain.Transaction) *transactionModel {
	return &transactionModel{
		ID:               t.ID.String(),
		Type:             string(t.Type),
		ReferenceType:    string(t.ReferenceType),
		ReferenceID:      t.ReferenceID,
		TransactionDate:  t.TransactionDate,
		NepaliDate:       t.NepaliDate,
		TotalAmountPaisa: int64(t.TotalAmount),
		Description:      t.Description,
		CreatedBy:        t.CreatedBy,
		TenantID:         t.TenantID,
		PropertyID:       t.PropertyID,
		BillingFrequency: t.BillingFrequency,
		Quarter:          t.Quarter,
		CreatedAt:        t.CreatedAt,
	}
}

func fromTransactionModel(m *transactionModel) (*domain.Transaction, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return nil, err
	}
	return &domain.Transaction{
		ID:               id,
		Type:             domain.TransactionType(m.Type),
		ReferenceType:    domain.ReferenceType(m.ReferenceType),
		ReferenceID:      m.ReferenceID,
		TransactionDate:  m.TransactionDate,
		NepaliDate:       m.NepaliDate,
		TotalAmount:      domain.Paisa(m.TotalAmountPaisa),
		Description:      m.Description,
		CreatedBy:        m.CreatedBy,
		TenantID:         m.TenantID,
		PropertyID:       m.PropertyID,
		BillingFrequency: m.BillingFrequency,
		Quarter:          m.Quarter,
		CreatedAt:        m.CreatedAt,
	}, nil
}

type ledgerEntryModel struct {
	ID            string    `bson:"_id"`
	TransactionID string    `bson:"transaction_id"`
	LineNo        int       `bson:"line_no"`
	AccountCode   string    `bson:"account_code"`
	DebitPaisa    int64     `bson:"debit_paisa"`
	CreditPaisa   int64     `bson:"credit_paisa"`
	Description   string    `bson:"description"`
	CreatedAt     time.Time `bson:"created_at"`
}

func toLedgerEntryModel(e *domain.LedgerEntry) *ledgerEntryModel {
	return &ledgerEntryModel{
		ID:            e.ID.String(),
		TransactionID: e.TransactionID.String(),
		LineNo:        e.LineNo,
		AccountCode:   string(e.AccountCode),
		DebitPaisa:    int64(e.Debit),
		CreditPaisa:   int64(e.Credit),
		Description:   e.Description,
		CreatedAt:     e.CreatedAt,
	}
}

func fromLedgerEntryModel(m *ledgerEntryModel) (*domain.LedgerEntry, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return nil, err
	}
	txID, err := uuid.Parse(m.TransactionID)
	if err != nil {
		return nil, err
	}
	return &domain.LedgerEntry{
		ID:            id,
		TransactionID: txID,
		LineNo:        m.LineNo,
		AccountCode:   domain.AccountCode(m.AccountCode),
		Debit:         domain.Paisa(m.DebitPaisa),
		Credit:        domain.Paisa(m.CreditPaisa),
		Description:   m.Description,
		CreatedAt:     m.CreatedAt,
	}, nil
}
