package domain

import (
	"time"

	"github.com/google/uuid"
)

type PaymentMethod string

const (
	PaymentMethodCash          PaymentMethod = "cash"
	PaymentMethodBankTransfer  PaymentMethod = "bank_transfer"
	PaymentMethodCheque        PaymentMethod = "cheque"
	PaymentMethodDigitalWallet PaymentMethod = "digital_wallet"
)

func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodBankTransfer, PaymentMethodCheque, PaymentMethodDigitalWallet:
		return true
	}
	return false
}

// SettlementAccount is the asset account the money lands in.
func (m PaymentMethod) SettlementAccount() AccountCode {
	if m == PaymentMethodCash {
		return AccountCash
	}
	return AccountBank
}

type Payment struct {
	ID           uuid.UUID
	ReceivableID uuid.UUID
	Amount       Paisa
	Method       PaymentMethod
	PaidAt       time.Time
	PayerID      string
	ReceivedBy   string
	Note         string
	CreatedAt    time.Time
}
