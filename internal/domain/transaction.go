package domain

import (
	"time"

	"github.com/google/uuid"
)

type TransactionType string

const (
	TxRentCharge                 TransactionType = "RENT_CHARGE"
	TxRentPaymentReceived        TransactionType = "RENT_PAYMENT_RECEIVED"
	TxCAMCharge                  TransactionType = "CAM_CHARGE"
	TxCAMPaymentReceived         TransactionType = "CAM_PAYMENT_RECEIVED"
	TxElectricityCharge          TransactionType = "ELECTRICITY_CHARGE"
	TxElectricityPayment         TransactionType = "ELECTRICITY_PAYMENT"
	TxMaintenanceCharge          TransactionType = "MAINTENANCE_CHARGE"
	TxMaintenancePaymentReceived TransactionType = "MAINTENANCE_PAYMENT_RECEIVED"
	TxSecurityDeposit            TransactionType = "SECURITY_DEPOSIT"
	TxSecurityDepositRefund      TransactionType = "SECURITY_DEPOSIT_REFUND"
	TxRevenueStream              TransactionType = "REVENUE_STREAM"
	TxMaintenanceExpense         TransactionType = "MAINTENANCE_EXPENSE"
	TxUtilityExpense             TransactionType = "UTILITY_EXPENSE"
	TxOtherExpense               TransactionType = "OTHER_EXPENSE"
	TxReversal                   TransactionType = "REVERSAL"
)

type ReferenceType string

const (
	RefRent            ReferenceType = "Rent"
	RefCam             ReferenceType = "Cam"
	RefElectricity     ReferenceType = "Electricity"
	RefMaintenance     ReferenceType = "Maintenance"
	RefPayment         ReferenceType = "Payment"
	RefExpense         ReferenceType = "Expense"
	RefSecurityDeposit ReferenceType = "SecurityDeposit"
	RefRevenueStream   ReferenceType = "RevenueStream"
	RefTransaction     ReferenceType = "Transaction"
)

type Transaction struct {
	ID               uuid.UUID
	Type             TransactionType
	ReferenceType    ReferenceType
	ReferenceID      string
	TransactionDate  time.Time
	NepaliDate       string
	TotalAmount      Paisa
	Description      string
	CreatedBy        string
	TenantID         *string
	PropertyID       *string
	BillingFrequency *string
	Quarter          *int
	CreatedAt        time.Time
}

type LedgerEntry struct {
	ID            uuid.UUID
	TransactionID uuid.UUID
	LineNo        int
	AccountCode   AccountCode
	Debit         Paisa
	Credit        Paisa
	Description   string
	CreatedAt     time.Time
}

func (e LedgerEntry) IsDebit() bool { return e.Debit > 0 }
