package testutil

import (
	"database/sql"
	"testing"

	"github.com/google/uuid"
)

// LedgerSums returns the total debits and credits across every posted entry.
func LedgerSums(t *testing.T, db *sql.DB) (debit, credit int64) {
	t.Helper()

	err := db.QueryRow(
		`SELECT COALESCE(SUM(debit_paisa), 0)::bigint, COALESCE(SUM(credit_paisa), 0)::bigint FROM ledger_entries`,
	).Scan(&debit, &credit)
	if err != nil {
		t.Fatalf("sum ledger entries: %v", err)
	}
	return debit, credit
}

func CountLedgerEntries(t *testing.T, db *sql.DB, transactionID uuid.UUID) int {
	t.Helper()

	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM ledger_entries WHERE transaction_id = $1`, transactionID).Scan(&count)
	if err != nil {
		t.Fatalf("count ledger entries for transaction %s: %v", transactionID, err)
	}
	return count
}

func CountTransactions(t *testing.T, db *sql.DB) int {
	t.Helper()

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM transactions`).Scan(&count); err != nil {
		t.Fatalf("count transactions: %v", err)
	}
	return count
}

func GetReceivablePaid(t *testing.T, db *sql.DB, receivableID uuid.UUID) (paid int64, status string) {
	t.Helper()

	err := db.QueryRow(`SELECT paid_paisa, status FROM receivables WHERE id = $1`, receivableID).Scan(&paid, &status)
	if err != nil {
		t.Fatalf("get receivable %s: %v", receivableID, err)
	}
	return paid, status
}
