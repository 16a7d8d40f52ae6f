// Package journal maps business records to balanced journal payloads.
//
// Builders are pure: they never touch a store and never read the clock. The
// posting service validates and persists what they produce.
package journal

import (
	"fmt"
	"time"

	"github.com/aashishkarki002/tenant-management-sub004/internal/domain"
)

type Line struct {
	AccountCode domain.AccountCode
	Debit       domain.Paisa
	Credit      domain.Paisa
	Description string
}

type Payload struct {
	Type             domain.TransactionType
	ReferenceType    domain.ReferenceType
	ReferenceID      string
	TransactionDate  time.Time
	NepaliDate       string
	TotalAmount      domain.Paisa
	Description      string
	CreatedBy        string
	TenantID         *string
	PropertyID       *string
	BillingFrequency *string
	Quarter          *int
	Lines            []Line
}

func (p Payload) Totals() (debits, credits domain.Paisa) {
	for _, l := range p.Lines {
		debits += l.Debit
		credits += l.Credit
	}
	return debits, credits
}

// Options carries header fields the record itself may not know.
type Options struct {
	Date       time.Time
	NepaliDate string
	CreatedBy  string
}

func (o Options) date(fallback time.Time) time.Time {
	if !o.Date.IsZero() {
		return o.Date
	}
	return fallback
}

func (o Options) nepaliDate(fallback string) string {
	if o.NepaliDate != "" {
		return o.NepaliDate
	}
	return fallback
}

func (o Options) createdBy(fallback string) string {
	if o.CreatedBy != "" {
		return o.CreatedBy
	}
	return fallback
}

func debit(code domain.AccountCode, amt domain.Paisa, desc string) Line {
	return Line{AccountCode: code, Debit: amt, Description: desc}
}

func credit(code domain.AccountCode, amt domain.Paisa, desc string) Line {
	return Line{AccountCode: code, Credit: amt, Description: desc}
}

func periodLabel(month, year int, quarter *int) string {
	switch {
	case quarter != nil && *quarter > 0 && year > 0:
		return fmt.Sprintf("Q%d %d", *quarter, year)
	case month > 0 && year > 0:
		return fmt.Sprintf("%04d-%02d", year, month)
	case year > 0:
		return fmt.Sprintf("%d", year)
	}
	return ""
}

func describe(base, period, counterparty string) string {
	s := base
	if period != "" {
		s += " for " + period
	}
	if counterparty != "" {
		s += " - " + counterparty
	}
	return s
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
