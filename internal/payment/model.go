package payment

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// RawPayment is one payment row as stored by a legacy source. It always
// belongs to exactly one raw identity.
type RawPayment struct {
	PaymentID   int64           `yaml:"payment_id"`
	OwnerRawID  int64           `yaml:"-"`
	Amount      decimal.Decimal `yaml:"amount"`
	Status      string          `yaml:"status"`
	PlannedDate *time.Time      `yaml:"planned_date"`
	DueDate     *time.Time      `yaml:"due_date"`
	SettledDate *time.Time      `yaml:"settled_date"`
	Origin      string          `yaml:"origin"`
	Archived    bool            `yaml:"archived"`

	// Bookkeeping fields carried through to consolidated output
	FiscalYear    *int    `yaml:"fiscal_year"`
	Month         *int    `yaml:"month"`
	InvoiceNumber *int64  `yaml:"invoice_number"`
	ReceiptNumber *int64  `yaml:"receipt_number"`
	Notes         *string `yaml:"notes"`
}

// ResolvedDate returns the payment's effective date for recency ordering.
func (p RawPayment) ResolvedDate() (time.Time, bool) {
	return ResolveDate(p.SettledDate, p.DueDate, p.PlannedDate)
}

// ConsolidatedPayment is a payment in a consolidated ledger. Dates before the
// platform minimum have already been removed.
type ConsolidatedPayment struct {
	PaymentID        int64
	Amount           decimal.Decimal
	Status           string
	PlannedDate      *time.Time
	DueDate          *time.Time
	SettledDate      *time.Time
	CancellationYear *int
	Origin           string
	FiscalYear       *int
	Month            *int
	InvoiceNumber    *int64
	ReceiptNumber    *int64
	Notes            *string
}

// ResolvedDate returns the payment's effective date for recency ordering.
func (p ConsolidatedPayment) ResolvedDate() (time.Time, bool) {
	return ResolveDate(p.SettledDate, p.DueDate, p.PlannedDate)
}

// Consolidate converts a raw payment into its consolidated form.
func Consolidate(p RawPayment) ConsolidatedPayment {
	settled := NormalizeDate(p.SettledDate)

	var year *int
	if settled != nil {
		y := settled.Year()
		year = &y
	}

	return ConsolidatedPayment{
		PaymentID:        p.PaymentID,
		Amount:           p.Amount,
		Status:           p.Status,
		PlannedDate:      NormalizeDate(p.PlannedDate),
		DueDate:          NormalizeDate(p.DueDate),
		SettledDate:      settled,
		CancellationYear: year,
		Origin:           p.Origin,
		FiscalYear:       p.FiscalYear,
		Month:            p.Month,
		InvoiceNumber:    p.InvoiceNumber,
		ReceiptNumber:    p.ReceiptNumber,
		Notes:            p.Notes,
	}
}

// Query selects one raw identity's payments from a Fetcher.
type Query struct {
	OwnerRawID       int64
	Page             int
	PageSize         int
	Origin           string
	CancellationYear *int
}

// Matches reports whether p belongs to the query's owner and passes its
// origin and cancellation-year filters. Archived payments never match.
func (q Query) Matches(p RawPayment) bool {
	if p.Archived || p.OwnerRawID != q.OwnerRawID {
		return false
	}
	if origin := strings.TrimSpace(q.Origin); origin != "" && !strings.EqualFold(origin, strings.TrimSpace(p.Origin)) {
		return false
	}
	if q.CancellationYear != nil {
		settled := NormalizeDate(p.SettledDate)
		if settled == nil || settled.Year() != *q.CancellationYear {
			return false
		}
	}
	return true
}

// FetchPage is one page of a raw identity's payments. Total counts every
// matching payment, not only the ones in Items.
type FetchPage struct {
	Total int
	Items []RawPayment
}
