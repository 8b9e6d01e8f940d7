package payment

import "time"

// PaymentResponse represents a consolidated payment in API responses
type PaymentResponse struct {
	PaymentID        int64   `json:"payment_id"`
	Amount           string  `json:"amount"`
	Status           string  `json:"status,omitempty"`
	PlannedDate      *string `json:"planned_date,omitempty"`
	DueDate          *string `json:"due_date,omitempty"`
	SettledDate      *string `json:"settled_date,omitempty"`
	CancellationYear *int    `json:"cancellation_year,omitempty"`
	Origin           string  `json:"origin,omitempty"`
	FiscalYear       *int    `json:"fiscal_year,omitempty"`
	Month            *int    `json:"month,omitempty"`
	InvoiceNumber    *int64  `json:"invoice_number,omitempty"`
	ReceiptNumber    *int64  `json:"receipt_number,omitempty"`
	Notes            *string `json:"notes,omitempty"`
}

// ToResponse converts a ConsolidatedPayment to a PaymentResponse DTO
func (p ConsolidatedPayment) ToResponse() PaymentResponse {
	return PaymentResponse{
		PaymentID:        p.PaymentID,
		Amount:           p.Amount.StringFixed(2),
		Status:           p.Status,
		PlannedDate:      formatDate(p.PlannedDate),
		DueDate:          formatDate(p.DueDate),
		SettledDate:      formatDate(p.SettledDate),
		CancellationYear: p.CancellationYear,
		Origin:           p.Origin,
		FiscalYear:       p.FiscalYear,
		Month:            p.Month,
		InvoiceNumber:    p.InvoiceNumber,
		ReceiptNumber:    p.ReceiptNumber,
		Notes:            p.Notes,
	}
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}
