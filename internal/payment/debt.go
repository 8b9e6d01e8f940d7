package payment

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultSettledStatus is the status code legacy sources use for settled payments.
const DefaultSettledStatus = "CANCELADO"

// Evaluator decides which payments count as outstanding debt.
type Evaluator struct {
	SettledStatus string
}

// NewEvaluator returns an Evaluator for the given settled status code,
// falling back to DefaultSettledStatus when it is blank.
func NewEvaluator(settledStatus string) Evaluator {
	if strings.TrimSpace(settledStatus) == "" {
		settledStatus = DefaultSettledStatus
	}
	return Evaluator{SettledStatus: strings.TrimSpace(settledStatus)}
}

func (e Evaluator) settledStatus() string {
	if e.SettledStatus == "" {
		return DefaultSettledStatus
	}
	return e.SettledStatus
}

// IsOutstanding reports whether p is unpaid: not archived, not a negative
// adjustment, not in the settled status and without a valid settlement date.
func (e Evaluator) IsOutstanding(p RawPayment) bool {
	if p.Archived || p.Amount.IsNegative() {
		return false
	}
	if strings.EqualFold(strings.TrimSpace(p.Status), e.settledStatus()) {
		return false
	}
	return NormalizeDate(p.SettledDate) == nil
}

// Outstanding sums the outstanding payments and reports whether there was any.
func (e Evaluator) Outstanding(payments []RawPayment) (decimal.Decimal, bool) {
	total := decimal.Zero
	found := false
	for _, p := range payments {
		if !e.IsOutstanding(p) {
			continue
		}
		total = total.Add(p.Amount)
		found = true
	}
	return total, found
}
