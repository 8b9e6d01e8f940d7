package person

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fkhayef/legacyledger/internal/payment"
)

// Outstanding sums the outstanding payments owned by members. A payment id
// seen under several members counts once, using the copy of the last member
// that holds it.
func Outstanding(members []RawIdentity, ev payment.Evaluator) (decimal.Decimal, bool) {
	index := make(map[int64]int)
	var merged []payment.RawPayment
	for _, m := range members {
		for _, p := range m.Payments {
			if pos, seen := index[p.PaymentID]; seen {
				merged[pos] = p
				continue
			}
			index[p.PaymentID] = len(merged)
			merged = append(merged, p)
		}
	}
	return ev.Outstanding(merged)
}

// LatestPayment returns the origin and resolved date of r's most recent
// non-archived payment. Payments without a valid date are ignored and ties
// keep the first payment found.
func LatestPayment(r RawIdentity) (origin string, date time.Time, ok bool) {
	for _, p := range r.Payments {
		if p.Archived {
			continue
		}
		d, valid := p.ResolvedDate()
		if !valid {
			continue
		}
		if !ok || d.After(date) {
			origin, date, ok = strings.TrimSpace(p.Origin), d, true
		}
	}
	return origin, date, ok
}
