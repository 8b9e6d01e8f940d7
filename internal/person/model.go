package person

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/fkhayef/legacyledger/internal/payment"
)

// RawIdentity is one stored person row from one legacy source. Rows are never
// merged in storage; the same person may appear several times.
type RawIdentity struct {
	RawID           int64                `yaml:"raw_id"`
	Document        string               `yaml:"document"`
	AltDocument     string               `yaml:"alt_document"`
	GivenName       string               `yaml:"given_name"`
	PaternalSurname string               `yaml:"paternal_surname"`
	MaternalSurname string               `yaml:"maternal_surname"`
	Origin          string               `yaml:"origin"`
	Archived        bool                 `yaml:"archived"`
	Payments        []payment.RawPayment `yaml:"payments"`
}

// FullName joins the non-empty name parts as "given paternal maternal".
func (r RawIdentity) FullName() string {
	return joinName(r.GivenName, r.PaternalSurname, r.MaternalSurname)
}

// CanonicalIdentity is the single logical person built from every raw
// identity sharing a document key.
type CanonicalIdentity struct {
	PrimaryRawID int64
	// MemberRawIDs lists every raw id of the group in member order.
	MemberRawIDs []int64

	Document        string
	AltDocument     string
	DisplayDocument string

	GivenName       string
	PaternalSurname string
	MaternalSurname string
	FullName        string

	HasDebt   bool
	TotalDebt decimal.Decimal

	Origins             []string
	OriginLabel         *string
	LatestPaymentOrigin *string
}

// SearchRequest represents the parameters of an identity search
type SearchRequest struct {
	Query        string
	Page         int
	PageSize     int
	OnlyWithDebt bool
	Origin       string
}

func joinName(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}
