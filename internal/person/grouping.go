package person

import (
	"cmp"
	"maps"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/fkhayef/legacyledger/internal/payment"
)

// syntheticKeyPrefix marks keys of records without any document. NUL never
// occurs in a trimmed document number, so these keys cannot collide.
const syntheticKeyPrefix = "\x00raw:"

// originSeparator joins several origins into one label.
const originSeparator = " / "

// GroupKey returns the key that decides which records describe the same
// person: the document number, else the alternate document, else a key
// unique to the record.
func GroupKey(r RawIdentity) string {
	if doc := strings.TrimSpace(r.Document); doc != "" {
		return strings.ToLower(doc)
	}
	if alt := strings.TrimSpace(r.AltDocument); alt != "" {
		return strings.ToLower(alt)
	}
	return syntheticKeyPrefix + strconv.FormatInt(r.RawID, 10)
}

// Reconcile partitions records by GroupKey and reduces each group to one
// canonical identity. The output depends only on the set of records, not
// their order. Records repeating a raw id are counted once, keeping the copy
// preferDuplicate picks.
func Reconcile(records []RawIdentity, ev payment.Evaluator) []CanonicalIdentity {
	byID := make(map[int64]RawIdentity, len(records))
	for _, r := range records {
		if kept, dup := byID[r.RawID]; dup && !preferDuplicate(r, kept) {
			continue
		}
		byID[r.RawID] = r
	}

	groups := make(map[string][]RawIdentity)
	for _, id := range slices.Sorted(maps.Keys(byID)) {
		r := byID[id]
		key := GroupKey(r)
		groups[key] = append(groups[key], r)
	}

	out := make([]CanonicalIdentity, 0, len(groups))
	for _, key := range slices.Sorted(maps.Keys(groups)) {
		out = append(out, canonicalize(groups[key], ev))
	}
	return out
}

// preferDuplicate reports whether a should replace b when both carry the same
// raw id: the copy with more payments wins, then the smaller origin,
// documents, names and payment ids.
func preferDuplicate(a, b RawIdentity) bool {
	if c := cmp.Compare(len(a.Payments), len(b.Payments)); c != 0 {
		return c > 0
	}
	return cmp.Or(
		strings.Compare(a.Origin, b.Origin),
		strings.Compare(a.Document, b.Document),
		strings.Compare(a.AltDocument, b.AltDocument),
		strings.Compare(a.PaternalSurname, b.PaternalSurname),
		strings.Compare(a.MaternalSurname, b.MaternalSurname),
		strings.Compare(a.GivenName, b.GivenName),
		slices.CompareFunc(a.Payments, b.Payments, func(x, y payment.RawPayment) int {
			return cmp.Compare(x.PaymentID, y.PaymentID)
		}),
	) < 0
}

// SortCanonical orders identities by paternal surname, maternal surname and
// given name, ignoring case, then by primary raw id.
func SortCanonical(items []CanonicalIdentity) {
	slices.SortStableFunc(items, func(a, b CanonicalIdentity) int {
		if c := compareNames(
			a.PaternalSurname, a.MaternalSurname, a.GivenName,
			b.PaternalSurname, b.MaternalSurname, b.GivenName,
		); c != 0 {
			return c
		}
		return cmp.Compare(a.PrimaryRawID, b.PrimaryRawID)
	})
}

func sortMembers(members []RawIdentity) {
	slices.SortStableFunc(members, func(a, b RawIdentity) int {
		if c := compareNames(
			a.PaternalSurname, a.MaternalSurname, a.GivenName,
			b.PaternalSurname, b.MaternalSurname, b.GivenName,
		); c != 0 {
			return c
		}
		return cmp.Compare(a.RawID, b.RawID)
	})
}

func compareNames(aPaternal, aMaternal, aGiven, bPaternal, bMaternal, bGiven string) int {
	if c := compareFold(aPaternal, bPaternal); c != 0 {
		return c
	}
	if c := compareFold(aMaternal, bMaternal); c != 0 {
		return c
	}
	return compareFold(aGiven, bGiven)
}

func compareFold(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

func canonicalize(group []RawIdentity, ev payment.Evaluator) CanonicalIdentity {
	members := slices.Clone(group)
	sortMembers(members)
	primary := members[0]

	c := CanonicalIdentity{
		PrimaryRawID:    primary.RawID,
		MemberRawIDs:    make([]int64, len(members)),
		GivenName:       primary.GivenName,
		PaternalSurname: primary.PaternalSurname,
		MaternalSurname: primary.MaternalSurname,
		FullName:        primary.FullName(),
	}
	c.TotalDebt, c.HasDebt = Outstanding(members, ev)

	var (
		docs, alts     []string
		memberOrigins  []string
		paymentOrigins []string
		latestDate     time.Time
		latestOrigin   string
	)
	for i, m := range members {
		c.MemberRawIDs[i] = m.RawID
		docs = appendUniqueFold(docs, m.Document)
		alts = appendUniqueFold(alts, m.AltDocument)
		memberOrigins = append(memberOrigins, m.Origin)

		origin, date, ok := LatestPayment(m)
		if !ok || origin == "" {
			continue
		}
		paymentOrigins = append(paymentOrigins, origin)
		if latestOrigin == "" || date.After(latestDate) {
			latestDate = date
			latestOrigin = origin
		}
	}

	if len(docs) > 0 {
		c.Document = docs[0]
	}
	c.AltDocument = pickAltDocument(c.Document, alts)
	c.DisplayDocument = c.Document
	if c.DisplayDocument == "" {
		c.DisplayDocument = c.AltDocument
	}

	var origins []string
	for _, o := range slices.Concat(memberOrigins, paymentOrigins) {
		origins = appendUniqueFold(origins, o)
	}
	c.Origins = origins
	switch len(origins) {
	case 0:
	case 1:
		c.OriginLabel = &origins[0]
	default:
		label := strings.Join(origins, originSeparator)
		c.OriginLabel = &label
	}
	if latestOrigin != "" {
		c.LatestPaymentOrigin = &latestOrigin
	}

	return c
}

// pickAltDocument prefers an alternate document that differs from the
// canonical one, falling back to the first alternate.
func pickAltDocument(doc string, alts []string) string {
	for _, alt := range alts {
		if doc == "" || !strings.EqualFold(alt, doc) {
			return alt
		}
	}
	if len(alts) > 0 {
		return alts[0]
	}
	return ""
}

// appendUniqueFold appends the trimmed value unless it is empty or already
// present ignoring case.
func appendUniqueFold(list []string, value string) []string {
	value = strings.TrimSpace(value)
	if value == "" {
		return list
	}
	for _, existing := range list {
		if strings.EqualFold(existing, value) {
			return list
		}
	}
	return append(list, value)
}
