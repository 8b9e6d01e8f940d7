package person

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/fkhayef/legacyledger/internal/payment"
)

// Predicate is a parsed identity search filter. The zero value matches every
// non-archived record.
type Predicate struct {
	query        string
	folded       string
	tokens       []string
	onlyWithDebt bool
	origin       string
	evaluator    payment.Evaluator
}

// BuildPredicate parses a free-text query. Empty or blank queries match
// everything.
func BuildPredicate(query string, onlyWithDebt bool) Predicate {
	query = strings.TrimSpace(query)
	p := Predicate{
		query:        query,
		folded:       fold(query),
		onlyWithDebt: onlyWithDebt,
		evaluator:    payment.NewEvaluator(""),
	}
	p.tokens = strings.Fields(p.folded)
	return p
}

// WithOrigin restricts matches to records from the given source.
func (p Predicate) WithOrigin(origin string) Predicate {
	p.origin = strings.TrimSpace(origin)
	return p
}

// WithEvaluator sets the rule used to decide what counts as debt.
func (p Predicate) WithEvaluator(ev payment.Evaluator) Predicate {
	p.evaluator = payment.NewEvaluator(ev.SettledStatus)
	return p
}

// Query returns the trimmed query text.
func (p Predicate) Query() string { return p.query }

// Tokens returns the normalized query tokens.
func (p Predicate) Tokens() []string { return p.tokens }

// OnlyWithDebt reports whether the predicate requires an outstanding payment.
func (p Predicate) OnlyWithDebt() bool { return p.onlyWithDebt }

// Origin returns the origin filter, or "" when unset.
func (p Predicate) Origin() string { return p.origin }

// Matches reports whether r passes the predicate. The document fields match
// on the whole query; names match when every token appears in at least one
// of the three name fields.
func (p Predicate) Matches(r RawIdentity) bool {
	if r.Archived {
		return false
	}
	if p.origin != "" && !strings.EqualFold(p.origin, strings.TrimSpace(r.Origin)) {
		return false
	}
	if p.onlyWithDebt && !p.hasDebt(r) {
		return false
	}
	if p.folded == "" {
		return true
	}

	if strings.Contains(fold(r.Document), p.folded) || strings.Contains(fold(r.AltDocument), p.folded) {
		return true
	}

	names := [...]string{fold(r.GivenName), fold(r.PaternalSurname), fold(r.MaternalSurname)}
	for _, token := range p.tokens {
		found := false
		for _, name := range names {
			if strings.Contains(name, token) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (p Predicate) hasDebt(r RawIdentity) bool {
	for _, pm := range r.Payments {
		if p.evaluator.IsOutstanding(pm) {
			return true
		}
	}
	return false
}

// foldSQL lowercases a column and strips the accents common in the legacy
// data. fold handles a wider set, so Matches is re-applied to fetched rows.
func foldSQL(expr string) string {
	return fmt.Sprintf("translate(lower(%s), 'áàäâãéèëêíìïîóòöôõúùüûñç', 'aaaaaeeeeiiiiooooouuuunc')", expr)
}

// SQL renders the predicate as a WHERE clause over the persons table aliased
// as alias. Placeholders are numbered from argStart.
func (p Predicate) SQL(alias string, argStart int) (string, []any) {
	var args []any
	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", argStart+len(args)-1)
	}
	col := func(name string) string {
		return foldSQL(fmt.Sprintf("COALESCE(%s.%s::text, '')", alias, name))
	}

	conds := []string{fmt.Sprintf("COALESCE(%s.estado_obs, false) = false", alias)}

	if p.origin != "" {
		conds = append(conds, fmt.Sprintf("upper(trim(%s.origen)) = upper(%s)", alias, next(p.origin)))
	}

	if p.onlyWithDebt {
		conds = append(conds, fmt.Sprintf(`EXISTS (
			SELECT 1 FROM pagos_unificado dp
			WHERE dp.cod_persona_nb = %s.cod_persona_nb
			  AND COALESCE(dp.estado_obs, false) = false
			  AND COALESCE(dp.monto_nb, 0) >= 0
			  AND upper(trim(COALESCE(dp.estado_vc, ''))) <> upper(%s)
			  AND (dp.pm_fecha_que_cancelo IS NULL OR dp.pm_fecha_que_cancelo < TIMESTAMP '1753-01-01'))`,
			alias, next(p.evaluator.SettledStatus)))
	}

	if p.folded != "" {
		q := next(p.folded)
		alts := []string{
			fmt.Sprintf("strpos(%s, %s) > 0", col("nro_documento_nb"), q),
			fmt.Sprintf("strpos(%s, %s) > 0", col("personas_nit_ci_vc"), q),
		}

		tokenConds := make([]string, 0, len(p.tokens))
		for _, token := range p.tokens {
			t := next(token)
			tokenConds = append(tokenConds, fmt.Sprintf("(strpos(%s, %s) > 0 OR strpos(%s, %s) > 0 OR strpos(%s, %s) > 0)",
				col("nombre_vc"), t, col("apellido_paterno_vc"), t, col("apellido_materno_vc"), t))
		}
		alts = append(alts, "("+strings.Join(tokenConds, " AND ")+")")

		conds = append(conds, "("+strings.Join(alts, " OR ")+")")
	}

	return strings.Join(conds, " AND "), args
}

// fold lowercases s and removes diacritics. Transformers keep state, so a
// fresh chain is built per call.
func fold(s string) string {
	if s == "" {
		return ""
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), cases.Fold(), norm.NFC)
	out, _, err := transform.String(t, strings.TrimSpace(s))
	if err != nil {
		return strings.ToLower(strings.TrimSpace(s))
	}
	return out
}
