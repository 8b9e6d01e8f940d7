package person

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/fkhayef/legacyledger/internal/payment"
)

func TestPredicateMatches(t *testing.T) {
	juanPerez := RawIdentity{RawID: 1, Document: "4455667", GivenName: "Juan", PaternalSurname: "Pérez", MaternalSurname: "Rojas"}
	juanOther := RawIdentity{RawID: 2, Document: "998877", GivenName: "Juan", PaternalSurname: "Mamani"}
	altOnly := RawIdentity{RawID: 3, AltDocument: "NIT-1020", GivenName: "Ana"}

	tests := []struct {
		name   string
		query  string
		record RawIdentity
		want   bool
	}{
		{"all tokens across name fields", "juan perez", juanPerez, true},
		{"token missing from every name field", "juan perez", juanOther, false},
		{"accent-insensitive", "PÉREZ", juanPerez, true},
		{"token order irrelevant", "rojas juan", juanPerez, true},
		{"document substring", "5566", juanPerez, true},
		{"alt document substring", "nit-10", altOnly, true},
		{"full query must be in the document", "4455667 x", juanPerez, false},
		{"empty query", "", juanOther, true},
		{"blank query", "   ", altOnly, true},
		{"no match", "quispe", juanPerez, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildPredicate(tt.query, false).Matches(tt.record); got != tt.want {
				t.Fatalf("Matches(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestPredicateTokens(t *testing.T) {
	p := BuildPredicate("  José   María ", false)
	if p.Query() != "José   María" {
		t.Errorf("expected trimmed query, got %q", p.Query())
	}
	tokens := p.Tokens()
	if len(tokens) != 2 || tokens[0] != "jose" || tokens[1] != "maria" {
		t.Errorf("expected folded tokens [jose maria], got %v", tokens)
	}
}

func TestPredicateOnlyWithDebt(t *testing.T) {
	withDebt := RawIdentity{RawID: 1, Payments: []payment.RawPayment{
		{PaymentID: 1, Status: "PENDIENTE", Amount: decimal.NewFromInt(10)},
	}}
	settled := RawIdentity{RawID: 2, Payments: []payment.RawPayment{
		{PaymentID: 2, Status: "CANCELADO", Amount: decimal.NewFromInt(10)},
	}}
	archivedDebt := RawIdentity{RawID: 3, Payments: []payment.RawPayment{
		{PaymentID: 3, Status: "PENDIENTE", Archived: true},
	}}

	p := BuildPredicate("", true)
	if !p.Matches(withDebt) {
		t.Errorf("expected record with an outstanding payment to match")
	}
	if p.Matches(settled) {
		t.Errorf("expected fully settled record not to match")
	}
	if p.Matches(archivedDebt) {
		t.Errorf("expected archived payments not to count as debt")
	}

	custom := p.WithEvaluator(payment.NewEvaluator("PAGADO"))
	if !custom.Matches(settled) {
		t.Errorf("expected CANCELADO to be outstanding under a custom settled status")
	}
}

func TestPredicateOriginAndArchived(t *testing.T) {
	r := RawIdentity{RawID: 1, Origin: "Web"}

	if !BuildPredicate("", false).WithOrigin(" web ").Matches(r) {
		t.Errorf("expected case-insensitive origin match")
	}
	if BuildPredicate("", false).WithOrigin("Escritorio").Matches(r) {
		t.Errorf("expected origin mismatch to fail")
	}

	r.Archived = true
	if BuildPredicate("", false).Matches(r) {
		t.Errorf("expected archived records never to match")
	}
}

func TestPredicateSQL(t *testing.T) {
	where, args := BuildPredicate("", false).SQL("p", 1)
	if where != "COALESCE(p.estado_obs, false) = false" || len(args) != 0 {
		t.Fatalf("unexpected empty predicate SQL %q %v", where, args)
	}

	where, args = BuildPredicate("Juan Pérez", true).WithOrigin("Web").SQL("p", 3)
	want := []any{"Web", "CANCELADO", "juan perez", "juan", "perez"}
	if len(args) != len(want) {
		t.Fatalf("expected args %v, got %v", want, args)
	}
	for i := range want {
		if args[i] != want[i] {
			t.Fatalf("expected args %v, got %v", want, args)
		}
	}

	for _, fragment := range []string{
		"upper(trim(p.origen)) = upper($3)",
		"upper($4)",
		"strpos(translate(lower(COALESCE(p.nro_documento_nb::text, ''))",
		"'aaaaaeeeeiiiiooooouuuunc'), $5) > 0",
		"$6) > 0",
		"$7) > 0",
		"EXISTS (",
		"COALESCE(dp.monto_nb, 0) >= 0",
	} {
		if !strings.Contains(where, fragment) {
			t.Errorf("expected SQL to contain %q, got:\n%s", fragment, where)
		}
	}
	if strings.Contains(where, "$8") {
		t.Errorf("expected no placeholder beyond $7, got:\n%s", where)
	}
}
