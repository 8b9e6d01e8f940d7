package payment

import (
	"reflect"
	"strings"
	"testing"
)

func TestPaymentFilter(t *testing.T) {
	year := 2023

	tests := []struct {
		name     string
		q        Query
		wantArgs []any
		contains []string
		absent   []string
	}{
		{
			name:     "no filters",
			q:        Query{OwnerRawID: 101},
			wantArgs: []any{int64(101)},
			contains: []string{"pg.cod_persona_nb = $1", "COALESCE(pg.estado_obs, false) = false"},
			absent:   []string{"$2", "origen", "EXTRACT"},
		},
		{
			name:     "origin only",
			q:        Query{OwnerRawID: 101, Origin: "  Web "},
			wantArgs: []any{int64(101), "Web"},
			contains: []string{"upper(trim(pg.origen)) = upper($2)"},
			absent:   []string{"$3", "EXTRACT"},
		},
		{
			name:     "year only",
			q:        Query{OwnerRawID: 101, CancellationYear: &year},
			wantArgs: []any{int64(101), 2023},
			contains: []string{
				"pg.pm_fecha_que_cancelo >= TIMESTAMP '1753-01-01'",
				"EXTRACT(YEAR FROM pg.pm_fecha_que_cancelo) = $2",
			},
			absent: []string{"$3", "origen"},
		},
		{
			name:     "origin and year",
			q:        Query{OwnerRawID: 101, Origin: "Caja", CancellationYear: &year},
			wantArgs: []any{int64(101), "Caja", 2023},
			contains: []string{
				"upper(trim(pg.origen)) = upper($2)",
				"EXTRACT(YEAR FROM pg.pm_fecha_que_cancelo) = $3",
			},
			absent: []string{"$4"},
		},
		{
			name:     "blank origin ignored",
			q:        Query{OwnerRawID: 5, Origin: "   "},
			wantArgs: []any{int64(5)},
			absent:   []string{"origen"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := paymentFilter(tt.q)

			if !reflect.DeepEqual(args, tt.wantArgs) {
				t.Fatalf("expected args %v, got %v", tt.wantArgs, args)
			}
			for _, fragment := range tt.contains {
				if !strings.Contains(where, fragment) {
					t.Errorf("expected WHERE to contain %q, got:\n%s", fragment, where)
				}
			}
			for _, fragment := range tt.absent {
				if strings.Contains(where, fragment) {
					t.Errorf("expected WHERE not to contain %q, got:\n%s", fragment, where)
				}
			}
		})
	}
}

func TestResolvedDateSQLFallsBackInOrder(t *testing.T) {
	settled := strings.Index(resolvedDateSQL, "pg.pm_fecha_que_cancelo >= "+platformMinSQL)
	due := strings.Index(resolvedDateSQL, "pg.pm_fecha_a_cancelar >= "+platformMinSQL)
	planned := strings.Index(resolvedDateSQL, "pg.fecha_planificada_dh >= "+platformMinSQL)

	if settled < 0 || due < 0 || planned < 0 {
		t.Fatalf("expected every date to be guarded by the platform minimum, got:\n%s", resolvedDateSQL)
	}
	if !(settled < due && due < planned) {
		t.Fatalf("expected settled, due, then planned date, got:\n%s", resolvedDateSQL)
	}
	if !strings.HasPrefix(resolvedDateSQL, "COALESCE(") {
		t.Fatalf("expected a COALESCE over the candidate dates, got:\n%s", resolvedDateSQL)
	}
}
