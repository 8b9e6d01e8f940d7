package pagination

import (
	"strconv"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name         string
		page, size   int
		wantPage     int
		wantPageSize int
	}{
		{"valid", 3, 50, 3, 50},
		{"zero page", 0, 20, 1, 20},
		{"negative page", -4, 20, 1, 20},
		{"zero size", 1, 0, 1, 20},
		{"oversized", 1, 201, 1, 20},
		{"max size", 1, 200, 1, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, size := Normalize(tt.page, tt.size, 20)
			if page != tt.wantPage || size != tt.wantPageSize {
				t.Fatalf("Normalize(%d, %d) = (%d, %d), want (%d, %d)",
					tt.page, tt.size, page, size, tt.wantPage, tt.wantPageSize)
			}
		})
	}
}

func TestPaginate(t *testing.T) {
	items := make([]string, 45)
	for i := range items {
		items[i] = strconv.Itoa(i)
	}

	t.Run("middle page", func(t *testing.T) {
		p := Paginate(items, 2, 20)
		if p.Total != 45 || p.TotalPages != 3 || p.Page != 2 {
			t.Fatalf("unexpected counters: %+v", p)
		}
		if len(p.Items) != 20 || p.Items[0] != "20" {
			t.Fatalf("unexpected items: %v", p.Items)
		}
	})

	t.Run("last partial page", func(t *testing.T) {
		p := Paginate(items, 3, 20)
		if len(p.Items) != 5 || p.Items[4] != "44" {
			t.Fatalf("unexpected items: %v", p.Items)
		}
	})

	t.Run("out of range clamps to last page", func(t *testing.T) {
		p := Paginate(items[:40], 5, 20)
		if p.Page != 2 {
			t.Fatalf("expected effective page 2, got %d", p.Page)
		}
		if p.TotalPages != 2 || p.Total != 40 {
			t.Fatalf("unexpected counters: %+v", p)
		}
		if len(p.Items) != 20 || p.Items[0] != "20" {
			t.Fatalf("unexpected items: %v", p.Items)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		p := Paginate([]string{}, 3, 20)
		if p.Total != 0 || p.TotalPages != 1 || p.Page != 1 {
			t.Fatalf("unexpected counters: %+v", p)
		}
		if p.Items == nil || len(p.Items) != 0 {
			t.Fatalf("expected empty non-nil items, got %#v", p.Items)
		}
	})
}

func TestMap(t *testing.T) {
	p := Paginate([]int{1, 2, 3}, 1, 2)
	m := Map(p, func(v int) string { return strconv.Itoa(v * 10) })
	if m.Total != 3 || m.TotalPages != 2 || len(m.Items) != 2 || m.Items[1] != "20" {
		t.Fatalf("unexpected mapped page: %+v", m)
	}
}
