// Package pagination slices already-ordered result sets into pages.
//
// Out-of-range input never produces an error: page numbers below one become
// one, page sizes outside [1, MaxPageSize] fall back to the caller's default,
// and pages past the end clamp to the last page.
package pagination

// MaxPageSize is the largest page size a caller may request.
const MaxPageSize = 200

// Page is one page of an ordered result set.
type Page[T any] struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
	Items      []T `json:"items"`
}

// Normalize clamps the requested page and page size.
func Normalize(page, pageSize, defaultSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > MaxPageSize {
		pageSize = defaultSize
	}
	return page, pageSize
}

// TotalPages returns the number of pages needed for total items, never less than one.
func TotalPages(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}

// Paginate returns the requested page of items. The served page is clamped
// to the last page, so a request beyond the end returns the final page.
// page and pageSize are expected to be normalized.
func Paginate[T any](items []T, page, pageSize int) *Page[T] {
	total := len(items)
	totalPages := TotalPages(total, pageSize)
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	end := min(start+pageSize, total)

	out := make([]T, 0, max(end-start, 0))
	if start < total {
		out = append(out, items[start:end]...)
	}

	return &Page[T]{
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
		Items:      out,
	}
}

// Map converts the items of a page while keeping its counters.
func Map[T, U any](p *Page[T], fn func(T) U) *Page[U] {
	out := make([]U, len(p.Items))
	for i, item := range p.Items {
		out[i] = fn(item)
	}
	return &Page[U]{
		Total:      p.Total,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: p.TotalPages,
		Items:      out,
	}
}
