package person

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/fkhayef/legacyledger/internal/logging"
	"github.com/fkhayef/legacyledger/internal/metrics"
	"github.com/fkhayef/legacyledger/internal/payment"
	"github.com/fkhayef/legacyledger/internal/upstream"
)

// stubFetcher returns its records unfiltered, like a SQL prefilter that
// matched too much.
type stubFetcher struct {
	records []RawIdentity
	err     error
	preds   []Predicate
}

func (s *stubFetcher) FindIdentities(_ context.Context, pred Predicate) ([]RawIdentity, error) {
	s.preds = append(s.preds, pred)
	if s.err != nil {
		return nil, s.err
	}
	return s.records, nil
}

// duplicatedRecords builds n people, the first dup of which appear twice
// under the same document.
func duplicatedRecords(n, dup int) []RawIdentity {
	var out []RawIdentity
	var id int64
	for i := 0; i < n; i++ {
		id++
		r := RawIdentity{
			RawID:           id,
			Document:        fmt.Sprintf("DOC-%03d", i),
			GivenName:       "Persona",
			PaternalSurname: fmt.Sprintf("Apellido%03d", i),
			Origin:          "A",
		}
		out = append(out, r)
		if i < dup {
			id++
			r.RawID = id
			r.Origin = "B"
			out = append(out, r)
		}
	}
	return out
}

func TestSearchPaginatesCanonicalIdentities(t *testing.T) {
	f := &stubFetcher{records: duplicatedRecords(25, 5)}
	svc := NewService(f, payment.NewEvaluator(""), logging.Discard(), nil)

	page, err := svc.Search(context.Background(), SearchRequest{Page: 5, PageSize: 20})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if page.Total != 25 {
		t.Errorf("expected 25 canonical identities, got %d", page.Total)
	}
	if page.TotalPages != 2 || page.Page != 2 {
		t.Errorf("expected page 2 of 2, got page %d of %d", page.Page, page.TotalPages)
	}
	if len(page.Items) != 5 {
		t.Fatalf("expected 5 items on the last page, got %d", len(page.Items))
	}
	if page.Items[0].PaternalSurname != "Apellido020" {
		t.Errorf("expected sorted identities, got %q first", page.Items[0].PaternalSurname)
	}
}

func TestSearchDefaultsAndClamping(t *testing.T) {
	f := &stubFetcher{records: duplicatedRecords(3, 0)}
	svc := NewService(f, payment.Evaluator{}, nil, nil)

	page, err := svc.Search(context.Background(), SearchRequest{Page: -1, PageSize: 500})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if page.Page != 1 || page.PageSize != DefaultPageSize || page.TotalPages != 1 {
		t.Fatalf("unexpected paging %+v", page)
	}

	empty, err := NewService(&stubFetcher{}, payment.Evaluator{}, nil, nil).Search(context.Background(), SearchRequest{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if empty.Total != 0 || empty.TotalPages != 1 || empty.Page != 1 || empty.Items == nil {
		t.Fatalf("unexpected empty page %+v", empty)
	}
}

func TestSearchReappliesPredicate(t *testing.T) {
	f := &stubFetcher{records: []RawIdentity{
		{RawID: 1, Document: "1", GivenName: "Juan", PaternalSurname: "Perez"},
		{RawID: 2, Document: "2", GivenName: "Juan", PaternalSurname: "Mamani"},
		{RawID: 3, Document: "3", GivenName: "Juan", PaternalSurname: "Pérez", Archived: true},
	}}
	svc := NewService(f, payment.NewEvaluator(""), logging.Discard(), nil)

	page, err := svc.Search(context.Background(), SearchRequest{Query: "juan perez"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if page.Total != 1 || page.Items[0].PrimaryRawID != 1 {
		t.Fatalf("expected only raw id 1, got %+v", page.Items)
	}
	if f.preds[0].Query() != "juan perez" {
		t.Errorf("expected predicate to be passed to the fetcher, got %q", f.preds[0].Query())
	}
}

func TestSearchOnlyWithDebtCountsAfterMerge(t *testing.T) {
	f := &stubFetcher{records: []RawIdentity{
		{RawID: 1, Document: "123", PaternalSurname: "Perez"},
		{RawID: 2, Document: "123", PaternalSurname: "Perez", Payments: []payment.RawPayment{owed(1, "50.00")}},
		{RawID: 3, Document: "456", PaternalSurname: "Rojas"},
	}}
	svc := NewService(f, payment.NewEvaluator(""), logging.Discard(), nil)

	page, err := svc.Search(context.Background(), SearchRequest{OnlyWithDebt: true})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if page.Total != 1 {
		t.Fatalf("expected one identity with debt, got %d", page.Total)
	}
	if got := page.Items[0].TotalDebt.StringFixed(2); got != "50.00" {
		t.Fatalf("expected debt 50.00, got %s", got)
	}
}

func TestSearchUpstreamFailure(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	cause := errors.New("db down")
	svc := NewService(&stubFetcher{err: cause}, payment.NewEvaluator(""), logging.Discard(), m)

	page, err := svc.Search(context.Background(), SearchRequest{Query: "x"})
	if page != nil {
		t.Fatalf("expected no page, got %+v", page)
	}
	if !errors.Is(err, upstream.ErrFetch) || !errors.Is(err, cause) {
		t.Fatalf("expected upstream failure, got %v", err)
	}
	expected := `
# HELP legacyledger_searches_total Identity searches by outcome
# TYPE legacyledger_searches_total counter
legacyledger_searches_total{status="error"} 1
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "legacyledger_searches_total"); err != nil {
		t.Fatalf("unexpected search metrics: %v", err)
	}
}

type searchEnvelope struct {
	Success bool               `json:"success"`
	Data    []IdentityResponse `json:"data"`
	Error   *struct {
		Code string `json:"code"`
	} `json:"error"`
	Meta *struct {
		Page       int `json:"page"`
		Total      int `json:"total"`
		TotalPages int `json:"total_pages"`
	} `json:"meta"`
}

func doSearch(t *testing.T, f IdentityFetcher, target string) (int, searchEnvelope) {
	t.Helper()
	svc := NewService(f, payment.NewEvaluator(""), logging.Discard(), nil)
	h := NewHandler(svc, logging.Discard()).Routes()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	var body searchEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode %q: %v", rec.Body.String(), err)
	}
	return rec.Code, body
}

func TestHandlerSearch(t *testing.T) {
	f := &stubFetcher{records: []RawIdentity{
		{RawID: 1, Document: "123", PaternalSurname: "Perez", Origin: "Web"},
		{RawID: 2, Document: "123", PaternalSurname: "Perez", Origin: "Escritorio", Payments: []payment.RawPayment{owed(9, "50")}},
	}}

	code, body := doSearch(t, f, "/search?query=123")
	if code != http.StatusOK || !body.Success {
		t.Fatalf("expected 200, got %d", code)
	}
	if body.Meta.Total != 1 || len(body.Data) != 1 {
		t.Fatalf("expected one identity, got %+v", body)
	}
	got := body.Data[0]
	if got.TotalDebt != "50.00" || !got.HasDebt || len(got.MemberRawIDs) != 2 {
		t.Fatalf("unexpected identity %+v", got)
	}
	if got.Origin == nil || *got.Origin != "Web / Escritorio" {
		t.Fatalf("unexpected origin label %v", got.Origin)
	}

	// The debt filter applies to raw records before they are merged.
	_, body = doSearch(t, f, "/search?query=123&only_with_debt=true")
	if len(body.Data) != 1 || len(body.Data[0].MemberRawIDs) != 1 || body.Data[0].MemberRawIDs[0] != 2 {
		t.Fatalf("expected only the indebted record, got %+v", body.Data)
	}
}

func TestHandlerSearchDistinguishesFailureFromNoMatches(t *testing.T) {
	code, body := doSearch(t, &stubFetcher{}, "/search?query=nobody")
	if code != http.StatusOK || body.Meta.Total != 0 || len(body.Data) != 0 {
		t.Fatalf("expected an empty 200 result, got %d %+v", code, body)
	}

	code, body = doSearch(t, &stubFetcher{err: errors.New("boom")}, "/search?query=nobody")
	if code != http.StatusBadGateway || body.Error == nil || body.Error.Code != "UPSTREAM_FETCH_FAILED" {
		t.Fatalf("expected 502 upstream failure, got %d %+v", code, body.Error)
	}

	code, _ = doSearch(t, &stubFetcher{}, "/search?only_with_debt=maybe")
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a bad flag, got %d", code)
	}
}
