package payment

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fkhayef/legacyledger/internal/logging"
)

type envelope struct {
	Success bool              `json:"success"`
	Data    []PaymentResponse `json:"data"`
	Error   *struct {
		Code string `json:"code"`
	} `json:"error"`
	Meta *struct {
		Page       int `json:"page"`
		PageSize   int `json:"page_size"`
		Total      int `json:"total"`
		TotalPages int `json:"total_pages"`
	} `json:"meta"`
}

func newTestHandler(f Fetcher) http.Handler {
	svc := NewService(f, newTestConsolidator(f, 2), logging.Discard(), nil)
	return NewHandler(svc, logging.Discard()).Routes()
}

func serve(t *testing.T, h http.Handler, target string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	var body envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
	return rec, body
}

func TestHandlerConsolidated(t *testing.T) {
	f := &stubFetcher{payments: []RawPayment{
		{PaymentID: 1, OwnerRawID: 1, Amount: amount("25"), Status: "PENDIENTE", DueDate: date(2024, time.January, 1)},
		{PaymentID: 2, OwnerRawID: 2, Amount: amount("25"), Status: "PENDIENTE", DueDate: date(2024, time.February, 1)},
		{PaymentID: 1, OwnerRawID: 2, Amount: amount("25"), Status: "PENDIENTE", DueDate: date(2024, time.January, 1)},
	}}

	rec, body := serve(t, newTestHandler(f), "/?raw_ids=1,2&page_size=1&page=9")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body.Meta == nil || body.Meta.Total != 2 || body.Meta.TotalPages != 2 || body.Meta.Page != 2 {
		t.Fatalf("expected clamped page 2 of 2 with 2 payments, got %+v", body.Meta)
	}
	if len(body.Data) != 1 || body.Data[0].PaymentID != 1 || body.Data[0].Amount != "25.00" {
		t.Fatalf("expected payment 1 on the last page, got %+v", body.Data)
	}
}

func TestHandlerConsolidatedValidation(t *testing.T) {
	h := newTestHandler(&stubFetcher{})

	for _, target := range []string{
		"/",
		"/?raw_ids=",
		"/?raw_ids=1,x",
		"/?raw_ids=-4",
		"/?raw_ids=1&cancellation_year=soon",
	} {
		rec, body := serve(t, h, target)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", target, rec.Code)
		}
		if body.Success {
			t.Errorf("%s: expected success=false", target)
		}
	}
}

func TestHandlerUpstreamFailure(t *testing.T) {
	f := &stubFetcher{fail: map[int64]error{3: errors.New("timeout")}}
	h := newTestHandler(f)

	for _, target := range []string{"/?raw_ids=3", "/persons/3"} {
		rec, body := serve(t, h, target)
		if rec.Code != http.StatusBadGateway {
			t.Fatalf("%s: expected 502, got %d", target, rec.Code)
		}
		if body.Error == nil || body.Error.Code != "UPSTREAM_FETCH_FAILED" {
			t.Fatalf("%s: expected upstream error code, got %+v", target, body.Error)
		}
	}
}

func TestHandlerListByPerson(t *testing.T) {
	var payments []RawPayment
	for i := 1; i <= 5; i++ {
		payments = append(payments, RawPayment{PaymentID: int64(i), OwnerRawID: 4, Origin: "Caja"})
	}
	payments = append(payments, RawPayment{PaymentID: 6, OwnerRawID: 4, Origin: "Web"})
	h := newTestHandler(&stubFetcher{payments: payments})

	rec, body := serve(t, h, "/persons/4?origin=caja&page=2&page_size=2")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body.Meta.Total != 5 || body.Meta.TotalPages != 3 || body.Meta.Page != 2 {
		t.Fatalf("unexpected meta %+v", body.Meta)
	}
	if len(body.Data) != 2 || body.Data[0].PaymentID != 3 {
		t.Fatalf("expected payments 3 and 4, got %+v", body.Data)
	}

	rec, _ = serve(t, h, "/persons/abc")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a bad id, got %d", rec.Code)
	}
}
