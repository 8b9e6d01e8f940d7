package payment

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/legacyledger/internal/pagination"
	"github.com/fkhayef/legacyledger/internal/upstream"
	"github.com/fkhayef/legacyledger/pkg/response"
)

// Handler handles HTTP requests for payment operations
type Handler struct {
	service *Service
	logger  *slog.Logger
}

// NewHandler creates a new payment handler
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: service, logger: logger}
}

// Routes returns the router for payment endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.Consolidated)
	r.Get("/persons/{rawId}", h.ListByPerson)

	return r
}

// Consolidated handles GET /payments
// @Summary      Consolidated payment history
// @Description  Merge the payments of every raw record behind one canonical identity, deduplicated by payment id and ordered by most recent resolved date
// @Tags         payments
// @Produce      json
// @Param        raw_ids           query string true  "Comma separated raw ids of the canonical identity's members"
// @Param        page              query int    false "Page number" default(1)
// @Param        page_size         query int    false "Items per page" default(50)
// @Param        origin            query string false "Only payments from this source"
// @Param        cancellation_year query int    false "Only payments settled in this year"
// @Success      200 {object} response.APIResponse{data=[]PaymentResponse,meta=response.Meta}
// @Failure      400 {object} response.APIResponse
// @Failure      502 {object} response.APIResponse
// @Router       /payments [get]
func (h *Handler) Consolidated(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	rawIDs, err := parseRawIDs(q.Get("raw_ids"))
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}
	year, err := parseOptionalInt(q.Get("cancellation_year"))
	if err != nil {
		response.BadRequest(w, "Invalid cancellation year")
		return
	}

	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("page_size"))

	result, err := h.service.Consolidate(r.Context(), ConsolidateRequest{
		MemberRawIDs:     rawIDs,
		Page:             page,
		PageSize:         pageSize,
		Origin:           q.Get("origin"),
		CancellationYear: year,
	})
	if err != nil {
		h.writeError(w, err, "Failed to consolidate payments", "raw_ids", rawIDs)
		return
	}

	writePage(w, result)
}

// ListByPerson handles GET /payments/persons/{rawId}
// @Summary      Payments of one raw record
// @Description  List the payments stored under a single legacy person record
// @Tags         payments
// @Produce      json
// @Param        rawId             path  int    true  "Raw person id"
// @Param        page              query int    false "Page number" default(1)
// @Param        page_size         query int    false "Items per page" default(50)
// @Param        origin            query string false "Only payments from this source"
// @Param        cancellation_year query int    false "Only payments settled in this year"
// @Success      200 {object} response.APIResponse{data=[]PaymentResponse,meta=response.Meta}
// @Failure      400 {object} response.APIResponse
// @Failure      502 {object} response.APIResponse
// @Router       /payments/persons/{rawId} [get]
func (h *Handler) ListByPerson(w http.ResponseWriter, r *http.Request) {
	rawID, err := strconv.ParseInt(chi.URLParam(r, "rawId"), 10, 64)
	if err != nil || rawID <= 0 {
		response.BadRequest(w, "Invalid person ID")
		return
	}

	q := r.URL.Query()
	year, err := parseOptionalInt(q.Get("cancellation_year"))
	if err != nil {
		response.BadRequest(w, "Invalid cancellation year")
		return
	}

	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("page_size"))

	result, err := h.service.ListByOwner(r.Context(), Query{
		OwnerRawID:       rawID,
		Page:             page,
		PageSize:         pageSize,
		Origin:           q.Get("origin"),
		CancellationYear: year,
	})
	if err != nil {
		h.writeError(w, err, "Failed to list payments", "raw_id", rawID)
		return
	}

	writePage(w, result)
}

func (h *Handler) writeError(w http.ResponseWriter, err error, message string, attrs ...any) {
	switch {
	case errors.Is(err, ErrNoMembers), errors.Is(err, ErrInvalidRawID):
		response.BadRequest(w, err.Error())
	case errors.Is(err, upstream.ErrFetch):
		h.logger.Error("payment lookup failed", append(attrs, "error", err)...)
		response.UpstreamFailure(w, message)
	default:
		h.logger.Error("payment request failed", append(attrs, "error", err)...)
		response.InternalError(w, message)
	}
}

func writePage(w http.ResponseWriter, p *pagination.Page[ConsolidatedPayment]) {
	items := make([]PaymentResponse, len(p.Items))
	for i, item := range p.Items {
		items[i] = item.ToResponse()
	}

	response.JSONWithMeta(w, http.StatusOK, items, &response.Meta{
		Page:       p.Page,
		PageSize:   p.PageSize,
		Total:      p.Total,
		TotalPages: p.TotalPages,
	})
}

func parseRawIDs(raw string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil || id <= 0 {
			return nil, errors.New("raw_ids must be a comma separated list of positive integers")
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, errors.New("raw_ids is required")
	}
	return ids, nil
}

func parseOptionalInt(raw string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, err
	}
	return &n, nil
}
