package person

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/legacyledger/internal/upstream"
	"github.com/fkhayef/legacyledger/pkg/response"
)

// Handler handles HTTP requests for identity search
type Handler struct {
	service *Service
	logger  *slog.Logger
}

// NewHandler creates a new person handler
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: service, logger: logger}
}

// Routes returns the router for identity endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/search", h.Search)

	return r
}

// Search handles GET /identities/search
// @Summary      Search identities
// @Description  Search legacy person records and merge the ones sharing a document number into canonical identities
// @Tags         identities
// @Produce      json
// @Param        query          query string false "Document number or name tokens"
// @Param        page           query int    false "Page number" default(1)
// @Param        page_size      query int    false "Items per page" default(20)
// @Param        only_with_debt query bool   false "Only identities with outstanding payments"
// @Param        origin         query string false "Only records from this source"
// @Success      200 {object} response.APIResponse{data=[]IdentityResponse,meta=response.Meta}
// @Failure      400 {object} response.APIResponse
// @Failure      502 {object} response.APIResponse
// @Router       /identities/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	onlyWithDebt := false
	if raw := q.Get("only_with_debt"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			response.BadRequest(w, "Invalid only_with_debt value")
			return
		}
		onlyWithDebt = v
	}

	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("page_size"))

	result, err := h.service.Search(r.Context(), SearchRequest{
		Query:        q.Get("query"),
		Page:         page,
		PageSize:     pageSize,
		OnlyWithDebt: onlyWithDebt,
		Origin:       q.Get("origin"),
	})
	if err != nil {
		if errors.Is(err, upstream.ErrFetch) {
			h.logger.Error("identity search failed", "query", q.Get("query"), "error", err)
			response.UpstreamFailure(w, "Failed to search identities")
			return
		}
		h.logger.Error("identity search failed", "error", err)
		response.InternalError(w, "Failed to search identities")
		return
	}

	items := make([]IdentityResponse, len(result.Items))
	for i, item := range result.Items {
		items[i] = item.ToResponse()
	}

	response.JSONWithMeta(w, http.StatusOK, items, &response.Meta{
		Page:       result.Page,
		PageSize:   result.PageSize,
		Total:      result.Total,
		TotalPages: result.TotalPages,
	})
}
