package payment

import (
	"context"
	"errors"
	"log/slog"

	"github.com/fkhayef/legacyledger/internal/metrics"
	"github.com/fkhayef/legacyledger/internal/pagination"
	"github.com/fkhayef/legacyledger/internal/upstream"
)

// DefaultPageSize is used when a payments request asks for no or an invalid page size.
const DefaultPageSize = 50

// ErrInvalidRawID is returned for non-positive raw identity ids.
var ErrInvalidRawID = errors.New("raw id must be positive")

// ConsolidateRequest asks for the merged ledger of one canonical identity.
type ConsolidateRequest struct {
	MemberRawIDs     []int64
	Page             int
	PageSize         int
	Origin           string
	CancellationYear *int
}

// Service handles payment lookups and consolidation
type Service struct {
	fetcher      Fetcher
	consolidator *Consolidator
	logger       *slog.Logger
	metrics      *metrics.Metrics
}

// NewService creates a new payment service
func NewService(fetcher Fetcher, consolidator *Consolidator, logger *slog.Logger, m *metrics.Metrics) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		fetcher:      fetcher,
		consolidator: consolidator,
		logger:       logger,
		metrics:      m,
	}
}

// Consolidate returns one page of the deduplicated payment history shared by
// all of a canonical identity's raw members.
func (s *Service) Consolidate(ctx context.Context, req ConsolidateRequest) (*pagination.Page[ConsolidatedPayment], error) {
	for _, id := range req.MemberRawIDs {
		if id <= 0 {
			return nil, ErrInvalidRawID
		}
	}

	page, pageSize := pagination.Normalize(req.Page, req.PageSize, DefaultPageSize)

	res, err := s.consolidator.Consolidate(ctx, req.MemberRawIDs, Filter{
		Origin:           req.Origin,
		CancellationYear: req.CancellationYear,
	})
	s.metrics.ObserveConsolidation(err, duplicatesOf(res))
	if err != nil {
		return nil, err
	}

	return pagination.Paginate(res.Payments, page, pageSize), nil
}

// ListByOwner returns one page of a single raw identity's payments as the
// collaborator orders them.
func (s *Service) ListByOwner(ctx context.Context, q Query) (*pagination.Page[ConsolidatedPayment], error) {
	if q.OwnerRawID <= 0 {
		return nil, ErrInvalidRawID
	}
	q.Page, q.PageSize = pagination.Normalize(q.Page, q.PageSize, DefaultPageSize)

	res, err := s.fetcher.FindPayments(ctx, q)
	if err != nil {
		return nil, upstream.Wrap("find payments", q.OwnerRawID, err)
	}

	items := make([]ConsolidatedPayment, len(res.Items))
	for i, p := range res.Items {
		items[i] = Consolidate(p)
	}

	return &pagination.Page[ConsolidatedPayment]{
		Total:      res.Total,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: pagination.TotalPages(res.Total, q.PageSize),
		Items:      items,
	}, nil
}

func duplicatesOf(res *Result) int {
	if res == nil {
		return 0
	}
	return res.Duplicates
}
