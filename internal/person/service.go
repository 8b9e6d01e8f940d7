package person

import (
	"context"
	"log/slog"

	"github.com/fkhayef/legacyledger/internal/metrics"
	"github.com/fkhayef/legacyledger/internal/pagination"
	"github.com/fkhayef/legacyledger/internal/payment"
	"github.com/fkhayef/legacyledger/internal/upstream"
)

// DefaultPageSize is used when a search asks for no or an invalid page size.
const DefaultPageSize = 20

// IdentityFetcher is the identity side of the record-fetching collaborator.
// It returns every matching raw identity with its payments, in no particular
// order.
type IdentityFetcher interface {
	FindIdentities(ctx context.Context, pred Predicate) ([]RawIdentity, error)
}

// Service handles identity search and reconciliation
type Service struct {
	fetcher   IdentityFetcher
	evaluator payment.Evaluator
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

// NewService creates a new person service
func NewService(fetcher IdentityFetcher, ev payment.Evaluator, logger *slog.Logger, m *metrics.Metrics) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		fetcher:   fetcher,
		evaluator: payment.NewEvaluator(ev.SettledStatus),
		logger:    logger,
		metrics:   m,
	}
}

// Search finds the raw identities matching req, merges them into canonical
// identities and returns the requested page. Totals count canonical
// identities, never raw rows.
func (s *Service) Search(ctx context.Context, req SearchRequest) (*pagination.Page[CanonicalIdentity], error) {
	page, pageSize := pagination.Normalize(req.Page, req.PageSize, DefaultPageSize)

	pred := BuildPredicate(req.Query, req.OnlyWithDebt).
		WithOrigin(req.Origin).
		WithEvaluator(s.evaluator)

	raw, err := s.fetcher.FindIdentities(ctx, pred)
	if err != nil {
		err = upstream.Wrap("find identities", 0, err)
		s.metrics.ObserveSearch(err, 0, 0)
		return nil, err
	}

	matched := make([]RawIdentity, 0, len(raw))
	for _, r := range raw {
		if pred.Matches(r) {
			matched = append(matched, r)
		}
	}

	canonical := Reconcile(matched, s.evaluator)
	SortCanonical(canonical)

	s.metrics.ObserveSearch(nil, len(matched), len(canonical))
	s.logger.Debug("identity search",
		"query", pred.Query(),
		"raw", len(matched),
		"canonical", len(canonical),
		"page", page,
	)

	return pagination.Paginate(canonical, page, pageSize), nil
}
