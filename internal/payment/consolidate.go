package payment

import (
	"cmp"
	"context"
	"errors"
	"log/slog"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fkhayef/legacyledger/internal/metrics"
	"github.com/fkhayef/legacyledger/internal/upstream"
)

// ErrNoMembers is returned when a consolidation names no raw identity.
var ErrNoMembers = errors.New("at least one raw identity is required")

// fetchBatchSize is the page size used when draining a member's payments.
const fetchBatchSize = 200

// Fetcher is the payment side of the record-fetching collaborator.
type Fetcher interface {
	FindPayments(ctx context.Context, q Query) (*FetchPage, error)
}

// Filter narrows the payments fetched for every member.
type Filter struct {
	Origin           string
	CancellationYear *int
}

// Consolidator merges the payment histories of all raw identities behind one
// canonical identity.
type Consolidator struct {
	fetcher     Fetcher
	concurrency int
	logger      *slog.Logger
	metrics     *metrics.Metrics
}

// NewConsolidator creates a Consolidator that runs at most concurrency member
// fetches at a time.
func NewConsolidator(fetcher Fetcher, concurrency int, logger *slog.Logger, m *metrics.Metrics) *Consolidator {
	if concurrency <= 0 {
		concurrency = 4
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Consolidator{
		fetcher:     fetcher,
		concurrency: concurrency,
		logger:      logger,
		metrics:     m,
	}
}

// Result is a consolidated, deduplicated payment history ordered from most
// to least recent.
type Result struct {
	Payments   []ConsolidatedPayment
	Members    []int64
	Duplicates int
}

// Consolidate fetches every member's payments concurrently and merges them by
// payment id. If any member fetch fails the whole consolidation fails.
func (c *Consolidator) Consolidate(ctx context.Context, memberRawIDs []int64, filter Filter) (*Result, error) {
	members := uniqueIDs(memberRawIDs)
	if len(members) == 0 {
		return nil, ErrNoMembers
	}

	fetched := make([][]RawPayment, len(members))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, rawID := range members {
		g.Go(func() error {
			payments, err := c.fetchAll(gctx, rawID, filter)
			if err != nil {
				return err
			}
			fetched[i] = payments
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Merge in member order so a payment visible to several members
	// resolves the same way regardless of fetch completion order.
	index := make(map[int64]int)
	var merged []RawPayment
	duplicates := 0
	for _, payments := range fetched {
		for _, p := range payments {
			if pos, seen := index[p.PaymentID]; seen {
				merged[pos] = p
				duplicates++
				continue
			}
			index[p.PaymentID] = len(merged)
			merged = append(merged, p)
		}
	}

	out := make([]ConsolidatedPayment, len(merged))
	for i, p := range merged {
		out[i] = Consolidate(p)
	}
	SortByRecency(out)

	c.logger.Debug("payments consolidated",
		"members", len(members),
		"payments", len(out),
		"duplicates", duplicates,
	)

	return &Result{Payments: out, Members: members, Duplicates: duplicates}, nil
}

// fetchAll drains every page of one member's payments.
func (c *Consolidator) fetchAll(ctx context.Context, rawID int64, filter Filter) ([]RawPayment, error) {
	start := time.Now()
	defer func() { c.metrics.ObserveMemberFetch(time.Since(start)) }()

	var all []RawPayment
	for page := 1; ; page++ {
		res, err := c.fetcher.FindPayments(ctx, Query{
			OwnerRawID:       rawID,
			Page:             page,
			PageSize:         fetchBatchSize,
			Origin:           filter.Origin,
			CancellationYear: filter.CancellationYear,
		})
		if err != nil {
			return nil, upstream.Wrap("find payments", rawID, err)
		}
		all = append(all, res.Items...)
		if len(res.Items) == 0 || len(all) >= res.Total {
			return all, nil
		}
	}
}

// SortByRecency orders payments by resolved date, most recent first.
// Payments without any valid date go last; ties fall back to payment id,
// highest first.
func SortByRecency(payments []ConsolidatedPayment) {
	slices.SortStableFunc(payments, func(a, b ConsolidatedPayment) int {
		da, _ := a.ResolvedDate()
		db, _ := b.ResolvedDate()
		if c := db.Compare(da); c != 0 {
			return c
		}
		return cmp.Compare(b.PaymentID, a.PaymentID)
	})
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
