// Package browse is the interactive caller of the reconciliation engine: a
// search box whose results can be opened to show a consolidated ledger.
//
// Searches and ledger loads may overlap. A Session only applies the result of
// the most recently issued request of each kind; superseded results are
// dropped without touching the visible state.
package browse

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/fkhayef/legacyledger/internal/fence"
	"github.com/fkhayef/legacyledger/internal/metrics"
	"github.com/fkhayef/legacyledger/internal/pagination"
	"github.com/fkhayef/legacyledger/internal/payment"
	"github.com/fkhayef/legacyledger/internal/person"
)

// Searcher runs identity searches.
type Searcher interface {
	Search(ctx context.Context, req person.SearchRequest) (*pagination.Page[person.CanonicalIdentity], error)
}

// Ledger consolidates the payments of a canonical identity.
type Ledger interface {
	Consolidate(ctx context.Context, req payment.ConsolidateRequest) (*pagination.Page[payment.ConsolidatedPayment], error)
}

// State is what the user currently sees. A failed request leaves an empty
// result and a non-nil error, so failures never look like "no matches".
type State struct {
	// Version increases with every change.
	Version uint64

	Query         string
	Searching     bool
	Identities    *pagination.Page[person.CanonicalIdentity]
	SearchErr     error
	Selected      *person.CanonicalIdentity
	LoadingLedger bool
	Payments      *pagination.Page[payment.ConsolidatedPayment]
	PaymentsErr   error
}

// Option configures a Session.
type Option func(*Session)

// WithMetrics counts discarded stale results.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Session) { s.metrics = m }
}

// WithLogger sets the session logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// OnChange registers fn to receive every new state. Calls are serialized and
// never go back to an older version.
func OnChange(fn func(State)) Option {
	return func(s *Session) { s.onChange = fn }
}

// Session holds the visible state of one interactive user.
type Session struct {
	id       string
	searcher Searcher
	ledger   Ledger
	metrics  *metrics.Metrics
	logger   *slog.Logger
	onChange func(State)

	searches fence.Sequencer
	ledgers  fence.Sequencer

	mu    sync.Mutex
	state State

	notifyMu sync.Mutex
	notified uint64
}

// NewSession creates a Session over the given engine operations.
func NewSession(searcher Searcher, ledger Ledger, opts ...Option) *Session {
	s := &Session{
		id:       uuid.NewString(),
		searcher: searcher,
		ledger:   ledger,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("session_id", s.id)
	return s
}

// ID identifies the session in logs.
func (s *Session) ID() string {
	return s.id
}

// State returns a snapshot of the visible state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Search issues a search and blocks until it completes. Issuing it clears
// the selection and any ledger, including one still loading. It reports
// whether the result was applied; false means a newer search superseded it.
func (s *Session) Search(ctx context.Context, req person.SearchRequest) bool {
	s.mu.Lock()
	seq := s.searches.Next()
	s.ledgers.Next()
	s.state.Query = req.Query
	s.state.Searching = true
	s.state.SearchErr = nil
	s.state.Selected = nil
	s.state.LoadingLedger = false
	s.state.Payments = nil
	s.state.PaymentsErr = nil
	st := s.bump()
	s.mu.Unlock()
	s.notify(st)

	result, err := s.searcher.Search(ctx, req)

	s.mu.Lock()
	if !s.searches.IsLatest(seq) {
		s.mu.Unlock()
		s.discard(metrics.CategorySearch, seq)
		return false
	}
	s.state.Searching = false
	if err != nil {
		s.state.Identities = emptyPage[person.CanonicalIdentity](req.PageSize, person.DefaultPageSize)
		s.state.SearchErr = err
	} else {
		s.state.Identities = result
	}
	st = s.bump()
	s.mu.Unlock()
	s.notify(st)
	return true
}

// Select opens the consolidated ledger of identity and blocks until it is
// loaded. It reports whether the result was applied.
func (s *Session) Select(ctx context.Context, identity person.CanonicalIdentity, page, pageSize int) bool {
	s.mu.Lock()
	seq := s.ledgers.Next()
	selected := identity
	s.state.Selected = &selected
	s.state.LoadingLedger = true
	s.state.Payments = nil
	s.state.PaymentsErr = nil
	st := s.bump()
	s.mu.Unlock()
	s.notify(st)

	result, err := s.ledger.Consolidate(ctx, payment.ConsolidateRequest{
		MemberRawIDs: identity.MemberRawIDs,
		Page:         page,
		PageSize:     pageSize,
	})

	s.mu.Lock()
	if !s.ledgers.IsLatest(seq) {
		s.mu.Unlock()
		s.discard(metrics.CategoryPayments, seq)
		return false
	}
	s.state.LoadingLedger = false
	if err != nil {
		s.state.Payments = emptyPage[payment.ConsolidatedPayment](pageSize, payment.DefaultPageSize)
		s.state.PaymentsErr = err
	} else {
		s.state.Payments = result
	}
	st = s.bump()
	s.mu.Unlock()
	s.notify(st)
	return true
}

// bump must be called with mu held.
func (s *Session) bump() State {
	s.state.Version++
	return s.state
}

func (s *Session) notify(st State) {
	if s.onChange == nil {
		return
	}
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	if st.Version <= s.notified {
		return
	}
	s.notified = st.Version
	s.onChange(st)
}

func (s *Session) discard(category string, seq uint64) {
	s.metrics.StaleDiscarded(category)
	s.logger.Debug("discarded stale result", "category", category, "seq", seq)
}

func emptyPage[T any](pageSize, defaultSize int) *pagination.Page[T] {
	_, pageSize = pagination.Normalize(1, pageSize, defaultSize)
	return pagination.Paginate[T](nil, 1, pageSize)
}
