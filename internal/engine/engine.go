// Package engine wires the record source, the reconciliation services and
// their collaborators from configuration. The HTTP server and the CLI share it.
package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fkhayef/legacyledger/internal/config"
	"github.com/fkhayef/legacyledger/internal/database"
	"github.com/fkhayef/legacyledger/internal/fixture"
	"github.com/fkhayef/legacyledger/internal/metrics"
	"github.com/fkhayef/legacyledger/internal/payment"
	"github.com/fkhayef/legacyledger/internal/person"
)

// Source is the record-fetching collaborator behind both services.
type Source interface {
	person.IdentityFetcher
	payment.Fetcher
	Ping(ctx context.Context) error
}

// Engine bundles the services built over one record source.
type Engine struct {
	Persons  *person.Service
	Payments *payment.Service
	Source   Source

	closeFn func() error
}

// New builds an Engine over source.
func New(source Source, cfg config.EngineConfig, logger *slog.Logger, m *metrics.Metrics) *Engine {
	ev := payment.NewEvaluator(cfg.SettledStatus)
	consolidator := payment.NewConsolidator(source, cfg.ConsolidationConcurrency, logger, m)

	return &Engine{
		Persons:  person.NewService(source, ev, logger, m),
		Payments: payment.NewService(source, consolidator, logger, m),
		Source:   source,
	}
}

// Open picks the record source from cfg: the fixture file when one is
// configured, the unified legacy database otherwise.
func Open(cfg *config.Config, logger *slog.Logger, m *metrics.Metrics) (*Engine, error) {
	if cfg.Engine.FixturesFile != "" {
		store, err := fixture.Load(cfg.Engine.FixturesFile)
		if err != nil {
			return nil, err
		}
		logger.Info("serving records from fixtures", "file", cfg.Engine.FixturesFile)
		return New(store, cfg.Engine, logger, m), nil
	}

	db, err := database.NewPostgresConnection(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	logger.Info("connected to database")

	payments := payment.NewRepository(db)
	source := dbSource{
		persons:  person.NewRepository(db, payments),
		payments: payments,
	}

	e := New(source, cfg.Engine, logger, m)
	e.closeFn = db.Close
	return e, nil
}

// Close releases the record source.
func (e *Engine) Close() error {
	if e.closeFn == nil {
		return nil
	}
	return e.closeFn()
}

// dbSource joins the person and payment repositories, which share one pool.
type dbSource struct {
	persons  *person.Repository
	payments *payment.Repository
}

func (s dbSource) FindIdentities(ctx context.Context, pred person.Predicate) ([]person.RawIdentity, error) {
	return s.persons.FindIdentities(ctx, pred)
}

func (s dbSource) FindPayments(ctx context.Context, q payment.Query) (*payment.FetchPage, error) {
	return s.payments.FindPayments(ctx, q)
}

func (s dbSource) Ping(ctx context.Context) error {
	return s.persons.Ping(ctx)
}
