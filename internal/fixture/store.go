// Package fixture serves legacy person and payment records from a YAML file.
// It stands in for the unified legacy database in development, demos and
// tests.
package fixture

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/fkhayef/legacyledger/internal/payment"
	"github.com/fkhayef/legacyledger/internal/person"
)

// File is the on-disk fixture layout.
type File struct {
	Identities []person.RawIdentity `yaml:"identities"`
}

// Store is an in-memory record fetcher. It is safe for concurrent use.
type Store struct {
	mu         sync.RWMutex
	identities []person.RawIdentity
	err        error
}

// Load reads a fixture file from disk.
func Load(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open fixtures: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

// Decode parses fixtures from r.
func Decode(r io.Reader) (*Store, error) {
	var file File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to decode fixtures: %w", err)
	}
	return New(file.Identities)
}

// New builds a store from identities. Every payment is attributed to the
// identity it is nested under.
func New(identities []person.RawIdentity) (*Store, error) {
	seenIDs := make(map[int64]struct{}, len(identities))

	out := make([]person.RawIdentity, len(identities))
	for i, id := range identities {
		if id.RawID <= 0 {
			return nil, fmt.Errorf("identity %d: raw_id must be positive", i)
		}
		if _, dup := seenIDs[id.RawID]; dup {
			return nil, fmt.Errorf("identity %d: duplicate raw_id %d", i, id.RawID)
		}
		seenIDs[id.RawID] = struct{}{}

		// The same payment may appear under several identities, never twice
		// under one.
		seenPayments := make(map[int64]struct{}, len(id.Payments))
		payments := make([]payment.RawPayment, len(id.Payments))
		for j, p := range id.Payments {
			if p.PaymentID <= 0 {
				return nil, fmt.Errorf("raw id %d, payment %d: payment_id must be positive", id.RawID, j)
			}
			if p.Amount.IsNegative() {
				return nil, fmt.Errorf("raw id %d, payment %d: amount must not be negative", id.RawID, p.PaymentID)
			}
			if _, dup := seenPayments[p.PaymentID]; dup {
				return nil, fmt.Errorf("raw id %d: duplicate payment_id %d", id.RawID, p.PaymentID)
			}
			seenPayments[p.PaymentID] = struct{}{}
			p.OwnerRawID = id.RawID
			payments[j] = p
		}
		id.Payments = payments
		out[i] = id
	}

	return &Store{identities: out}, nil
}

// WithError makes every subsequent fetch fail with err. A nil err restores
// normal operation.
func (s *Store) WithError(err error) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
	return s
}

// FindIdentities returns copies of the identities matching pred, payments
// included, in file order.
func (s *Store) FindIdentities(ctx context.Context, pred person.Predicate) ([]person.RawIdentity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return nil, s.err
	}

	var out []person.RawIdentity
	for _, id := range s.identities {
		if !pred.Matches(id) {
			continue
		}
		id.Payments = slices.Clone(id.Payments)
		out = append(out, id)
	}
	return out, nil
}

// FindPayments returns one page of a raw identity's payments, most recent
// first, with the same ordering the database repository uses.
func (s *Store) FindPayments(ctx context.Context, q payment.Query) (*payment.FetchPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return nil, s.err
	}

	var matched []payment.RawPayment
	for _, id := range s.identities {
		if id.RawID != q.OwnerRawID {
			continue
		}
		for _, p := range id.Payments {
			if q.Matches(p) {
				matched = append(matched, p)
			}
		}
	}

	slices.SortStableFunc(matched, func(a, b payment.RawPayment) int {
		da, aok := a.ResolvedDate()
		db, bok := b.ResolvedDate()
		if aok != bok {
			if aok {
				return -1
			}
			return 1
		}
		if c := db.Compare(da); c != 0 {
			return c
		}
		return cmp.Compare(b.PaymentID, a.PaymentID)
	})

	page, pageSize := q.Page, q.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = len(matched)
	}

	start := min((page-1)*pageSize, len(matched))
	end := min(start+pageSize, len(matched))

	return &payment.FetchPage{
		Total: len(matched),
		Items: slices.Clone(matched[start:end]),
	}, nil
}

// Ping reports the injected error, if any.
func (s *Store) Ping(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}
