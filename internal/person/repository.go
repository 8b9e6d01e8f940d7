package person

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fkhayef/legacyledger/internal/payment"
)

// Repository reads person rows from the unified legacy persons table
type Repository struct {
	db       *sql.DB
	payments *payment.Repository
}

// NewRepository creates a new person repository. Nested payments are loaded
// through payments.
func NewRepository(db *sql.DB, payments *payment.Repository) *Repository {
	return &Repository{db: db, payments: payments}
}

// FindIdentities returns every non-archived person row matching pred, each
// with its non-archived payments attached. The SQL filter is a prefilter;
// callers re-apply pred.Matches.
func (r *Repository) FindIdentities(ctx context.Context, pred Predicate) ([]RawIdentity, error) {
	where, args := pred.SQL("p", 1)

	query := `
		SELECT p.cod_persona_nb,
		       COALESCE(p.nro_documento_nb::text, ''),
		       COALESCE(p.personas_nit_ci_vc, ''),
		       COALESCE(p.nombre_vc, ''),
		       COALESCE(p.apellido_paterno_vc, ''),
		       COALESCE(p.apellido_materno_vc, ''),
		       COALESCE(p.origen, '')
		FROM personas_unificado p
		WHERE ` + where + `
		ORDER BY p.cod_persona_nb
	`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search persons: %w", err)
	}
	defer rows.Close()

	var identities []RawIdentity
	for rows.Next() {
		var id RawIdentity
		if err := rows.Scan(
			&id.RawID,
			&id.Document,
			&id.AltDocument,
			&id.GivenName,
			&id.PaternalSurname,
			&id.MaternalSurname,
			&id.Origin,
		); err != nil {
			return nil, fmt.Errorf("failed to scan person: %w", err)
		}
		identities = append(identities, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate persons: %w", err)
	}
	if len(identities) == 0 {
		return identities, nil
	}

	ownerIDs := make([]int64, len(identities))
	for i, id := range identities {
		ownerIDs[i] = id.RawID
	}
	byOwner, err := r.payments.ListByOwners(ctx, ownerIDs)
	if err != nil {
		return nil, err
	}
	for i := range identities {
		identities[i].Payments = byOwner[identities[i].RawID]
	}

	return identities, nil
}

// Ping verifies the database is reachable
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
