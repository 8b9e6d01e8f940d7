package payment

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// ownerBatchSize bounds the size of the id array sent per ListByOwners query.
const ownerBatchSize = 1000

// paymentColumns lists the selected columns in scan order.
const paymentColumns = `
	pg.cod_pago_nb, pg.cod_persona_nb, COALESCE(pg.monto_nb, 0), COALESCE(pg.estado_vc, ''),
	pg.fecha_planificada_dh, pg.pm_fecha_a_cancelar, pg.pm_fecha_que_cancelo,
	COALESCE(pg.origen, ''), pg.gestion_nb, pg.mes_nb, pg.nro_factura_nb, pg.nro_recibo_nb,
	pg.pm_observaciones`

// platformMinSQL is PlatformMinDate as a SQL literal.
const platformMinSQL = `TIMESTAMP '1753-01-01'`

// resolvedDateSQL mirrors ResolveDate: settled, due, then planned date,
// ignoring placeholder dates.
const resolvedDateSQL = `COALESCE(
	CASE WHEN pg.pm_fecha_que_cancelo >= ` + platformMinSQL + ` THEN pg.pm_fecha_que_cancelo END,
	CASE WHEN pg.pm_fecha_a_cancelar >= ` + platformMinSQL + ` THEN pg.pm_fecha_a_cancelar END,
	CASE WHEN pg.fecha_planificada_dh >= ` + platformMinSQL + ` THEN pg.fecha_planificada_dh END)`

// Repository reads payments from the unified legacy payments table
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new payment repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// FindPayments returns one page of a raw identity's non-archived payments,
// most recent first, together with the total number of matching payments.
func (r *Repository) FindPayments(ctx context.Context, q Query) (*FetchPage, error) {
	where, args := paymentFilter(q)

	var total int
	countQuery := `SELECT COUNT(*) FROM pagos_unificado pg WHERE ` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count payments: %w", err)
	}

	page, pageSize := q.Page, q.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = fetchBatchSize
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM pagos_unificado pg
		WHERE %s
		ORDER BY %s DESC NULLS LAST, pg.cod_pago_nb DESC
		LIMIT $%d OFFSET $%d
	`, paymentColumns, where, resolvedDateSQL, len(args)+1, len(args)+2)
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	items, err := scanPayments(rows)
	if err != nil {
		return nil, err
	}

	return &FetchPage{Total: total, Items: items}, nil
}

// ListByOwners returns the non-archived payments of every given raw identity,
// keyed by owner.
func (r *Repository) ListByOwners(ctx context.Context, ownerIDs []int64) (map[int64][]RawPayment, error) {
	out := make(map[int64][]RawPayment, len(ownerIDs))
	for start := 0; start < len(ownerIDs); start += ownerBatchSize {
		batch := ownerIDs[start:min(start+ownerBatchSize, len(ownerIDs))]

		query := `
			SELECT ` + paymentColumns + `
			FROM pagos_unificado pg
			WHERE pg.cod_persona_nb = ANY($1)
			  AND COALESCE(pg.estado_obs, false) = false
			ORDER BY pg.cod_persona_nb, pg.cod_pago_nb
		`
		rows, err := r.db.QueryContext(ctx, query, pq.Array(batch))
		if err != nil {
			return nil, fmt.Errorf("failed to list payments by owners: %w", err)
		}
		payments, err := scanPayments(rows)
		rows.Close()
		if err != nil {
			return nil, err
		}
		for _, p := range payments {
			out[p.OwnerRawID] = append(out[p.OwnerRawID], p)
		}
	}
	return out, nil
}

// Ping verifies the database is reachable
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// paymentFilter builds the WHERE clause for q.
func paymentFilter(q Query) (string, []any) {
	args := []any{q.OwnerRawID}
	conds := []string{
		"pg.cod_persona_nb = $1",
		"COALESCE(pg.estado_obs, false) = false",
	}

	if origin := strings.TrimSpace(q.Origin); origin != "" {
		args = append(args, origin)
		conds = append(conds, fmt.Sprintf("upper(trim(pg.origen)) = upper($%d)", len(args)))
	}
	if q.CancellationYear != nil {
		args = append(args, *q.CancellationYear)
		conds = append(conds, fmt.Sprintf(
			"pg.pm_fecha_que_cancelo >= %s AND EXTRACT(YEAR FROM pg.pm_fecha_que_cancelo) = $%d",
			platformMinSQL, len(args)))
	}

	return strings.Join(conds, " AND "), args
}

func scanPayments(rows *sql.Rows) ([]RawPayment, error) {
	var payments []RawPayment
	for rows.Next() {
		var (
			p                     RawPayment
			amount                decimal.Decimal
			planned, due, settled sql.NullTime
			fiscalYear, month     sql.NullInt64
			invoice, receipt      sql.NullInt64
			notes                 sql.NullString
		)
		if err := rows.Scan(
			&p.PaymentID,
			&p.OwnerRawID,
			&amount,
			&p.Status,
			&planned,
			&due,
			&settled,
			&p.Origin,
			&fiscalYear,
			&month,
			&invoice,
			&receipt,
			&notes,
		); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		p.Amount = amount
		p.PlannedDate = timePtr(planned)
		p.DueDate = timePtr(due)
		p.SettledDate = timePtr(settled)
		p.FiscalYear = intPtr(fiscalYear)
		p.Month = intPtr(month)
		p.InvoiceNumber = int64Ptr(invoice)
		p.ReceiptNumber = int64Ptr(receipt)
		if notes.Valid {
			p.Notes = &notes.String
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payments: %w", err)
	}
	return payments, nil
}

func timePtr(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}

func int64Ptr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	n := v.Int64
	return &n
}
