package postgres

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/invoicegen-api/internal/domain/entity"
	"github.com/jhoicas/invoicegen-api/internal/domain/report"
	"github.com/jhoicas/invoicegen-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas de solo lectura para estadísticas y actividad.
type ReportRepo struct {
	pool *pgxpool.Pool
}

// NewReportRepository construye el adaptador de reportes.
func NewReportRepository(pool *pgxpool.Pool) *ReportRepo {
	return &ReportRepo{pool: pool}
}

// Stats suma por estado en una sola pasada. COALESCE devuelve cero si no hay filas.
func (r *ReportRepo) Stats(ctx context.Context, ownerID string) (report.Stats, error) {
	query, args, err := psql.Select(
		"COALESCE(SUM(total_gross) FILTER (WHERE status = 'Paid'), 0)",
		"COALESCE(SUM(balance_due) FILTER (WHERE status = 'Sent'), 0)",
		"COALESCE(SUM(balance_due) FILTER (WHERE status = 'Overdue'), 0)",
		"COUNT(*)",
	).From("invoices").Where(sq.Eq{"owner_id": ownerID}).ToSql()
	if err != nil {
		return report.ZeroStats(), fmt.Errorf("report.Stats build: %w", err)
	}

	s := report.ZeroStats()
	err = r.pool.QueryRow(ctx, query, args...).
		Scan(&s.TotalRevenue, &s.PendingAmount, &s.OverdueAmount, &s.TotalCount)
	if err != nil {
		return report.ZeroStats(), fmt.Errorf("report.Stats: %w", err)
	}
	return s, nil
}

// PaidBetween facturas pagadas emitidas dentro del rango, para la serie diaria.
func (r *ReportRepo) PaidBetween(ctx context.Context, ownerID string, from, to time.Time) ([]report.RevenueEntry, error) {
	query, args, err := psql.Select("issued_date", "total_gross").From("invoices").
		Where(sq.Eq{"owner_id": ownerID, "status": string(entity.InvoiceStatusPaid)}).
		Where(sq.GtOrEq{"issued_date": from}).
		Where(sq.LtOrEq{"issued_date": to}).
		OrderBy("issued_date ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("report.PaidBetween build: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("report.PaidBetween: %w", err)
	}
	defer rows.Close()

	var out []report.RevenueEntry
	for rows.Next() {
		var e report.RevenueEntry
		if err := rows.Scan(&e.IssuedDate, &e.TotalGross); err != nil {
			return nil, fmt.Errorf("report.PaidBetween scan: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// RecentActivity las `limit` facturas actualizadas más recientemente.
func (r *ReportRepo) RecentActivity(ctx context.Context, ownerID string, limit int) ([]*entity.Invoice, error) {
	stmt := psql.Select(invoiceColumns...).From("invoices").
		Where(sq.Eq{"owner_id": ownerID}).
		OrderBy("updated_at DESC").
		Limit(uint64(limit))
	return queryInvoices(ctx, r.pool, stmt)
}
