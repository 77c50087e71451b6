package repository

import (
	"context"
	"time"

	"github.com/jhoicas/invoicegen-api/internal/domain/entity"
	"github.com/jhoicas/invoicegen-api/internal/domain/report"
)

// ReportRepository consultas de lectura para los reportes de una cuenta.
// Las implementaciones son read-only (no modifican datos).
type ReportRepository interface {
	// Stats usa COALESCE: una cuenta sin facturas obtiene ceros, nunca error.
	Stats(ctx context.Context, ownerID string) (report.Stats, error)

	// PaidBetween devuelve las facturas Paid con issued_date en [from, to].
	PaidBetween(ctx context.Context, ownerID string, from, to time.Time) ([]report.RevenueEntry, error)

	// RecentActivity devuelve las `limit` facturas actualizadas más recientemente.
	RecentActivity(ctx context.Context, ownerID string, limit int) ([]*entity.Invoice, error)
}
