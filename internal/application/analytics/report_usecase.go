// Package analytics contiene los reportes de facturación de la cuenta autenticada:
// resumen de estado, ingresos diarios y actividad reciente.
package analytics

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/invoicegen-api/internal/application/auth"
	"github.com/jhoicas/invoicegen-api/internal/application/dto"
	"github.com/jhoicas/invoicegen-api/internal/domain/report"
	"github.com/jhoicas/invoicegen-api/internal/domain/repository"
)

// ReportUseCase reportes read-only sobre las facturas de una cuenta.
//
// Fuente de datos: ReportRepository. No accede directamente a la tabla de
// facturas; el agrupado por día se hace en memoria con el paquete report.
type ReportUseCase struct {
	reports repository.ReportRepository
	now     func() time.Time
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(reports repository.ReportRepository) *ReportUseCase {
	return &ReportUseCase{reports: reports, now: time.Now}
}

// Stats totales por estado. Una cuenta sin facturas obtiene ceros.
func (uc *ReportUseCase) Stats(ctx context.Context, actx *auth.AuthContext) (*dto.StatsResponse, error) {
	s, err := uc.reports.Stats(ctx, actx.AccountID())
	if err != nil {
		return nil, fmt.Errorf("reportes: estadísticas: %w", err)
	}
	out := toStatsResponse(s)
	return &out, nil
}

// DailyRevenue ingresos de facturas Paid de los últimos 7 días (hoy incluido),
// agrupados por día de emisión y ordenados por fecha.
func (uc *ReportUseCase) DailyRevenue(ctx context.Context, actx *auth.AuthContext) ([]dto.DailyRevenueDTO, error) {
	now := uc.now()
	entries, err := uc.reports.PaidBetween(ctx, actx.AccountID(), report.WindowStart(now), now)
	if err != nil {
		return nil, fmt.Errorf("reportes: ingresos diarios: %w", err)
	}
	series := report.GroupDailyRevenue(entries, now)
	out := make([]dto.DailyRevenueDTO, 0, len(series))
	for _, p := range series {
		out = append(out, dto.DailyRevenueDTO{
			Name:    p.Name,
			Date:    p.Date.Format("2006-01-02"),
			Revenue: p.Revenue,
		})
	}
	return out, nil
}

// Activity las últimas facturas modificadas.
func (uc *ReportUseCase) Activity(ctx context.Context, actx *auth.AuthContext) ([]dto.ActivityDTO, error) {
	list, err := uc.reports.RecentActivity(ctx, actx.AccountID(), report.ActivityLimit)
	if err != nil {
		return nil, fmt.Errorf("reportes: actividad: %w", err)
	}
	out := make([]dto.ActivityDTO, 0, len(list))
	for _, inv := range list {
		out = append(out, dto.ActivityDTO{
			ID:            inv.ID,
			InvoiceNumber: inv.InvoiceNumber,
			Client:        inv.Client.Name,
			Status:        string(inv.Status),
			UpdatedAt:     inv.UpdatedAt,
			TotalGross:    inv.Financials.TotalGross,
		})
	}
	return out, nil
}

// Dashboard los tres reportes en paralelo. El primer error cancela el resto.
func (uc *ReportUseCase) Dashboard(ctx context.Context, actx *auth.AuthContext) (*dto.DashboardResponse, error) {
	var (
		stats    *dto.StatsResponse
		daily    []dto.DailyRevenueDTO
		activity []dto.ActivityDTO
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats, err = uc.Stats(gctx, actx)
		return err
	})
	g.Go(func() (err error) {
		daily, err = uc.DailyRevenue(gctx, actx)
		return err
	})
	g.Go(func() (err error) {
		activity, err = uc.Activity(gctx, actx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &dto.DashboardResponse{Stats: *stats, DailyRevenue: daily, Activity: activity}, nil
}

func toStatsResponse(s report.Stats) dto.StatsResponse {
	return dto.StatsResponse{
		TotalRevenue:  s.TotalRevenue,
		PendingAmount: s.PendingAmount,
		OverdueAmount: s.OverdueAmount,
		TotalCount:    s.TotalCount,
	}
}
