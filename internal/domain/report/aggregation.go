// Package report contiene la agregación pura sobre facturas (sin I/O).
package report

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/invoicegen-api/internal/domain/entity"
)

// RevenueWindowDays tamaño de la ventana de ingresos diarios (hoy incluido).
const RevenueWindowDays = 7

// ActivityLimit cantidad de facturas en el feed de actividad.
const ActivityLimit = 4

// Stats resumen de facturación de una cuenta.
type Stats struct {
	TotalRevenue  decimal.Decimal // Σ totalGross de facturas Paid
	PendingAmount decimal.Decimal // Σ balanceDue de facturas Sent
	OverdueAmount decimal.Decimal // Σ balanceDue de facturas Overdue
	TotalCount    int64
}

// ZeroStats resultado para una cuenta sin facturas.
func ZeroStats() Stats {
	return Stats{TotalRevenue: decimal.Zero, PendingAmount: decimal.Zero, OverdueAmount: decimal.Zero}
}

// Summarize calcula Stats en memoria. El repositorio SQL hace la misma suma en la base.
func Summarize(invoices []*entity.Invoice) Stats {
	s := ZeroStats()
	for _, inv := range invoices {
		s.TotalCount++
		switch inv.Status {
		case entity.InvoiceStatusPaid:
			s.TotalRevenue = s.TotalRevenue.Add(inv.Financials.TotalGross)
		case entity.InvoiceStatusSent:
			s.PendingAmount = s.PendingAmount.Add(inv.Financials.BalanceDue)
		case entity.InvoiceStatusOverdue:
			s.OverdueAmount = s.OverdueAmount.Add(inv.Financials.BalanceDue)
		}
	}
	return s
}

// RevenueEntry factura pagada reducida a lo que necesita la serie diaria.
type RevenueEntry struct {
	IssuedDate time.Time
	TotalGross decimal.Decimal
}

// DailyRevenue punto de la serie: abreviatura del día y total cobrado.
type DailyRevenue struct {
	Date    time.Time
	Name    string
	Revenue decimal.Decimal
}

// WindowStart inicio de la ventana: medianoche de hace seis días en la zona de now.
func WindowStart(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location()).AddDate(0, 0, -(RevenueWindowDays - 1))
}

// GroupDailyRevenue agrupa por día calendario (zona de now) las entradas dentro de
// [WindowStart(now), now] y devuelve la serie ordenada por fecha ascendente.
// Los días sin ingresos no aparecen.
func GroupDailyRevenue(entries []RevenueEntry, now time.Time) []DailyRevenue {
	from := WindowStart(now)
	buckets := make(map[time.Time]decimal.Decimal)
	for _, e := range entries {
		issued := e.IssuedDate.In(now.Location())
		if issued.Before(from) || issued.After(now) {
			continue
		}
		y, m, d := issued.Date()
		day := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
		buckets[day] = buckets[day].Add(e.TotalGross)
	}

	out := make([]DailyRevenue, 0, len(buckets))
	for day, total := range buckets {
		out = append(out, DailyRevenue{Date: day, Name: DayName(day), Revenue: total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// DayName abreviatura en inglés del día de la semana ("Mon", "Tue"...).
func DayName(t time.Time) string {
	return t.Weekday().String()[:3]
}
