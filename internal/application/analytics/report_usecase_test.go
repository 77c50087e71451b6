package analytics_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoicegen-api/internal/application/analytics"
	"github.com/jhoicas/invoicegen-api/internal/application/auth"
	"github.com/jhoicas/invoicegen-api/internal/application/billing"
	"github.com/jhoicas/invoicegen-api/internal/application/dto"
	"github.com/jhoicas/invoicegen-api/internal/domain/entity"
	"github.com/jhoicas/invoicegen-api/internal/domain/report"
	"github.com/jhoicas/invoicegen-api/internal/testutil"
)

const owner = "00000000-0000-0000-0000-00000000000a"

var now = time.Date(2026, 3, 11, 15, 0, 0, 0, time.UTC) // miércoles

func actx() *auth.AuthContext { return &auth.AuthContext{Account: &entity.Account{ID: owner}} }

func inv(number string, status entity.InvoiceStatus, total, balance string, issued, updated time.Time) *entity.Invoice {
	return &entity.Invoice{
		ID:            "id-" + number,
		OwnerID:       owner,
		InvoiceNumber: number,
		Client:        entity.Client{Name: "Cliente " + number},
		Status:        status,
		Financials: entity.Financials{
			TotalGross: decimal.RequireFromString(total),
			BalanceDue: decimal.RequireFromString(balance),
		},
		IssuedDate: issued,
		CreatedAt:  issued,
		UpdatedAt:  updated,
	}
}

func newUseCase(seed ...*entity.Invoice) *analytics.ReportUseCase {
	uc := analytics.NewReportUseCase(testutil.NewInvoices(seed...))
	uc.SetClock(func() time.Time { return now })
	return uc
}

func TestStats_CuentaVacia(t *testing.T) {
	s, err := newUseCase().Stats(context.Background(), actx())
	require.NoError(t, err)
	assert.True(t, s.TotalRevenue.IsZero())
	assert.True(t, s.PendingAmount.IsZero())
	assert.True(t, s.OverdueAmount.IsZero())
	assert.Zero(t, s.TotalCount)
}

func TestReportes_UnaFacturaPagadaHoy(t *testing.T) {
	uc := newUseCase(inv("INV-1", entity.InvoiceStatusPaid, "220", "220", now.Add(-time.Hour), now))
	ctx := context.Background()

	s, err := uc.Stats(ctx, actx())
	require.NoError(t, err)
	assert.True(t, s.TotalRevenue.Equal(decimal.NewFromInt(220)))
	assert.EqualValues(t, 1, s.TotalCount)

	daily, err := uc.DailyRevenue(ctx, actx())
	require.NoError(t, err)
	require.Len(t, daily, 1)
	assert.Equal(t, "Wed", daily[0].Name)
	assert.Equal(t, "2026-03-11", daily[0].Date)
	assert.True(t, daily[0].Revenue.Equal(decimal.NewFromInt(220)))
}

func TestDailyRevenue_FechaSimpleAlOesteDeUTC(t *testing.T) {
	zone := time.FixedZone("EDT", -4*60*60)
	clock := time.Date(2026, 10, 16, 21, 0, 0, 0, zone) // viernes; sábado en UTC

	created, err := billing.BuildInvoice(owner, dto.CreateInvoiceRequest{
		Meta:    dto.InvoiceMetaRequest{InvoiceNumber: "INV-1", IssuedDate: clock.Format("2006-01-02")},
		Billing: dto.BillingRequest{ClientName: "Globex", ClientEmail: "billing@globex.com", ClientAddress: "5 Main St"},
		Items:   []dto.InvoiceItemRequest{{Description: "Design", Quantity: decimal.NewFromInt(2), Rate: decimal.NewFromInt(100)}},
		Financials: dto.FinancialsDTO{
			Subtotal: decimal.NewFromInt(200), TaxRate: decimal.NewFromInt(10), TaxAmount: decimal.NewFromInt(20),
			TotalGross: decimal.NewFromInt(220), BalanceDue: decimal.NewFromInt(220),
		},
	}, clock)
	require.NoError(t, err)
	created.Status = entity.InvoiceStatusPaid

	uc := analytics.NewReportUseCase(testutil.NewInvoices(created))
	uc.SetClock(func() time.Time { return clock })

	daily, err := uc.DailyRevenue(context.Background(), actx())
	require.NoError(t, err)
	require.Len(t, daily, 1)
	assert.Equal(t, "Fri", daily[0].Name)
	assert.Equal(t, "2026-10-16", daily[0].Date)
	assert.True(t, daily[0].Revenue.Equal(decimal.NewFromInt(220)))
}

func TestDailyRevenue_VentanaYOrden(t *testing.T) {
	uc := newUseCase(
		inv("A", entity.InvoiceStatusPaid, "10", "0", now.AddDate(0, 0, -2), now),
		inv("B", entity.InvoiceStatusPaid, "5", "0", now.AddDate(0, 0, -6), now),
		inv("C", entity.InvoiceStatusPaid, "7", "0", now.AddDate(0, 0, -2).Add(time.Hour), now),
		inv("D", entity.InvoiceStatusPaid, "99", "0", now.AddDate(0, 0, -8), now), // fuera de ventana
		inv("E", entity.InvoiceStatusSent, "50", "50", now, now),                  // no pagada
	)
	daily, err := uc.DailyRevenue(context.Background(), actx())
	require.NoError(t, err)
	require.Len(t, daily, 2)
	assert.Equal(t, "2026-03-05", daily[0].Date)
	assert.Equal(t, "2026-03-09", daily[1].Date)
	assert.True(t, daily[1].Revenue.Equal(decimal.NewFromInt(17)))
}

func TestActivity_CuatroMasRecientes(t *testing.T) {
	var seed []*entity.Invoice
	for i, n := range []string{"1", "2", "3", "4", "5", "6"} {
		seed = append(seed, inv(n, entity.InvoiceStatusSent, "1", "1", now, now.Add(time.Duration(i)*time.Minute)))
	}
	list, err := newUseCase(seed...).Activity(context.Background(), actx())
	require.NoError(t, err)
	require.Len(t, list, report.ActivityLimit)
	assert.Equal(t, "6", list[0].InvoiceNumber)
	assert.Equal(t, "Cliente 6", list[0].Client)
}

func TestDashboard(t *testing.T) {
	uc := newUseCase(
		inv("P", entity.InvoiceStatusPaid, "220", "0", now, now),
		inv("S", entity.InvoiceStatusSent, "100", "80", now, now.Add(-time.Minute)),
		inv("O", entity.InvoiceStatusOverdue, "40", "40", now, now.Add(-2*time.Minute)),
	)
	out, err := uc.Dashboard(context.Background(), actx())
	require.NoError(t, err)
	assert.True(t, out.Stats.PendingAmount.Equal(decimal.NewFromInt(80)))
	assert.True(t, out.Stats.OverdueAmount.Equal(decimal.NewFromInt(40)))
	assert.Len(t, out.DailyRevenue, 1)
	assert.Len(t, out.Activity, 3)
}

type failingReports struct{ testutil.Invoices }

func (*failingReports) Stats(context.Context, string) (report.Stats, error) {
	return report.Stats{}, errors.New("db caída")
}

func TestDashboard_PropagaError(t *testing.T) {
	uc := analytics.NewReportUseCase(&failingReports{})
	_, err := uc.Dashboard(context.Background(), actx())
	assert.ErrorContains(t, err, "db caída")
}
