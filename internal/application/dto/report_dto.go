package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatsResponse respuesta de GET /api/invoices/stats.
type StatsResponse struct {
	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
	PendingAmount decimal.Decimal `json:"pendingAmount"`
	OverdueAmount decimal.Decimal `json:"overdueAmount"`
	TotalCount    int64           `json:"totalCount"`
}

// DailyRevenueDTO punto de la serie de 7 días.
type DailyRevenueDTO struct {
	Name    string          `json:"name"`    // abreviatura del día: "Mon"
	Date    string          `json:"date"`    // 2006-01-02
	Revenue decimal.Decimal `json:"revenue"` // Σ totalGross Paid del día
}

// ActivityDTO factura en el feed de actividad reciente.
type ActivityDTO struct {
	ID            string          `json:"id"`
	InvoiceNumber string          `json:"invoiceNumber"`
	Client        string          `json:"client"`
	Status        string          `json:"status"`
	UpdatedAt     time.Time       `json:"updatedAt"`
	TotalGross    decimal.Decimal `json:"totalGross"`
}

// DashboardResponse los tres reportes en una respuesta.
type DashboardResponse struct {
	Stats        StatsResponse     `json:"stats"`
	DailyRevenue []DailyRevenueDTO `json:"dailyRevenue"`
	Activity     []ActivityDTO     `json:"activity"`
}
