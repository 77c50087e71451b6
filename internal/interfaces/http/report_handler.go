package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/invoicegen-api/internal/application/analytics"
)

// ReportHandler reportes de facturación de la cuenta autenticada.
type ReportHandler struct {
	uc *analytics.ReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *analytics.ReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// Stats godoc
// @Summary      Totales por estado
// @Tags         reports
// @Produce      json
// @Success      200   {object}  dto.StatsResponse
// @Security     BearerAuth
// @Router       /api/invoices/stats [get]
func (h *ReportHandler) Stats(c *fiber.Ctx) error {
	out, err := h.uc.Stats(c.UserContext(), GetAuthContext(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// DailyRevenue godoc
// @Summary      Ingresos de los últimos 7 días
// @Tags         reports
// @Produce      json
// @Success      200   {array}  dto.DailyRevenueDTO
// @Security     BearerAuth
// @Router       /api/invoices/daily-revenue [get]
func (h *ReportHandler) DailyRevenue(c *fiber.Ctx) error {
	out, err := h.uc.DailyRevenue(c.UserContext(), GetAuthContext(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Activity godoc
// @Summary      Actividad reciente
// @Tags         reports
// @Produce      json
// @Success      200   {array}  dto.ActivityDTO
// @Security     BearerAuth
// @Router       /api/invoices/activity [get]
func (h *ReportHandler) Activity(c *fiber.Ctx) error {
	out, err := h.uc.Activity(c.UserContext(), GetAuthContext(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Dashboard los tres reportes en una sola respuesta.
// GET /api/invoices/dashboard
func (h *ReportHandler) Dashboard(c *fiber.Ctx) error {
	out, err := h.uc.Dashboard(c.UserContext(), GetAuthContext(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}
