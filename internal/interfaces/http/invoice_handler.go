package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/invoicegen-api/internal/application/billing"
	"github.com/jhoicas/invoicegen-api/internal/application/dto"
)

// InvoiceHandler ciclo de vida de facturas de la cuenta autenticada.
type InvoiceHandler struct {
	invoices *billing.InvoiceUseCase
	pdf      *billing.PDFUseCase
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(invoices *billing.InvoiceUseCase, pdf *billing.PDFUseCase) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices, pdf: pdf}
}

// Create godoc
// @Summary      Crear factura
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateInvoiceRequest  true  "meta, billing, items, financials, settlement"
// @Success      201   {object}  dto.InvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/invoices [post]
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody()
	}
	out, err := h.invoices.Create(c.UserContext(), GetAuthContext(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GeneratePDF godoc
// @Summary      Generar PDF y guardar la factura
// @Description  Renderiza primero; la factura se guarda solo si el render tuvo éxito.
// @Tags         invoices
// @Accept       json
// @Produce      application/pdf
// @Param        body  body  dto.CreateInvoiceRequest  true  "factura"
// @Success      200
// @Failure      400   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/generate-pdf [post]
func (h *InvoiceHandler) GeneratePDF(c *fiber.Ctx) error {
	var in dto.CreateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody()
	}
	doc, err := h.pdf.GenerateAndSave(c.UserContext(), GetAuthContext(c), in)
	if err != nil {
		return err
	}
	return sendDocument(c, doc)
}

// List godoc
// @Summary      Listar facturas
// @Tags         invoices
// @Produce      json
// @Param        limit   query  int  false  "máximo 100"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200   {object}  dto.InvoiceListResponse
// @Security     BearerAuth
// @Router       /api/invoices [get]
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return invalidBody()
	}
	out, err := h.invoices.List(c.UserContext(), GetAuthContext(c), page)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Recent godoc
// @Summary      Últimas 5 facturas
// @Tags         invoices
// @Produce      json
// @Success      200   {array}  dto.InvoiceResponse
// @Security     BearerAuth
// @Router       /api/invoices/recent [get]
func (h *InvoiceHandler) Recent(c *fiber.Ctx) error {
	out, err := h.invoices.Recent(c.UserContext(), GetAuthContext(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetByNumber godoc
// @Summary      Factura por número
// @Tags         invoices
// @Produce      json
// @Param        invoiceNumber  path  string  true  "número de factura"
// @Success      200   {object}  dto.InvoiceSummaryResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/invoices/{invoiceNumber} [get]
func (h *InvoiceHandler) GetByNumber(c *fiber.Ctx) error {
	out, err := h.invoices.GetByNumber(c.UserContext(), GetAuthContext(c), c.Params("invoiceNumber"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Download godoc
// @Summary      Descargar PDF de una factura guardada
// @Tags         invoices
// @Produce      application/pdf
// @Param        id  path  string  true  "id de factura"
// @Success      200
// @Failure      404   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/invoices/{id}/download [get]
func (h *InvoiceHandler) Download(c *fiber.Ctx) error {
	doc, err := h.pdf.Download(c.UserContext(), GetAuthContext(c), c.Params("id"))
	if err != nil {
		return err
	}
	return sendDocument(c, doc)
}

// MarkPaid godoc
// @Summary      Marcar factura como pagada
// @Tags         invoices
// @Produce      json
// @Param        id  path  string  true  "id de factura"
// @Success      200   {object}  dto.InvoiceResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/invoices/{id}/pay [patch]
func (h *InvoiceHandler) MarkPaid(c *fiber.Ctx) error {
	out, err := h.invoices.MarkPaid(c.UserContext(), GetAuthContext(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar factura
// @Tags         invoices
// @Produce      json
// @Param        id  path  string  true  "id de factura"
// @Success      200   {object}  dto.MessageResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/invoices/{id} [delete]
func (h *InvoiceHandler) Delete(c *fiber.Ctx) error {
	if err := h.invoices.Delete(c.UserContext(), GetAuthContext(c), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "factura eliminada"})
}

func sendDocument(c *fiber.Ctx, doc *dto.RenderedInvoice) error {
	c.Set(fiber.HeaderContentType, doc.ContentType)
	c.Set(fiber.HeaderContentDisposition, billing.ContentDisposition(doc.Filename))
	return c.Send(doc.Content)
}
