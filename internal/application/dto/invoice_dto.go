package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateInvoiceRequest body para POST /api/invoices y POST /api/generate-pdf.
type CreateInvoiceRequest struct {
	Meta       InvoiceMetaRequest   `json:"meta"`
	Billing    BillingRequest       `json:"billing"`
	Items      []InvoiceItemRequest `json:"items"`
	Financials FinancialsDTO        `json:"financials"`
	Settlement SettlementDTO        `json:"settlement"`
}

// InvoiceMetaRequest número y fechas. Las fechas aceptan "2006-01-02" o RFC3339.
type InvoiceMetaRequest struct {
	InvoiceNumber string `json:"invoiceNumber"`
	IssuedDate    string `json:"issuedDate,omitempty"`
	DueDate       string `json:"dueDate,omitempty"`
}

// BillingRequest datos del cliente facturado.
type BillingRequest struct {
	ClientName    string `json:"clientName"`
	ClientEmail   string `json:"clientEmail"`
	ClientAddress string `json:"clientAddress"`
}

// InvoiceItemRequest línea de factura. Quantity debe ser entero ≥ 1.
type InvoiceItemRequest struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
}

// FinancialsDTO totales calculados por el cliente.
type FinancialsDTO struct {
	Subtotal     decimal.Decimal `json:"subtotal"`
	TaxRate      decimal.Decimal `json:"taxRate"`
	TaxAmount    decimal.Decimal `json:"taxAmount"`
	TotalGross   decimal.Decimal `json:"totalGross"`
	AmountPaid   decimal.Decimal `json:"amountPaid"`
	BalanceDue   decimal.Decimal `json:"balanceDue"`
	IsPaidInFull bool            `json:"isPaidInFull"`
}

// SettlementDTO método de pago y detalles libres.
type SettlementDTO struct {
	Method  string `json:"method"`
	Details string `json:"details"`
}

// ClientDTO cliente en respuestas.
type ClientDTO struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

// InvoiceItemResponse línea con importe calculado.
type InvoiceItemResponse struct {
	Description string          `json:"description"`
	Quantity    int64           `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
	Amount      decimal.Decimal `json:"amount"`
}

// InvoiceResponse factura completa.
type InvoiceResponse struct {
	ID            string                `json:"id"`
	InvoiceNumber string                `json:"invoiceNumber"`
	Client        ClientDTO             `json:"client"`
	Items         []InvoiceItemResponse `json:"items"`
	Financials    FinancialsDTO         `json:"financials"`
	Settlement    SettlementDTO         `json:"settlement"`
	Status        string                `json:"status"`
	IssuedDate    time.Time             `json:"issuedDate"`
	DueDate       *time.Time            `json:"dueDate,omitempty"`
	CreatedAt     time.Time             `json:"createdAt"`
	UpdatedAt     time.Time             `json:"updatedAt"`
}

// InvoiceSummaryResponse proyección reducida de GET /api/invoices/:invoiceNumber.
type InvoiceSummaryResponse struct {
	ClientName    string        `json:"clientName"`
	InvoiceNumber string        `json:"invoiceNumber"`
	Financials    FinancialsDTO `json:"financials"`
}

// InvoiceListResponse listado paginado.
type InvoiceListResponse struct {
	Items []InvoiceResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// RenderedInvoice documento binario listo para enviar.
type RenderedInvoice struct {
	InvoiceID     string
	InvoiceNumber string
	Filename      string
	ContentType   string
	Content       []byte
}
