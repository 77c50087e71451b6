package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus estado del ciclo de vida de una factura.
type InvoiceStatus string

// Estados válidos. Draft y Overdue solo se alcanzan manipulando datos directamente;
// ninguna operación transiciona hacia o desde ellos.
const (
	InvoiceStatusDraft   InvoiceStatus = "Draft"
	InvoiceStatusSent    InvoiceStatus = "Sent"    // estado inicial por defecto
	InvoiceStatusPaid    InvoiceStatus = "Paid"    // terminal: ninguna operación lo revierte
	InvoiceStatusOverdue InvoiceStatus = "Overdue"
)

// Valid indica si s es uno de los estados conocidos.
func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPaid, InvoiceStatusOverdue:
		return true
	}
	return false
}

// Client destinatario de la factura.
type Client struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

// LineItem línea facturable. Amount = Quantity × Rate, calculado al crear.
type LineItem struct {
	Description string          `json:"description"`
	Quantity    int64           `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
	Amount      decimal.Decimal `json:"amount"`
}

// NewLineItem construye la línea calculando el importe con aritmética decimal exacta.
func NewLineItem(description string, quantity int64, rate decimal.Decimal) LineItem {
	return LineItem{
		Description: description,
		Quantity:    quantity,
		Rate:        rate,
		Amount:      rate.Mul(decimal.NewFromInt(quantity)),
	}
}

// Financials resumen financiero tal como lo envía el cliente (no se recalcula en servidor).
type Financials struct {
	Subtotal     decimal.Decimal `json:"subtotal"`
	TaxRate      decimal.Decimal `json:"taxRate"`
	TaxAmount    decimal.Decimal `json:"taxAmount"`
	TotalGross   decimal.Decimal `json:"totalGross"`
	AmountPaid   decimal.Decimal `json:"amountPaid"`
	BalanceDue   decimal.Decimal `json:"balanceDue"`
	IsPaidInFull bool            `json:"isPaidInFull"`
}

// IndicatesFullPayment true si el pago está completo según lo declarado.
func (f Financials) IndicatesFullPayment() bool {
	if f.IsPaidInFull {
		return true
	}
	return f.AmountPaid.IsPositive() && !f.BalanceDue.IsPositive()
}

// Settlement datos de cobro adjuntos a la factura.
type Settlement struct {
	Method  string `json:"method"`
	Details string `json:"details"`
}

// Invoice factura emitida por una cuenta (OwnerID) a un cliente.
type Invoice struct {
	ID            string
	OwnerID       string
	InvoiceNumber string
	Client        Client
	Items         []LineItem
	Financials    Financials
	Settlement    Settlement
	Status        InvoiceStatus
	IssuedDate    time.Time
	DueDate       *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// DeriveStatus estado inicial: Paid si los financieros indican pago completo, si no Sent.
func DeriveStatus(f Financials) InvoiceStatus {
	if f.IndicatesFullPayment() {
		return InvoiceStatusPaid
	}
	return InvoiceStatusSent
}

// IsPaid indica si la factura está marcada como pagada.
func (i *Invoice) IsPaid() bool { return i.Status == InvoiceStatusPaid }
