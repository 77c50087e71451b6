package billing

import (
	"context"

	"github.com/jhoicas/invoicegen-api/internal/domain/entity"
	"github.com/jhoicas/invoicegen-api/internal/domain/repository"
)

// TxRunner ejecuta fn con un repositorio de facturas atado a una transacción.
type TxRunner interface {
	RunInvoices(ctx context.Context, fn func(invoices repository.InvoiceRepository) error) error
}

// Valores impresos cuando el perfil del emisor está incompleto.
const (
	DefaultSenderName    = "Invoice Generator"
	DefaultSenderAddress = "Dirección no registrada"
	DefaultSenderPhone   = "Teléfono no registrado"
	DefaultSenderEmail   = "sin-correo@invoicegen.local"
)

// Sender emisor de la factura con todos los campos resueltos.
type Sender struct {
	CompanyName   string
	Address       string
	Phone         string
	Email         string
	SignatureURL  string
	Currency      string
	BankName      string
	AccountNumber string
	AccountName   string
}

// SenderFromAccount resuelve el emisor desde el perfil de la cuenta con valores por defecto.
func SenderFromAccount(a *entity.Account) Sender {
	return Sender{
		CompanyName:   firstNonEmpty(a.CompanyName, a.Name, DefaultSenderName),
		Address:       firstNonEmpty(a.Address, DefaultSenderAddress),
		Phone:         firstNonEmpty(a.Phone, DefaultSenderPhone),
		Email:         firstNonEmpty(a.Email, DefaultSenderEmail),
		SignatureURL:  a.SignatureURL,
		Currency:      firstNonEmpty(a.Currency, entity.DefaultCurrency),
		BankName:      a.BankName,
		AccountNumber: a.AccountNumber,
		AccountName:   a.AccountName,
	}
}

// DocumentData todo lo que el motor necesita para renderizar una factura.
type DocumentData struct {
	Invoice *entity.Invoice
	Sender  Sender
}

// DocumentRenderer motor de render. Cada Acquire ocupa un cupo del motor hasta Close.
type DocumentRenderer interface {
	Acquire(ctx context.Context) (RenderSession, error)
}

// RenderSession sesión adquirida del motor. Close debe llamarse en todo camino de salida.
type RenderSession interface {
	Render(ctx context.Context, doc DocumentData) ([]byte, error)
	Close() error
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
