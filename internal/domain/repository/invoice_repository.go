package repository

import (
	"context"
	"time"

	"github.com/jhoicas/invoicegen-api/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia para Invoice.
// Toda operación está acotada al dueño: una factura de otra cuenta se comporta como inexistente.
type InvoiceRepository interface {
	ExistsByNumber(ctx context.Context, ownerID, invoiceNumber string) (bool, error)
	// Create persiste la factura. domain.ErrDuplicateInvoiceNumber si (owner, número) ya existe.
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetByNumber(ctx context.Context, ownerID, invoiceNumber string) (*entity.Invoice, error)
	GetByID(ctx context.Context, ownerID, id string) (*entity.Invoice, error)
	// ListRecent ordena por created_at descendente.
	ListRecent(ctx context.Context, ownerID string, limit int) ([]*entity.Invoice, error)
	List(ctx context.Context, ownerID string, limit, offset int) ([]*entity.Invoice, int64, error)
	// MarkPaid fija status=Paid sin tocar los financieros. (nil, nil) si no hay coincidencia.
	MarkPaid(ctx context.Context, ownerID, id string, at time.Time) (*entity.Invoice, error)
	// Delete elimina la factura. domain.ErrNotFound si no hay coincidencia.
	Delete(ctx context.Context, ownerID, id string) error
}
