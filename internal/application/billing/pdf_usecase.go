package billing

import (
	"context"
	"fmt"
	"mime"
	"time"

	"github.com/jhoicas/invoicegen-api/internal/application/auth"
	"github.com/jhoicas/invoicegen-api/internal/application/dto"
	"github.com/jhoicas/invoicegen-api/internal/domain"
	"github.com/jhoicas/invoicegen-api/internal/domain/entity"
	"github.com/jhoicas/invoicegen-api/internal/domain/repository"
)

// ContentTypePDF tipo de los documentos generados.
const ContentTypePDF = "application/pdf"

// PDFUseCase genera el PDF de una factura: al crearla (render y luego persistir) o al descargarla.
type PDFUseCase struct {
	invoices repository.InvoiceRepository
	tx       TxRunner
	renderer DocumentRenderer
	now      func() time.Time
}

// NewPDFUseCase construye el caso de uso inyectando todas sus dependencias.
func NewPDFUseCase(invoices repository.InvoiceRepository, tx TxRunner, renderer DocumentRenderer) *PDFUseCase {
	return &PDFUseCase{invoices: invoices, tx: tx, renderer: renderer, now: time.Now}
}

// GenerateAndSave valida y revisa duplicados antes del render, renderiza con el perfil del
// emisor y solo entonces persiste. Si la persistencia falla el documento se descarta.
func (uc *PDFUseCase) GenerateAndSave(ctx context.Context, actx *auth.AuthContext, in dto.CreateInvoiceRequest) (*dto.RenderedInvoice, error) {
	inv, err := BuildInvoice(actx.AccountID(), in, uc.now())
	if err != nil {
		return nil, err
	}
	exists, err := uc.invoices.ExistsByNumber(ctx, inv.OwnerID, inv.InvoiceNumber)
	if err != nil {
		return nil, fmt.Errorf("pdf: verificar duplicado: %w", err)
	}
	if exists {
		return nil, domain.ErrDuplicateInvoiceNumber
	}

	content, err := uc.render(ctx, DocumentData{Invoice: inv, Sender: SenderFromAccount(actx.Account)})
	if err != nil {
		return nil, err
	}
	if err := saveInvoice(ctx, uc.tx, uc.invoices, inv); err != nil {
		return nil, err
	}
	return renderedInvoice(inv, content), nil
}

// Download vuelve a renderizar una factura guardada. Una factura de otra cuenta
// (o un id que no es UUID) responde domain.ErrNotFound, nunca Forbidden.
func (uc *PDFUseCase) Download(ctx context.Context, actx *auth.AuthContext, id string) (*dto.RenderedInvoice, error) {
	if !isUUID(id) {
		return nil, domain.ErrNotFound
	}
	inv, err := uc.invoices.GetByID(ctx, actx.AccountID(), id)
	if err != nil {
		return nil, fmt.Errorf("pdf: obtener factura: %w", err)
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	content, err := uc.render(ctx, DocumentData{Invoice: inv, Sender: SenderFromAccount(actx.Account)})
	if err != nil {
		return nil, err
	}
	return renderedInvoice(inv, content), nil
}

// render adquiere una sesión del motor y la libera en todo camino de salida.
func (uc *PDFUseCase) render(ctx context.Context, data DocumentData) (content []byte, err error) {
	session, err := uc.renderer.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("pdf: adquirir motor: %w", err)
	}
	defer func() {
		if cerr := session.Close(); cerr != nil && err == nil {
			content, err = nil, fmt.Errorf("pdf: liberar motor: %w", cerr)
		}
	}()

	content, err = session.Render(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return content, nil
}

// Filename nombre de descarga de la factura.
func Filename(invoiceNumber string) string {
	return "invoice_" + invoiceNumber + ".pdf"
}

// ContentDisposition cabecera de descarga con el nombre escapado según RFC 2183/2231.
func ContentDisposition(filename string) string {
	return mime.FormatMediaType("attachment", map[string]string{"filename": filename})
}

func renderedInvoice(inv *entity.Invoice, content []byte) *dto.RenderedInvoice {
	return &dto.RenderedInvoice{
		InvoiceID:     inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		Filename:      Filename(inv.InvoiceNumber),
		ContentType:   ContentTypePDF,
		Content:       content,
	}
}
