package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/invoicegen-api/internal/application/auth"
	"github.com/jhoicas/invoicegen-api/internal/application/dto"
	"github.com/jhoicas/invoicegen-api/internal/domain"
	"github.com/jhoicas/invoicegen-api/internal/domain/entity"
	"github.com/jhoicas/invoicegen-api/internal/domain/repository"
)

// RecentLimit facturas devueltas por Recent.
const RecentLimit = 5

// InvoiceUseCase ciclo de vida de facturas, siempre acotado a la cuenta autenticada.
type InvoiceUseCase struct {
	invoices repository.InvoiceRepository
	tx       TxRunner
	now      func() time.Time
}

// NewInvoiceUseCase construye el caso de uso. tx puede ser nil (sin transacción).
func NewInvoiceUseCase(invoices repository.InvoiceRepository, tx TxRunner) *InvoiceUseCase {
	return &InvoiceUseCase{invoices: invoices, tx: tx, now: time.Now}
}

// Create valida, calcula importes por línea, deriva el estado y persiste.
// Los totales financieros se guardan tal como los envía el cliente.
func (uc *InvoiceUseCase) Create(ctx context.Context, actx *auth.AuthContext, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	inv, err := BuildInvoice(actx.AccountID(), in, uc.now())
	if err != nil {
		return nil, err
	}
	if err := saveInvoice(ctx, uc.tx, uc.invoices, inv); err != nil {
		return nil, err
	}
	out := ToInvoiceResponse(inv)
	return &out, nil
}

// GetByNumber proyección reducida por número de factura.
func (uc *InvoiceUseCase) GetByNumber(ctx context.Context, actx *auth.AuthContext, number string) (*dto.InvoiceSummaryResponse, error) {
	inv, err := uc.invoices.GetByNumber(ctx, actx.AccountID(), strings.TrimSpace(number))
	if err != nil {
		return nil, fmt.Errorf("billing: obtener factura: %w", err)
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	return &dto.InvoiceSummaryResponse{
		ClientName:    inv.Client.Name,
		InvoiceNumber: inv.InvoiceNumber,
		Financials:    toFinancialsDTO(inv.Financials),
	}, nil
}

// Recent las últimas facturas creadas.
func (uc *InvoiceUseCase) Recent(ctx context.Context, actx *auth.AuthContext) ([]dto.InvoiceResponse, error) {
	list, err := uc.invoices.ListRecent(ctx, actx.AccountID(), RecentLimit)
	if err != nil {
		return nil, fmt.Errorf("billing: facturas recientes: %w", err)
	}
	return toInvoiceResponses(list), nil
}

// List listado paginado de la cuenta.
func (uc *InvoiceUseCase) List(ctx context.Context, actx *auth.AuthContext, page dto.PageRequest) (*dto.InvoiceListResponse, error) {
	page.DefaultPage()
	list, total, err := uc.invoices.List(ctx, actx.AccountID(), page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("billing: listar facturas: %w", err)
	}
	return &dto.InvoiceListResponse{
		Items: toInvoiceResponses(list),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// MarkPaid fija status=Paid. No modifica amountPaid ni balanceDue. Idempotente.
func (uc *InvoiceUseCase) MarkPaid(ctx context.Context, actx *auth.AuthContext, id string) (*dto.InvoiceResponse, error) {
	if !isUUID(id) {
		return nil, domain.ErrNotFound
	}
	inv, err := uc.invoices.MarkPaid(ctx, actx.AccountID(), id, uc.now())
	if err != nil {
		return nil, fmt.Errorf("billing: marcar pagada: %w", err)
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	out := ToInvoiceResponse(inv)
	return &out, nil
}

// Delete elimina la factura. Irreversible.
func (uc *InvoiceUseCase) Delete(ctx context.Context, actx *auth.AuthContext, id string) error {
	if !isUUID(id) {
		return domain.ErrNotFound
	}
	if err := uc.invoices.Delete(ctx, actx.AccountID(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("billing: eliminar factura: %w", err)
	}
	return nil
}

// saveInvoice pre-chequeo de duplicado e inserción. El índice único (owner, número)
// cubre la carrera entre dos creaciones simultáneas.
func saveInvoice(ctx context.Context, tx TxRunner, repo repository.InvoiceRepository, inv *entity.Invoice) error {
	run := func(r repository.InvoiceRepository) error {
		exists, err := r.ExistsByNumber(ctx, inv.OwnerID, inv.InvoiceNumber)
		if err != nil {
			return fmt.Errorf("billing: verificar duplicado: %w", err)
		}
		if exists {
			return domain.ErrDuplicateInvoiceNumber
		}
		if err := r.Create(ctx, inv); err != nil {
			if errors.Is(err, domain.ErrDuplicateInvoiceNumber) {
				return domain.ErrDuplicateInvoiceNumber
			}
			return fmt.Errorf("billing: guardar factura: %w", err)
		}
		return nil
	}
	if tx == nil {
		return run(repo)
	}
	return tx.RunInvoices(ctx, run)
}

// BuildInvoice valida el body y construye la entidad sin persistirla.
func BuildInvoice(ownerID string, in dto.CreateInvoiceRequest, now time.Time) (*entity.Invoice, error) {
	v := &domain.ValidationError{}

	number := strings.TrimSpace(in.Meta.InvoiceNumber)
	if number == "" {
		v.Add("meta.invoiceNumber", "el número de factura es obligatorio")
	}
	if strings.TrimSpace(in.Billing.ClientName) == "" {
		v.Add("billing.clientName", "el nombre del cliente es obligatorio")
	}
	if !govalidator.IsEmail(strings.TrimSpace(in.Billing.ClientEmail)) {
		v.Add("billing.clientEmail", "email del cliente inválido")
	}
	if strings.TrimSpace(in.Billing.ClientAddress) == "" {
		v.Add("billing.clientAddress", "la dirección del cliente es obligatoria")
	}
	if len(in.Items) == 0 {
		v.Add("items", "se requiere al menos una línea")
	}

	items := make([]entity.LineItem, 0, len(in.Items))
	for i, it := range in.Items {
		field := fmt.Sprintf("items[%d]", i)
		valid := true
		if strings.TrimSpace(it.Description) == "" {
			v.Add(field+".description", "la descripción es obligatoria")
			valid = false
		}
		if !it.Quantity.IsInteger() || it.Quantity.LessThan(decimal.NewFromInt(1)) {
			v.Add(field+".quantity", "la cantidad debe ser un entero mayor o igual a 1")
			valid = false
		}
		if it.Rate.IsNegative() {
			v.Add(field+".rate", "la tarifa no puede ser negativa")
			valid = false
		}
		if !valid {
			continue
		}
		items = append(items, entity.NewLineItem(strings.TrimSpace(it.Description), it.Quantity.IntPart(), it.Rate))
	}

	issued := now
	if in.Meta.IssuedDate != "" {
		t, err := parseDate(in.Meta.IssuedDate, now.Location())
		if err != nil {
			v.Add("meta.issuedDate", "fecha inválida")
		} else {
			issued = t
		}
	}
	var due *time.Time
	if in.Meta.DueDate != "" {
		t, err := parseDate(in.Meta.DueDate, now.Location())
		if err != nil {
			v.Add("meta.dueDate", "fecha inválida")
		} else {
			due = &t
		}
	}

	if err := v.OrNil(); err != nil {
		return nil, err
	}

	financials := entity.Financials{
		Subtotal:     in.Financials.Subtotal,
		TaxRate:      in.Financials.TaxRate,
		TaxAmount:    in.Financials.TaxAmount,
		TotalGross:   in.Financials.TotalGross,
		AmountPaid:   in.Financials.AmountPaid,
		BalanceDue:   in.Financials.BalanceDue,
		IsPaidInFull: in.Financials.IsPaidInFull,
	}
	return &entity.Invoice{
		ID:            uuid.New().String(),
		OwnerID:       ownerID,
		InvoiceNumber: number,
		Client: entity.Client{
			Name:    strings.TrimSpace(in.Billing.ClientName),
			Email:   strings.TrimSpace(in.Billing.ClientEmail),
			Address: strings.TrimSpace(in.Billing.ClientAddress),
		},
		Items:      items,
		Financials: financials,
		Settlement: entity.Settlement{Method: in.Settlement.Method, Details: in.Settlement.Details},
		Status:     entity.DeriveStatus(financials),
		IssuedDate: issued,
		DueDate:    due,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// parseDate acepta fecha simple (2006-01-02) o RFC3339. La fecha simple es
// medianoche en loc, la misma zona con la que se agrupan los reportes diarios.
func parseDate(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.ParseInLocation("2006-01-02", s, loc); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func isUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// ToInvoiceResponse proyección completa de la factura.
func ToInvoiceResponse(inv *entity.Invoice) dto.InvoiceResponse {
	items := make([]dto.InvoiceItemResponse, 0, len(inv.Items))
	for _, it := range inv.Items {
		items = append(items, dto.InvoiceItemResponse{
			Description: it.Description,
			Quantity:    it.Quantity,
			Rate:        it.Rate,
			Amount:      it.Amount,
		})
	}
	return dto.InvoiceResponse{
		ID:            inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		Client:        dto.ClientDTO{Name: inv.Client.Name, Email: inv.Client.Email, Address: inv.Client.Address},
		Items:         items,
		Financials:    toFinancialsDTO(inv.Financials),
		Settlement:    dto.SettlementDTO{Method: inv.Settlement.Method, Details: inv.Settlement.Details},
		Status:        string(inv.Status),
		IssuedDate:    inv.IssuedDate,
		DueDate:       inv.DueDate,
		CreatedAt:     inv.CreatedAt,
		UpdatedAt:     inv.UpdatedAt,
	}
}

func toInvoiceResponses(list []*entity.Invoice) []dto.InvoiceResponse {
	out := make([]dto.InvoiceResponse, 0, len(list))
	for _, inv := range list {
		out = append(out, ToInvoiceResponse(inv))
	}
	return out
}

func toFinancialsDTO(f entity.Financials) dto.FinancialsDTO {
	return dto.FinancialsDTO{
		Subtotal:     f.Subtotal,
		TaxRate:      f.TaxRate,
		TaxAmount:    f.TaxAmount,
		TotalGross:   f.TotalGross,
		AmountPaid:   f.AmountPaid,
		BalanceDue:   f.BalanceDue,
		IsPaidInFull: f.IsPaidInFull,
	}
}
