package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/invoicegen-api/internal/domain"
	"github.com/jhoicas/invoicegen-api/internal/domain/entity"
	"github.com/jhoicas/invoicegen-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var invoiceColumns = []string{
	"id", "owner_id", "invoice_number",
	"client_name", "client_email", "client_address",
	"items",
	"subtotal", "tax_rate", "tax_amount", "total_gross", "amount_paid", "balance_due", "is_paid_in_full",
	"settlement_method", "settlement_details",
	"status", "issued_date", "due_date", "created_at", "updated_at",
}

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// ExistsByNumber indica si la cuenta ya usó ese número de factura.
func (r *InvoiceRepo) ExistsByNumber(ctx context.Context, ownerID, invoiceNumber string) (bool, error) {
	query, args, err := psql.Select("1").From("invoices").
		Where(sq.Eq{"owner_id": ownerID, "invoice_number": invoiceNumber}).
		Prefix("SELECT EXISTS (").Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build exists query: %w", err)
	}
	var exists bool
	if err := r.q.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("invoice exists: %w", err)
	}
	return exists, nil
}

// Create persiste la factura con sus líneas como documento JSONB.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	f := inv.Financials
	query, args, err := psql.Insert("invoices").Columns(invoiceColumns...).Values(
		inv.ID, inv.OwnerID, inv.InvoiceNumber,
		inv.Client.Name, inv.Client.Email, inv.Client.Address,
		inv.Items,
		f.Subtotal, f.TaxRate, f.TaxAmount, f.TotalGross, f.AmountPaid, f.BalanceDue, f.IsPaidInFull,
		inv.Settlement.Method, inv.Settlement.Details,
		string(inv.Status), inv.IssuedDate, inv.DueDate, inv.CreatedAt, inv.UpdatedAt,
	).ToSql()
	if err != nil {
		return fmt.Errorf("build insert invoice: %w", err)
	}
	if _, err := r.q.Exec(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateInvoiceNumber
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// GetByNumber obtiene la factura de la cuenta con ese número.
func (r *InvoiceRepo) GetByNumber(ctx context.Context, ownerID, invoiceNumber string) (*entity.Invoice, error) {
	return r.findOne(ctx, sq.Eq{"owner_id": ownerID, "invoice_number": invoiceNumber})
}

// GetByID obtiene la factura por ID, solo si pertenece a la cuenta.
func (r *InvoiceRepo) GetByID(ctx context.Context, ownerID, id string) (*entity.Invoice, error) {
	return r.findOne(ctx, sq.Eq{"owner_id": ownerID, "id": id})
}

// ListRecent las `limit` facturas creadas más recientemente.
func (r *InvoiceRepo) ListRecent(ctx context.Context, ownerID string, limit int) ([]*entity.Invoice, error) {
	stmt := psql.Select(invoiceColumns...).From("invoices").
		Where(sq.Eq{"owner_id": ownerID}).
		OrderBy("created_at DESC").
		Limit(uint64(limit))
	return r.findMany(ctx, stmt)
}

// List listado paginado de la cuenta más el total de filas.
func (r *InvoiceRepo) List(ctx context.Context, ownerID string, limit, offset int) ([]*entity.Invoice, int64, error) {
	countQuery, countArgs, err := psql.Select("COUNT(*)").From("invoices").
		Where(sq.Eq{"owner_id": ownerID}).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count invoices: %w", err)
	}
	var total int64
	if err := r.q.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count invoices: %w", err)
	}
	if total == 0 {
		return []*entity.Invoice{}, 0, nil
	}

	stmt := psql.Select(invoiceColumns...).From("invoices").
		Where(sq.Eq{"owner_id": ownerID}).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset))
	list, err := r.findMany(ctx, stmt)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// MarkPaid fija status=Paid. balance_due no se toca.
func (r *InvoiceRepo) MarkPaid(ctx context.Context, ownerID, id string, at time.Time) (*entity.Invoice, error) {
	query, args, err := psql.Update("invoices").
		Set("status", string(entity.InvoiceStatusPaid)).
		Set("updated_at", at).
		Where(sq.Eq{"owner_id": ownerID, "id": id}).
		Suffix("RETURNING " + strings.Join(invoiceColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build mark paid: %w", err)
	}
	inv, err := scanInvoice(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("mark invoice paid: %w", err)
	}
	return inv, nil
}

// Delete elimina la factura de la cuenta.
func (r *InvoiceRepo) Delete(ctx context.Context, ownerID, id string) error {
	query, args, err := psql.Delete("invoices").
		Where(sq.Eq{"owner_id": ownerID, "id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete invoice: %w", err)
	}
	tag, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *InvoiceRepo) findOne(ctx context.Context, where sq.Eq) (*entity.Invoice, error) {
	query, args, err := psql.Select(invoiceColumns...).From("invoices").Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get invoice: %w", err)
	}
	inv, err := scanInvoice(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

func (r *InvoiceRepo) findMany(ctx context.Context, stmt sq.SelectBuilder) ([]*entity.Invoice, error) {
	return queryInvoices(ctx, r.q, stmt)
}

func queryInvoices(ctx context.Context, q Querier, stmt sq.SelectBuilder) ([]*entity.Invoice, error) {
	query, args, err := stmt.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list invoices: %w", err)
	}
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	list := make([]*entity.Invoice, 0)
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}

// scanInvoice lee una fila con el orden de invoiceColumns.
func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var (
		inv    entity.Invoice
		status string
	)
	f := &inv.Financials
	err := row.Scan(
		&inv.ID, &inv.OwnerID, &inv.InvoiceNumber,
		&inv.Client.Name, &inv.Client.Email, &inv.Client.Address,
		&inv.Items,
		&f.Subtotal, &f.TaxRate, &f.TaxAmount, &f.TotalGross, &f.AmountPaid, &f.BalanceDue, &f.IsPaidInFull,
		&inv.Settlement.Method, &inv.Settlement.Details,
		&status, &inv.IssuedDate, &inv.DueDate, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	inv.Status = entity.InvoiceStatus(status)
	return &inv, nil
}
