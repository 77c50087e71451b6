// Package testutil repositorios en memoria para las pruebas de casos de uso y handlers.
package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/invoicegen-api/internal/domain"
	"github.com/jhoicas/invoicegen-api/internal/domain/entity"
	"github.com/jhoicas/invoicegen-api/internal/domain/report"
	"github.com/jhoicas/invoicegen-api/internal/domain/repository"
)

var (
	_ repository.AccountRepository = (*Accounts)(nil)
	_ repository.InvoiceRepository = (*Invoices)(nil)
	_ repository.ReportRepository  = (*Invoices)(nil)
)

// Accounts repositorio de cuentas en memoria con unicidad de email.
type Accounts struct {
	mu   sync.Mutex
	byID map[string]entity.Account
}

// NewAccounts crea el repositorio con las cuentas dadas.
func NewAccounts(seed ...*entity.Account) *Accounts {
	r := &Accounts{byID: make(map[string]entity.Account)}
	for _, a := range seed {
		r.byID[a.ID] = *a
	}
	return r
}

func (r *Accounts) Create(_ context.Context, a *entity.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	for _, existing := range r.byID {
		if existing.Email == a.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	r.byID[a.ID] = *a
	return nil
}

func (r *Accounts) GetByID(_ context.Context, id string) (*entity.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r *Accounts) GetByEmail(_ context.Context, email string) (*entity.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.byID {
		if a.Email == entity.NormalizeEmail(email) {
			return &a, nil
		}
	}
	return nil, nil
}

func (r *Accounts) GetByProvider(_ context.Context, provider, externalID string) (*entity.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.byID {
		if a.Credential.Provider == provider && a.Credential.ExternalID == externalID {
			return &a, nil
		}
	}
	return nil, nil
}

func (r *Accounts) Update(_ context.Context, a *entity.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[a.ID]; !ok {
		return domain.ErrNotFound
	}
	r.byID[a.ID] = *a
	return nil
}

// Remove simula el borrado concurrente de una cuenta.
func (r *Accounts) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
}

// Invoices repositorio de facturas en memoria con el índice único (owner, número).
// También implementa ReportRepository sobre los mismos datos.
type Invoices struct {
	mu   sync.Mutex
	rows []entity.Invoice

	// CreateErr, si no es nil, se devuelve en Create sin persistir.
	CreateErr error
	// ExistsHook se ejecuta tras el pre-chequeo de duplicados; permite forzar carreras.
	ExistsHook func()
}

// NewInvoices crea el repositorio con las facturas dadas.
func NewInvoices(seed ...*entity.Invoice) *Invoices {
	r := &Invoices{}
	for _, inv := range seed {
		r.rows = append(r.rows, *inv)
	}
	return r
}

func (r *Invoices) ExistsByNumber(_ context.Context, ownerID, number string) (bool, error) {
	r.mu.Lock()
	exists := r.indexOf(func(i *entity.Invoice) bool {
		return i.OwnerID == ownerID && i.InvoiceNumber == number
	}) >= 0
	hook := r.ExistsHook
	r.mu.Unlock()
	if hook != nil {
		hook()
	}
	return exists, nil
}

func (r *Invoices) Create(_ context.Context, inv *entity.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.CreateErr != nil {
		return r.CreateErr
	}
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	if r.indexOf(func(i *entity.Invoice) bool {
		return i.OwnerID == inv.OwnerID && i.InvoiceNumber == inv.InvoiceNumber
	}) >= 0 {
		return domain.ErrDuplicateInvoiceNumber
	}
	r.rows = append(r.rows, *inv)
	return nil
}

func (r *Invoices) GetByNumber(_ context.Context, ownerID, number string) (*entity.Invoice, error) {
	return r.find(func(i *entity.Invoice) bool { return i.OwnerID == ownerID && i.InvoiceNumber == number }), nil
}

func (r *Invoices) GetByID(_ context.Context, ownerID, id string) (*entity.Invoice, error) {
	return r.find(func(i *entity.Invoice) bool { return i.OwnerID == ownerID && i.ID == id }), nil
}

func (r *Invoices) ListRecent(_ context.Context, ownerID string, limit int) ([]*entity.Invoice, error) {
	list := r.owned(ownerID, func(a, b *entity.Invoice) bool { return a.CreatedAt.After(b.CreatedAt) })
	return head(list, limit), nil
}

func (r *Invoices) List(_ context.Context, ownerID string, limit, offset int) ([]*entity.Invoice, int64, error) {
	list := r.owned(ownerID, func(a, b *entity.Invoice) bool { return a.CreatedAt.After(b.CreatedAt) })
	total := int64(len(list))
	if offset >= len(list) {
		return []*entity.Invoice{}, total, nil
	}
	return head(list[offset:], limit), total, nil
}

func (r *Invoices) MarkPaid(_ context.Context, ownerID, id string, at time.Time) (*entity.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := r.indexOf(func(i *entity.Invoice) bool { return i.OwnerID == ownerID && i.ID == id })
	if idx < 0 {
		return nil, nil
	}
	r.rows[idx].Status = entity.InvoiceStatusPaid
	r.rows[idx].UpdatedAt = at
	out := r.rows[idx]
	return &out, nil
}

func (r *Invoices) Delete(_ context.Context, ownerID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := r.indexOf(func(i *entity.Invoice) bool { return i.OwnerID == ownerID && i.ID == id })
	if idx < 0 {
		return domain.ErrNotFound
	}
	r.rows = append(r.rows[:idx], r.rows[idx+1:]...)
	return nil
}

func (r *Invoices) Stats(_ context.Context, ownerID string) (report.Stats, error) {
	return report.Summarize(r.owned(ownerID, nil)), nil
}

func (r *Invoices) PaidBetween(_ context.Context, ownerID string, from, to time.Time) ([]report.RevenueEntry, error) {
	var out []report.RevenueEntry
	for _, inv := range r.owned(ownerID, nil) {
		if inv.Status != entity.InvoiceStatusPaid || inv.IssuedDate.Before(from) || inv.IssuedDate.After(to) {
			continue
		}
		out = append(out, report.RevenueEntry{IssuedDate: inv.IssuedDate, TotalGross: inv.Financials.TotalGross})
	}
	return out, nil
}

func (r *Invoices) RecentActivity(_ context.Context, ownerID string, limit int) ([]*entity.Invoice, error) {
	list := r.owned(ownerID, func(a, b *entity.Invoice) bool { return a.UpdatedAt.After(b.UpdatedAt) })
	return head(list, limit), nil
}

// Count total de facturas guardadas (todas las cuentas).
func (r *Invoices) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

func (r *Invoices) find(match func(*entity.Invoice) bool) *entity.Invoice {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := r.indexOf(match)
	if idx < 0 {
		return nil
	}
	out := r.rows[idx]
	return &out
}

// indexOf requiere r.mu tomado.
func (r *Invoices) indexOf(match func(*entity.Invoice) bool) int {
	for i := range r.rows {
		if match(&r.rows[i]) {
			return i
		}
	}
	return -1
}

func (r *Invoices) owned(ownerID string, less func(a, b *entity.Invoice) bool) []*entity.Invoice {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Invoice, 0)
	for i := range r.rows {
		if r.rows[i].OwnerID == ownerID {
			cp := r.rows[i]
			out = append(out, &cp)
		}
	}
	if less != nil {
		sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	}
	return out
}

func head(list []*entity.Invoice, n int) []*entity.Invoice {
	if n >= 0 && len(list) > n {
		return list[:n]
	}
	return list
}
