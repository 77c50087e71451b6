package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/invoicegen-api/internal/domain"
	"github.com/jhoicas/invoicegen-api/internal/domain/entity"
	"github.com/jhoicas/invoicegen-api/internal/domain/repository"
)

var _ repository.AccountRepository = (*AccountRepo)(nil)

const accountColumns = `
	id, name, email, password_hash, provider, external_id, is_verified, is_onboarded,
	company_name, address, phone, currency, tax_rate, bank_name, account_number, account_name,
	signature_url, created_at, updated_at`

// AccountRepo implementación del puerto AccountRepository sobre PostgreSQL.
type AccountRepo struct {
	q Querier
}

// NewAccountRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAccountRepository(q Querier) *AccountRepo {
	return &AccountRepo{q: q}
}

// Create persiste una cuenta nueva. Email duplicado -> domain.ErrEmailAlreadyExists.
func (r *AccountRepo) Create(ctx context.Context, a *entity.Account) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`
	_, err := r.q.Exec(ctx, query,
		a.ID, a.Name, a.Email,
		nullIfEmpty(a.Credential.PasswordHash), nullIfEmpty(a.Credential.Provider), nullIfEmpty(a.Credential.ExternalID),
		a.IsVerified, a.IsOnboarded,
		a.CompanyName, a.Address, a.Phone, a.Currency, a.TaxRate,
		a.BankName, a.AccountNumber, a.AccountName, a.SignatureURL,
		a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

// GetByID obtiene una cuenta por ID. IDs que no son UUID se tratan como inexistentes.
func (r *AccountRepo) GetByID(ctx context.Context, id string) (*entity.Account, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	return r.findOne(ctx, "id = $1", id)
}

// GetByEmail obtiene una cuenta por email normalizado.
func (r *AccountRepo) GetByEmail(ctx context.Context, email string) (*entity.Account, error) {
	return r.findOne(ctx, "email = $1", entity.NormalizeEmail(email))
}

// GetByProvider obtiene la cuenta vinculada a una identidad externa.
func (r *AccountRepo) GetByProvider(ctx context.Context, provider, externalID string) (*entity.Account, error) {
	return r.findOne(ctx, "provider = $1 AND external_id = $2", provider, externalID)
}

// Update reescribe credencial, verificación y perfil.
func (r *AccountRepo) Update(ctx context.Context, a *entity.Account) error {
	query := `
		UPDATE accounts
		SET name = $2, password_hash = $3, provider = $4, external_id = $5,
		    is_verified = $6, is_onboarded = $7,
		    company_name = $8, address = $9, phone = $10, currency = $11, tax_rate = $12,
		    bank_name = $13, account_number = $14, account_name = $15, signature_url = $16,
		    updated_at = $17
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		a.ID, a.Name,
		nullIfEmpty(a.Credential.PasswordHash), nullIfEmpty(a.Credential.Provider), nullIfEmpty(a.Credential.ExternalID),
		a.IsVerified, a.IsOnboarded,
		a.CompanyName, a.Address, a.Phone, a.Currency, a.TaxRate,
		a.BankName, a.AccountNumber, a.AccountName, a.SignatureURL,
		a.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("update account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *AccountRepo) findOne(ctx context.Context, where string, args ...any) (*entity.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE ` + where
	var (
		a                                  entity.Account
		passwordHash, provider, externalID *string
	)
	err := r.q.QueryRow(ctx, query, args...).Scan(
		&a.ID, &a.Name, &a.Email, &passwordHash, &provider, &externalID,
		&a.IsVerified, &a.IsOnboarded,
		&a.CompanyName, &a.Address, &a.Phone, &a.Currency, &a.TaxRate,
		&a.BankName, &a.AccountNumber, &a.AccountName, &a.SignatureURL,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	a.Credential = entity.Credential{
		PasswordHash: derefStr(passwordHash),
		Provider:     derefStr(provider),
		ExternalID:   derefStr(externalID),
	}
	return &a, nil
}
