package repository

import (
	"context"

	"github.com/jhoicas/invoicegen-api/internal/domain/entity"
)

// AccountRepository define el puerto de persistencia para Account (DIP).
// Los Get* devuelven (nil, nil) cuando no hay coincidencia.
type AccountRepository interface {
	Create(ctx context.Context, account *entity.Account) error
	GetByID(ctx context.Context, id string) (*entity.Account, error)
	GetByEmail(ctx context.Context, email string) (*entity.Account, error)
	GetByProvider(ctx context.Context, provider, externalID string) (*entity.Account, error)
	// Update reescribe credencial, verificación y perfil. domain.ErrNotFound si la cuenta no existe.
	Update(ctx context.Context, account *entity.Account) error
}
