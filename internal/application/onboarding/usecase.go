package onboarding

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"strings"
	"time"

	"github.com/jhoicas/invoicegen-api/internal/application/auth"
	"github.com/jhoicas/invoicegen-api/internal/application/dto"
	"github.com/jhoicas/invoicegen-api/internal/domain"
	"github.com/jhoicas/invoicegen-api/internal/domain/entity"
	"github.com/jhoicas/invoicegen-api/internal/domain/repository"
)

// Upload archivo de firma recibido en el formulario.
type Upload struct {
	Filename    string
	ContentType string
	Reader      io.Reader
}

// SignatureStore guarda la imagen de firma y devuelve su URL pública.
// Remove borra una firma guardada antes; una URL desconocida no es error.
type SignatureStore interface {
	Save(ctx context.Context, up Upload) (string, error)
	Remove(ctx context.Context, url string) error
}

// OnboardingUseCase completa el perfil de empresa de una cuenta.
type OnboardingUseCase struct {
	accounts   repository.AccountRepository
	signatures SignatureStore
	now        func() time.Time
}

// NewOnboardingUseCase construye el caso de uso.
func NewOnboardingUseCase(accounts repository.AccountRepository, signatures SignatureStore) *OnboardingUseCase {
	return &OnboardingUseCase{accounts: accounts, signatures: signatures, now: time.Now}
}

// Complete guarda el perfil y marca la cuenta como onboarded. Re-ejecutarlo sobrescribe
// y borra la firma anterior. Si la cuenta no se puede actualizar, la firma recién
// guardada se borra.
func (uc *OnboardingUseCase) Complete(ctx context.Context, actx *auth.AuthContext, in dto.OnboardRequest, signature *Upload) (*dto.OnboardResponse, error) {
	if err := validateProfile(in); err != nil {
		return nil, err
	}
	if signature != nil && !IsImage(signature.ContentType) {
		return nil, domain.ErrUnsupportedMediaType
	}

	acc, err := uc.accounts.GetByID(ctx, actx.AccountID())
	if err != nil {
		return nil, fmt.Errorf("onboarding: cargar cuenta: %w", err)
	}
	if acc == nil {
		return nil, domain.ErrAccountNotFound
	}

	var signatureURL string
	if signature != nil {
		if signatureURL, err = uc.signatures.Save(ctx, *signature); err != nil {
			return nil, fmt.Errorf("onboarding: guardar firma: %w", err)
		}
	}

	previousURL := acc.SignatureURL
	acc.ApplyProfile(entity.Profile{
		CompanyName:   strings.TrimSpace(in.CompanyName),
		Address:       strings.TrimSpace(in.Address),
		Phone:         strings.TrimSpace(in.Phone),
		Currency:      strings.ToUpper(strings.TrimSpace(in.Currency)),
		TaxRate:       in.TaxRate,
		BankName:      strings.TrimSpace(in.BankName),
		AccountNumber: strings.TrimSpace(in.AccountNumber),
		AccountName:   strings.TrimSpace(in.AccountName),
		SignatureURL:  signatureURL,
	}, uc.now())

	if err := uc.accounts.Update(ctx, acc); err != nil {
		if signatureURL != "" {
			_ = uc.signatures.Remove(ctx, signatureURL)
		}
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("onboarding: actualizar cuenta: %w", err)
	}
	if previousURL != "" && previousURL != signatureURL {
		// Un fallo aquí deja el archivo viejo en disco; el perfil ya está guardado.
		_ = uc.signatures.Remove(ctx, previousURL)
	}
	return &dto.OnboardResponse{Message: "perfil completado", User: auth.ToAccountResponse(acc)}, nil
}

// Profile datos del emisor tal como aparecerán en las facturas.
func (uc *OnboardingUseCase) Profile(_ context.Context, actx *auth.AuthContext) *dto.ProfileReviewResponse {
	acc := actx.Account
	return &dto.ProfileReviewResponse{User: dto.ProfileReview{
		CompanyName: acc.CompanyName,
		Address:     acc.Address,
		Phone:       acc.Phone,
	}}
}

// IsImage acepta solo tipos image/*.
func IsImage(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return strings.HasPrefix(mediaType, "image/")
}

func validateProfile(in dto.OnboardRequest) error {
	v := &domain.ValidationError{}
	if strings.TrimSpace(in.CompanyName) == "" {
		v.Add("companyName", "el nombre de la empresa es obligatorio")
	}
	if strings.TrimSpace(in.Address) == "" {
		v.Add("address", "la dirección es obligatoria")
	}
	if strings.TrimSpace(in.Phone) == "" {
		v.Add("phone", "el teléfono es obligatorio")
	}
	if in.TaxRate != nil && in.TaxRate.IsNegative() {
		v.Add("taxRate", "la tasa de impuesto no puede ser negativa")
	}
	return v.OrNil()
}
