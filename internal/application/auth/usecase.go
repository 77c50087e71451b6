package auth

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/invoicegen-api/internal/application/dto"
	"github.com/jhoicas/invoicegen-api/internal/domain"
	"github.com/jhoicas/invoicegen-api/internal/domain/entity"
	"github.com/jhoicas/invoicegen-api/internal/domain/repository"
	"github.com/jhoicas/invoicegen-api/pkg/jwt"
)

// DefaultBcryptCost costo de bcrypt para passwords nuevos.
const DefaultBcryptCost = 12

// ErrVerificationResent la cuenta existe sin verificar; se reenvió el correo.
var ErrVerificationResent = fmt.Errorf("%w: revisa tu correo para verificar la cuenta (reenviado)", domain.ErrEmailAlreadyExists)

// ErrFederatedDisabled el login con Google no está configurado.
var ErrFederatedDisabled = errors.New("login federado no configurado")

// Config configuración de tokens y enlaces.
type Config struct {
	Secret          string
	Issuer          string
	SessionTTL      time.Duration // por defecto 24h
	VerificationTTL time.Duration // por defecto 1h
	StateTTL        time.Duration // por defecto 10m
	BaseURL         string        // base del enlace de verificación
	BcryptCost      int
}

// AuthUseCase casos de uso de identidad: registro, verificación, login y autenticación de peticiones.
type AuthUseCase struct {
	accounts repository.AccountRepository
	mailer   Mailer
	idp      IdentityProvider
	cfg      Config
	now      func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth. idp puede ser nil si Google no está configurado.
func NewAuthUseCase(accounts repository.AccountRepository, mailer Mailer, idp IdentityProvider, cfg Config) *AuthUseCase {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 24 * time.Hour
	}
	if cfg.VerificationTTL <= 0 {
		cfg.VerificationTTL = time.Hour
	}
	if cfg.StateTTL <= 0 {
		cfg.StateTTL = 10 * time.Minute
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = DefaultBcryptCost
	}
	return &AuthUseCase{accounts: accounts, mailer: mailer, idp: idp, cfg: cfg, now: time.Now}
}

// Authenticate resuelve el token bearer a la cuenta dueña de la petición.
// Vacío -> ErrUnauthenticated; firma inválida o expirada -> ErrInvalidCredential;
// cuenta inexistente -> ErrAccountNotFound.
func (uc *AuthUseCase) Authenticate(ctx context.Context, bearer string) (*AuthContext, error) {
	token := strings.TrimSpace(bearer)
	if token == "" {
		return nil, domain.ErrUnauthenticated
	}
	claims, err := jwt.Parse(uc.cfg.Secret, token)
	if err != nil {
		return nil, domain.ErrInvalidCredential
	}
	acc, err := uc.accounts.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("auth: cargar cuenta: %w", err)
	}
	if acc == nil {
		return nil, domain.ErrAccountNotFound
	}
	return &AuthContext{Account: acc, Claims: claims}, nil
}

// Signup crea una cuenta sin verificar y envía el enlace de verificación.
func (uc *AuthUseCase) Signup(ctx context.Context, in dto.SignupRequest) (*dto.MessageResponse, error) {
	if err := validateSignup(in); err != nil {
		return nil, err
	}
	email := entity.NormalizeEmail(in.Email)
	existing, err := uc.accounts.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("auth: buscar email: %w", err)
	}
	if existing != nil {
		if existing.IsVerified {
			return nil, domain.ErrEmailAlreadyExists
		}
		if err := uc.sendVerification(ctx, existing); err != nil {
			return nil, err
		}
		return nil, ErrVerificationResent
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), uc.cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("auth: hash password: %w", err)
	}
	now := uc.now()
	acc := &entity.Account{
		ID:         uuid.New().String(),
		Name:       strings.TrimSpace(in.Name),
		Email:      email,
		Credential: entity.NewPasswordCredential(string(hash)),
		Currency:   entity.DefaultCurrency,
		TaxRate:    decimal.Zero,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := acc.Credential.ValidForCreation(); err != nil {
		return nil, err
	}
	if err := uc.accounts.Create(ctx, acc); err != nil {
		return nil, err
	}
	if err := uc.sendVerification(ctx, acc); err != nil {
		return nil, err
	}
	return &dto.MessageResponse{Message: "registro exitoso: revisa tu correo para verificar la cuenta"}, nil
}

// VerifyEmail marca la cuenta del token como verificada. Repetirlo no falla.
func (uc *AuthUseCase) VerifyEmail(ctx context.Context, token string) (*dto.MessageResponse, error) {
	claims, err := jwt.ParsePurpose(uc.cfg.Secret, token, jwt.PurposeEmailVerification)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}
	acc, err := uc.accounts.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("auth: cargar cuenta: %w", err)
	}
	if acc == nil {
		return nil, domain.ErrInvalidToken
	}
	if !acc.IsVerified {
		acc.IsVerified = true
		acc.UpdatedAt = uc.now()
		if err := uc.accounts.Update(ctx, acc); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, domain.ErrInvalidToken
			}
			return nil, fmt.Errorf("auth: verificar cuenta: %w", err)
		}
	}
	return &dto.MessageResponse{Message: "email verificado correctamente"}, nil
}

// Login verifica email/password y emite el token de sesión.
// Email desconocido, cuenta sin password y password incorrecto responden igual.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	if err := validateLogin(in); err != nil {
		return nil, err
	}
	acc, err := uc.accounts.GetByEmail(ctx, entity.NormalizeEmail(in.Email))
	if err != nil {
		return nil, fmt.Errorf("auth: buscar email: %w", err)
	}
	if acc == nil || !acc.Credential.HasPassword() {
		return nil, domain.ErrInvalidLogin
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acc.Credential.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrInvalidLogin
	}
	token, err := uc.issueSession(acc)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Message: "login exitoso", Token: token, User: ToAccountResponse(acc)}, nil
}

// FederatedLoginURL URL de consentimiento del proveedor con un state firmado de vida corta.
func (uc *AuthUseCase) FederatedLoginURL() (string, error) {
	if uc.idp == nil {
		return "", ErrFederatedDisabled
	}
	state, err := jwt.GenerateWithPurpose(uc.cfg.Secret, uc.cfg.Issuer, jwt.PurposeOAuthState, uuid.New().String(), uc.cfg.StateTTL)
	if err != nil {
		return "", fmt.Errorf("auth: generar state: %w", err)
	}
	return uc.idp.AuthCodeURL(state), nil
}

// FederatedCallback valida el state, canjea el código y resuelve la cuenta:
// por identidad externa, luego por email (vinculando y verificando), o creando una cuenta verificada.
func (uc *AuthUseCase) FederatedCallback(ctx context.Context, code, state string) (*dto.FederatedLoginResult, error) {
	if uc.idp == nil {
		return nil, ErrFederatedDisabled
	}
	if _, err := jwt.ParsePurpose(uc.cfg.Secret, state, jwt.PurposeOAuthState); err != nil {
		return nil, domain.ErrInvalidToken
	}
	if strings.TrimSpace(code) == "" {
		return nil, domain.ErrInvalidToken
	}
	ident, err := uc.idp.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("auth: intercambio OAuth: %w", err)
	}
	email := entity.NormalizeEmail(ident.Email)
	if ident.ExternalID == "" || email == "" {
		return nil, domain.ErrInvalidToken
	}

	acc, err := uc.accounts.GetByProvider(ctx, ident.Provider, ident.ExternalID)
	if err != nil {
		return nil, fmt.Errorf("auth: buscar por proveedor: %w", err)
	}
	if acc == nil {
		if acc, err = uc.accounts.GetByEmail(ctx, email); err != nil {
			return nil, fmt.Errorf("auth: buscar email: %w", err)
		}
	}

	now := uc.now()
	switch {
	case acc == nil:
		name := strings.TrimSpace(ident.Name)
		if name == "" {
			name = email
		}
		acc = &entity.Account{
			ID:         uuid.New().String(),
			Name:       name,
			Email:      email,
			Credential: entity.NewFederatedCredential(ident.Provider, ident.ExternalID),
			IsVerified: true,
			Currency:   entity.DefaultCurrency,
			TaxRate:    decimal.Zero,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := uc.accounts.Create(ctx, acc); err != nil {
			return nil, err
		}
	case acc.Credential.ExternalID != ident.ExternalID || !acc.IsVerified:
		acc.Credential = acc.Credential.Link(ident.Provider, ident.ExternalID)
		acc.IsVerified = true
		acc.UpdatedAt = now
		if err := uc.accounts.Update(ctx, acc); err != nil {
			return nil, fmt.Errorf("auth: vincular proveedor: %w", err)
		}
	}

	token, err := uc.issueSession(acc)
	if err != nil {
		return nil, err
	}
	return &dto.FederatedLoginResult{Token: token, User: ToAccountResponse(acc)}, nil
}

// VerificationLink enlace público que verifica la cuenta.
func (uc *AuthUseCase) VerificationLink(token string) string {
	return strings.TrimRight(uc.cfg.BaseURL, "/") + "/api/auth/verify-email/" + url.PathEscape(token)
}

func (uc *AuthUseCase) sendVerification(ctx context.Context, acc *entity.Account) error {
	token, err := jwt.GenerateWithPurpose(uc.cfg.Secret, uc.cfg.Issuer, jwt.PurposeEmailVerification, acc.ID, uc.cfg.VerificationTTL)
	if err != nil {
		return fmt.Errorf("auth: token de verificación: %w", err)
	}
	if err := uc.mailer.SendVerification(ctx, acc.Email, acc.Name, uc.VerificationLink(token)); err != nil {
		return fmt.Errorf("auth: enviar verificación: %w", err)
	}
	return nil
}

func (uc *AuthUseCase) issueSession(acc *entity.Account) (string, error) {
	token, err := jwt.Generate(uc.cfg.Secret, uc.cfg.Issuer, jwt.Identity{
		UserID:      acc.ID,
		Name:        acc.Name,
		Email:       acc.Email,
		CompanyName: acc.CompanyName,
		IsOnboarded: acc.IsOnboarded,
	}, uc.cfg.SessionTTL)
	if err != nil {
		return "", fmt.Errorf("auth: emitir sesión: %w", err)
	}
	return token, nil
}

// ToAccountResponse proyecta la cuenta sin credenciales.
func ToAccountResponse(a *entity.Account) dto.AccountResponse {
	return dto.AccountResponse{
		ID:           a.ID,
		Name:         a.Name,
		Email:        a.Email,
		IsVerified:   a.IsVerified,
		IsOnboarded:  a.IsOnboarded,
		CompanyName:  a.CompanyName,
		Address:      a.Address,
		Phone:        a.Phone,
		SignatureURL: a.SignatureURL,
		CreatedAt:    a.CreatedAt,
	}
}
