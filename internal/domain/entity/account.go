package entity

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ProviderGoogle identificador del proveedor de identidad federada soportado.
const ProviderGoogle = "google"

// DefaultCurrency moneda por defecto de una cuenta nueva.
const DefaultCurrency = "NGN"

// CredentialKind forma de la credencial de una cuenta.
type CredentialKind int

const (
	CredentialNone CredentialKind = iota
	CredentialPassword
	CredentialFederated
	CredentialBoth // cuenta con password vinculada después a un proveedor
)

var errCredentialShape = errors.New("credencial: debe existir exactamente un método al crear la cuenta")

// Credential unión etiquetada: hash de password, referencia a proveedor externo, o ambos tras vincular.
type Credential struct {
	PasswordHash string
	Provider     string
	ExternalID   string
}

// NewPasswordCredential credencial basada en password (hash bcrypt).
func NewPasswordCredential(hash string) Credential {
	return Credential{PasswordHash: hash}
}

// NewFederatedCredential credencial de un proveedor externo.
func NewFederatedCredential(provider, externalID string) Credential {
	return Credential{Provider: provider, ExternalID: externalID}
}

// Kind deriva la etiqueta de la unión.
func (c Credential) Kind() CredentialKind {
	hasPassword := c.PasswordHash != ""
	hasProvider := c.Provider != "" && c.ExternalID != ""
	switch {
	case hasPassword && hasProvider:
		return CredentialBoth
	case hasPassword:
		return CredentialPassword
	case hasProvider:
		return CredentialFederated
	default:
		return CredentialNone
	}
}

// HasPassword indica si la cuenta puede autenticarse con password.
func (c Credential) HasPassword() bool { return c.PasswordHash != "" }

// Link añade la referencia del proveedor conservando el password existente.
func (c Credential) Link(provider, externalID string) Credential {
	c.Provider = provider
	c.ExternalID = externalID
	return c
}

// ValidForCreation exige exactamente una forma al momento de crear la cuenta.
func (c Credential) ValidForCreation() error {
	switch c.Kind() {
	case CredentialPassword, CredentialFederated:
		return nil
	default:
		return errCredentialShape
	}
}

// Account representa un usuario registrado (tenant dueño de sus facturas).
type Account struct {
	ID          string
	Name        string
	Email       string
	Credential  Credential
	IsVerified  bool
	IsOnboarded bool

	// Perfil de empresa (onboarding)
	CompanyName   string
	Address       string
	Phone         string
	Currency      string
	TaxRate       decimal.Decimal
	BankName      string
	AccountNumber string
	AccountName   string
	SignatureURL  string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NormalizeEmail aplica la normalización usada para la unicidad del email.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Profile campos que completa el onboarding.
type Profile struct {
	CompanyName   string
	Address       string
	Phone         string
	Currency      string
	TaxRate       *decimal.Decimal // nil conserva la tasa actual
	BankName      string
	AccountNumber string
	AccountName   string
	SignatureURL  string
}

// ApplyProfile sobrescribe el perfil y abre la puerta del onboarding.
// Campos opcionales vacíos conservan el valor actual, salvo la firma que se reemplaza siempre.
func (a *Account) ApplyProfile(p Profile, now time.Time) {
	a.CompanyName = p.CompanyName
	a.Address = p.Address
	a.Phone = p.Phone
	if p.Currency != "" {
		a.Currency = p.Currency
	}
	if p.TaxRate != nil {
		a.TaxRate = *p.TaxRate
	}
	if p.BankName != "" {
		a.BankName = p.BankName
	}
	if p.AccountNumber != "" {
		a.AccountNumber = p.AccountNumber
	}
	if p.AccountName != "" {
		a.AccountName = p.AccountName
	}
	a.SignatureURL = p.SignatureURL
	a.IsOnboarded = true
	a.UpdatedAt = now
}
