package auth

//go:generate mockgen -source=ports.go -destination=../../mocks/auth_ports_mock.go -package=mocks

import "context"

// Mailer envía el correo con el enlace de verificación.
type Mailer interface {
	SendVerification(ctx context.Context, to, name, link string) error
}

// FederatedIdentity identidad devuelta por el proveedor externo tras el intercambio del código.
type FederatedIdentity struct {
	Provider   string
	ExternalID string
	Email      string
	Name       string
}

// IdentityProvider proveedor OAuth2 (Google).
type IdentityProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*FederatedIdentity, error)
}
