// Package oauth proveedor de identidad federada (Google, OAuth 2.0 / OpenID Connect).
package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/jhoicas/invoicegen-api/internal/application/auth"
	"github.com/jhoicas/invoicegen-api/internal/domain/entity"
	"github.com/jhoicas/invoicegen-api/pkg/config"
)

// GoogleUserInfoURL endpoint OIDC con el perfil del usuario autenticado.
const GoogleUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"

var _ auth.IdentityProvider = (*GoogleProvider)(nil)

// GoogleProvider implementa auth.IdentityProvider con golang.org/x/oauth2.
type GoogleProvider struct {
	conf        *oauth2.Config
	userInfoURL string
}

// NewGoogleProvider construye el proveedor desde la configuración.
func NewGoogleProvider(cfg config.GoogleConfig) *GoogleProvider {
	return NewGoogleProviderWithEndpoint(cfg, google.Endpoint, GoogleUserInfoURL)
}

// NewGoogleProviderWithEndpoint permite apuntar a otros endpoints (pruebas).
func NewGoogleProviderWithEndpoint(cfg config.GoogleConfig, endpoint oauth2.Endpoint, userInfoURL string) *GoogleProvider {
	return &GoogleProvider{
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.CallbackURL,
			Scopes:       []string{"openid", "profile", "email"},
			Endpoint:     endpoint,
		},
		userInfoURL: userInfoURL,
	}
}

// AuthCodeURL URL de consentimiento con el state firmado por la capa de auth.
func (p *GoogleProvider) AuthCodeURL(state string) string {
	return p.conf.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

type userInfo struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
}

// Exchange canjea el código y lee el perfil. Exige email verificado por Google.
func (p *GoogleProvider) Exchange(ctx context.Context, code string) (*auth.FederatedIdentity, error) {
	tok, err := p.conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("oauth: canjear código: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("oauth: preparar userinfo: %w", err)
	}
	resp, err := p.conf.Client(ctx, tok).Do(req)
	if err != nil {
		return nil, fmt.Errorf("oauth: userinfo: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("oauth: userinfo respondió %d", resp.StatusCode)
	}

	var info userInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("oauth: decodificar userinfo: %w", err)
	}
	if info.Sub == "" || strings.TrimSpace(info.Email) == "" {
		return nil, fmt.Errorf("oauth: perfil sin sub o email")
	}
	if !info.EmailVerified {
		return nil, fmt.Errorf("oauth: email de Google no verificado")
	}
	return &auth.FederatedIdentity{
		Provider:   entity.ProviderGoogle,
		ExternalID: info.Sub,
		Email:      info.Email,
		Name:       info.Name,
	}, nil
}
