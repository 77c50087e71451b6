package auth

import (
	"github.com/jhoicas/invoicegen-api/internal/domain/entity"
	"github.com/jhoicas/invoicegen-api/pkg/jwt"
)

// AuthContext identidad autenticada de la petición. Los handlers la pasan explícitamente
// a cada caso de uso; ningún caso de uso la lee de estado ambiental.
type AuthContext struct {
	Account *entity.Account
	Claims  *jwt.Claims
}

// AccountID dueño de los recursos de la petición.
func (a *AuthContext) AccountID() string {
	if a == nil || a.Account == nil {
		return ""
	}
	return a.Account.ID
}
