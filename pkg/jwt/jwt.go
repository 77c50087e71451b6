package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Propósitos de token. Un token emitido para un propósito no es válido para otro.
const (
	PurposeSession           = "session"
	PurposeEmailVerification = "verify_email"
	PurposeOAuthState        = "oauth_state"
)

// ErrWrongPurpose se devuelve cuando el token es válido pero fue emitido para otro uso.
var ErrWrongPurpose = errors.New("jwt: propósito de token incorrecto")

// Claims incluye los claims estándar JWT más la identidad de la cuenta.
// Los nombres JSON siguen el contrato del frontend: {id, name, email, companyName, isOnboarded}.
type Claims struct {
	jwt.RegisteredClaims
	UserID      string `json:"id"`
	Name        string `json:"name,omitempty"`
	Email       string `json:"email,omitempty"`
	CompanyName string `json:"companyName,omitempty"`
	IsOnboarded bool   `json:"isOnboarded"`
	Purpose     string `json:"purpose"`
}

// Identity datos de la cuenta que viajan en el token de sesión.
type Identity struct {
	UserID      string
	Name        string
	Email       string
	CompanyName string
	IsOnboarded bool
}

// Generate genera el token de sesión firmado (HS256) para la identidad dada.
func Generate(secret, issuer string, id Identity, ttl time.Duration) (string, error) {
	return sign(secret, Claims{
		RegisteredClaims: registered(issuer, id.UserID, ttl),
		UserID:           id.UserID,
		Name:             id.Name,
		Email:            id.Email,
		CompanyName:      id.CompanyName,
		IsOnboarded:      id.IsOnboarded,
		Purpose:          PurposeSession,
	})
}

// GenerateWithPurpose emite un token de un solo uso (verificación de email, estado OAuth).
// subject suele ser el ID de la cuenta o un nonce.
func GenerateWithPurpose(secret, issuer, purpose, subject string, ttl time.Duration) (string, error) {
	return sign(secret, Claims{
		RegisteredClaims: registered(issuer, subject, ttl),
		UserID:           subject,
		Purpose:          purpose,
	})
}

// Parse valida un token de sesión y devuelve sus claims.
// Retorna error si el token es inválido, expirado, tiene firma incorrecta o es de otro propósito.
func Parse(secret, tokenString string) (*Claims, error) {
	return ParsePurpose(secret, tokenString, PurposeSession)
}

// ParsePurpose valida el token y exige el propósito indicado.
func ParsePurpose(secret, tokenString, purpose string) (*Claims, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("claims inválidos")
	}
	if claims.Purpose != purpose {
		return nil, ErrWrongPurpose
	}
	return claims, nil
}

func registered(issuer, subject string, ttl time.Duration) jwt.RegisteredClaims {
	now := time.Now()
	return jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
}

func sign(secret string, claims Claims) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
