package http_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/invoicegen-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_SinHeader_401(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/", "", nil)

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHENTICATED", errorCode(t, resp))
}

func TestAuthMiddleware_EsquemaNoBearer_401(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Basic "+tokenFor(t, accountA))
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_TokenInvalido_403(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/", "esto.no.es.un.jwt", nil)

	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "INVALID_TOKEN", errorCode(t, resp))
}

func TestAuthMiddleware_FirmaDeOtroSecreto_403(t *testing.T) {
	env := newTestEnv(t)
	tok, err := pkgjwt.Generate("otro-secreto", testIssuer, pkgjwt.Identity{UserID: accountA}, time.Hour)
	require.NoError(t, err)

	resp := env.do(t, http.MethodGet, "/", tok, nil)

	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestAuthMiddleware_TokenExpirado_403(t *testing.T) {
	env := newTestEnv(t)
	tok, err := pkgjwt.Generate(testJWTSecret, testIssuer, pkgjwt.Identity{UserID: accountA}, -time.Minute)
	require.NoError(t, err)

	resp := env.do(t, http.MethodGet, "/", tok, nil)

	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestAuthMiddleware_TokenDeVerificacion_403(t *testing.T) {
	env := newTestEnv(t)
	tok, err := pkgjwt.GenerateWithPurpose(testJWTSecret, testIssuer, pkgjwt.PurposeEmailVerification, accountA, time.Hour)
	require.NoError(t, err)

	resp := env.do(t, http.MethodGet, "/", tok, nil)

	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode, "un token de verificación no abre sesión")
}

func TestAuthMiddleware_CuentaEliminada_401(t *testing.T) {
	env := newTestEnv(t)
	tok := tokenFor(t, accountA)
	env.accounts.Remove(accountA)

	resp := env.do(t, http.MethodGet, "/", tok, nil)

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "ACCOUNT_NOT_FOUND", errorCode(t, resp))
}

func TestAuthMiddleware_TokenValido_200(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/", tokenFor(t, accountA), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "Invoice Generator API is running", string(body))
}

func TestAuthMiddleware_RutaPublicaSinToken(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "nadie@example.com", "password": "secret123",
	})

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_LOGIN", errorCode(t, resp), "la ruta pública llega al handler")
}
