package jwt_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/invoicegen-api/pkg/jwt"
)

const (
	testSecret = "test-secret-key-for-unit-tests"
	testIssuer = "invoicegen-test"
)

func testIdentity() pkgjwt.Identity {
	return pkgjwt.Identity{
		UserID:      "00000000-0000-0000-0000-000000000001",
		Name:        "Ada",
		Email:       "ada@example.com",
		CompanyName: "Ada Labs",
		IsOnboarded: true,
	}
}

func TestGenerateAndParse_Session(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, testIssuer, testIdentity(), time.Hour)
	require.NoError(t, err)

	claims, err := pkgjwt.Parse(testSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, "00000000-0000-0000-0000-000000000001", claims.UserID)
	assert.Equal(t, "Ada", claims.Name)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.Equal(t, "Ada Labs", claims.CompanyName)
	assert.True(t, claims.IsOnboarded)
	assert.Equal(t, testIssuer, claims.Issuer)
}

func TestParse_TokenExpirado(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, testIssuer, testIdentity(), -time.Minute)
	require.NoError(t, err)

	_, err = pkgjwt.Parse(testSecret, tok)
	assert.Error(t, err, "token expirado debe retornar error")
}

func TestParse_SecretIncorrecto(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, testIssuer, testIdentity(), time.Hour)
	require.NoError(t, err)

	_, err = pkgjwt.Parse("otro-secret-completamente-distinto", tok)
	assert.Error(t, err)
}

func TestParse_PropositoDistinto(t *testing.T) {
	tok, err := pkgjwt.GenerateWithPurpose(testSecret, testIssuer, pkgjwt.PurposeEmailVerification, "user-1", time.Hour)
	require.NoError(t, err)

	_, err = pkgjwt.Parse(testSecret, tok)
	assert.ErrorIs(t, err, pkgjwt.ErrWrongPurpose, "un token de verificación no sirve como sesión")

	claims, err := pkgjwt.ParsePurpose(testSecret, tok, pkgjwt.PurposeEmailVerification)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := pkgjwt.Generate("", testIssuer, testIdentity(), time.Hour)
	assert.Error(t, err)
}
