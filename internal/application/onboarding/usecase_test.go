package onboarding_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoicegen-api/internal/application/auth"
	"github.com/jhoicas/invoicegen-api/internal/application/dto"
	"github.com/jhoicas/invoicegen-api/internal/application/onboarding"
	"github.com/jhoicas/invoicegen-api/internal/domain"
	"github.com/jhoicas/invoicegen-api/internal/domain/entity"
	"github.com/jhoicas/invoicegen-api/internal/infrastructure/storage"
	"github.com/jhoicas/invoicegen-api/internal/testutil"
	"github.com/jhoicas/invoicegen-api/pkg/config"
)

const accountID = "00000000-0000-0000-0000-0000000000a1"

// memStore numera las firmas: la primera es sig-1.png.
type memStore struct {
	saved   []string
	removed []string
}

func (s *memStore) Save(_ context.Context, up onboarding.Upload) (string, error) {
	b, err := io.ReadAll(up.Reader)
	if err != nil {
		return "", err
	}
	s.saved = append(s.saved, string(b))
	return fmt.Sprintf("/uploads/signatures/sig-%d.png", len(s.saved)), nil
}

func (s *memStore) Remove(_ context.Context, url string) error {
	s.removed = append(s.removed, url)
	return nil
}

// deletedBeforeUpdate borra la cuenta entre la lectura y la actualización.
type deletedBeforeUpdate struct{ *testutil.Accounts }

func (r deletedBeforeUpdate) Update(ctx context.Context, a *entity.Account) error {
	r.Remove(a.ID)
	return r.Accounts.Update(ctx, a)
}

type failingUpdate struct{ *testutil.Accounts }

func (failingUpdate) Update(context.Context, *entity.Account) error { return errors.New("db caída") }

func pngUpload(data string) *onboarding.Upload {
	return &onboarding.Upload{Filename: "firma.png", ContentType: "image/png", Reader: strings.NewReader(data)}
}

func setup() (*onboarding.OnboardingUseCase, *testutil.Accounts, *memStore, *auth.AuthContext) {
	acc := &entity.Account{ID: accountID, Name: "Ada", Email: "ada@example.com", Currency: entity.DefaultCurrency}
	accounts := testutil.NewAccounts(acc)
	store := &memStore{}
	return onboarding.NewOnboardingUseCase(accounts, store), accounts, store, &auth.AuthContext{Account: acc}
}

func validRequest() dto.OnboardRequest {
	return dto.OnboardRequest{CompanyName: "Acme", Address: "1 Road", Phone: "+234 1"}
}

func TestComplete_GuardaPerfilYFirma(t *testing.T) {
	uc, accounts, store, actx := setup()
	ctx := context.Background()

	in := validRequest()
	rate := decimal.NewFromInt(10)
	in.TaxRate = &rate
	out, err := uc.Complete(ctx, actx, in, &onboarding.Upload{
		Filename: "firma.png", ContentType: "image/png", Reader: strings.NewReader("PNGDATA"),
	})
	require.NoError(t, err)
	assert.True(t, out.User.IsOnboarded)
	assert.Equal(t, "/uploads/signatures/sig-1.png", out.User.SignatureURL)
	assert.Equal(t, []string{"PNGDATA"}, store.saved)
	assert.Empty(t, store.removed)

	stored, _ := accounts.GetByID(ctx, accountID)
	assert.Equal(t, "Acme", stored.CompanyName)
	assert.True(t, stored.TaxRate.Equal(decimal.NewFromInt(10)))
	assert.True(t, stored.IsOnboarded)
}

func TestComplete_SobrescribeAlRepetir(t *testing.T) {
	uc, accounts, _, actx := setup()
	ctx := context.Background()

	_, err := uc.Complete(ctx, actx, validRequest(), nil)
	require.NoError(t, err)

	again := validRequest()
	again.CompanyName = "Acme 2"
	_, err = uc.Complete(ctx, actx, again, nil)
	require.NoError(t, err)

	stored, _ := accounts.GetByID(ctx, accountID)
	assert.Equal(t, "Acme 2", stored.CompanyName)
}

func TestComplete_ReemplazaFirmaAnterior(t *testing.T) {
	uc, accounts, store, actx := setup()
	ctx := context.Background()

	_, err := uc.Complete(ctx, actx, validRequest(), pngUpload("v1"))
	require.NoError(t, err)
	out, err := uc.Complete(ctx, actx, validRequest(), pngUpload("v2"))
	require.NoError(t, err)

	assert.Equal(t, "/uploads/signatures/sig-2.png", out.User.SignatureURL)
	assert.Equal(t, []string{"/uploads/signatures/sig-1.png"}, store.removed)

	_, err = uc.Complete(ctx, actx, validRequest(), nil)
	require.NoError(t, err)
	stored, _ := accounts.GetByID(ctx, accountID)
	assert.Empty(t, stored.SignatureURL)
	assert.Equal(t, []string{"/uploads/signatures/sig-1.png", "/uploads/signatures/sig-2.png"}, store.removed)
}

func TestComplete_TasaCeroExplicita(t *testing.T) {
	uc, accounts, _, actx := setup()
	ctx := context.Background()

	ten := decimal.NewFromInt(10)
	in := validRequest()
	in.TaxRate = &ten
	_, err := uc.Complete(ctx, actx, in, nil)
	require.NoError(t, err)

	_, err = uc.Complete(ctx, actx, validRequest(), nil)
	require.NoError(t, err)
	stored, _ := accounts.GetByID(ctx, accountID)
	assert.True(t, stored.TaxRate.Equal(ten), "sin taxRate se conserva")

	zero := decimal.Zero
	in.TaxRate = &zero
	_, err = uc.Complete(ctx, actx, in, nil)
	require.NoError(t, err)
	stored, _ = accounts.GetByID(ctx, accountID)
	assert.True(t, stored.TaxRate.IsZero())
}

func TestComplete_RechazaNoImagen(t *testing.T) {
	uc, _, store, actx := setup()
	_, err := uc.Complete(context.Background(), actx, validRequest(), &onboarding.Upload{
		Filename: "doc.pdf", ContentType: "application/pdf", Reader: strings.NewReader("%PDF"),
	})
	assert.ErrorIs(t, err, domain.ErrUnsupportedMediaType)
	assert.Empty(t, store.saved)
}

func TestComplete_Validacion(t *testing.T) {
	uc, _, _, actx := setup()
	_, err := uc.Complete(context.Background(), actx, dto.OnboardRequest{CompanyName: "Acme"}, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestComplete_CuentaBorrada(t *testing.T) {
	uc, accounts, _, actx := setup()
	accounts.Remove(accountID)
	_, err := uc.Complete(context.Background(), actx, validRequest(), nil)
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)

	// Borrada después de leerla: la firma ya escrita no queda en disco.
	dir := t.TempDir()
	disk, err := storage.NewDiskStore(config.UploadConfig{Dir: dir, PublicURL: "/uploads/signatures"})
	require.NoError(t, err)
	acc := &entity.Account{ID: accountID, Name: "Ada", Email: "ada@example.com"}
	racy := deletedBeforeUpdate{testutil.NewAccounts(acc)}
	uc = onboarding.NewOnboardingUseCase(racy, disk)

	_, err = uc.Complete(context.Background(), &auth.AuthContext{Account: acc}, validRequest(), pngUpload("PNGDATA"))
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "la firma huérfana se borra")
}

func TestComplete_FalloAlActualizarBorraFirmaNueva(t *testing.T) {
	acc := &entity.Account{ID: accountID, Name: "Ada", Email: "ada@example.com", SignatureURL: "/uploads/signatures/sig-0.png"}
	store := &memStore{}
	uc := onboarding.NewOnboardingUseCase(failingUpdate{testutil.NewAccounts(acc)}, store)

	_, err := uc.Complete(context.Background(), &auth.AuthContext{Account: acc}, validRequest(), pngUpload("PNGDATA"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrAccountNotFound)
	assert.Equal(t, []string{"/uploads/signatures/sig-1.png"}, store.removed, "la firma anterior sigue en uso")
}

func TestIsImage(t *testing.T) {
	assert.True(t, onboarding.IsImage("image/png"))
	assert.True(t, onboarding.IsImage("image/jpeg; charset=binary"))
	assert.False(t, onboarding.IsImage("text/plain"))
	assert.False(t, onboarding.IsImage(""))
}

func TestProfile(t *testing.T) {
	uc, _, _, actx := setup()
	actx.Account.CompanyName = "Acme"
	out := uc.Profile(context.Background(), actx)
	assert.Equal(t, "Acme", out.User.CompanyName)
}
