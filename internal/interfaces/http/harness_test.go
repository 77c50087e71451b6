package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoicegen-api/internal/application/analytics"
	"github.com/jhoicas/invoicegen-api/internal/application/auth"
	"github.com/jhoicas/invoicegen-api/internal/application/billing"
	"github.com/jhoicas/invoicegen-api/internal/application/onboarding"
	"github.com/jhoicas/invoicegen-api/internal/domain/entity"
	apphttp "github.com/jhoicas/invoicegen-api/internal/interfaces/http"
	"github.com/jhoicas/invoicegen-api/internal/testutil"
	pkgjwt "github.com/jhoicas/invoicegen-api/pkg/jwt"
	"github.com/jhoicas/invoicegen-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testIssuer    = "invoicegen-test"
	testFrontend  = "http://front.test"
	accountA      = "00000000-0000-0000-0000-0000000000a1"
	accountB      = "00000000-0000-0000-0000-0000000000b2"
)

// fakeRenderer motor de render en memoria.
type fakeRenderer struct {
	mu        sync.Mutex
	renderErr error
	closed    int
}

func (r *fakeRenderer) Acquire(context.Context) (billing.RenderSession, error) {
	return &fakeSession{r: r}, nil
}

type fakeSession struct{ r *fakeRenderer }

func (s *fakeSession) Render(_ context.Context, doc billing.DocumentData) ([]byte, error) {
	if s.r.renderErr != nil {
		return nil, s.r.renderErr
	}
	return []byte("%PDF-1.3 " + doc.Invoice.InvoiceNumber), nil
}

func (s *fakeSession) Close() error {
	s.r.mu.Lock()
	defer s.r.mu.Unlock()
	s.r.closed++
	return nil
}

type fakeStore struct{}

func (fakeStore) Save(_ context.Context, up onboarding.Upload) (string, error) {
	if _, err := io.Copy(io.Discard, up.Reader); err != nil {
		return "", err
	}
	return "/uploads/signatures/sig-test.png", nil
}

func (fakeStore) Remove(context.Context, string) error { return nil }

type sentMail struct{ to, link string }

type captureMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

func (m *captureMailer) SendVerification(_ context.Context, to, _ string, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{to: to, link: link})
	return nil
}

// testEnv app completa sobre repositorios en memoria.
type testEnv struct {
	app      *fiber.App
	accounts *testutil.Accounts
	invoices *testutil.Invoices
	renderer *fakeRenderer
	mailer   *captureMailer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	accounts := testutil.NewAccounts(
		&entity.Account{ID: accountA, Name: "Ada", Email: "ada@example.com", IsVerified: true, Currency: entity.DefaultCurrency},
		&entity.Account{ID: accountB, Name: "Bob", Email: "bob@example.com", IsVerified: true, Currency: entity.DefaultCurrency},
	)
	invoices := testutil.NewInvoices()
	renderer := &fakeRenderer{}
	mailer := &captureMailer{}

	authUC := auth.NewAuthUseCase(accounts, mailer, nil, auth.Config{
		Secret:     testJWTSecret,
		Issuer:     testIssuer,
		BaseURL:    "http://api.test",
		BcryptCost: 4,
	})

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(logger.Nop())})
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:       authUC,
		OnboardingUC: onboarding.NewOnboardingUseCase(accounts, fakeStore{}),
		InvoiceUC:    billing.NewInvoiceUseCase(invoices, nil),
		PDFUC:        billing.NewPDFUseCase(invoices, nil, renderer),
		ReportUC:     analytics.NewReportUseCase(invoices),
		FrontendURL:  testFrontend,
		Logger:       logger.Nop(),
	})
	return &testEnv{app: app, accounts: accounts, invoices: invoices, renderer: renderer, mailer: mailer}
}

// tokenFor genera un token de sesión válido para la cuenta.
func tokenFor(t *testing.T, accountID string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testIssuer, pkgjwt.Identity{UserID: accountID}, time.Hour)
	require.NoError(t, err)
	return tok
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body struct {
		Code string `json:"code"`
	}
	decodeJSON(t, resp, &body)
	return body.Code
}

// invoiceBody factura de ejemplo emitida hoy: 2 × 100, total 220 sin pagar.
func invoiceBody(number string) map[string]any {
	return map[string]any{
		"meta":    map[string]any{"invoiceNumber": number},
		"billing": map[string]any{"clientName": "Globex", "clientEmail": "billing@globex.com", "clientAddress": "5 Main St"},
		"items":   []map[string]any{{"description": "Design", "quantity": 2, "rate": 100}},
		"financials": map[string]any{
			"subtotal": 200, "taxRate": 10, "taxAmount": 20,
			"totalGross": 220, "amountPaid": 0, "balanceDue": 220, "isPaidInFull": false,
		},
		"settlement": map[string]any{"method": "bank", "details": "Acme Bank 0123"},
	}
}

func storedAccount(t *testing.T, e *testEnv, id string) *entity.Account {
	t.Helper()
	acc, err := e.accounts.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, acc)
	return acc
}

var errBoom = errors.New("motor caído")
