package http_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoicegen-api/internal/domain"
	"github.com/jhoicas/invoicegen-api/internal/infrastructure/observability"
	apphttp "github.com/jhoicas/invoicegen-api/internal/interfaces/http"
	"github.com/jhoicas/invoicegen-api/pkg/logger"
)

func TestRequestObserver_RegistraCodigoFinal(t *testing.T) {
	var logs bytes.Buffer
	log := logger.NewWithWriter(&logs, "info")
	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(log)})
	app.Use(apphttp.RequestObserver(log, metrics))
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/missing/:id", func(c *fiber.Ctx) error { return domain.ErrNotFound })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ok", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/missing/42", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode, "el error pasa por el ErrorHandler una sola vez")

	n, err := testutil.GatherAndCount(metrics.Registry, "invoicegen_http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n, "una serie por ruta y código")

	out := logs.String()
	assert.Contains(t, out, `"route":"/missing/:id"`)
	assert.Contains(t, out, `"status":404`)
	assert.Equal(t, 2, strings.Count(out, `"message":"request"`))
}

func TestRequestObserver_SinMetricas(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(logger.Nop())})
	app.Use(apphttp.RequestObserver(logger.Nop(), nil))
	app.Get("/", func(c *fiber.Ctx) error { return fiber.ErrTeapot })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusTeapot, resp.StatusCode)
}
