package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/invoicegen-api/internal/infrastructure/observability"
	"github.com/jhoicas/invoicegen-api/pkg/logger"
)

// RequestObserver registra cada petición en el log y en las métricas (metrics puede ser nil).
// Resuelve aquí el error del handler para registrar el código final.
func RequestObserver(log *logger.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		if err := c.Next(); err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		latency := time.Since(start)
		status := c.Response().StatusCode()

		route := c.Route().Path
		if metrics != nil {
			metrics.RecordHTTP(c.Method(), route, status, latency)
		}
		log.Info().
			Str("method", c.Method()).
			Str("path", c.Path()).
			Str("route", route).
			Int("status", status).
			Dur("latency", latency).
			Msg("request")
		return nil
	}
}
