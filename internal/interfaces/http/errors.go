package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/invoicegen-api/internal/application/auth"
	"github.com/jhoicas/invoicegen-api/internal/application/dto"
	"github.com/jhoicas/invoicegen-api/internal/domain"
	"github.com/jhoicas/invoicegen-api/pkg/logger"
)

// errorMapping código HTTP y código de error para cada error de dominio.
var errorMapping = []struct {
	target error
	status int
	code   string
}{
	{domain.ErrUnauthenticated, fiber.StatusUnauthorized, "UNAUTHENTICATED"},
	{domain.ErrInvalidCredential, fiber.StatusForbidden, "INVALID_TOKEN"},
	{domain.ErrAccountNotFound, fiber.StatusUnauthorized, "ACCOUNT_NOT_FOUND"},
	{domain.ErrDuplicateInvoiceNumber, fiber.StatusBadRequest, "DUPLICATE_INVOICE_NUMBER"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrUnsupportedMediaType, fiber.StatusUnsupportedMediaType, "UNSUPPORTED_MEDIA_TYPE"},
	{domain.ErrEmailAlreadyExists, fiber.StatusBadRequest, "EMAIL_EXISTS"},
	{domain.ErrInvalidLogin, fiber.StatusUnauthorized, "INVALID_LOGIN"},
	{domain.ErrInvalidToken, fiber.StatusBadRequest, "INVALID_VERIFICATION_TOKEN"},
	{auth.ErrFederatedDisabled, fiber.StatusServiceUnavailable, "FEDERATED_DISABLED"},
}

// ErrorHandler traduce errores de dominio a respuestas JSON. Los errores no
// reconocidos se registran y responden 500 sin exponer el detalle.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status, body := classify(err)
		if status >= fiber.StatusInternalServerError {
			log.Error().Err(err).
				Str("method", c.Method()).
				Str("path", c.Path()).
				Msg("error interno")
		}
		return c.Status(status).JSON(body)
	}
}

func classify(err error) (int, dto.ErrorResponse) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Message: domain.ErrValidation.Error(), Fields: verr.Fields}
	}
	for _, m := range errorMapping {
		if errors.Is(err, m.target) {
			return m.status, dto.ErrorResponse{Code: m.code, Message: err.Error()}
		}
	}
	var ferr *fiber.Error
	if errors.As(err, &ferr) && ferr.Code < fiber.StatusInternalServerError {
		return ferr.Code, dto.ErrorResponse{Code: "HTTP_" + strconv.Itoa(ferr.Code), Message: ferr.Message}
	}
	return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"}
}

// invalidBody error de validación para un cuerpo que no se pudo decodificar.
func invalidBody() error {
	v := &domain.ValidationError{}
	v.Add("body", "cuerpo inválido")
	return v
}
