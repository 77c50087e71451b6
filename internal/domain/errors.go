package domain

import (
	"errors"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrUnauthenticated        = errors.New("no autenticado")
	ErrInvalidCredential      = errors.New("token inválido o expirado")
	ErrAccountNotFound        = errors.New("cuenta no encontrada")
	ErrValidation             = errors.New("datos inválidos")
	ErrDuplicateInvoiceNumber = errors.New("el número de factura ya existe")
	ErrNotFound               = errors.New("recurso no encontrado")
	ErrUnsupportedMediaType   = errors.New("el archivo no es una imagen")
	ErrEmailAlreadyExists     = errors.New("el email ya está registrado")
	ErrInvalidLogin           = errors.New("credenciales inválidas")
	ErrInvalidToken           = errors.New("token de verificación inválido")
)

// FieldError mensaje de validación asociado a un campo del cuerpo.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError agrupa los errores por campo. errors.Is(err, ErrValidation) es true.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Field+": "+f.Message)
	}
	return ErrValidation.Error() + ": " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Add registra un error de campo.
func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// OrNil devuelve nil si no hay errores acumulados.
func (e *ValidationError) OrNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}
