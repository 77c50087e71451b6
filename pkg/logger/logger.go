// Package logger configura el log estructurado del API de facturación: una línea
// por request, los errores internos con su causa y, sin SMTP, los enlaces de verificación.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config opciones para el logger.
type Config struct {
	Env     string // development: consola legible; cualquier otro valor: JSON
	Level   string // debug, info, warn, error; vacío o desconocido es info
	Service string // campo "service" en cada línea
}

// Logger envuelve zerolog para inyectarlo en handlers, middleware y mailer.
type Logger struct {
	zl zerolog.Logger
}

// New crea el logger del proceso sobre stdout y lo deja como logger global de zerolog.
func New(cfg Config) *Logger {
	var w io.Writer = os.Stdout
	if cfg.Env == "development" {
		w = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.TimeOnly}
	}
	return build(w, cfg.Level, cfg.Service)
}

// NewWithWriter escribe JSON en w, sin campo service.
func NewWithWriter(w io.Writer, level string) *Logger {
	return build(w, level, "")
}

// Nop descarta todo.
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

func build(w io.Writer, level, service string) *Logger {
	ctx := zerolog.New(w).Level(parseLevel(level)).With().Timestamp()
	if service != "" {
		ctx = ctx.Str("service", service)
	}
	zl := ctx.Logger()
	log.Logger = zl
	return &Logger{zl: zl}
}

func parseLevel(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

func (l *Logger) Debug() *zerolog.Event { return l.zl.Debug() }
func (l *Logger) Info() *zerolog.Event  { return l.zl.Info() }
func (l *Logger) Warn() *zerolog.Event  { return l.zl.Warn() }
func (l *Logger) Error() *zerolog.Event { return l.zl.Error() }

// Fatal termina el proceso tras escribir; solo para fallos de arranque.
func (l *Logger) Fatal() *zerolog.Event { return l.zl.Fatal() }
