// Package mail envía el correo de verificación de email.
package mail

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"
	"time"

	"github.com/sony/gobreaker"
	"gopkg.in/gomail.v2"

	"github.com/jhoicas/invoicegen-api/internal/application/auth"
	"github.com/jhoicas/invoicegen-api/pkg/config"
	"github.com/jhoicas/invoicegen-api/pkg/logger"
)

var _ auth.Mailer = (*SMTPMailer)(nil)

// Dialer transporte SMTP (gomail.Dialer en producción).
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

const verificationSubject = "Verify Your Email Address"

var verificationBody = template.Must(template.New("verify").Parse(`<h2>Welcome{{if .Name}}, {{.Name}}{{end}}!</h2>
<p>Please click the link below to verify your email:</p>
<p><a href="{{.Link}}">Verify Email</a></p>
<p>This link expires in 1 hour.</p>`))

// SMTPMailer envía vía SMTP detrás de un circuit breaker. Tras 3 fallos
// consecutivos los envíos fallan sin conectar durante 30s.
type SMTPMailer struct {
	from    string
	dialer  Dialer
	breaker *gobreaker.CircuitBreaker
}

// NewSMTPMailer construye el mailer con gomail.
func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	d.TLSConfig = &tls.Config{ServerName: cfg.Host, MinVersion: tls.VersionTLS12}

	from := cfg.From
	if from == "" {
		from = cfg.User
	}
	return NewSMTPMailerWithDialer(from, d)
}

// NewSMTPMailerWithDialer permite inyectar el transporte.
func NewSMTPMailerWithDialer(from string, d Dialer) *SMTPMailer {
	return &SMTPMailer{from: from, dialer: d, breaker: newBreaker("smtp")}
}

func newBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= 3
		},
	})
}

// SendVerification envía el enlace de verificación a `to`.
func (m *SMTPMailer) SendVerification(ctx context.Context, to, name, link string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var body bytes.Buffer
	if err := verificationBody.Execute(&body, struct{ Name, Link string }{name, link}); err != nil {
		return fmt.Errorf("mail: plantilla: %w", err)
	}

	msg := gomail.NewMessage(gomail.SetCharset("UTF-8"), gomail.SetEncoding(gomail.Base64))
	msg.SetHeader("From", m.from)
	msg.SetAddressHeader("To", to, name)
	msg.SetHeader("Subject", verificationSubject)
	msg.SetBody("text/html", body.String())

	_, err := m.breaker.Execute(func() (interface{}, error) {
		return nil, m.dialer.DialAndSend(msg)
	})
	if err != nil {
		return fmt.Errorf("mail: enviar verificación: %w", err)
	}
	return nil
}

// LogMailer registra el enlace en el log en lugar de enviarlo. Se usa cuando
// no hay SMTP configurado (desarrollo local).
type LogMailer struct {
	log *logger.Logger
}

// NewLogMailer construye el mailer de desarrollo.
func NewLogMailer(log *logger.Logger) *LogMailer { return &LogMailer{log: log} }

func (m *LogMailer) SendVerification(_ context.Context, to, _, link string) error {
	m.log.Info().Str("to", to).Str("link", link).Msg("verificación de email (SMTP no configurado)")
	return nil
}
