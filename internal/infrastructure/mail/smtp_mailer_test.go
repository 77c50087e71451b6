package mail_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/jhoicas/invoicegen-api/internal/infrastructure/mail"
	"github.com/jhoicas/invoicegen-api/pkg/logger"
)

type fakeDialer struct {
	sent  []*gomail.Message
	err   error
	calls int
}

func (d *fakeDialer) DialAndSend(m ...*gomail.Message) error {
	d.calls++
	if d.err != nil {
		return d.err
	}
	d.sent = append(d.sent, m...)
	return nil
}

func TestSendVerification(t *testing.T) {
	d := &fakeDialer{}
	m := mail.NewSMTPMailerWithDialer("no-reply@invoicegen.local", d)

	link := "http://localhost:3000/api/auth/verify-email/abc"
	require.NoError(t, m.SendVerification(context.Background(), "ada@example.com", "Ada", link))
	require.Len(t, d.sent, 1)

	msg := d.sent[0]
	assert.Equal(t, []string{"Verify Your Email Address"}, msg.GetHeader("Subject"))
	assert.Contains(t, msg.GetHeader("To")[0], "ada@example.com")

	var raw bytes.Buffer
	_, err := msg.WriteTo(&raw)
	require.NoError(t, err)
	assert.True(t, strings.Contains(raw.String(), "text/html"))
}

func TestSendVerification_BreakerSeAbre(t *testing.T) {
	d := &fakeDialer{err: errors.New("connection refused")}
	m := mail.NewSMTPMailerWithDialer("no-reply@invoicegen.local", d)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		assert.Error(t, m.SendVerification(ctx, "ada@example.com", "Ada", "http://x"))
	}
	err := m.SendVerification(ctx, "ada@example.com", "Ada", "http://x")
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 3, d.calls, "con el circuito abierto no se intenta la conexión")
}

func TestSendVerification_ContextoCancelado(t *testing.T) {
	d := &fakeDialer{}
	m := mail.NewSMTPMailerWithDialer("x@y.z", d)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, m.SendVerification(ctx, "a@b.c", "", "http://x"), context.Canceled)
	assert.Zero(t, d.calls)
}

func TestLogMailer(t *testing.T) {
	var buf bytes.Buffer
	m := mail.NewLogMailer(logger.NewWithWriter(&buf, "info"))
	require.NoError(t, m.SendVerification(context.Background(), "ada@example.com", "Ada", "http://link"))
	assert.Contains(t, buf.String(), "http://link")
}
