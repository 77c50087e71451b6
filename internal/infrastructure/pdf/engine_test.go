package pdf_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoicegen-api/internal/application/billing"
	"github.com/jhoicas/invoicegen-api/internal/domain/entity"
	"github.com/jhoicas/invoicegen-api/internal/infrastructure/pdf"
)

func sampleDocument() billing.DocumentData {
	due := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	return billing.DocumentData{
		Invoice: &entity.Invoice{
			InvoiceNumber: "INV-1",
			Client:        entity.Client{Name: "Globex", Email: "billing@globex.com", Address: "5 Main St"},
			Items:         []entity.LineItem{entity.NewLineItem("Design", 2, decimal.NewFromInt(100))},
			Financials: entity.Financials{
				Subtotal: decimal.NewFromInt(200), TaxRate: decimal.NewFromInt(10), TaxAmount: decimal.NewFromInt(20),
				TotalGross: decimal.NewFromInt(220), BalanceDue: decimal.NewFromInt(220),
			},
			Settlement: entity.Settlement{Method: "bank", Details: "Acme Bank 0123"},
			Status:     entity.InvoiceStatusSent,
			IssuedDate: time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC),
			DueDate:    &due,
		},
		Sender: billing.SenderFromAccount(&entity.Account{Name: "Ada", Currency: "USD"}),
	}
}

func TestMarotoGenerator_GeneraPDF(t *testing.T) {
	gen := pdf.NewMarotoGenerator(t.TempDir(), "/uploads/signatures")
	content, err := gen.Generate(sampleDocument())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(content, []byte("%PDF")))
}

func TestMarotoGenerator_FirmaInexistenteSeOmite(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "otra.txt"), []byte("x"), 0o600))
	gen := pdf.NewMarotoGenerator(dir, "/uploads/signatures/")
	doc := sampleDocument()
	doc.Sender.SignatureURL = "/uploads/signatures/sig-no-existe.png"
	doc.Sender.Currency = "XXZ" // código desconocido

	content, err := gen.Generate(doc)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(content, []byte("%PDF")))
}

type slowGenerator struct {
	delay time.Duration
}

func (g *slowGenerator) Generate(billing.DocumentData) ([]byte, error) {
	time.Sleep(g.delay)
	return []byte("%PDF-fake"), nil
}

func TestEngine_LimitaConcurrencia(t *testing.T) {
	e := pdf.NewEngine(&slowGenerator{}, 1, 0, nil)
	ctx := context.Background()

	first, err := e.Acquire(ctx)
	require.NoError(t, err)

	waitCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	_, err = e.Acquire(waitCtx)
	assert.ErrorIs(t, err, context.DeadlineExceeded, "sin cupo libre se espera hasta el deadline")

	require.NoError(t, first.Close())
	require.NoError(t, first.Close(), "Close repetido no libera dos veces")

	second, err := e.Acquire(ctx)
	require.NoError(t, err, "el cupo vuelve al liberar la sesión")
	content, err := second.Render(ctx, sampleDocument())
	require.NoError(t, err)
	assert.Equal(t, "%PDF-fake", string(content))
	require.NoError(t, second.Close())

	_, err = second.Render(ctx, sampleDocument())
	assert.ErrorIs(t, err, pdf.ErrEngineClosed)
}

type recordingObserver struct {
	opened, closed int
	errs           []error
}

func (o *recordingObserver) ObserveRender(_ time.Duration, err error) { o.errs = append(o.errs, err) }
func (o *recordingObserver) SessionOpened()                           { o.opened++ }
func (o *recordingObserver) SessionClosed()                           { o.closed++ }

func TestEngine_Timeout(t *testing.T) {
	obs := &recordingObserver{}
	e := pdf.NewEngine(&slowGenerator{delay: 200 * time.Millisecond}, 2, 20*time.Millisecond, obs)

	s, err := e.Acquire(context.Background())
	require.NoError(t, err)
	_, err = s.Render(context.Background(), sampleDocument())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	require.NoError(t, s.Close())

	assert.Equal(t, 1, obs.opened)
	assert.Equal(t, 1, obs.closed)
	require.Len(t, obs.errs, 1)
	assert.Error(t, obs.errs[0])
}

// countingGenerator registra el máximo de generaciones simultáneas.
type countingGenerator struct {
	delay   time.Duration
	running atomic.Int32
	peak    atomic.Int32
	calls   atomic.Int32
}

func (g *countingGenerator) Generate(billing.DocumentData) ([]byte, error) {
	n := g.running.Add(1)
	defer g.running.Add(-1)
	g.calls.Add(1)
	for {
		p := g.peak.Load()
		if n <= p || g.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(g.delay)
	return []byte("%PDF-fake"), nil
}

func TestEngine_TimeoutNoLiberaCupoAntesDeTerminar(t *testing.T) {
	gen := &countingGenerator{delay: 150 * time.Millisecond}
	e := pdf.NewEngine(gen, 1, 20*time.Millisecond, nil)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		s, err := e.Acquire(ctx)
		require.NoError(t, err)
		_, err = s.Render(ctx, sampleDocument())
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		require.NoError(t, s.Close())
	}

	last, err := e.Acquire(ctx)
	require.NoError(t, err, "el cupo vuelve al terminar la generación")
	require.NoError(t, last.Close())

	assert.EqualValues(t, 5, gen.calls.Load())
	assert.LessOrEqual(t, gen.peak.Load(), int32(1), "nunca más generaciones que cupos")
}

func TestEngine_CierreSinRenderLiberaAlInstante(t *testing.T) {
	e := pdf.NewEngine(&slowGenerator{}, 1, 0, nil)
	ctx := context.Background()

	s, err := e.Acquire(ctx)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	waitCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	next, err := e.Acquire(waitCtx)
	require.NoError(t, err)
	require.NoError(t, next.Close())
}
