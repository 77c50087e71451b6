// Package pdf implementa el motor de render de facturas con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  INVOICE + N°                │  Emisor: empresa / contacto   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FACTURADO A: cliente        │  Emitida / Vence              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Descripción | Cant | Tarifa | Importe                │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / Impuesto / Total / Pagado / Saldo       │
//	│  PAGO: método, banco, cuenta         │  Firma                │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/invoicegen-api/internal/application/billing"
	"github.com/jhoicas/invoicegen-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 79, Green: 70, Blue: 229}
	colorGray    = &props.Color{Red: 107, Green: 114, Blue: 128}
	colorLight   = &props.Color{Red: 229, Green: 231, Blue: 235}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoGenerator arma el documento de una factura. No tiene estado mutable:
// varias sesiones del motor lo usan en paralelo.
type MarotoGenerator struct {
	signatureDir    string // directorio local de las firmas
	signaturePrefix string // prefijo público de SignatureURL
}

// NewMarotoGenerator construye el generador. Las firmas con URL bajo publicPrefix
// se leen de dir; cualquier otra firma se omite del documento.
func NewMarotoGenerator(dir, publicPrefix string) *MarotoGenerator {
	return &MarotoGenerator{signatureDir: dir, signaturePrefix: strings.TrimSuffix(publicPrefix, "/") + "/"}
}

// Generate genera el PDF y devuelve sus bytes.
func (g *MarotoGenerator) Generate(doc billing.DocumentData) ([]byte, error) {
	inv, sender := doc.Invoice, doc.Sender
	if inv == nil {
		return nil, fmt.Errorf("pdf: factura vacía")
	}
	money := newMoneyFormatter(sender.Currency)

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).WithRightMargin(12).
		WithTopMargin(12).WithBottomMargin(12).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Invoice "+inv.InvoiceNumber, true).
		WithAuthor(sender.CompanyName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(inv, sender))
	m.AddRows(line.NewRow(2, props.Line{Color: colorPrimary, Thickness: 0.6}))
	m.AddRows(billedToRow(inv))
	m.AddRows(line.NewRow(4))

	m.AddRows(tableHeaderRow())
	m.AddRows(line.NewRow(1, props.Line{Color: colorLight, Thickness: 0.3}))
	m.AddRows(itemRows(inv.Items, money)...)

	m.AddRows(line.NewRow(2, props.Line{Color: colorLight, Thickness: 0.3}))
	m.AddRows(totalsRow(inv.Financials, money))
	m.AddRows(line.NewRow(4))
	m.AddRows(settlementRow(inv.Settlement, sender, g.signaturePath(sender.SignatureURL)))

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return out.GetBytes(), nil
}

// signaturePath resuelve SignatureURL a un archivo local existente, o "".
func (g *MarotoGenerator) signaturePath(url string) string {
	if url == "" || !strings.HasPrefix(url, g.signaturePrefix) {
		return ""
	}
	path := filepath.Join(g.signatureDir, filepath.Base(url))
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(inv *entity.Invoice, s billing.Sender) core.Row {
	return row.New(24).Add(
		col.New(6).Add(
			text.New("INVOICE", props.Text{Style: fontstyle.Bold, Size: 22, Color: colorPrimary, Top: 1}),
			text.New("#"+inv.InvoiceNumber, props.Text{Size: 10, Top: 12, Color: colorGray}),
		),
		col.New(6).Add(
			text.New(s.CompanyName, props.Text{Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 1}),
			text.New(s.Email, props.Text{Size: 8, Align: align.Right, Top: 8, Color: colorGray}),
			text.New(s.Address, props.Text{Size: 8, Align: align.Right, Top: 12, Color: colorGray}),
			text.New(s.Phone, props.Text{Size: 8, Align: align.Right, Top: 16, Color: colorGray}),
		),
	)
}

func billedToRow(inv *entity.Invoice) core.Row {
	due := "—"
	if inv.DueDate != nil {
		due = inv.DueDate.Format("02 Jan 2006")
	}
	return row.New(24).Add(
		col.New(7).Add(
			label("BILLED TO", align.Left, 2),
			text.New(inv.Client.Name, props.Text{Style: fontstyle.Bold, Size: 10, Top: 7}),
			text.New(inv.Client.Email, props.Text{Size: 8, Top: 12, Color: colorGray}),
			text.New(inv.Client.Address, props.Text{Size: 8, Top: 16, Color: colorGray}),
		),
		col.New(5).Add(
			label("DATE ISSUED", align.Right, 2),
			text.New(inv.IssuedDate.Format("02 Jan 2006"), props.Text{Size: 9, Align: align.Right, Top: 6}),
			label("DUE DATE", align.Right, 12),
			text.New(due, props.Text{Size: 9, Align: align.Right, Top: 16}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorGray, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("DESCRIPTION", 6, align.Left),
		h("QTY", 1, align.Center),
		h("RATE", 2, align.Right),
		h("AMOUNT", 3, align.Right),
	)
}

func itemRows(items []entity.LineItem, money moneyFormatter) []core.Row {
	rows := make([]core.Row, 0, len(items))
	for _, it := range items {
		cell := props.Text{Size: 8, Top: 1.5, Left: 1, Right: 1}
		center, right := cell, cell
		center.Align = align.Center
		right.Align = align.Right
		rows = append(rows, row.New(7).Add(
			col.New(6).Add(text.New(it.Description, cell)),
			col.New(1).Add(text.New(fmt.Sprintf("%d", it.Quantity), center)),
			col.New(2).Add(text.New(money.Format(it.Rate), right)),
			col.New(3).Add(text.New(money.Format(it.Amount), right)),
		))
	}
	return rows
}

// totalsRow muestra los totales tal como los envió el cliente.
func totalsRow(f entity.Financials, money moneyFormatter) core.Row {
	lbl := func(s string, top float64, bold bool) core.Component {
		p := props.Text{Size: 9, Align: align.Right, Right: 2, Top: top}
		if bold {
			p.Style, p.Color, p.Size = fontstyle.Bold, colorPrimary, 11
		}
		return text.New(s, p)
	}
	val := func(d decimal.Decimal, top float64, bold bool) core.Component {
		p := props.Text{Size: 9, Align: align.Right, Right: 1, Top: top}
		if bold {
			p.Style, p.Color, p.Size = fontstyle.Bold, colorPrimary, 11
		}
		return text.New(money.Format(d), p)
	}
	taxLabel := "Tax (" + f.TaxRate.String() + "%):"

	return row.New(34).Add(
		col.New(6),
		col.New(3).Add(
			lbl("Subtotal:", 0, false),
			lbl(taxLabel, 6, false),
			lbl("Total:", 13, true),
			lbl("Amount paid:", 21, false),
			lbl("Balance due:", 27, false),
		),
		col.New(3).Add(
			val(f.Subtotal, 0, false),
			val(f.TaxAmount, 6, false),
			val(f.TotalGross, 13, true),
			val(f.AmountPaid, 21, false),
			val(f.BalanceDue, 27, false),
		),
	)
}

func settlementRow(st entity.Settlement, s billing.Sender, signature string) core.Row {
	payment := col.New(7).Add(
		label("PAYMENT", align.Left, 2),
		text.New(nonEmpty(st.Method, "—"), props.Text{Size: 9, Top: 7}),
		text.New(st.Details, props.Text{Size: 8, Top: 12, Color: colorGray}),
		text.New(bankLine(s), props.Text{Size: 8, Top: 17, Color: colorGray}),
	)
	sig := col.New(5).Add(label("AUTHORIZED SIGNATURE", align.Right, 2))
	if signature != "" {
		sig = col.New(5).Add(
			label("AUTHORIZED SIGNATURE", align.Right, 2),
			image.NewFromFile(signature, props.Rect{Top: 6, Percent: 70, Center: false, Left: 20}),
		)
	}
	return row.New(32).Add(payment, sig)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func label(s string, a align.Type, top float64) core.Component {
	return text.New(s, props.Text{Style: fontstyle.Bold, Size: 7, Align: a, Color: colorGray, Top: top})
}

func bankLine(s billing.Sender) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{s.BankName, s.AccountName, s.AccountNumber} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " · ")
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
