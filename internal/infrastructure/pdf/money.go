package pdf

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// moneyFormatter imprime importes con el símbolo y la escala de la moneda de la cuenta.
type moneyFormatter struct {
	unit    currency.Unit
	known   bool
	code    string
	printer *message.Printer
}

func newMoneyFormatter(code string) moneyFormatter {
	unit, err := currency.ParseISO(code)
	return moneyFormatter{
		unit:    unit,
		known:   err == nil,
		code:    code,
		printer: message.NewPrinter(language.English),
	}
}

// Format con códigos ISO desconocidos cae a "<código> 1234.50".
func (f moneyFormatter) Format(d decimal.Decimal) string {
	if !f.known {
		return f.code + " " + d.StringFixed(2)
	}
	return f.printer.Sprint(currency.Symbol(f.unit.Amount(d.InexactFloat64())))
}
