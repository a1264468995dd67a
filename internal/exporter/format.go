package exporter

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// currencySymbols maps ISO 4217 codes to display symbols. Codes not listed
// here fall back to the code itself as a prefix.
var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
}

// Formatter renders money, percentage and count values for console tables
// and chart axis labels. Numbers are grouped per English locale
// conventions ("$1,234,567.89").
type Formatter struct {
	printer *message.Printer
	symbol  string
}

// NewFormatter creates a formatter for the given ISO 4217 currency code.
func NewFormatter(currencyCode string) *Formatter {
	symbol, ok := currencySymbols[currencyCode]
	if !ok {
		symbol = currencyCode + " "
	}
	return &Formatter{
		printer: message.NewPrinter(language.English),
		symbol:  symbol,
	}
}

// Money formats a decimal amount with currency symbol and grouping.
func (f *Formatter) Money(d decimal.Decimal) string {
	v, _ := d.Round(2).Float64()
	return f.MoneyFloat(v)
}

// MoneyFloat formats a float amount with currency symbol and grouping.
// Used for chart axis ticks, which arrive as floats.
func (f *Formatter) MoneyFloat(v float64) string {
	if v < 0 {
		return "-" + f.symbol + f.printer.Sprintf("%.2f", -v)
	}
	return f.symbol + f.printer.Sprintf("%.2f", v)
}

// MoneyAxis formats a float amount for chart axes: grouped, no cents.
func (f *Formatter) MoneyAxis(v float64) string {
	if v < 0 {
		return "-" + f.symbol + f.printer.Sprintf("%.0f", -v)
	}
	return f.symbol + f.printer.Sprintf("%.0f", v)
}

// Percent formats a percentage value with two decimals. Undefined values
// (for example margin on zero revenue) render as "-".
func (f *Formatter) Percent(d decimal.NullDecimal) string {
	if !d.Valid {
		return "-"
	}
	return d.Decimal.StringFixed(2) + "%"
}

// Count formats an integer with grouping.
func (f *Formatter) Count(n int) string {
	return f.printer.Sprintf("%d", n)
}

// formatDecimal formats a decimal for CSV cells: fixed two decimals, no
// grouping, so the files stay machine readable.
func formatDecimal(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// formatNullPercent formats a nullable percentage for CSV cells; undefined
// values become an empty cell.
func formatNullPercent(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.StringFixed(2)
}
