package reporting

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultCurrencySymbol prefixes monetary figures unless configured otherwise.
const DefaultCurrencySymbol = "Rs."

// Formatter renders amounts for report tables and summaries.
type Formatter struct {
	symbol  string
	printer *message.Printer
}

// NewFormatter builds a formatter that groups thousands and prefixes amounts with symbol.
func NewFormatter(symbol string) Formatter {
	return Formatter{
		symbol:  strings.TrimSpace(symbol),
		printer: message.NewPrinter(language.English),
	}
}

// Number renders d with thousands separators and at most two decimals.
func (f Formatter) Number(d decimal.Decimal) string {
	if f.printer == nil {
		return d.String()
	}
	rounded := d.Round(2)
	if !rounded.Truncate(0).BigInt().IsInt64() {
		return groupDigits(rounded)
	}
	if rounded.IsInteger() {
		return f.printer.Sprintf("%d", rounded.IntPart())
	}
	return f.printer.Sprintf("%.2f", rounded.InexactFloat64())
}

// groupDigits renders amounts past the int64 range, which the printer cannot take exactly.
func groupDigits(d decimal.Decimal) string {
	text := d.StringFixed(2)
	if d.IsInteger() {
		text = d.StringFixed(0)
	}
	sign := ""
	if strings.HasPrefix(text, "-") {
		sign, text = "-", text[1:]
	}
	whole, frac, hasFrac := strings.Cut(text, ".")

	var b strings.Builder
	b.WriteString(sign)
	for i, digit := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}
	if hasFrac {
		b.WriteString("." + frac)
	}
	return b.String()
}

// Currency renders d as a monetary amount.
func (f Formatter) Currency(d decimal.Decimal) string {
	if f.symbol == "" {
		return f.Number(d)
	}
	return f.symbol + " " + f.Number(d)
}
