// Package currency renders amounts for display. Amounts are rounded to whole
// units and grouped according to the formatter's locale.
package currency

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formatter formats amounts for one locale. The zero value is not usable; use
// NewFormatter.
type Formatter struct {
	tag     language.Tag
	printer *message.Printer
}

func NewFormatter(tag language.Tag) *Formatter {
	return &Formatter{
		tag:     tag,
		printer: message.NewPrinter(tag),
	}
}

// ParseLocale parses a BCP 47 tag, falling back to English.
func ParseLocale(s string) language.Tag {
	tag, err := language.Parse(s)
	if err != nil {
		return language.English
	}
	return tag
}

func (f *Formatter) Locale() language.Tag {
	return f.tag
}

// Format renders amount in the given ISO 4217 currency with no fraction
// digits, e.g. "$1,235" or "-₩50,000". Unknown codes fall back to
// "<CODE> <amount>".
func (f *Formatter) Format(amount decimal.Decimal, code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	unit, err := currency.ParseISO(code)
	if err != nil {
		return fmt.Sprintf("%s %s", code, amount.String())
	}

	symbol := f.printer.Sprint(currency.Symbol(unit))
	if symbol == "" {
		symbol = code + " "
	}

	whole := amount.Round(0)
	sign := ""
	if whole.IsNegative() {
		sign = "-"
		whole = whole.Abs()
	}
	return sign + symbol + f.printer.Sprintf("%d", whole.IntPart())
}

// FormatValue coerces v to a number before formatting. Anything that is not
// a finite number, including nil, renders as zero.
func (f *Formatter) FormatValue(v any, code string) string {
	return f.Format(Coerce(v), code)
}

func Coerce(v any) decimal.Decimal {
	switch x := v.(type) {
	case decimal.Decimal:
		return x
	case *decimal.Decimal:
		if x != nil {
			return *x
		}
	case int:
		return decimal.NewFromInt(int64(x))
	case int64:
		return decimal.NewFromInt(x)
	case float64:
		if !math.IsNaN(x) && !math.IsInf(x, 0) {
			return decimal.NewFromFloat(x)
		}
	case string:
		if d, err := decimal.NewFromString(strings.TrimSpace(x)); err == nil {
			return d
		}
	}
	return decimal.Zero
}
